package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	dim    lipgloss.Style
	ok     lipgloss.Style
	fail   lipgloss.Style
	risk   map[domain.RiskLevel]lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{header: plain, label: plain, dim: plain, ok: plain, fail: plain, risk: map[domain.RiskLevel]lipgloss.Style{}}
	}
	color := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:  lipgloss.NewStyle().Bold(true),
		dim:    color("8"),
		ok:     color("10"),
		fail:   color("9"),
		risk: map[domain.RiskLevel]lipgloss.Style{
			domain.RiskVeryLow:      color("10"),
			domain.RiskLow:          color("10"),
			domain.RiskLowModerate:  color("11"),
			domain.RiskModerate:     color("3"),
			domain.RiskModerateHigh: color("208"),
			domain.RiskHigh:         color("9"),
			domain.RiskVeryHigh:     color("9").Bold(true),
			domain.RiskCritical:     color("9").Bold(true).Underline(true),
		},
	}
}

func (s styles) riskStyle(r domain.RiskLevel) lipgloss.Style {
	if st, ok := s.risk[r]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

func (s styles) printResult(w io.Writer, res *domain.CalculatorResult) {
	in := res.Interpretation
	score := in.ScoreDisplay
	if score == "" {
		score = fmt.Sprintf("%g", res.Score)
	}

	fmt.Fprintf(w, "%s\n", s.header.Render(res.CalculatorName))
	fmt.Fprintf(w, "  %s %s\n", s.label.Render("Score:"), score)
	fmt.Fprintf(w, "  %s %s (%s)\n", s.label.Render("Result:"), in.Category, s.riskStyle(in.Risk).Render(string(in.Risk)))
	if in.Mortality != "" {
		fmt.Fprintf(w, "  %s %s\n", s.label.Render("Mortality:"), in.Mortality)
	}
	if in.Morbidity != "" {
		fmt.Fprintf(w, "  %s %s\n", s.label.Render("Morbidity:"), in.Morbidity)
	}
	fmt.Fprintf(w, "  %s %s\n", s.label.Render("Recommendation:"), in.Recommendation)
	if in.Action != "" {
		fmt.Fprintf(w, "  %s %s\n", s.label.Render("Action:"), in.Action)
	}
	for _, note := range in.Notes {
		fmt.Fprintf(w, "  %s\n", s.dim.Render("• "+note))
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "  %s %s\n", s.fail.Render("!"), warning)
	}
	if res.HistoryID != "" {
		fmt.Fprintf(w, "  %s\n", s.dim.Render("recorded as "+res.HistoryID))
	}
}

// table renders rows as left-aligned columns.
func (s styles) table(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, st lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = st.Render(cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	line(header, s.header)
	for _, row := range rows {
		line(row, lipgloss.NewStyle())
	}
}
