package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

func (a *app) listCommand() *cobra.Command {
	var category, query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calculators, optionally by category or search query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.calc()
			if err != nil {
				return err
			}

			var summaries []domain.CalculatorSummary
			switch {
			case query != "":
				summaries = svc.Search(query)
			case category != "":
				cat := domain.Category(category)
				if !cat.IsValid() {
					return fmt.Errorf("unknown category %q", category)
				}
				summaries = svc.ListCalculators(cat)
			default:
				summaries = svc.ListCalculators("")
			}

			out := cmd.OutOrStdout()
			return a.render(out, summaries, func() error {
				rows := make([][]string, len(summaries))
				for i, s := range summaries {
					rows[i] = []string{s.ID, s.Abbreviation, string(s.Category), fmt.Sprint(s.InputCount)}
				}
				newStyles(a.v.GetBool(keyNoColor)).table(out, []string{"ID", "NAME", "CATEGORY", "INPUTS"}, rows)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category key, for example cardiology")
	cmd.Flags().StringVarP(&query, "search", "s", "", "search terms")
	return cmd
}

func (a *app) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <calculator-id>",
		Short: "Print the input fields of a calculator",
		Long:  "Print the input fields of a calculator. The text format prints YAML.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.calc()
			if err != nil {
				return err
			}
			fields, err := svc.Schema(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return a.render(out, fields, func() error {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(map[string]any{"calculator_id": args[0], "fields": fields}); err != nil {
					return err
				}
				return enc.Close()
			})
		},
	}
}

func (a *app) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every built-in calculator definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.calc()
			if err != nil {
				return err
			}
			st := newStyles(a.v.GetBool(keyNoColor))
			out := cmd.OutOrStdout()

			problems := svc.Verify()
			if len(problems) == 0 {
				fmt.Fprintln(out, st.ok.Render(fmt.Sprintf("✓ %d calculators verified", len(svc.ListCalculators("")))))
				return nil
			}
			msgs := make([]string, len(problems))
			for i, p := range problems {
				msgs[i] = p.Error()
				fmt.Fprintln(out, st.fail.Render("✗ "+p.Error()))
			}
			return fmt.Errorf("%d definition problems: %s", len(problems), strings.Join(msgs, "; "))
		},
	}
}
