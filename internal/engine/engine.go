// Package engine implements the calculator evaluation pipeline: field validation,
// scoring and interpretation. It is pure; every call is independent and touches no
// shared mutable state, so one Engine can serve concurrent callers.
package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// Engine evaluates calculators resolved from a catalog.
type Engine struct {
	catalog domain.CalculatorCatalog
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source of results.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine over the given catalog.
func New(catalog domain.CalculatorCatalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate validates inputs, computes the score and interprets it.
func (e *Engine) Evaluate(calculatorID string, inputs domain.Inputs) (*domain.CalculatorResult, error) {
	calc, err := e.catalog.Get(calculatorID)
	if err != nil {
		return nil, err
	}

	score, normalized, warnings, err := Score(calc, inputs)
	if err != nil {
		return nil, err
	}

	interp, interpWarnings := Interpret(calc, score, normalized)
	warnings = append(warnings, interpWarnings...)

	return &domain.CalculatorResult{
		CalculatorID:   calc.ID,
		CalculatorName: calc.Name,
		Inputs:         normalized,
		Score:          score,
		Interpretation: interp,
		Timestamp:      e.now(),
		Warnings:       warnings,
	}, nil
}

// ListCalculators returns summaries of every calculator in the category, or of all
// calculators when category is empty.
func (e *Engine) ListCalculators(category domain.Category) []domain.CalculatorSummary {
	calcs := e.catalog.List(category)
	out := make([]domain.CalculatorSummary, 0, len(calcs))
	for _, c := range calcs {
		out = append(out, c.Summary())
	}
	return out
}

// GetCalculatorSchema returns the ordered field list of a calculator.
func (e *Engine) GetCalculatorSchema(calculatorID string) ([]domain.Field, error) {
	calc, err := e.catalog.Get(calculatorID)
	if err != nil {
		return nil, err
	}
	fields := make([]domain.Field, len(calc.Fields))
	copy(fields, calc.Fields)
	return fields, nil
}

// Score validates inputs and runs the calculator's scoring strategy. The score is
// returned at whatever precision the strategy produces.
func Score(calc *domain.Calculator, inputs domain.Inputs) (float64, domain.Inputs, []string, error) {
	normalized, warnings, err := ValidateInputs(calc, inputs)
	if err != nil {
		return 0, nil, nil, err
	}
	return calc.Strategy.Score(normalized.Clone()), normalized, warnings, nil
}

// Interpret maps a score to its interpretation. Scores outside every range of the
// applicable table still get an interpretation, from the nearest range, plus a warning.
func Interpret(calc *domain.Calculator, score float64, inputs domain.Inputs) (domain.Interpretation, []string) {
	var warnings []string

	ranges := calc.RangesFor(inputs)
	if _, ok := ranges.Lookup(score); !ok {
		warnings = append(warnings, fmt.Sprintf(
			"score %s is outside the interpretation ranges of %s; nearest range used", FormatScore(score), calc.ID))
	}

	interp := calc.Strategy.Interpret(score, inputs.Clone())
	interp.Score = score
	if interp.ScoreDisplay == "" {
		interp.ScoreDisplay = FormatScore(score)
	}
	return interp, warnings
}

// FormatScore renders a score without trailing zeros.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
