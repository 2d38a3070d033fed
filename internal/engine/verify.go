package engine

import (
	"fmt"
	"math"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// maxVerifySamples bounds the number of scores sampled per calculator.
const maxVerifySamples = 5000

// Verify checks every calculator definition and, for calculators with a single range
// table, that the strategy's interpretation agrees with the table at each score of
// the domain.
func Verify(calcs []*domain.Calculator) []error {
	var errs []error
	for _, calc := range calcs {
		if err := calc.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, selects := calc.Strategy.(domain.RangeSelector); selects {
			continue
		}
		if err := verifyConsistency(calc); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func verifyConsistency(calc *domain.Calculator) error {
	d := calc.ScoreDomain()
	steps := int(math.Round((d.Max - d.Min) / d.Step))
	if steps > maxVerifySamples {
		steps = maxVerifySamples
	}
	stride := (d.Max - d.Min) / float64(max(steps, 1))

	for i := 0; i <= steps; i++ {
		score := d.Min + float64(i)*stride
		r, ok := calc.Ranges.Lookup(score)
		if !ok {
			return fmt.Errorf("%s: score %g not covered by ranges", calc.ID, score)
		}
		got := calc.Strategy.Interpret(score, domain.Inputs{})
		if got.Category != r.Interpretation.Category {
			return fmt.Errorf("%s: score %g interpreted as %q, range table says %q",
				calc.ID, score, got.Category, r.Interpretation.Category)
		}
	}
	return nil
}
