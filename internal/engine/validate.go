package engine

import (
	"fmt"
	"math"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// ValidateInputs gates raw inputs against the calculator's field definitions.
//
// Required fields must be present. Numeric values must be finite and inside the
// field's declared bounds; out-of-range values are rejected, never clamped. Values of
// boolean, select and radio fields must equal one of the option values. Absent optional
// fields are set to zero here and nowhere else. Keys that match no field are dropped and
// reported as warnings.
func ValidateInputs(calc *domain.Calculator, raw domain.Inputs) (domain.Inputs, []string, error) {
	normalized := make(domain.Inputs, len(calc.Fields))
	var errs domain.ValidationErrors

	for _, f := range calc.Fields {
		value, present := raw[f.ID]
		if !present {
			if f.Required {
				errs = append(errs, &domain.FieldError{
					CalculatorID: calc.ID,
					FieldID:      f.ID,
					Kind:         domain.ErrMissingRequiredField,
				})
				continue
			}
			normalized[f.ID] = 0
			continue
		}

		if math.IsNaN(value) || math.IsInf(value, 0) {
			errs = append(errs, &domain.FieldError{
				CalculatorID: calc.ID,
				FieldID:      f.ID,
				Kind:         domain.ErrInvalidNumber,
			})
			continue
		}

		if f.Type.HasOptions() {
			if !f.HasOption(value) {
				errs = append(errs, &domain.FieldError{
					CalculatorID: calc.ID,
					FieldID:      f.ID,
					Kind:         domain.ErrInvalidOption,
					Value:        value,
					Allowed:      f.OptionValues(),
				})
				continue
			}
		} else if v := f.Validation; v != nil && (value < v.Min || value > v.Max) {
			errs = append(errs, &domain.FieldError{
				CalculatorID: calc.ID,
				FieldID:      f.ID,
				Kind:         domain.ErrOutOfRange,
				Value:        value,
				Min:          v.Min,
				Max:          v.Max,
			})
			continue
		}

		normalized[f.ID] = value
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}

	var warnings []string
	for _, key := range raw.Keys() {
		if _, ok := calc.Field(key); !ok {
			warnings = append(warnings, fmt.Sprintf("ignored unknown input %q", key))
		}
	}

	return normalized, warnings, nil
}
