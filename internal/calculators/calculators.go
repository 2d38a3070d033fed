// Package calculators defines the built-in clinical calculator catalogue.
//
// Each calculator is a static definition plus a ScoringStrategy implementation.
// Strategies receive inputs that already passed field validation; optional fields
// that were not supplied are present with value zero.
package calculators

import (
	"fmt"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// Version of the built-in catalogue definitions.
const (
	catalogueVersion = "1.0"
	catalogueUpdated = "2024-01-15"
)

// Registrar accepts calculator definitions.
type Registrar interface {
	Register(calc *domain.Calculator) error
}

// All returns fresh definitions of every built-in calculator in display order.
func All() []*domain.Calculator {
	return []*domain.Calculator{
		APACHEII(),
		SOFA(),
		QSOFA(),
		NEWS2(),
		GCS(),
		CHA2DS2VASc(),
		HEARTScore(),
		TIMISTEMI(),
		HASBLED(),
		Framingham(),
		ASCVD(),
		WellsPE(),
		CURB65(),
		PESI(),
		MELDNa(),
		ChildPugh(),
		PHQ9(),
		GAD7(),
		FourTsHIT(),
		Centor(),
		OttawaAnkle(),
		Apgar(),
		Bishop(),
		Apfel(),
		MMSE(),
	}
}

// RegisterAll registers every built-in calculator.
func RegisterAll(r Registrar) error {
	for _, calc := range All() {
		if err := r.Register(calc); err != nil {
			return fmt.Errorf("registering built-in calculators: %w", err)
		}
	}
	return nil
}

// pointSum is the strategy of calculators whose score is the plain sum of their
// field values and whose interpretation is the range table alone.
type pointSum struct {
	fields []string
	ranges domain.InterpretationRanges
}

func newPointSum(fields []domain.Field, ranges domain.InterpretationRanges) pointSum {
	return pointSum{fields: fieldIDs(fields), ranges: ranges}
}

func (s pointSum) Score(in domain.Inputs) float64 {
	return in.Sum(s.fields...)
}

func (s pointSum) Interpret(score float64, _ domain.Inputs) domain.Interpretation {
	return band(s.ranges, score)
}

// band resolves score in ranges and returns the interpretation of the matching range,
// or of the nearest one when score lies outside the table.
func band(ranges domain.InterpretationRanges, score float64) domain.Interpretation {
	r, _ := ranges.Resolve(score)
	return r.Apply(score)
}

func fieldIDs(fields []domain.Field) []string {
	ids := make([]string, len(fields))
	for i, f := range fields {
		ids[i] = f.ID
	}
	return ids
}

func opt(value float64, label string) domain.Option {
	return domain.Option{Value: value, Label: label}
}

func yesNo(id, label string, points float64, description string) domain.Field {
	return domain.Field{
		ID:          id,
		Label:       label,
		Type:        domain.FieldBoolean,
		Description: description,
		Options:     []domain.Option{opt(0, "No"), opt(points, "Yes")},
		Required:    true,
	}
}

func choice(id, label, description string, options ...domain.Option) domain.Field {
	return domain.Field{
		ID:          id,
		Label:       label,
		Type:        domain.FieldSelect,
		Description: description,
		Options:     options,
		Required:    true,
	}
}

func radio(id, label, description string, options ...domain.Option) domain.Field {
	f := choice(id, label, description, options...)
	f.Type = domain.FieldRadio
	return f
}

func number(id, label, unit string, min, max, step float64, description string) domain.Field {
	return domain.Field{
		ID:          id,
		Label:       label,
		Type:        domain.FieldNumber,
		Description: description,
		Unit:        unit,
		Validation:  &domain.Validation{Min: min, Max: max, Step: step},
		Required:    true,
	}
}

func interp(category string, risk domain.RiskLevel, recommendation, action string, notes ...string) domain.Interpretation {
	return domain.Interpretation{
		Category:       category,
		Risk:           risk,
		Recommendation: recommendation,
		Action:         action,
		Notes:          notes,
	}
}

func withMortality(i domain.Interpretation, mortality string) domain.Interpretation {
	i.Mortality = mortality
	return i
}

func withMorbidity(i domain.Interpretation, morbidity string) domain.Interpretation {
	i.Morbidity = morbidity
	return i
}

func span(min, max float64, i domain.Interpretation) domain.InterpretationRange {
	return domain.InterpretationRange{Min: min, Max: max, Interpretation: i}
}
