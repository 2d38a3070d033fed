package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sumStrategy struct {
	ranges InterpretationRanges
}

func (s sumStrategy) Score(in Inputs) float64 {
	var total float64
	for _, v := range in {
		total += v
	}
	return total
}

func (s sumStrategy) Interpret(score float64, _ Inputs) Interpretation {
	r, _ := s.ranges.Resolve(score)
	return r.Apply(score)
}

type splitStrategy struct {
	sumStrategy
	alt InterpretationRanges
}

func (s splitStrategy) RangesFor(in Inputs) InterpretationRanges {
	if in.Get("sex") == 1 {
		return s.alt
	}
	return s.ranges
}

func (s splitStrategy) RangeTables() []InterpretationRanges {
	return []InterpretationRanges{s.ranges, s.alt}
}

func boolField(id string, required bool) Field {
	return Field{
		ID:       id,
		Label:    id,
		Type:     FieldBoolean,
		Options:  []Option{{Value: 0, Label: "No"}, {Value: 1, Label: "Yes"}},
		Required: required,
	}
}

func testCalculator() *Calculator {
	ranges := InterpretationRanges{
		{Min: 0, Max: 0, Interpretation: Interpretation{Category: "Low", Risk: RiskLow}},
		{Min: 1, Max: 2, Interpretation: Interpretation{Category: "High", Risk: RiskHigh}},
	}
	return &Calculator{
		ID:       "test",
		Name:     "Test Score",
		Category: CategoryGeneral,
		Fields:   []Field{boolField("a", true), boolField("b", false)},
		Ranges:   ranges,
		Strategy: sumStrategy{ranges: ranges},
	}
}

func TestCalculator_ValidateAcceptsWellFormedDefinition(t *testing.T) {
	calc := testCalculator()

	require.NoError(t, calc.Validate())
	assert.Equal(t, ScoreDomain{Min: 0, Max: 2, Step: 1}, calc.ScoreDomain())
}

func TestCalculator_ValidateRejectsStructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Calculator)
	}{
		{name: "empty id", mutate: func(c *Calculator) { c.ID = "" }},
		{name: "empty name", mutate: func(c *Calculator) { c.Name = "" }},
		{name: "unknown category", mutate: func(c *Calculator) { c.Category = "astrology" }},
		{name: "no strategy", mutate: func(c *Calculator) { c.Strategy = nil }},
		{name: "no fields", mutate: func(c *Calculator) { c.Fields = nil }},
		{name: "duplicate field", mutate: func(c *Calculator) { c.Fields[1].ID = "a" }},
		{name: "option field without options", mutate: func(c *Calculator) { c.Fields[0].Options = nil }},
		{name: "non-finite option", mutate: func(c *Calculator) { c.Fields[0].Options[0].Value = math.NaN() }},
		{name: "inverted validation", mutate: func(c *Calculator) {
			c.Fields = append(c.Fields, Field{ID: "n", Type: FieldNumber, Validation: &Validation{Min: 5, Max: 1}})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := testCalculator()
			tt.mutate(calc)

			err := calc.Validate()

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDefinition))
		})
	}
}

func TestCalculator_ValidateReportsCoverageGap(t *testing.T) {
	// Arrange
	calc := testCalculator()
	calc.Ranges = InterpretationRanges{
		{Min: 0, Max: 0, Interpretation: Interpretation{Category: "Low"}},
		{Min: 2, Max: 2, Interpretation: Interpretation{Category: "High"}},
	}

	// Act
	err := calc.Validate()

	// Assert
	require.Error(t, err)
	var cov *CoverageError
	require.True(t, errors.As(err, &cov))
	assert.Equal(t, "test", cov.CalculatorID)
	assert.Equal(t, CoverageGap, cov.Kind)
	assert.Equal(t, 1.0, cov.From)
}

func TestCalculator_DeclaredDomain(t *testing.T) {
	calc := testCalculator()
	calc.Domain = &ScoreDomain{Min: 0, Max: 2}

	assert.Equal(t, ScoreDomain{Min: 0, Max: 2, Step: 1}, calc.ScoreDomain())
}

func TestCalculator_RangeSelector(t *testing.T) {
	// Arrange
	calc := testCalculator()
	alt := InterpretationRanges{
		{Min: 0, Max: 2, Interpretation: Interpretation{Category: "Flat"}},
	}
	calc.Strategy = splitStrategy{sumStrategy: sumStrategy{ranges: calc.Ranges}, alt: alt}

	// Act & Assert
	assert.Equal(t, alt, calc.RangesFor(Inputs{"sex": 1}))
	assert.Equal(t, calc.Ranges, calc.RangesFor(Inputs{"sex": 0}))
	assert.Len(t, calc.RangeTables(), 2)
}

func TestCalculator_Summary(t *testing.T) {
	calc := testCalculator()
	calc.ValidationStudy = "Derivation cohort"

	s := calc.Summary()

	assert.Equal(t, "test", s.ID)
	assert.Equal(t, 2, s.InputCount)
	assert.True(t, s.HasValidationStudy)
}

func TestField_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		field  Field
		lo, hi float64
	}{
		{name: "options", field: Field{Type: FieldSelect, Options: []Option{{Value: 3}, {Value: -1}, {Value: 2}}}, lo: -1, hi: 3},
		{name: "validated number", field: Field{Type: FieldNumber, Validation: &Validation{Min: 18, Max: 120}}, lo: 18, hi: 120},
		{name: "unbounded number", field: Field{Type: FieldNumber}, lo: math.Inf(-1), hi: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tt.field.Bounds()
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestField_Options(t *testing.T) {
	f := Field{Type: FieldSelect, Options: []Option{
		{Value: 0, Label: "None"},
		{Value: 2, Label: "Mild"},
		{Value: 2, Label: "Mild (alt)"},
		{Value: 4, Label: "Severe"},
	}}

	assert.True(t, f.HasOption(2))
	assert.False(t, f.HasOption(3))
	assert.Equal(t, []float64{0, 2, 4}, f.OptionValues())
	label, ok := f.OptionLabel(2)
	assert.True(t, ok)
	assert.Equal(t, "Mild", label)
}

func TestInputs(t *testing.T) {
	in := Inputs{"b": 2, "a": 1, "c": 3}

	assert.Equal(t, []string{"a", "b", "c"}, in.Keys())
	assert.Equal(t, 3.0, in.Sum("a", "b", "missing"))
	assert.True(t, in.Has("a"))
	assert.False(t, in.Has("z"))

	clone := in.Clone()
	clone["a"] = 99
	assert.Equal(t, 1.0, in.Get("a"))
}
