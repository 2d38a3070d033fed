package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeBandTable() InterpretationRanges {
	return InterpretationRanges{
		{Min: 0, Max: 1, Interpretation: Interpretation{Category: "Low", Risk: RiskLow, Recommendation: "Outpatient"}},
		{Min: 2, Max: 2, Interpretation: Interpretation{Category: "Moderate", Risk: RiskModerate, Recommendation: "Admit"}},
		{Min: 3, Max: 5, Interpretation: Interpretation{Category: "High", Risk: RiskHigh, Recommendation: "ICU"}},
	}
}

func TestInterpretationRanges_Lookup(t *testing.T) {
	table := threeBandTable()

	tests := []struct {
		score    float64
		category string
		found    bool
	}{
		{0, "Low", true},
		{1, "Low", true},
		{2, "Moderate", true},
		{3, "High", true},
		{5, "High", true},
		{2.5, "", false},
		{-1, "", false},
		{6, "", false},
	}

	for _, tt := range tests {
		r, ok := table.Lookup(tt.score)
		assert.Equal(t, tt.found, ok, "score %g", tt.score)
		assert.Equal(t, tt.category, r.Interpretation.Category, "score %g", tt.score)
	}
}

func TestInterpretationRanges_Resolve(t *testing.T) {
	table := threeBandTable()

	tests := []struct {
		name     string
		score    float64
		category string
		exact    bool
	}{
		{name: "inside", score: 4, category: "High", exact: true},
		{name: "below first", score: -3, category: "Low", exact: false},
		{name: "above last", score: 9, category: "High", exact: false},
		{name: "gap tie prefers severity", score: 2.5, category: "High", exact: false},
		{name: "gap nearer lower", score: 1.2, category: "Low", exact: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, exact := table.Resolve(tt.score)
			assert.Equal(t, tt.exact, exact)
			assert.Equal(t, tt.category, r.Interpretation.Category)
		})
	}
}

func TestInterpretationRange_ApplyDoesNotShareState(t *testing.T) {
	// Arrange
	r := InterpretationRange{Min: 0, Max: 3, Interpretation: Interpretation{Category: "Low", Notes: []string{"base"}}}

	// Act
	out := r.Apply(2)
	out.Notes = append(out.Notes, "extra")
	out.Notes[0] = "changed"

	// Assert
	assert.Equal(t, []string{"base"}, r.Interpretation.Notes)
	assert.Equal(t, 2.0, out.Score)
	require.NotNil(t, out.Range)
	assert.Equal(t, ScoreRange{Min: 0, Max: 3}, *out.Range)
}

func TestInterpretationRanges_CheckCoverage(t *testing.T) {
	low := Interpretation{Category: "Low"}
	high := Interpretation{Category: "High"}

	tests := []struct {
		name   string
		table  InterpretationRanges
		domain ScoreDomain
		kind   CoverageKind
	}{
		{
			name:   "exact cover",
			table:  InterpretationRanges{{Min: 0, Max: 4, Interpretation: low}, {Min: 5, Max: 9, Interpretation: high}},
			domain: ScoreDomain{Min: 0, Max: 9, Step: 1},
		},
		{
			name:   "decimal step",
			table:  InterpretationRanges{{Min: 0, Max: 4.5, Interpretation: low}, {Min: 5, Max: 12.5, Interpretation: high}},
			domain: ScoreDomain{Min: 0, Max: 12.5, Step: 0.5},
		},
		{
			name:   "empty",
			domain: ScoreDomain{Min: 0, Max: 9, Step: 1},
			kind:   CoverageEmpty,
		},
		{
			name:   "inner gap",
			table:  InterpretationRanges{{Min: 0, Max: 3, Interpretation: low}, {Min: 5, Max: 9, Interpretation: high}},
			domain: ScoreDomain{Min: 0, Max: 9, Step: 1},
			kind:   CoverageGap,
		},
		{
			name:   "overlap",
			table:  InterpretationRanges{{Min: 0, Max: 5, Interpretation: low}, {Min: 5, Max: 9, Interpretation: high}},
			domain: ScoreDomain{Min: 0, Max: 9, Step: 1},
			kind:   CoverageOverlap,
		},
		{
			name:   "top uncovered",
			table:  InterpretationRanges{{Min: 0, Max: 4, Interpretation: low}, {Min: 5, Max: 8, Interpretation: high}},
			domain: ScoreDomain{Min: 0, Max: 9, Step: 1},
			kind:   CoverageGap,
		},
		{
			name:   "bottom uncovered",
			table:  InterpretationRanges{{Min: 1, Max: 9, Interpretation: low}},
			domain: ScoreDomain{Min: 0, Max: 9, Step: 1},
			kind:   CoverageGap,
		},
		{
			name:   "inverted",
			table:  InterpretationRanges{{Min: 4, Max: 0, Interpretation: low}},
			domain: ScoreDomain{Min: 0, Max: 9, Step: 1},
			kind:   CoverageInverted,
		},
		{
			name:   "out of order",
			table:  InterpretationRanges{{Min: 5, Max: 9, Interpretation: high}, {Min: 0, Max: 4, Interpretation: low}},
			domain: ScoreDomain{Min: 0, Max: 9, Step: 1},
			kind:   CoverageOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.CheckCoverage(tt.domain)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRangeCoverageGap))
			var cov *CoverageError
			require.True(t, errors.As(err, &cov))
			assert.Equal(t, tt.kind, cov.Kind)
		})
	}
}

func TestInterpretationRanges_Categories(t *testing.T) {
	table := threeBandTable()
	table = append(table, InterpretationRange{Min: 6, Max: 7, Interpretation: Interpretation{Category: "High"}})

	assert.Equal(t, []string{"Low", "Moderate", "High"}, table.Categories())
	assert.Equal(t, "[0..1] Low, [2..2] Moderate, [3..5] High, [6..7] High", table.String())
}
