package domain

import (
	"fmt"
	"math"
)

const scoreTolerance = 1e-9

// ScoreRange is the closed interval an interpretation was selected from.
type ScoreRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Interpretation is the clinical reading of a score. It is computed fresh per call.
type Interpretation struct {
	Score          float64     `json:"score"`
	ScoreDisplay   string      `json:"score_display,omitempty"`
	Category       string      `json:"category"`
	Risk           RiskLevel   `json:"risk"`
	Mortality      string      `json:"mortality,omitempty"`
	Morbidity      string      `json:"morbidity,omitempty"`
	Recommendation string      `json:"recommendation"`
	Action         string      `json:"action,omitempty"`
	Notes          []string    `json:"notes,omitempty"`
	Range          *ScoreRange `json:"range,omitempty"`
}

// Clone returns a deep copy so callers can append notes without touching the
// definition the interpretation came from.
func (i Interpretation) Clone() Interpretation {
	out := i
	if i.Notes != nil {
		out.Notes = append([]string(nil), i.Notes...)
	}
	if i.Range != nil {
		r := *i.Range
		out.Range = &r
	}
	return out
}

// InterpretationRange maps the closed score interval [Min, Max] to an interpretation.
type InterpretationRange struct {
	Min            float64        `json:"min"`
	Max            float64        `json:"max"`
	Interpretation Interpretation `json:"interpretation"`
}

// Contains reports whether score lies in [Min, Max].
func (r InterpretationRange) Contains(score float64) bool {
	return score >= r.Min-scoreTolerance && score <= r.Max+scoreTolerance
}

// Apply returns the range interpretation stamped with the score.
func (r InterpretationRange) Apply(score float64) Interpretation {
	out := r.Interpretation.Clone()
	out.Score = score
	out.Range = &ScoreRange{Min: r.Min, Max: r.Max}
	return out
}

// InterpretationRanges is an ascending, non-overlapping range table.
type InterpretationRanges []InterpretationRange

// Lookup returns the unique range containing score.
func (rs InterpretationRanges) Lookup(score float64) (InterpretationRange, bool) {
	for _, r := range rs {
		if r.Contains(score) {
			return r, true
		}
	}
	return InterpretationRange{}, false
}

// Resolve returns the range containing score or, when none does, the nearest range.
// Below the table resolves to the first range, above it to the last. A score that
// falls between two ranges resolves to the closer one, and to the more severe one on
// a tie. The boolean reports whether the match was exact.
func (rs InterpretationRanges) Resolve(score float64) (InterpretationRange, bool) {
	if r, ok := rs.Lookup(score); ok {
		return r, true
	}
	if len(rs) == 0 || math.IsNaN(score) {
		return InterpretationRange{}, false
	}
	if score < rs[0].Min {
		return rs[0], false
	}
	if score > rs[len(rs)-1].Max {
		return rs[len(rs)-1], false
	}

	best := rs[0]
	bestDist := math.Inf(1)
	for _, r := range rs {
		dist := math.Min(math.Abs(score-r.Min), math.Abs(score-r.Max))
		switch {
		case dist < bestDist-scoreTolerance:
			best, bestDist = r, dist
		case math.Abs(dist-bestDist) <= scoreTolerance &&
			r.Interpretation.Risk.Severity() > best.Interpretation.Risk.Severity():
			best = r
		}
	}
	return best, false
}

// CheckCoverage verifies that the table is ascending, has no overlapping ranges and
// covers every score of the domain at its step resolution exactly once.
func (rs InterpretationRanges) CheckCoverage(d ScoreDomain) error {
	step := d.Step
	if step <= 0 {
		step = 1
	}
	eps := step * 1e-6

	if len(rs) == 0 {
		return &CoverageError{Kind: CoverageEmpty, From: d.Min, To: d.Max}
	}
	for i, r := range rs {
		if r.Min > r.Max+eps {
			return &CoverageError{Kind: CoverageInverted, From: r.Min, To: r.Max}
		}
		if i == 0 {
			continue
		}
		prev := rs[i-1]
		switch {
		case r.Min < prev.Min-eps:
			return &CoverageError{Kind: CoverageOrder, From: prev.Min, To: r.Min}
		case r.Min <= prev.Max+eps:
			return &CoverageError{Kind: CoverageOverlap, From: r.Min, To: prev.Max}
		case r.Min-prev.Max > step+eps:
			return &CoverageError{Kind: CoverageGap, From: prev.Max + step, To: r.Min - step}
		}
	}
	if first := rs[0]; first.Min > d.Min+eps {
		return &CoverageError{Kind: CoverageGap, From: d.Min, To: first.Min - step}
	}
	if last := rs[len(rs)-1]; last.Max < d.Max-eps {
		return &CoverageError{Kind: CoverageGap, From: last.Max + step, To: d.Max}
	}
	return nil
}

// Categories returns the distinct categories of the table in order.
func (rs InterpretationRanges) Categories() []string {
	out := make([]string, 0, len(rs))
	seen := make(map[string]bool, len(rs))
	for _, r := range rs {
		if seen[r.Interpretation.Category] {
			continue
		}
		seen[r.Interpretation.Category] = true
		out = append(out, r.Interpretation.Category)
	}
	return out
}

// String renders the table compactly for diagnostics.
func (rs InterpretationRanges) String() string {
	s := ""
	for i, r := range rs {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("[%g..%g] %s", r.Min, r.Max, r.Interpretation.Category)
	}
	return s
}
