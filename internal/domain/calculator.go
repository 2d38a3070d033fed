package domain

import (
	"errors"
	"fmt"
	"math"
)

// ScoringStrategy is the per-calculator scoring capability.
// Score receives inputs that already passed field validation, with absent optional
// fields set to zero. Interpret must not mutate the inputs or the calculator.
type ScoringStrategy interface {
	Score(inputs Inputs) float64
	Interpret(score float64, inputs Inputs) Interpretation
}

// RangeSelector is implemented by strategies whose range table depends on raw inputs,
// for example sex-specific point conversions.
type RangeSelector interface {
	RangesFor(inputs Inputs) InterpretationRanges
	RangeTables() []InterpretationRanges
}

// ScoreDomain is the closed interval of achievable scores and the resolution at which
// scores occur inside it.
type ScoreDomain struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Citation references the publication a calculator is derived from.
type Citation struct {
	Authors string `json:"authors"`
	Title   string `json:"title"`
	Journal string `json:"journal,omitempty"`
	Year    int    `json:"year,omitempty"`
	Volume  string `json:"volume,omitempty"`
	DOI     string `json:"doi,omitempty"`
	PMID    string `json:"pmid,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Calculator is an immutable, versioned calculator definition.
type Calculator struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Abbreviation      string               `json:"abbreviation"`
	Category          Category             `json:"category"`
	Description       string               `json:"description"`
	Purpose           string               `json:"purpose,omitempty"`
	Indications       []string             `json:"indications,omitempty"`
	Contraindications []string             `json:"contraindications,omitempty"`
	Fields            []Field              `json:"fields"`
	Ranges            InterpretationRanges `json:"interpretation_ranges"`
	Domain            *ScoreDomain         `json:"score_domain,omitempty"`
	Citations         []Citation           `json:"citations,omitempty"`
	ValidationStudy   string               `json:"validation_study,omitempty"`
	Notes             []string             `json:"notes,omitempty"`
	RelatedIDs        []string             `json:"related_calculators,omitempty"`
	Version           string               `json:"version,omitempty"`
	LastUpdated       string               `json:"last_updated,omitempty"`

	Strategy ScoringStrategy `json:"-"`
}

// CalculatorSummary is the metadata-only view used for listings.
type CalculatorSummary struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Abbreviation       string   `json:"abbreviation"`
	Category           Category `json:"category"`
	Description        string   `json:"description"`
	InputCount         int      `json:"input_count"`
	HasValidationStudy bool     `json:"has_validation_study"`
}

// CategoryInfo describes a category and how many calculators it holds.
type CategoryInfo struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Count    int      `json:"count"`
}

// Field returns the field with the given id.
func (c *Calculator) Field(id string) (Field, bool) {
	for _, f := range c.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// Summary returns the listing view of the calculator.
func (c *Calculator) Summary() CalculatorSummary {
	return CalculatorSummary{
		ID:                 c.ID,
		Name:               c.Name,
		Abbreviation:       c.Abbreviation,
		Category:           c.Category,
		Description:        c.Description,
		InputCount:         len(c.Fields),
		HasValidationStudy: c.ValidationStudy != "",
	}
}

// ScoreDomain returns the declared score domain, or one derived by summing the
// minimum and maximum value of every field.
func (c *Calculator) ScoreDomain() ScoreDomain {
	if c.Domain != nil {
		d := *c.Domain
		if d.Step <= 0 {
			d.Step = 1
		}
		return d
	}
	var lo, hi float64
	for _, f := range c.Fields {
		fmin, fmax := f.Bounds()
		lo += fmin
		hi += fmax
	}
	return ScoreDomain{Min: lo, Max: hi, Step: 1}
}

// RangesFor returns the range table that applies to the given inputs.
func (c *Calculator) RangesFor(inputs Inputs) InterpretationRanges {
	if sel, ok := c.Strategy.(RangeSelector); ok {
		return sel.RangesFor(inputs)
	}
	return c.Ranges
}

// RangeTables returns every range table the calculator can select from.
func (c *Calculator) RangeTables() []InterpretationRanges {
	if sel, ok := c.Strategy.(RangeSelector); ok {
		return sel.RangeTables()
	}
	return []InterpretationRanges{c.Ranges}
}

// Validate checks the definition for structural errors and verifies that every
// range table covers the score domain exactly once.
func (c *Calculator) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: %s: empty name", ErrInvalidDefinition, c.ID)
	}
	if !c.Category.IsValid() {
		return fmt.Errorf("%w: %s: unknown category %q", ErrInvalidDefinition, c.ID, c.Category)
	}
	if c.Strategy == nil {
		return fmt.Errorf("%w: %s: no scoring strategy", ErrInvalidDefinition, c.ID)
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("%w: %s: no fields", ErrInvalidDefinition, c.ID)
	}

	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.ID == "" {
			return fmt.Errorf("%w: %s: field with empty id", ErrInvalidDefinition, c.ID)
		}
		if seen[f.ID] {
			return fmt.Errorf("%w: %s: duplicate field %q", ErrInvalidDefinition, c.ID, f.ID)
		}
		seen[f.ID] = true

		if !f.Type.IsValid() {
			return fmt.Errorf("%w: %s.%s: unknown field type %q", ErrInvalidDefinition, c.ID, f.ID, f.Type)
		}
		if f.Type.HasOptions() && len(f.Options) == 0 {
			return fmt.Errorf("%w: %s.%s: %s field without options", ErrInvalidDefinition, c.ID, f.ID, f.Type)
		}
		for _, opt := range f.Options {
			if math.IsNaN(opt.Value) || math.IsInf(opt.Value, 0) {
				return fmt.Errorf("%w: %s.%s: non-finite option value", ErrInvalidDefinition, c.ID, f.ID)
			}
		}
		if v := f.Validation; v != nil && v.Min > v.Max {
			return fmt.Errorf("%w: %s.%s: validation min %g > max %g", ErrInvalidDefinition, c.ID, f.ID, v.Min, v.Max)
		}
	}

	domain := c.ScoreDomain()
	for _, table := range c.RangeTables() {
		if err := table.CheckCoverage(domain); err != nil {
			var cov *CoverageError
			if errors.As(err, &cov) {
				cov.CalculatorID = c.ID
			}
			return err
		}
	}
	return nil
}
