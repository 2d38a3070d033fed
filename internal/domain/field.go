package domain

import (
	"math"
)

// Option is one selectable value of a boolean, select or radio field.
// Value is the point contribution or the encoded category.
type Option struct {
	Value float64 `json:"value" yaml:"value"`
	Label string  `json:"label" yaml:"label"`
}

// Validation bounds a numeric field. Step is a rendering hint and is not enforced.
type Validation struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// Field describes one clinical input of a calculator.
type Field struct {
	ID          string      `json:"id" yaml:"id"`
	Label       string      `json:"label" yaml:"label"`
	Type        FieldType   `json:"type" yaml:"type"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Unit        string      `json:"unit,omitempty" yaml:"unit,omitempty"`
	Options     []Option    `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
	Required    bool        `json:"required" yaml:"required"`
}

// HasOption reports whether v equals one of the field's option values.
func (f Field) HasOption(v float64) bool {
	for _, opt := range f.Options {
		if opt.Value == v {
			return true
		}
	}
	return false
}

// OptionValues returns the distinct option values in declaration order.
func (f Field) OptionValues() []float64 {
	values := make([]float64, 0, len(f.Options))
	seen := make(map[float64]bool, len(f.Options))
	for _, opt := range f.Options {
		if seen[opt.Value] {
			continue
		}
		seen[opt.Value] = true
		values = append(values, opt.Value)
	}
	return values
}

// OptionLabel returns the label of the first option carrying v.
func (f Field) OptionLabel(v float64) (string, bool) {
	for _, opt := range f.Options {
		if opt.Value == v {
			return opt.Label, true
		}
	}
	return "", false
}

// Bounds returns the smallest and largest value the field can take.
// Unbounded numeric fields report -Inf/+Inf.
func (f Field) Bounds() (float64, float64) {
	if f.Type.HasOptions() {
		if len(f.Options) == 0 {
			return 0, 0
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, opt := range f.Options {
			lo = math.Min(lo, opt.Value)
			hi = math.Max(hi, opt.Value)
		}
		return lo, hi
	}
	if f.Validation != nil {
		return f.Validation.Min, f.Validation.Max
	}
	return math.Inf(-1), math.Inf(1)
}
