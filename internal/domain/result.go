package domain

import (
	"sort"
	"time"
)

// Inputs maps field ids to numeric values.
type Inputs map[string]float64

// Get returns the value for id, zero when absent.
func (in Inputs) Get(id string) float64 {
	return in[id]
}

// Has reports whether id is present.
func (in Inputs) Has(id string) bool {
	_, ok := in[id]
	return ok
}

// Sum adds the values of the given ids.
func (in Inputs) Sum(ids ...string) float64 {
	var total float64
	for _, id := range ids {
		total += in[id]
	}
	return total
}

// Clone returns an independent copy.
func (in Inputs) Clone() Inputs {
	out := make(Inputs, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Keys returns the input ids in sorted order.
func (in Inputs) Keys() []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CalculatorResult is the outcome of one evaluation.
type CalculatorResult struct {
	CalculatorID   string         `json:"calculator_id"`
	CalculatorName string         `json:"calculator_name"`
	Inputs         Inputs         `json:"inputs"`
	Score          float64        `json:"score"`
	Interpretation Interpretation `json:"interpretation"`
	Timestamp      time.Time      `json:"timestamp"`
	Warnings       []string       `json:"warnings,omitempty"`
	HistoryID      string         `json:"history_id,omitempty"`
}

// Clone returns a deep copy of the result.
func (r *CalculatorResult) Clone() *CalculatorResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Inputs = r.Inputs.Clone()
	out.Interpretation = r.Interpretation.Clone()
	if r.Warnings != nil {
		out.Warnings = append([]string(nil), r.Warnings...)
	}
	return &out
}
