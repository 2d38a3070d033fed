// Package domain contains the core entities of the clinical calculator engine:
// field definitions, calculator definitions, interpretation ranges and results.
//
// Calculator definitions are immutable once registered. Everything in this package is
// pure data plus the range arithmetic that belongs to it (lookup and coverage checks).
package domain

import (
	"errors"
)

// Category groups calculators by clinical specialty.
type Category string

const (
	CategoryCriticalCare      Category = "critical-care"
	CategoryCardiology        Category = "cardiology"
	CategoryPulmonology       Category = "pulmonology"
	CategoryHepatology        Category = "hepatology"
	CategoryNephrology        Category = "nephrology"
	CategoryNeurology         Category = "neurology"
	CategoryPsychiatry        Category = "psychiatry"
	CategoryInfectiousDisease Category = "infectious-disease"
	CategoryHematology        Category = "hematology"
	CategoryEmergency         Category = "emergency"
	CategoryObstetrics        Category = "obstetrics"
	CategoryPediatrics        Category = "pediatrics"
	CategoryOrthopedics       Category = "orthopedics"
	CategoryAnesthesia        Category = "anesthesia"
	CategoryGeneral           Category = "general"
)

var categoryLabels = map[Category]string{
	CategoryCriticalCare:      "Critical Care",
	CategoryCardiology:        "Cardiology",
	CategoryPulmonology:       "Pulmonology",
	CategoryHepatology:        "Hepatology",
	CategoryNephrology:        "Nephrology",
	CategoryNeurology:         "Neurology",
	CategoryPsychiatry:        "Psychiatry",
	CategoryInfectiousDisease: "Infectious Disease",
	CategoryHematology:        "Hematology",
	CategoryEmergency:         "Emergency Medicine",
	CategoryObstetrics:        "Obstetrics",
	CategoryPediatrics:        "Pediatrics",
	CategoryOrthopedics:       "Orthopedics",
	CategoryAnesthesia:        "Anesthesia",
	CategoryGeneral:           "General",
}

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryCriticalCare,
	CategoryCardiology,
	CategoryPulmonology,
	CategoryHepatology,
	CategoryNephrology,
	CategoryNeurology,
	CategoryPsychiatry,
	CategoryInfectiousDisease,
	CategoryHematology,
	CategoryEmergency,
	CategoryObstetrics,
	CategoryPediatrics,
	CategoryOrthopedics,
	CategoryAnesthesia,
	CategoryGeneral,
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// String returns the category key.
func (c Category) String() string {
	return string(c)
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// RiskLevel is the qualitative risk tier attached to an interpretation.
// Tiers are ordered from lowest to highest severity.
type RiskLevel string

const (
	RiskVeryLow      RiskLevel = "very-low"
	RiskLow          RiskLevel = "low"
	RiskLowModerate  RiskLevel = "low-moderate"
	RiskModerate     RiskLevel = "moderate"
	RiskModerateHigh RiskLevel = "moderate-high"
	RiskHigh         RiskLevel = "high"
	RiskVeryHigh     RiskLevel = "very-high"
	RiskCritical     RiskLevel = "critical"
)

var riskSeverity = map[RiskLevel]int{
	RiskVeryLow:      0,
	RiskLow:          1,
	RiskLowModerate:  2,
	RiskModerate:     3,
	RiskModerateHigh: 4,
	RiskHigh:         5,
	RiskVeryHigh:     6,
	RiskCritical:     7,
}

// IsValid reports whether r is a known risk tier.
func (r RiskLevel) IsValid() bool {
	_, ok := riskSeverity[r]
	return ok
}

// String returns the risk tier key.
func (r RiskLevel) String() string {
	return string(r)
}

// Severity returns the ordinal of the tier, -1 for unknown tiers.
func (r RiskLevel) Severity() int {
	if s, ok := riskSeverity[r]; ok {
		return s
	}
	return -1
}

// RequiresEscalation reports whether the tier calls for urgent clinical review.
func (r RiskLevel) RequiresEscalation() bool {
	return r.Severity() >= riskSeverity[RiskHigh]
}

// LogFields returns structured logging fields for audit trails.
func (r RiskLevel) LogFields() map[string]any {
	return map[string]any{
		"risk":                string(r),
		"risk_severity":       r.Severity(),
		"requires_escalation": r.RequiresEscalation(),
	}
}

// FieldType is the input control type of a field.
type FieldType string

const (
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldSelect  FieldType = "select"
	FieldRadio   FieldType = "radio"
)

// IsValid reports whether t is a supported field type.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldNumber, FieldBoolean, FieldSelect, FieldRadio:
		return true
	default:
		return false
	}
}

// HasOptions reports whether values of this type must come from an option list.
func (t FieldType) HasOptions() bool {
	return t == FieldBoolean || t == FieldSelect || t == FieldRadio
}

// String returns the field type key.
func (t FieldType) String() string {
	return string(t)
}

// Sentinel errors for errors.Is checks across the engine, registry and stores.
var (
	ErrNotFound             = errors.New("not found")
	ErrCalculatorNotFound   = errors.New("calculator not found")
	ErrDuplicateCalculator  = errors.New("duplicate calculator id")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrOutOfRange           = errors.New("value out of range")
	ErrInvalidOption        = errors.New("invalid option")
	ErrInvalidNumber        = errors.New("invalid number")
	ErrRangeCoverageGap     = errors.New("interpretation range coverage gap")
	ErrInvalidDefinition    = errors.New("invalid calculator definition")
)
