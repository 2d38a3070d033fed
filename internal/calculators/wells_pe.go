package calculators

import (
	"strconv"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

type wellsPE struct {
	pointSum
}

// Interpret renders the score with one decimal; criteria weigh 1, 1.5 or 3 points.
func (s wellsPE) Interpret(score float64, in domain.Inputs) domain.Interpretation {
	out := s.pointSum.Interpret(score, in)
	out.ScoreDisplay = strconv.FormatFloat(score, 'f', 1, 64)
	return out
}

// WellsPE returns the Wells' criteria for pulmonary embolism definition.
func WellsPE() *domain.Calculator {
	fields := []domain.Field{
		yesNo("clinicalDVT", "Clinical signs/symptoms of DVT", 3, "Leg swelling, pain with palpation of deep veins"),
		{
			ID:          "alternativeLessLikely",
			Label:       "PE is #1 diagnosis OR equally likely",
			Type:        domain.FieldBoolean,
			Description: "Alternative diagnosis is less likely than PE",
			Options: []domain.Option{
				opt(0, "No (alternative diagnosis more likely)"),
				opt(3, "Yes (PE is most or equally likely) (+3)"),
			},
			Required: true,
		},
		{
			ID:    "heartRate",
			Label: "Heart rate >100 bpm",
			Type:  domain.FieldBoolean,
			Options: []domain.Option{
				opt(0, "No (HR ≤100)"),
				opt(1.5, "Yes (HR >100) (+1.5)"),
			},
			Required: true,
		},
		yesNo("immobilization", "Immobilization or surgery in past 4 weeks", 1.5, "≥3 days immobilization OR surgery in past 4 weeks"),
		yesNo("previousVTE", "Previous PE or DVT", 1.5, "Previously objectively diagnosed PE or DVT"),
		yesNo("hemoptysis", "Hemoptysis", 1, ""),
		yesNo("malignancy", "Malignancy", 1, "Active cancer (treatment within 6 months or palliative)"),
	}

	ranges := domain.InterpretationRanges{
		span(0, 1, withMortality(interp("Low Probability", domain.RiskLow,
			"Low probability. D-dimer testing recommended. If D-dimer negative, PE is effectively ruled out.",
			"Order D-dimer. If negative, PE excluded. If positive, proceed to imaging.",
			"Negative D-dimer + low Wells = PE ruled out (NPV >99%)",
			"Age-adjusted D-dimer (age × 10 if >50) can be used",
		), "PE prevalence: ~1.3%")),
		span(1.5, 6, withMortality(interp("Moderate Probability", domain.RiskModerate,
			"Moderate probability. D-dimer can be considered. CTPA generally recommended for definitive diagnosis.",
			"Consider D-dimer or proceed directly to CTPA",
			"Many guidelines recommend CTPA for moderate probability",
			"D-dimer still useful if clinical suspicion at lower end of moderate",
		), "PE prevalence: ~16%")),
		span(6.5, 12.5, withMortality(interp("High Probability", domain.RiskHigh,
			"High probability. D-dimer is not useful. Proceed directly to CTPA or V/Q scan. Consider empiric anticoagulation while awaiting imaging.",
			"Immediate imaging (CTPA preferred). Consider empiric anticoagulation.",
			"D-dimer should not be used to exclude PE in high probability",
			"Treatment should not be delayed for imaging in unstable patients",
			"PESI/sPESI can help with disposition after diagnosis",
		), "PE prevalence: ~37-78%")),
	}

	return &domain.Calculator{
		ID:           "wells-pe",
		Name:         "Wells' Criteria for Pulmonary Embolism",
		Abbreviation: "Wells PE",
		Category:     domain.CategoryPulmonology,
		Description:  "Clinical prediction rule to estimate the pre-test probability of pulmonary embolism.",
		Purpose:      "Wells' criteria help determine which patients with suspected PE need further testing. Combined with D-dimer, it guides the diagnostic pathway.",
		Indications: []string{
			"Suspected pulmonary embolism",
			"Determining need for CTPA or V/Q scan",
			"Risk stratification before D-dimer testing",
		},
		Contraindications: []string{
			"Not for patients already anticoagulated",
			"Not for known PE",
			"Should not delay treatment in hemodynamically unstable patients",
		},
		Fields: fields,
		Ranges: ranges,
		Domain: &domain.ScoreDomain{Min: 0, Max: 12.5, Step: 0.5},
		Citations: []domain.Citation{
			{
				Authors: "Wells PS, Anderson DR, Rodger M, et al.",
				Title:   "Derivation of a simple clinical model to categorize patients probability of pulmonary embolism: increasing the models utility with the SimpliRED D-dimer",
				Journal: "Thrombosis and Haemostasis",
				Year:    2000,
				Volume:  "83(3):416-420",
				PMID:    "10744147",
			},
			{
				Authors: "van Belle A, Büller HR, Huisman MV, et al.",
				Title:   "Effectiveness of managing suspected pulmonary embolism using an algorithm combining clinical probability, D-dimer testing, and computed tomography",
				Journal: "JAMA",
				Year:    2006,
				Volume:  "295(2):172-179",
				DOI:     "10.1001/jama.295.2.172",
				PMID:    "16403929",
			},
		},
		ValidationStudy: "Christopher study validated algorithm; Wells + D-dimer safely rules out PE in low probability",
		Notes: []string{
			"Two-tier version: ≤4 = PE unlikely, >4 = PE likely (used with D-dimer)",
			"Three-tier version used here: Low (0-1), Moderate (2-6), High (>6)",
			"PERC rule can be applied before Wells if gestalt is <15% probability",
			"Age-adjusted D-dimer (age × 10 ng/mL if >50 years) improves specificity",
		},
		RelatedIDs:  []string{"curb-65"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    wellsPE{pointSum: newPointSum(fields, ranges)},
	}
}
