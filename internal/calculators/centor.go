package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// Centor returns the modified Centor (McIsaac) streptococcal pharyngitis definition.
// Age contributes -1 to 1, so the score domain starts below zero.
func Centor() *domain.Calculator {
	fields := []domain.Field{
		choice("age", "Age", "",
			opt(1, "3-14 years"),
			opt(0, "15-44 years"),
			opt(-1, "≥45 years"),
		),
		yesNo("exudate", "Tonsillar Exudates or Swelling", 1, ""),
		yesNo("lymph_nodes", "Tender Anterior Cervical Lymphadenopathy", 1, ""),
		yesNo("fever", "Fever (History or Present, >38°C/100.4°F)", 1, ""),
		{
			ID:          "cough",
			Label:       "Absence of Cough",
			Type:        domain.FieldBoolean,
			Description: "Score 1 if cough is ABSENT",
			Options:     []domain.Option{opt(0, "Cough present"), opt(1, "No cough")},
			Required:    true,
		},
	}

	ranges := domain.InterpretationRanges{
		span(-1, 0, withMorbidity(interp("Very Low Risk", domain.RiskVeryLow,
			"No testing or antibiotics needed.",
			"Symptomatic treatment only. No rapid strep test indicated.",
			"Viral etiology most likely",
			"Supportive care: rest, fluids, analgesics",
			"Return if worsening or not improving in 7 days",
		), "1-2.5% probability of strep")),
		span(1, 1, withMorbidity(interp("Low Risk", domain.RiskLow,
			"Testing optional based on clinical judgment.",
			"May consider rapid strep test. No empiric antibiotics.",
			"Most cases still viral",
			"Test if high clinical suspicion",
		), "5-10% probability of strep")),
		span(2, 2, withMorbidity(interp("Moderate Risk", domain.RiskLowModerate,
			"Rapid strep testing recommended.",
			"Perform rapid strep test. Treat only if positive.",
			"Test before treating",
			"If rapid negative in child, consider throat culture",
		), "11-17% probability of strep")),
		span(3, 3, withMorbidity(interp("Moderate-High Risk", domain.RiskModerate,
			"Test and/or treat.",
			"Rapid strep test. May consider empiric treatment pending results.",
			"Higher probability warrants testing",
			"In high-risk populations, empiric treatment reasonable",
		), "28-35% probability of strep")),
		span(4, 5, withMorbidity(interp("High Risk", domain.RiskHigh,
			"Test and treat.",
			"Rapid strep test. Empiric antibiotics may be reasonable pending results.",
			"High probability of strep",
			"If positive test or high clinical suspicion: penicillin or amoxicillin",
			"Azithromycin if penicillin allergy",
			"10-day course typically recommended",
		), "51-53% probability of strep")),
	}

	return &domain.Calculator{
		ID:           "centor",
		Name:         "Centor Score (Modified/McIsaac) for Strep Pharyngitis",
		Abbreviation: "Centor",
		Category:     domain.CategoryInfectiousDisease,
		Description:  "Estimates probability of streptococcal pharyngitis to guide testing and antibiotic decisions.",
		Purpose:      "The modified Centor (McIsaac) score helps determine whether to test for Group A Streptococcus and/or treat empirically.",
		Indications: []string{
			"Acute pharyngitis/sore throat",
			"Deciding on rapid strep testing",
			"Antibiotic stewardship for pharyngitis",
		},
		Contraindications: []string{
			"Clear viral syndrome (coryza, cough, hoarseness)",
			"Known strep exposure requiring treatment",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{
			{
				Authors: "McIsaac WJ, White D, Tannenbaum D, Low DE.",
				Title:   "A clinical score to reduce unnecessary antibiotic use in patients with sore throat",
				Journal: "CMAJ",
				Year:    1998,
				Volume:  "158(1):75-83",
				PMID:    "9475915",
			},
			{
				Authors: "Centor RM, Witherspoon JM, Dalton HP, et al.",
				Title:   "The diagnosis of strep throat in adults in the emergency room",
				Journal: "Med Decis Making",
				Year:    1981,
				Volume:  "1(3):239-246",
				DOI:     "10.1177/0272989X8100100304",
				PMID:    "6763125",
			},
		},
		ValidationStudy: "McIsaac modification validated in 600,000+ patient encounters.",
		Version:         catalogueVersion,
		LastUpdated:     catalogueUpdated,
		Strategy:        newPointSum(fields, ranges),
	}
}
