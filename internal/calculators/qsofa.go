package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// QSOFA returns the quick Sequential Organ Failure Assessment definition.
func QSOFA() *domain.Calculator {
	fields := []domain.Field{
		{
			ID: "respiratoryRate", Label: "Respiratory Rate ≥22/min", Type: domain.FieldBoolean, Required: true,
			Description: "Is the respiratory rate 22 breaths per minute or higher?",
			Options:     []domain.Option{opt(0, "No (RR <22/min)"), opt(1, "Yes (RR ≥22/min)")},
		},
		{
			ID: "alteredMentation", Label: "Altered Mentation", Type: domain.FieldBoolean, Required: true,
			Description: "Is there any alteration in mental status? (GCS <15)",
			Options:     []domain.Option{opt(0, "No (Alert, GCS 15)"), opt(1, "Yes (Any altered mentation)")},
		},
		{
			ID: "systolicBP", Label: "Systolic BP ≤100 mmHg", Type: domain.FieldBoolean, Required: true,
			Description: "Is the systolic blood pressure 100 mmHg or less?",
			Options:     []domain.Option{opt(0, "No (SBP >100 mmHg)"), opt(1, "Yes (SBP ≤100 mmHg)")},
		},
	}

	ranges := domain.InterpretationRanges{
		span(0, 0, interp("Low Risk", domain.RiskLow,
			"Low risk based on qSOFA. However, clinical judgment should still guide management of suspected infection.", "",
			"Low qSOFA does not rule out sepsis",
			"Continue standard infection workup if clinically indicated",
		)),
		span(1, 1, interp("Intermediate Risk", domain.RiskModerate,
			"Continue close monitoring. A single qSOFA criterion warrants attention but does not indicate high risk.", "",
			"Re-evaluate if clinical condition changes",
			"Consider serial assessments",
		)),
		span(2, 3, withMortality(interp("High Risk", domain.RiskHigh,
			"Patient is at significantly increased risk for poor outcomes. Consider ICU admission, obtain lactate, blood cultures, and initiate sepsis bundle if appropriate.",
			"Immediate evaluation for organ dysfunction and sepsis",
			"qSOFA ≥2 is associated with 3-14x increase in in-hospital mortality",
			"Consider full SOFA assessment",
			"Does not confirm sepsis diagnosis",
		), "3-14x higher in-hospital mortality")),
	}

	return &domain.Calculator{
		ID:           "qsofa",
		Name:         "Quick SOFA Score",
		Abbreviation: "qSOFA",
		Category:     domain.CategoryCriticalCare,
		Description:  "Bedside assessment tool for identifying patients with suspected infection who are at risk for sepsis.",
		Purpose:      "The qSOFA was developed as a simplified version of SOFA for rapid bedside assessment. It identifies patients with suspected infection who are at greater risk for a poor outcome outside the ICU.",
		Indications: []string{
			"Suspected infection outside the ICU",
			"Initial sepsis screening in emergency department",
			"Triage of patients with possible sepsis",
		},
		Contraindications: []string{
			"Should not replace clinical judgment",
			"Not validated for ICU patients (use full SOFA instead)",
			"Does not rule out sepsis if negative",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{
			{
				Authors: "Seymour CW, Liu VX, Iwashyna TJ, et al.",
				Title:   "Assessment of Clinical Criteria for Sepsis: For the Third International Consensus Definitions for Sepsis and Septic Shock (Sepsis-3)",
				Journal: "JAMA",
				Year:    2016,
				Volume:  "315(8):762-774",
				DOI:     "10.1001/jama.2016.0288",
				PMID:    "26903335",
			},
			{
				Authors: "Singer M, Deutschman CS, Seymour CW, et al.",
				Title:   "The Third International Consensus Definitions for Sepsis and Septic Shock (Sepsis-3)",
				Journal: "JAMA",
				Year:    2016,
				Volume:  "315(8):801-810",
				DOI:     "10.1001/jama.2016.0287",
				PMID:    "26903338",
			},
		},
		ValidationStudy: "Validated in over 1.3 million patient encounters; qSOFA ≥2 had 81% predictive validity for in-hospital mortality",
		Notes: []string{
			"qSOFA should prompt further assessment for organ dysfunction if positive",
			"Not intended to replace SIRS criteria for research or epidemiology",
			"Should be used alongside clinical judgment, not as sole diagnostic tool",
		},
		RelatedIDs:  []string{"sofa", "news2"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    newPointSum(fields, ranges),
	}
}
