package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// CURB65 returns the CURB-65 pneumonia severity definition.
func CURB65() *domain.Calculator {
	fields := []domain.Field{
		yesNo("confusion", "Confusion", 1, "New mental confusion (AMT ≤8 or new disorientation)"),
		yesNo("bun", "BUN >19 mg/dL (>7 mmol/L)", 1, "Blood urea nitrogen elevated"),
		yesNo("respiratory_rate", "Respiratory Rate ≥30/min", 1, ""),
		yesNo("blood_pressure", "Low Blood Pressure", 1, "SBP <90 mmHg or DBP ≤60 mmHg"),
		yesNo("age", "Age ≥65 years", 1, ""),
	}

	ranges := domain.InterpretationRanges{
		span(0, 0, withMortality(interp("Low Risk", domain.RiskLow,
			"Consider outpatient treatment.",
			"May be suitable for home treatment with oral antibiotics.",
			"Ensure adequate social support",
			"Close follow-up within 48-72 hours",
			"Return precautions for worsening symptoms",
		), "0.6% 30-day mortality")),
		span(1, 1, withMortality(interp("Low Risk", domain.RiskLow,
			"Consider outpatient treatment or short hospital stay.",
			"Outpatient or brief observation depending on clinical judgment.",
			"Consider social factors and comorbidities",
			"May benefit from brief observation",
		), "2.7% 30-day mortality")),
		span(2, 2, withMortality(interp("Moderate Risk", domain.RiskModerate,
			"Hospital admission recommended.",
			"Admit for inpatient treatment and monitoring.",
			"IV antibiotics typically indicated",
			"Monitor for clinical deterioration",
		), "6.8% 30-day mortality")),
		span(3, 3, withMortality(interp("High Risk", domain.RiskHigh,
			"Hospital admission required. Consider ICU.",
			"Admit to hospital. Assess need for intensive care.",
			"High risk of complications",
			"May require respiratory support",
			"Close monitoring essential",
		), "14% 30-day mortality")),
		span(4, 5, withMortality(interp("Very High Risk", domain.RiskCritical,
			"Urgent hospital admission. ICU consideration.",
			"Admit to ICU or high-dependency unit.",
			"Very high mortality risk",
			"Aggressive treatment indicated",
			"Early involvement of critical care",
		), "27.8% 30-day mortality")),
	}

	return &domain.Calculator{
		ID:           "curb-65",
		Name:         "CURB-65 Score for Pneumonia Severity",
		Abbreviation: "CURB-65",
		Category:     domain.CategoryPulmonology,
		Description:  "Estimates mortality risk in community-acquired pneumonia to help determine inpatient vs outpatient treatment.",
		Purpose:      "The CURB-65 score stratifies patients with community-acquired pneumonia by mortality risk to guide disposition decisions.",
		Indications: []string{
			"Adults with community-acquired pneumonia",
			"Disposition planning (outpatient vs inpatient vs ICU)",
			"Risk stratification for CAP",
		},
		Contraindications: []string{
			"Hospital-acquired or ventilator-associated pneumonia",
			"Immunocompromised patients (may underestimate severity)",
			"Pediatric patients",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{{
			Authors: "Lim WS, van der Eerden MM, Laing R, et al.",
			Title:   "Defining community acquired pneumonia severity on presentation to hospital: an international derivation and validation study",
			Journal: "Thorax",
			Year:    2003,
			Volume:  "58(5):377-382",
			DOI:     "10.1136/thorax.58.5.377",
			PMID:    "12728155",
		}},
		ValidationStudy: "Validated in multiple international cohorts with consistent mortality stratification.",
		RelatedIDs:      []string{"qsofa", "news2", "wells-pe"},
		Version:         catalogueVersion,
		LastUpdated:     catalogueUpdated,
		Strategy:        newPointSum(fields, ranges),
	}
}
