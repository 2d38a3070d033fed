package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// PESI returns the Pulmonary Embolism Severity Index definition.
// Age contributes one point per year, so the score domain starts at the minimum age.
func PESI() *domain.Calculator {
	fields := []domain.Field{
		number("age", "Age", "years", 18, 120, 1, "One point per year of age"),
		yesNo("male", "Male Sex", 10, ""),
		yesNo("cancer", "History of Cancer", 30, "Active cancer or cancer treated within the past year"),
		yesNo("heart_failure", "History of Heart Failure", 10, ""),
		yesNo("chronic_lung_disease", "History of Chronic Lung Disease", 10, ""),
		yesNo("heart_rate", "Heart Rate ≥110 bpm", 20, ""),
		yesNo("systolic_bp", "Systolic BP <100 mmHg", 30, ""),
		yesNo("respiratory_rate", "Respiratory Rate ≥30/min", 20, ""),
		yesNo("temperature", "Temperature <36°C", 20, ""),
		yesNo("altered_mental_status", "Altered Mental Status", 60, "Disorientation, lethargy, stupor or coma"),
		yesNo("oxygen_saturation", "Arterial Oxygen Saturation <90%", 20, "With or without supplemental oxygen"),
	}

	ranges := domain.InterpretationRanges{
		span(18, 65, withMortality(interp("Class I (Very Low Risk)", domain.RiskVeryLow,
			"Very low 30-day mortality. Outpatient treatment may be considered if no other contraindications.",
			"Consider early discharge with anticoagulation.",
		), "0-1.6% 30-day mortality")),
		span(66, 85, withMortality(interp("Class II (Low Risk)", domain.RiskLow,
			"Low 30-day mortality. Outpatient or short-stay treatment may be appropriate.",
			"Consider early discharge with anticoagulation and close follow-up.",
		), "1.7-3.5% 30-day mortality")),
		span(86, 105, withMortality(interp("Class III (Intermediate Risk)", domain.RiskModerate,
			"Intermediate 30-day mortality. Hospital admission recommended.",
			"Admit for anticoagulation and monitoring.",
		), "3.2-7.1% 30-day mortality")),
		span(106, 125, withMortality(interp("Class IV (High Risk)", domain.RiskHigh,
			"High 30-day mortality. Hospital admission required.",
			"Admit. Assess right ventricular function and troponin.",
			"Consider monitored bed",
		), "4.0-11.4% 30-day mortality")),
		span(126, 350, withMortality(interp("Class V (Very High Risk)", domain.RiskVeryHigh,
			"Very high 30-day mortality. Intensive monitoring required.",
			"Admit to monitored setting. Evaluate for reperfusion therapy if hemodynamically unstable.",
			"Consider ICU admission",
		), "10.0-24.5% 30-day mortality")),
	}

	return &domain.Calculator{
		ID:           "pesi",
		Name:         "Pulmonary Embolism Severity Index",
		Abbreviation: "PESI",
		Category:     domain.CategoryPulmonology,
		Description:  "Predicts 30-day mortality in patients with acute pulmonary embolism.",
		Purpose:      "PESI stratifies patients with confirmed pulmonary embolism to identify those at low risk who may be candidates for outpatient treatment.",
		Indications: []string{
			"Confirmed acute pulmonary embolism",
			"Deciding between outpatient and inpatient treatment",
		},
		Contraindications: []string{
			"Not for diagnosing pulmonary embolism (use Wells or PERC)",
			"Hemodynamically unstable patients need immediate treatment regardless of score",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{{
			Authors: "Aujesky D, Obrosky DS, Stone RA, et al.",
			Title:   "Derivation and validation of a prognostic model for pulmonary embolism",
			Journal: "Am J Respir Crit Care Med",
			Year:    2005,
			Volume:  "172(8):1041-1046",
			DOI:     "10.1164/rccm.200506-862OC",
			PMID:    "16020800",
		}},
		ValidationStudy: "Derived in 10,354 and validated in 5,177 patients with pulmonary embolism.",
		Notes: []string{
			"Simplified PESI (sPESI) uses six criteria with one point each",
			"Classes I-II identify candidates for outpatient management",
		},
		RelatedIDs:  []string{"wells-pe"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    newPointSum(fields, ranges),
	}
}
