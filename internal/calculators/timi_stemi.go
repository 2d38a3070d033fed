package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// TIMISTEMI returns the TIMI risk score for ST-elevation myocardial infarction.
func TIMISTEMI() *domain.Calculator {
	fields := []domain.Field{
		choice("age", "Age", "",
			opt(0, "<65 years"),
			opt(2, "65-74 years"),
			opt(3, "≥75 years"),
		),
		yesNo("diabetes_htn_angina", "Diabetes, Hypertension, or Angina", 1, "History of diabetes mellitus, hypertension, or angina"),
		yesNo("systolic_bp", "Systolic BP <100 mmHg", 3, ""),
		yesNo("heart_rate", "Heart Rate >100 bpm", 2, ""),
		{
			ID: "killip_class", Label: "Killip Class II-IV", Type: domain.FieldBoolean, Required: true,
			Description: "Signs of heart failure (rales, S3, hypotension, shock)",
			Options:     []domain.Option{opt(0, "No (Killip I)"), opt(2, "Yes (Killip II-IV)")},
		},
		yesNo("weight", "Weight <67 kg (148 lbs)", 1, ""),
		yesNo("anterior_st", "Anterior ST Elevation or LBBB", 1, ""),
		yesNo("time_to_treatment", "Time to Treatment >4 hours", 1, ""),
	}

	ranges := domain.InterpretationRanges{
		span(0, 0, withMortality(interp("Very Low Risk", domain.RiskVeryLow,
			"Standard STEMI care.",
			"Proceed with reperfusion therapy per guidelines.",
		), "0.8% 30-day mortality")),
		span(1, 2, withMortality(interp("Low Risk", domain.RiskLow,
			"Standard STEMI care with close monitoring.",
			"Proceed with reperfusion therapy.",
		), "1.6-2.2% 30-day mortality")),
		span(3, 4, withMortality(interp("Moderate Risk", domain.RiskModerate,
			"Aggressive treatment. Consider higher level of care.",
			"Urgent reperfusion. Monitor for complications.",
		), "4.4-7.3% 30-day mortality")),
		span(5, 6, withMortality(interp("High Risk", domain.RiskHigh,
			"High-risk patient. Intensive monitoring required.",
			"ICU level care. Consider mechanical support if needed.",
		), "12.4-16.1% 30-day mortality")),
		span(7, 14, withMortality(interp("Very High Risk", domain.RiskCritical,
			"Critical patient. Maximum supportive care.",
			"ICU admission. Consider mechanical circulatory support.",
			"Very high mortality risk",
			"Discuss prognosis with patient/family",
			"All available therapies should be considered",
		), "23.4-35.9% 30-day mortality")),
	}

	return &domain.Calculator{
		ID:           "timi-stemi",
		Name:         "TIMI Risk Score for STEMI",
		Abbreviation: "TIMI STEMI",
		Category:     domain.CategoryCardiology,
		Description:  "Estimates 30-day mortality in patients with ST-elevation myocardial infarction.",
		Purpose:      "The TIMI Risk Score for STEMI helps stratify patients by mortality risk to guide treatment intensity.",
		Indications: []string{
			"Patients with confirmed STEMI",
			"Risk stratification at presentation",
			"Guiding treatment decisions",
		},
		Contraindications: []string{
			"NSTEMI or unstable angina (use TIMI for UA/NSTEMI)",
			"Non-cardiac chest pain",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{{
			Authors: "Morrow DA, Antman EM, Charlesworth A, et al.",
			Title:   "TIMI risk score for ST-elevation myocardial infarction: A convenient, bedside, clinical score for risk assessment at presentation",
			Journal: "Circulation",
			Year:    2000,
			Volume:  "102(17):2031-2037",
			DOI:     "10.1161/01.cir.102.17.2031",
			PMID:    "11044416",
		}},
		ValidationStudy: "Derived and validated in >15,000 STEMI patients from InTIME II trial.",
		RelatedIDs:      []string{"heart-score"},
		Version:         catalogueVersion,
		LastUpdated:     catalogueUpdated,
		Strategy:        newPointSum(fields, ranges),
	}
}
