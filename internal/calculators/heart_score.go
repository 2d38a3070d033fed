package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// HEARTScore returns the HEART score for major adverse cardiac events.
func HEARTScore() *domain.Calculator {
	fields := []domain.Field{
		choice("history", "History", "Assess characteristics of chest pain: location, radiation, timing, associated symptoms",
			opt(0, "Slightly suspicious - Non-specific history, atypical features"),
			opt(1, "Moderately suspicious - Some typical features present"),
			opt(2, "Highly suspicious - Typical chest pain with classic features"),
		),
		choice("ecg", "ECG", "Initial 12-lead ECG findings",
			opt(0, "Normal - Completely normal ECG"),
			opt(1, "Non-specific changes - Repolarization abnormalities, LBBB, pacemaker, no significant ST changes"),
			opt(2, "Significant ST deviation - ST depression or elevation, T-wave inversion"),
		),
		choice("age", "Age", "",
			opt(0, "<45 years"),
			opt(1, "45-64 years"),
			opt(2, "≥65 years"),
		),
		choice("riskFactors", "Risk Factors", "HTN, hypercholesterolemia, DM, obesity (BMI >30), smoking, family history of CAD, atherosclerotic disease",
			opt(0, "No known risk factors"),
			opt(1, "1-2 risk factors"),
			opt(2, "≥3 risk factors or known atherosclerotic disease"),
		),
		choice("troponin", "Initial Troponin", "First troponin result relative to the upper limit of normal (ULN)",
			opt(0, "≤ Normal limit"),
			opt(1, "1-3× Normal limit"),
			opt(2, ">3× Normal limit"),
		),
	}

	ranges := domain.InterpretationRanges{
		span(0, 3, withMortality(interp("Low Risk", domain.RiskLow,
			"Low risk for MACE at 6 weeks. Consider discharge with outpatient follow-up. Further cardiac workup generally not indicated acutely.",
			"Consider safe discharge with close follow-up",
			"HEART Pathway: If troponin negative at 0 and 3 hours, discharge is safe",
			"1.7% MACE rate in validation studies",
			"Ensure reliable follow-up before discharge",
		), "MACE risk: 0.9-1.7%")),
		span(4, 6, withMortality(interp("Moderate Risk", domain.RiskModerate,
			"Moderate risk. Admit for observation. Serial troponins and further cardiac evaluation recommended.",
			"Observation unit or admission, stress testing or angiography as indicated",
			"Non-invasive testing or cardiology consult recommended",
			"Serial troponins at 3-6 hours",
			"Consider CT coronary angiography if available",
		), "MACE risk: 12-16.6%")),
		span(7, 10, withMortality(interp("High Risk", domain.RiskHigh,
			"High risk for major cardiac event. Admit to monitored setting. Early invasive strategy recommended.",
			"Cardiology consult, consider early catheterization",
			"High likelihood of ACS",
			"Dual antiplatelet therapy and anticoagulation per ACS guidelines",
			"Invasive coronary angiography typically indicated",
		), "MACE risk: 50-65%")),
	}

	return &domain.Calculator{
		ID:           "heart-score",
		Name:         "HEART Score for Major Cardiac Events",
		Abbreviation: "HEART",
		Category:     domain.CategoryCardiology,
		Description:  "Predicts 6-week risk of major adverse cardiac events (MACE) in ED patients with chest pain.",
		Purpose:      "The HEART score helps risk-stratify chest pain patients to identify those at low risk who may be safely discharged without further testing, and those requiring more aggressive evaluation.",
		Indications: []string{
			"Chest pain in the emergency department",
			"Undifferentiated chest pain evaluation",
			"ACS risk stratification",
		},
		Contraindications: []string{
			"Not for patients with clear STEMI",
			"Not validated for clearly non-cardiac chest pain",
			"Should not replace clinical judgment in high-risk presentations",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{
			{
				Authors: "Six AJ, Backus BE, Kelder JC",
				Title:   "Chest pain in the emergency room: value of the HEART score",
				Journal: "Netherlands Heart Journal",
				Year:    2008,
				Volume:  "16(6):191-196",
				PMID:    "18665203",
			},
			{
				Authors: "Backus BE, Six AJ, Kelder JC, et al.",
				Title:   "A prospective validation of the HEART score for chest pain patients at the emergency department",
				Journal: "International Journal of Cardiology",
				Year:    2013,
				Volume:  "168(3):2153-2158",
				DOI:     "10.1016/j.ijcard.2013.01.255",
				PMID:    "23465250",
			},
			{
				Authors: "Mahler SA, Riley RF, Hiestand BC, et al.",
				Title:   "The HEART Pathway randomized trial: identifying emergency department patients with acute chest pain for early discharge",
				Journal: "Circulation: Cardiovascular Quality and Outcomes",
				Year:    2015,
				Volume:  "8(2):195-203",
				DOI:     "10.1161/CIRCOUTCOMES.114.001384",
				PMID:    "25737484",
			},
		},
		ValidationStudy: "Prospectively validated; HEART Pathway RCT showed safe early discharge for low-risk patients",
		Notes: []string{
			"HEART = History, ECG, Age, Risk factors, Troponin",
			"HEART Pathway uses serial troponins at 0 and 3 hours for low-risk patients",
			"High-sensitivity troponin assays may modify interpretation",
			"Clinical judgment should supplement score in borderline cases",
			"Not validated for known ACS or STEMI",
		},
		RelatedIDs:  []string{"timi-stemi", "cha2ds2-vasc"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    newPointSum(fields, ranges),
	}
}
