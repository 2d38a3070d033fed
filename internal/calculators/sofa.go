package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// SOFA returns the Sequential Organ Failure Assessment definition.
func SOFA() *domain.Calculator {
	fields := []domain.Field{
		choice("pao2fio2", "PaO2/FiO2 Ratio (Respiration)", "Calculate as PaO2 (mmHg) divided by FiO2 (decimal)",
			opt(0, "≥400 (Normal)"),
			opt(1, "<400"),
			opt(2, "<300"),
			opt(3, "<200 with respiratory support"),
			opt(4, "<100 with respiratory support"),
		),
		choice("platelets", "Platelets (×10³/µL)", "",
			opt(0, "≥150"),
			opt(1, "<150"),
			opt(2, "<100"),
			opt(3, "<50"),
			opt(4, "<20"),
		),
		choice("bilirubin", "Bilirubin (mg/dL)", "",
			opt(0, "<1.2"),
			opt(1, "1.2-1.9"),
			opt(2, "2.0-5.9"),
			opt(3, "6.0-11.9"),
			opt(4, "≥12.0"),
		),
		choice("cardiovascular", "Cardiovascular (Hypotension)", "MAP = Mean Arterial Pressure; vasopressors in µg/kg/min for ≥1 hour",
			opt(0, "MAP ≥70 mmHg"),
			opt(1, "MAP <70 mmHg"),
			opt(2, "Dopamine ≤5 or any dobutamine"),
			opt(3, "Dopamine >5 or Epi/Norepi ≤0.1"),
			opt(4, "Dopamine >15 or Epi/Norepi >0.1"),
		),
		choice("gcs", "Glasgow Coma Scale", "",
			opt(0, "15 (Normal)"),
			opt(1, "13-14"),
			opt(2, "10-12"),
			opt(3, "6-9"),
			opt(4, "<6"),
		),
		choice("renal", "Creatinine (mg/dL) or Urine Output", "",
			opt(0, "Cr <1.2"),
			opt(1, "Cr 1.2-1.9"),
			opt(2, "Cr 2.0-3.4"),
			opt(3, "Cr 3.5-4.9 OR UO <500 mL/day"),
			opt(4, "Cr ≥5.0 OR UO <200 mL/day"),
		),
	}

	ranges := domain.InterpretationRanges{
		span(0, 1, withMortality(interp("Minimal Organ Dysfunction", domain.RiskVeryLow,
			"Minimal organ dysfunction. Continue supportive care and monitor for changes.", ""), "<1.5%")),
		span(2, 3, withMortality(interp("Mild Organ Dysfunction", domain.RiskLow,
			"Mild organ dysfunction. Identify and treat underlying cause. Serial SOFA monitoring recommended.", ""), "1.5-4%")),
		span(4, 6, withMortality(interp("Moderate Organ Dysfunction", domain.RiskModerate,
			"Moderate organ dysfunction. Intensive monitoring required. Consider escalation of care if worsening.", ""), "4-11%")),
		span(7, 9, withMortality(interp("Significant Organ Dysfunction", domain.RiskHigh,
			"Significant multi-organ dysfunction. Aggressive organ support and source control required.", ""), "11-20%")),
		span(10, 12, withMortality(interp("Severe Organ Dysfunction", domain.RiskVeryHigh,
			"Severe multi-organ dysfunction. Maximum supportive therapy. Discuss goals of care if appropriate.", ""), "20-50%")),
		span(13, 24, withMortality(interp("Critical Organ Dysfunction", domain.RiskCritical,
			"Critical multi-organ failure with very high mortality risk. All possible interventions should be considered.",
			"Goals of care discussion may be appropriate"), ">50%")),
	}

	return &domain.Calculator{
		ID:           "sofa",
		Name:         "Sequential Organ Failure Assessment",
		Abbreviation: "SOFA",
		Category:     domain.CategoryCriticalCare,
		Description:  "ICU scoring system that assesses organ dysfunction across 6 organ systems to diagnose sepsis and predict mortality.",
		Purpose:      "SOFA is used to track the status of critically ill patients, particularly for defining organ dysfunction in sepsis. An acute increase of ≥2 points from baseline is used to identify sepsis.",
		Indications: []string{
			"ICU patients with suspected infection",
			"Defining organ dysfunction for Sepsis-3 criteria",
			"Daily tracking of ICU patient status",
			"Prognostication in critical illness",
		},
		Contraindications: []string{
			"Not validated for general ward patients (use qSOFA instead)",
			"Baseline SOFA may be difficult to determine in new patients",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{
			{
				Authors: "Vincent JL, Moreno R, Takala J, et al.",
				Title:   "The SOFA (Sepsis-related Organ Failure Assessment) score to describe organ dysfunction/failure",
				Journal: "Intensive Care Medicine",
				Year:    1996,
				Volume:  "22(7):707-710",
				DOI:     "10.1007/BF01709751",
				PMID:    "8844239",
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
		ValidationStudy: "Original validation in ICU population; Sepsis-3 definition uses SOFA increase ≥2 from baseline",
		Notes: []string{
			"For Sepsis-3: Sepsis = Suspected infection + SOFA increase ≥2 from baseline",
			"Baseline SOFA assumed 0 in patients not known to have pre-existing organ dysfunction",
			"Serial SOFA assessments can track response to treatment",
			"Individual organ scores range 0-4, total maximum 24",
		},
		RelatedIDs:  []string{"qsofa", "apache-ii", "news2"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    newPointSum(fields, ranges),
	}
}
