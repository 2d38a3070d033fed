package calculators

import (
	"fmt"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// apacheMortality maps upper score bounds to approximate predicted mortality.
var apacheMortality = []struct {
	upTo    float64
	percent int
}{
	{4, 4}, {9, 8}, {14, 15}, {19, 25}, {24, 40}, {29, 55}, {34, 75},
}

type apacheII struct {
	ranges domain.InterpretationRanges
}

func (apacheII) Score(in domain.Inputs) float64 {
	score := in.Sum(
		"temperature", "map", "heart_rate", "respiratory_rate",
		"oxygenation", "arterial_ph", "sodium", "potassium",
	)

	creatinine := in.Get("creatinine")
	if in.Get("acute_renal_failure") == 1 && creatinine > 0 {
		creatinine *= 2
	}
	score += creatinine

	return score + in.Sum("hematocrit", "wbc", "gcs", "age", "chronic_health")
}

func (s apacheII) Interpret(score float64, _ domain.Inputs) domain.Interpretation {
	out := band(s.ranges, score)
	out.Mortality = fmt.Sprintf("~%d%% predicted mortality", apachePredictedMortality(score))
	return out
}

func apachePredictedMortality(score float64) int {
	for _, m := range apacheMortality {
		if score <= m.upTo {
			return m.percent
		}
	}
	return 85
}

// APACHEII returns the Acute Physiology and Chronic Health Evaluation II definition.
func APACHEII() *domain.Calculator {
	fields := []domain.Field{
		choice("temperature", "Temperature (°C)", "Highest or lowest rectal temperature",
			opt(4, "≥41°C or ≤29.9°C (+4)"),
			opt(3, "39-40.9°C or 30-31.9°C (+3)"),
			opt(2, "32-33.9°C (+2)"),
			opt(1, "38.5-38.9°C or 34-35.9°C (+1)"),
			opt(0, "36-38.4°C (0)"),
		),
		choice("map", "Mean Arterial Pressure (mmHg)", "",
			opt(4, "≥160 or ≤49 (+4)"),
			opt(3, "130-159 (+3)"),
			opt(2, "110-129 or 50-69 (+2)"),
			opt(0, "70-109 (0)"),
		),
		choice("heart_rate", "Heart Rate (bpm)", "",
			opt(4, "≥180 or ≤39 (+4)"),
			opt(3, "140-179 or 40-54 (+3)"),
			opt(2, "110-139 or 55-69 (+2)"),
			opt(0, "70-109 (0)"),
		),
		choice("respiratory_rate", "Respiratory Rate", "Non-ventilated or ventilated",
			opt(4, "≥50 or ≤5 (+4)"),
			opt(3, "35-49 (+3)"),
			opt(1, "25-34 or 6-9 (+1)"),
			opt(0, "12-24 or 10-11 (0)"),
		),
		choice("oxygenation", "Oxygenation", "Use A-a gradient if FiO2 ≥0.5, or PaO2 if FiO2 <0.5",
			opt(4, "A-a ≥500 or PaO2 <55 (+4)"),
			opt(3, "A-a 350-499 or PaO2 55-60 (+3)"),
			opt(2, "A-a 200-349 (+2)"),
			opt(1, "PaO2 61-70 (+1)"),
			opt(0, "A-a <200 or PaO2 >70 (0)"),
		),
		choice("arterial_ph", "Arterial pH", "",
			opt(4, "≥7.70 or ≤7.15 (+4)"),
			opt(3, "7.60-7.69 or 7.15-7.24 (+3)"),
			opt(2, "7.50-7.59 (+2)"),
			opt(1, "7.25-7.32 (+1)"),
			opt(0, "7.33-7.49 (0)"),
		),
		choice("sodium", "Serum Sodium (mEq/L)", "",
			opt(4, "≥180 or ≤110 (+4)"),
			opt(3, "160-179 or 111-119 (+3)"),
			opt(2, "155-159 or 120-129 (+2)"),
			opt(1, "150-154 (+1)"),
			opt(0, "130-149 (0)"),
		),
		choice("potassium", "Serum Potassium (mEq/L)", "",
			opt(4, "≥7.0 or <2.5 (+4)"),
			opt(3, "6.0-6.9 (+3)"),
			opt(2, "2.5-2.9 (+2)"),
			opt(1, "5.5-5.9 or 3.0-3.4 (+1)"),
			opt(0, "3.5-5.4 (0)"),
		),
		// Two options share 2 points: 1.5-1.9 doubles with ARF, <0.6 is listed separately.
		choice("creatinine", "Serum Creatinine (mg/dL)", "Double points for acute renal failure",
			opt(4, "≥3.5 (+4, double if ARF)"),
			opt(3, "2.0-3.4 (+3, double if ARF)"),
			opt(2, "1.5-1.9 (+2, double if ARF)"),
			opt(0, "0.6-1.4 (0)"),
			opt(2, "<0.6 (+2)"),
		),
		yesNo("acute_renal_failure", "Acute Renal Failure", 1, "Double creatinine points if ARF"),
		choice("hematocrit", "Hematocrit (%)", "",
			opt(4, "≥60 or <20 (+4)"),
			opt(2, "50-59.9 or 20-29.9 (+2)"),
			opt(1, "46-49.9 (+1)"),
			opt(0, "30-45.9 (0)"),
		),
		choice("wbc", "White Blood Cell Count (×1000/mm³)", "",
			opt(4, "≥40 or <1 (+4)"),
			opt(2, "20-39.9 or 1-2.9 (+2)"),
			opt(1, "15-19.9 (+1)"),
			opt(0, "3-14.9 (0)"),
		),
		choice("gcs", "Glasgow Coma Scale", "If sedated, use pre-sedation GCS. Score = 15 - GCS", gcsPointOptions()...),
		choice("age", "Age (years)", "",
			opt(0, "<45 (+0)"),
			opt(2, "45-54 (+2)"),
			opt(3, "55-64 (+3)"),
			opt(5, "65-74 (+5)"),
			opt(6, "≥75 (+6)"),
		),
		choice("chronic_health", "Chronic Health Points", "Severe organ insufficiency or immunocompromised",
			opt(0, "None (+0)"),
			opt(2, "Non-operative or elective postop (+2)"),
			opt(5, "Emergency postop (+5)"),
		),
	}

	ranges := domain.InterpretationRanges{
		span(0, 9, withMortality(interp("Low Severity", domain.RiskLow,
			"Low severity illness. Standard ICU care.",
			"Routine monitoring. Consider step-down if improving.",
			"Expected good outcomes with standard care",
			"Daily reassessment for ICU discharge",
			"Early mobility protocols",
		), "~4-8%")),
		span(10, 19, withMortality(interp("Moderate Severity", domain.RiskModerate,
			"Moderate severity illness. Close monitoring required.",
			"Intensive monitoring. Optimize organ support.",
			"Close hemodynamic monitoring",
			"Early nutrition support",
			"Prophylaxis for DVT, stress ulcer",
			"Daily sedation vacation if ventilated",
		), "~15-25%")),
		span(20, 29, withMortality(interp("High Severity", domain.RiskHigh,
			"High severity illness. Aggressive intervention needed.",
			"Maximize organ support. Goals of care discussion may be appropriate.",
			"Aggressive resuscitation",
			"Consider advanced therapies",
			"Family meeting for goals of care",
			"Daily multidisciplinary rounds",
		), "~40-55%")),
		span(30, 71, withMortality(interp("Very High Severity", domain.RiskCritical,
			"Critical severity. Very high mortality risk.",
			"Maximum support. Mandatory goals of care discussion.",
			"Expected mortality >55%",
			"Palliative care consultation",
			"Family meeting essential",
			"Consider limitations of treatment",
			"Document patient wishes",
		), ">75%")),
	}

	return &domain.Calculator{
		ID:           "apache-ii",
		Name:         "APACHE II Score",
		Abbreviation: "APACHE II",
		Category:     domain.CategoryCriticalCare,
		Description:  "Predicts ICU mortality based on acute physiology, age, and chronic health status.",
		Purpose:      "APACHE II provides severity scoring for ICU patients to estimate mortality risk and guide resource allocation.",
		Indications: []string{
			"ICU admission mortality prediction",
			"Severity stratification for clinical trials",
			"Quality benchmarking between ICUs",
			"Resource allocation decisions",
		},
		Contraindications: []string{
			"Burns patients (use specific burns scoring)",
			"Post-cardiac surgery (use specific scores)",
			"Score should be calculated within first 24 hours of ICU admission",
		},
		Fields: fields,
		Ranges: ranges,
		Domain: &domain.ScoreDomain{Min: 0, Max: 71, Step: 1},
		Citations: []domain.Citation{{
			Authors: "Knaus WA, Draper EA, Wagner DP, Zimmerman JE.",
			Title:   "APACHE II: a severity of disease classification system",
			Journal: "Crit Care Med",
			Year:    1985,
			Volume:  "13(10):818-829",
			PMID:    "3928249",
		}},
		ValidationStudy: "Validated in >5,000 ICU admissions. Most widely used ICU severity score worldwide despite newer alternatives.",
		Notes: []string{
			"Use worst values in first 24 hours of ICU admission",
			"Maximum possible score is 71",
			"Chronic health points apply only if severe organ insufficiency existed prior to admission",
			"APACHE III and IV exist but APACHE II remains most validated",
		},
		RelatedIDs:  []string{"sofa", "qsofa", "news2", "gcs"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    apacheII{ranges: ranges},
	}
}

func gcsPointOptions() []domain.Option {
	out := make([]domain.Option, 0, 13)
	for points := 0; points <= 12; points++ {
		out = append(out, opt(float64(points), fmt.Sprintf("GCS %d (+%d)", 15-points, points)))
	}
	return out
}
