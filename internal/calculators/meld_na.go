package calculators

import (
	"math"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

const (
	meldMin = 6
	meldMax = 40
)

type meldNa struct {
	ranges domain.InterpretationRanges
}

// Score applies the UNOS bounds before the log-linear MELD term and the sodium adjustment:
// creatinine in [1,4] (4 when on dialysis), bilirubin and INR at least 1, sodium in [125,137].
func (meldNa) Score(in domain.Inputs) float64 {
	creatinine := clamp(orDefault(in.Get("creatinine"), 1), 1, 4)
	if in.Get("dialysis") == 1 {
		creatinine = 4
	}
	bilirubin := math.Max(1, orDefault(in.Get("bilirubin"), 1))
	inr := math.Max(1, orDefault(in.Get("inr"), 1))
	sodium := clamp(orDefault(in.Get("sodium"), 137), 125, 137)

	meld := 10 * (0.957*math.Log(creatinine) + 0.378*math.Log(bilirubin) + 1.12*math.Log(inr) + 0.643)
	na := meld + 1.32*(137-sodium) - 0.033*meld*(137-sodium)
	return math.Round(clamp(na, meldMin, meldMax))
}

func (s meldNa) Interpret(score float64, _ domain.Inputs) domain.Interpretation {
	return band(s.ranges, score)
}

// MELDNa returns the MELD-Na end-stage liver disease definition.
func MELDNa() *domain.Calculator {
	fields := []domain.Field{
		number("creatinine", "Creatinine", "mg/dL", 0.1, 15, 0, "Serum creatinine (capped at 4.0 mg/dL)"),
		number("bilirubin", "Bilirubin", "mg/dL", 0.1, 50, 0, "Total bilirubin"),
		number("inr", "INR", "", 0.5, 10, 0.1, "International Normalized Ratio"),
		number("sodium", "Sodium", "mEq/L", 100, 160, 0, "Serum sodium (125-137 mEq/L range used)"),
		yesNo("dialysis", "Dialysis at least twice in past week", 1, ""),
	}

	ranges := domain.InterpretationRanges{
		span(6, 9, withMortality(interp("Low", domain.RiskLow,
			"Regular monitoring. Transplant evaluation if indicated.",
			"Continue medical management.",
		), "1.9% 90-day mortality")),
		span(10, 19, withMortality(interp("Moderate", domain.RiskModerate,
			"Consider transplant evaluation if not already listed.",
			"Close monitoring. Optimize medical therapy.",
		), "6% 90-day mortality")),
		span(20, 29, withMortality(interp("High", domain.RiskHigh,
			"Active transplant listing recommended.",
			"Expedite transplant workup if eligible.",
		), "19.6% 90-day mortality")),
		span(30, 39, withMortality(interp("Very High", domain.RiskVeryHigh,
			"Urgent transplant consideration.",
			"Priority listing. Consider living donor if available.",
		), "52.6% 90-day mortality")),
		span(40, 40, withMortality(interp("Critical", domain.RiskCritical,
			"Critical condition. Maximum priority.",
			"Highest priority for transplant. Intensive supportive care.",
		), "71.3% 90-day mortality")),
	}

	return &domain.Calculator{
		ID:           "meld-na",
		Name:         "MELD-Na Score (Model for End-Stage Liver Disease)",
		Abbreviation: "MELD-Na",
		Category:     domain.CategoryHepatology,
		Description:  "Predicts 90-day mortality in patients with end-stage liver disease. Used for liver transplant allocation.",
		Purpose:      "The MELD-Na score estimates survival in patients with chronic liver disease and prioritizes liver transplant allocation.",
		Indications: []string{
			"End-stage liver disease assessment",
			"Liver transplant prioritization",
			"Prognosis in cirrhosis",
			"TIPS procedure risk assessment",
		},
		Contraindications: []string{
			"Acute liver failure (different scoring)",
			"Pediatric patients (<12 years)",
		},
		Fields: fields,
		Ranges: ranges,
		Domain: &domain.ScoreDomain{Min: meldMin, Max: meldMax, Step: 1},
		Citations: []domain.Citation{{
			Authors: "Kim WR, Biggins SW, Kremers WK, et al.",
			Title:   "Hyponatremia and mortality among patients on the liver-transplant waiting list",
			Journal: "N Engl J Med",
			Year:    2008,
			Volume:  "359(10):1018-1026",
			DOI:     "10.1056/NEJMoa0801209",
			PMID:    "18768945",
		}},
		ValidationStudy: "Validated in UNOS database. Now standard for US liver transplant allocation.",
		Notes: []string{
			"Creatinine is set to 4.0 mg/dL for patients on dialysis",
			"Values below 1.0 are set to 1.0 for creatinine, bilirubin and INR",
			"Score is bounded to 6-40",
		},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    meldNa{ranges: ranges},
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// orDefault substitutes def for a zero value, the encoding of an absent optional input.
func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
