package calculators

import (
	"fmt"
	"math"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// framinghamPoints is the point conversion of one sex. Age points are per five-year
// band from 30; cholesterol and smoking points are per decade from 30, with 70-74 in
// the last row.
type framinghamPoints struct {
	age          [9]float64
	cholesterol  [5][5]float64
	sbpUntreated [5]float64
	sbpTreated   [5]float64
	smoker       [5]float64
	diabetes     float64
	risk         []riskStep
	ranges       domain.InterpretationRanges
}

// riskStep maps scores up to upTo to a 10-year risk percentage.
type riskStep struct {
	upTo    float64
	percent int
}

var (
	framinghamCholesterolCuts = []float64{160, 200, 240, 280}
	framinghamSBPCuts         = []float64{120, 130, 140, 160}
)

var framinghamMale = framinghamPoints{
	age: [9]float64{-1, 0, 1, 2, 3, 4, 5, 6, 7},
	cholesterol: [5][5]float64{
		{0, 4, 7, 9, 11},
		{0, 3, 5, 6, 8},
		{0, 2, 3, 4, 5},
		{0, 1, 1, 2, 3},
		{0, 0, 0, 1, 1},
	},
	sbpUntreated: [5]float64{0, 0, 1, 1, 2},
	sbpTreated:   [5]float64{0, 1, 2, 2, 3},
	smoker:       [5]float64{8, 5, 3, 1, 1},
	diabetes:     3,
	risk: []riskStep{
		{4, 1}, {6, 2}, {7, 3}, {8, 4}, {9, 5}, {10, 6}, {11, 8},
		{12, 10}, {13, 12}, {14, 16}, {15, 20}, {16, 25},
	},
	ranges: framinghamRanges(11, 14),
}

var framinghamFemale = framinghamPoints{
	age: [9]float64{-7, -3, 0, 3, 6, 8, 10, 12, 14},
	cholesterol: [5][5]float64{
		{0, 4, 8, 11, 13},
		{0, 3, 6, 8, 10},
		{0, 2, 4, 5, 7},
		{0, 1, 2, 3, 4},
		{0, 1, 1, 2, 2},
	},
	sbpUntreated: [5]float64{0, 1, 2, 3, 4},
	sbpTreated:   [5]float64{0, 3, 4, 5, 6},
	smoker:       [5]float64{9, 7, 4, 2, 1},
	diabetes:     6,
	risk: []riskStep{
		{12, 1}, {14, 2}, {15, 3}, {16, 4}, {17, 5}, {18, 6}, {19, 8},
		{20, 11}, {21, 14}, {22, 17}, {23, 22}, {24, 27},
	},
	ranges: framinghamRanges(19, 22),
}

const (
	framinghamMin = -10
	framinghamMax = 35
)

type framingham struct{}

func framinghamTable(in domain.Inputs) *framinghamPoints {
	if in.Get("sex") == 1 {
		return &framinghamMale
	}
	return &framinghamFemale
}

func (framingham) Score(in domain.Inputs) float64 {
	t := framinghamTable(in)
	age := orDefault(in.Get("age"), 45)
	tc := orDefault(in.Get("total_cholesterol"), 200)
	hdl := orDefault(in.Get("hdl"), 50)
	sbp := orDefault(in.Get("systolic_bp"), 120)

	ageBand := bandIndex(age, 30, 5, len(t.age))
	decade := bandIndex(age, 30, 10, len(t.smoker))

	points := t.age[ageBand] + t.cholesterol[decade][cutIndex(tc, framinghamCholesterolCuts)]

	switch {
	case hdl >= 60:
		points--
	case hdl >= 50:
	case hdl >= 40:
		points++
	default:
		points += 2
	}

	if in.Get("bp_treated") == 1 {
		points += t.sbpTreated[cutIndex(sbp, framinghamSBPCuts)]
	} else {
		points += t.sbpUntreated[cutIndex(sbp, framinghamSBPCuts)]
	}
	if in.Get("smoker") == 1 {
		points += t.smoker[decade]
	}
	if in.Get("diabetes") == 1 {
		points += t.diabetes
	}
	return points
}

func (framingham) Interpret(score float64, in domain.Inputs) domain.Interpretation {
	t := framinghamTable(in)
	out := band(t.ranges, score)
	out.Morbidity = fmt.Sprintf("%d%% 10-year CVD risk", stepPercent(t.risk, score, 30))
	return out
}

func (framingham) RangesFor(in domain.Inputs) domain.InterpretationRanges {
	return framinghamTable(in).ranges
}

func (framingham) RangeTables() []domain.InterpretationRanges {
	return []domain.InterpretationRanges{framinghamFemale.ranges, framinghamMale.ranges}
}

// bandIndex returns the index of the width-sized band from start that holds v,
// bounded to [0, n-1].
func bandIndex(v, start, width float64, n int) int {
	i := int(math.Floor((v - start) / width))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// cutIndex returns the number of ascending cut points that v reaches.
func cutIndex(v float64, cuts []float64) int {
	i := 0
	for _, c := range cuts {
		if v < c {
			break
		}
		i++
	}
	return i
}

func stepPercent(steps []riskStep, score float64, above int) int {
	for _, s := range steps {
		if score <= s.upTo {
			return s.percent
		}
	}
	return above
}

// framinghamRanges bands points into low (<10%), intermediate (10-20%) and high (≥20%)
// 10-year risk given the last point value of the low and intermediate bands.
func framinghamRanges(lowMax, intermediateMax float64) domain.InterpretationRanges {
	return domain.InterpretationRanges{
		span(framinghamMin, lowMax, withMorbidity(interp("Low Risk", domain.RiskLow,
			"Low cardiovascular risk. Focus on lifestyle modifications.",
			"Therapeutic lifestyle changes. Reassess in 5 years.",
			"Encourage healthy diet and regular exercise",
			"Maintain healthy weight",
			"Avoid tobacco use",
			"Moderate alcohol consumption",
			"Statin therapy generally not indicated at this risk level",
		), "<10% 10-year CVD risk")),
		span(lowMax+1, intermediateMax, withMorbidity(interp("Intermediate Risk", domain.RiskModerate,
			"Intermediate cardiovascular risk. Consider additional risk assessment.",
			"Lifestyle modifications. Consider coronary calcium scoring for reclassification.",
			"Intensive lifestyle intervention",
			"Consider moderate-intensity statin therapy",
			"Control blood pressure to goal",
			"Consider aspirin if net benefit expected",
			"Coronary artery calcium score may help with shared decision-making",
		), "10-20% 10-year CVD risk")),
		span(intermediateMax+1, framinghamMax, withMorbidity(interp("High Risk", domain.RiskHigh,
			"High cardiovascular risk. Aggressive risk factor modification indicated.",
			"High-intensity statin therapy. Aggressive risk factor control.",
			"High-intensity statin indicated",
			"Target LDL <70 mg/dL or >50% reduction",
			"Blood pressure control to <130/80",
			"Consider aspirin for primary prevention",
			"Diabetes control if applicable",
			"Smoking cessation is critical",
			"Consider referral to cardiology",
		), "≥20% 10-year CVD risk")),
	}
}

// Framingham returns the Framingham 10-year cardiovascular risk definition.
// Points convert to risk with a sex-specific table.
func Framingham() *domain.Calculator {
	fields := []domain.Field{
		number("age", "Age (years)", "years", 30, 74, 1, ""),
		choice("sex", "Sex", "", opt(0, "Female"), opt(1, "Male")),
		number("total_cholesterol", "Total Cholesterol (mg/dL)", "mg/dL", 100, 400, 1, ""),
		number("hdl", "HDL Cholesterol (mg/dL)", "mg/dL", 20, 100, 1, ""),
		number("systolic_bp", "Systolic Blood Pressure (mmHg)", "mmHg", 90, 200, 1, ""),
		yesNo("bp_treated", "On Blood Pressure Medication", 1, ""),
		yesNo("smoker", "Current Smoker", 1, ""),
		yesNo("diabetes", "Diabetes", 1, ""),
	}

	return &domain.Calculator{
		ID:           "framingham",
		Name:         "Framingham Risk Score",
		Abbreviation: "FRS",
		Category:     domain.CategoryCardiology,
		Description:  "Estimates 10-year risk of developing cardiovascular disease based on traditional risk factors.",
		Purpose:      "The Framingham Risk Score guides primary prevention decisions by stratifying patients into low, intermediate, or high cardiovascular risk categories.",
		Indications: []string{
			"Primary prevention risk assessment",
			"Guiding statin therapy decisions",
			"Patient counseling about CVD risk",
			"Adults 30-74 years without known CVD",
		},
		Contraindications: []string{
			"Known cardiovascular disease (use secondary prevention)",
			"Age <30 or >74 years",
			"Familial hypercholesterolemia (use different calculator)",
		},
		Fields: fields,
		Ranges: framinghamFemale.ranges,
		Domain: &domain.ScoreDomain{Min: framinghamMin, Max: framinghamMax, Step: 1},
		Citations: []domain.Citation{
			{
				Authors: "D'Agostino RB Sr, Vasan RS, Pencina MJ, et al.",
				Title:   "General cardiovascular risk profile for use in primary care: the Framingham Heart Study",
				Journal: "Circulation",
				Year:    2008,
				Volume:  "117(6):743-753",
				DOI:     "10.1161/CIRCULATIONAHA.107.699579",
				PMID:    "18212285",
			},
			{
				Authors: "Wilson PW, D'Agostino RB, Levy D, et al.",
				Title:   "Prediction of coronary heart disease using risk factor categories",
				Journal: "Circulation",
				Year:    1998,
				Volume:  "97(18):1837-1847",
				DOI:     "10.1161/01.cir.97.18.1837",
				PMID:    "9603539",
			},
		},
		ValidationStudy: "Derived from the Framingham Heart Study cohort. Validated in multiple populations. Foundation for subsequent CVD risk calculators.",
		Notes: []string{
			"Original derivation cohort was predominantly white",
			"May underestimate risk in South Asians",
			"Consider family history as risk modifier",
			"ASCVD Risk Estimator may be preferred in US guidelines",
			"Point thresholds differ by sex; the listed ranges are the female table",
		},
		RelatedIDs:  []string{"ascvd", "cha2ds2-vasc"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    framingham{},
	}
}
