package calculators

import (
	"fmt"
	"math"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// pooledCohort holds the Pooled Cohort Equation coefficients of one sex and race group.
type pooledCohort struct {
	lnAge, lnAge2             float64
	lnTC, lnAgeTC             float64
	lnHDL, lnAgeHDL           float64
	lnTreatedSBP, lnAgeTrSBP  float64
	lnUntreatedSBP, lnAgeUSBP float64
	smoker, lnAgeSmoker       float64
	diabetes                  float64
	baseline, mean            float64
}

var (
	pceWhiteMale = pooledCohort{
		lnAge: 12.344, lnTC: 11.853, lnAgeTC: -2.664, lnHDL: -7.990, lnAgeHDL: 1.769,
		lnTreatedSBP: 1.797, lnUntreatedSBP: 1.764, smoker: 7.837, lnAgeSmoker: -1.795,
		diabetes: 0.658, baseline: 0.9144, mean: 61.18,
	}
	pceBlackMale = pooledCohort{
		lnAge: 2.469, lnTC: 0.302, lnHDL: -0.307,
		lnTreatedSBP: 1.916, lnUntreatedSBP: 1.809, smoker: 0.549,
		diabetes: 0.645, baseline: 0.8954, mean: 19.54,
	}
	pceWhiteFemale = pooledCohort{
		lnAge: -29.799, lnAge2: 4.884, lnTC: 13.540, lnAgeTC: -3.114, lnHDL: -13.578, lnAgeHDL: 3.149,
		lnTreatedSBP: 2.019, lnUntreatedSBP: 1.957, smoker: 7.574, lnAgeSmoker: -1.665,
		diabetes: 0.661, baseline: 0.9665, mean: -29.18,
	}
	pceBlackFemale = pooledCohort{
		lnAge: 17.114, lnTC: 0.940, lnHDL: -18.920, lnAgeHDL: 4.475,
		lnTreatedSBP: 29.291, lnAgeTrSBP: -6.432, lnUntreatedSBP: 27.820, lnAgeUSBP: -6.087,
		smoker: 0.691, diabetes: 0.874, baseline: 0.9533, mean: 86.61,
	}
)

type ascvd struct {
	ranges domain.InterpretationRanges
}

func pooledCohortFor(in domain.Inputs) pooledCohort {
	male, black := in.Get("sex") == 1, in.Get("race") == 1
	switch {
	case male && !black:
		return pceWhiteMale
	case male:
		return pceBlackMale
	case !black:
		return pceWhiteFemale
	default:
		return pceBlackFemale
	}
}

// Score returns the 10-year ASCVD risk in percent, rounded to one decimal.
func (ascvd) Score(in domain.Inputs) float64 {
	c := pooledCohortFor(in)
	lnAge := math.Log(orDefault(in.Get("age"), 55))
	lnTC := math.Log(orDefault(in.Get("total_cholesterol"), 200))
	lnHDL := math.Log(orDefault(in.Get("hdl"), 50))
	lnSBP := math.Log(orDefault(in.Get("systolic_bp"), 120))

	sum := c.lnAge*lnAge +
		c.lnAge2*lnAge*lnAge +
		c.lnTC*lnTC +
		c.lnAgeTC*lnAge*lnTC +
		c.lnHDL*lnHDL +
		c.lnAgeHDL*lnAge*lnHDL

	if in.Get("bp_treated") == 1 {
		sum += c.lnTreatedSBP*lnSBP + c.lnAgeTrSBP*lnAge*lnSBP
	} else {
		sum += c.lnUntreatedSBP*lnSBP + c.lnAgeUSBP*lnAge*lnSBP
	}
	if in.Get("smoker") == 1 {
		sum += c.smoker + c.lnAgeSmoker*lnAge
	}
	if in.Get("diabetes") == 1 {
		sum += c.diabetes
	}

	risk := 1 - math.Pow(c.baseline, math.Exp(sum-c.mean))
	return math.Round(risk*1000) / 10
}

func (s ascvd) Interpret(score float64, _ domain.Inputs) domain.Interpretation {
	out := band(s.ranges, score)
	out.ScoreDisplay = fmt.Sprintf("%.1f%%", score)
	out.Morbidity = fmt.Sprintf("%.1f%% 10-year ASCVD risk", score)
	return out
}

// ASCVD returns the Pooled Cohort Equations 10-year ASCVD risk definition.
func ASCVD() *domain.Calculator {
	fields := []domain.Field{
		number("age", "Age (years)", "years", 40, 79, 1, ""),
		choice("sex", "Sex", "", opt(0, "Female"), opt(1, "Male")),
		choice("race", "Race", "", opt(0, "White or Other"), opt(1, "African American")),
		number("total_cholesterol", "Total Cholesterol (mg/dL)", "mg/dL", 130, 320, 1, ""),
		number("hdl", "HDL Cholesterol (mg/dL)", "mg/dL", 20, 100, 1, ""),
		number("systolic_bp", "Systolic Blood Pressure (mmHg)", "mmHg", 90, 200, 1, ""),
		yesNo("bp_treated", "On Blood Pressure Medication", 1, ""),
		yesNo("diabetes", "Diabetes", 1, ""),
		yesNo("smoker", "Current Smoker", 1, ""),
	}

	ranges := domain.InterpretationRanges{
		span(0, 4.9, withMorbidity(interp("Low Risk", domain.RiskLow,
			"Low cardiovascular risk. Emphasize lifestyle modifications.",
			"Lifestyle counseling. Statin generally not recommended unless risk enhancers present.",
			"Focus on heart-healthy lifestyle",
			"Diet: Mediterranean or DASH pattern",
			"Exercise: 150+ minutes moderate activity/week",
			"Maintain healthy weight",
			"Avoid tobacco",
			"Reassess in 5-10 years",
		), "<5% 10-year ASCVD risk")),
		span(5, 7.4, withMorbidity(interp("Borderline Risk", domain.RiskLowModerate,
			"Borderline risk. Consider risk-enhancing factors.",
			"Risk discussion. If risk enhancers present, consider moderate-intensity statin.",
			"Review risk-enhancing factors:",
			"- Family history of premature ASCVD",
			"- LDL ≥160 mg/dL or elevated Lp(a)",
			"- Metabolic syndrome",
			"- CKD, chronic inflammatory conditions",
			"- History of preeclampsia or premature menopause",
			"- High-risk ethnicity (South Asian)",
			"Coronary artery calcium (CAC) scoring may help decision-making",
		), "5-7.5% 10-year ASCVD risk")),
		span(7.5, 19.9, withMorbidity(interp("Intermediate Risk", domain.RiskModerate,
			"Intermediate risk. Risk discussion about statin therapy.",
			"Clinician-patient risk discussion. If decision uncertain, consider CAC scoring.",
			"Risk discussion should include:",
			"- Potential benefits of statin therapy",
			"- Potential adverse effects",
			"- Drug-drug interactions",
			"- Patient preferences",
			"If CAC = 0: Consider holding statin, repeat CAC in 5 years",
			"If CAC 1-99: Favors statin therapy",
			"If CAC ≥100: Statin indicated",
		), "7.5-20% 10-year ASCVD risk")),
		span(20, 100, withMorbidity(interp("High Risk", domain.RiskHigh,
			"High cardiovascular risk. Statin therapy strongly recommended.",
			"High-intensity statin therapy. Maximize lifestyle intervention.",
			"High-intensity statin indicated",
			"Goal: LDL reduction ≥50%",
			"Consider LDL goal <70 mg/dL",
			"Blood pressure control to <130/80",
			"If on statin and LDL ≥70 mg/dL, consider adding ezetimibe",
			"If very high risk, consider PCSK9 inhibitor",
			"Aspirin may be considered if no increased bleeding risk",
		), "≥20% 10-year ASCVD risk")),
	}

	return &domain.Calculator{
		ID:           "ascvd",
		Name:         "ASCVD Risk Estimator (Pooled Cohort Equations)",
		Abbreviation: "ASCVD",
		Category:     domain.CategoryCardiology,
		Description:  "Estimates 10-year risk of atherosclerotic cardiovascular disease using the ACC/AHA Pooled Cohort Equations.",
		Purpose:      "The ASCVD Risk Estimator guides primary prevention decisions and statin therapy initiation per ACC/AHA guidelines.",
		Indications: []string{
			"Primary prevention risk assessment",
			"Guiding statin therapy decisions (ACC/AHA guidelines)",
			"Patient counseling about CVD risk",
			"Adults 40-79 years without known ASCVD",
		},
		Contraindications: []string{
			"Known atherosclerotic cardiovascular disease",
			"Age <40 or >79 years",
			"LDL ≥190 mg/dL (high-intensity statin indicated regardless)",
			"Diabetes mellitus ages 40-75 (moderate-intensity statin indicated)",
		},
		Fields: fields,
		Ranges: ranges,
		Domain: &domain.ScoreDomain{Min: 0, Max: 100, Step: 0.1},
		Citations: []domain.Citation{
			{
				Authors: "Goff DC Jr, Lloyd-Jones DM, Bennett G, et al.",
				Title:   "2013 ACC/AHA guideline on the assessment of cardiovascular risk",
				Journal: "Circulation",
				Year:    2014,
				Volume:  "129(25 Suppl 2):S49-73",
				DOI:     "10.1161/01.cir.0000437741.48606.98",
				PMID:    "24222018",
			},
			{
				Authors: "Arnett DK, Blumenthal RS, Grundy SM, et al.",
				Title:   "2019 ACC/AHA Guideline on the Primary Prevention of Cardiovascular Disease",
				Journal: "Circulation",
				Year:    2019,
				Volume:  "140(11):e596-e646",
				DOI:     "10.1161/CIR.0000000000000678",
				PMID:    "30879355",
			},
		},
		ValidationStudy: "Derived from pooled data from ARIC, CARDIA, CHS, and Framingham studies. Standard for ACC/AHA primary prevention guidelines.",
		Notes: []string{
			"Based on Pooled Cohort Equations from ACC/AHA guidelines",
			"Validated for White and African American adults",
			"May overestimate risk in some populations",
			"Consider risk-enhancing factors and CAC scoring for borderline/intermediate risk",
			"Equations are race- and sex-specific",
		},
		RelatedIDs:  []string{"framingham"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    ascvd{ranges: ranges},
	}
}
