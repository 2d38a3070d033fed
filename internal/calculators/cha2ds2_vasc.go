package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// cha2ds2vascStrokeRisk is the annual stroke risk by score.
var cha2ds2vascStrokeRisk = map[float64]string{
	0: "0%",
	1: "1.3%",
	2: "2.2%",
	3: "3.2%",
	4: "4.0%",
	5: "6.7%",
	6: "9.8%",
	7: "9.6%",
	8: "12.5%",
	9: "15.2%",
}

type cha2ds2vasc struct {
	fields []string
	ranges domain.InterpretationRanges
}

func (s cha2ds2vasc) Score(in domain.Inputs) float64 {
	return in.Sum(s.fields...)
}

// Interpret words the category and recommendation by sex: a single point from female
// sex alone does not call for anticoagulation.
func (s cha2ds2vasc) Interpret(score float64, in domain.Inputs) domain.Interpretation {
	out := band(s.ranges, score)

	risk, ok := cha2ds2vascStrokeRisk[score]
	if !ok {
		risk = ">15%"
	}
	out.Mortality = "Annual stroke risk: " + risk

	female := in.Get("sex") == 1
	switch {
	case score == 0:
		out.Recommendation = "Low risk. Anticoagulation is generally not recommended. No antithrombotic therapy or aspirin may be considered."
	case score == 1 && female:
		out.Category = "Low Risk (Female only)"
		out.Recommendation = "If the only point is female sex, actual risk is low. No anticoagulation generally needed."
		out.Notes = append(out.Notes, "Only risk factor is female sex: treat as low risk")
	}
	return out
}

// CHA2DS2VASc returns the CHA₂DS₂-VASc stroke risk definition.
func CHA2DS2VASc() *domain.Calculator {
	fields := []domain.Field{
		{
			ID: "chf", Label: "Congestive Heart Failure", Type: domain.FieldBoolean, Required: true,
			Description: "History of CHF or objective evidence of LV dysfunction (EF ≤40%)",
			Options:     []domain.Option{opt(0, "No"), opt(1, "Yes (+1)")},
		},
		{
			ID: "hypertension", Label: "Hypertension", Type: domain.FieldBoolean, Required: true,
			Description: "Resting BP >140/90 mmHg on ≥2 occasions or current antihypertensive treatment",
			Options:     []domain.Option{opt(0, "No"), opt(1, "Yes (+1)")},
		},
		choice("age", "Age", "",
			opt(0, "<65 years"),
			opt(1, "65-74 years (+1)"),
			opt(2, "≥75 years (+2)"),
		),
		{
			ID: "diabetes", Label: "Diabetes Mellitus", Type: domain.FieldBoolean, Required: true,
			Description: "Fasting glucose ≥126 mg/dL or treatment with oral hypoglycemics/insulin",
			Options:     []domain.Option{opt(0, "No"), opt(1, "Yes (+1)")},
		},
		{
			ID: "stroke", Label: "Stroke/TIA/Thromboembolism", Type: domain.FieldBoolean, Required: true,
			Description: "Prior stroke, TIA, or systemic thromboembolism",
			Options:     []domain.Option{opt(0, "No"), opt(2, "Yes (+2)")},
		},
		{
			ID: "vascular", Label: "Vascular Disease", Type: domain.FieldBoolean, Required: true,
			Description: "Prior MI, peripheral artery disease, or aortic plaque",
			Options:     []domain.Option{opt(0, "No"), opt(1, "Yes (+1)")},
		},
		choice("sex", "Sex Category", "",
			opt(0, "Male"),
			opt(1, "Female (+1)"),
		),
	}

	anticoagulate := "Oral anticoagulation is recommended. Use HAS-BLED to assess bleeding risk but anticoagulation generally warranted."
	anticoagulateAction := "Initiate anticoagulation (NOAC preferred unless mechanical valve or moderate-severe mitral stenosis)"
	anticoagulateNotes := []string{
		"NOACs preferred over warfarin for most patients",
		"If warfarin: target INR 2.0-3.0",
		"Assess bleeding risk with HAS-BLED but high HAS-BLED is rarely reason to avoid anticoagulation",
	}

	ranges := domain.InterpretationRanges{
		span(0, 0, interp("Low Risk", domain.RiskVeryLow,
			"No anticoagulation generally recommended.", "",
			"Female sex alone does not necessitate anticoagulation",
			"Reassess risk factors annually",
		)),
		span(1, 1, interp("Low-Moderate Risk", domain.RiskLowModerate,
			"Oral anticoagulation should be considered. Balance stroke prevention against bleeding risk (HAS-BLED).", "",
			"ESC guidelines: Consider OAC for males with score 1",
			"NOACs preferred over warfarin unless contraindicated",
		)),
		span(2, 3, interp("Moderate Risk", domain.RiskModerate, anticoagulate, anticoagulateAction, anticoagulateNotes...)),
		span(4, 9, interp("High Risk", domain.RiskHigh, anticoagulate, anticoagulateAction,
			append(append([]string(nil), anticoagulateNotes...), "High risk - anticoagulation strongly indicated")...)),
	}

	return &domain.Calculator{
		ID:           "cha2ds2-vasc",
		Name:         "CHA₂DS₂-VASc Score for Atrial Fibrillation Stroke Risk",
		Abbreviation: "CHA₂DS₂-VASc",
		Category:     domain.CategoryCardiology,
		Description:  "Calculates stroke risk in patients with atrial fibrillation to guide anticoagulation therapy.",
		Purpose:      "CHA₂DS₂-VASc is the recommended tool for stroke risk assessment in AF. It helps identify patients who would benefit from anticoagulation and those at low enough risk to forgo it.",
		Indications: []string{
			"Atrial fibrillation (AF) or atrial flutter",
			"Deciding whether to initiate anticoagulation",
			"Annual risk reassessment in AF patients",
		},
		Contraindications: []string{
			"Not applicable for other causes of stroke risk",
			"Should be used alongside bleeding risk assessment (HAS-BLED)",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{
			{
				Authors: "Lip GY, Nieuwlaat R, Pisters R, et al.",
				Title:   "Refining clinical risk stratification for predicting stroke and thromboembolism in atrial fibrillation using a novel risk factor-based approach: the Euro Heart Survey on atrial fibrillation",
				Journal: "Chest",
				Year:    2010,
				Volume:  "137(2):263-272",
				DOI:     "10.1378/chest.09-1584",
				PMID:    "19762550",
			},
			{
				Authors: "Hindricks G, Potpara T, Dagres N, et al.",
				Title:   "2020 ESC Guidelines for the diagnosis and management of atrial fibrillation",
				Journal: "European Heart Journal",
				Year:    2021,
				Volume:  "42(5):373-498",
				DOI:     "10.1093/eurheartj/ehaa612",
				PMID:    "32860505",
			},
		},
		ValidationStudy: "Validated in multiple large cohorts; recommended by ESC, AHA/ACC/HRS guidelines",
		Notes: []string{
			"Female sex alone (score of 1) does not warrant anticoagulation",
			"Score applies to non-valvular AF (not mechanical valves or moderate-severe mitral stenosis)",
			"Always assess bleeding risk with HAS-BLED alongside stroke risk",
			"Reassess annually as risk factors may change",
		},
		RelatedIDs:  []string{"has-bled", "heart-score"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    cha2ds2vasc{fields: fieldIDs(fields), ranges: ranges},
	}
}
