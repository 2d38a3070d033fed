package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// HASBLED returns the HAS-BLED major bleeding risk definition.
func HASBLED() *domain.Calculator {
	fields := []domain.Field{
		yesNo("hypertension", "Hypertension", 1, "Uncontrolled, SBP >160 mmHg"),
		yesNo("renal_disease", "Abnormal Renal Function", 1, "Dialysis, transplant, Cr >2.26 mg/dL or >200 μmol/L"),
		yesNo("liver_disease", "Abnormal Liver Function", 1, "Cirrhosis or Bilirubin >2x normal with AST/ALT/ALP >3x normal"),
		yesNo("stroke", "Prior Stroke", 1, "History of stroke"),
		yesNo("bleeding", "Prior Major Bleeding or Predisposition", 1, "Previous major bleed, anemia, or bleeding predisposition"),
		yesNo("labile_inr", "Labile INR", 1, "Unstable/high INRs, TTR <60%"),
		yesNo("elderly", "Age >65 years", 1, ""),
		yesNo("drugs", "Drugs Predisposing to Bleeding", 1, "Antiplatelet agents, NSAIDs"),
		yesNo("alcohol", "Alcohol Use (≥8 drinks/week)", 1, ""),
	}

	ranges := domain.InterpretationRanges{
		span(0, 0, withMorbidity(interp("Low Risk", domain.RiskLow,
			"Low bleeding risk. Anticoagulation generally safe.",
			"Proceed with anticoagulation if indicated.",
		), "1.13 bleeds per 100 patient-years")),
		span(1, 1, withMorbidity(interp("Low-Moderate Risk", domain.RiskLowModerate,
			"Relatively low bleeding risk.",
			"Anticoagulation appropriate with routine monitoring.",
		), "1.02 bleeds per 100 patient-years")),
		span(2, 2, withMorbidity(interp("Moderate Risk", domain.RiskModerate,
			"Moderate bleeding risk. Address modifiable factors.",
			"Consider modifiable risk factors. Closer follow-up.",
			"Control blood pressure",
			"Minimize NSAID/antiplatelet use",
			"Address alcohol use if applicable",
		), "1.88 bleeds per 100 patient-years")),
		span(3, 9, withMorbidity(interp("High Risk", domain.RiskHigh,
			"High bleeding risk. Carefully weigh benefits vs risks.",
			"Aggressively modify risk factors. Consider alternatives. Closer monitoring.",
			"Does NOT mean anticoagulation is contraindicated",
			"High HAS-BLED often parallels high stroke risk",
			"Focus on modifiable factors",
			"May consider DOAC over warfarin",
			"More frequent follow-up recommended",
		), "3.74-12.5 bleeds per 100 patient-years")),
	}

	return &domain.Calculator{
		ID:           "has-bled",
		Name:         "HAS-BLED Score for Major Bleeding Risk",
		Abbreviation: "HAS-BLED",
		Category:     domain.CategoryCardiology,
		Description:  "Estimates risk of major bleeding for patients on anticoagulation for atrial fibrillation.",
		Purpose:      "The HAS-BLED score helps identify modifiable bleeding risk factors and guides anticoagulation decisions.",
		Indications: []string{
			"Patients on or being considered for anticoagulation",
			"Atrial fibrillation patients",
			"Assessing bleeding risk vs stroke risk",
			"Identifying modifiable risk factors",
		},
		Contraindications: []string{
			"Should not be used alone to withhold anticoagulation",
			"High HAS-BLED should prompt risk factor modification, not necessarily stopping anticoagulation",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{{
			Authors: "Pisters R, Lane DA, Nieuwlaat R, et al.",
			Title:   "A novel user-friendly score (HAS-BLED) to assess 1-year risk of major bleeding in patients with atrial fibrillation",
			Journal: "Chest",
			Year:    2010,
			Volume:  "138(5):1093-1100",
			DOI:     "10.1378/chest.10-0134",
			PMID:    "20299623",
		}},
		ValidationStudy: "Validated in Euro Heart Survey with 3,978 AF patients.",
		RelatedIDs:      []string{"cha2ds2-vasc"},
		Version:         catalogueVersion,
		LastUpdated:     catalogueUpdated,
		Strategy:        newPointSum(fields, ranges),
	}
}
