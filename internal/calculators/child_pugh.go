package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// ChildPugh returns the Child-Pugh cirrhosis severity definition.
// Every parameter scores 1 to 3, so the score domain is 5 to 15.
func ChildPugh() *domain.Calculator {
	fields := []domain.Field{
		choice("bilirubin", "Total Bilirubin (mg/dL)", "",
			opt(1, "<2"),
			opt(2, "2-3"),
			opt(3, ">3"),
		),
		choice("albumin", "Serum Albumin (g/dL)", "",
			opt(1, ">3.5"),
			opt(2, "2.8-3.5"),
			opt(3, "<2.8"),
		),
		choice("inr", "INR", "",
			opt(1, "<1.7"),
			opt(2, "1.7-2.3"),
			opt(3, ">2.3"),
		),
		choice("ascites", "Ascites", "",
			opt(1, "None"),
			opt(2, "Slight (controlled with diuretics)"),
			opt(3, "Moderate to severe (refractory)"),
		),
		choice("encephalopathy", "Hepatic Encephalopathy", "",
			opt(1, "None"),
			opt(2, "Grade 1-2 (or suppressed with medication)"),
			opt(3, "Grade 3-4 (or refractory)"),
		),
	}

	ranges := domain.InterpretationRanges{
		span(5, 6, withMortality(interp("Class A (Well-Compensated)", domain.RiskLow,
			"Well-compensated cirrhosis. Good surgical candidate if surgery is needed.",
			"Routine hepatology follow-up. Screen for varices and hepatocellular carcinoma.",
		), "1-year survival 100%, 2-year survival 85%")),
		span(7, 9, withMortality(interp("Class B (Significant Functional Compromise)", domain.RiskModerate,
			"Significant functional compromise. Elective surgery carries increased risk.",
			"Consider referral for transplant evaluation. Optimise management of complications.",
		), "1-year survival 80%, 2-year survival 60%")),
		span(10, 15, withMortality(interp("Class C (Decompensated)", domain.RiskHigh,
			"Decompensated cirrhosis. Elective surgery generally contraindicated.",
			"Refer for liver transplant evaluation. Use MELD-Na for allocation.",
		), "1-year survival 45%, 2-year survival 35%")),
	}

	return &domain.Calculator{
		ID:           "child-pugh",
		Name:         "Child-Pugh Score for Cirrhosis",
		Abbreviation: "Child-Pugh",
		Category:     domain.CategoryHepatology,
		Description:  "Estimates cirrhosis severity and prognosis from laboratory and clinical findings.",
		Purpose:      "The Child-Pugh classification grades chronic liver disease to estimate survival and surgical risk and to guide drug dosing.",
		Indications: []string{
			"Chronic liver disease and cirrhosis",
			"Preoperative risk assessment in cirrhosis",
			"Drug dosing adjustment in hepatic impairment",
		},
		Contraindications: []string{
			"Subjective grading of ascites and encephalopathy limits reproducibility",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{
			{
				Authors: "Pugh RN, Murray-Lyon IM, Dawson JL, Pietroni MC, Williams R.",
				Title:   "Transection of the oesophagus for bleeding oesophageal varices",
				Journal: "Br J Surg",
				Year:    1973,
				Volume:  "60(8):646-649",
				DOI:     "10.1002/bjs.1800600817",
				PMID:    "4541913",
			},
		},
		Notes: []string{
			"For primary biliary cholangitis, bilirubin cut-offs are 1-4, 4-10 and >10 mg/dL",
			"MELD-Na is preferred for transplant prioritisation",
		},
		RelatedIDs:  []string{"meld-na"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    newPointSum(fields, ranges),
	}
}
