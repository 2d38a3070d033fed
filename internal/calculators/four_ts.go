package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// FourTsHIT returns the 4Ts heparin-induced thrombocytopenia definition.
func FourTsHIT() *domain.Calculator {
	fields := []domain.Field{
		radio("thrombocytopenia", "Thrombocytopenia", "Compare the highest platelet count with the nadir",
			opt(2, "Fall >50% and nadir ≥20 ×10³/µL"),
			opt(1, "Fall 30-50% or nadir 10-19 ×10³/µL"),
			opt(0, "Fall <30% or nadir <10 ×10³/µL"),
		),
		radio("timing", "Timing of Platelet Fall", "Day 0 is the first day of the most recent heparin exposure",
			opt(2, "Onset days 5-10, or ≤1 day with heparin in past 30 days"),
			opt(1, "Consistent with days 5-10 but unclear, after day 10, or ≤1 day with heparin 30-100 days ago"),
			opt(0, "Fall <4 days without recent heparin exposure"),
		),
		radio("thrombosis", "Thrombosis or Other Sequelae", "",
			opt(2, "New thrombosis, skin necrosis, or acute systemic reaction after heparin bolus"),
			opt(1, "Progressive or recurrent thrombosis, non-necrotising skin lesions, or suspected thrombosis"),
			opt(0, "None"),
		),
		radio("other_causes", "Other Causes of Thrombocytopenia", "",
			opt(2, "None apparent"),
			opt(1, "Possible"),
			opt(0, "Definite"),
		),
	}

	ranges := domain.InterpretationRanges{
		span(0, 3, withMorbidity(interp("Low Probability", domain.RiskLow,
			"HIT is unlikely. Heparin may generally be continued.",
			"HIT antibody testing usually not needed.",
			"Negative predictive value above 99%",
		), "<5% probability of HIT")),
		span(4, 5, withMorbidity(interp("Intermediate Probability", domain.RiskModerate,
			"HIT cannot be excluded. Stop heparin and start a non-heparin anticoagulant.",
			"Send HIT immunoassay and consider functional assay.",
		), "~14% probability of HIT")),
		span(6, 8, withMorbidity(interp("High Probability", domain.RiskHigh,
			"HIT is likely. Stop all heparin immediately and start a non-heparin anticoagulant.",
			"Send HIT immunoassay. Screen for deep vein thrombosis. Avoid platelet transfusion.",
			"Do not give warfarin until platelets recover",
		), "~64% probability of HIT")),
	}

	return &domain.Calculator{
		ID:           "4ts-hit",
		Name:         "4Ts Score for Heparin-Induced Thrombocytopenia",
		Abbreviation: "4Ts",
		Category:     domain.CategoryHematology,
		Description:  "Estimates the pretest probability of heparin-induced thrombocytopenia.",
		Purpose:      "The 4Ts score guides whether to test for HIT and whether to switch from heparin to a non-heparin anticoagulant.",
		Indications: []string{
			"Thrombocytopenia during heparin therapy",
			"Deciding on HIT antibody testing",
		},
		Contraindications: []string{
			"Interobserver variability is highest in intensive care patients",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{
			{
				Authors: "Lo GK, Juhl D, Warkentin TE, et al.",
				Title:   "Evaluation of pretest clinical score (4 T's) for the diagnosis of heparin-induced thrombocytopenia in two clinical settings",
				Journal: "J Thromb Haemost",
				Year:    2006,
				Volume:  "4(4):759-765",
				DOI:     "10.1111/j.1538-7836.2006.01787.x",
				PMID:    "16634744",
			},
			{
				Authors: "Cuker A, Gimotty PA, Crowther MA, Warkentin TE.",
				Title:   "Predictive value of the 4Ts scoring system for heparin-induced thrombocytopenia: a systematic review and meta-analysis",
				Journal: "Blood",
				Year:    2012,
				Volume:  "120(20):4160-4167",
				DOI:     "10.1182/blood-2012-07-443051",
				PMID:    "22990018",
			},
		},
		ValidationStudy: "Meta-analysis of 3,068 patients: negative predictive value 0.998 for a low score.",
		Version:         catalogueVersion,
		LastUpdated:     catalogueUpdated,
		Strategy:        newPointSum(fields, ranges),
	}
}
