package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// Apfel returns the Apfel postoperative nausea and vomiting risk definition.
func Apfel() *domain.Calculator {
	fields := []domain.Field{
		{
			ID:       "female",
			Label:    "Female Gender",
			Type:     domain.FieldBoolean,
			Options:  []domain.Option{opt(0, "No (Male)"), opt(1, "Yes (Female)")},
			Required: true,
		},
		{
			ID:          "nonsmoker",
			Label:       "Non-smoker",
			Type:        domain.FieldBoolean,
			Description: "Patient does not currently smoke",
			Options:     []domain.Option{opt(0, "No (Smoker)"), opt(1, "Yes (Non-smoker)")},
			Required:    true,
		},
		yesNo("history_ponv", "History of PONV or Motion Sickness", 1, ""),
		yesNo("postop_opioids", "Postoperative Opioids Expected", 1, "Opioids planned for postoperative analgesia"),
	}

	ranges := domain.InterpretationRanges{
		span(0, 0, withMorbidity(interp("Low Risk", domain.RiskLow,
			"Low PONV risk. Prophylaxis generally not needed.",
			"No routine antiemetic prophylaxis required. Rescue antiemetics available.",
		), "10% PONV risk")),
		span(1, 1, withMorbidity(interp("Low-Moderate Risk", domain.RiskLowModerate,
			"Low-moderate PONV risk.",
			"Consider single antiemetic prophylaxis if high-risk surgery.",
			"Dexamethasone 4-8mg at induction",
			"Or ondansetron 4mg at end of surgery",
		), "21% PONV risk")),
		span(2, 2, withMorbidity(interp("Moderate Risk", domain.RiskModerate,
			"Moderate PONV risk. Prophylaxis recommended.",
			"Dual antiemetic prophylaxis.",
			"Dexamethasone 4-8mg at induction",
			"Plus ondansetron 4mg at end of surgery",
			"Consider TIVA instead of volatile anesthetics",
		), "39% PONV risk")),
		span(3, 3, withMorbidity(interp("High Risk", domain.RiskHigh,
			"High PONV risk. Multimodal prophylaxis strongly recommended.",
			"Triple antiemetic prophylaxis. Consider TIVA.",
			"Dexamethasone 4-8mg at induction",
			"Ondansetron 4mg at end of surgery",
			"Consider adding droperidol, scopolamine patch, or aprepitant",
			"Minimize opioids - use regional/multimodal analgesia",
			"Total intravenous anesthesia (TIVA) preferred",
		), "61% PONV risk")),
		span(4, 4, withMorbidity(interp("Very High Risk", domain.RiskVeryHigh,
			"Very high PONV risk. Aggressive prophylaxis essential.",
			"Maximum multimodal prophylaxis. TIVA strongly recommended.",
			"All available prophylactic measures",
			"TIVA with propofol",
			"Dexamethasone, ondansetron, and third agent",
			"Consider scopolamine patch, aprepitant",
			"Minimize/avoid opioids",
			"Regional anesthesia if possible",
			"Ensure adequate hydration",
		), "79% PONV risk")),
	}

	return &domain.Calculator{
		ID:           "apfel",
		Name:         "Apfel Score for PONV Risk",
		Abbreviation: "Apfel",
		Category:     domain.CategoryAnesthesia,
		Description:  "Predicts risk of postoperative nausea and vomiting to guide antiemetic prophylaxis.",
		Purpose:      "The Apfel score identifies patients at high risk for PONV who may benefit from multimodal antiemetic prophylaxis.",
		Indications: []string{
			"Preoperative risk assessment",
			"Guiding antiemetic prophylaxis",
			"Patient counseling about PONV risk",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{{
			Authors: "Apfel CC, Läärä E, Koivuranta M, et al.",
			Title:   "A simplified risk score for predicting postoperative nausea and vomiting",
			Journal: "Anesthesiology",
			Year:    1999,
			Volume:  "91(3):693-700",
			DOI:     "10.1097/00000542-199909000-00022",
			PMID:    "10485781",
		}},
		ValidationStudy: "Validated in >8,000 surgical patients. Most widely used PONV risk score.",
		Version:         catalogueVersion,
		LastUpdated:     catalogueUpdated,
		Strategy:        newPointSum(fields, ranges),
	}
}
