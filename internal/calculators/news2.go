package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// news2RedScore is the single-parameter score that triggers an urgent response.
const news2RedScore = 3

// news2RedFields are the parameters that can reach the red score. The SpO2 scale
// selector and supplemental oxygen cannot.
var news2RedFields = []string{
	"respiratoryRate", "spo2", "temperature", "systolicBP", "heartRate", "consciousness",
}

type news2 struct {
	ranges domain.InterpretationRanges
	high   domain.Interpretation
}

func (news2) Score(in domain.Inputs) float64 {
	return in.Sum(news2RedFields...) + in.Get("supplementalO2")
}

// Interpret escalates to high clinical risk whenever a single parameter carries the
// red score, whatever the aggregate.
func (s news2) Interpret(score float64, in domain.Inputs) domain.Interpretation {
	red := news2RedParameters(in)
	if len(red) == 0 {
		return band(s.ranges, score)
	}

	out := s.high.Clone()
	out.Score = score
	out.Notes = []string{
		"Individual parameter score of 3 (red score) triggers urgent response",
		"Minimum hourly observations",
	}
	for _, id := range red {
		out.Notes = append(out.Notes, "Red score parameter: "+id)
	}
	return out
}

func news2RedParameters(in domain.Inputs) []string {
	var red []string
	for _, id := range news2RedFields {
		if in.Get(id) == news2RedScore {
			red = append(red, id)
		}
	}
	return red
}

// NEWS2 returns the National Early Warning Score 2 definition.
func NEWS2() *domain.Calculator {
	fields := []domain.Field{
		choice("respiratoryRate", "Respiratory Rate (breaths/min)", "",
			opt(3, "≤8"),
			opt(1, "9-11"),
			opt(0, "12-20"),
			opt(2, "21-24"),
			opt(3, "≥25"),
		),
		choice("spo2Scale", "SpO2 Scale", "Scale 2 for patients at risk of hypercapnic respiratory failure (COPD, etc.)",
			opt(0, "Scale 1 (Standard)"),
			opt(1, "Scale 2 (Hypercapnia risk)"),
		),
		choice("spo2", "SpO2 (%)", "Oxygen saturation. Score depends on scale selected above.",
			opt(3, "≤91% (Scale 1) / ≤83% (Scale 2)"),
			opt(2, "92-93% (Scale 1) / 84-85% (Scale 2)"),
			opt(1, "94-95% (Scale 1) / 86-87% (Scale 2)"),
			opt(0, "≥96% (Scale 1) / 88-92% or ≥93% on air (Scale 2)"),
		),
		{
			ID: "supplementalO2", Label: "Supplemental Oxygen", Type: domain.FieldBoolean, Required: true,
			Options: []domain.Option{opt(0, "No (Room air)"), opt(2, "Yes (On oxygen)")},
		},
		choice("temperature", "Temperature (°C)", "",
			opt(3, "≤35.0"),
			opt(1, "35.1-36.0"),
			opt(0, "36.1-38.0"),
			opt(1, "38.1-39.0"),
			opt(2, "≥39.1"),
		),
		choice("systolicBP", "Systolic Blood Pressure (mmHg)", "",
			opt(3, "≤90"),
			opt(2, "91-100"),
			opt(1, "101-110"),
			opt(0, "111-219"),
			opt(3, "≥220"),
		),
		choice("heartRate", "Heart Rate (bpm)", "",
			opt(3, "≤40"),
			opt(1, "41-50"),
			opt(0, "51-90"),
			opt(1, "91-110"),
			opt(2, "111-130"),
			opt(3, "≥131"),
		),
		choice("consciousness", "Consciousness (ACVPU)", "Alert, Confusion, Voice, Pain, Unresponsive",
			opt(0, "Alert"),
			opt(3, "Confusion (new onset)"),
			opt(3, "Voice (responds only to voice)"),
			opt(3, "Pain (responds only to pain)"),
			opt(3, "Unresponsive"),
		),
	}

	high := interp("High Clinical Risk", domain.RiskCritical,
		"Emergency response threshold. Urgent review by clinical team with critical care competencies, including consideration of transfer to Level 2/3 care.",
		"Continuous monitoring. Emergency assessment team response.",
		"Urgent escalation to critical care team",
	)

	ranges := domain.InterpretationRanges{
		span(0, 0, interp("Baseline", domain.RiskVeryLow,
			"Continue routine monitoring. All parameters within normal range.",
			"Minimum 12 hourly observations (or per local policy).",
		)),
		span(1, 4, interp("Low Clinical Risk", domain.RiskLowModerate,
			"Ward-based response. Inform registered nurse who should assess the patient.",
			"Minimum 4-6 hourly observations.",
			"Registered nurse to decide if increased frequency needed",
		)),
		span(5, 6, interp("Medium Clinical Risk (Key Threshold)", domain.RiskHigh,
			"Key threshold for urgent response. Urgent review by ward-based doctor or acute team. Consider escalation.",
			"Increase monitoring to minimum hourly. Urgent clinical review.",
			"Ward-based doctor to review within 30-60 minutes",
			"Consider intensive monitoring environment",
		)),
		span(7, 20, high),
	}

	return &domain.Calculator{
		ID:           "news2",
		Name:         "National Early Warning Score 2",
		Abbreviation: "NEWS2",
		Category:     domain.CategoryCriticalCare,
		Description:  "Standardized assessment of acute illness severity used across the UK NHS to detect clinical deterioration.",
		Purpose:      "NEWS2 helps identify patients at risk of deterioration. It triggers escalation of care based on aggregate score or individual parameter abnormalities.",
		Indications: []string{
			"Routine assessment of hospitalized patients",
			"Detection of early clinical deterioration",
			"Standardizing clinical communication about patient status",
			"Triggering appropriate clinical response",
		},
		Contraindications: []string{
			"Not validated in pediatric populations",
			"Modified scales may be needed for specific conditions",
		},
		Fields: fields,
		Ranges: ranges,
		Domain: &domain.ScoreDomain{Min: 0, Max: 20, Step: 1},
		Citations: []domain.Citation{
			{
				Authors: "Royal College of Physicians",
				Title:   "National Early Warning Score (NEWS) 2: Standardising the assessment of acute-illness severity in the NHS",
				Journal: "Royal College of Physicians",
				Year:    2017,
				URL:     "https://www.rcplondon.ac.uk/projects/outputs/national-early-warning-score-news-2",
			},
			{
				Authors: "Smith GB, Prytherch DR, Meredith P, et al.",
				Title:   "The ability of the National Early Warning Score (NEWS) to discriminate patients at risk of early cardiac arrest, unanticipated intensive care unit admission, and death",
				Journal: "Resuscitation",
				Year:    2013,
				Volume:  "84(4):465-470",
				DOI:     "10.1016/j.resuscitation.2012.12.016",
				PMID:    "23295778",
			},
		},
		ValidationStudy: "Validated across UK NHS; strongly predictive of cardiac arrest, ICU admission, and death within 24 hours",
		Notes: []string{
			"NEWS2 is the UK national standard for detecting deterioration",
			"Score of 3 in any single parameter should trigger urgent response",
			"Scale 2 for SpO2 should be used for patients at risk of hypercapnic respiratory failure",
			"New confusion should always trigger clinical concern regardless of score",
		},
		RelatedIDs:  []string{"qsofa", "sofa"},
		Version:     "2.0",
		LastUpdated: catalogueUpdated,
		Strategy:    news2{ranges: ranges, high: high},
	}
}
