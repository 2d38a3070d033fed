package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

const (
	phq9SuicidalAction = " IMPORTANT: Patient endorsed suicidal ideation - requires immediate safety assessment."
	phq9SuicidalNote   = "⚠️ Question 9 positive - assess suicide risk immediately"
	phq9SafetyNote     = "Consider safety planning and appropriate level of care"
)

type phq9 struct {
	pointSum
}

// Interpret escalates any band when item 9 (self-harm) is endorsed.
func (s phq9) Interpret(score float64, in domain.Inputs) domain.Interpretation {
	out := s.pointSum.Interpret(score, in)
	if in.Get("suicidal") > 0 {
		out.Action += phq9SuicidalAction
		out.Notes = append(out.Notes, phq9SuicidalNote, phq9SafetyNote)
	}
	return out
}

// frequencyOptions are the two-week frequency answers shared by PHQ-9 and GAD-7.
func frequencyOptions() []domain.Option {
	return []domain.Option{
		opt(0, "Not at all"),
		opt(1, "Several days"),
		opt(2, "More than half the days"),
		opt(3, "Nearly every day"),
	}
}

func frequencyItem(id, label string) domain.Field {
	return radio(id, label, "Over the last 2 weeks", frequencyOptions()...)
}

// PHQ9 returns the Patient Health Questionnaire-9 definition.
func PHQ9() *domain.Calculator {
	fields := []domain.Field{
		frequencyItem("interest", "1. Little interest or pleasure in doing things"),
		frequencyItem("depressed", "2. Feeling down, depressed, or hopeless"),
		frequencyItem("sleep", "3. Trouble falling/staying asleep, or sleeping too much"),
		frequencyItem("energy", "4. Feeling tired or having little energy"),
		frequencyItem("appetite", "5. Poor appetite or overeating"),
		frequencyItem("failure", "6. Feeling bad about yourself, or that you are a failure"),
		frequencyItem("concentration", "7. Trouble concentrating on things"),
		frequencyItem("movement", "8. Moving or speaking slowly, or being fidgety/restless"),
		frequencyItem("suicidal", "9. Thoughts of self-harm or being better off dead"),
	}

	ranges := domain.InterpretationRanges{
		span(0, 4, interp("Minimal Depression", domain.RiskVeryLow,
			"No treatment indicated.",
			"Supportive care. Rescreen if clinical concern.",
		)),
		span(5, 9, interp("Mild Depression", domain.RiskLow,
			"Watchful waiting. Repeat PHQ-9 at follow-up.",
			"Consider counseling. Lifestyle modifications.",
			"May not require pharmacotherapy",
			"Psychoeducation helpful",
			"Follow-up in 2-4 weeks",
		)),
		span(10, 14, interp("Moderate Depression", domain.RiskModerate,
			"Treatment plan warranted.",
			"Consider antidepressant and/or psychotherapy.",
			"SSRIs typically first-line",
			"Psychotherapy effective",
			"Follow-up in 2-4 weeks",
		)),
		span(15, 19, interp("Moderately Severe Depression", domain.RiskHigh,
			"Active treatment required.",
			"Antidepressant and/or psychotherapy. Consider psychiatry referral.",
			"Close follow-up essential",
			"Combination therapy may be more effective",
			"Assess functional impairment",
		)),
		span(20, 27, interp("Severe Depression", domain.RiskCritical,
			"Immediate treatment intervention.",
			"Antidepressant + psychotherapy. Psychiatry referral. Assess safety.",
			"High risk for functional impairment",
			"Consider hospitalization if safety concern",
			"Frequent follow-up needed",
		)),
	}

	return &domain.Calculator{
		ID:           "phq-9",
		Name:         "PHQ-9 (Patient Health Questionnaire-9)",
		Abbreviation: "PHQ-9",
		Category:     domain.CategoryPsychiatry,
		Description:  "Screens for depression severity and monitors treatment response.",
		Purpose:      "The PHQ-9 is a validated tool for depression screening, diagnosis support, and monitoring treatment outcomes.",
		Indications: []string{
			"Depression screening in primary care",
			"Monitoring depression treatment response",
			"Assessing depression severity",
			"Part of routine mental health assessment",
		},
		Contraindications: []string{
			"Not diagnostic alone - clinical interview required",
			"May need cultural adaptation",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{{
			Authors: "Kroenke K, Spitzer RL, Williams JB.",
			Title:   "The PHQ-9: validity of a brief depression severity measure",
			Journal: "J Gen Intern Med",
			Year:    2001,
			Volume:  "16(9):606-613",
			DOI:     "10.1046/j.1525-1497.2001.016009606.x",
			PMID:    "11556941",
		}},
		ValidationStudy: "Validated in 6,000+ patients. 88% sensitivity and specificity for major depression at cutoff ≥10.",
		Notes: []string{
			"Question 9 about self-harm requires immediate clinical attention if positive",
			"Score of 10+ suggests clinically significant depression",
			"Useful for tracking treatment response over time",
		},
		RelatedIDs:  []string{"gad-7", "mmse"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    phq9{pointSum: newPointSum(fields, ranges)},
	}
}
