package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// GAD7 returns the Generalized Anxiety Disorder 7-item definition.
func GAD7() *domain.Calculator {
	fields := []domain.Field{
		frequencyItem("nervous", "1. Feeling nervous, anxious, or on edge"),
		frequencyItem("control_worry", "2. Not being able to stop or control worrying"),
		frequencyItem("worry_much", "3. Worrying too much about different things"),
		frequencyItem("relax", "4. Trouble relaxing"),
		frequencyItem("restless", "5. Being so restless that it's hard to sit still"),
		frequencyItem("irritable", "6. Becoming easily annoyed or irritable"),
		frequencyItem("afraid", "7. Feeling afraid as if something awful might happen"),
	}

	ranges := domain.InterpretationRanges{
		span(0, 4, interp("Minimal Anxiety", domain.RiskVeryLow,
			"No treatment indicated.",
			"Supportive care. Rescreen if clinical concern.",
		)),
		span(5, 9, interp("Mild Anxiety", domain.RiskLow,
			"Watchful waiting. Repeat GAD-7 at follow-up.",
			"Consider counseling. Relaxation techniques.",
			"May not require pharmacotherapy",
			"Psychoeducation helpful",
			"Lifestyle modifications (exercise, sleep hygiene)",
			"Follow-up in 2-4 weeks",
		)),
		span(10, 14, interp("Moderate Anxiety", domain.RiskModerate,
			"Treatment plan warranted.",
			"Consider medication and/or CBT.",
			"SSRIs/SNRIs typically first-line",
			"CBT highly effective",
			"Consider psychiatry referral",
			"Follow-up in 2-4 weeks",
		)),
		span(15, 21, interp("Severe Anxiety", domain.RiskHigh,
			"Active treatment required.",
			"Pharmacotherapy + CBT. Consider psychiatry referral.",
			"High functional impairment likely",
			"Combination therapy most effective",
			"Screen for comorbid depression",
			"Close follow-up needed",
			"Consider benzodiazepine for acute symptom relief (short-term only)",
		)),
	}

	return &domain.Calculator{
		ID:           "gad-7",
		Name:         "GAD-7 (Generalized Anxiety Disorder 7-item)",
		Abbreviation: "GAD-7",
		Category:     domain.CategoryPsychiatry,
		Description:  "Screens for generalized anxiety disorder and assesses severity.",
		Purpose:      "The GAD-7 is a validated screening tool for generalized anxiety disorder and monitoring treatment response.",
		Indications: []string{
			"Anxiety screening in primary care",
			"Monitoring anxiety treatment response",
			"Assessing anxiety severity",
			"Part of routine mental health assessment",
		},
		Contraindications: []string{
			"Not diagnostic alone - clinical interview required",
			"Screens primarily for GAD - other anxiety disorders may be missed",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{{
			Authors: "Spitzer RL, Kroenke K, Williams JB, Löwe B.",
			Title:   "A brief measure for assessing generalized anxiety disorder: the GAD-7",
			Journal: "Arch Intern Med",
			Year:    2006,
			Volume:  "166(10):1092-1097",
			DOI:     "10.1001/archinte.166.10.1092",
			PMID:    "16717171",
		}},
		ValidationStudy: "Validated in 2,740 primary care patients. 89% sensitivity and 82% specificity for GAD at cutoff ≥10.",
		Notes: []string{
			"Often used alongside PHQ-9 for comprehensive mental health screening",
			"Score of 10+ suggests clinically significant anxiety",
			"Useful for tracking treatment response",
		},
		RelatedIDs:  []string{"phq-9"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    newPointSum(fields, ranges),
	}
}
