package calculators

import (
	"fmt"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// countOptions returns the options 0..max labelled with a count of noun.
func countOptions(max int, singular, plural string) []domain.Option {
	out := make([]domain.Option, 0, max+1)
	for n := 0; n <= max; n++ {
		noun := plural
		if n == 1 {
			noun = singular
		}
		label := fmt.Sprintf("%d %s", n, noun)
		if n == max {
			label += " (all)"
		}
		out = append(out, opt(float64(n), label))
	}
	return out
}

// MMSE returns the Mini-Mental State Examination definition.
func MMSE() *domain.Calculator {
	fields := []domain.Field{
		choice("orientation_time", "Orientation to Time (0-5)", "Year, season, month, date, day of week (1 point each)",
			countOptions(5, "correct", "correct")...),
		choice("orientation_place", "Orientation to Place (0-5)", "State, county, city, building, floor (1 point each)",
			countOptions(5, "correct", "correct")...),
		choice("registration", "Registration (0-3)", "Repeat 3 objects (1 point each)",
			countOptions(3, "object", "objects")...),
		choice("attention", "Attention/Calculation (0-5)", "Serial 7s OR spell WORLD backwards (1 point each)",
			countOptions(5, "correct", "correct")...),
		choice("recall", "Recall (0-3)", "Recall 3 objects from earlier (1 point each)",
			countOptions(3, "object", "objects")...),
		choice("language_naming", "Naming (0-2)", "Name pencil and watch (1 point each)",
			countOptions(2, "correct", "correct")...),
		choice("language_repetition", "Repetition (0-1)", `Repeat "No ifs, ands, or buts"`,
			opt(0, "Incorrect"), opt(1, "Correct")),
		choice("language_command", "3-Stage Command (0-3)", `"Take paper, fold in half, put on floor" (1 point each step)`,
			countOptions(3, "step", "steps")...),
		choice("reading", "Reading (0-1)", `Read and obey "Close your eyes"`,
			opt(0, "Incorrect"), opt(1, "Correct")),
		choice("writing", "Writing (0-1)", "Write a sentence",
			opt(0, "Unable/incorrect"), opt(1, "Writes meaningful sentence")),
		choice("copying", "Copying (0-1)", "Copy intersecting pentagons",
			opt(0, "Incorrect"), opt(1, "Correct (10 angles, 2 intersecting)")),
	}

	ranges := domain.InterpretationRanges{
		span(0, 9, interp("Severe Cognitive Impairment", domain.RiskCritical,
			"Severe dementia. Requires significant care support.",
			"Full care needs assessment. Long-term care planning.",
			"Needs assistance with basic ADLs",
			"Caregiver support essential",
			"Consider palliative care goals",
			"Safety is primary concern",
			"Behavioral management may be needed",
		)),
		span(10, 18, interp("Moderate Cognitive Impairment", domain.RiskHigh,
			"Moderate dementia likely. Comprehensive evaluation needed.",
			"Neurology/geriatrics referral. Imaging and labs. Safety assessment.",
			"Likely needs assistance with complex ADLs",
			"Assess caregiver support",
			"Discuss advance directives",
			"Consider cholinesterase inhibitors",
			"Safety evaluation (driving, finances, wandering)",
		)),
		span(19, 23, interp("Mild Cognitive Impairment", domain.RiskModerate,
			"Mild cognitive impairment likely. Further evaluation recommended.",
			"Consider more detailed neuropsychological testing. Evaluate for reversible causes.",
			"Rule out depression, medication effects, metabolic causes",
			"Check B12, thyroid, CBC",
			"Consider MRI brain",
			"Discuss driving safety",
		)),
		span(24, 30, interp("Normal Cognition", domain.RiskLow,
			"No significant cognitive impairment detected.",
			"No immediate intervention needed. Repeat if clinical concern.",
			"Score ≥24 generally considered normal",
			"Consider education level (higher cutoffs for higher education)",
			"Age and cultural factors may affect interpretation",
		)),
	}

	return &domain.Calculator{
		ID:           "mmse",
		Name:         "MMSE (Mini-Mental State Examination)",
		Abbreviation: "MMSE",
		Category:     domain.CategoryNeurology,
		Description:  "Screens for cognitive impairment and dementia. Assesses orientation, memory, attention, language, and visuospatial skills.",
		Purpose:      "The MMSE provides a standardized cognitive assessment to screen for dementia and monitor cognitive decline.",
		Indications: []string{
			"Dementia screening",
			"Cognitive impairment assessment",
			"Monitoring cognitive decline over time",
			"Delirium assessment (baseline comparison)",
		},
		Contraindications: []string{
			"Severe visual or hearing impairment affecting testing",
			"Acute delirium (may be used but interpret carefully)",
			"Language barrier",
			"Severe depression affecting effort",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{{
			Authors: "Folstein MF, Folstein SE, McHugh PR.",
			Title:   `"Mini-mental state". A practical method for grading the cognitive state of patients for the clinician`,
			Journal: "J Psychiatr Res",
			Year:    1975,
			Volume:  "12(3):189-198",
			DOI:     "10.1016/0022-3956(75)90026-6",
			PMID:    "1202204",
		}},
		ValidationStudy: "Most widely used cognitive screening tool. Sensitivity 79%, specificity 100% for dementia at cutoff 23/24.",
		Notes: []string{
			"Maximum score is 30",
			"Adjust cutoffs for education level",
			"Not sensitive for mild cognitive impairment or frontal dysfunction",
			"Consider MoCA for better sensitivity in mild cases",
		},
		RelatedIDs:  []string{"gcs", "phq-9"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    newPointSum(fields, ranges),
	}
}
