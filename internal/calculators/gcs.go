package calculators

import (
	"fmt"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

type gcs struct {
	ranges domain.InterpretationRanges
}

func (gcs) Score(in domain.Inputs) float64 {
	return in.Sum("eye", "verbal", "motor")
}

// Interpret adds the E/V/M breakdown to the display when all three components are known.
func (s gcs) Interpret(score float64, in domain.Inputs) domain.Interpretation {
	out := band(s.ranges, score)
	if in.Has("eye") && in.Has("verbal") && in.Has("motor") {
		out.ScoreDisplay = fmt.Sprintf("%g (E%gV%gM%g)", score, in.Get("eye"), in.Get("verbal"), in.Get("motor"))
	}
	return out
}

// GCS returns the Glasgow Coma Scale definition.
func GCS() *domain.Calculator {
	fields := []domain.Field{
		choice("eye", "Eye Response", "Best eye opening response",
			opt(4, "Spontaneous - Eyes open spontaneously"),
			opt(3, "To Voice - Eyes open to verbal command"),
			opt(2, "To Pain - Eyes open to painful stimulus"),
			opt(1, "None - No eye opening"),
		),
		choice("verbal", "Verbal Response", "Best verbal response (if intubated, document as VT)",
			opt(5, "Oriented - Oriented, converses normally"),
			opt(4, "Confused - Disoriented but converses"),
			opt(3, "Inappropriate Words - Random/exclamatory words"),
			opt(2, "Incomprehensible Sounds - Moaning, no words"),
			opt(1, "None - No verbal response"),
		),
		choice("motor", "Motor Response", "Best motor response",
			opt(6, "Obeys Commands - Follows simple commands"),
			opt(5, "Localizes Pain - Purposeful movement to pain"),
			opt(4, "Withdraws from Pain - Pulls away from pain"),
			opt(3, "Abnormal Flexion - Decorticate posturing"),
			opt(2, "Extension - Decerebrate posturing"),
			opt(1, "None - No motor response"),
		),
	}

	ranges := domain.InterpretationRanges{
		span(3, 3, withMortality(interp("Critical / Unresponsive", domain.RiskCritical,
			"Minimal or no response. Deep coma or brain death assessment may be appropriate.",
			"Full resuscitation. Consider brain death protocol if appropriate.",
			"GCS 3 = no eye, verbal, or motor response",
			"May indicate brain death",
		), "Very high mortality")),
		span(4, 5, withMortality(interp("Very Severe Impairment", domain.RiskVeryHigh,
			"Very severe impairment. Immediate airway management. ICU care essential. Poor prognosis.",
			"Immediate intubation and definitive airway",
			"Neurosurgical consultation if trauma",
		), "High mortality risk")),
		span(6, 8, interp("Severe Impairment", domain.RiskHigh,
			"Severe alteration in consciousness. Airway protection is priority. ICU admission required.",
			"Consider intubation for airway protection",
			"In trauma: severe traumatic brain injury",
			"GCS ≤8 traditionally indicates need for intubation",
		)),
		span(9, 12, interp("Moderate Impairment", domain.RiskModerate,
			"Moderate alteration in consciousness. Frequent neurological observations. CT head indicated if trauma. Consider ICU admission.", "",
			"In trauma: moderate traumatic brain injury",
			"Serial GCS monitoring essential",
		)),
		span(13, 14, interp("Mild Impairment", domain.RiskLow,
			"Mild alteration in consciousness. Close observation. Consider CT head if trauma.", "",
			"In trauma: mild traumatic brain injury (concussion)",
		)),
		span(15, 15, interp("Normal", domain.RiskVeryLow,
			"Normal level of consciousness. Continue routine monitoring as clinically indicated.", "",
		)),
	}

	return &domain.Calculator{
		ID:           "gcs",
		Name:         "Glasgow Coma Scale",
		Abbreviation: "GCS",
		Category:     domain.CategoryNeurology,
		Description:  "Standardized scale for assessing level of consciousness based on eye, verbal, and motor responses.",
		Purpose:      "The GCS provides a reliable, objective way to record the conscious state of a patient. It is used for initial and continuing assessment in head injury and critical care.",
		Indications: []string{
			"Traumatic brain injury assessment",
			"Altered mental status evaluation",
			"Critical care neurological monitoring",
			"Intubation/airway management decision",
			"Prognostication after brain injury",
		},
		Contraindications: []string{
			"Limited in sedated/paralyzed patients",
			"Verbal score limited in intubated patients (record as VT)",
			"Eye score may be affected by periorbital swelling",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{
			{
				Authors: "Teasdale G, Jennett B",
				Title:   "Assessment of coma and impaired consciousness. A practical scale.",
				Journal: "Lancet",
				Year:    1974,
				Volume:  "2(7872):81-84",
				DOI:     "10.1016/S0140-6736(74)91639-0",
				PMID:    "4136544",
			},
			{
				Authors: "Teasdale G, Maas A, Lecky F, et al.",
				Title:   "The Glasgow Coma Scale at 40 years: standing the test of time",
				Journal: "Lancet Neurology",
				Year:    2014,
				Volume:  "13(8):844-854",
				DOI:     "10.1016/S1474-4422(14)70120-6",
				PMID:    "25030516",
			},
		},
		ValidationStudy: "Original validation 1974; extensively validated across populations for TBI outcome prediction",
		Notes: []string{
			"Always record as E_V_M_ with individual component scores",
			"Motor score is the most predictive component for outcome",
			"GCS ≤8 = severe brain injury, traditionally indicates intubation",
			"For intubated patients, record verbal as VT (intubated) and use GCS-E/M only",
			"Pupillary reactivity provides additional prognostic information",
		},
		RelatedIDs:  []string{"qsofa", "sofa", "apache-ii"},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    gcs{ranges: ranges},
	}
}
