package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// Apgar returns the APGAR newborn assessment definition.
func Apgar() *domain.Calculator {
	fields := []domain.Field{
		radio("appearance", "Appearance (Skin Color)", "",
			opt(0, "Blue or pale all over"),
			opt(1, "Blue extremities, pink body"),
			opt(2, "Pink all over"),
		),
		radio("pulse", "Pulse (Heart Rate)", "",
			opt(0, "Absent"),
			opt(1, "<100 bpm"),
			opt(2, "≥100 bpm"),
		),
		radio("grimace", "Grimace (Reflex Irritability)", "",
			opt(0, "No response to stimulation"),
			opt(1, "Grimace or weak cry"),
			opt(2, "Cry or active withdrawal"),
		),
		radio("activity", "Activity (Muscle Tone)", "",
			opt(0, "Limp"),
			opt(1, "Some flexion"),
			opt(2, "Active motion"),
		),
		radio("respiration", "Respiration", "",
			opt(0, "Absent"),
			opt(1, "Weak, irregular or gasping"),
			opt(2, "Strong cry"),
		),
	}

	ranges := domain.InterpretationRanges{
		span(0, 3, interp("Severely Depressed", domain.RiskCritical,
			"Severe neonatal depression. Immediate resuscitation required.",
			"Begin positive pressure ventilation. Chest compressions if heart rate stays below 60 bpm after 30 seconds of ventilation.",
			"Consider intubation and epinephrine",
			"Repeat score every 5 minutes until ≥7 or 20 minutes of age",
		)),
		span(4, 6, interp("Moderately Abnormal", domain.RiskModerate,
			"Moderate neonatal depression. Stimulation and respiratory support may be needed.",
			"Dry, warm, position airway and stimulate. Ventilate if heart rate <100 bpm or apnoeic.",
			"Repeat score at 5 and 10 minutes",
		)),
		span(7, 10, interp("Reassuring", domain.RiskLow,
			"Normal adaptation to extrauterine life.",
			"Routine care: dry, warm, skin-to-skin contact and early breastfeeding.",
		)),
	}

	return &domain.Calculator{
		ID:           "apgar",
		Name:         "APGAR Score",
		Abbreviation: "APGAR",
		Category:     domain.CategoryPediatrics,
		Description:  "Assesses a newborn's clinical status at 1 and 5 minutes after birth.",
		Purpose:      "The APGAR score summarises the newborn's response to birth and to resuscitation.",
		Indications: []string{
			"Every newborn at 1 and 5 minutes of life",
			"Monitoring response to neonatal resuscitation",
		},
		Contraindications: []string{
			"Not used to decide whether to start resuscitation",
			"Not predictive of long-term neurological outcome on its own",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{{
			Authors: "Apgar V.",
			Title:   "A proposal for a new method of evaluation of the newborn infant",
			Journal: "Curr Res Anesth Analg",
			Year:    1953,
			Volume:  "32(4):260-267",
			PMID:    "13083014",
		}},
		Notes: []string{
			"Scores in preterm infants are lower independent of asphyxia",
		},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    newPointSum(fields, ranges),
	}
}
