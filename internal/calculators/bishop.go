package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// Bishop returns the Bishop cervical readiness definition.
func Bishop() *domain.Calculator {
	fields := []domain.Field{
		choice("dilation", "Cervical Dilation (cm)", "",
			opt(0, "Closed"),
			opt(1, "1-2"),
			opt(2, "3-4"),
			opt(3, "≥5"),
		),
		choice("effacement", "Effacement (%)", "",
			opt(0, "0-30%"),
			opt(1, "40-50%"),
			opt(2, "60-70%"),
			opt(3, "≥80%"),
		),
		choice("station", "Fetal Station", "",
			opt(0, "-3"),
			opt(1, "-2"),
			opt(2, "-1 or 0"),
			opt(3, "+1 or +2"),
		),
		radio("consistency", "Cervical Consistency", "",
			opt(0, "Firm"),
			opt(1, "Medium"),
			opt(2, "Soft"),
		),
		radio("position", "Cervical Position", "",
			opt(0, "Posterior"),
			opt(1, "Mid-position"),
			opt(2, "Anterior"),
		),
	}

	ranges := domain.InterpretationRanges{
		span(0, 5, interp("Unfavorable Cervix", domain.RiskHigh,
			"Low likelihood of successful induction.",
			"Cervical ripening with prostaglandins or a balloon catheter before oxytocin.",
		)),
		span(6, 7, interp("Intermediate", domain.RiskModerate,
			"Moderate likelihood of successful induction.",
			"Consider ripening agent depending on parity and clinical context.",
		)),
		span(8, 13, interp("Favorable Cervix", domain.RiskLow,
			"High likelihood of vaginal delivery after induction, similar to spontaneous labour.",
			"Proceed with amniotomy and/or oxytocin.",
		)),
	}

	return &domain.Calculator{
		ID:           "bishop",
		Name:         "Bishop Score for Induction of Labor",
		Abbreviation: "Bishop",
		Category:     domain.CategoryObstetrics,
		Description:  "Assesses cervical readiness to predict the success of labour induction.",
		Purpose:      "The Bishop score guides whether cervical ripening is needed before induction of labour.",
		Indications: []string{
			"Planned induction of labour",
			"Assessing cervical ripeness at term",
		},
		Contraindications: []string{
			"Contraindications to vaginal delivery",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{{
			Authors: "Bishop EH.",
			Title:   "Pelvic scoring for elective induction",
			Journal: "Obstet Gynecol",
			Year:    1964,
			Volume:  "24:266-268",
			PMID:    "14199536",
		}},
		Notes: []string{
			"Modified Bishop score adds a point for each prior vaginal delivery and for preeclampsia",
		},
		Version:     catalogueVersion,
		LastUpdated: catalogueUpdated,
		Strategy:    newPointSum(fields, ranges),
	}
}
