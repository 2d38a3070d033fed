package calculators

import (
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

var (
	ottawaAnkleCriteria = []string{"bone_tenderness_lateral", "bone_tenderness_medial", "unable_bear_weight_ankle"}
	ottawaFootCriteria  = []string{"bone_tenderness_base_5th", "bone_tenderness_navicular", "unable_bear_weight_foot"}
)

type ottawaAnkle struct {
	ranges domain.InterpretationRanges
}

func (ottawaAnkle) Score(in domain.Inputs) float64 {
	return in.Sum(ottawaAnkleCriteria...) + in.Sum(ottawaFootCriteria...)
}

// Interpret names the radiographs indicated by the ankle and foot criteria separately.
func (s ottawaAnkle) Interpret(score float64, in domain.Inputs) domain.Interpretation {
	out := band(s.ranges, score)

	ankle := in.Sum(ottawaAnkleCriteria...) > 0
	foot := in.Sum(ottawaFootCriteria...) > 0
	switch {
	case ankle && foot:
		out.Recommendation = "Both ankle AND foot X-rays indicated."
		out.Action = "Obtain ankle and foot radiographs."
	case ankle:
		out.Recommendation = "Ankle X-ray indicated."
		out.Action = "Obtain ankle radiographs (AP, lateral, mortise views)."
	case foot:
		out.Recommendation = "Foot X-ray indicated."
		out.Action = "Obtain foot radiographs."
	}
	return out
}

// OttawaAnkle returns the Ottawa Ankle Rules definition.
func OttawaAnkle() *domain.Calculator {
	fields := []domain.Field{
		yesNo("bone_tenderness_lateral", "Bone tenderness at posterior edge or tip of lateral malleolus", 1, "Ankle criterion. Distal 6 cm"),
		yesNo("bone_tenderness_medial", "Bone tenderness at posterior edge or tip of medial malleolus", 1, "Ankle criterion. Distal 6 cm"),
		{
			ID:          "unable_bear_weight_ankle",
			Label:       "Unable to bear weight immediately and in ED (4 steps)",
			Type:        domain.FieldBoolean,
			Description: "Ankle criterion. For ankle injury",
			Options:     []domain.Option{opt(0, "No (can bear weight)"), opt(1, "Yes (unable)")},
			Required:    true,
		},
		yesNo("bone_tenderness_base_5th", "Bone tenderness at base of 5th metatarsal", 1, "Foot criterion"),
		yesNo("bone_tenderness_navicular", "Bone tenderness at navicular", 1, "Foot criterion"),
		{
			ID:          "unable_bear_weight_foot",
			Label:       "Unable to bear weight immediately and in ED (4 steps)",
			Type:        domain.FieldBoolean,
			Description: "Foot criterion. For midfoot injury",
			Options:     []domain.Option{opt(0, "No (can bear weight)"), opt(1, "Yes (unable)")},
			Required:    true,
		},
	}

	ranges := domain.InterpretationRanges{
		span(0, 0, interp("Low Risk - No X-ray Needed", domain.RiskVeryLow,
			"X-ray not indicated by Ottawa rules.",
			"Safe to discharge without radiography. Provide RICE therapy and follow-up instructions.",
			"Sensitivity for fracture ~98%",
			"Negative predictive value very high",
			"RICE: Rest, Ice, Compression, Elevation",
			"Follow up if not improving in 5-7 days",
			"Return if worsening pain or unable to bear weight",
		)),
		span(1, 6, interp("X-ray Indicated", domain.RiskModerate,
			"Imaging recommended.",
			"Obtain radiographs.",
			"Positive criteria do not confirm fracture",
			"They indicate need for imaging",
			"Manage based on X-ray findings",
		)),
	}

	return &domain.Calculator{
		ID:           "ottawa-ankle",
		Name:         "Ottawa Ankle Rules",
		Abbreviation: "Ottawa Ankle",
		Category:     domain.CategoryOrthopedics,
		Description:  "Determines need for X-ray in ankle/midfoot injuries to rule out fracture.",
		Purpose:      "The Ottawa Ankle Rules identify patients who can safely forgo radiography after ankle or midfoot injury.",
		Indications: []string{
			"Acute ankle injury with pain",
			"Acute midfoot injury with pain",
			"Deciding on need for X-ray",
		},
		Contraindications: []string{
			"Age <18 years (modified rules exist)",
			"Intoxicated patients",
			"Multiple painful injuries",
			"Decreased sensation in legs",
			"Pregnancy (radiation considerations separate)",
			"Injuries >10 days old",
		},
		Fields: fields,
		Ranges: ranges,
		Citations: []domain.Citation{
			{
				Authors: "Stiell IG, Greenberg GH, McKnight RD, et al.",
				Title:   "A study to develop clinical decision rules for the use of radiography in acute ankle injuries",
				Journal: "Ann Emerg Med",
				Year:    1992,
				Volume:  "21(4):384-390",
				DOI:     "10.1016/s0196-0644(05)82656-3",
				PMID:    "1554175",
			},
			{
				Authors: "Stiell IG, McKnight RD, Greenberg GH, et al.",
				Title:   "Implementation of the Ottawa ankle rules",
				Journal: "JAMA",
				Year:    1994,
				Volume:  "271(11):827-832",
				PMID:    "8114236",
			},
		},
		ValidationStudy: "Validated in 10,000+ patients. 98% sensitivity for significant fractures. Reduces unnecessary X-rays by 30-40%.",
		Version:         catalogueVersion,
		LastUpdated:     catalogueUpdated,
		Strategy:        ottawaAnkle{ranges: ranges},
	}
}
