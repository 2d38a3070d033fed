package formulas

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrUnknownFormula is returned by Compute for names not in the catalogue.
	ErrUnknownFormula = errors.New("unknown formula")
	// ErrInvalidParam is returned for missing, non-finite or out-of-domain parameters.
	ErrInvalidParam = errors.New("invalid formula parameter")
)

// Param describes one named formula parameter.
type Param struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Optional    bool    `json:"optional,omitempty"`
	Default     float64 `json:"default,omitempty"`
	// Positive parameters must be > 0, typically because they are divisors.
	Positive bool `json:"positive,omitempty"`
}

// Formula is a named, parameterised formula.
type Formula struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Params      []Param `json:"params"`

	fn func(p map[string]float64) float64
}

// Result is the output of Compute.
type Result struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

func male(p map[string]float64) bool { return p["male"] == 1 }

var sexParam = Param{Name: "male", Description: "1 for male, 0 for female"}

var catalogue = map[string]Formula{
	"bmi": {
		Description: "Body mass index", Unit: "kg/m²",
		Params: []Param{{Name: "weight_kg", Positive: true}, {Name: "height_cm", Positive: true}},
		fn:     func(p map[string]float64) float64 { return BMI(p["weight_kg"], p["height_cm"]) },
	},
	"bsa": {
		Description: "Body surface area (Mosteller)", Unit: "m²",
		Params: []Param{{Name: "weight_kg", Positive: true}, {Name: "height_cm", Positive: true}},
		fn:     func(p map[string]float64) float64 { return BSAMosteller(p["weight_kg"], p["height_cm"]) },
	},
	"bsa_dubois": {
		Description: "Body surface area (DuBois)", Unit: "m²",
		Params: []Param{{Name: "weight_kg", Positive: true}, {Name: "height_cm", Positive: true}},
		fn:     func(p map[string]float64) float64 { return BSADuBois(p["weight_kg"], p["height_cm"]) },
	},
	"ibw": {
		Description: "Ideal body weight (Devine)", Unit: "kg",
		Params: []Param{{Name: "height_cm", Positive: true}, sexParam},
		fn:     func(p map[string]float64) float64 { return IdealBodyWeight(p["height_cm"], male(p)) },
	},
	"lbw": {
		Description: "Lean body weight (Boer)", Unit: "kg",
		Params: []Param{{Name: "weight_kg", Positive: true}, {Name: "height_cm", Positive: true}, sexParam},
		fn: func(p map[string]float64) float64 {
			return LeanBodyWeight(p["weight_kg"], p["height_cm"], male(p))
		},
	},
	"crcl": {
		Description: "Creatinine clearance (Cockcroft-Gault)", Unit: "mL/min",
		Params: []Param{{Name: "age"}, {Name: "weight_kg", Positive: true}, {Name: "creatinine_mgdl", Positive: true}, sexParam},
		fn: func(p map[string]float64) float64 {
			return CreatinineClearance(p["age"], p["weight_kg"], p["creatinine_mgdl"], male(p))
		},
	},
	"egfr": {
		Description: "eGFR (CKD-EPI 2021, race-free)", Unit: "mL/min/1.73m²",
		Params: []Param{{Name: "creatinine_mgdl", Positive: true}, {Name: "age"}, sexParam},
		fn: func(p map[string]float64) float64 {
			return EGFRCKDEPI2021(p["creatinine_mgdl"], p["age"], male(p))
		},
	},
	"map": {
		Description: "Mean arterial pressure", Unit: "mmHg",
		Params: []Param{{Name: "systolic"}, {Name: "diastolic"}},
		fn:     func(p map[string]float64) float64 { return MeanArterialPressure(p["systolic"], p["diastolic"]) },
	},
	"qtc_bazett": {
		Description: "Corrected QT interval (Bazett)", Unit: "ms",
		Params: []Param{{Name: "qt_ms", Positive: true}, {Name: "heart_rate", Positive: true}},
		fn:     func(p map[string]float64) float64 { return QTcBazett(p["qt_ms"], p["heart_rate"]) },
	},
	"qtc_fridericia": {
		Description: "Corrected QT interval (Fridericia)", Unit: "ms",
		Params: []Param{{Name: "qt_ms", Positive: true}, {Name: "heart_rate", Positive: true}},
		fn:     func(p map[string]float64) float64 { return QTcFridericia(p["qt_ms"], p["heart_rate"]) },
	},
	"aa_gradient": {
		Description: "Alveolar-arterial oxygen gradient", Unit: "mmHg",
		Params: []Param{
			{Name: "fio2", Description: "fraction, 0.21-1", Positive: true},
			{Name: "pao2"}, {Name: "paco2"},
			{Name: "patm", Optional: true, Default: 760, Positive: true},
		},
		fn: func(p map[string]float64) float64 {
			return AaGradient(p["fio2"], p["pao2"], p["paco2"], p["patm"])
		},
	},
	"pf_ratio": {
		Description: "PaO2/FiO2 ratio", Unit: "",
		Params: []Param{{Name: "pao2"}, {Name: "fio2", Positive: true}},
		fn:     func(p map[string]float64) float64 { return PFRatio(p["pao2"], p["fio2"]) },
	},
	"anion_gap": {
		Description: "Anion gap", Unit: "mEq/L",
		Params: []Param{{Name: "na"}, {Name: "cl"}, {Name: "hco3"}},
		fn:     func(p map[string]float64) float64 { return AnionGap(p["na"], p["cl"], p["hco3"]) },
	},
	"corrected_anion_gap": {
		Description: "Albumin-corrected anion gap", Unit: "mEq/L",
		Params: []Param{{Name: "anion_gap"}, {Name: "albumin"}},
		fn:     func(p map[string]float64) float64 { return CorrectedAnionGap(p["anion_gap"], p["albumin"]) },
	},
	"corrected_sodium": {
		Description: "Glucose-corrected sodium", Unit: "mEq/L",
		Params: []Param{{Name: "na"}, {Name: "glucose_mgdl"}},
		fn:     func(p map[string]float64) float64 { return CorrectedSodium(p["na"], p["glucose_mgdl"]) },
	},
	"corrected_calcium": {
		Description: "Albumin-corrected calcium", Unit: "mg/dL",
		Params: []Param{{Name: "ca"}, {Name: "albumin"}},
		fn:     func(p map[string]float64) float64 { return CorrectedCalcium(p["ca"], p["albumin"]) },
	},
	"free_water_deficit": {
		Description: "Free water deficit", Unit: "L",
		Params: []Param{
			{Name: "na"}, {Name: "weight_kg", Positive: true},
			{Name: "target_na", Optional: true, Default: 140, Positive: true},
		},
		fn: func(p map[string]float64) float64 {
			return FreeWaterDeficit(p["na"], p["weight_kg"], p["target_na"])
		},
	},
}

// Names returns the catalogue formula names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named formula.
func Lookup(name string) (Formula, bool) {
	f, ok := catalogue[name]
	if !ok {
		return Formula{}, false
	}
	f.Name = name
	return f, true
}

// Compute evaluates the named formula with params. Missing optional parameters take
// their default; unknown parameters are ignored.
func Compute(name string, params map[string]float64) (Result, error) {
	f, ok := Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownFormula, name)
	}

	p := make(map[string]float64, len(f.Params))
	for _, param := range f.Params {
		v, present := params[param.Name]
		if !present {
			if !param.Optional {
				return Result{}, fmt.Errorf("%w: %s: %s is required", ErrInvalidParam, name, param.Name)
			}
			v = param.Default
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, fmt.Errorf("%w: %s: %s is not a finite number", ErrInvalidParam, name, param.Name)
		}
		if param.Positive && v <= 0 {
			return Result{}, fmt.Errorf("%w: %s: %s must be positive", ErrInvalidParam, name, param.Name)
		}
		p[param.Name] = v
	}

	value := f.fn(p)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{}, fmt.Errorf("%w: %s: result is not finite", ErrInvalidParam, name)
	}
	return Result{Name: name, Value: RoundTo(value, 2), Unit: f.Unit}, nil
}
