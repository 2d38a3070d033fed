package calculators

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-calculator-mcp-server/internal/domain"
	"github.com/clinical-calculator-mcp-server/internal/engine"
	"github.com/clinical-calculator-mcp-server/internal/registry"
)

// baseline returns valid inputs for every field: the zero option where one exists,
// the first option otherwise, and the lower bound for numeric fields.
func baseline(calc *domain.Calculator) domain.Inputs {
	in := make(domain.Inputs, len(calc.Fields))
	for _, f := range calc.Fields {
		switch {
		case f.Type.HasOptions():
			if f.HasOption(0) {
				in[f.ID] = 0
			} else {
				in[f.ID] = f.Options[0].Value
			}
		case f.Validation != nil:
			in[f.ID] = f.Validation.Min
		}
	}
	return in
}

func with(in domain.Inputs, kv map[string]float64) domain.Inputs {
	out := in.Clone()
	for k, v := range kv {
		out[k] = v
	}
	return out
}

func evaluate(t *testing.T, calc *domain.Calculator, in domain.Inputs) domain.Interpretation {
	t.Helper()
	score, normalized, _, err := engine.Score(calc, in)
	require.NoError(t, err)
	interp, warnings := engine.Interpret(calc, score, normalized)
	assert.Empty(t, warnings, "score %g of %s should be inside the range table", score, calc.ID)
	return interp
}

func TestAll_CatalogueShape(t *testing.T) {
	want := map[string]domain.Category{
		"apache-ii":    domain.CategoryCriticalCare,
		"sofa":         domain.CategoryCriticalCare,
		"qsofa":        domain.CategoryCriticalCare,
		"news2":        domain.CategoryCriticalCare,
		"gcs":          domain.CategoryNeurology,
		"cha2ds2-vasc": domain.CategoryCardiology,
		"heart-score":  domain.CategoryCardiology,
		"timi-stemi":   domain.CategoryCardiology,
		"has-bled":     domain.CategoryCardiology,
		"framingham":   domain.CategoryCardiology,
		"ascvd":        domain.CategoryCardiology,
		"wells-pe":     domain.CategoryPulmonology,
		"curb-65":      domain.CategoryPulmonology,
		"pesi":         domain.CategoryPulmonology,
		"meld-na":      domain.CategoryHepatology,
		"child-pugh":   domain.CategoryHepatology,
		"phq-9":        domain.CategoryPsychiatry,
		"gad-7":        domain.CategoryPsychiatry,
		"4ts-hit":      domain.CategoryHematology,
		"centor":       domain.CategoryInfectiousDisease,
		"ottawa-ankle": domain.CategoryOrthopedics,
		"apgar":        domain.CategoryPediatrics,
		"bishop":       domain.CategoryObstetrics,
		"apfel":        domain.CategoryAnesthesia,
		"mmse":         domain.CategoryNeurology,
	}

	all := All()

	require.Len(t, all, len(want))
	ids := make(map[string]bool)
	for _, c := range all {
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
		assert.Equal(t, want[c.ID], c.Category, c.ID)
		assert.NotEmpty(t, c.Citations, "%s has no citation", c.ID)
		assert.Equal(t, catalogueVersion, c.Version)
		for _, rel := range c.RelatedIDs {
			_, known := want[rel]
			assert.True(t, known, "%s relates to unknown calculator %s", c.ID, rel)
		}
	}
}

func TestAll_VerifiesCleanly(t *testing.T) {
	errs := engine.Verify(All())
	assert.Empty(t, errs)
}

func TestAll_RangeTablesCoverDeclaredDomain(t *testing.T) {
	tests := []struct {
		id       string
		min, max float64
		step     float64
	}{
		{"apache-ii", 0, 71, 1},
		{"sofa", 0, 24, 1},
		{"qsofa", 0, 3, 1},
		{"news2", 0, 20, 1},
		{"gcs", 3, 15, 1},
		{"cha2ds2-vasc", 0, 9, 1},
		{"heart-score", 0, 10, 1},
		{"timi-stemi", 0, 14, 1},
		{"has-bled", 0, 9, 1},
		{"framingham", -10, 35, 1},
		{"ascvd", 0, 100, 0.1},
		{"wells-pe", 0, 12.5, 0.5},
		{"curb-65", 0, 5, 1},
		{"pesi", 18, 350, 1},
		{"meld-na", 6, 40, 1},
		{"child-pugh", 5, 15, 1},
		{"phq-9", 0, 27, 1},
		{"gad-7", 0, 21, 1},
		{"4ts-hit", 0, 8, 1},
		{"centor", -1, 5, 1},
		{"ottawa-ankle", 0, 6, 1},
		{"apgar", 0, 10, 1},
		{"bishop", 0, 13, 1},
		{"apfel", 0, 4, 1},
		{"mmse", 0, 30, 1},
	}

	byID := make(map[string]*domain.Calculator)
	for _, c := range All() {
		byID[c.ID] = c
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			calc := byID[tt.id]
			require.NotNil(t, calc)
			d := calc.ScoreDomain()
			assert.Equal(t, tt.min, d.Min)
			assert.Equal(t, tt.max, d.Max)
			assert.InDelta(t, tt.step, d.Step, 1e-12)
			for _, table := range calc.RangeTables() {
				assert.NoError(t, table.CheckCoverage(d))
			}
		})
	}
}

func TestRegisterAll_RejectsSecondRegistration(t *testing.T) {
	r := registry.New(nil)

	require.NoError(t, RegisterAll(r))
	err := RegisterAll(r)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateCalculator))
	assert.Equal(t, 25, r.Count())
}

func TestEvaluation_IsDeterministic(t *testing.T) {
	for _, calc := range All() {
		t.Run(calc.ID, func(t *testing.T) {
			in := baseline(calc)
			first := evaluate(t, calc, in)
			second := evaluate(t, calc, in)
			assert.Equal(t, first, second)
		})
	}
}

func TestAPACHEII_BandBoundary(t *testing.T) {
	calc := APACHEII()
	base := baseline(calc)

	nine := evaluate(t, calc, with(base, map[string]float64{"temperature": 4, "map": 3, "heart_rate": 2}))
	ten := evaluate(t, calc, with(base, map[string]float64{"temperature": 4, "map": 3, "heart_rate": 2, "respiratory_rate": 1}))

	assert.Equal(t, 9.0, nine.Score)
	assert.Equal(t, "Low Severity", nine.Category)
	assert.Equal(t, "~8% predicted mortality", nine.Mortality)
	assert.Equal(t, 10.0, ten.Score)
	assert.Equal(t, "Moderate Severity", ten.Category)
}

func TestAPACHEII_AcuteRenalFailureDoublesCreatinine(t *testing.T) {
	calc := APACHEII()
	base := with(baseline(calc), map[string]float64{"creatinine": 3})

	without := evaluate(t, calc, base)
	withARF := evaluate(t, calc, with(base, map[string]float64{"acute_renal_failure": 1}))

	assert.Equal(t, 3.0, without.Score)
	assert.Equal(t, 6.0, withARF.Score)
}

func TestCURB65_Extremes(t *testing.T) {
	calc := CURB65()
	base := baseline(calc)

	low := evaluate(t, calc, base)
	high := evaluate(t, calc, with(base, map[string]float64{
		"confusion": 1, "bun": 1, "respiratory_rate": 1, "blood_pressure": 1,
	}))

	assert.Equal(t, "Low Risk", low.Category)
	assert.Equal(t, "0.6% 30-day mortality", low.Mortality)
	assert.Equal(t, 4.0, high.Score)
	assert.Equal(t, "Very High Risk", high.Category)
	assert.Equal(t, domain.RiskCritical, high.Risk)
	assert.Equal(t, "27.8% 30-day mortality", high.Mortality)
}

func TestHEARTScore_BandBoundary(t *testing.T) {
	calc := HEARTScore()
	base := baseline(calc)

	three := evaluate(t, calc, with(base, map[string]float64{"history": 2, "ecg": 1}))
	four := evaluate(t, calc, with(base, map[string]float64{"history": 2, "ecg": 1, "troponin": 1}))

	assert.Equal(t, "Low Risk", three.Category)
	assert.Equal(t, "Moderate Risk", four.Category)
}

func TestPHQ9_SuicidalItemOverridesMinimalBand(t *testing.T) {
	calc := PHQ9()

	got := evaluate(t, calc, with(baseline(calc), map[string]float64{"suicidal": 1}))

	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, "Minimal Depression", got.Category)
	assert.Contains(t, got.Notes, phq9SuicidalNote)
	assert.True(t, strings.HasSuffix(got.Action, phq9SuicidalAction))

	clean := evaluate(t, calc, with(baseline(calc), map[string]float64{"interest": 1}))
	assert.NotContains(t, clean.Notes, phq9SuicidalNote)
}

func TestPHQ9_OverrideDoesNotLeakIntoDefinition(t *testing.T) {
	calc := PHQ9()
	before := len(calc.Ranges[4].Interpretation.Notes)

	evaluate(t, calc, with(baseline(calc), map[string]float64{
		"interest": 3, "depressed": 3, "sleep": 3, "energy": 3, "appetite": 3, "failure": 3, "suicidal": 3,
	}))

	assert.Len(t, calc.Ranges[4].Interpretation.Notes, before)
}

func TestMELDNa_WorkedExample(t *testing.T) {
	calc := MELDNa()
	in := domain.Inputs{"creatinine": 1, "bilirubin": 1, "inr": 1, "sodium": 137, "dialysis": 0}

	got := evaluate(t, calc, in)

	assert.Equal(t, 6.0, got.Score)
	assert.Equal(t, "Low", got.Category)
	assert.Equal(t, "1.9% 90-day mortality", got.Mortality)
}

func TestMELDNa_Clamps(t *testing.T) {
	calc := MELDNa()
	base := domain.Inputs{"creatinine": 1, "bilirubin": 1, "inr": 1, "sodium": 137, "dialysis": 0}

	score := func(kv map[string]float64) float64 {
		return calc.Strategy.Score(with(base, kv))
	}

	assert.Equal(t, score(map[string]float64{"creatinine": 4}), score(map[string]float64{"creatinine": 8}))
	assert.Equal(t, 20.0, score(map[string]float64{"creatinine": 8}))
	assert.Equal(t, 20.0, score(map[string]float64{"dialysis": 1}), "dialysis sets creatinine to 4")
	assert.Equal(t, score(map[string]float64{"sodium": 125}), score(map[string]float64{"sodium": 120}))
	assert.Equal(t, score(map[string]float64{"bilirubin": 1}), score(map[string]float64{"bilirubin": 0.5}))
	assert.Equal(t, 40.0, score(map[string]float64{"creatinine": 15, "bilirubin": 50, "inr": 10, "sodium": 110}))
}

func TestWellsPE_DecimalScore(t *testing.T) {
	calc := WellsPE()
	base := baseline(calc)

	high := evaluate(t, calc, with(base, map[string]float64{"clinicalDVT": 3, "alternativeLessLikely": 3, "heartRate": 1.5}))
	moderate := evaluate(t, calc, with(base, map[string]float64{"heartRate": 1.5}))

	assert.Equal(t, 7.5, high.Score)
	assert.Equal(t, "7.5", high.ScoreDisplay)
	assert.Equal(t, "High Probability", high.Category)
	assert.Equal(t, "Moderate Probability", moderate.Category)
	assert.Equal(t, "1.5", moderate.ScoreDisplay)
}

func TestGCS_ComponentDisplay(t *testing.T) {
	calc := GCS()

	got := evaluate(t, calc, domain.Inputs{"eye": 3, "verbal": 4, "motor": 6})

	assert.Equal(t, 13.0, got.Score)
	assert.Equal(t, "13 (E3V4M6)", got.ScoreDisplay)
	assert.Equal(t, "Mild Impairment", got.Category)
}

func TestNEWS2_RedScoreEscalates(t *testing.T) {
	calc := NEWS2()

	got := evaluate(t, calc, with(baseline(calc), map[string]float64{"respiratoryRate": 3}))

	assert.Equal(t, 3.0, got.Score)
	assert.Equal(t, "High Clinical Risk", got.Category)
	assert.Contains(t, got.Notes, "Red score parameter: respiratoryRate")
}

func TestCHA2DS2VASc_FemaleSexOnly(t *testing.T) {
	calc := CHA2DS2VASc()

	got := evaluate(t, calc, with(baseline(calc), map[string]float64{"sex": 1}))

	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, "Low Risk (Female only)", got.Category)
	assert.Equal(t, domain.RiskLowModerate, got.Risk)
	assert.True(t, strings.HasPrefix(got.Recommendation, "If the only point is female sex"))
	assert.Equal(t, "Annual stroke risk: 1.3%", got.Mortality)

	male := evaluate(t, calc, with(baseline(calc), map[string]float64{"hypertension": 1}))
	assert.Equal(t, "Low-Moderate Risk", male.Category)
}

func TestNEWS2_KeyThreshold(t *testing.T) {
	calc := NEWS2()

	got := evaluate(t, calc, with(baseline(calc), map[string]float64{"respiratoryRate": 2, "heartRate": 1, "temperature": 2}))

	assert.Equal(t, 5.0, got.Score)
	assert.Equal(t, "Medium Clinical Risk (Key Threshold)", got.Category)
}

func TestFramingham_SelectsTableBySex(t *testing.T) {
	calc := Framingham()
	in := domain.Inputs{
		"age": 50, "total_cholesterol": 210, "hdl": 45, "systolic_bp": 135,
		"bp_treated": 0, "smoker": 1, "diabetes": 0,
	}

	male := evaluate(t, calc, with(in, map[string]float64{"sex": 1}))
	female := evaluate(t, calc, with(in, map[string]float64{"sex": 0}))

	assert.Equal(t, 11.0, male.Score)
	assert.Equal(t, "Low Risk", male.Category)
	assert.Equal(t, "8% 10-year CVD risk", male.Morbidity)
	assert.Equal(t, 17.0, female.Score)
	assert.Equal(t, "Low Risk", female.Category)
	assert.Equal(t, "5% 10-year CVD risk", female.Morbidity)

	// 12 points is intermediate for men and low for women.
	assert.Equal(t, "Intermediate Risk", calc.Strategy.Interpret(12, domain.Inputs{"sex": 1}).Category)
	assert.Equal(t, "Low Risk", calc.Strategy.Interpret(12, domain.Inputs{"sex": 0}).Category)
}

func TestASCVD_PooledCohortReferenceProfiles(t *testing.T) {
	calc := ASCVD()
	in := domain.Inputs{
		"age": 55, "race": 0, "total_cholesterol": 213, "hdl": 50, "systolic_bp": 120,
		"bp_treated": 0, "diabetes": 0, "smoker": 0,
	}

	female := evaluate(t, calc, with(in, map[string]float64{"sex": 0}))
	male := evaluate(t, calc, with(in, map[string]float64{"sex": 1}))

	assert.InDelta(t, 2.1, female.Score, 0.15)
	assert.Equal(t, "Low Risk", female.Category)
	assert.InDelta(t, 5.3, male.Score, 0.15)
	assert.Equal(t, "Borderline Risk", male.Category)
	assert.True(t, strings.HasSuffix(male.ScoreDisplay, "%"))
}

func TestCentor_NegativeScore(t *testing.T) {
	calc := Centor()

	got := evaluate(t, calc, with(baseline(calc), map[string]float64{"age": -1}))

	assert.Equal(t, -1.0, got.Score)
	assert.Equal(t, "Very Low Risk", got.Category)
}

func TestOttawaAnkle_ImagingByCriteria(t *testing.T) {
	calc := OttawaAnkle()
	base := baseline(calc)

	tests := []struct {
		name     string
		inputs   map[string]float64
		category string
		rec      string
	}{
		{"none", nil, "Low Risk - No X-ray Needed", "X-ray not indicated by Ottawa rules."},
		{"ankle", map[string]float64{"bone_tenderness_lateral": 1}, "X-ray Indicated", "Ankle X-ray indicated."},
		{"foot", map[string]float64{"bone_tenderness_navicular": 1}, "X-ray Indicated", "Foot X-ray indicated."},
		{"both", map[string]float64{"unable_bear_weight_ankle": 1, "unable_bear_weight_foot": 1}, "X-ray Indicated", "Both ankle AND foot X-rays indicated."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluate(t, calc, with(base, tt.inputs))
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.rec, got.Recommendation)
		})
	}
}

func TestHASBLED_HighRisk(t *testing.T) {
	calc := HASBLED()

	got := evaluate(t, calc, with(baseline(calc), map[string]float64{"hypertension": 1, "elderly": 1, "drugs": 1}))

	assert.Equal(t, "High Risk", got.Category)
	assert.Equal(t, "3.74-12.5 bleeds per 100 patient-years", got.Morbidity)
}

func TestMMSE_Bands(t *testing.T) {
	calc := MMSE()
	full := make(domain.Inputs)
	for _, f := range calc.Fields {
		_, hi := f.Bounds()
		full[f.ID] = hi
	}

	assert.Equal(t, "Normal Cognition", evaluate(t, calc, full).Category)
	assert.Equal(t, 30.0, evaluate(t, calc, full).Score)
	assert.Equal(t, "Severe Cognitive Impairment", evaluate(t, calc, baseline(calc)).Category)
}

func TestPESI_AgeCountsPerYear(t *testing.T) {
	calc := PESI()

	tests := []struct {
		name     string
		in       map[string]float64
		score    float64
		category string
	}{
		{"young woman", map[string]float64{"age": 40}, 40, "Class I (Very Low Risk)"},
		{"upper bound of class I", map[string]float64{"age": 55, "male": 10}, 65, "Class I (Very Low Risk)"},
		{"class III", map[string]float64{"age": 70, "cancer": 30}, 100, "Class III (Intermediate Risk)"},
		{"class V", map[string]float64{"age": 80, "altered_mental_status": 60}, 140, "Class V (Very High Risk)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluate(t, calc, with(baseline(calc), tt.in))
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.category, got.Category)
		})
	}
}

func TestChildPugh_Classes(t *testing.T) {
	calc := ChildPugh()

	assert.Equal(t, "Class A (Well-Compensated)", evaluate(t, calc, baseline(calc)).Category)
	classB := evaluate(t, calc, with(baseline(calc), map[string]float64{"bilirubin": 2, "albumin": 2, "ascites": 2}))
	assert.Equal(t, 8.0, classB.Score)
	assert.Equal(t, "Class B (Significant Functional Compromise)", classB.Category)
	classC := evaluate(t, calc, domain.Inputs{"bilirubin": 3, "albumin": 3, "inr": 2, "ascites": 1, "encephalopathy": 1})
	assert.Equal(t, 10.0, classC.Score)
	assert.Equal(t, domain.RiskHigh, classC.Risk)
}

func TestFourTsHIT_Boundaries(t *testing.T) {
	calc := FourTsHIT()

	low := evaluate(t, calc, domain.Inputs{"thrombocytopenia": 1, "timing": 1, "thrombosis": 0, "other_causes": 1})
	intermediate := evaluate(t, calc, domain.Inputs{"thrombocytopenia": 2, "timing": 1, "thrombosis": 0, "other_causes": 1})
	high := evaluate(t, calc, domain.Inputs{"thrombocytopenia": 2, "timing": 2, "thrombosis": 0, "other_causes": 2})

	assert.Equal(t, "Low Probability", low.Category)
	assert.Equal(t, "Intermediate Probability", intermediate.Category)
	assert.Equal(t, "High Probability", high.Category)
}

func TestApgarAndBishop(t *testing.T) {
	apgar := Apgar()
	vigorous := domain.Inputs{"appearance": 1, "pulse": 2, "grimace": 2, "activity": 2, "respiration": 2}
	assert.Equal(t, "Reassuring", evaluate(t, apgar, vigorous).Category)
	assert.Equal(t, domain.RiskCritical, evaluate(t, apgar, baseline(apgar)).Risk)

	bishop := Bishop()
	ripe := domain.Inputs{"dilation": 2, "effacement": 2, "station": 2, "consistency": 1, "position": 1}
	assert.Equal(t, "Favorable Cervix", evaluate(t, bishop, ripe).Category)
	assert.Equal(t, "Unfavorable Cervix", evaluate(t, bishop, baseline(bishop)).Category)
}
