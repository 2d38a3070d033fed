package formulas

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormulas(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"bmi", BMI(70, 175), 22.857},
		{"bsa mosteller", BSAMosteller(70, 175), 1.845},
		{"ibw male", IdealBodyWeight(175, true), 70.465},
		{"ibw short female floors at base", IdealBodyWeight(140, false), 45.5},
		{"crcl male", CreatinineClearance(60, 70, 1, true), 77.778},
		{"crcl female", CreatinineClearance(60, 70, 1, false), 66.111},
		{"egfr at kappa", EGFRCKDEPI2021(0.9, 50, true), 104.05},
		{"map", MeanArterialPressure(120, 80), 93.333},
		{"qtc bazett at 60 bpm", QTcBazett(400, 60), 400},
		{"qtc bazett at 100 bpm", QTcBazett(400, 100), 516.40},
		{"qtc fridericia at 60 bpm", QTcFridericia(400, 60), 400},
		{"aa gradient at sea level", AaGradient(0.21, 90, 40, 0), 9.73},
		{"anion gap", AnionGap(140, 104, 24), 12},
		{"corrected calcium", CorrectedCalcium(8, 2), 9.6},
		{"corrected sodium", CorrectedSodium(130, 600), 138},
		{"free water deficit", FreeWaterDeficit(160, 70, 0), 6},
		{"celsius", FToC(98.6), 37},
		{"creatinine si", CreatinineMgdlToUmol(1), 88.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.got, 0.05)
		})
	}
}

func TestWintersExpectedPaCO2(t *testing.T) {
	lo, hi := WintersExpectedPaCO2(12)

	assert.Equal(t, 24.0, lo)
	assert.Equal(t, 28.0, hi)
}

func TestRoundToAndClamp(t *testing.T) {
	assert.Equal(t, 1.23, RoundTo(1.2345, 2))
	assert.Equal(t, 2.0, RoundTo(1.5, 0))
	assert.Equal(t, 4.0, Clamp(8, 1, 4))
	assert.Equal(t, 1.0, Clamp(0.5, 1, 4))
}

func TestCompute(t *testing.T) {
	result, err := Compute("bmi", map[string]float64{"weight_kg": 70, "height_cm": 175, "extra": 1})

	require.NoError(t, err)
	assert.Equal(t, Result{Name: "bmi", Value: 22.86, Unit: "kg/m²"}, result)
}

func TestCompute_OptionalDefault(t *testing.T) {
	withDefault, err := Compute("aa_gradient", map[string]float64{"fio2": 0.21, "pao2": 90, "paco2": 40})
	require.NoError(t, err)
	explicit, err := Compute("aa_gradient", map[string]float64{"fio2": 0.21, "pao2": 90, "paco2": 40, "patm": 760})
	require.NoError(t, err)

	assert.Equal(t, explicit, withDefault)
	assert.InDelta(t, 9.73, withDefault.Value, 0.01)
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		params  map[string]float64
		want    error
	}{
		{"unknown", "nope", nil, ErrUnknownFormula},
		{"missing", "bmi", map[string]float64{"weight_kg": 70}, ErrInvalidParam},
		{"zero divisor", "bmi", map[string]float64{"weight_kg": 70, "height_cm": 0}, ErrInvalidParam},
		{"nan", "map", map[string]float64{"systolic": math.NaN(), "diastolic": 80}, ErrInvalidParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.formula, tt.params)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestNamesAreResolvable(t *testing.T) {
	names := Names()

	require.NotEmpty(t, names)
	for _, name := range names {
		f, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, f.Name)
		assert.NotEmpty(t, f.Description, name)
		assert.NotNil(t, f.fn, name)
	}
	assert.IsIncreasing(t, names)
}
