// Package formulas provides stateless clinical formulas and unit conversions.
//
// All functions take and return SI or conventional US clinical units as named in
// their parameters. They do not validate physiological plausibility; callers that
// accept user input go through Compute, which rejects non-finite and non-positive
// divisors.
package formulas

import "math"

// Water vapour pressure at 37°C in mmHg.
const waterVapourPressure = 47

// BMI returns the body mass index in kg/m².
func BMI(weightKg, heightCm float64) float64 {
	h := heightCm / 100
	return weightKg / (h * h)
}

// BSAMosteller returns body surface area in m².
func BSAMosteller(weightKg, heightCm float64) float64 {
	return math.Sqrt(weightKg * heightCm / 3600)
}

// BSADuBois returns body surface area in m².
func BSADuBois(weightKg, heightCm float64) float64 {
	return 0.007184 * math.Pow(weightKg, 0.425) * math.Pow(heightCm, 0.725)
}

// IdealBodyWeight returns the Devine ideal body weight in kg.
func IdealBodyWeight(heightCm float64, male bool) float64 {
	over := math.Max(0, CmToIn(heightCm)-60)
	if male {
		return 50 + 2.3*over
	}
	return 45.5 + 2.3*over
}

// AdjustedBodyWeight returns the dosing weight used in obesity.
func AdjustedBodyWeight(actualKg, idealKg float64) float64 {
	return idealKg + 0.4*(actualKg-idealKg)
}

// LeanBodyWeight returns the Boer lean body weight in kg.
func LeanBodyWeight(weightKg, heightCm float64, male bool) float64 {
	if male {
		return 0.407*weightKg + 0.267*heightCm - 19.2
	}
	return 0.252*weightKg + 0.473*heightCm - 48.3
}

// CreatinineClearance returns the Cockcroft-Gault clearance in mL/min.
func CreatinineClearance(age, weightKg, creatinineMgdl float64, male bool) float64 {
	base := (140 - age) * weightKg / (72 * creatinineMgdl)
	if male {
		return base
	}
	return base * 0.85
}

// EGFRCKDEPI2021 returns the race-free CKD-EPI 2021 eGFR in mL/min/1.73m².
func EGFRCKDEPI2021(creatinineMgdl, age float64, male bool) float64 {
	kappa, alpha, factor := 0.7, -0.241, 1.012
	if male {
		kappa, alpha, factor = 0.9, -0.302, 1.0
	}
	ratio := creatinineMgdl / kappa
	return 142 *
		math.Pow(math.Min(ratio, 1), alpha) *
		math.Pow(math.Max(ratio, 1), -1.2) *
		math.Pow(0.9938, age) *
		factor
}

// MeanArterialPressure returns MAP in mmHg.
func MeanArterialPressure(systolic, diastolic float64) float64 {
	return diastolic + (systolic-diastolic)/3
}

// PulsePressure returns systolic minus diastolic pressure.
func PulsePressure(systolic, diastolic float64) float64 {
	return systolic - diastolic
}

// QTcBazett returns the Bazett corrected QT interval in ms.
func QTcBazett(qtMs, heartRate float64) float64 {
	return qtMs / math.Sqrt(60/heartRate)
}

// QTcFridericia returns the Fridericia corrected QT interval in ms.
func QTcFridericia(qtMs, heartRate float64) float64 {
	return qtMs / math.Cbrt(60/heartRate)
}

// AaGradient returns the alveolar-arterial oxygen gradient in mmHg. A zero
// atmospheric pressure means sea level.
func AaGradient(fio2, pao2, paco2, patm float64) float64 {
	if patm == 0 {
		patm = 760
	}
	alveolar := fio2*(patm-waterVapourPressure) - paco2/0.8
	return alveolar - pao2
}

// ExpectedAaGradient returns the age-adjusted upper limit of the A-a gradient.
func ExpectedAaGradient(age float64) float64 {
	return age/4 + 4
}

// PFRatio returns PaO2/FiO2.
func PFRatio(pao2, fio2 float64) float64 {
	return pao2 / fio2
}

// OxygenContent returns arterial oxygen content in mL O2/dL. sao2 is a fraction.
func OxygenContent(hb, sao2, pao2 float64) float64 {
	return 1.34*hb*sao2 + 0.003*pao2
}

// WintersExpectedPaCO2 returns the expected PaCO2 range in metabolic acidosis.
func WintersExpectedPaCO2(hco3 float64) (lo, hi float64) {
	expected := 1.5*hco3 + 8
	return expected - 2, expected + 2
}

// AnionGap returns Na - (Cl + HCO3).
func AnionGap(na, cl, hco3 float64) float64 {
	return na - (cl + hco3)
}

// CorrectedAnionGap adjusts the anion gap for albumin in g/dL.
func CorrectedAnionGap(anionGap, albumin float64) float64 {
	return anionGap + 2.5*(4-albumin)
}

// DeltaRatio returns the gap-gap ratio against normal values of 12 and 24 mEq/L.
func DeltaRatio(anionGap, hco3 float64) float64 {
	return (anionGap - 12) / (24 - hco3)
}

// CorrectedSodium corrects sodium for glucose in mg/dL.
func CorrectedSodium(na, glucose float64) float64 {
	return na + 0.016*(glucose-100)
}

// CorrectedCalcium corrects calcium in mg/dL for albumin in g/dL.
func CorrectedCalcium(ca, albumin float64) float64 {
	return ca + 0.8*(4-albumin)
}

// FreeWaterDeficit returns the free water deficit in litres. A zero target means 140 mEq/L.
func FreeWaterDeficit(na, weightKg, targetNa float64) float64 {
	if targetNa == 0 {
		targetNa = 140
	}
	return 0.6 * weightKg * (na/targetNa - 1)
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	f := math.Pow(10, float64(decimals))
	return math.Round(v*f) / f
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
