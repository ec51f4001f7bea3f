package service

import (
	"github.com/diabetes-risk-server/internal/domain"
)

// Adjustment deltas for each contextual signal. Bands within a signal
// are mutually exclusive; at most one fires per signal.
const (
	deltaBMIHealthy     = -7
	deltaBMIOverweight  = 5
	deltaBMIObese       = 10
	deltaGlucoseHealthy = -6
	deltaGlucoseMild    = 5
	deltaGlucoseHigh    = 10
	deltaHbA1cHealthy   = -4
	deltaHbA1cHigh      = 10
	deltaBPHealthy      = -3
	deltaBPHigh         = 6
	deltaExerciseGood   = -4
	deltaExerciseLow    = 2
	deltaSmokingNever   = -2
	deltaSmokingCurrent = 5
	deltaAlcoholLow     = -1
	deltaAlcoholHeavy   = 3
	deltaNoFamilyHist   = -2
)

// ApplyContextualAdjustments combines the classifier's base probability
// with secondary clinical and lifestyle signals the model never saw.
// Each present signal contributes at most one banded delta; signals in
// their healthy band also increment the healthy-indicator counter used
// by confidence calibration. Missing signals contribute nothing.
//
// The adjusted score is clamped to [0,100]. Pure and total: no error
// paths.
func ApplyContextualAdjustments(baseScore float64, m *domain.PatientMeasurement, flags *domain.ContextFlags) (float64, int) {
	var adjustments float64
	healthyIndicators := 0

	if hasReading(m.BMI) {
		switch bmi := *m.BMI; {
		case bmi >= 18.5 && bmi <= 24.9:
			adjustments += deltaBMIHealthy
			healthyIndicators++
		case bmi >= 30:
			adjustments += deltaBMIObese
		case bmi >= 25:
			adjustments += deltaBMIOverweight
		}
	}

	if hasReading(m.Glucose) {
		switch glucose := *m.Glucose; {
		case glucose >= 70 && glucose <= 99:
			adjustments += deltaGlucoseHealthy
			healthyIndicators++
		case glucose >= 126:
			adjustments += deltaGlucoseHigh
		case glucose >= 110:
			adjustments += deltaGlucoseMild
		}
	}

	if hasReading(m.HbA1c) {
		switch hba1c := *m.HbA1c; {
		case hba1c < 5.7:
			adjustments += deltaHbA1cHealthy
			healthyIndicators++
		case hba1c >= 6.5:
			adjustments += deltaHbA1cHigh
		}
	}

	if hasReading(m.SystolicBP) && hasReading(m.DiastolicBP) {
		systolic, diastolic := *m.SystolicBP, *m.DiastolicBP
		switch {
		case systolic < 120 && diastolic < 80:
			adjustments += deltaBPHealthy
			healthyIndicators++
		case systolic >= 140 || diastolic >= 90:
			adjustments += deltaBPHigh
		}
	}

	switch flags.ExerciseFrequency {
	case "moderate", "heavy":
		adjustments += deltaExerciseGood
		healthyIndicators++
	case "none", "light":
		adjustments += deltaExerciseLow
	}

	switch flags.SmokingStatus {
	case "never":
		adjustments += deltaSmokingNever
		healthyIndicators++
	case "current":
		adjustments += deltaSmokingCurrent
	}

	switch flags.AlcoholConsumption {
	case "none", "light":
		adjustments += deltaAlcoholLow
	case "heavy":
		adjustments += deltaAlcoholHeavy
	}

	if !flags.FamilyHistoryFlag {
		adjustments += deltaNoFamilyHist
		healthyIndicators++
	}

	return clampScore(baseScore+adjustments, 0, 100), healthyIndicators
}
