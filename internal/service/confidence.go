package service

// Confidence calibration bounds and floors. Many independently
// confirming healthy signals floor the displayed confidence even when
// the raw classifier was less certain; the lower bound avoids
// over-alarming borderline cases, the upper bound avoids false
// certainty.
const (
	confidenceFloor       = 60
	confidenceCeil        = 99.5
	strongAgreementFloor  = 96
	partialAgreementFloor = 90
)

// CalibrateConfidence combines the classifier's own confidence with the
// healthy-indicator count from contextual adjustment. Floors only ever
// raise the value; the result is clamped to [60, 99.5].
func CalibrateConfidence(baseConfidence float64, healthyIndicators int, adjustedScore float64) float64 {
	confidence := baseConfidence
	if healthyIndicators >= 4 && adjustedScore < 20 {
		confidence = max(confidence, strongAgreementFloor)
	} else if healthyIndicators >= 2 {
		confidence = max(confidence, partialAgreementFloor)
	}
	return clampScore(confidence, confidenceFloor, confidenceCeil)
}
