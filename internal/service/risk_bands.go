// Package service implements the deterministic post-processing engine
// that turns a raw classifier probability into a clinically framed risk
// assessment: contextual score adjustment, risk categorization,
// confidence calibration, per-metric insights, and personalized
// recommendations.
package service

import (
	"github.com/diabetes-risk-server/internal/domain"
)

// riskBand is one row of the ordered threshold table. Bands are
// evaluated ascending, first match wins.
type riskBand struct {
	Upper float64
	Label domain.RiskCategory
}

// The authoritative threshold table for risk categorization.
var riskBands = []riskBand{
	{Upper: 20, Label: domain.RiskLow},
	{Upper: 50, Label: domain.RiskModerate},
	{Upper: 75, Label: domain.RiskHigh},
}

// CategorizeRisk maps an adjusted risk score to its discrete category.
// Total over all real inputs: scores below 20 (including negatives) are
// Low, scores at or above 75 (including values past 100) are Very High.
func CategorizeRisk(score float64) domain.RiskCategory {
	for _, band := range riskBands {
		if score < band.Upper {
			return band.Label
		}
	}
	return domain.RiskVeryHigh
}

// clampScore bounds a score to [min, max].
func clampScore(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// hasReading reports whether an optional measurement carries a usable
// clinical value. Zero is the upstream sentinel for "unknown", so a
// present zero is still treated as no signal.
func hasReading(f *float64) bool {
	return f != nil && *f > 0
}
