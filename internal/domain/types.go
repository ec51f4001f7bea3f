// Package domain contains the core entities and types for diabetes risk
// assessment: patient measurements, lifestyle context, classifier output,
// and the assembled assessment result returned to callers.
package domain

import (
	"errors"
	"strings"
)

// RiskCategory is the discrete risk label derived from the adjusted risk
// score. Categories are ordinal: Low < Moderate < High < Very High.
type RiskCategory string

const (
	RiskLow      RiskCategory = "Low"
	RiskModerate RiskCategory = "Moderate"
	RiskHigh     RiskCategory = "High"
	RiskVeryHigh RiskCategory = "Very High"
)

// InsightStatus describes how a single clinical metric compares to its
// reference range.
type InsightStatus string

const (
	StatusGood     InsightStatus = "good"
	StatusWarning  InsightStatus = "warning"
	StatusCritical InsightStatus = "critical"
)

// PatientMode selects between prevention-framed guidance for at-risk
// patients and management-framed guidance for patients with a diagnosed
// condition. Glucose and HbA1c rules, and the risk-band summary, are
// mode-dependent.
type PatientMode string

const (
	ModePrevention PatientMode = "prevention"
	ModeManagement PatientMode = "management"
)

// DiabetesStatus is the patient's reported diagnosis status.
type DiabetesStatus string

const (
	StatusNone        DiabetesStatus = "none"
	StatusPrediabetic DiabetesStatus = "prediabetic"
	StatusType1       DiabetesStatus = "type1"
	StatusType2       DiabetesStatus = "type2"
	StatusGestational DiabetesStatus = "gestational"
	StatusOther       DiabetesStatus = "other"
)

// Validation errors for assessment data integrity
var (
	ErrInvalidRiskCategory = errors.New("invalid risk category")
	ErrInvalidInsightState = errors.New("invalid insight status")
)

// IsValid validates that the RiskCategory is one of the four fixed labels.
func (c RiskCategory) IsValid() bool {
	switch c {
	case RiskLow, RiskModerate, RiskHigh, RiskVeryHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk category.
func (c RiskCategory) String() string {
	return string(c)
}

// Severity returns the ordinal position of the category, with Low = 0.
// Used by tests to assert monotonicity of the threshold table.
func (c RiskCategory) Severity() int {
	switch c {
	case RiskLow:
		return 0
	case RiskModerate:
		return 1
	case RiskHigh:
		return 2
	case RiskVeryHigh:
		return 3
	default:
		return -1
	}
}

// IsValid validates the insight status.
func (s InsightStatus) IsValid() bool {
	switch s {
	case StatusGood, StatusWarning, StatusCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the insight status.
func (s InsightStatus) String() string {
	return string(s)
}

// ParseDiabetesStatus normalizes a raw status string. Unknown values are
// preserved lowercased so mode detection can still classify them.
func ParseDiabetesStatus(raw string) DiabetesStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusNone
	}
	return DiabetesStatus(s)
}

// Mode maps a diagnosis status to the guidance mode. Only confirmed
// diagnoses (type1, type2, gestational, other) switch to management
// framing; prediabetic patients stay in prevention mode.
func (d DiabetesStatus) Mode() PatientMode {
	switch d {
	case StatusType1, StatusType2, StatusGestational, StatusOther:
		return ModeManagement
	default:
		return ModePrevention
	}
}

// String returns the string representation of the diabetes status.
func (d DiabetesStatus) String() string {
	return string(d)
}
