package domain

import "strings"

// PatientMeasurement holds the clinical readings for a single assessment.
// Every field is optional: a nil pointer means the value was absent or
// unparsable in the request. The rule engine treats nil as "signal not
// present" and never applies a threshold to it. A present zero (for
// example zero pregnancies) stays present for the feature vector but
// cannot trip any banded rule, since every band has a positive lower
// bound.
type PatientMeasurement struct {
	Pregnancies   *float64 `json:"pregnancies,omitempty"`
	Glucose       *float64 `json:"glucose,omitempty"`
	BloodPressure *float64 `json:"bloodPressure,omitempty"`
	SystolicBP    *float64 `json:"systolicBP,omitempty"`
	DiastolicBP   *float64 `json:"diastolicBP,omitempty"`
	SkinThickness *float64 `json:"skinThickness,omitempty"`
	Insulin       *float64 `json:"insulin,omitempty"`
	BMI           *float64 `json:"bmi,omitempty"`
	FamilyHistory *float64 `json:"diabetesPedigreeFunction,omitempty"`
	Age           *float64 `json:"age,omitempty"`
	HbA1c         *float64 `json:"hba1c,omitempty"`
}

// ContextFlags carries the categorical lifestyle and demographic signals
// that the classifier never sees but the adjustment and recommendation
// engines use. String fields are normalized to lowercase; unset strings
// are empty.
type ContextFlags struct {
	Gender             string         `json:"gender"`
	ExerciseFrequency  string         `json:"exerciseFrequency"`
	SmokingStatus      string         `json:"smokingStatus"`
	AlcoholConsumption string         `json:"alcoholConsumption"`
	FamilyHistoryFlag  bool           `json:"familyHistoryFlag"`
	DiabetesStatus     DiabetesStatus `json:"diabetesStatus"`
}

// Normalize lowercases the categorical fields in place so rule lookups
// can compare exactly.
func (c *ContextFlags) Normalize() {
	c.Gender = strings.ToLower(strings.TrimSpace(c.Gender))
	c.ExerciseFrequency = strings.ToLower(strings.TrimSpace(c.ExerciseFrequency))
	c.SmokingStatus = strings.ToLower(strings.TrimSpace(c.SmokingStatus))
	c.AlcoholConsumption = strings.ToLower(strings.TrimSpace(c.AlcoholConsumption))
	c.DiabetesStatus = ParseDiabetesStatus(string(c.DiabetesStatus))
}

// Mode returns the guidance mode implied by the diagnosis status.
func (c *ContextFlags) Mode() PatientMode {
	return c.DiabetesStatus.Mode()
}

// Value dereferences an optional reading, returning 0 when absent.
// Callers that must distinguish absence use the pointer directly.
func Value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Present reports whether an optional reading carries a usable value.
func Present(f *float64) bool {
	return f != nil
}

// Float returns a pointer to v, for building measurements in tests and
// request decoding.
func Float(v float64) *float64 {
	return &v
}

// FeatureVector assembles the eight classifier features in training
// order. Absent readings become zero, matching the imputation contract
// the model was trained with.
func (m *PatientMeasurement) FeatureVector() []float64 {
	return []float64{
		Value(m.Pregnancies),
		Value(m.Glucose),
		Value(m.BloodPressure),
		Value(m.SkinThickness),
		Value(m.Insulin),
		Value(m.BMI),
		Value(m.FamilyHistory),
		Value(m.Age),
	}
}
