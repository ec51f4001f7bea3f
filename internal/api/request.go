// Package api exposes the risk assessment engine over HTTP.
package api

import (
	"encoding/json"
	"strconv"

	"github.com/diabetes-risk-server/internal/domain"
)

// requiredFields must be present as keys in the request payload. A key
// that is present but unparsable decodes to the zero sentinel, not a
// validation failure.
var requiredFields = []string{
	"age", "bmi", "glucose", "bloodPressure",
	"insulin", "skinThickness", "pregnancies", "familyHistory",
}

// assessmentRequest is the decoded form of one patient payload.
type assessmentRequest struct {
	Measurement domain.PatientMeasurement
	Flags       domain.ContextFlags
}

// decodeAssessmentRequest turns a raw JSON object into a measurement
// plus context flags. Field handling follows the upstream convention:
// an absent key is nil, a present but null, empty or unparsable value
// recovers to the zero sentinel (MalformedValue is never propagated),
// and blood pressure fans out to systolic/diastolic when the split
// readings are not provided.
func decodeAssessmentRequest(payload map[string]json.RawMessage) *assessmentRequest {
	req := &assessmentRequest{}
	m := &req.Measurement

	m.Pregnancies = numberField(payload, "pregnancies")
	m.Glucose = numberField(payload, "glucose")
	m.BloodPressure = numberField(payload, "bloodPressure")
	m.SkinThickness = numberField(payload, "skinThickness")
	m.Insulin = numberField(payload, "insulin")
	m.BMI = numberField(payload, "bmi")
	m.FamilyHistory = numberField(payload, "familyHistory")
	m.Age = numberField(payload, "age")

	m.SystolicBP = fallbackPositive(numberField(payload, "systolicBP"), m.BloodPressure)
	m.DiastolicBP = fallbackPositive(numberField(payload, "diastolicBP"), m.BloodPressure)

	// HbA1c is optional and only meaningful when positive.
	if hba1c := numberField(payload, "hba1c"); hba1c != nil && *hba1c > 0 {
		m.HbA1c = hba1c
	}

	req.Flags = domain.ContextFlags{
		Gender:             stringField(payload, "gender"),
		ExerciseFrequency:  stringField(payload, "exerciseFrequency"),
		SmokingStatus:      stringField(payload, "smokingStatus"),
		AlcoholConsumption: stringField(payload, "alcoholConsumption"),
		FamilyHistoryFlag:  boolField(payload, "familyHistoryFlag"),
		DiabetesStatus:     domain.ParseDiabetesStatus(stringField(payload, "diabetesStatus")),
	}
	req.Flags.Normalize()

	return req
}

// missingRequiredFields lists required keys absent from the payload, in
// contract order.
func missingRequiredFields(payload map[string]json.RawMessage) []string {
	var missing []string
	for _, field := range requiredFields {
		if _, ok := payload[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// numberField decodes an optional numeric field. Absent keys are nil;
// anything present recovers to a value, with zero standing in for
// null, empty or malformed input.
func numberField(payload map[string]json.RawMessage, key string) *float64 {
	raw, ok := payload[key]
	if !ok {
		return nil
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return domain.Float(number)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if parsed, err := strconv.ParseFloat(text, 64); err == nil {
			return domain.Float(parsed)
		}
	}

	return domain.Float(0)
}

func stringField(payload map[string]json.RawMessage, key string) string {
	raw, ok := payload[key]
	if !ok {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return ""
	}
	return text
}

func boolField(payload map[string]json.RawMessage, key string) bool {
	raw, ok := payload[key]
	if !ok {
		return false
	}
	var flag bool
	if err := json.Unmarshal(raw, &flag); err != nil {
		return false
	}
	return flag
}

// fallbackPositive returns primary when it carries a non-zero reading,
// otherwise fallback.
func fallbackPositive(primary, fallback *float64) *float64 {
	if primary != nil && *primary != 0 {
		return primary
	}
	return fallback
}
