package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diabetes-risk-server/internal/domain"
)

func TestBuildMetricInsightsStatuses(t *testing.T) {
	tests := []struct {
		name       string
		m          *domain.PatientMeasurement
		key        string
		status     domain.InsightStatus
		valueLabel string
	}{
		{"Healthy BMI", &domain.PatientMeasurement{BMI: domain.Float(22.5)}, "bmi", domain.StatusGood, "22.5"},
		{"Underweight BMI", &domain.PatientMeasurement{BMI: domain.Float(17.2)}, "bmi", domain.StatusWarning, "17.2"},
		{"High BMI", &domain.PatientMeasurement{BMI: domain.Float(31)}, "bmi", domain.StatusWarning, "31.0"},
		{"Normal glucose", &domain.PatientMeasurement{Glucose: domain.Float(92)}, "glucose", domain.StatusGood, "92 mg/dL"},
		{"Borderline glucose", &domain.PatientMeasurement{Glucose: domain.Float(110)}, "glucose", domain.StatusWarning, "110 mg/dL"},
		{"Diabetic glucose", &domain.PatientMeasurement{Glucose: domain.Float(130)}, "glucose", domain.StatusCritical, "130 mg/dL"},
		{"Optimal blood pressure", &domain.PatientMeasurement{SystolicBP: domain.Float(110), DiastolicBP: domain.Float(70)}, "bloodPressure", domain.StatusGood, "110/70 mmHg"},
		{"Elevated blood pressure", &domain.PatientMeasurement{SystolicBP: domain.Float(130), DiastolicBP: domain.Float(85)}, "bloodPressure", domain.StatusWarning, "130/85 mmHg"},
		{"Hypertensive blood pressure", &domain.PatientMeasurement{SystolicBP: domain.Float(150), DiastolicBP: domain.Float(95)}, "bloodPressure", domain.StatusCritical, "150/95 mmHg"},
		{"Normal HbA1c", &domain.PatientMeasurement{HbA1c: domain.Float(5.2)}, "hba1c", domain.StatusGood, "5.2%"},
		{"Prediabetic HbA1c", &domain.PatientMeasurement{HbA1c: domain.Float(6.0)}, "hba1c", domain.StatusWarning, "6.0%"},
		{"Diabetic HbA1c", &domain.PatientMeasurement{HbA1c: domain.Float(7.1)}, "hba1c", domain.StatusCritical, "7.1%"},
		{"Normal insulin", &domain.PatientMeasurement{Insulin: domain.Float(12)}, "insulin", domain.StatusGood, "12.0 µU/mL"},
		{"Low insulin", &domain.PatientMeasurement{Insulin: domain.Float(1.5)}, "insulin", domain.StatusWarning, "1.5 µU/mL"},
		{"Elevated insulin", &domain.PatientMeasurement{Insulin: domain.Float(40)}, "insulin", domain.StatusWarning, "40.0 µU/mL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := BuildMetricInsights(tt.m)
			entry, ok := insights[tt.key]
			require.True(t, ok, "expected insight for %s", tt.key)
			assert.Equal(t, tt.status, entry.Status)
			assert.Equal(t, tt.valueLabel, entry.ValueLabel)
			assert.True(t, entry.Status.IsValid())
			assert.NotEmpty(t, entry.Message)
		})
	}
}

func TestBuildMetricInsightsAbsentMetrics(t *testing.T) {
	insights := BuildMetricInsights(&domain.PatientMeasurement{})
	assert.Empty(t, insights)

	// Zero readings are the absence sentinel, and blood pressure needs
	// both halves.
	insights = BuildMetricInsights(&domain.PatientMeasurement{
		BMI:        domain.Float(0),
		Glucose:    domain.Float(0),
		SystolicBP: domain.Float(120),
	})
	assert.Empty(t, insights)
}

func TestBuildMetricInsightsFullProfile(t *testing.T) {
	insights := BuildMetricInsights(&domain.PatientMeasurement{
		BMI:         domain.Float(22),
		Glucose:     domain.Float(85),
		HbA1c:       domain.Float(5.2),
		SystolicBP:  domain.Float(110),
		DiastolicBP: domain.Float(70),
		Insulin:     domain.Float(10),
	})
	assert.Len(t, insights, 5)
	for key, entry := range insights {
		assert.Equal(t, domain.StatusGood, entry.Status, "metric %s", key)
	}
}
