package service

import (
	"fmt"

	"github.com/diabetes-risk-server/internal/domain"
)

// BuildMetricInsights classifies each present clinical metric into a
// status/label/message triple for direct display. Metrics are evaluated
// independently; absent readings produce no entry.
func BuildMetricInsights(m *domain.PatientMeasurement) map[string]domain.MetricInsight {
	insights := make(map[string]domain.MetricInsight)

	if hasReading(m.BMI) {
		bmi := *m.BMI
		value := fmt.Sprintf("%.1f", bmi)
		switch {
		case bmi >= 18.5 && bmi <= 24.9:
			insights["bmi"] = insight(domain.StatusGood, "BMI", value, "Healthy range")
		case bmi < 18.5:
			insights["bmi"] = insight(domain.StatusWarning, "BMI", value, "Below healthy range")
		default:
			insights["bmi"] = insight(domain.StatusWarning, "BMI", value, "Above healthy range")
		}
	}

	if hasReading(m.Glucose) {
		glucose := *m.Glucose
		value := fmt.Sprintf("%.0f mg/dL", glucose)
		switch {
		case glucose < 100:
			insights["glucose"] = insight(domain.StatusGood, "Glucose", value, "Normal fasting glucose")
		case glucose < 126:
			insights["glucose"] = insight(domain.StatusWarning, "Glucose", value, "Borderline elevation")
		default:
			insights["glucose"] = insight(domain.StatusCritical, "Glucose", value, "Diabetes range")
		}
	}

	if hasReading(m.SystolicBP) && hasReading(m.DiastolicBP) {
		systolic, diastolic := *m.SystolicBP, *m.DiastolicBP
		value := fmt.Sprintf("%.0f/%.0f mmHg", systolic, diastolic)
		switch {
		case systolic < 120 && diastolic < 80:
			insights["bloodPressure"] = insight(domain.StatusGood, "Blood Pressure", value, "Optimal range")
		case systolic < 140 && diastolic < 90:
			insights["bloodPressure"] = insight(domain.StatusWarning, "Blood Pressure", value, "Elevated")
		default:
			insights["bloodPressure"] = insight(domain.StatusCritical, "Blood Pressure", value, "Hypertension range")
		}
	}

	if hasReading(m.HbA1c) {
		hba1c := *m.HbA1c
		value := fmt.Sprintf("%.1f%%", hba1c)
		switch {
		case hba1c < 5.7:
			insights["hba1c"] = insight(domain.StatusGood, "HbA1c", value, "Normal range")
		case hba1c < 6.5:
			insights["hba1c"] = insight(domain.StatusWarning, "HbA1c", value, "Prediabetes range")
		default:
			insights["hba1c"] = insight(domain.StatusCritical, "HbA1c", value, "Diabetes range")
		}
	}

	if hasReading(m.Insulin) {
		insulin := *m.Insulin
		value := fmt.Sprintf("%.1f µU/mL", insulin)
		switch {
		case insulin >= 2 && insulin <= 25:
			insights["insulin"] = insight(domain.StatusGood, "Insulin", value, "Within typical fasting range")
		case insulin < 2:
			insights["insulin"] = insight(domain.StatusWarning, "Insulin", value, "Below typical range")
		default:
			insights["insulin"] = insight(domain.StatusWarning, "Insulin", value, "Elevated fasting insulin")
		}
	}

	return insights
}

func insight(status domain.InsightStatus, label, valueLabel, message string) domain.MetricInsight {
	return domain.MetricInsight{
		Status:     status,
		Label:      label,
		ValueLabel: valueLabel,
		Message:    message,
	}
}
