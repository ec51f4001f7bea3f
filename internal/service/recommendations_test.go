package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diabetes-risk-server/internal/domain"
)

func highRiskMeasurement() *domain.PatientMeasurement {
	return &domain.PatientMeasurement{
		BMI:         domain.Float(33),
		Glucose:     domain.Float(150),
		HbA1c:       domain.Float(7.0),
		SystolicBP:  domain.Float(145),
		DiastolicBP: domain.Float(92),
	}
}

func TestSynthesizeRecommendationsCap(t *testing.T) {
	m := highRiskMeasurement()
	m.Insulin = domain.Float(40)
	m.Age = domain.Float(50)
	flags := &domain.ContextFlags{
		ExerciseFrequency:  "none",
		SmokingStatus:      "current",
		AlcoholConsumption: "heavy",
		FamilyHistoryFlag:  true,
		DiabetesStatus:     domain.StatusType2,
	}

	recommendations := SynthesizeRecommendations(m, 100, flags)
	assert.LessOrEqual(t, len(recommendations), 8)
	assert.NotEmpty(t, recommendations)
}

func TestSynthesizeRecommendationsHighRiskPrevention(t *testing.T) {
	flags := &domain.ContextFlags{
		ExerciseFrequency: "none",
		SmokingStatus:     "current",
		FamilyHistoryFlag: true,
		DiabetesStatus:    domain.StatusNone,
	}

	recommendations := SynthesizeRecommendations(highRiskMeasurement(), 100, flags)

	require.NotEmpty(t, recommendations)
	assert.Equal(t, "Your risk score indicates very high risk. Please consult with your healthcare provider immediately for a comprehensive diabetes prevention and management plan.", recommendations[0])

	// At least one of the top three entries references glucose or HbA1c.
	topThree := strings.Join(recommendations[:3], " ")
	assert.True(t, strings.Contains(topThree, "glucose") || strings.Contains(topThree, "HbA1c"))

	// Blood pressure was the fourth critical issue and is dropped by the
	// critical cap.
	for _, r := range recommendations {
		assert.NotContains(t, r, "hypertension")
	}
}

func TestSynthesizeRecommendationsManagementMode(t *testing.T) {
	flags := &domain.ContextFlags{
		ExerciseFrequency: "none",
		SmokingStatus:     "current",
		FamilyHistoryFlag: true,
		DiabetesStatus:    domain.StatusType2,
	}

	recommendations := SynthesizeRecommendations(highRiskMeasurement(), 100, flags)
	joined := strings.Join(recommendations, " ")

	require.NotEmpty(t, recommendations)
	assert.Equal(t, "Your assessment shows very high risk factors. Work closely with your healthcare team to optimize your diabetes management plan, including medication adjustments and lifestyle modifications.", recommendations[0])

	// Management framing replaces prevention screening language.
	assert.Contains(t, joined, "target of <7%")
	assert.Contains(t, joined, "medication")
	assert.NotContains(t, joined, "indicates prediabetes")
	assert.LessOrEqual(t, len(recommendations), 8)
}

func TestSynthesizeRecommendationsManagementReminders(t *testing.T) {
	// A controlled profile leaves room for the fixed reminders.
	m := &domain.PatientMeasurement{
		Glucose: domain.Float(110),
		HbA1c:   domain.Float(7.2),
	}
	flags := &domain.ContextFlags{DiabetesStatus: domain.StatusType2, FamilyHistoryFlag: true}

	recommendations := SynthesizeRecommendations(m, 10, flags)
	joined := strings.Join(recommendations, " ")

	assert.Equal(t, "Your assessment shows good control. Continue your current management plan and maintain regular follow-ups with your healthcare team.", recommendations[0])
	assert.Contains(t, joined, "Aim for HbA1c <7%")
	assert.Contains(t, joined, "keep a log")
	assert.Contains(t, joined, "never skip doses")
	assert.Contains(t, joined, "HbA1c every 3-6 months")
}

func TestSynthesizeRecommendationsLowRiskPreventionHasNoSummary(t *testing.T) {
	m := healthyMeasurement()
	flags := healthyFlags()

	recommendations := SynthesizeRecommendations(m, 5, flags)

	// Below the lowest band, prevention mode inserts no summary line;
	// favorable factors surface as positive reinforcement instead.
	require.NotEmpty(t, recommendations)
	assert.NotContains(t, recommendations[0], "risk score")
	joined := strings.Join(recommendations, " ")
	assert.Contains(t, joined, "healthy range")
}

func TestSynthesizeRecommendationsPositiveFactorCap(t *testing.T) {
	// Healthy profile at low risk records many positive factors: BMI,
	// glucose, HbA1c, blood pressure, insulin, exercise, smoking,
	// alcohol, family history. Only two may surface.
	m := healthyMeasurement()
	m.Insulin = domain.Float(10)
	flags := healthyFlags()

	recommendations := SynthesizeRecommendations(m, 5, flags)

	positives := 0
	for _, r := range recommendations {
		if strings.Contains(r, "healthy range") || strings.Contains(r, "excellent") ||
			strings.Contains(r, "Keep it up") || strings.Contains(r, "smoke-free") {
			positives++
		}
	}
	assert.LessOrEqual(t, positives, 2)
}

func TestSynthesizeRecommendationsLifestyleDirectives(t *testing.T) {
	tests := []struct {
		name     string
		flags    *domain.ContextFlags
		score    float64
		expected string
	}{
		{
			name:     "Sedentary patient gets activity directive",
			flags:    &domain.ContextFlags{ExerciseFrequency: "none", FamilyHistoryFlag: true},
			score:    40,
			expected: "Increase physical activity",
		},
		{
			name:     "Active patient at elevated risk keeps directive framing",
			flags:    &domain.ContextFlags{ExerciseFrequency: "moderate", FamilyHistoryFlag: true},
			score:    40,
			expected: "Continue your exercise routine",
		},
		{
			name:     "Former smoker gets reinforcement",
			flags:    &domain.ContextFlags{SmokingStatus: "former", FamilyHistoryFlag: true},
			score:    40,
			expected: "Great job quitting smoking",
		},
		{
			name:     "Heavy drinker gets reduction directive",
			flags:    &domain.ContextFlags{AlcoholConsumption: "heavy", FamilyHistoryFlag: true},
			score:    40,
			expected: "Reduce alcohol consumption",
		},
		{
			name:     "Family history always gets screening reminder",
			flags:    &domain.ContextFlags{FamilyHistoryFlag: true},
			score:    5,
			expected: "Given your family history of diabetes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recommendations := SynthesizeRecommendations(&domain.PatientMeasurement{}, tt.score, tt.flags)
			joined := strings.Join(recommendations, " ")
			assert.Contains(t, joined, tt.expected)
		})
	}
}

func TestSynthesizeRecommendationsAgeBands(t *testing.T) {
	flags := &domain.ContextFlags{FamilyHistoryFlag: true}

	older := SynthesizeRecommendations(&domain.PatientMeasurement{Age: domain.Float(52)}, 40, flags)
	assert.Contains(t, strings.Join(older, " "), "At age 52, your diabetes risk increases.")

	middle := SynthesizeRecommendations(&domain.PatientMeasurement{Age: domain.Float(38)}, 40, flags)
	assert.Contains(t, strings.Join(middle, " "), "As you approach middle age")

	young := SynthesizeRecommendations(&domain.PatientMeasurement{Age: domain.Float(28)}, 40, flags)
	joined := strings.Join(young, " ")
	assert.NotContains(t, joined, "At age")
	assert.NotContains(t, joined, "middle age")
}
