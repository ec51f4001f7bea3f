package service

import (
	"fmt"

	"github.com/diabetes-risk-server/internal/domain"
)

// recommendation assembly caps. Because the final list is truncated,
// evaluation and insertion order directly determines which guidance a
// user sees: critical clinical issues dominate, the risk-band summary
// anchors the top, and management reminders outrank positive
// reinforcement.
const (
	maxRecommendations  = 8
	maxCriticalIssues   = 3
	maxPositiveFactors  = 2
	lowRiskPositiveBand = 30
)

// bucket tags the disposition of a single rule evaluation.
type bucket int

const (
	bucketNone bucket = iota
	bucketCritical
	bucketGeneral
	bucketPositive
)

// ruleOutcome is the tagged result of one metric or lifestyle rule.
// Each rule classifies into exactly one bucket, never more.
type ruleOutcome struct {
	Bucket  bucket
	Metric  string
	Message string
}

// synthesizer accumulates rule outcomes in the three priority buckets
// before the final merge-and-truncate step.
type synthesizer struct {
	recommendations []string
	criticalIssues  []ruleOutcome
	positiveFactors []ruleOutcome
}

func (s *synthesizer) record(outcome ruleOutcome) {
	switch outcome.Bucket {
	case bucketCritical:
		s.criticalIssues = append(s.criticalIssues, outcome)
	case bucketGeneral:
		s.recommendations = append(s.recommendations, outcome.Message)
	case bucketPositive:
		s.positiveFactors = append(s.positiveFactors, outcome)
	}
}

// SynthesizeRecommendations evaluates the per-metric, lifestyle,
// demographic and risk-band rules and merges them into an ordered,
// capped recommendation list. riskScore is the contextually adjusted
// score, which gates positive-factor framing and selects the risk-band
// summary. Metric rules for glucose and HbA1c branch on the patient
// mode: diagnosed patients get management-framed thresholds and
// messages, everyone else gets prevention framing.
func SynthesizeRecommendations(m *domain.PatientMeasurement, riskScore float64, flags *domain.ContextFlags) []string {
	mode := flags.Mode()
	s := &synthesizer{}

	// Metric rules in fixed evaluation order. General-bucket lines land
	// in the list immediately; criticals and positives are merged below.
	s.record(evaluateBMIRule(m))
	s.record(evaluateGlucoseRule(m, mode))
	s.record(evaluateHbA1cRule(m, mode))
	s.record(evaluateBloodPressureRule(m))
	s.record(evaluateInsulinRule(m))

	for i, issue := range s.criticalIssues {
		if i >= maxCriticalIssues {
			break
		}
		s.recommendations = append(s.recommendations, issue.Message)
	}

	s.applyLifestyleRules(flags, riskScore)
	s.applyFamilyHistoryRule(flags, riskScore)
	s.applyAgeRule(m)

	for i, factor := range s.positiveFactors {
		if i >= maxPositiveFactors {
			break
		}
		if len(s.recommendations) < maxRecommendations {
			s.recommendations = append(s.recommendations, factor.Message)
		}
	}

	s.applyRiskBandSummary(riskScore, mode)
	if mode == domain.ModeManagement {
		s.applyManagementReminders(m)
	}

	if len(s.recommendations) > maxRecommendations {
		s.recommendations = s.recommendations[:maxRecommendations]
	}
	return s.recommendations
}

func evaluateBMIRule(m *domain.PatientMeasurement) ruleOutcome {
	if !hasReading(m.BMI) {
		return ruleOutcome{}
	}
	bmi := *m.BMI
	switch {
	case bmi < 18.5:
		return ruleOutcome{bucketCritical, "BMI", fmt.Sprintf("Your BMI of %.1f is below the healthy range. Consult with your healthcare provider about maintaining a healthy weight.", bmi)}
	case bmi > 30:
		return ruleOutcome{bucketCritical, "BMI", fmt.Sprintf("Your BMI of %.1f indicates obesity, which significantly increases diabetes risk. Consider a structured weight management program with your doctor.", bmi)}
	case bmi > 24.9:
		return ruleOutcome{bucketGeneral, "BMI", fmt.Sprintf("Your BMI of %.1f is above the healthy range. Aim to lose 5-10%% of your current weight through diet and exercise to reduce diabetes risk.", bmi)}
	default:
		return ruleOutcome{bucketPositive, "BMI", fmt.Sprintf("Your BMI of %.1f is in the healthy range. Maintain this through balanced nutrition and regular activity.", bmi)}
	}
}

func evaluateGlucoseRule(m *domain.PatientMeasurement, mode domain.PatientMode) ruleOutcome {
	if !hasReading(m.Glucose) {
		return ruleOutcome{}
	}
	glucose := *m.Glucose

	if mode == domain.ModeManagement {
		switch {
		case glucose >= 180:
			return ruleOutcome{bucketCritical, "Glucose", fmt.Sprintf("Your glucose of %.0f mg/dL is very high. Check your medication, diet, and activity. Contact your doctor if this persists.", glucose)}
		case glucose >= 140:
			return ruleOutcome{bucketCritical, "Glucose", fmt.Sprintf("Your glucose of %.0f mg/dL is elevated. Review your meal plan, medication timing, and consider increasing physical activity.", glucose)}
		case glucose < 70:
			return ruleOutcome{bucketCritical, "Glucose", fmt.Sprintf("Your glucose of %.0f mg/dL is low (hypoglycemia). Treat immediately with 15g of fast-acting carbs. Review medication dosages with your doctor.", glucose)}
		case glucose <= 130:
			return ruleOutcome{bucketPositive, "Glucose", fmt.Sprintf("Your glucose of %.0f mg/dL is in the target range. Excellent control! Continue your current management plan.", glucose)}
		default:
			return ruleOutcome{bucketGeneral, "Glucose", fmt.Sprintf("Your glucose of %.0f mg/dL is slightly above target. Small adjustments to diet or activity may help.", glucose)}
		}
	}

	switch {
	case glucose >= 126:
		return ruleOutcome{bucketCritical, "Glucose", fmt.Sprintf("Your fasting glucose of %.0f mg/dL is in the diabetes range. Schedule immediate medical consultation and follow-up testing.", glucose)}
	case glucose >= 100:
		return ruleOutcome{bucketCritical, "Glucose", fmt.Sprintf("Your fasting glucose of %.0f mg/dL indicates prediabetes. Focus on reducing sugar intake, increasing physical activity, and regular monitoring.", glucose)}
	case glucose < 70:
		return ruleOutcome{bucketGeneral, "Glucose", fmt.Sprintf("Your glucose of %.0f mg/dL is low. Ensure regular meals and consult your doctor if you experience symptoms of hypoglycemia.", glucose)}
	default:
		return ruleOutcome{bucketPositive, "Glucose", fmt.Sprintf("Your fasting glucose of %.0f mg/dL is excellent. Continue maintaining healthy eating habits.", glucose)}
	}
}

func evaluateHbA1cRule(m *domain.PatientMeasurement, mode domain.PatientMode) ruleOutcome {
	if !hasReading(m.HbA1c) {
		return ruleOutcome{}
	}
	hba1c := *m.HbA1c

	if mode == domain.ModeManagement {
		// Management target is <7% for most patients.
		switch {
		case hba1c >= 9.0:
			return ruleOutcome{bucketCritical, "HbA1c", fmt.Sprintf("Your HbA1c of %.1f%% is very high and indicates poor control. Urgent review of medication, diet, and lifestyle is needed. Contact your healthcare team immediately.", hba1c)}
		case hba1c >= 8.0:
			return ruleOutcome{bucketCritical, "HbA1c", fmt.Sprintf("Your HbA1c of %.1f%% is above target. Work with your doctor to adjust your management plan—this may include medication changes, dietary modifications, or increased activity.", hba1c)}
		case hba1c >= 7.0:
			return ruleOutcome{bucketGeneral, "HbA1c", fmt.Sprintf("Your HbA1c of %.1f%% is slightly above the target of <7%%. Small improvements in diet and exercise can help reach your goal.", hba1c)}
		default:
			return ruleOutcome{bucketPositive, "HbA1c", fmt.Sprintf("Your HbA1c of %.1f%% is at target! Excellent diabetes control. Continue your current management plan.", hba1c)}
		}
	}

	switch {
	case hba1c >= 6.5:
		return ruleOutcome{bucketCritical, "HbA1c", fmt.Sprintf("Your HbA1c of %.1f%% indicates diabetes. Work with your healthcare team to develop a comprehensive management plan.", hba1c)}
	case hba1c >= 5.7:
		return ruleOutcome{bucketCritical, "HbA1c", fmt.Sprintf("Your HbA1c of %.1f%% is in the prediabetes range. Implement lifestyle changes now to prevent progression to diabetes.", hba1c)}
	default:
		return ruleOutcome{bucketPositive, "HbA1c", fmt.Sprintf("Your HbA1c of %.1f%% shows good glucose control. Keep up your healthy habits.", hba1c)}
	}
}

func evaluateBloodPressureRule(m *domain.PatientMeasurement) ruleOutcome {
	if !hasReading(m.SystolicBP) || !hasReading(m.DiastolicBP) {
		return ruleOutcome{}
	}
	systolic, diastolic := *m.SystolicBP, *m.DiastolicBP
	switch {
	case systolic >= 140 || diastolic >= 90:
		return ruleOutcome{bucketCritical, "Blood Pressure", fmt.Sprintf("Your blood pressure of %.0f/%.0f mmHg indicates hypertension. This increases diabetes risk—consult your doctor for management.", systolic, diastolic)}
	case systolic >= 130 || diastolic >= 80:
		return ruleOutcome{bucketGeneral, "Blood Pressure", fmt.Sprintf("Your blood pressure of %.0f/%.0f mmHg is elevated. Reduce sodium intake, increase physical activity, and monitor regularly.", systolic, diastolic)}
	default:
		return ruleOutcome{bucketPositive, "Blood Pressure", fmt.Sprintf("Your blood pressure of %.0f/%.0f mmHg is optimal. Maintain this through healthy lifestyle choices.", systolic, diastolic)}
	}
}

func evaluateInsulinRule(m *domain.PatientMeasurement) ruleOutcome {
	if !hasReading(m.Insulin) {
		return ruleOutcome{}
	}
	insulin := *m.Insulin
	switch {
	case insulin > 25:
		return ruleOutcome{bucketGeneral, "Insulin", fmt.Sprintf("Your insulin level of %.1f µU/mL is elevated, suggesting possible insulin resistance. Focus on weight management and regular exercise.", insulin)}
	case insulin < 2:
		return ruleOutcome{bucketGeneral, "Insulin", fmt.Sprintf("Your insulin level of %.1f µU/mL is low. Discuss with your doctor to ensure proper metabolic function.", insulin)}
	default:
		return ruleOutcome{bucketPositive, "Insulin", fmt.Sprintf("Your insulin level of %.1f µU/mL is within normal range.", insulin)}
	}
}

// applyLifestyleRules contributes at most one line per lifestyle factor.
// When the adjusted score is low, favorable factors become positive
// reinforcement instead of directives.
func (s *synthesizer) applyLifestyleRules(flags *domain.ContextFlags, riskScore float64) {
	switch flags.ExerciseFrequency {
	case "none", "light":
		s.recommendations = append(s.recommendations, "Increase physical activity: Aim for at least 150 minutes of moderate-intensity exercise per week (e.g., brisk walking, cycling) to improve insulin sensitivity and reduce diabetes risk.")
	case "moderate", "active", "very_active", "athlete":
		if riskScore < lowRiskPositiveBand {
			s.record(ruleOutcome{bucketPositive, "Exercise", "Your regular exercise routine is helping maintain your health. Keep it up!"})
		} else {
			s.recommendations = append(s.recommendations, "Continue your exercise routine—it's an important part of diabetes prevention. Consider adding strength training 2-3 times per week.")
		}
	}

	switch flags.SmokingStatus {
	case "current", "heavy":
		s.recommendations = append(s.recommendations, "Quit smoking: Smoking significantly increases diabetes and cardiovascular risk. Seek support from smoking cessation programs or your healthcare provider.")
	case "former":
		s.recommendations = append(s.recommendations, "Great job quitting smoking! Continue avoiding tobacco to maintain your reduced risk.")
	case "never":
		if riskScore < lowRiskPositiveBand {
			s.record(ruleOutcome{bucketPositive, "Smoking", "Staying smoke-free is protecting your health."})
		}
	}

	switch flags.AlcoholConsumption {
	case "heavy":
		s.recommendations = append(s.recommendations, "Reduce alcohol consumption: Heavy drinking can affect blood sugar control and weight management. Limit to moderate amounts (1-2 drinks per day for men, 1 for women).")
	case "none", "light", "occasional":
		if riskScore < lowRiskPositiveBand {
			s.record(ruleOutcome{bucketPositive, "Alcohol", "Your alcohol consumption is within healthy limits."})
		}
	}
}

func (s *synthesizer) applyFamilyHistoryRule(flags *domain.ContextFlags, riskScore float64) {
	if flags.FamilyHistoryFlag {
		s.recommendations = append(s.recommendations, "Given your family history of diabetes, maintain regular health screenings and focus on preventive lifestyle measures even when your numbers look good.")
	} else if riskScore < lowRiskPositiveBand {
		s.record(ruleOutcome{bucketPositive, "Family History", "No family history of diabetes is a positive factor."})
	}
}

func (s *synthesizer) applyAgeRule(m *domain.PatientMeasurement) {
	age := domain.Value(m.Age)
	if age >= 45 {
		s.recommendations = append(s.recommendations, fmt.Sprintf("At age %.0f, your diabetes risk increases. Ensure annual health screenings and maintain healthy lifestyle habits.", age))
	} else if age >= 35 {
		s.recommendations = append(s.recommendations, "As you approach middle age, focus on maintaining healthy weight, regular exercise, and balanced nutrition to prevent diabetes.")
	}
}

// applyRiskBandSummary prepends exactly one summary line chosen by the
// adjusted score band. Message sets differ entirely between management
// and prevention framing; the low band for diagnosed patients always
// inserts a maintenance message, while for at-risk patients it inserts
// nothing.
func (s *synthesizer) applyRiskBandSummary(riskScore float64, mode domain.PatientMode) {
	var summary string
	if mode == domain.ModeManagement {
		switch {
		case riskScore >= 75:
			summary = "Your assessment shows very high risk factors. Work closely with your healthcare team to optimize your diabetes management plan, including medication adjustments and lifestyle modifications."
		case riskScore >= 50:
			summary = "Your assessment indicates elevated risk factors. Focus on improving glucose control through medication adherence, dietary modifications, and regular monitoring."
		case riskScore >= 25:
			summary = "Your assessment shows moderate risk factors. Continue monitoring and maintain good diabetes control through medication, diet, and exercise."
		default:
			summary = "Your assessment shows good control. Continue your current management plan and maintain regular follow-ups with your healthcare team."
		}
	} else {
		switch {
		case riskScore >= 75:
			summary = "Your risk score indicates very high risk. Please consult with your healthcare provider immediately for a comprehensive diabetes prevention and management plan."
		case riskScore >= 50:
			summary = "Your risk score indicates elevated risk. Take immediate action: focus on weight management, regular exercise, and blood sugar monitoring."
		case riskScore >= 25:
			summary = "Your risk score shows moderate risk. Implement lifestyle changes now to prevent progression: maintain healthy weight, exercise regularly, and eat a balanced diet."
		default:
			return
		}
	}
	s.recommendations = append([]string{summary}, s.recommendations...)
}

// applyManagementReminders appends the fixed reminders every diagnosed
// patient receives, plus an HbA1c-target reminder when the reading is at
// or above 7%.
func (s *synthesizer) applyManagementReminders(m *domain.PatientMeasurement) {
	if hasReading(m.HbA1c) && *m.HbA1c >= 7.0 {
		s.recommendations = append(s.recommendations, "Aim for HbA1c <7% to reduce complication risk. Work with your doctor to adjust your treatment plan if needed.")
	}
	s.recommendations = append(s.recommendations,
		"Monitor your blood glucose regularly and keep a log to share with your healthcare team.",
		"Take medications as prescribed and never skip doses without consulting your doctor.",
		"Schedule regular check-ups: HbA1c every 3-6 months, eye exams annually, and kidney function tests as recommended.",
	)
}
