package insights

import "time"

var insightsGenerated = time.Date(2025, 5, 28, 6, 0, 0, 0, time.UTC)

// Insights is the developer-mode insight set.
var Insights = []AIInsight{
	{
		ID: "ins-bp-trend", Category: "vitals", Severity: "warning",
		Title:          "Blood pressure trending up",
		Summary:        "Average systolic pressure rose 8 mmHg over the last 30 days",
		Recommendation: "Reduce sodium intake and recheck in two weeks",
		GeneratedAt:    insightsGenerated,
	},
	{
		ID: "ins-hba1c-stable", Category: "labs", Severity: "info",
		Title:       "HbA1c stable",
		Summary:     "Your last three HbA1c readings are within 0.2% of each other",
		GeneratedAt: insightsGenerated,
	},
	{
		ID: "ins-med-adherence", Category: "medications", Severity: "warning",
		Title:          "Missed evening doses",
		Summary:        "4 of the last 14 evening doses were logged as missed",
		Recommendation: "Set an evening reminder",
		GeneratedAt:    insightsGenerated,
	},
	{
		ID: "ins-activity", Category: "lifestyle", Severity: "info",
		Title:       "Activity improving",
		Summary:     "Weekly step count is up 12% month over month",
		GeneratedAt: insightsGenerated,
	},
}

// Predictions is the developer-mode predictive set.
var Predictions = []PredictiveInsight{
	{
		ID: "pred-hypertension", Condition: "Hypertension", RiskLevel: "moderate",
		Probability: 0.34, HorizonMonths: 12,
		Recommendation: "Monitor blood pressure weekly and review with your physician",
	},
	{
		ID: "pred-t2d", Condition: "Type 2 Diabetes", RiskLevel: "low",
		Probability: 0.11, HorizonMonths: 24,
		Recommendation: "Maintain current diet and activity levels",
	},
	{
		ID: "pred-vitd", Condition: "Vitamin D Deficiency", RiskLevel: "high",
		Probability: 0.62, HorizonMonths: 6,
		Recommendation: "Consider supplementation after a serum 25(OH)D test",
	},
}
