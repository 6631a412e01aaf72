package insights

import "time"

// AIInsight is a generated observation about a user's health data.
type AIInsight struct {
	ID             string    `json:"id"`
	Category       string    `json:"category"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Severity       string    `json:"severity"`
	Recommendation string    `json:"recommendation,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// PredictiveInsight is a forward-looking risk estimate.
type PredictiveInsight struct {
	ID             string  `json:"id"`
	Condition      string  `json:"condition"`
	RiskLevel      string  `json:"risk_level"`
	Probability    float64 `json:"probability"`
	HorizonMonths  int     `json:"horizon_months"`
	Recommendation string  `json:"recommendation"`
}
