package domain

// RiskLevel buckets a composite risk score for display and routing decisions.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// RiskScore is the weighted risk assessment for one prospective transaction.
type RiskScore struct {
	Score           float64   `json:"risk_score"`
	Level           RiskLevel `json:"risk_level"`
	TimeRisk        float64   `json:"time_risk"`
	BranchRisk      float64   `json:"branch_risk"`
	AmountRisk      float64   `json:"amount_risk"`
	VelocityRisk    float64   `json:"velocity_risk"`
	PatternRisk     float64   `json:"pattern_risk"`
	Recommendations []string  `json:"recommendations"`
}
