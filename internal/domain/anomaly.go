package domain

// AnomalyKind tags which detection rule produced a finding.
type AnomalyKind string

const (
	AnomalyFailureSpike  AnomalyKind = "failure_spike"
	AnomalyBranchFailure AnomalyKind = "branch_failure"
	AnomalyHourlyPattern AnomalyKind = "hourly_anomaly"
)

// Severity ranks how urgent a finding is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Anomaly is a single detector finding. Fields that do not apply to the rule
// that produced it hold their zero values.
type Anomaly struct {
	Kind     AnomalyKind `json:"type"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`

	RecentRate  float64            `json:"recent_rate"`  // failure_spike: last-week rate, percent
	OverallRate float64            `json:"overall_rate"` // failure_spike: whole-table rate, percent
	BranchRates map[string]float64 `json:"branch_rates"` // branch_failure: percent per offender
	Hours       []int              `json:"hours"`        // hourly_anomaly: offending hours, ascending
}
