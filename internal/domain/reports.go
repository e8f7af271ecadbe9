package domain

import "github.com/shopspring/decimal"

// Summary provides the headline figures for one loaded transaction table.
type Summary struct {
	TotalTransactions   int             `json:"total_transactions"`
	FailedTransactions  int             `json:"failed_transactions"`
	SuccessTransactions int             `json:"success_transactions"`
	FailureRate         float64         `json:"failure_rate"` // Percent, two decimals
	SuccessRate         float64         `json:"success_rate"` // Percent, two decimals
	TotalAmount         decimal.Decimal `json:"total_amount"`
	FailedAmount        decimal.Decimal `json:"failed_amount"`
	SuccessAmount       decimal.Decimal `json:"success_amount"`
	TotalTax            decimal.Decimal `json:"total_tax"`
	AvgTransaction      decimal.Decimal `json:"avg_transaction"`
	UniqueBranches      int             `json:"unique_branches"`
	UniqueMalls         int             `json:"unique_malls"`
}

// MetricRow is one grouped failure-rate observation. The grouping key is a
// branch name, an hour of day ("0".."23") or a weekday name.
type MetricRow struct {
	Key         string  `json:"key"`
	Count       int     `json:"count"`
	FailedCount int     `json:"failed_count"`
	Rate        float64 `json:"rate"` // Fraction, 0 when Count is 0
}

// BranchRow is one row of the per-branch analytics table.
type BranchRow struct {
	Branch           string          `json:"branch_name"`
	TransactionCount int             `json:"transaction_count"`
	FailedCount      int             `json:"failed_count"`
	SuccessCount     int             `json:"success_count"`
	FailureRate      float64         `json:"failure_rate"` // Percent, two decimals
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	AvgTransaction   decimal.Decimal `json:"avg_transaction"`
}

// TimeBucket is one hour-of-day or day-of-week slot of the failure pattern
// tables. Slots without data carry zero counts and a zero rate.
type TimeBucket struct {
	Label       string  `json:"label"`
	Count       int     `json:"count"`
	FailedCount int     `json:"failed_count"`
	RatePct     float64 `json:"failure_rate_pct"` // Percent, two decimals
}

// TimePatterns aggregates failure behavior over hours of day and days of week.
type TimePatterns struct {
	Hourly          []TimeBucket `json:"hourly"` // 24 slots, hour 0 through 23
	Daily           []TimeBucket `json:"daily"`  // 7 slots, Sunday through Saturday
	PeakFailureHour int          `json:"peak_failure_hour"`
	PeakFailureDay  string       `json:"peak_failure_day"`
}

// AnalysisReport is the top-level structure for the final JSON output.
type AnalysisReport struct {
	GeneratedAt     string                       `json:"generated_at"`
	Summary         Summary                      `json:"summary"`
	BranchAnalytics []BranchRow                  `json:"branch_analytics"`
	TimePatterns    TimePatterns                 `json:"time_patterns"`
	Anomalies       []Anomaly                    `json:"anomalies"`
	RoutingStatus   map[string]BranchRouteStatus `json:"routing_status"`
	Leaderboard     []LeaderboardEntry           `json:"leaderboard"`
	Forecast        []float64                    `json:"failure_forecast"`
}
