package domain

// Signature is the behavioral fingerprint of one branch: when it fails, when
// it trades, and what its transactions look like.
type Signature struct {
	ID         string      `json:"signature_id"`
	Branch     string      `json:"branch_name"`
	Hourly     [24]float64 `json:"hourly_pattern"` // Failure-rate fraction per hour of day
	Daily      [7]float64  `json:"daily_pattern"`  // Failure-rate fraction per weekday, Sunday first
	AmountHist [10]int     `json:"amount_distribution"`
	Velocity   float64     `json:"failure_velocity"` // Failures per hour, 0 under two failures
}

// Pattern is a query fingerprint submitted for similarity matching.
type Pattern struct {
	Hourly     [24]float64 `json:"hourly_pattern"`
	Daily      [7]float64  `json:"daily_pattern"`
	AmountHist [10]int     `json:"amount_distribution"`
}

// PatternMatch pairs a known branch signature with its similarity to a query.
type PatternMatch struct {
	Branch      string  `json:"branch_name"`
	Similarity  float64 `json:"similarity"`
	SignatureID string  `json:"signature_id"`
}
