package domain

// Gateway names used by routing decisions.
const (
	GatewayPrimary   = "Primary Gateway"
	GatewaySecondary = "Secondary Gateway"
	GatewayDefault   = "Default Gateway"
)

// RetryStrategy selects how aggressively a gateway retries failed attempts.
type RetryStrategy string

const (
	RetryStandard   RetryStrategy = "standard"
	RetryAggressive RetryStrategy = "aggressive"
)

// MonitoringLevel selects how closely a routed transaction is watched.
type MonitoringLevel string

const (
	MonitoringNormal   MonitoringLevel = "normal"
	MonitoringEnhanced MonitoringLevel = "enhanced"
)

// RouteDecision tells the payment layer where and how to send one transaction.
type RouteDecision struct {
	Gateway    string          `json:"gateway"`
	Retry      RetryStrategy   `json:"retry_strategy"`
	TimeoutSec int             `json:"timeout"`
	Monitoring MonitoringLevel `json:"monitoring"`
}

// RouteStatusLevel classifies a branch's current routing posture.
type RouteStatusLevel string

const (
	RouteNormal  RouteStatusLevel = "Normal"
	RouteMonitor RouteStatusLevel = "Monitor Closely"
	RouteReroute RouteStatusLevel = "Reroute Required"
)

// BranchRouteStatus is the advisory routing classification for one branch.
type BranchRouteStatus struct {
	Status          RouteStatusLevel `json:"status"`
	Recommendation  string           `json:"recommendation"`
	FailureRate     float64          `json:"failure_rate"` // Fraction as supplied by the caller
	CurrentGateway  string           `json:"current_gateway"`
	FallbackGateway string           `json:"fallback_gateway"`
	OptimalHours    []int            `json:"optimal_hours"`
	RiskHours       []int            `json:"risk_hours"`
}

// HourProfile is the learned per-branch view of good and bad processing hours.
// Hours without observations appear in neither list.
type HourProfile struct {
	Branch        string          `json:"branch_name"`
	OptimalHours  []int           `json:"optimal_hours"`  // Success rate above 95 percent
	RiskHours     []int           `json:"risk_hours"`     // Success rate below 85 percent
	HourlySuccess map[int]float64 `json:"hourly_success"` // Percent per observed hour
}
