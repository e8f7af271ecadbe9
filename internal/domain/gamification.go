package domain

// BranchScore is the weighted gamification score for one branch. Sub-scores
// are 0 to 100; TotalPoints is the weighted blend scaled by ten.
type BranchScore struct {
	Branch           string  `json:"branch_name"`
	PerformanceScore float64 `json:"performance_score"`
	VolumeScore      float64 `json:"volume_score"`
	RevenueScore     float64 `json:"revenue_score"`
	TotalPoints      float64 `json:"total_points"`
}

// LeaderboardEntry is one ranked row of the branch leaderboard.
type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	Display          string  `json:"display"` // Medal emoji for the top three, "#N" below
	Branch           string  `json:"branch_name"`
	PerformanceScore float64 `json:"performance_score"`
	VolumeScore      float64 `json:"volume_score"`
	RevenueScore     float64 `json:"revenue_score"`
	TotalPoints      float64 `json:"total_points"`
	FailureRate      float64 `json:"failure_rate"` // Fraction
}

// Achievement is one badge earned by a branch.
type Achievement struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// BranchStanding is the drill-down gamification view for a single branch.
type BranchStanding struct {
	Branch           string  `json:"branch_name"`
	Level            int     `json:"level"`        // TotalPoints / 500, plus one
	TotalPoints      int     `json:"total_points"` // Truncated to whole points
	StreakDays       int     `json:"streak_days"`
	FailureRate      float64 `json:"failure_rate"` // Fraction
	PerformanceScore float64 `json:"performance_score"`
	AchievementCount int     `json:"achievement_count"`
}
