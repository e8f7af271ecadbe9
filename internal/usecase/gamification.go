package usecase

import (
	"fmt"
	"sort"

	"financeguard/internal/domain"
)

// Achievement cutoffs. The rate bands double as the streak bands over a
// branch's recent transactions.
const (
	zeroDefectRate  = 0.05
	reliabilityRate = 0.10
	topDecile       = 0.9
)

// Sub-score weights of the composite points blend.
const (
	weightPerformance = 0.5
	weightVolume      = 0.3
	weightRevenue     = 0.2
	pointsScale       = 10
)

const (
	levelPointsStep = 500
	streakWindow    = 100
	hotStreakDays   = 7
	warmStreakDays  = 3
	baseStreakDays  = 1
)

// GamificationScorer turns branch reliability into points, ranks and badges.
type GamificationScorer struct {
	scores  map[string]domain.BranchScore
	stats   map[string]*branchStats
	counts  []float64 // per-branch transaction counts, for decile cutoffs
	amounts []float64 // per-branch total amounts, for decile cutoffs
}

type branchStats struct {
	failureRate float64
	count       int
	amount      float64
	recentRate  float64 // failure rate over the trailing streakWindow rows
}

// NewGamificationScorer computes scores for every branch in the table.
func NewGamificationScorer(table []domain.Transaction) *GamificationScorer {
	type acc struct {
		count  int
		failed int
		amount float64
		rows   []domain.Transaction
	}
	byBranch := make(map[string]*acc)
	for _, tx := range table {
		a, ok := byBranch[tx.Branch]
		if !ok {
			a = &acc{}
			byBranch[tx.Branch] = a
		}
		a.count++
		if tx.Failed {
			a.failed++
		}
		a.amount += tx.Amount.InexactFloat64()
		a.rows = append(a.rows, tx)
	}

	var maxCount, maxAmount float64
	for _, a := range byBranch {
		if float64(a.count) > maxCount {
			maxCount = float64(a.count)
		}
		if a.amount > maxAmount {
			maxAmount = a.amount
		}
	}

	g := &GamificationScorer{
		scores: make(map[string]domain.BranchScore, len(byBranch)),
		stats:  make(map[string]*branchStats, len(byBranch)),
	}
	for branch, a := range byBranch {
		failureRate := ratio(a.failed, a.count)
		performance := (1 - failureRate) * 100
		var volume, revenue float64
		if maxCount > 0 {
			volume = float64(a.count) / maxCount * 100
		}
		if maxAmount > 0 {
			revenue = a.amount / maxAmount * 100
		}
		points := (performance*weightPerformance + volume*weightVolume + revenue*weightRevenue) * pointsScale

		g.scores[branch] = domain.BranchScore{
			Branch:           branch,
			PerformanceScore: performance,
			VolumeScore:      volume,
			RevenueScore:     revenue,
			TotalPoints:      points,
		}
		g.stats[branch] = &branchStats{
			failureRate: failureRate,
			count:       a.count,
			amount:      a.amount,
			recentRate:  recentFailureRate(a.rows),
		}
		g.counts = append(g.counts, float64(a.count))
		g.amounts = append(g.amounts, a.amount)
	}
	return g
}

// recentFailureRate is the failure rate over the branch's last hundred
// transactions in chronological order.
func recentFailureRate(rows []domain.Transaction) float64 {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Timestamp.Before(rows[j].Timestamp) })
	if len(rows) > streakWindow {
		rows = rows[len(rows)-streakWindow:]
	}
	var failed int
	for _, tx := range rows {
		if tx.Failed {
			failed++
		}
	}
	return ratio(failed, len(rows))
}

// Leaderboard ranks every branch by total points, best first. Ties order by
// branch name; ranks run 1..N with no gaps.
func (g *GamificationScorer) Leaderboard() []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(g.scores))
	for branch, score := range g.scores {
		entries = append(entries, domain.LeaderboardEntry{
			Branch:           branch,
			PerformanceScore: score.PerformanceScore,
			VolumeScore:      score.VolumeScore,
			RevenueScore:     score.RevenueScore,
			TotalPoints:      score.TotalPoints,
			FailureRate:      g.stats[branch].failureRate,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].Branch < entries[j].Branch
	})
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Display = rankDisplay(i + 1)
	}
	return entries
}

func rankDisplay(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", rank)
	}
}

// Achievements returns every badge the branch has earned. Multiple badges
// may stack; the decile cutoffs compare against all branches.
func (g *GamificationScorer) Achievements(branch string) ([]domain.Achievement, error) {
	st, ok := g.stats[branch]
	if !ok {
		return nil, fmt.Errorf("achievements for %q: %w", branch, domain.ErrUnknownBranch)
	}

	achievements := make([]domain.Achievement, 0, 4)
	if st.failureRate < zeroDefectRate {
		achievements = append(achievements, domain.Achievement{
			Name:        "Zero Defect Hero",
			Icon:        "🏆",
			Points:      500,
			Description: "Maintained failure rate below 5%",
		})
	}
	if st.failureRate < reliabilityRate {
		achievements = append(achievements, domain.Achievement{
			Name:        "Reliability Champion",
			Icon:        "🥇",
			Points:      300,
			Description: "Maintained failure rate below 10%",
		})
	}
	if float64(st.count) > quantile(g.counts, topDecile) {
		achievements = append(achievements, domain.Achievement{
			Name:        "High Volume Master",
			Icon:        "🚀",
			Points:      400,
			Description: "Processed transactions in top 10%",
		})
	}
	if st.amount > quantile(g.amounts, topDecile) {
		achievements = append(achievements, domain.Achievement{
			Name:        "Revenue Leader",
			Icon:        "💰",
			Points:      400,
			Description: "Generated revenue in top 10%",
		})
	}
	return achievements, nil
}

// Standing returns the drill-down view for one branch. The achievement count
// reflects the badges actually earned.
func (g *GamificationScorer) Standing(branch string) (domain.BranchStanding, error) {
	st, ok := g.stats[branch]
	if !ok {
		return domain.BranchStanding{}, fmt.Errorf("standing for %q: %w", branch, domain.ErrUnknownBranch)
	}
	score := g.scores[branch]
	achievements, _ := g.Achievements(branch)

	streak := baseStreakDays
	switch {
	case st.recentRate < zeroDefectRate:
		streak = hotStreakDays
	case st.recentRate < reliabilityRate:
		streak = warmStreakDays
	}

	return domain.BranchStanding{
		Branch:           branch,
		Level:            int(score.TotalPoints/levelPointsStep) + 1,
		TotalPoints:      int(score.TotalPoints),
		StreakDays:       streak,
		FailureRate:      st.failureRate,
		PerformanceScore: score.PerformanceScore,
		AchievementCount: len(achievements),
	}, nil
}
