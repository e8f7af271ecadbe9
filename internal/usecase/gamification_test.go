package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"financeguard/internal/domain"
	"financeguard/internal/usecase"
)

func newLeaderboardTable() []domain.Transaction {
	var table []domain.Transaction
	table = repeatTx(table, 10, 0, "Branch North", testBase, 100)
	table = repeatTx(table, 20, 10, "Branch South", testBase, 100)
	table = repeatTx(table, 10, 5, "Branch East", testBase, 50)
	table = repeatTx(table, 4, 4, "Branch West", testBase, 10)
	return table
}

func TestGamificationScorer_Leaderboard(t *testing.T) {
	entries := usecase.NewGamificationScorer(newLeaderboardTable()).Leaderboard()

	assert.Len(t, entries, 4)

	// North and South tie on 750 points, the tie breaks on branch name.
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "🥇", entries[0].Display)
	assert.Equal(t, "Branch North", entries[0].Branch)
	assert.InDelta(t, 750.0, entries[0].TotalPoints, 0.001)
	assert.InDelta(t, 100.0, entries[0].PerformanceScore, 0.001)
	assert.Zero(t, entries[0].FailureRate)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "🥈", entries[1].Display)
	assert.Equal(t, "Branch South", entries[1].Branch)
	assert.InDelta(t, 750.0, entries[1].TotalPoints, 0.001)

	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, "🥉", entries[2].Display)
	assert.Equal(t, "Branch East", entries[2].Branch)
	assert.InDelta(t, 450.0, entries[2].TotalPoints, 0.001)

	assert.Equal(t, 4, entries[3].Rank)
	assert.Equal(t, "#4", entries[3].Display)
	assert.Equal(t, "Branch West", entries[3].Branch)
	assert.InDelta(t, 64.0, entries[3].TotalPoints, 0.001)
}

func TestGamificationScorer_Achievements(t *testing.T) {
	scorer := usecase.NewGamificationScorer(newLeaderboardTable())

	north, err := scorer.Achievements("Branch North")
	assert.NoError(t, err)
	assert.Equal(t, []domain.Achievement{
		{Name: "Zero Defect Hero", Icon: "🏆", Points: 500, Description: "Maintained failure rate below 5%"},
		{Name: "Reliability Champion", Icon: "🥇", Points: 300, Description: "Maintained failure rate below 10%"},
	}, north)

	south, err := scorer.Achievements("Branch South")
	assert.NoError(t, err)
	assert.Equal(t, []domain.Achievement{
		{Name: "High Volume Master", Icon: "🚀", Points: 400, Description: "Processed transactions in top 10%"},
		{Name: "Revenue Leader", Icon: "💰", Points: 400, Description: "Generated revenue in top 10%"},
	}, south)

	_, err = scorer.Achievements("Branch Ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownBranch)
}

func TestGamificationScorer_Standing(t *testing.T) {
	scorer := usecase.NewGamificationScorer(newLeaderboardTable())

	got, err := scorer.Standing("Branch North")

	assert.NoError(t, err)
	assert.Equal(t, "Branch North", got.Branch)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 750, got.TotalPoints)
	// A clean recent history earns the longest streak.
	assert.Equal(t, 7, got.StreakDays)
	assert.Equal(t, 2, got.AchievementCount)
	assert.Zero(t, got.FailureRate)
	assert.InDelta(t, 100.0, got.PerformanceScore, 0.001)
}

func TestGamificationScorer_StandingTruncatesPoints(t *testing.T) {
	table := repeatTx(nil, 7, 3, "Branch North", testBase, 100)

	got, err := usecase.NewGamificationScorer(table).Standing("Branch North")

	assert.NoError(t, err)
	assert.Equal(t, 785, got.TotalPoints)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 1, got.StreakDays)
}

func TestGamificationScorer_StreakBands(t *testing.T) {
	table := repeatTx(nil, 100, 7, "Branch North", testBase, 100)

	got, err := usecase.NewGamificationScorer(table).Standing("Branch North")

	assert.NoError(t, err)
	assert.Equal(t, 3, got.StreakDays)
}

func TestGamificationScorer_EmptyTable(t *testing.T) {
	scorer := usecase.NewGamificationScorer(nil)

	assert.Empty(t, scorer.Leaderboard())

	_, err := scorer.Standing("Branch North")
	assert.ErrorIs(t, err, domain.ErrUnknownBranch)
}
