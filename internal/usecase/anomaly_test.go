package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"financeguard/internal/domain"
	"financeguard/internal/usecase"
)

func TestAnomalyDetector_FailureSpike(t *testing.T) {
	asOf := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	old := asOf.AddDate(0, 0, -30)
	recent := asOf.Add(-2 * time.Hour)

	// 5% failures a month ago, 50% in the last week.
	table := repeatTx(nil, 80, 4, "Branch North", old, 100)
	table = repeatTx(table, 20, 10, "Branch North", recent, 100)

	got := usecase.NewAnomalyDetector(table, nil).Detect(asOf)

	assert.Len(t, got, 1)
	assert.Equal(t, domain.AnomalyFailureSpike, got[0].Kind)
	assert.Equal(t, domain.SeverityHigh, got[0].Severity)
	assert.InDelta(t, 50.0, got[0].RecentRate, 0.001)
	assert.InDelta(t, 14.0, got[0].OverallRate, 0.001)
	assert.Equal(t, "Recent failure rate (50.00%) is 257.1% higher than average (14.00%)", got[0].Message)
}

func TestAnomalyDetector_SpikeWindowEdges(t *testing.T) {
	asOf := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	cutoff := asOf.Add(-7 * 24 * time.Hour)

	base := repeatTx(nil, 8, 0, "Branch North", asOf.AddDate(0, 0, -10), 100)
	base = append(base, makeTx("Branch North", asOf, 100, false))

	t.Run("failure exactly at the cutoff counts as recent", func(t *testing.T) {
		table := append(append([]domain.Transaction{}, base...), makeTx("Branch North", cutoff, 100, true))

		got := usecase.NewAnomalyDetector(table, nil).Detect(asOf)

		assert.Len(t, got, 1)
		assert.Equal(t, domain.AnomalyFailureSpike, got[0].Kind)
		assert.InDelta(t, 50.0, got[0].RecentRate, 0.001)
	})

	t.Run("failure just before the cutoff is not recent", func(t *testing.T) {
		table := append(append([]domain.Transaction{}, base...), makeTx("Branch North", cutoff.Add(-time.Second), 100, true))

		got := usecase.NewAnomalyDetector(table, nil).Detect(asOf)

		assert.Empty(t, got)
	})
}

func TestAnomalyDetector_BranchFailures(t *testing.T) {
	asOf := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	old := asOf.AddDate(0, 0, -60)

	t.Run("exactly twenty percent does not trigger", func(t *testing.T) {
		table := repeatTx(nil, 100, 20, "Branch North", old, 100)

		got := usecase.NewAnomalyDetector(table, nil).Detect(asOf)

		assert.Empty(t, got)
	})

	t.Run("branches above twenty percent are listed sorted by name", func(t *testing.T) {
		table := repeatTx(nil, 100, 20, "Branch North", old, 100)
		table = repeatTx(table, 10, 4, "Branch South", old, 100)
		table = repeatTx(table, 10, 5, "Branch East", old, 100)

		got := usecase.NewAnomalyDetector(table, nil).Detect(asOf)

		assert.Len(t, got, 1)
		assert.Equal(t, domain.AnomalyBranchFailure, got[0].Kind)
		assert.Equal(t, domain.SeverityHigh, got[0].Severity)
		assert.Equal(t, "Branches with critically high failure rates (>20%): Branch East, Branch South", got[0].Message)
		assert.InDelta(t, 50.0, got[0].BranchRates["Branch East"], 0.001)
		assert.InDelta(t, 40.0, got[0].BranchRates["Branch South"], 0.001)
		assert.NotContains(t, got[0].BranchRates, "Branch North")
	})
}

func TestAnomalyDetector_HourlyPattern(t *testing.T) {
	asOf := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// Nine clean hours plus one hour failing half its transactions.
	var table []domain.Transaction
	for h := 8; h <= 16; h++ {
		table = repeatTx(table, 10, 0, "Branch North", day.Add(time.Duration(h)*time.Hour), 100)
	}
	table = repeatTx(table, 10, 5, "Branch North", day.Add(17*time.Hour), 100)

	got := usecase.NewAnomalyDetector(table, nil).Detect(asOf)

	assert.Len(t, got, 1)
	assert.Equal(t, domain.AnomalyHourlyPattern, got[0].Kind)
	assert.Equal(t, domain.SeverityMedium, got[0].Severity)
	assert.Equal(t, []int{17}, got[0].Hours)
	assert.Equal(t, "Unusually high failure rates at hours: 17:00", got[0].Message)
}

func TestAnomalyDetector_UniformHoursStayQuiet(t *testing.T) {
	asOf := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	var table []domain.Transaction
	for h := 9; h <= 12; h++ {
		table = repeatTx(table, 10, 1, "Branch North", day.Add(time.Duration(h)*time.Hour), 100)
	}

	got := usecase.NewAnomalyDetector(table, nil).Detect(asOf)

	assert.Empty(t, got)
}

func TestAnomalyDetector_EmptyTable(t *testing.T) {
	got := usecase.NewAnomalyDetector(nil, nil).Detect(time.Now())

	assert.Empty(t, got)
}
