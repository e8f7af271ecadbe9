package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"financeguard/internal/domain"
	"financeguard/internal/usecase"
)

func TestMetricsEngine_Summarize(t *testing.T) {
	table := []domain.Transaction{
		makeTx("Branch North", testBase, 100, false),
		makeTx("Branch North", testBase.Add(time.Hour), 200, true),
		makeTx("Branch South", testBase.Add(2*time.Hour), 300, false),
		makeTx("Branch South", testBase.Add(3*time.Hour), 400, false),
	}
	table[2].Mall = "Mall B"
	table[3].Mall = "Mall B"

	got := usecase.NewMetricsEngine(table).Summarize()

	assert.Equal(t, 4, got.TotalTransactions)
	assert.Equal(t, 1, got.FailedTransactions)
	assert.Equal(t, 3, got.SuccessTransactions)
	assert.InDelta(t, 25.0, got.FailureRate, 0.001)
	assert.InDelta(t, 75.0, got.SuccessRate, 0.001)
	assert.Equal(t, "1000.00", got.TotalAmount.StringFixed(2))
	assert.Equal(t, "200.00", got.FailedAmount.StringFixed(2))
	assert.Equal(t, "800.00", got.SuccessAmount.StringFixed(2))
	assert.Equal(t, "160.00", got.TotalTax.StringFixed(2))
	assert.Equal(t, "250.00", got.AvgTransaction.StringFixed(2))
	assert.Equal(t, 2, got.UniqueBranches)
	assert.Equal(t, 2, got.UniqueMalls)
}

func TestMetricsEngine_SummarizeEmptyTable(t *testing.T) {
	got := usecase.NewMetricsEngine(nil).Summarize()

	assert.Zero(t, got.TotalTransactions)
	assert.Zero(t, got.FailureRate)
	assert.Zero(t, got.SuccessRate)
	assert.Equal(t, "0.00", got.TotalAmount.StringFixed(2))
	assert.Equal(t, "0.00", got.AvgTransaction.StringFixed(2))
}

func TestMetricsEngine_RatesAddUp(t *testing.T) {
	table := repeatTx(nil, 7, 3, "Branch North", testBase, 50)

	got := usecase.NewMetricsEngine(table).Summarize()

	assert.Equal(t, got.TotalTransactions, got.FailedTransactions+got.SuccessTransactions)
	assert.InDelta(t, 100.0, got.FailureRate+got.SuccessRate, 0.011)
}

func TestMetricsEngine_HourlyRows(t *testing.T) {
	table := []domain.Transaction{
		makeTx("Branch North", testBase, 100, true),
		makeTx("Branch North", testBase, 100, false),
		makeTx("Branch North", testBase.Add(3*time.Hour), 100, false),
	}

	rows := usecase.NewMetricsEngine(table).HourlyRows()

	assert.Len(t, rows, 24)
	assert.Equal(t, "10", rows[10].Key)
	assert.Equal(t, 2, rows[10].Count)
	assert.Equal(t, 1, rows[10].FailedCount)
	assert.InDelta(t, 0.5, rows[10].Rate, 0.001)
	assert.Equal(t, 1, rows[13].Count)
	assert.Zero(t, rows[13].FailedCount)
	// Hours without data still get a row.
	assert.Zero(t, rows[0].Count)
}

func TestMetricsEngine_WeekdayRows(t *testing.T) {
	table := []domain.Transaction{
		makeTx("Branch North", testBase, 100, true),
		makeTx("Branch North", testBase.AddDate(0, 0, 1), 100, false),
	}

	rows := usecase.NewMetricsEngine(table).WeekdayRows()

	assert.Len(t, rows, 7)
	assert.Equal(t, "Sunday", rows[0].Key)
	assert.Equal(t, "Monday", rows[1].Key)
	assert.Equal(t, 1, rows[1].Count)
	assert.Equal(t, 1, rows[1].FailedCount)
	assert.Equal(t, 1, rows[2].Count)
	assert.Zero(t, rows[2].FailedCount)
}

func TestMetricsEngine_BranchAnalytics(t *testing.T) {
	table := []domain.Transaction{
		makeTx("Branch North", testBase, 100, false),
		makeTx("Branch North", testBase, 200, true),
		makeTx("Branch South", testBase, 300, false),
		makeTx("Branch South", testBase, 400, false),
	}

	rows := usecase.NewMetricsEngine(table).BranchAnalytics()

	assert.Len(t, rows, 2)
	// Worst failure rate first.
	assert.Equal(t, "Branch North", rows[0].Branch)
	assert.InDelta(t, 50.0, rows[0].FailureRate, 0.001)
	assert.Equal(t, 2, rows[0].TransactionCount)
	assert.Equal(t, 1, rows[0].FailedCount)
	assert.Equal(t, 1, rows[0].SuccessCount)
	assert.Equal(t, "300.00", rows[0].TotalAmount.StringFixed(2))
	assert.Equal(t, "48.00", rows[0].TotalTax.StringFixed(2))
	assert.Equal(t, "150.00", rows[0].AvgTransaction.StringFixed(2))
	assert.Equal(t, "Branch South", rows[1].Branch)
	assert.Zero(t, rows[1].FailureRate)
}

func TestMetricsEngine_BranchAnalyticsTieOrder(t *testing.T) {
	table := []domain.Transaction{
		makeTx("Branch West", testBase, 100, true),
		makeTx("Branch East", testBase, 100, true),
	}

	rows := usecase.NewMetricsEngine(table).BranchAnalytics()

	assert.Equal(t, "Branch East", rows[0].Branch)
	assert.Equal(t, "Branch West", rows[1].Branch)
}

func TestMetricsEngine_TimePatterns(t *testing.T) {
	table := []domain.Transaction{
		makeTx("Branch North", testBase, 100, false),
		makeTx("Branch North", testBase.Add(3*time.Hour), 100, true),
		makeTx("Branch North", testBase.AddDate(0, 0, 1).Add(3*time.Hour), 100, true),
	}

	got := usecase.NewMetricsEngine(table).TimePatterns()

	assert.Len(t, got.Hourly, 24)
	assert.Len(t, got.Daily, 7)
	assert.Equal(t, 13, got.PeakFailureHour)
	// Monday and Tuesday tie on failures, the earlier weekday wins.
	assert.Equal(t, "Monday", got.PeakFailureDay)
	assert.Equal(t, "13:00", got.Hourly[13].Label)
	assert.Equal(t, 2, got.Hourly[13].FailedCount)
	assert.InDelta(t, 100.0, got.Hourly[13].RatePct, 0.001)
	assert.Equal(t, "Tuesday", got.Daily[2].Label)
	assert.Equal(t, 1, got.Daily[2].FailedCount)
}

func TestMetricsEngine_TimePatternsNoFailures(t *testing.T) {
	table := repeatTx(nil, 5, 0, "Branch North", testBase, 100)

	got := usecase.NewMetricsEngine(table).TimePatterns()

	assert.Zero(t, got.PeakFailureHour)
	assert.Equal(t, "None", got.PeakFailureDay)
}

// Benchmark tests

func BenchmarkSummarize(b *testing.B) {
	table := repeatTx(nil, 1000, 150, "Branch North", testBase, 250)
	engine := usecase.NewMetricsEngine(table)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Summarize()
	}
}
