package usecase_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"financeguard/internal/domain"
	"financeguard/internal/usecase"
)

func TestRiskScorer_Score(t *testing.T) {
	// Ten transactions at hour 10 on one branch, two failed, all for 100.00.
	table := repeatTx(nil, 10, 2, "Branch North", testBase, 100)

	got := usecase.NewRiskScorer(table, nil).Score(10, "Branch North", decimal.NewFromInt(100))

	assert.InDelta(t, 0.2, got.TimeRisk, 0.001)
	assert.InDelta(t, 0.2, got.BranchRisk, 0.001)
	assert.InDelta(t, 0.2, got.AmountRisk, 0.001)
	assert.InDelta(t, 0.5, got.VelocityRisk, 0.001)
	assert.InDelta(t, 0.5, got.PatternRisk, 0.001)
	assert.InDelta(t, 0.275, got.Score, 0.001)
	assert.Equal(t, domain.RiskLow, got.Level)
	assert.Equal(t, []string{"Transaction can proceed with standard monitoring"}, got.Recommendations)
}

func TestRiskScorer_UnseenInputsScoreNeutral(t *testing.T) {
	table := repeatTx(nil, 10, 2, "Branch North", testBase, 100)

	got := usecase.NewRiskScorer(table, nil).Score(23, "Branch Ghost", decimal.NewFromInt(100))

	assert.InDelta(t, 0.5, got.TimeRisk, 0.001)
	assert.InDelta(t, 0.5, got.BranchRisk, 0.001)
	assert.InDelta(t, 0.44, got.Score, 0.001)
	assert.Equal(t, domain.RiskMedium, got.Level)
}

func TestRiskScorer_AmountLadder(t *testing.T) {
	table := repeatTx(nil, 10, 2, "Branch North", testBase, 100)
	scorer := usecase.NewRiskScorer(table, nil)

	tests := []struct {
		name   string
		amount float64
		want   float64
	}{
		{"above one thousand", 2000, 0.7},
		{"above five hundred", 600, 0.5},
		{"small amount outside buckets", 50, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(10, "Branch North", decimal.NewFromFloat(tt.amount))

			assert.InDelta(t, tt.want, got.AmountRisk, 0.001)
		})
	}
}

func TestRiskScorer_AmountBuckets(t *testing.T) {
	// Amounts 100 through 1000, only the three largest fail.
	var table []domain.Transaction
	for i := 1; i <= 10; i++ {
		table = append(table, makeTx("Branch North", testBase, float64(i*100), i >= 8))
	}

	scorer := usecase.NewRiskScorer(table, nil)

	assert.InDelta(t, 0.0, scorer.Score(10, "Branch North", decimal.NewFromInt(100)).AmountRisk, 0.001)
	assert.InDelta(t, 1.0, scorer.Score(10, "Branch North", decimal.NewFromInt(1000)).AmountRisk, 0.001)
}

func TestRiskScorer_HighRiskRecommendations(t *testing.T) {
	table := repeatTx(nil, 10, 9, "Branch Bad", testBase, 100)

	got := usecase.NewRiskScorer(table, nil).Score(10, "Branch Bad", decimal.NewFromInt(100))

	assert.InDelta(t, 0.8, got.Score, 0.001)
	assert.Equal(t, domain.RiskHigh, got.Level)
	assert.Equal(t, []string{
		"Consider delaying transaction to a lower-risk time",
		"Route transaction through alternative gateway",
		"Split large transaction into smaller chunks",
	}, got.Recommendations)
}

func TestRiskScorer_EmptyTable(t *testing.T) {
	got := usecase.NewRiskScorer(nil, nil).Score(10, "Branch North", decimal.NewFromInt(2000))

	assert.InDelta(t, 0.5, got.TimeRisk, 0.001)
	assert.InDelta(t, 0.5, got.BranchRisk, 0.001)
	assert.InDelta(t, 0.7, got.AmountRisk, 0.001)
}

func TestRiskScorer_ForecastFailures(t *testing.T) {
	// Five days at a steady 20% daily failure rate.
	var table []domain.Transaction
	for d := 0; d < 5; d++ {
		table = repeatTx(table, 5, 1, "Branch North", testBase.AddDate(0, 0, d), 100)
	}

	scorer := usecase.NewRiskScorer(table, nil)
	got := scorer.ForecastFailures(7)

	assert.Len(t, got, 7)
	for i, prediction := range got {
		want := (0.2 + math.Sin(float64(i)/7*2*math.Pi)*0.05) * 100
		assert.InDelta(t, want, prediction, 0.001)
	}

	assert.Len(t, scorer.ForecastFailures(14), 14)
}
