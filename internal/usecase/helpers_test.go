package usecase_test

import (
	"time"

	"github.com/shopspring/decimal"

	"financeguard/internal/domain"
)

// Shared builders for the engine tests.

// testBase is a Monday at 10:00 UTC.
var testBase = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func makeTx(branch string, ts time.Time, amount float64, failed bool) domain.Transaction {
	status := domain.StatusCompleted
	if failed {
		status = domain.StatusFailed
	}
	amt := decimal.NewFromFloat(amount)
	tx := domain.Transaction{
		ID:        "TXN_000001",
		Mall:      "Mall A",
		Branch:    branch,
		Timestamp: ts,
		Tax:       amt.Mul(decimal.NewFromFloat(0.16)).Round(2),
		Amount:    amt,
		Type:      domain.TypeSale,
		Status:    status,
	}
	tx.Derive()
	return tx
}

// repeatTx appends n equally shaped transactions, the first failures of
// them failed.
func repeatTx(table []domain.Transaction, n, failures int, branch string, ts time.Time, amount float64) []domain.Transaction {
	for i := 0; i < n; i++ {
		table = append(table, makeTx(branch, ts, amount, i < failures))
	}
	return table
}
