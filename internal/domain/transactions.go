package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines the nature of the transaction (Sale or Refund).
type TransactionType string

const (
	TypeSale   TransactionType = "Sale"
	TypeRefund TransactionType = "Refund"
)

// TransactionStatus is the terminal processing state reported by the feed.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "Completed"
	StatusFailed    TransactionStatus = "Failed"
)

// Transaction represents a single point-of-sale event from a mall branch feed.
type Transaction struct {
	ID        string            `json:"transaction_id"`
	Mall      string            `json:"mall_name"`
	Branch    string            `json:"branch_name"`
	Timestamp time.Time         `json:"transaction_date"`
	Tax       decimal.Decimal   `json:"tax_amount"`
	Amount    decimal.Decimal   `json:"transaction_amount"` // Never negative
	Type      TransactionType   `json:"transaction_type"`
	Status    TransactionStatus `json:"transaction_status"`

	// Derived fields, filled once at load time
	Hour    int          `json:"-"`
	Weekday time.Weekday `json:"-"`
	Date    time.Time    `json:"-"`
	Week    int          `json:"-"`
	Month   time.Month   `json:"-"`
	Failed  bool         `json:"-"`
	Weekend bool         `json:"-"`
}

// Derive computes the per-row analysis columns from Timestamp and Status.
// Loaders call it once after parsing; nothing mutates the row afterwards.
func (t *Transaction) Derive() {
	t.Hour = t.Timestamp.Hour()
	t.Weekday = t.Timestamp.Weekday()
	t.Date = time.Date(t.Timestamp.Year(), t.Timestamp.Month(), t.Timestamp.Day(), 0, 0, 0, 0, time.UTC)
	_, t.Week = t.Timestamp.ISOWeek()
	t.Month = t.Timestamp.Month()
	t.Failed = t.Status == StatusFailed
	t.Weekend = t.Weekday == time.Saturday || t.Weekday == time.Sunday
}
