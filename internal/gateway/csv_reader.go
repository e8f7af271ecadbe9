package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"financeguard/internal/domain"
)

// TimestampLayout is the day-first format used by the transaction feeds.
const TimestampLayout = "02/01/2006 15:04"

// requiredColumns is the feed schema, in canonical header order.
var requiredColumns = []string{
	"transaction_id",
	"mall_name",
	"branch_name",
	"transaction_date",
	"tax_amount",
	"transaction_amount",
	"transaction_type",
	"transaction_status",
}

// CSVTransactionRepository implements the TransactionRepository interface for
// CSV transaction feeds.
type CSVTransactionRepository struct{}

// NewCSVTransactionRepository creates a new repository instance.
func NewCSVTransactionRepository() *CSVTransactionRepository {
	return &CSVTransactionRepository{}
}

// GetTransactions reads and parses a transaction feed. Columns are resolved
// by header name, so column order does not matter. Derived columns are
// filled before returning, making the table ready for every engine.
func (r *CSVTransactionRepository) GetTransactions(ctx context.Context, path string) ([]domain.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: column %q: %w", path, name, domain.ErrMissingColumn)
		}
	}

	var transactions []domain.Transaction
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}
		row++

		tx, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func parseRecord(record []string, cols map[string]int) (domain.Transaction, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[cols[name]])
	}

	timestamp, err := time.Parse(TimestampLayout, field("transaction_date"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: invalid transaction_date %q", domain.ErrBadRecord, field("transaction_date"))
	}

	tax, err := decimal.NewFromString(field("tax_amount"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: invalid tax_amount %q", domain.ErrBadRecord, field("tax_amount"))
	}

	amount, err := decimal.NewFromString(field("transaction_amount"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: invalid transaction_amount %q", domain.ErrBadRecord, field("transaction_amount"))
	}
	if amount.IsNegative() {
		return domain.Transaction{}, fmt.Errorf("%w: negative transaction_amount %q", domain.ErrBadRecord, field("transaction_amount"))
	}

	txType := domain.TransactionType(field("transaction_type"))
	if txType != domain.TypeSale && txType != domain.TypeRefund {
		return domain.Transaction{}, fmt.Errorf("%w: unknown transaction_type %q", domain.ErrBadRecord, field("transaction_type"))
	}

	status := domain.TransactionStatus(field("transaction_status"))
	if status != domain.StatusCompleted && status != domain.StatusFailed {
		return domain.Transaction{}, fmt.Errorf("%w: unknown transaction_status %q", domain.ErrBadRecord, field("transaction_status"))
	}

	tx := domain.Transaction{
		ID:        field("transaction_id"),
		Mall:      field("mall_name"),
		Branch:    field("branch_name"),
		Timestamp: timestamp,
		Tax:       tax,
		Amount:    amount,
		Type:      txType,
		Status:    status,
	}
	tx.Derive()
	return tx, nil
}
