package usecase

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"financeguard/internal/domain"
)

// MetricsEngine computes the aggregate views of one transaction table. Every
// method is a full pass over the table and is side-effect free, so repeated
// calls on the same table return identical results.
type MetricsEngine struct {
	table []domain.Transaction
}

// NewMetricsEngine creates a new engine over the given table.
func NewMetricsEngine(table []domain.Transaction) *MetricsEngine {
	return &MetricsEngine{table: table}
}

// Summarize returns the headline figures. An empty table yields the zero
// Summary rather than an error.
func (e *MetricsEngine) Summarize() domain.Summary {
	s := domain.Summary{
		TotalAmount:    decimal.Zero,
		FailedAmount:   decimal.Zero,
		SuccessAmount:  decimal.Zero,
		TotalTax:       decimal.Zero,
		AvgTransaction: decimal.Zero,
	}
	s.TotalTransactions = len(e.table)
	if s.TotalTransactions == 0 {
		return s
	}

	branches := make(map[string]struct{})
	malls := make(map[string]struct{})
	for _, tx := range e.table {
		s.TotalAmount = s.TotalAmount.Add(tx.Amount)
		s.TotalTax = s.TotalTax.Add(tx.Tax)
		if tx.Failed {
			s.FailedTransactions++
			s.FailedAmount = s.FailedAmount.Add(tx.Amount)
		} else {
			s.SuccessAmount = s.SuccessAmount.Add(tx.Amount)
		}
		branches[tx.Branch] = struct{}{}
		malls[tx.Mall] = struct{}{}
	}

	s.SuccessTransactions = s.TotalTransactions - s.FailedTransactions
	s.FailureRate = roundTo(float64(s.FailedTransactions)/float64(s.TotalTransactions)*100, 2)
	s.SuccessRate = roundTo(float64(s.SuccessTransactions)/float64(s.TotalTransactions)*100, 2)
	s.AvgTransaction = s.TotalAmount.Div(decimal.NewFromInt(int64(s.TotalTransactions))).Round(2)
	s.TotalAmount = s.TotalAmount.Round(2)
	s.FailedAmount = s.FailedAmount.Round(2)
	s.SuccessAmount = s.SuccessAmount.Round(2)
	s.TotalTax = s.TotalTax.Round(2)
	s.UniqueBranches = len(branches)
	s.UniqueMalls = len(malls)
	return s
}

// HourlyRows returns exactly 24 rows, one per hour of day. Hours without
// transactions carry zero counts and a zero rate.
func (e *MetricsEngine) HourlyRows() []domain.MetricRow {
	var counts, failed [24]int
	for _, tx := range e.table {
		counts[tx.Hour]++
		if tx.Failed {
			failed[tx.Hour]++
		}
	}

	rows := make([]domain.MetricRow, 24)
	for h := 0; h < 24; h++ {
		rows[h] = domain.MetricRow{
			Key:         strconv.Itoa(h),
			Count:       counts[h],
			FailedCount: failed[h],
			Rate:        ratio(failed[h], counts[h]),
		}
	}
	return rows
}

// WeekdayRows returns exactly 7 rows, Sunday through Saturday.
func (e *MetricsEngine) WeekdayRows() []domain.MetricRow {
	var counts, failed [7]int
	for _, tx := range e.table {
		counts[tx.Weekday]++
		if tx.Failed {
			failed[tx.Weekday]++
		}
	}

	rows := make([]domain.MetricRow, 7)
	for d := 0; d < 7; d++ {
		rows[d] = domain.MetricRow{
			Key:         time.Weekday(d).String(),
			Count:       counts[d],
			FailedCount: failed[d],
			Rate:        ratio(failed[d], counts[d]),
		}
	}
	return rows
}

// BranchRows returns one row per branch seen in the table, sorted by branch
// name for deterministic output.
func (e *MetricsEngine) BranchRows() []domain.MetricRow {
	counts := make(map[string]int)
	failed := make(map[string]int)
	for _, tx := range e.table {
		counts[tx.Branch]++
		if tx.Failed {
			failed[tx.Branch]++
		}
	}

	rows := make([]domain.MetricRow, 0, len(counts))
	for branch, count := range counts {
		rows = append(rows, domain.MetricRow{
			Key:         branch,
			Count:       count,
			FailedCount: failed[branch],
			Rate:        ratio(failed[branch], count),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// BranchAnalytics returns the per-branch table sorted by failure rate,
// worst first. Branches with equal rates order by name.
func (e *MetricsEngine) BranchAnalytics() []domain.BranchRow {
	type acc struct {
		count  int
		failed int
		amount decimal.Decimal
		tax    decimal.Decimal
	}
	byBranch := make(map[string]*acc)
	for _, tx := range e.table {
		a, ok := byBranch[tx.Branch]
		if !ok {
			a = &acc{amount: decimal.Zero, tax: decimal.Zero}
			byBranch[tx.Branch] = a
		}
		a.count++
		if tx.Failed {
			a.failed++
		}
		a.amount = a.amount.Add(tx.Amount)
		a.tax = a.tax.Add(tx.Tax)
	}

	rows := make([]domain.BranchRow, 0, len(byBranch))
	for branch, a := range byBranch {
		rows = append(rows, domain.BranchRow{
			Branch:           branch,
			TransactionCount: a.count,
			FailedCount:      a.failed,
			SuccessCount:     a.count - a.failed,
			FailureRate:      roundTo(ratio(a.failed, a.count)*100, 2),
			TotalAmount:      a.amount.Round(2),
			TotalTax:         a.tax.Round(2),
			AvgTransaction:   a.amount.Div(decimal.NewFromInt(int64(a.count))).Round(2),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FailureRate != rows[j].FailureRate {
			return rows[i].FailureRate > rows[j].FailureRate
		}
		return rows[i].Branch < rows[j].Branch
	})
	return rows
}

// TimePatterns aggregates failure behavior over hours of day and days of
// week, including the peak failure slots. Peaks are the most common hour and
// weekday among failed transactions; ties resolve to the earliest slot.
func (e *MetricsEngine) TimePatterns() domain.TimePatterns {
	var hourCounts, hourFailed [24]int
	var dayCounts, dayFailed [7]int
	for _, tx := range e.table {
		hourCounts[tx.Hour]++
		dayCounts[tx.Weekday]++
		if tx.Failed {
			hourFailed[tx.Hour]++
			dayFailed[tx.Weekday]++
		}
	}

	patterns := domain.TimePatterns{
		Hourly:         make([]domain.TimeBucket, 24),
		Daily:          make([]domain.TimeBucket, 7),
		PeakFailureDay: "None",
	}
	for h := 0; h < 24; h++ {
		patterns.Hourly[h] = domain.TimeBucket{
			Label:       strconv.Itoa(h) + ":00",
			Count:       hourCounts[h],
			FailedCount: hourFailed[h],
			RatePct:     roundTo(ratio(hourFailed[h], hourCounts[h])*100, 2),
		}
	}
	for d := 0; d < 7; d++ {
		patterns.Daily[d] = domain.TimeBucket{
			Label:       time.Weekday(d).String(),
			Count:       dayCounts[d],
			FailedCount: dayFailed[d],
			RatePct:     roundTo(ratio(dayFailed[d], dayCounts[d])*100, 2),
		}
	}

	peakHour, peakHourCount := 0, 0
	for h := 0; h < 24; h++ {
		if hourFailed[h] > peakHourCount {
			peakHour, peakHourCount = h, hourFailed[h]
		}
	}
	peakDay, peakDayCount := 0, 0
	for d := 0; d < 7; d++ {
		if dayFailed[d] > peakDayCount {
			peakDay, peakDayCount = d, dayFailed[d]
		}
	}
	if peakHourCount > 0 {
		patterns.PeakFailureHour = peakHour
	}
	if peakDayCount > 0 {
		patterns.PeakFailureDay = time.Weekday(peakDay).String()
	}
	return patterns
}
