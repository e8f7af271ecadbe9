package gateway

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"financeguard/internal/domain"
)

// Sample feed shape.
var (
	sampleMalls    = []string{"Mall A", "Mall B", "Mall C", "Mall D", "Mall E"}
	sampleBranches = []string{"Branch North", "Branch South", "Branch East", "Branch West", "Branch Central"}
	peakHours      = map[int]bool{12: true, 13: true, 17: true, 18: true, 19: true}
)

const (
	refundShare       = 0.05
	baseFailureShare  = 0.15
	peakFailureShare  = 0.25
	mallCFailureShare = 0.30
	sampleWindowDays  = 30
	amountLogMean     = 3.5
	amountLogSigma    = 1.2
	amountFloor       = 10.0
	amountCeil        = 5000.0
	taxRate           = 0.16
)

// SampleStats summarizes a generated feed.
type SampleStats struct {
	Records        int
	FailureRatePct float64
	UniqueMalls    int
	UniqueBranches int
}

// SampleWriter produces demo transaction feeds in the schema the loader
// expects. Amounts follow a clipped log-normal; failures cluster in the
// lunch and evening peaks and at Mall C, so the detectors have something to
// find.
type SampleWriter struct {
	rng *rand.Rand
}

// NewSampleWriter seeds the generator. Equal seeds produce equal feeds.
func NewSampleWriter(seed int64) *SampleWriter {
	return &SampleWriter{rng: rand.New(rand.NewSource(seed))}
}

type sampleRow struct {
	id        string
	mall      string
	branch    string
	timestamp time.Time
	tax       decimal.Decimal
	amount    decimal.Decimal
	txType    domain.TransactionType
	status    domain.TransactionStatus
}

// Generate writes records rows covering the thirty days up to end, sorted by
// timestamp, and returns headline stats about the feed.
func (w *SampleWriter) Generate(path string, records int, end time.Time) (SampleStats, error) {
	start := end.Add(-sampleWindowDays * 24 * time.Hour)
	windowSeconds := int64(end.Sub(start) / time.Second)

	rows := make([]sampleRow, 0, records)
	var peakIdx, mallCIdx []int
	for i := 0; i < records; i++ {
		// Minute precision: the feed format carries no seconds.
		ts := start.Add(time.Duration(w.rng.Int63n(windowSeconds+1)) * time.Second).Truncate(time.Minute)

		txType := domain.TypeSale
		if w.rng.Float64() < refundShare {
			txType = domain.TypeRefund
		}
		status := domain.StatusCompleted
		if w.rng.Float64() < baseFailureShare {
			status = domain.StatusFailed
		}

		base := math.Exp(amountLogMean + amountLogSigma*w.rng.NormFloat64())
		amount := decimal.NewFromFloat(math.Max(amountFloor, math.Min(base, amountCeil))).Round(2)

		r := sampleRow{
			id:        fmt.Sprintf("TXN_%06d", i+1),
			mall:      sampleMalls[w.rng.Intn(len(sampleMalls))],
			branch:    sampleBranches[w.rng.Intn(len(sampleBranches))],
			timestamp: ts,
			tax:       amount.Mul(decimal.NewFromFloat(taxRate)).Round(2),
			amount:    amount,
			txType:    txType,
			status:    status,
		}
		if peakHours[ts.Hour()] {
			peakIdx = append(peakIdx, i)
		}
		if r.mall == "Mall C" {
			mallCIdx = append(mallCIdx, i)
		}
		rows = append(rows, r)
	}

	for _, i := range w.pickIndices(peakIdx, peakFailureShare) {
		rows[i].status = domain.StatusFailed
	}
	for _, i := range w.pickIndices(mallCIdx, mallCFailureShare) {
		rows[i].status = domain.StatusFailed
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].timestamp.Before(rows[j].timestamp) })

	file, err := os.Create(path)
	if err != nil {
		return SampleStats{}, fmt.Errorf("failed to create sample file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(requiredColumns); err != nil {
		return SampleStats{}, fmt.Errorf("failed to write header to %s: %w", path, err)
	}

	var failed int
	malls := make(map[string]struct{})
	branches := make(map[string]struct{})
	for _, r := range rows {
		if r.status == domain.StatusFailed {
			failed++
		}
		malls[r.mall] = struct{}{}
		branches[r.branch] = struct{}{}

		record := []string{
			r.id,
			r.mall,
			r.branch,
			r.timestamp.Format(TimestampLayout),
			r.tax.StringFixed(2),
			r.amount.StringFixed(2),
			string(r.txType),
			string(r.status),
		}
		if err := writer.Write(record); err != nil {
			return SampleStats{}, fmt.Errorf("failed to write record to %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return SampleStats{}, fmt.Errorf("failed to flush sample file %s: %w", path, err)
	}

	stats := SampleStats{
		Records:        len(rows),
		UniqueMalls:    len(malls),
		UniqueBranches: len(branches),
	}
	if len(rows) > 0 {
		stats.FailureRatePct = float64(failed) / float64(len(rows)) * 100
	}
	return stats, nil
}

// pickIndices samples share of the candidate indices without replacement.
func (w *SampleWriter) pickIndices(candidates []int, share float64) []int {
	n := int(float64(len(candidates)) * share)
	if n == 0 {
		return nil
	}
	shuffled := make([]int, len(candidates))
	copy(shuffled, candidates)
	w.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:n]
}
