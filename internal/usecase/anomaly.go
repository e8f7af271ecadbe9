package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"financeguard/internal/domain"
)

// Detection thresholds.
const (
	spikeWindow       = 7 * 24 * time.Hour
	spikeRatio        = 1.2
	branchFailurePct  = 20.0
	hourlySigmaFactor = 2.0
)

// AnomalyDetector scans a transaction table for failure patterns worth human
// attention. Each rule is independent; a rule whose precondition is absent
// produces no record rather than an error.
type AnomalyDetector struct {
	table  []domain.Transaction
	logger *zap.Logger
}

// NewAnomalyDetector creates a detector over the given table. A nil logger
// disables logging.
func NewAnomalyDetector(table []domain.Transaction, logger *zap.Logger) *AnomalyDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnomalyDetector{table: table, logger: logger}
}

// Detect runs every rule against the table. Recency is measured against the
// supplied asOf time, never the wall clock, so results are reproducible for
// a fixed evaluation time.
func (d *AnomalyDetector) Detect(asOf time.Time) []domain.Anomaly {
	anomalies := make([]domain.Anomaly, 0, 3)
	if a, ok := d.detectFailureSpike(asOf); ok {
		anomalies = append(anomalies, a)
	}
	if a, ok := d.detectBranchFailures(); ok {
		anomalies = append(anomalies, a)
	}
	if a, ok := d.detectHourlyPattern(); ok {
		anomalies = append(anomalies, a)
	}
	return anomalies
}

// detectFailureSpike compares the failure rate inside [asOf-7d, asOf], both
// ends inclusive, against the whole-table rate.
func (d *AnomalyDetector) detectFailureSpike(asOf time.Time) (domain.Anomaly, bool) {
	if len(d.table) == 0 {
		return domain.Anomaly{}, false
	}

	cutoff := asOf.Add(-spikeWindow)
	var recentTotal, recentFailed, overallFailed int
	for _, tx := range d.table {
		if tx.Failed {
			overallFailed++
		}
		if !tx.Timestamp.Before(cutoff) && !tx.Timestamp.After(asOf) {
			recentTotal++
			if tx.Failed {
				recentFailed++
			}
		}
	}
	// With no failures at all the recent rate cannot exceed 1.2x of zero.
	if recentTotal == 0 || overallFailed == 0 {
		return domain.Anomaly{}, false
	}

	recentRate := float64(recentFailed) / float64(recentTotal) * 100
	overallRate := float64(overallFailed) / float64(len(d.table)) * 100
	if recentRate <= overallRate*spikeRatio {
		return domain.Anomaly{}, false
	}

	increase := (recentRate - overallRate) / overallRate * 100
	d.logger.Warn("recent failure spike",
		zap.Float64("recent_rate", recentRate),
		zap.Float64("overall_rate", overallRate))
	return domain.Anomaly{
		Kind:     domain.AnomalyFailureSpike,
		Severity: domain.SeverityHigh,
		Message: fmt.Sprintf("Recent failure rate (%.2f%%) is %.1f%% higher than average (%.2f%%)",
			recentRate, increase, overallRate),
		RecentRate:  recentRate,
		OverallRate: overallRate,
	}, true
}

// detectBranchFailures flags every branch whose failure rate is strictly
// above 20 percent. A branch sitting exactly on the threshold is not flagged.
func (d *AnomalyDetector) detectBranchFailures() (domain.Anomaly, bool) {
	counts := make(map[string]int)
	failed := make(map[string]int)
	for _, tx := range d.table {
		counts[tx.Branch]++
		if tx.Failed {
			failed[tx.Branch]++
		}
	}

	rates := make(map[string]float64)
	offenders := make([]string, 0)
	for branch, count := range counts {
		rate := ratio(failed[branch], count) * 100
		if rate > branchFailurePct {
			rates[branch] = rate
			offenders = append(offenders, branch)
		}
	}
	if len(offenders) == 0 {
		return domain.Anomaly{}, false
	}
	sort.Strings(offenders)

	d.logger.Warn("branches above failure threshold", zap.Strings("branches", offenders))
	return domain.Anomaly{
		Kind:     domain.AnomalyBranchFailure,
		Severity: domain.SeverityHigh,
		Message: fmt.Sprintf("Branches with critically high failure rates (>20%%): %s",
			strings.Join(offenders, ", ")),
		BranchRates: rates,
	}, true
}

// detectHourlyPattern flags hours whose failure rate sits more than two
// standard deviations above the mean of all observed hours. Only hours with
// data participate; with fewer than two such hours, or zero spread, nothing
// is flagged.
func (d *AnomalyDetector) detectHourlyPattern() (domain.Anomaly, bool) {
	var counts, failed [24]int
	for _, tx := range d.table {
		counts[tx.Hour]++
		if tx.Failed {
			failed[tx.Hour]++
		}
	}

	hours := make([]int, 0, 24)
	rates := make([]float64, 0, 24)
	for h := 0; h < 24; h++ {
		if counts[h] > 0 {
			hours = append(hours, h)
			rates = append(rates, ratio(failed[h], counts[h])*100)
		}
	}

	std := sampleStddev(rates)
	if std == 0 {
		return domain.Anomaly{}, false
	}
	threshold := mean(rates) + hourlySigmaFactor*std

	flagged := make([]int, 0)
	for i, h := range hours {
		if rates[i] > threshold {
			flagged = append(flagged, h)
		}
	}
	if len(flagged) == 0 {
		return domain.Anomaly{}, false
	}

	labels := make([]string, len(flagged))
	for i, h := range flagged {
		labels[i] = fmt.Sprintf("%d:00", h)
	}
	d.logger.Warn("hourly failure outliers", zap.Ints("hours", flagged))
	return domain.Anomaly{
		Kind:     domain.AnomalyHourlyPattern,
		Severity: domain.SeverityMedium,
		Message:  fmt.Sprintf("Unusually high failure rates at hours: %s", strings.Join(labels, ", ")),
		Hours:    flagged,
	}, true
}
