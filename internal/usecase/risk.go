package usecase

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"financeguard/internal/domain"
)

// Component weights of the composite risk score. They sum to 1.
const (
	weightTime     = 0.30
	weightBranch   = 0.25
	weightAmount   = 0.20
	weightVelocity = 0.15
	weightPattern  = 0.10
)

// Stub component values. Velocity and sequence-pattern models are not built
// yet; the constants keep the weighted blend stable until they are.
const (
	velocityRiskStub = 0.5
	patternRiskStub  = 0.5
)

const (
	unseenRisk          = 0.5
	highRiskThreshold   = 0.7
	mediumRiskThreshold = 0.4
)

// AmountBucket is one amount range with its observed failure rate. Ranges
// are inclusive on both ends; lookups take the first matching bucket in
// ascending order.
type AmountBucket struct {
	Key  string
	Low  float64
	High float64
	Rate float64
}

// RiskScorer estimates the failure probability of a prospective transaction
// from historical hour, branch and amount failure rates. All lookups are
// built once at construction and read-only afterwards.
type RiskScorer struct {
	hourRisk   map[int]float64
	branchRisk map[string]float64
	buckets    []AmountBucket
	dailyRates []float64 // chronological daily failure-rate fractions
	logger     *zap.Logger
}

// NewRiskScorer builds the lookups from the given table. A nil logger
// disables logging.
func NewRiskScorer(table []domain.Transaction, logger *zap.Logger) *RiskScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RiskScorer{
		hourRisk:   make(map[int]float64),
		branchRisk: make(map[string]float64),
		logger:     logger,
	}
	s.buildLookups(table)
	return s
}

func (s *RiskScorer) buildLookups(table []domain.Transaction) {
	var hourCounts, hourFailed [24]int
	branchCounts := make(map[string]int)
	branchFailed := make(map[string]int)
	dayCounts := make(map[time.Time]int)
	dayFailed := make(map[time.Time]int)
	amounts := make([]float64, 0, len(table))
	failed := make([]bool, 0, len(table))

	for _, tx := range table {
		hourCounts[tx.Hour]++
		branchCounts[tx.Branch]++
		dayCounts[tx.Date]++
		if tx.Failed {
			hourFailed[tx.Hour]++
			branchFailed[tx.Branch]++
			dayFailed[tx.Date]++
		}
		amounts = append(amounts, tx.Amount.InexactFloat64())
		failed = append(failed, tx.Failed)
	}

	for h := 0; h < 24; h++ {
		if hourCounts[h] > 0 {
			s.hourRisk[h] = ratio(hourFailed[h], hourCounts[h])
		}
	}
	for branch, count := range branchCounts {
		s.branchRisk[branch] = ratio(branchFailed[branch], count)
	}

	s.buckets = buildAmountBuckets(amounts, failed)

	dates := make([]time.Time, 0, len(dayCounts))
	for d := range dayCounts {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	s.dailyRates = make([]float64, 0, len(dates))
	for _, d := range dates {
		s.dailyRates = append(s.dailyRates, ratio(dayFailed[d], dayCounts[d]))
	}
}

// buildAmountBuckets bins amounts into ten quantile buckets with duplicate
// edges dropped. Quantile edges collapse only when every amount is identical;
// the recovery is the degenerate single bucket covering that one value.
// Buckets that attracted no observations are omitted, so lookups in their
// range fall through to the ladder default.
func buildAmountBuckets(amounts []float64, failed []bool) []AmountBucket {
	if len(amounts) == 0 {
		return nil
	}

	edges := make([]float64, 0, 11)
	for i := 0; i <= 10; i++ {
		edges = append(edges, quantile(amounts, float64(i)/10))
	}
	edges = dedupeEdges(edges)

	if len(edges) < 2 {
		v := amounts[0]
		var failCount int
		for _, f := range failed {
			if f {
				failCount++
			}
		}
		return []AmountBucket{{
			Key:  fmt.Sprintf("%.2f-%.2f", v, v),
			Low:  v,
			High: v,
			Rate: ratio(failCount, len(amounts)),
		}}
	}

	buckets := make([]AmountBucket, 0, len(edges)-1)
	for i := 0; i < len(edges)-1; i++ {
		buckets = append(buckets, AmountBucket{
			Key:  fmt.Sprintf("%.2f-%.2f", edges[i], edges[i+1]),
			Low:  edges[i],
			High: edges[i+1],
		})
	}

	counts := make([]int, len(buckets))
	fails := make([]int, len(buckets))
	for idx, amount := range amounts {
		for b := range buckets {
			if amount >= buckets[b].Low && amount <= buckets[b].High {
				counts[b]++
				if failed[idx] {
					fails[b]++
				}
				break
			}
		}
	}

	out := make([]AmountBucket, 0, len(buckets))
	for b := range buckets {
		if counts[b] == 0 {
			continue
		}
		buckets[b].Rate = ratio(fails[b], counts[b])
		out = append(out, buckets[b])
	}
	return out
}

func dedupeEdges(edges []float64) []float64 {
	out := edges[:1]
	for _, e := range edges[1:] {
		if e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}

// Score estimates the failure risk of a transaction at the given hour, from
// the given branch, for the given amount. Unseen hours and branches score
// the neutral default; amounts outside every bucket use a fixed ladder.
// Score never fails.
func (s *RiskScorer) Score(hour int, branch string, amount decimal.Decimal) domain.RiskScore {
	timeRisk, ok := s.hourRisk[hour]
	if !ok {
		timeRisk = unseenRisk
	}
	branchRisk, ok := s.branchRisk[branch]
	if !ok {
		branchRisk = unseenRisk
	}
	amountRisk := s.amountRisk(amount.InexactFloat64())

	score := timeRisk*weightTime + branchRisk*weightBranch + amountRisk*weightAmount +
		velocityRiskStub*weightVelocity + patternRiskStub*weightPattern

	result := domain.RiskScore{
		Score:           score,
		Level:           riskLevel(score),
		TimeRisk:        timeRisk,
		BranchRisk:      branchRisk,
		AmountRisk:      amountRisk,
		VelocityRisk:    velocityRiskStub,
		PatternRisk:     patternRiskStub,
		Recommendations: riskRecommendations(timeRisk, branchRisk, amountRisk),
	}
	if result.Level == domain.RiskHigh {
		s.logger.Warn("high risk transaction",
			zap.Float64("score", score),
			zap.String("branch", branch),
			zap.Int("hour", hour))
	}
	return result
}

func (s *RiskScorer) amountRisk(amount float64) float64 {
	for _, b := range s.buckets {
		if amount >= b.Low && amount <= b.High {
			return b.Rate
		}
	}
	switch {
	case amount > 1000:
		return 0.7
	case amount > 500:
		return 0.5
	default:
		return 0.3
	}
}

func riskLevel(score float64) domain.RiskLevel {
	switch {
	case score > highRiskThreshold:
		return domain.RiskHigh
	case score > mediumRiskThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func riskRecommendations(timeRisk, branchRisk, amountRisk float64) []string {
	recs := make([]string, 0, 3)
	if timeRisk > highRiskThreshold {
		recs = append(recs, "Consider delaying transaction to a lower-risk time")
	}
	if branchRisk > highRiskThreshold {
		recs = append(recs, "Route transaction through alternative gateway")
	}
	if amountRisk > highRiskThreshold {
		recs = append(recs, "Split large transaction into smaller chunks")
	}
	if len(recs) == 0 {
		recs = append(recs, "Transaction can proceed with standard monitoring")
	}
	return recs
}

// ForecastFailures projects daily failure-rate percentages for the given
// number of days ahead: the mean of the trailing seven observed daily rates
// with a fixed weekly sinusoid on top. It is a heuristic shape, not a
// fitted model.
func (s *RiskScorer) ForecastFailures(days int) []float64 {
	tail := s.dailyRates
	if len(tail) > 7 {
		tail = tail[len(tail)-7:]
	}
	baseline := mean(tail)

	predictions := make([]float64, 0, days)
	for i := 0; i < days; i++ {
		variation := math.Sin(float64(i)/7*2*math.Pi) * 0.05
		predictions = append(predictions, (baseline+variation)*100)
	}
	return predictions
}
