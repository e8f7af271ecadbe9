package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"financeguard/internal/domain"
)

// Session owns one loaded transaction table and the engines built from it.
// Engines are constructed exactly once per load; reloading data means
// building a new Session, which keeps cache scope and invalidation explicit.
type Session struct {
	table      []domain.Transaction
	metrics    *MetricsEngine
	anomalies  *AnomalyDetector
	risk       *RiskScorer
	routing    *RoutingAdvisor
	signatures *SignatureBuilder
	scores     *GamificationScorer
	logger     *zap.Logger
}

// LoadSession fetches the table from the repository and builds every engine.
func LoadSession(ctx context.Context, repo TransactionRepository, path string, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	table, err := repo.GetTransactions(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not load transactions: %w", err)
	}
	logger.Info("transaction table loaded", zap.String("path", path), zap.Int("rows", len(table)))

	return NewSession(table, logger), nil
}

// NewSession builds every engine over an already-loaded table.
func NewSession(table []domain.Transaction, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		table:      table,
		metrics:    NewMetricsEngine(table),
		anomalies:  NewAnomalyDetector(table, logger),
		risk:       NewRiskScorer(table, logger),
		routing:    NewRoutingAdvisor(table),
		signatures: NewSignatureBuilder(table),
		scores:     NewGamificationScorer(table),
		logger:     logger,
	}
}

// Engine accessors. All engines share the same immutable table.

func (s *Session) Metrics() *MetricsEngine       { return s.metrics }
func (s *Session) Anomalies() *AnomalyDetector   { return s.anomalies }
func (s *Session) Risk() *RiskScorer             { return s.risk }
func (s *Session) Routing() *RoutingAdvisor      { return s.routing }
func (s *Session) Signatures() *SignatureBuilder { return s.signatures }
func (s *Session) Scores() *GamificationScorer   { return s.scores }

// Size returns the number of rows in the loaded table.
func (s *Session) Size() int { return len(s.table) }

// Report assembles the one-shot analysis of the whole table as of the given
// evaluation time.
func (s *Session) Report(asOf time.Time) *domain.AnalysisReport {
	branchRates := make(map[string]float64)
	for _, row := range s.metrics.BranchRows() {
		branchRates[row.Key] = row.Rate
	}

	return &domain.AnalysisReport{
		GeneratedAt:     asOf.Format(time.RFC3339),
		Summary:         s.metrics.Summarize(),
		BranchAnalytics: s.metrics.BranchAnalytics(),
		TimePatterns:    s.metrics.TimePatterns(),
		Anomalies:       s.anomalies.Detect(asOf),
		RoutingStatus:   s.routing.Classify(branchRates),
		Leaderboard:     s.scores.Leaderboard(),
		Forecast:        s.risk.ForecastFailures(7),
	}
}
