package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"financeguard/internal/domain"
	"financeguard/internal/usecase"
)

const (
	forecastDaysDefault = 7
	forecastDaysMax     = 30
)

// Handler exposes the analytics session over HTTP. Reload swaps the session
// atomically, so in-flight requests keep reading the table they started with.
type Handler struct {
	mu      sync.RWMutex
	session *usecase.Session

	repo    usecase.TransactionRepository
	csvPath string
	logger  *zap.Logger
	nowFn   func() time.Time
}

// NewHandler wires the handler to an initial session and the repository used
// for reloads.
func NewHandler(session *usecase.Session, repo usecase.TransactionRepository, csvPath string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		session: session,
		repo:    repo,
		csvPath: csvPath,
		logger:  logger,
		nowFn:   time.Now,
	}
}

func (h *Handler) current() *usecase.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

// asOf resolves the evaluation time from the as_of query parameter, falling
// back to the wall clock.
func (h *Handler) asOf(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("as_of"))
	if raw == "" {
		return h.nowFn(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	asOf, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_as_of", "as_of must be an RFC 3339 timestamp", requestID)
		return
	}
	writeSuccess(w, http.StatusOK, h.current().Report(asOf))
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.current().Metrics().Summarize())
}

func (h *Handler) getBranches(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.current().Metrics().BranchAnalytics())
}

func (h *Handler) getPatterns(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.current().Metrics().TimePatterns())
}

func (h *Handler) getAnomalies(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	asOf, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_as_of", "as_of must be an RFC 3339 timestamp", requestID)
		return
	}
	writeSuccess(w, http.StatusOK, h.current().Anomalies().Detect(asOf))
}

type riskScoreRequest struct {
	Hour   int             `json:"hour"`
	Branch string          `json:"branch_name"`
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) postRiskScore(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	var req riskScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", requestID)
		return
	}
	writeSuccess(w, http.StatusOK, h.current().Risk().Score(req.Hour, req.Branch, req.Amount))
}

func (h *Handler) getForecast(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	days := forecastDaysDefault
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > forecastDaysMax {
			writeError(w, http.StatusBadRequest, "invalid_days", "days must be an integer between 1 and 30", requestID)
			return
		}
		days = parsed
	}
	writeSuccess(w, http.StatusOK, h.current().Risk().ForecastFailures(days))
}

func (h *Handler) getRouteDecision(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	branch := strings.TrimSpace(r.URL.Query().Get("branch"))
	if branch == "" {
		writeError(w, http.StatusBadRequest, "missing_branch", "branch query parameter is required", requestID)
		return
	}
	hour := h.nowFn().Hour()
	if raw := r.URL.Query().Get("hour"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 23 {
			writeError(w, http.StatusBadRequest, "invalid_hour", "hour must be an integer between 0 and 23", requestID)
			return
		}
		hour = parsed
	}
	writeSuccess(w, http.StatusOK, h.current().Routing().Route(branch, hour))
}

func (h *Handler) getRouteStatus(w http.ResponseWriter, r *http.Request) {
	session := h.current()
	rates := make(map[string]float64)
	for _, row := range session.Metrics().BranchRows() {
		rates[row.Key] = row.Rate
	}
	writeSuccess(w, http.StatusOK, session.Routing().Classify(rates))
}

func (h *Handler) getRoutingProfiles(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.current().Routing().Profiles())
}

func (h *Handler) getSignatures(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.current().Signatures().Signatures())
}

func (h *Handler) postSignatureMatch(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	var pattern domain.Pattern
	if err := json.NewDecoder(r.Body).Decode(&pattern); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not a valid pattern", requestID)
		return
	}
	writeSuccess(w, http.StatusOK, h.current().Signatures().Match(pattern))
}

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.current().Scores().Leaderboard())
}

func (h *Handler) getAchievements(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	branch := chi.URLParam(r, "branch")
	achievements, err := h.current().Scores().Achievements(branch)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestID)
		return
	}
	writeSuccess(w, http.StatusOK, achievements)
}

func (h *Handler) getStanding(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	branch := chi.URLParam(r, "branch")
	standing, err := h.current().Scores().Standing(branch)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestID)
		return
	}
	writeSuccess(w, http.StatusOK, standing)
}

func (h *Handler) postReload(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	session, err := usecase.LoadSession(r.Context(), h.repo, h.csvPath, h.logger)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error(), requestID)
		return
	}
	h.mu.Lock()
	h.session = session
	h.mu.Unlock()
	h.logger.Info("session reloaded", zap.String("path", h.csvPath), zap.Int("rows", session.Size()))
	writeSuccess(w, http.StatusOK, map[string]any{"rows": session.Size()})
}

func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownBranch):
		return http.StatusNotFound, "unknown_branch"
	case errors.Is(err, domain.ErrMissingColumn):
		return http.StatusUnprocessableEntity, "missing_column"
	case errors.Is(err, domain.ErrBadRecord):
		return http.StatusUnprocessableEntity, "bad_record"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
