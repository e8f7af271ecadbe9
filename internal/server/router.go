package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the analytics API.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(handler.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusOK, "ready")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/report", handler.getReport)
		r.Get("/summary", handler.getSummary)
		r.Get("/branches", handler.getBranches)
		r.Get("/branches/{branch}/achievements", handler.getAchievements)
		r.Get("/branches/{branch}/standing", handler.getStanding)
		r.Get("/patterns", handler.getPatterns)
		r.Get("/anomalies", handler.getAnomalies)
		r.Post("/risk/score", handler.postRiskScore)
		r.Get("/risk/forecast", handler.getForecast)
		r.Get("/routing/decision", handler.getRouteDecision)
		r.Get("/routing/status", handler.getRouteStatus)
		r.Get("/routing/profiles", handler.getRoutingProfiles)
		r.Get("/signatures", handler.getSignatures)
		r.Post("/signatures/match", handler.postSignatureMatch)
		r.Get("/leaderboard", handler.getLeaderboard)
		r.Post("/reload", handler.postReload)
	})

	return r
}
