package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// Store is the read surface the API serves from.
type Store interface {
	Ping(ctx context.Context) error
	ActiveAlerts(ctx context.Context, sport string, asOf time.Time, limit, offset int) ([]models.EdgeAlert, error)
	CLVReport(ctx context.Context) ([]models.CLVBucket, error)
	RecentlyGraded(ctx context.Context, since time.Time, limit, offset int) ([]models.BetRecord, error)
	RecentSummaries(ctx context.Context, limit int) ([]models.JobSummary, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	store Store
}

// NewHandler creates a new handler with dependencies
func NewHandler(store Store) *Handler {
	return &Handler{
		store: store,
	}
}

// Router builds the chi router with middleware and all routes.
func Router(h *Handler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/alerts", h.GetAlerts)
		r.Get("/clv/report", h.GetCLVReport)
		r.Get("/bets/graded", h.GetGradedBets)
		r.Get("/jobs", h.GetJobSummaries)
	})

	return r
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "line-intel-api",
	})
}

// GetAlerts retrieves unexpired alerts, newest first.
// Query params: sport, limit, offset
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sport := r.URL.Query().Get("sport")
	limit := parseIntParam(r, "limit", 100)
	offset := parseIntParam(r, "offset", 0)

	if limit > 500 {
		limit = 500
	}

	alerts, err := h.store.ActiveAlerts(ctx, sport, time.Now(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve alerts", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
		"limit":  limit,
		"offset": offset,
	})
}

// GetCLVReport returns the per-bet-type CLV aggregate.
func (h *Handler) GetCLVReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	buckets, err := h.store.CLVReport(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build CLV report", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"buckets": buckets,
	})
}

// GetGradedBets retrieves bets graded since a timestamp (default: 24h ago).
// Query params: since (RFC3339), limit, offset
func (h *Handler) GetGradedBets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	since := time.Now().Add(-24 * time.Hour)
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid 'since' timestamp", err)
			return
		}
		since = parsed
	}

	limit := parseIntParam(r, "limit", 100)
	offset := parseIntParam(r, "offset", 0)

	bets, err := h.store.RecentlyGraded(ctx, since, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve bets", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"bets":   bets,
		"count":  len(bets),
		"limit":  limit,
		"offset": offset,
	})
}

// GetJobSummaries returns recent batch-job outcomes, newest first.
func (h *Handler) GetJobSummaries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := parseIntParam(r, "limit", 50)

	summaries, err := h.store.RecentSummaries(ctx, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve job summaries", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  summaries,
		"count": len(summaries),
	})
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		fmt.Printf("error encoding error response: %v\n", err)
	}
}
