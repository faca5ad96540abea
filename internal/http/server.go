// Package http exposes the expense tracker as a JSON API. Handlers
// translate requests into core actions, dispatch them through the
// store and render the resulting views; no domain logic lives here.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"wydatki/internal/rates"
	"wydatki/internal/store"
)

// RatesFetcher is the slice of the NBP client the server needs.
type RatesFetcher interface {
	Fetch(ctx context.Context) (rates.Result, error)
}

// Server wires the state store and the rates client into an HTTP
// handler. newID generates expense identifiers; it is a field so tests
// can pin it.
type Server struct {
	store  *store.Store
	rates  RatesFetcher
	logger *slog.Logger
	newID  func() string
}

// NewServer assembles the API server with production timeouts.
func NewServer(addr string, st *store.Store, fetcher RatesFetcher, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        NewHandler(st, fetcher, logger),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}

// NewHandler builds the routed handler; split out so tests can drive
// it through httptest.
func NewHandler(st *store.Store, fetcher RatesFetcher, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:  st,
		rates:  fetcher,
		logger: logger,
		newID:  uuid.NewString,
	}
	return s.routes()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("PATCH /api/expenses/{id}", s.handleEditExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/state", s.handleState)

	mux.HandleFunc("PUT /api/filters", s.handleSetFilters)
	mux.HandleFunc("PUT /api/sort", s.handleSetSort)
	mux.HandleFunc("PUT /api/currency", s.handleSetCurrency)
	mux.HandleFunc("POST /api/categories", s.handleAddCategory)

	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("POST /api/rates/refresh", s.handleRefreshRates)

	return s.requestLog(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLog stamps each request with an id and logs method, path,
// status and duration.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(r.Context()))

		s.logger.Info("Request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
