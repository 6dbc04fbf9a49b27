package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodySize bounds request bodies.
const MaxBodySize = 1 << 20

// ShutdownTimeout is how long Serve waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Engine is the evaluation core exposed over HTTP.
type Engine interface {
	EvaluateLine(ctx context.Context, text string) (domain.Outcome, error)
	EvaluateTokens(ctx context.Context, tokens []string) (domain.Outcome, error)
	ProcessLines(ctx context.Context, lines []string) (*domain.Report, error)
	Save(ctx context.Context, report *domain.Report) error
	Store() ports.ReportStore
}

// Server holds the handlers of the HTTP API.
type Server struct {
	Engine   Engine
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	Version  string

	apiVersion string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics exposes g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithVersion sets the application version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// NewHandler creates the HTTP handler for engine. It fails when the embedded
// OpenAPI document does not validate.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Engine:     engine,
		Logger:     slog.New(slog.DiscardHandler),
		Version:    "dev",
		apiVersion: doc.Info.Version,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Post("/evaluate", s.Evaluate)
	r.Post("/batch", s.Batch)
	r.Get("/reports", s.ListReports)
	r.Get("/reports/{id}", s.GetReport)
	r.Delete("/reports/{id}", s.DeleteReport)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(RawSpec())
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// EvaluateRequest is the body of POST /evaluate. Exactly one field is set.
type EvaluateRequest struct {
	Expression *string  `json:"expression,omitempty"`
	Tokens     []string `json:"tokens,omitempty"`
}

// EvaluateResponse is the 200 body of POST /evaluate.
type EvaluateResponse struct {
	Value domain.Number `json:"value"`
}

// ErrorResponse is the 422 body of POST /evaluate.
type ErrorResponse struct {
	Error *domain.Failure `json:"error"`
}

// BatchRequest is the body of POST /batch.
type BatchRequest struct {
	Lines []string `json:"lines"`
	Save  bool     `json:"save,omitempty"`
}

// ReportList is the body of GET /reports.
type ReportList struct {
	IDs []string `json:"ids"`
}

// Evaluate handles the POST /evaluate request.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if !s.decode(w, r, &body) {
		return
	}

	var (
		outcome domain.Outcome
		err     error
	)
	switch {
	case body.Expression != nil && body.Tokens != nil:
		http.Error(w, "Set either expression or tokens, not both", http.StatusBadRequest)
		return
	case body.Expression != nil:
		outcome, err = s.Engine.EvaluateLine(r.Context(), *body.Expression)
	case body.Tokens != nil:
		outcome, err = s.Engine.EvaluateTokens(r.Context(), body.Tokens)
	default:
		http.Error(w, "Missing expression or tokens", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Evaluate: Input rejected", "error", err)
		return
	}

	if !outcome.OK() {
		s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: outcome.Failure})
		return
	}
	s.writeJSON(w, http.StatusOK, EvaluateResponse{Value: outcome.Value})
}

// Batch handles the POST /batch request.
func (s *Server) Batch(w http.ResponseWriter, r *http.Request) {
	var body BatchRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Lines == nil {
		http.Error(w, "Missing lines", http.StatusBadRequest)
		return
	}
	if body.Save && s.Engine.Store() == nil {
		http.Error(w, domain.ErrNoStore.Error(), http.StatusNotImplemented)
		return
	}

	report, err := s.Engine.ProcessLines(r.Context(), body.Lines)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Batch: Input rejected", "error", err)
		return
	}

	if body.Save {
		if err := s.Engine.Save(r.Context(), report); err != nil {
			http.Error(w, fmt.Sprintf("Save error: %v", err), http.StatusInternalServerError)
			s.Logger.Error("Batch: Save failed", "error", err, "report_id", report.ID)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, report)
}

// ListReports handles the GET /reports request.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w)
	if !ok {
		return
	}
	ids, err := store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("List reports failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ReportList{IDs: ids})
}

// GetReport handles the GET /reports/{id} request.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	report, err := store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			http.Error(w, fmt.Sprintf("Report %s not found", id), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Load report failed", "error", err, "report_id", id)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// DeleteReport handles the DELETE /reports/{id} request.
func (s *Server) DeleteReport(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := store.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Delete report failed", "error", err, "report_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "druide-http",
		"version":     s.Version,
		"api_version": s.apiVersion,
	})
}

func (s *Server) store(w http.ResponseWriter) (ports.ReportStore, bool) {
	store := s.Engine.Store()
	if store == nil {
		http.Error(w, domain.ErrNoStore.Error(), http.StatusNotImplemented)
		return nil, false
	}
	return store, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err := dec.Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Invalid request body", "error", err, "path", r.URL.Path)
		return false
	}
	// Trailing data after the first JSON value is malformed input.
	if _, err := dec.Token(); err != io.EOF {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully within ShutdownTimeout.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting druide server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Start shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		logger.Info("Druide server stopped gracefully")
		return nil
	}
}
