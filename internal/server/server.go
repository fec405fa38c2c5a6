// Package server provides the HTTP REST API for the network-overlap service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/network-overlap/internal/enrichment"
	"github.com/jonathan/network-overlap/internal/importer"
	"github.com/jonathan/network-overlap/internal/logger"
	"github.com/jonathan/network-overlap/internal/server/middleware"
	"github.com/jonathan/network-overlap/internal/server/ratelimit"
	"github.com/jonathan/network-overlap/internal/types"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 30 * time.Second

// Store is the record store behind the read and delete endpoints.
// Getters return nil, nil when the record does not exist.
type Store interface {
	ListColleagues(ctx context.Context) ([]types.Colleague, error)
	GetColleague(ctx context.Context, id uuid.UUID) (*types.Colleague, error)
	DeleteColleague(ctx context.Context, id uuid.UUID) (bool, error)
	ListCandidates(ctx context.Context) ([]types.Candidate, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error)
	DeleteCandidate(ctx context.Context, id uuid.UUID) (bool, error)
}

// Enricher runs profile acquisition. *enrichment.Pipeline implements it.
type Enricher interface {
	Enrich(ctx context.Context, colleagueID uuid.UUID) (*enrichment.Result, error)
	EnrichAll(ctx context.Context, opts enrichment.BatchOptions) (*enrichment.BatchSummary, error)
	LookupCandidate(ctx context.Context, rawURL string) (*enrichment.CandidateLookup, error)
	CandidateFromResume(ctx context.Context, name, resumeText string) (*types.Candidate, error)
}

// OverlapResolver answers overlap queries for a stored candidate.
type OverlapResolver interface {
	ResolveOverlaps(ctx context.Context, candidateID uuid.UUID) ([]types.OverlapFact, error)
}

// Settings reads and writes the runtime settings.
type Settings interface {
	All(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	SessionCookie(ctx context.Context) (string, error)
}

// SessionChecker reports whether a session cookie is still accepted.
type SessionChecker interface {
	Check(ctx context.Context, cookie string) (bool, error)
}

// Importer stores colleagues from a connections export.
type Importer interface {
	Import(ctx context.Context, r io.Reader) (*importer.Result, error)
}

// Deps are the services the handlers call into.
type Deps struct {
	Store    Store
	Enricher Enricher
	Overlaps OverlapResolver
	Settings Settings
	Session  SessionChecker
	Importer Importer
}

// Config holds server configuration
type Config struct {
	Port      int
	RateLimit *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	deps        Deps
	batches     *enrichment.BatchRunner
	rateLimiter *ratelimit.Limiter
	validator   *validator.Validate
	logger      *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps, log *zap.Logger) *Server {
	s := &Server{
		deps:        deps,
		batches:     &enrichment.BatchRunner{},
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validator:   validator.New(),
		logger:      logger.OrNop(log).Named("server"),
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Settings
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings/{key}", s.handleUpdateSetting)
	mux.HandleFunc("POST /api/settings/test-linkedin", s.handleTestSession)

	// Colleagues
	mux.HandleFunc("GET /api/colleagues", s.handleListColleagues)
	mux.HandleFunc("POST /api/colleagues/import", s.handleImportColleagues)
	mux.HandleFunc("POST /api/colleagues/enrich-all", s.handleEnrichAll)
	mux.HandleFunc("POST /api/colleagues/enrich-all/cancel", s.handleCancelEnrichAll)
	mux.HandleFunc("GET /api/colleagues/{id}", s.handleGetColleague)
	mux.HandleFunc("DELETE /api/colleagues/{id}", s.handleDeleteColleague)
	mux.HandleFunc("POST /api/colleagues/{id}/enrich", s.handleEnrichColleague)

	// Candidates
	mux.HandleFunc("GET /api/candidates", s.handleListCandidates)
	mux.HandleFunc("POST /api/candidates", s.handleCreateCandidate)
	mux.HandleFunc("POST /api/candidates/resume", s.handleCreateCandidateFromResume)
	mux.HandleFunc("GET /api/candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("GET /api/candidates/{id}/overlaps", s.handleGetOverlaps)
	mux.HandleFunc("DELETE /api/candidates/{id}", s.handleDeleteCandidate)

	handler := s.withRateLimit(middleware.RequestLogger(s.logger)(s.withCORS(mux)))
	handler = middleware.Recoverer(s.logger)(handler)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      300 * time.Second, // One scrape plus extraction can take minutes
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
// A running batch is cancelled after its current item.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	s.batches.Cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// domainError maps a service error onto a status and a coded body.
func (s *Server) domainError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.jsonResponse(w, status, map[string]string{
		"error":   ErrorCode(err),
		"message": userMessage(err),
	})
}

// decodeJSON reads the request body into dst and validates its struct tags.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validator.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError converts validator errors into an *ErrValidation.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		// Report the first failing field
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fe.Tag()}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
