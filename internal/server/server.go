// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/verifact-tui/internal/model"
	"github.com/jeranaias/verifact-tui/internal/verify"
)

const (
	// DefaultAddr is the loopback address `verifact serve` binds to.
	DefaultAddr = "127.0.0.1:8787"

	// HealthPath answers liveness probes.
	HealthPath = "/health"

	// StatsPath reports request counters.
	StatsPath = "/v1/stats"

	// maxRequestBody caps the decoded verify request.
	maxRequestBody = 64 << 10
)

// ============================================================================
// STATS
// ============================================================================

// Stats counts verification requests by outcome.
type Stats struct {
	TotalRequests int64                  `json:"total_requests"`
	Failures      int64                  `json:"failures"`
	ByStatus      map[model.Status]int64 `json:"by_status"`
	StartTime     time.Time              `json:"start_time"`
	UptimeSeconds float64                `json:"uptime_seconds"`
}

type stats struct {
	total    atomic.Int64
	failures atomic.Int64
	start    time.Time

	mu       sync.Mutex
	byStatus map[model.Status]int64
}

func newStats() *stats {
	return &stats{start: time.Now(), byStatus: make(map[model.Status]int64)}
}

func (s *stats) record(status model.Status, err error) {
	s.total.Add(1)
	if err != nil {
		s.failures.Add(1)
		return
	}
	s.mu.Lock()
	s.byStatus[status]++
	s.mu.Unlock()
}

func (s *stats) snapshot() Stats {
	s.mu.Lock()
	by := make(map[model.Status]int64, len(s.byStatus))
	for k, v := range s.byStatus {
		by[k] = v
	}
	s.mu.Unlock()
	return Stats{
		TotalRequests: s.total.Load(),
		Failures:      s.failures.Load(),
		ByStatus:      by,
		StartTime:     s.start,
		UptimeSeconds: time.Since(s.start).Seconds(),
	}
}

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	// Addr is the listen address. Default: DefaultAddr.
	Addr string

	// Verifier answers POST /v1/verify. Default: a MockVerifier.
	Verifier verify.Verifier

	// Timeout bounds each verification. Zero leaves only the request context.
	Timeout time.Duration

	// APIKey, when set, is required as a bearer token.
	APIKey string

	// RatePerSec and Burst configure the per-IP limiter. Zero uses
	// DefaultRateLimiter; a negative rate disables limiting.
	RatePerSec float64
	Burst      int

	Version string
	Logger  *zap.Logger
}

// Server exposes a Verifier over the JSON/HTTP protocol spoken by
// verify.HTTPVerifier.
type Server struct {
	addr     string
	verifier verify.Verifier
	version  string
	logger   *zap.Logger
	stats    *stats

	router  *http.ServeMux
	handler http.Handler

	mu     sync.Mutex
	server *http.Server
}

// New creates a Server. Nothing listens until ListenAndServe.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Verifier == nil {
		opts.Verifier = verify.NewMockVerifier()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		addr:     opts.Addr,
		verifier: verify.WithTimeout(opts.Verifier, opts.Timeout),
		version:  opts.Version,
		logger:   opts.Logger,
		stats:    newStats(),
		router:   http.NewServeMux(),
	}
	s.setupRoutes()

	var limiter *RateLimiter
	switch {
	case opts.RatePerSec > 0:
		limiter = NewRateLimiter(opts.RatePerSec, opts.Burst)
	case opts.RatePerSec == 0:
		limiter = DefaultRateLimiter()
	}

	s.handler = Chain(
		RecoveryMiddleware(s.logger),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(s.logger),
		RateLimitMiddleware(limiter),
		AuthMiddleware(opts.APIKey),
	)(s.router)
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Stats returns a snapshot of the request counters.
func (s *Server) Stats() Stats {
	return s.stats.snapshot()
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST "+verify.VerifyPath, s.handleVerify)
	s.router.HandleFunc("GET "+HealthPath, s.handleHealth)
	s.router.HandleFunc("GET "+StatsPath, s.handleStats)
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req verify.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	q := req.Query()
	if q.IsEmpty() {
		writeError(w, http.StatusBadRequest, "text or imageName is required")
		return
	}

	res, err := s.verifier.Verify(r.Context(), q)
	s.stats.record(res.Status, err)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, verify.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		s.logger.Warn("verification failed", zap.String("claim", q.Label()), zap.Error(err))
		writeError(w, status, err.Error())
		return
	}

	s.logger.Debug("verification complete",
		zap.String("claim", q.Label()),
		zap.String("status", res.Status.String()))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.stats.start).Round(time.Second).String(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.snapshot())
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.logger.Info("server started", zap.String("addr", ln.Addr().String()), zap.String("version", s.version))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("server shutting down")
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error":{"message","code"}}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"code":    status,
		},
	})
}
