// Package server exposes the PTR dashboard over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/ukaji3/ptrboard-go/pkg/accounts"
	"github.com/ukaji3/ptrboard-go/pkg/auth"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/render"
)

const maxBodyBytes = 1 << 20

// Server serves the dashboard API.
type Server struct {
	dashboard *ptrboard.Dashboard
	accounts  *accounts.Store
	sessions  *auth.SessionStore
	metrics   *Metrics
	logger    *slog.Logger
	location  *time.Location
	authn     *auth.Middleware
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics. Defaults to NewMetrics watching the dashboard cache.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLocation sets the time zone of "last updated" labels. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) {
		s.location = loc
	}
}

// New creates a server.
func New(dashboard *ptrboard.Dashboard, store *accounts.Store, sessions *auth.SessionStore, opts ...Option) *Server {
	s := &Server{
		dashboard: dashboard,
		accounts:  store,
		sessions:  sessions,
		logger:    slog.Default(),
		location:  time.UTC,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
		s.metrics.WatchCache(dashboard.Cache())
	}
	s.logger = s.logger.With(slog.String("component", "server"))
	s.authn = auth.NewMiddleware(sessions,
		auth.WithExcludedPaths("/api/login", "/api/signup"),
		auth.WithErrorHandler(s.authError),
	)
	return s
}

// Handler returns the root handler: request logging, then authentication,
// then the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "GET /healthz", http.HandlerFunc(s.healthz))
	s.handle(mux, "GET /readyz", http.HandlerFunc(s.readyz))
	s.handle(mux, "GET /metrics", s.metrics.Handler())

	s.handle(mux, "POST /api/signup", http.HandlerFunc(s.signUp))
	s.handle(mux, "POST /api/login", http.HandlerFunc(s.login))
	s.handle(mux, "POST /api/logout", s.require(accounts.CapabilityLogout, s.logout))
	s.handle(mux, "GET /api/pages", http.HandlerFunc(s.pages))

	s.handle(mux, "GET /api/files", s.require(accounts.CapabilityPTR, s.listFiles))
	s.handle(mux, "GET /api/files/{id}/sheets", s.require(accounts.CapabilityPTR, s.listSheets))
	s.handle(mux, "GET /api/files/{id}/sheets/{sheet}", s.require(accounts.CapabilityPTR, s.sheet))
	s.handle(mux, "GET /api/files/{id}/sheets/{sheet}/progress", s.require(accounts.CapabilityPTR, s.progress))
	s.handle(mux, "GET /api/files/{id}/sheets/{sheet}/progress.svg", s.require(accounts.CapabilityPTR, s.progressChart(render.FormatSVG)))
	s.handle(mux, "GET /api/files/{id}/sheets/{sheet}/progress.png", s.require(accounts.CapabilityPTR, s.progressChart(render.FormatPNG)))
	s.handle(mux, "GET /api/files/{id}/sheets/{sheet}/flow", s.require(accounts.CapabilityPTR, s.flow))
	s.handle(mux, "GET /api/files/{id}/overview", s.require(accounts.CapabilityPTR, s.overview))
	s.handle(mux, "POST /api/refresh", s.require(accounts.CapabilityPTR, s.refresh))

	s.handle(mux, "GET /api/users", s.require(accounts.CapabilityAdmin, s.listUsers))
	s.handle(mux, "PUT /api/users", s.require(accounts.CapabilityAdmin, s.updateUsers))

	return s.logRequests(s.authn.Wrap(mux))
}

// Run serves on addr over HTTP/1.1 and cleartext HTTP/2 until ctx is done,
// then shuts down gracefully within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()
	s.logger.Info("dashboard ready", slog.String("addr", addr))

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
	case err := <-serverErrChan:
		return fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// handle registers h under pattern with per-route metrics.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, s.instrument(pattern, h))
}

func (s *Server) require(c accounts.Capability, h http.HandlerFunc) http.Handler {
	return s.authn.Require(c, h)
}

func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.recordRequest(route, r.Method, rec.status, time.Since(start))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	s.metrics.RecordError(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("code", code),
			slog.String("error", err.Error()),
		)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func (s *Server) authError(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := CodeUnauthenticated
	if status == http.StatusForbidden {
		code = CodeForbidden
	}
	s.metrics.RecordError(code)
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func (s *Server) decode(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
