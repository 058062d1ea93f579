// Package api exposes scheduling runs over HTTP. Each request gets its own
// registry and engine, so concurrent runs never share state.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskmill/taskmill/internal/ctxlog"
	"github.com/taskmill/taskmill/internal/engine"
)

// Config wires the server's collaborators.
type Config struct {
	// Logger receives request and run logs. Required.
	Logger *slog.Logger

	// Observer is forwarded to every run the server executes. Optional.
	Observer engine.Observer

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// Server handles scheduling requests over HTTP.
type Server struct {
	router   *chi.Mux
	logger   *slog.Logger
	observer engine.Observer
}

// NewServer builds the router and its middleware stack.
func NewServer(cfg Config) *Server {
	s := &Server{
		logger:   cfg.Logger,
		observer: cfg.Observer,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.injectLogger)
	r.Use(s.logRequests)

	r.Post("/api/v1/schedule", s.handleSchedule)
	r.Get("/healthz", s.handleHealth)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	s.router = r
	return s
}

// Handler returns the server's HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run(addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	done := make(chan error, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		s.logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		done <- httpServer.Shutdown(ctx)
	}()

	s.logger.Info("🚀 API server listening.", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-done; err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("Server stopped.")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// injectLogger puts the server logger into every request context, so the
// engine and plan validation log through the same handler.
func (s *Server) injectLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlog.WithLogger(r.Context(), s.logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("Request handled.",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
