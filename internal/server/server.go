// Package server exposes the documentation service over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/leefowlercu/codedoc/internal/docgen"
)

// GeneratePath is the documentation endpoint.
const GeneratePath = "/generate-docs-from-text"

// Config holds configuration for the HTTP server.
type Config struct {
	Port        int
	Bind        string
	CORSOrigins []string
}

// Generator produces documentation for a request.
type Generator interface {
	Generate(ctx context.Context, req docgen.Request) (*docgen.Response, error)
}

// ReadinessFunc reports why the server cannot serve generation requests,
// or nil when it can.
type ReadinessFunc func() error

// Server is the HTTP front end for a Generator.
// It is safe for concurrent use.
type Server struct {
	mu             sync.RWMutex
	config         Config
	generator      Generator
	readiness      ReadinessFunc
	metricsHandler http.Handler
	logger         *slog.Logger
	router         *chi.Mux
	server         *http.Server
	startedAt      time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithReadiness sets the check behind /readyz.
func WithReadiness(fn ReadinessFunc) Option {
	return func(s *Server) {
		s.readiness = fn
	}
}

// WithMetricsHandler mounts handler at /metrics.
func WithMetricsHandler(handler http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = handler
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server that answers generation requests with gen.
func NewServer(gen Generator, config Config, opts ...Option) *Server {
	s := &Server{
		config:    config,
		generator: gen,
		logger:    slog.Default(),
		startedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	origins := s.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         300,
		}))
		r.Post(GeneratePath, s.handleGenerate)
		r.Options(GeneratePath, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return r
}

// Handler returns the HTTP handler for testing purposes.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Bind, fmt.Sprintf("%d", s.config.Port))
}

// Start starts the HTTP server and blocks until it's stopped.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s; %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until Shutdown is called. Request contexts
// carry ctx's values but not its cancellation, so in-flight requests drain
// during Shutdown instead of failing when the caller's signal context ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	base := context.WithoutCancel(ctx)
	s.mu.Lock()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return base
		},
	}
	server := s.server
	s.mu.Unlock()

	s.logger.Info("http server listening", "addr", ln.Addr().String())

	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error; %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	server := s.server
	s.mu.RUnlock()

	if server == nil {
		return nil
	}

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server; %w", err)
	}

	return nil
}
