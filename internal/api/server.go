package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/star/sunpos/internal/auth"
	"github.com/star/sunpos/internal/health"
	"github.com/star/sunpos/internal/httputil"
	"github.com/star/sunpos/internal/iers"
	"github.com/star/sunpos/internal/metrics"
	"github.com/star/sunpos/internal/observer"
	"github.com/star/sunpos/internal/track"
)

// Config holds the HTTP server configuration.
type Config struct {
	Addr       string
	Auth       auth.Config
	TrustProxy bool
	Workers    int

	// DefaultLocation is used when a request omits lat/lon. Nil makes
	// them required.
	DefaultLocation *observer.Location

	// RequireIERS makes /readyz wait for the first IERS table.
	RequireIERS bool
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        Config
	store      *iers.Store
	clock      observer.Clock
	pool       *track.WorkerPool
}

// NewServer creates a configured HTTP server.
func NewServer(cfg Config, logger *slog.Logger, store *iers.Store, clock observer.Clock) *Server {
	if clock == nil {
		clock = observer.SystemClock{}
	}
	if store == nil {
		store = iers.NewStore()
	}

	s := &Server{
		logger: logger.With("component", "api"),
		cfg:    cfg,
		store:  store,
		clock:  clock,
		pool:   track.NewWorkerPool(cfg.Workers, logger),
	}

	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(s.ready))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/sun/position", s.handlePosition)
	mux.HandleFunc("GET /api/v1/sun/almanac", s.handleAlmanac)
	mux.HandleFunc("GET /api/v1/sun/seasons", s.handleSeasons)
	mux.HandleFunc("GET /api/v1/sun/track", s.handleTrack)
	mux.HandleFunc("GET /api/v1/sun/report", s.handleReport)
	mux.HandleFunc("GET /api/v1/iers/metadata", s.handleIERSMetadata)

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(cfg.Auth)(handler)
	handler = loggingMiddleware(logger, cfg.TrustProxy)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) ready() bool {
	return !s.cfg.RequireIERS || s.store.Get() != nil
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", httputil.ClientIP(r, trustProxy),
			)
		})
	}
}
