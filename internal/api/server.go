package api

import (
	"net/http"
	"time"

	"diet-planner/internal/auth"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Routes builds the full HTTP handler: API routes, Prometheus metrics,
// request logging, and bearer auth when authMiddleware is non-nil.
// /health and /metrics are never authenticated.
func Routes(h *Handler, authMiddleware *auth.Middleware, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	var handler http.Handler = mux
	if authMiddleware != nil {
		m := *authMiddleware
		m.Skipper = auth.SkipPaths("/health", "/metrics")
		handler = m.Wrap(handler)
	}
	return requestLogger(logger, handler)
}

// NewServer returns an http.Server with conservative timeouts.
func NewServer(address string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
