package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/UnknownOlympus/employee-store/internal/metrics"
)

// RouteRegistrar is implemented by handler packages that mount their own routes.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// NewRouter wires the API handlers behind the common middleware stack.
func NewRouter(log *slog.Logger, m *metrics.Metrics, handlers ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log, m))
	r.Use(middleware.Recoverer)

	for _, h := range handlers {
		h.RegisterRoutes(r)
	}

	return r
}

// NewMonitoringRouter serves Prometheus metrics from reg and the storage health check.
func NewMonitoringRouter(log *slog.Logger, reg *prometheus.Registry, storage StoragePinger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Handle("/healthz", NewHealthChecker(storage, log))

	return r
}

// RequestLogger logs every request through slog and records it in the HTTP metrics.
func RequestLogger(log *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				route := routePattern(r)
				duration := time.Since(start)

				if m != nil {
					m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
					m.HTTPDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())
				}

				level := slog.LevelInfo
				if status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				log.LogAttrs(r.Context(), level, "HTTP request",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("route", route),
					slog.Int("status", status),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", duration),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
