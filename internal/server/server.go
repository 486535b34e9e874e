package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// New builds an http.Server listening on the given port.
func New(port int, handler http.Handler, readHeaderTimeout time.Duration) *http.Server {
	idleTimeout := 120 * time.Second
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// Run serves srv until ctx is cancelled, then shuts it down within shutdownTimeout.
func Run(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// StartMonitoringServer serves /metrics and /healthz on port until ctx is cancelled.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	storage StoragePinger,
	port int,
) {
	readHeaderTimeout := 5 * time.Second
	shutdownTimeout := 5 * time.Second

	srv := New(port, NewMonitoringRouter(log, reg, storage), readHeaderTimeout)

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	if err := Run(ctx, srv, shutdownTimeout); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
		return
	}
	log.InfoContext(ctx, "Monitoring server stopped.")
}
