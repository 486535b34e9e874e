package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/UnknownOlympus/employee-store/internal/config"
	employeehandler "github.com/UnknownOlympus/employee-store/internal/handler/employees"
	"github.com/UnknownOlympus/employee-store/internal/lib/logger/sl"
	"github.com/UnknownOlympus/employee-store/internal/metrics"
	"github.com/UnknownOlympus/employee-store/internal/repository"
	"github.com/UnknownOlympus/employee-store/internal/server"
	"github.com/UnknownOlympus/employee-store/internal/services/employees"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup
	delta := 2

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	repo, closeRepo := setupRepository(ctx, cfg, appMetrics, logger)
	defer closeRepo()

	staff := employees.NewStaff(logger, repo, appMetrics)
	router := server.NewRouter(logger, appMetrics, employeehandler.New(staff, logger))

	wgr.Add(delta)

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, repo, cfg.Monitoring.Port)
	}()

	go func() {
		defer wgr.Done()
		logger.InfoContext(ctx, "Starting Employee API", "port", cfg.HTTP.Port, "storage", cfg.Storage.Driver)
		srv := server.New(cfg.HTTP.Port, router, cfg.HTTP.ReadHeaderTimeout)
		if err := server.Run(ctx, srv, cfg.HTTP.ShutdownTimeout); err != nil {
			logger.ErrorContext(ctx, "Employee API failed", sl.Err(err))
			stop()
		}
		logger.InfoContext(ctx, "Employee API stopped.")
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// setupRepository opens the storage backend selected in the configuration.
func setupRepository(
	ctx context.Context,
	cfg *config.Config,
	appMetrics *metrics.Metrics,
	logger *slog.Logger,
) (repository.EmployeeRepoIface, func()) {
	if cfg.Storage.Driver == config.DriverPostgres {
		dtb, err := repository.NewDatabase(ctx, cfg.Postgres)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		return repository.NewPostgresRepository(dtb, appMetrics), dtb.Close
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.FilePath), 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	logger.Debug("Using file storage", "path", cfg.Storage.FilePath)

	return repository.NewFileRepository(cfg.Storage.FilePath, appMetrics), func() {}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
