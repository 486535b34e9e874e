package repository

import (
	"context"
	"time"

	"github.com/UnknownOlympus/employee-store/internal/metrics"
	"github.com/UnknownOlympus/employee-store/internal/models"
)

const (
	backendFile     = "file"
	backendPostgres = "postgres"
)

// EmployeeRepoIface represents the interface for loading and storing the employee collection.
// The collection is the unit of persistence: Save replaces everything that was stored before.
type EmployeeRepoIface interface {
	Load(ctx context.Context) ([]models.Employee, error)
	Save(ctx context.Context, employees []models.Employee) error
	Ping(ctx context.Context) error
}

// observe records the duration of a storage operation started at startTime.
func observe(m *metrics.Metrics, backend, operation string, startTime time.Time) {
	if m == nil {
		return
	}
	duration := time.Since(startTime).Seconds()
	m.StorageOpDuration.WithLabelValues(backend, operation).Observe(duration)
}
