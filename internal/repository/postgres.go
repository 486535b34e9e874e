package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/UnknownOlympus/employee-store/internal/metrics"
	"github.com/UnknownOlympus/employee-store/internal/models"
)

// PostgresRepository keeps the collection in the employees table, one JSONB row per record.
// The seq column preserves insertion order.
type PostgresRepository struct {
	db      Database
	metrics *metrics.Metrics
}

// NewPostgresRepository creates a repository on top of the given database pool.
func NewPostgresRepository(db Database, m *metrics.Metrics) *PostgresRepository {
	return &PostgresRepository{db: db, metrics: m}
}

// Load returns all employees ordered by their position in the collection.
func (r *PostgresRepository) Load(ctx context.Context) ([]models.Employee, error) {
	defer observe(r.metrics, backendPostgres, "load", time.Now())

	query := `SELECT record FROM employees ORDER BY seq`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		var raw []byte
		if err = rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}

		employee, decodeErr := models.DecodeEmployee(bytes.NewReader(raw))
		if decodeErr != nil {
			employee = models.Employee{}
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee rows: %w", err)
	}

	return employees, nil
}

// Save replaces the stored collection inside a single transaction.
func (r *PostgresRepository) Save(ctx context.Context, employees []models.Employee) error {
	defer observe(r.metrics, backendPostgres, "save", time.Now())

	insertQuery := `INSERT INTO employees (seq, record) VALUES ($1, $2)`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM employees`); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to clear employees: %w", err)
	}

	for idx, employee := range employees {
		record, marshalErr := json.Marshal(employee)
		if marshalErr != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to encode employee at position %d: %w", idx+1, marshalErr)
		}

		if _, err = tx.Exec(ctx, insertQuery, idx+1, record); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to insert employee at position %d: %w", idx+1, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit employees: %w", err)
	}

	return nil
}

// Ping checks the database connection.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	defer observe(r.metrics, backendPostgres, "ping", time.Now())

	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}
