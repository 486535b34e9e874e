package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/UnknownOlympus/employee-store/internal/metrics"
	"github.com/UnknownOlympus/employee-store/internal/models"
)

const filePerm = 0o644

// FileRepository stores the whole employee collection as one JSON array on disk.
type FileRepository struct {
	path    string
	metrics *metrics.Metrics
}

// NewFileRepository creates a repository backed by the JSON file at path.
// A relative path is resolved against the process working directory.
func NewFileRepository(path string, m *metrics.Metrics) *FileRepository {
	return &FileRepository{path: path, metrics: m}
}

// Path returns the location of the collection file.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and parses the collection. A file that does not exist yet is an empty collection.
func (r *FileRepository) Load(ctx context.Context) ([]models.Employee, error) {
	defer observe(r.metrics, backendFile, "load", time.Now())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Employee{}, nil
		}
		return nil, fmt.Errorf("failed to open employee file %s: %w", r.path, err)
	}
	defer file.Close()

	employees, err := models.DecodeCollection(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read employee file %s: %w", r.path, err)
	}

	return employees, nil
}

// Save overwrites the collection. The data is written to a temporary file in the same
// directory first and then renamed over the target, so readers see either the old or the new file.
func (r *FileRepository) Save(ctx context.Context, employees []models.Employee) error {
	defer observe(r.metrics, backendFile, "save", time.Now())

	if err := ctx.Err(); err != nil {
		return err
	}

	if employees == nil {
		employees = []models.Employee{}
	}

	data, err := json.Marshal(employees)
	if err != nil {
		return fmt.Errorf("failed to encode employees: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write employees: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync employee file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close employee file: %w", err)
	}
	if err = os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set employee file permissions: %w", err)
	}

	if err = os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace employee file %s: %w", r.path, err)
	}

	return nil
}

// Ping checks that the directory holding the collection is reachable.
func (r *FileRepository) Ping(ctx context.Context) error {
	defer observe(r.metrics, backendFile, "ping", time.Now())

	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", dir)
	}

	return nil
}
