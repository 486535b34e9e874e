package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/UnknownOlympus/employee-store/internal/lib/logger/sl"
	"github.com/UnknownOlympus/employee-store/internal/metrics"
	"github.com/UnknownOlympus/employee-store/internal/models"
	"github.com/UnknownOlympus/employee-store/internal/repository"
)

var (
	ErrNotFound = errors.New("employee not found")
	ErrStorage  = errors.New("employee storage failure")
)

// ValidationError reports a record or request that failed validation.
// Reason is safe to return to the client.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Staff serves the employee collection. Every call loads the collection from the repository
// and revalidates all stored records before doing anything else.
type Staff struct {
	log     *slog.Logger
	repo    repository.EmployeeRepoIface
	metrics *metrics.Metrics

	// mu serialises load-modify-save in Create against every other access.
	mu sync.RWMutex
}

func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, m *metrics.Metrics) *Staff {
	return &Staff{log: log, repo: repo, metrics: m}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		sl.Op(opn),
		slog.String("division", "employee"),
	)
}

// List returns the collection sorted and filtered according to the query.
func (s *Staff) List(ctx context.Context, query Query) ([]models.Employee, error) {
	const opn = "Employee.List"
	log := s.initLogger(opn)

	s.mu.RLock()
	defer s.mu.RUnlock()

	employees, err := s.loadValid(ctx, log, "list")
	if err != nil {
		return nil, err
	}

	sortByYears(employees, query.SortByYears)

	if query.MinYears != nil && query.MaxYears != nil && *query.MinYears > *query.MaxYears {
		return nil, &ValidationError{Reason: "min_years must be less than or equal to max_years"}
	}

	result := query.apply(employees)
	log.DebugContext(ctx, "Employees listed", "total", len(employees), "returned", len(result))

	return result, nil
}

// GetByID returns the first employee whose numeric id equals id.
func (s *Staff) GetByID(ctx context.Context, id float64) (models.Employee, error) {
	const opn = "Employee.GetByID"
	log := s.initLogger(opn)

	s.mu.RLock()
	defer s.mu.RUnlock()

	employees, err := s.loadValid(ctx, log, "get")
	if err != nil {
		return nil, err
	}

	for _, employee := range employees {
		if employeeID, ok := employee.ID(); ok && employeeID == id {
			return employee, nil
		}
	}

	log.DebugContext(ctx, "Employee not found", "id", id)
	return nil, ErrNotFound
}

// Create assigns an id to input, validates it, appends it to the collection and persists the
// whole collection. It returns only after the collection has been saved.
func (s *Staff) Create(ctx context.Context, input models.Employee) (models.Employee, error) {
	const opn = "Employee.Create"
	log := s.initLogger(opn)

	s.mu.Lock()
	defer s.mu.Unlock()

	employees, err := s.loadValid(ctx, log, "create")
	if err != nil {
		return nil, err
	}

	employee := input.Clone()
	employee[models.FieldID] = NextID(employees)

	if reason := Validate(employee); reason != "" {
		s.validationFailed("create")
		log.InfoContext(ctx, "New employee rejected", "reason", reason)
		return nil, &ValidationError{Reason: reason}
	}

	employees = append(employees, employee)

	if err = s.repo.Save(ctx, employees); err != nil {
		log.ErrorContext(ctx, "Failed to save employees", sl.Err(err))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if s.metrics != nil {
		s.metrics.EmployeesCreated.Inc()
		s.metrics.CollectionSize.Set(float64(len(employees)))
	}
	log.InfoContext(ctx, "Employee created", "id", employee[models.FieldID])

	return employee, nil
}

// maxExactID is the largest id every stored number can still represent exactly.
const maxExactID = 1 << 53

// NextID returns the id for a new record: the collection length plus one, or one past the
// highest stored id when that value is already taken. When the highest id is too large to
// step past, the first free id above the length is used.
func NextID(employees []models.Employee) int {
	next := len(employees) + 1

	taken := make(map[float64]struct{}, len(employees))
	highest := math.Inf(-1)
	for _, employee := range employees {
		id, ok := employee.ID()
		if !ok {
			continue
		}
		taken[id] = struct{}{}
		highest = max(highest, id)
	}

	if _, ok := taken[float64(next)]; !ok {
		return next
	}

	if highest < maxExactID {
		return int(math.Floor(highest)) + 1
	}

	for {
		next++
		if _, ok := taken[float64(next)]; !ok {
			return next
		}
	}
}

func (s *Staff) loadValid(ctx context.Context, log *slog.Logger, operation string) ([]models.Employee, error) {
	employees, err := s.repo.Load(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load employees", sl.Err(err))
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if s.metrics != nil {
		s.metrics.CollectionSize.Set(float64(len(employees)))
	}

	if reason := ValidateAll(employees); reason != "" {
		s.validationFailed(operation)
		log.InfoContext(ctx, "Stored employees failed validation", "reason", reason)
		return nil, &ValidationError{Reason: reason}
	}

	return employees, nil
}

func (s *Staff) validationFailed(operation string) {
	if s.metrics != nil {
		s.metrics.ValidationFailures.WithLabelValues(operation).Inc()
	}
}
