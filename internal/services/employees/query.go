package employees

import (
	"cmp"
	"slices"

	"github.com/UnknownOlympus/employee-store/internal/models"
)

// SortOrder selects how the listing is ordered by years of service.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAscending
	SortDescending
)

// ParseSortOrder maps a query value to a SortOrder. Unknown values mean no sorting.
func ParseSortOrder(value string) SortOrder {
	switch value {
	case "ascending", "uzlazno":
		return SortAscending
	case "descending", "silazno":
		return SortDescending
	default:
		return SortNone
	}
}

// Query describes the listing options. Nil bounds are not applied.
type Query struct {
	SortByYears SortOrder
	Position    string
	MinYears    *float64
	MaxYears    *float64
}

func sortByYears(employees []models.Employee, order SortOrder) {
	switch order {
	case SortAscending:
		slices.SortStableFunc(employees, func(a, b models.Employee) int {
			return cmp.Compare(a.Years(), b.Years())
		})
	case SortDescending:
		slices.SortStableFunc(employees, func(a, b models.Employee) int {
			return cmp.Compare(b.Years(), a.Years())
		})
	case SortNone:
	}
}

func filter(employees []models.Employee, keep func(models.Employee) bool) []models.Employee {
	out := make([]models.Employee, 0, len(employees))
	for _, employee := range employees {
		if keep(employee) {
			out = append(out, employee)
		}
	}
	return out
}

// apply filters the collection by position, then minimum years, then maximum years.
func (q Query) apply(employees []models.Employee) []models.Employee {
	result := slices.Clone(employees)
	if result == nil {
		result = []models.Employee{}
	}

	if q.Position != "" {
		result = filter(result, func(e models.Employee) bool {
			return e.Position() == q.Position
		})
	}

	if q.MinYears != nil {
		result = filter(result, func(e models.Employee) bool {
			return e.Years() >= *q.MinYears
		})
	}

	if q.MaxYears != nil {
		result = filter(result, func(e models.Employee) bool {
			return e.Years() <= *q.MaxYears
		})
	}

	return result
}
