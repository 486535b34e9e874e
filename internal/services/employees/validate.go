package employees

import (
	"strings"

	"github.com/UnknownOlympus/employee-store/internal/models"
)

const (
	reasonNotNumbers = "id and godine_staza must be numbers"
	reasonNotStrings = "ime, prezime and pozicija must be strings"
)

// Validate checks the shape of a single record and returns the reason it is invalid,
// or an empty string when it is valid. Checks short-circuit at the first failure.
func Validate(employee models.Employee) string {
	var missing []string
	for _, field := range models.RequiredFields {
		if _, ok := employee[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return "missing required fields: " + strings.Join(missing, ", ")
	}

	_, idOK := models.ToNumber(employee[models.FieldID])
	_, yearsOK := models.ToNumber(employee[models.FieldYears])
	if !idOK || !yearsOK {
		return reasonNotNumbers
	}

	for _, field := range []string{models.FieldFirstName, models.FieldLastName, models.FieldPosition} {
		if _, ok := employee[field].(string); !ok {
			return reasonNotStrings
		}
	}

	return ""
}

// ValidateAll returns the reason of the first invalid record in the collection.
func ValidateAll(employees []models.Employee) string {
	for _, employee := range employees {
		if reason := Validate(employee); reason != "" {
			return reason
		}
	}

	return ""
}
