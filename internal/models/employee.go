package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Field names of an employee record as they appear in the stored JSON document.
const (
	FieldID        = "id"
	FieldFirstName = "ime"
	FieldLastName  = "prezime"
	FieldYears     = "godine_staza"
	FieldPosition  = "pozicija"
)

// RequiredFields lists every key a valid employee record must carry, in validation order.
var RequiredFields = []string{FieldID, FieldFirstName, FieldLastName, FieldYears, FieldPosition}

var (
	ErrNotObject = errors.New("employee must be a JSON object")
	ErrNotArray  = errors.New("employee collection must be a JSON array")
)

// Employee represents one employee record.
// It is kept as a raw JSON object so keys outside the required set are stored and returned untouched.
type Employee map[string]any

// ID returns the identifier when it is stored as a JSON number. Numeric strings, null and
// booleans do not count, lookups compare identifiers strictly.
func (e Employee) ID() (float64, bool) {
	switch val := e[FieldID].(type) {
	case json.Number, float64, int, int64:
		return ToNumber(val)
	default:
		return 0, false
	}
}

// Years returns years of service coerced to a number, zero when it is not numeric.
func (e Employee) Years() float64 {
	years, _ := ToNumber(e[FieldYears])
	return years
}

// Position returns the position, or an empty string when it is not a string.
func (e Employee) Position() string {
	position, _ := e[FieldPosition].(string)
	return position
}

// Clone returns a shallow copy of the record.
func (e Employee) Clone() Employee {
	out := make(Employee, len(e)+1)
	for key, val := range e {
		out[key] = val
	}
	return out
}

// ToNumber coerces a decoded JSON value to a number. It reports false only when the value has
// no numeric reading at all:
//   - null and false are 0, true is 1
//   - blank strings are 0, other strings must hold a decimal literal, Infinity, or a
//     0x/0o/0b integer
//   - an empty array is 0, a single element array is its element, anything else is not a number
//
// Infinities are numbers.
func ToNumber(val any) (float64, bool) {
	switch typed := val.(type) {
	case nil:
		return 0, true
	case bool:
		if typed {
			return 1, true
		}
		return 0, true
	case json.Number:
		return parseNumber(string(typed))
	case float64:
		return typed, !math.IsNaN(typed)
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		return parseNumber(typed)
	case []any:
		switch len(typed) {
		case 0:
			return 0, true
		case 1:
			// A lone boolean reads as "true" or "false", which is not numeric.
			if _, isBool := typed[0].(bool); isBool {
				return 0, false
			}
			return ToNumber(typed[0])
		}
		return 0, false
	default:
		return 0, false
	}
}

func parseNumber(raw string) (float64, bool) {
	str := strings.TrimSpace(raw)

	switch str {
	case "":
		return 0, true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(str) > 2 && str[0] == '0' {
		if base, ok := integerBases[str[1]]; ok {
			digits := str[2:]
			if digits[0] == '+' || digits[0] == '-' {
				return 0, false
			}
			num, ok := new(big.Int).SetString(digits, base)
			if !ok {
				return 0, false
			}
			f, _ := new(big.Float).SetInt(num).Float64()
			return f, true
		}
	}

	if strings.Trim(str, "0123456789+-.eE") != "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(str, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}

	return f, true
}

var integerBases = map[byte]int{'x': 16, 'X': 16, 'o': 8, 'O': 8, 'b': 2, 'B': 2}

// DecodeCollection decodes a JSON array of employees. Elements that are not JSON objects
// become empty records, so they fail validation instead of failing the whole decode.
// A document that is not an array, including null, is an error.
func DecodeCollection(in io.Reader) ([]Employee, error) {
	var raw []json.RawMessage

	dec := json.NewDecoder(in)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode employee collection: %w", err)
	}
	if raw == nil {
		return nil, ErrNotArray
	}

	employees := make([]Employee, 0, len(raw))
	for _, item := range raw {
		employee, err := DecodeEmployee(bytes.NewReader(item))
		if err != nil {
			employee = Employee{}
		}
		employees = append(employees, employee)
	}

	return employees, nil
}

// DecodeEmployee decodes a single JSON object, keeping numbers as json.Number.
func DecodeEmployee(in io.Reader) (Employee, error) {
	var value any

	dec := json.NewDecoder(in)
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to decode employee: %w", err)
	}

	object, ok := value.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}

	return Employee(object), nil
}
