package models_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/UnknownOlympus/employee-store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{in: json.Number("3"), want: 3, ok: true},
		{in: json.Number("1e400"), want: math.Inf(1), ok: true},
		{in: 2.5, want: 2.5, ok: true},
		{in: 4, want: 4, ok: true},
		{in: " 7 ", want: 7, ok: true},
		{in: "-1.5e2", want: -150, ok: true},
		{in: ".5", want: 0.5, ok: true},
		{in: "0x1A", want: 26, ok: true},
		{in: "0b101", want: 5, ok: true},
		{in: "Infinity", want: math.Inf(1), ok: true},
		{in: "-Infinity", want: math.Inf(-1), ok: true},
		{in: "", want: 0, ok: true},
		{in: " \t", want: 0, ok: true},
		{in: nil, want: 0, ok: true},
		{in: false, want: 0, ok: true},
		{in: true, want: 1, ok: true},
		{in: []any{}, want: 0, ok: true},
		{in: []any{json.Number("4")}, want: 4, ok: true},
		{in: []any{"6"}, want: 6, ok: true},
		{in: []any{nil}, want: 0, ok: true},
		{in: "abc", ok: false},
		{in: "NaN", ok: false},
		{in: "inf", ok: false},
		{in: "infinity", ok: false},
		{in: "0x", ok: false},
		{in: "-0x1A", ok: false},
		{in: "0x1p-2", ok: false},
		{in: "1_000", ok: false},
		{in: "1e", ok: false},
		{in: math.NaN(), ok: false},
		{in: []any{true}, ok: false},
		{in: []any{1, 2}, ok: false},
		{in: map[string]any{}, ok: false},
	}

	for _, tt := range tests {
		got, ok := models.ToNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "input %#v", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "input %#v", tt.in)
		}
	}
}

func TestEmployeeAccessors(t *testing.T) {
	t.Parallel()

	employee := models.Employee{"id": json.Number("4"), "godine_staza": "12", "pozicija": "dev"}

	id, ok := employee.ID()
	require.True(t, ok)
	assert.InDelta(t, 4, id, 0)
	assert.InDelta(t, 12, employee.Years(), 0)
	assert.Equal(t, "dev", employee.Position())

	for _, id := range []any{"4", nil, true} {
		_, ok = models.Employee{"id": id}.ID()
		assert.False(t, ok, "id %#v is not a numeric id", id)
	}
	assert.InDelta(t, 0, models.Employee{"godine_staza": nil}.Years(), 0)
	assert.Empty(t, models.Employee{"pozicija": 1}.Position())
}

func TestClone(t *testing.T) {
	t.Parallel()

	original := models.Employee{"ime": "Ana"}
	clone := original.Clone()
	clone["id"] = 1

	assert.NotContains(t, original, "id")
}

func TestDecodeCollection(t *testing.T) {
	t.Parallel()

	employees, err := models.DecodeCollection(strings.NewReader(`[{"id":1,"extra":{"a":true}}, 5, null]`))

	require.NoError(t, err)
	require.Len(t, employees, 3)
	assert.Equal(t, json.Number("1"), employees[0]["id"])
	assert.Equal(t, map[string]any{"a": true}, employees[0]["extra"])
	assert.Empty(t, employees[1])
	assert.Empty(t, employees[2])

	empty, err := models.DecodeCollection(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = models.DecodeCollection(strings.NewReader(`null`))
	require.ErrorIs(t, err, models.ErrNotArray)

	_, err = models.DecodeCollection(strings.NewReader(`{"id":1}`))
	require.Error(t, err)
}

func TestDecodeEmployee(t *testing.T) {
	t.Parallel()

	employee, err := models.DecodeEmployee(strings.NewReader(`{"ime":"Ana","godine_staza":2}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("2"), employee["godine_staza"])

	_, err = models.DecodeEmployee(strings.NewReader(`[1]`))
	require.ErrorIs(t, err, models.ErrNotObject)

	_, err = models.DecodeEmployee(strings.NewReader(`{`))
	require.Error(t, err)
}
