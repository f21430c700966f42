package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected int64
	}{
		{name: "int64", input: int64(42), expected: 42},
		{name: "int", input: int(-100), expected: -100},
		{name: "uint8", input: uint8(255), expected: 255},
		{name: "float64 truncates", input: float64(42.9), expected: 42},
		{name: "float32 truncates", input: float32(99.7), expected: 99},
		{name: "json.Number integer", input: json.Number("10"), expected: 10},
		{name: "json.Number decimal", input: json.Number("3.75"), expected: 3},
		{name: "numeric string", input: " 112 ", expected: 112},
		{name: "non-numeric string", input: "abc", expected: 0},
		{name: "nil", input: nil, expected: 0},
		{name: "bool", input: true, expected: 0},
		{name: "slice", input: []int{1, 2, 3}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToInt64(tt.input))
		})
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
		ok       bool
	}{
		{name: "float64", input: 1.5, expected: 1.5, ok: true},
		{name: "int", input: 7, expected: 7, ok: true},
		{name: "json.Number", input: json.Number("-2.25"), expected: -2.25, ok: true},
		{name: "string", input: "1000.5", expected: 1000.5, ok: true},
		{name: "empty string", input: "", ok: false},
		{name: "formatted string", input: "$1,000.00", ok: false},
		{name: "nil", input: nil, ok: false},
		{name: "bool", input: false, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{name: "string", input: "abc", expected: "abc"},
		{name: "json.Number keeps source text", input: json.Number("100.50"), expected: "100.50"},
		{name: "integral float", input: float64(100), expected: "100"},
		{name: "fractional float", input: 0.25, expected: "0.25"},
		{name: "NaN", input: math.NaN(), expected: "NaN"},
		{name: "int", input: -5, expected: "-5"},
		{name: "uint", input: uint16(9), expected: "9"},
		{name: "bool", input: true, expected: "true"},
		{name: "nil", input: nil, expected: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToString(tt.input))
		})
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected bool
	}{
		{name: "nil", input: nil, expected: false},
		{name: "false", input: false, expected: false},
		{name: "true", input: true, expected: true},
		{name: "empty string", input: "", expected: false},
		{name: "string zero is truthy", input: "0", expected: true},
		{name: "json.Number zero", input: json.Number("0"), expected: false},
		{name: "json.Number non-zero", input: json.Number("0.1"), expected: true},
		{name: "float zero", input: 0.0, expected: false},
		{name: "NaN", input: math.NaN(), expected: false},
		{name: "int non-zero", input: 3, expected: true},
		{name: "empty slice is truthy", input: []interface{}{}, expected: true},
		{name: "map is truthy", input: map[string]interface{}{}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTruthy(tt.input))
		})
	}
}
