// Package types contains shared value conversions and error kinds used across
// multiple packages to avoid import cycles.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToInt64 converts an interface{} to int64.
// Supports the integer kinds, float32/float64, json.Number and numeric strings.
// Anything else converts to 0.
func ToInt64(v interface{}) int64 {
	switch i := v.(type) {
	case int64:
		return i
	case int:
		return int64(i)
	case int32:
		return int64(i)
	case int16:
		return int64(i)
	case int8:
		return int64(i)
	case uint:
		return int64(i)
	case uint64:
		return int64(i)
	case uint32:
		return int64(i)
	case uint16:
		return int64(i)
	case uint8:
		return int64(i)
	case float64:
		return int64(i)
	case float32:
		return int64(i)
	case json.Number:
		if n, err := i.Int64(); err == nil {
			return n
		}
		if f, err := i.Float64(); err == nil {
			return int64(f)
		}
		return 0
	case string:
		f, ok := parseNumber(i)
		if !ok {
			return 0
		}
		return int64(f)
	default:
		return 0
	}
}

// ToFloat64 converts an interface{} to float64. The second result reports
// whether v held a number (or a string that parses as one).
func ToFloat64(v interface{}) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return float64(ToInt64(f)), true
	case json.Number:
		n, err := f.Float64()
		return n, err == nil
	case string:
		return parseNumber(f)
	default:
		return 0, false
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ToString stringifies a decoded JSON value the way a JavaScript String()
// call would for scalars: numbers keep their shortest decimal form, json.Number
// keeps its source text, nil becomes "null".
func ToString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return formatFloat(s)
	case float32:
		return formatFloat(float64(s))
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(ToInt64(s), 10)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", s)
	default:
		return fmt.Sprint(s)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsTruthy reports whether v is truthy under JavaScript rules:
// nil, false, zero, NaN and the empty string are falsy, everything else is truthy.
func IsTruthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String() != ""
		}
		return f != 0 && !math.IsNaN(f)
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ToInt64(t) != 0
	default:
		return true
	}
}
