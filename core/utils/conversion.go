package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ToInt converts various types to int using explicit type switching.
// It handles standard integer types, floats, strings, and byte slices.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string:
		return int(ToFloat(v))
	case []byte:
		return int(ToFloat(string(v)))
	case nil:
		return 0
	default:
		i, _ := strconv.Atoi(fmt.Sprintf("%v", v))
		return i
	}
}

var numberNoise = regexp.MustCompile(`[^0-9.\-]`)

// ToFloat converts various types to float64.
// Strings may carry currency symbols, thousands separators or padding
// ("£1,234.50" -> 1234.5). Anything unparseable or non-finite yields 0.
func ToFloat(val any) float64 {
	var f float64
	switch v := val.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case string:
		s := numberNoise.ReplaceAllString(strings.TrimSpace(v), "")
		f, _ = strconv.ParseFloat(s, 64)
	case []byte:
		return ToFloat(string(v))
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var headerNoise = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeHeader folds a column header to a comparable form:
// lower case, with every run of non-alphanumerics dropped ("Card ID" -> "cardid").
func NormalizeHeader(h string) string {
	return headerNoise.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "")
}
