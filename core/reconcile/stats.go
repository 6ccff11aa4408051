package reconcile

import (
	"math"
	"sort"
)

// Median returns the middle value of values, averaging the middle pair for even
// lengths. The input is not modified. An empty input yields (0, false).
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	s := sorted(values)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid], true
	}
	return (s[mid-1] + s[mid]) / 2, true
}

// TrimOutliers sorts values and drops floor(len*fraction) entries from each end.
// If trimming would leave nothing, the sorted input is returned unchanged.
func TrimOutliers(values []float64, fraction float64) []float64 {
	s := sorted(values)
	if fraction <= 0 || len(s) == 0 {
		return s
	}
	cut := int(math.Floor(float64(len(s)) * fraction))
	if cut <= 0 || 2*cut >= len(s) {
		return s
	}
	return s[cut : len(s)-cut]
}

// RejectOutliers keeps the values within [low×median, high×median] of the raw
// median. The order of the kept values follows the input.
func RejectOutliers(values []float64, low, high float64) []float64 {
	med, ok := Median(values)
	if !ok || med <= 0 {
		return append([]float64(nil), values...)
	}
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= med*low && v <= med*high {
			kept = append(kept, v)
		}
	}
	return kept
}

// Positive filters out non-positive and non-finite values.
func Positive(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func sorted(values []float64) []float64 {
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	return s
}
