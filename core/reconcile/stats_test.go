package reconcile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
		ok   bool
	}{
		{"Empty", nil, 0, false},
		{"Single", []float64{4}, 4, true},
		{"Odd", []float64{9, 1, 5}, 5, true},
		{"Even", []float64{1, 10, 4, 2}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Median(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestMedian_OrderInvariant(t *testing.T) {
	perms := [][]float64{
		{3, 1, 4, 1.5, 9},
		{9, 4, 3, 1.5, 1},
		{1, 1.5, 3, 4, 9},
		{4, 9, 1, 3, 1.5},
	}
	want, _ := Median(perms[0])
	for _, p := range perms {
		got, _ := Median(p)
		assert.Equal(t, want, got)
	}

	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in, "input must not be reordered")
}

func TestTrimOutliers(t *testing.T) {
	in := []float64{100, 1, 5, 6, 7, 5.5, 6.5, 5.8, 6.2, 0.1}

	trimmed := TrimOutliers(in, 0.2)
	assert.Equal(t, []float64{5, 5.5, 5.8, 6, 6.2, 6.5}, trimmed)

	assert.Len(t, TrimOutliers([]float64{1, 2, 3, 4}, 0.2), 4, "floor(0.8) trims nothing")
	assert.Equal(t, []float64{1, 2}, TrimOutliers([]float64{2, 1}, 0.5))
	assert.Empty(t, TrimOutliers(nil, 0.2))
}

func TestRejectOutliers(t *testing.T) {
	got := RejectOutliers([]float64{10, 12, 11, 40, 2}, 0.5, 2.0)
	assert.Equal(t, []float64{10, 12, 11}, got)
}

func TestPositive(t *testing.T) {
	got := Positive([]float64{1, 0, -2, math.Inf(1), math.NaN(), 3})
	assert.Equal(t, []float64{1, 3}, got)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "£12.50", FormatMoney(12.5, "GBP"))
	assert.Equal(t, "£0.10", FormatMoney(0.1, "GBP"))
	assert.Equal(t, 10.13, RoundPennies(10.125000001))
}
