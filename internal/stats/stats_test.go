package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	xs := []float64{4, 1, 3, 2, 5}
	s := Summarize(xs)

	assert.Equal(t, 5, s.N)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.InDelta(t, 3.0, s.Median, 1e-9)
	assert.InDelta(t, 2.0, s.Q1, 1e-9)
	assert.InDelta(t, 4.0, s.Q3, 1e-9)
	assert.InDelta(t, 1.0, s.Min, 1e-9)
	assert.InDelta(t, 5.0, s.Max, 1e-9)
	// Sample variance of 1..5 is 2.5.
	assert.InDelta(t, 1.5811388, s.StdDev, 1e-6)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestQuantileInterpolates(t *testing.T) {
	xs := []float64{10, 20, 30, 40}
	assert.InDelta(t, 25.0, Median(xs), 1e-9)
	assert.InDelta(t, 17.5, Quantile(xs, 0.25), 1e-9)
	assert.InDelta(t, 40.0, Quantile(xs, 1.0), 1e-9)
	assert.InDelta(t, 10.0, Quantile(xs, 0.0), 1e-9)
}

func TestConfidenceInterval(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	low, high := ConfidenceInterval95(xs)
	assert.Less(t, low, Mean(xs))
	assert.Greater(t, high, Mean(xs))
	assert.InDelta(t, Mean(xs)-low, high-Mean(xs), 1e-9)
}

func TestMovingAverage(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}

	got := MovingAverage(xs, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 2.0, got[0], 1e-9)
	assert.InDelta(t, 3.0, got[1], 1e-9)
	assert.InDelta(t, 4.0, got[2], 1e-9)

	assert.Nil(t, MovingAverage(xs, 6))
	assert.Nil(t, MovingAverage(xs, 0))
	assert.Len(t, MovingAverage(xs, 1), 5)
}

func TestIntHistogram(t *testing.T) {
	centers, counts := IntHistogram([]int{3, 3, 4, 6}, 3, 6)
	require.Len(t, centers, 4)
	assert.Equal(t, []float64{3.5, 4.5, 5.5, 6.5}, centers)
	assert.Equal(t, []float64{2, 1, 0, 1}, counts)

	// Out-of-range observations are dropped rather than clamped.
	_, counts = IntHistogram([]int{1, 10}, 3, 6)
	assert.Equal(t, []float64{0, 0, 0, 0}, counts)
}

func TestIntBounds(t *testing.T) {
	lo, hi, ok := IntBounds(map[string][]int{
		"a": {7, 3, 9},
		"b": {5, 12},
		"c": {},
	})
	require.True(t, ok)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 12, hi)

	_, _, ok = IntBounds(map[string][]int{"empty": {}})
	assert.False(t, ok)
}
