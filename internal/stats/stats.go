// Package stats provides the descriptive statistics used by the summary
// printer and the chart builders.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes one sample of observations.
type Summary struct {
	N      int
	Mean   float64
	Median float64
	Q1     float64
	Q3     float64
	P95    float64
	Min    float64
	Max    float64
	StdDev float64
}

// Summarize computes a Summary for xs. An empty sample yields a zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sorted := sortedCopy(xs)
	return Summary{
		N:      len(xs),
		Mean:   stat.Mean(sorted, nil),
		Median: quantileSorted(sorted, 0.5),
		Q1:     quantileSorted(sorted, 0.25),
		Q3:     quantileSorted(sorted, 0.75),
		P95:    quantileSorted(sorted, 0.95),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		StdDev: StdDev(xs),
	}
}

// Mean returns the arithmetic mean of xs, or 0 for an empty sample.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Median returns the linearly interpolated median.
func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// Quantile returns the p-quantile of xs using linear interpolation between
// order statistics.
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return quantileSorted(sortedCopy(xs), p)
}

// Variance returns the unbiased sample variance.
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.Variance(xs, nil)
}

// StdDev returns the sample standard deviation.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// StdErr returns the standard error of the mean.
func StdErr(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return StdDev(xs) / math.Sqrt(float64(len(xs)))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func ConfidenceInterval95(xs []float64) (float64, float64) {
	mean := Mean(xs)
	margin := 1.96 * StdErr(xs)
	return mean - margin, mean + margin
}

// MovingAverage smooths xs with a trailing window, keeping only positions
// where the full window fits. The result has len(xs)-window+1 elements; a
// window larger than the sample yields an empty slice.
func MovingAverage(xs []float64, window int) []float64 {
	if window <= 0 || window > len(xs) {
		return nil
	}
	out := make([]float64, 0, len(xs)-window+1)
	var sum float64
	for i, v := range xs {
		sum += v
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// IntHistogram bins integer observations into unit-width bins spanning
// [lo, hi]. Bin i covers [lo+i, lo+i+1), with the final bin closed on the
// right, and is reported at its center. Sharing lo/hi across samples keeps
// multiple histograms comparable.
func IntHistogram(values []int, lo, hi int) (centers, counts []float64) {
	if hi < lo {
		return nil, nil
	}
	n := hi - lo + 1
	centers = make([]float64, n)
	counts = make([]float64, n)
	for i := range centers {
		centers[i] = float64(lo+i) + 0.5
	}
	for _, v := range values {
		idx := v - lo
		if idx < 0 || idx >= n {
			continue
		}
		counts[idx]++
	}
	return centers, counts
}

// IntBounds returns the min and max over all samples, for shared histogram
// binning. ok is false when every sample is empty.
func IntBounds(samples map[string][]int) (lo, hi int, ok bool) {
	for _, vs := range samples {
		for _, v := range vs {
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi, ok
}

func sortedCopy(xs []float64) []float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return sorted
}

func quantileSorted(sorted []float64, p float64) float64 {
	// Linear interpolation between closest ranks, matching the behaviour of
	// the summary figures users already know from the earlier tooling.
	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
