// Package summary computes the five summary statistics every feature set
// reports for a list of observations.
package summary

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

type Stats struct {
	Max    float64
	Min    float64
	Mean   float64
	Median float64
	StdDev float64
}

// Describe returns summary statistics for values. All fields are NaN when
// values is empty. StdDev is the population standard deviation, matching
// the convention of the rest of this module.
func Describe(values []float64) Stats {
	var s Stats
	if len(values) == 0 {
		nan := math.NaN()
		s.Max, s.Min, s.Mean, s.Median, s.StdDev = nan, nan, nan, nan, nan
		return s
	}
	s.Mean = stat.Mean(values, nil)
	s.StdDev = popStdDev(values, s.Mean)
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Median = median(sorted)
	return s
}

// AddTo writes the five statistics into feats under <prefix>_max etc.
func (s Stats) AddTo(feats map[string]float64, prefix string) {
	feats[prefix+`_max`] = s.Max
	feats[prefix+`_min`] = s.Min
	feats[prefix+`_mean`] = s.Mean
	feats[prefix+`_med`] = s.Median
	feats[prefix+`_std`] = s.StdDev
}

// Sum is a plain sum, NaN-free by construction of its callers.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// Mean over values ignoring NaN entries; NaN when none remain.
func NaNMean(values []float64) float64 {
	var total float64
	var count int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		total += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return total / float64(count)
}

// median of an already sorted slice, averaging the middle pair.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2.0
}

// popStdDev divides by n rather than n-1. gonum's stat.StdDev is the
// sample deviation, which would shift every historical feature value.
func popStdDev(values []float64, mean float64) float64 {
	var total float64
	for _, v := range values {
		d := v - mean
		total += d * d
	}
	return math.Sqrt(total / float64(len(values)))
}
