// Package nanstat provides reductions that ignore NaN samples, mirroring the
// nan-aware reductions used throughout strain analysis.
package nanstat

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Count returns the number of non-NaN values in x.
func Count(x []float64) int {
	n := 0
	for _, v := range x {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Valid returns the non-NaN values of x and their positions.
// Both slices are freshly allocated.
func Valid(x []float64) (values []float64, idx []int) {
	values = make([]float64, 0, len(x))
	idx = make([]int, 0, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
		idx = append(idx, i)
	}
	return values, idx
}

// Take returns x[idx[i]] for each i.
func Take(x []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = x[j]
	}
	return out
}

// Mean returns the mean of the non-NaN values in x, or NaN if there are none.
func Mean(x []float64) float64 {
	v, _ := Valid(x)
	if len(v) == 0 {
		return math.NaN()
	}
	return floats.Sum(v) / float64(len(v))
}

// MeanStd returns the mean and population standard deviation of the non-NaN
// values in x. Both are NaN if x has no valid values.
func MeanStd(x []float64) (mean, std float64) {
	v, _ := Valid(x)
	if len(v) == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.PopMeanStdDev(v, nil)
}

// MeanAxis0 averages rows column-wise, ignoring NaN entries. Rows shorter
// than the widest row contribute nothing to the missing columns.
func MeanAxis0(rows [][]float64) []float64 {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	out := make([]float64, width)
	col := make([]float64, 0, len(rows))
	for j := range out {
		col = col[:0]
		for _, r := range rows {
			if j < len(r) {
				col = append(col, r[j])
			}
		}
		out[j] = Mean(col)
	}
	return out
}
