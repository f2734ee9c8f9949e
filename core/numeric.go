package core

import "math"

// defaultTolerance is used by NearlyEqual for a non-positive eps.
const defaultTolerance = 1e-12

// Clamp bounds a parameter such as a pseudo-Voigt mixing fraction to
// [lo, hi]. Swapped bounds are accepted.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// NearlyEqual compares peak positions and strains. eps is an absolute
// tolerance near zero and a relative one for larger magnitudes. NaN never
// compares equal.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultTolerance
	}
	d := math.Abs(a - b)
	if d <= eps {
		return true
	}
	return d <= eps*math.Max(math.Abs(a), math.Abs(b))
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllFinite reports whether every value in xs is finite.
func AllFinite(xs []float64) bool {
	for _, x := range xs {
		if !IsFinite(x) {
			return false
		}
	}
	return true
}

// Fill sets every value in buf to v.
func Fill(buf []float64, v float64) {
	for i := range buf {
		buf[i] = v
	}
}
