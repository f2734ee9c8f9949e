package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails unless got matches want element by element
// within the absolute tolerance eps. A NaN in either slice is a mismatch.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	requireSameLen(t, got, want)
	for i, g := range got {
		if d := math.Abs(g - want[i]); !(d <= eps) {
			t.Fatalf("[%d] = %v, want %v within %g (off by %g)", i, g, want[i], eps, d)
		}
	}
}

// RequireFinite fails on the first NaN or infinity in data. Fitted centres
// and widths use it to check that no lane was left unset.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("[%d] = %v, want a finite value", i, v)
		}
	}
}

// RequireIdentical fails unless got and want hold the same bits per element,
// NaN matching NaN. Worker-count and ordering tests rely on it.
func RequireIdentical(t testing.TB, got, want []float64) {
	t.Helper()
	requireSameLen(t, got, want)
	for i, g := range got {
		gn, wn := math.IsNaN(g), math.IsNaN(want[i])
		if gn != wn || (!gn && g != want[i]) {
			t.Fatalf("[%d] = %v, want %v", i, g, want[i])
		}
	}
}

func requireSameLen(t testing.TB, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
}
