package strain

import "math"

// NumParams is the number of harmonic parameters: offset, amplitude, phase.
const NumParams = 3

// Harmonic evaluates offset + amplitude*cos(2*phi - 2*phase) with
// p = [offset, amplitude, phase].
func Harmonic(phi float64, p []float64) float64 {
	return p[0] + p[1]*math.Cos(2*phi-2*p[2])
}

// Canonical returns the equivalent parameters with amplitude >= 0 and phase in
// (-pi/2, pi/2]. The curve is unchanged.
func Canonical(p []float64) []float64 {
	out := []float64{p[0], p[1], p[2]}
	if out[1] < 0 {
		out[1] = -out[1]
		out[2] += math.Pi / 2
	}
	ph := math.Mod(out[2], math.Pi)
	if ph > math.Pi/2 {
		ph -= math.Pi
	} else if ph <= -math.Pi/2 {
		ph += math.Pi
	}
	out[2] = ph
	return out
}
