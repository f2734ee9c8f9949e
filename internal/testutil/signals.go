package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-edxd/core"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Linspace returns n evenly spaced values over [start, stop], both included.
func Linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	out[n-1] = stop
	return out
}

// GaussianPeak evaluates background + height*exp(-(x-center)^2 / (2 sigma^2)).
func GaussianPeak(x []float64, background, height, center, sigma float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		d := v - center
		out[i] = background + height*math.Exp(-d*d/(2*sigma*sigma))
	}
	return out
}

// Harmonic is an azimuthal strain variation
// Offset + Amplitude*cos(2*phi - 2*Phase).
type Harmonic struct {
	Offset    float64
	Amplitude float64
	Phase     float64
}

// At evaluates the harmonic at angle phi.
func (h Harmonic) At(phi float64) float64 {
	return h.Offset + h.Amplitude*math.Cos(2*phi-2*h.Phase)
}

// RingSpectra builds an intensity array shaped scan × len(phi) × len(q).
// Each detector spectrum holds one Gaussian per nominal centre in q0, shifted
// to q0*(1-strain) where strain comes from the harmonic returned by h for the
// scan index and peak.
func RingSpectra(scan []int, q, phi, q0 []float64, sigma float64, h func(idx []int, peak int) Harmonic) *core.Array {
	shape := append(append([]int(nil), scan...), len(phi), len(q))
	out := core.NewArray(shape...)

	core.Ndindex(scan, func(idx []int) {
		for d, angle := range phi {
			lane := out.Lane(append(append([]int(nil), idx...), d)...)
			for i := range lane {
				lane[i] = 5
			}
			for p, c := range q0 {
				center := c * (1 - h(idx, p).At(angle))
				for i, x := range q {
					dx := x - center
					lane[i] += 100 * math.Exp(-dx*dx/(2*sigma*sigma))
				}
			}
		}
	})
	return out
}
