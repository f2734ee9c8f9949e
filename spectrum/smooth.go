package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrEmptyInput is returned when the input profile has no samples.
	ErrEmptyInput = errors.New("spectrum: empty input")
	// ErrInvalidSigma is returned for a negative or non-finite smoothing width.
	ErrInvalidSigma = errors.New("spectrum: invalid smoothing width")
)

// planPools caches FFT plans by size. Plans carry scratch state, so each
// goroutine takes its own from the pool.
var planPools sync.Map // int -> *sync.Pool

func getPlan(size int) (*algofft.Plan[complex128], error) {
	p, _ := planPools.LoadOrStore(size, &sync.Pool{})
	pool := p.(*sync.Pool)
	if v := pool.Get(); v != nil {
		return v.(*algofft.Plan[complex128]), nil
	}
	return algofft.NewPlan64(size)
}

func putPlan(size int, plan *algofft.Plan[complex128]) {
	if p, ok := planPools.Load(size); ok {
		p.(*sync.Pool).Put(plan)
	}
}

// Smooth convolves y with a Gaussian of standard deviation sigma samples.
// A sigma of zero returns a copy of y.
func Smooth(y []float64, sigma float64) ([]float64, error) {
	n := len(y)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSigma, sigma)
	}

	out := make([]float64, n)
	if sigma == 0 {
		copy(out, y)
		return out, nil
	}

	pad := int(math.Ceil(4 * sigma))
	size := nextPowerOf2(n + 2*pad)

	plan, err := getPlan(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}
	defer putPlan(size, plan)

	buf := make([]complex128, size)
	for i := range buf {
		switch {
		case i < pad:
			buf[i] = complex(y[0], 0)
		case i < pad+n:
			buf[i] = complex(y[i-pad], 0)
		default:
			buf[i] = complex(y[n-1], 0)
		}
	}

	if err := plan.Forward(buf, buf); err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	re := make([]float64, size)
	im := make([]float64, size)
	for i, c := range buf {
		re[i] = real(c)
		im[i] = imag(c)
	}

	h := gaussianResponse(size, sigma)
	vecmath.MulBlockInPlace(re, h)
	vecmath.MulBlockInPlace(im, h)

	for i := range buf {
		buf[i] = complex(re[i], im[i])
	}

	if err := plan.Inverse(buf, buf); err != nil {
		return nil, fmt.Errorf("spectrum: inverse FFT failed: %w", err)
	}

	for i := range out {
		out[i] = real(buf[pad+i])
	}
	return out, nil
}

// ArgMax returns the index of the largest non-NaN value, or -1.
func ArgMax(y []float64) int {
	best := -1
	for i, v := range y {
		if math.IsNaN(v) {
			continue
		}
		if best < 0 || v > y[best] {
			best = i
		}
	}
	return best
}

// SmoothedArgMax returns ArgMax of y after Gaussian smoothing. It falls back
// to the raw maximum when smoothing fails.
func SmoothedArgMax(y []float64, sigma float64) int {
	s, err := Smooth(y, sigma)
	if err != nil {
		return ArgMax(y)
	}
	return ArgMax(s)
}

// gaussianResponse is the DFT of a unit-area Gaussian of width sigma samples,
// evaluated on the size-point frequency grid.
func gaussianResponse(size int, sigma float64) []float64 {
	h := make([]float64, size)
	c := 2 * math.Pi * math.Pi * sigma * sigma
	for k := range h {
		f := float64(k)
		if k > size/2 {
			f -= float64(size)
		}
		f /= float64(size)
		h[k] = math.Exp(-c * f * f)
	}
	return h
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
