package scan

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cwbudde/algo-edxd/core"
	"gonum.org/v1/gonum/floats"
)

// SynthConfig describes a synthetic scan. Every acquisition point carries one
// Gaussian per Q0 entry whose centre is shifted by a known strain harmonic.
type SynthConfig struct {
	// Shape is the scan grid; Dims names its axes.
	Shape []int
	Dims  []string
	// Step is the motor spacing between grid points.
	Step     float64
	SlitSize float64

	Q0         []float64
	QMin, QMax float64
	Bins       int

	// Detectors includes the unused one, which carries background only.
	Detectors      int
	UnusedDetector int

	Sigma      float64
	Height     float64
	Background float64
	Noise      float64
	Seed       int64

	// Offset and Amplitude set the strain harmonic at the grid origin.
	// Amplitude grows and the phase rotates with distance from the origin.
	Offset    float64
	Amplitude float64
}

// DefaultSynthConfig returns a 5 × 4 grid with two peaks on a 24-element ring.
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{
		Shape:          []int{5, 4},
		Dims:           []string{"ss2_x", "ss2_y"},
		Step:           0.5,
		SlitSize:       0.5,
		Q0:             []float64{3.1, 3.6},
		QMin:           2.5,
		QMax:           4.5,
		Bins:           801,
		Detectors:      DefaultDetectors + 1,
		UnusedDetector: UnusedDetector,
		Sigma:          0.02,
		Height:         100,
		Background:     5,
		Noise:          0,
		Seed:           1,
		Offset:         2e-4,
		Amplitude:      1e-3,
	}
}

// Truth is the strain harmonic used at one grid point.
type Truth struct {
	Offset, Amplitude, Phase float64
}

// TruthAt returns the harmonic synthesised at grid index idx for every peak.
// Peak p is scaled by 1 + p/2.
func (c SynthConfig) TruthAt(idx []int) []Truth {
	r := 0.0
	for i, v := range idx {
		d := float64(v) / float64(max(c.Shape[i]-1, 1))
		r += d * d
	}
	r = math.Sqrt(r / float64(max(len(idx), 1)))

	out := make([]Truth, len(c.Q0))
	for p := range out {
		k := 1 + float64(p)/2
		out[p] = Truth{
			Offset:    k * c.Offset * (1 - r),
			Amplitude: k * c.Amplitude * (1 + r),
			Phase:     math.Pi / 4 * (r - 0.5),
		}
	}
	return out
}

func (t Truth) at(phi float64) float64 {
	return t.Offset + t.Amplitude*math.Cos(2*phi-2*t.Phase)
}

// Synthesize builds a dataset from c. The active detectors take the default
// azimuths in order, skipping the unused detector.
func Synthesize(c SynthConfig) (*Dataset, error) {
	if len(c.Shape) != len(c.Dims) {
		return nil, fmt.Errorf("%w: %d axes, %d names", ErrInvalidDataset, len(c.Shape), len(c.Dims))
	}
	if c.Bins < 2 || c.QMax <= c.QMin || c.Detectors < 1 || c.Sigma <= 0 {
		return nil, fmt.Errorf("%w: degenerate synthetic configuration", ErrInvalidDataset)
	}
	unused := c.UnusedDetector
	active := c.Detectors
	if unused >= 0 && unused < c.Detectors {
		active--
	}
	phi := DefaultPhi(active)

	q := floats.Span(make([]float64, c.Bins), c.QMin, c.QMax)
	qa, err := core.FromSlice(q, c.Bins)
	if err != nil {
		return nil, err
	}

	shape := append(append([]int(nil), c.Shape...), c.Detectors, c.Bins)
	I := core.NewArray(shape...)
	rng := rand.New(rand.NewSource(c.Seed))
	lane := make([]int, 0, len(shape)-1)

	core.Ndindex(c.Shape, func(idx []int) {
		truth := c.TruthAt(idx)
		a := 0
		for d := 0; d < c.Detectors; d++ {
			y := I.Lane(append(append(lane[:0], idx...), d)...)
			core.Fill(y, c.Background)
			if d != unused {
				for p, q0 := range c.Q0 {
					centre := q0 * (1 - truth[p].at(phi[a]))
					for i, x := range q {
						dx := x - centre
						y[i] += c.Height * math.Exp(-dx*dx/(2*c.Sigma*c.Sigma))
					}
				}
				a++
			}
			if c.Noise > 0 {
				for i := range y {
					y[i] += c.Noise * rng.NormFloat64()
				}
			}
		}
	})

	coords := make(map[string][]float64, len(c.Dims))
	parts := []string{"scan"}
	for i, name := range c.Dims {
		n := c.Shape[i]
		lo := -c.Step * float64(n-1) / 2
		axis := make([]float64, n)
		for j := range axis {
			axis[j] = lo + c.Step*float64(j)
		}
		coords[name] = axis
		parts = append(parts, fmt.Sprintf("%s %g %g %g", name, lo, -lo, c.Step))
	}
	parts = append(parts, "edxd 1")
	cmd := strings.Join(parts, " ")

	return &Dataset{
		Q:           qa,
		I:           I,
		ScanCommand: cmd,
		Dims:        ScanDims(cmd),
		SlitSize:    c.SlitSize,
		Coords:      coords,
	}, nil
}
