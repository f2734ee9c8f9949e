package strain

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/internal/lsq"
	"github.com/cwbudde/algo-edxd/nanstat"
)

// MinSamples is the fewest valid detectors a harmonic fit accepts.
const MinSamples = NumParams

const chunksPerWorker = 4

var (
	// ErrInsufficientSamples is recorded when fewer than MinSamples detectors
	// hold a finite strain. No fit is attempted.
	ErrInsufficientSamples = errors.New("strain: insufficient valid detectors")

	// ErrNoConvergence is recorded when the harmonic fit fails.
	ErrNoConvergence = lsq.ErrNoConvergence
)

// Failure records one harmonic fit that left NaN parameters.
type Failure struct {
	// Index addresses the scan point.
	Index []int
	Peak  int
	Err   error
}

// HarmonicFit holds scan × peak × 3 parameters [offset, amplitude, phase].
type HarmonicFit struct {
	Params *core.Array

	Attempted int
	// Failures is ordered by peak, then by row-major scan index.
	Failures []Failure
}

// FailureCount returns the number of failed fits.
func (h *HarmonicFit) FailureCount() int { return len(h.Failures) }

// Count returns the number of failures matching target with errors.Is.
func (h *HarmonicFit) Count(target error) int {
	n := 0
	for _, f := range h.Failures {
		if errors.Is(f.Err, target) {
			n++
		}
	}
	return n
}

// FullRing fits the harmonic model across the detector axis of strain for
// every scan point and peak.
//
// strain is shaped scan × detector × peak and phi holds one angle per
// detector. NaN strain values are skipped independently for each peak.
func FullRing(ctx context.Context, strain *core.Array, phi []float64, opts ...Option) (*HarmonicFit, error) {
	cfg := ApplyOptions(opts...)

	shape := strain.Shape()
	if len(shape) < 2 {
		return nil, fmt.Errorf("strain: %w: need detector and peak axes, got shape %v", core.ErrShapeMismatch, shape)
	}
	nDet, nPeaks := shape[len(shape)-2], shape[len(shape)-1]
	if nDet != len(phi) {
		return nil, fmt.Errorf("strain: %w: %d detectors, %d angles", core.ErrShapeMismatch, nDet, len(phi))
	}

	scan := shape[:len(shape)-2]
	nScan := core.ShapeLen(scan)
	res := &HarmonicFit{
		Params:    core.NewNaNArray(append(append([]int(nil), scan...), nPeaks, NumParams)...),
		Attempted: nScan * nPeaks,
	}
	total := res.Attempted
	if total == 0 {
		return res, nil
	}

	workers := max(cfg.Workers, 1)
	chunk := max(total/(workers*chunksPerWorker), 1)
	nChunks := (total + chunk - 1) / chunk
	failures := make([][]Failure, nChunks)

	data := strain.Data()
	params := res.Params.Data()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for c := 0; c < nChunks; c++ {
		start := c * chunk
		end := min(start+chunk, total)

		g.Go(func() error {
			y := make([]float64, nDet)
			var local []Failure
			for k := start; k < end; k++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				p, s := k/nScan, k%nScan
				for d := range y {
					y[d] = data[(s*nDet+d)*nPeaks+p]
				}

				fitted, err := fitRing(phi, y, cfg)
				if err != nil {
					local = append(local, Failure{
						Index: core.Unravel(s, scan, nil),
						Peak:  p,
						Err:   err,
					})
					continue
				}
				copy(params[(s*nPeaks+p)*NumParams:], fitted)
			}
			failures[c] = local
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, f := range failures {
		res.Failures = append(res.Failures, f...)
	}

	if n := res.FailureCount(); n > 0 {
		cfg.Logger.Warn("unable to fit full ring data",
			"failed", n,
			"attempted", total,
			"insufficient_samples", res.Count(ErrInsufficientSamples),
		)
	} else {
		cfg.Logger.Info("full ring fit complete", "attempted", total)
	}
	return res, nil
}

// fitRing fits one detector ring. Data is scaled to unit peak magnitude
// before fitting so the solver tolerances apply to strains of order 1e-3.
func fitRing(phi, y []float64, cfg Config) ([]float64, error) {
	v, idx := nanstat.Valid(y)
	if len(v) < MinSamples {
		return nil, fmt.Errorf("%w: %d of %d", ErrInsufficientSamples, len(v), len(y))
	}
	x := nanstat.Take(phi, idx)

	scale := 0.0
	for _, s := range v {
		scale = math.Max(scale, math.Abs(s))
	}
	if scale == 0 || !core.IsFinite(scale) {
		if scale == 0 {
			return []float64{0, 0, 0}, nil
		}
		return nil, fmt.Errorf("%w: non-finite strain", ErrNoConvergence)
	}
	for i := range v {
		v[i] /= scale
	}

	mean, std := nanstat.MeanStd(v)
	p0 := []float64{mean, 3 * std / math.Sqrt2, 0}

	fit, err := lsq.CurveFit(Harmonic, x, v, p0, lsq.Options{MaxIterations: cfg.MaxIterations})
	if err != nil {
		return nil, err
	}
	p := fit.Params
	p[0] *= scale
	p[1] *= scale
	return Canonical(p), nil
}
