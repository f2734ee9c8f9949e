package fit

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/peak"
)

// chunksPerWorker controls work granularity: more chunks balance uneven fit
// times at the cost of scheduling overhead.
const chunksPerWorker = 4

// Peaks fits every spectrum of I inside every window.
//
// I is shaped scan × detector × q. The q axis broadcasts against I: its shape
// must equal the trailing axes of I, so a 1-D q is shared by all spectra and
// a detector × q array gives each detector its own axis. Result arrays are
// shaped scan × detector × len(windows) and start NaN-filled.
//
// Structural problems return core.ErrShapeMismatch. Per-fit failures are
// recorded in the result and never returned.
func Peaks(ctx context.Context, q, I *core.Array, windows []peak.Window, opts ...Option) (*PeakFitResult, error) {
	cfg := ApplyOptions(opts...)

	if I.Dims() < 2 {
		return nil, fmt.Errorf("fit: %w: intensity needs detector and q axes, got shape %v", core.ErrShapeMismatch, I.Shape())
	}
	if q.Dims() < 1 || !core.HasSuffixShape(I.Shape(), q.Shape()) {
		return nil, fmt.Errorf("fit: %w: q shape %v does not broadcast against intensity shape %v",
			core.ErrShapeMismatch, q.Shape(), I.Shape())
	}

	ishape := I.Shape()
	lanes := ishape[:len(ishape)-1]
	nLanes := core.ShapeLen(lanes)
	nPeaks := len(windows)

	outShape := append(append([]int(nil), lanes...), nPeaks)
	res := &PeakFitResult{
		Centers:    core.NewNaNArray(outShape...),
		CenterErrs: core.NewNaNArray(outShape...),
		FWHM:       core.NewNaNArray(outShape...),
		FWHMErrs:   core.NewNaNArray(outShape...),
		Attempted:  nLanes * nPeaks,
	}

	total := res.Attempted
	points := 1
	if len(lanes) > 1 {
		points = core.ShapeLen(lanes[:len(lanes)-1])
	}
	cfg.Logger.Info("fitting peaks",
		"acquisition_points", points,
		"detectors", lanes[len(lanes)-1],
		"windows", nPeaks,
		"model", cfg.Model.Name(),
	)
	for p, w := range windows {
		cfg.Logger.Debug("peak window", "peak", p, "low", w.Low, "high", w.High)
	}
	if total == 0 {
		return res, nil
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	chunk := total / (workers * chunksPerWorker)
	if chunk < 1 {
		chunk = 1
	}
	nChunks := (total + chunk - 1) / chunk
	failures := make([][]Failure, nChunks)

	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for c := 0; c < nChunks; c++ {
		start := c * chunk
		end := min(start+chunk, total)

		g.Go(func() error {
			idx := make([]int, 0, len(lanes))
			var local []Failure
			for k := start; k < end; k++ {
				if err := ctx.Err(); err != nil {
					return err
				}

				p, l := k/nLanes, k%nLanes
				idx = core.Unravel(l, lanes, idx)

				wf, err := fitWindow(qLane(q, idx), I.Lane(idx...), windows[p], cfg)
				if err != nil {
					local = append(local, Failure{
						Index: append([]int(nil), idx...),
						Peak:  p,
						Err:   err,
					})
				} else {
					off := l*nPeaks + p
					res.Centers.Data()[off] = wf.Center
					res.CenterErrs.Data()[off] = wf.CenterErr
					res.FWHM.Data()[off] = wf.FWHM
					res.FWHMErrs.Data()[off] = wf.FWHMErr
				}

				n := int(done.Add(1))
				if cfg.Progress != nil {
					cfg.Progress(n, total)
				}
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

	cfg.Logger.Info("peak fit complete",
		"attempted", total,
		"failed", res.FailureCount(),
		"unconverged", res.Unconverged(),
		"error_limit_exceeded", res.ErrorLimitExceeded(),
	)
	return res, nil
}

// qLane returns the q axis for the spectrum at idx (scan indices + detector).
func qLane(q *core.Array, idx []int) []float64 {
	if q.Dims() == 1 {
		return q.Data()
	}
	return q.Lane(idx[len(idx)-(q.Dims()-1):]...)
}
