// Package pipeline runs the EDXD reduction stages in order: window
// construction, peak fitting, strain and the full-ring harmonic fit.
//
// Each stage consumes the previous stage's value and returns a new one. The
// assembled Result carries every persisted field.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/fit"
	"github.com/cwbudde/algo-edxd/peak"
	"github.com/cwbudde/algo-edxd/scan"
	"github.com/cwbudde/algo-edxd/strain"
)

// ErrInvalidWindow is returned for a non-positive or non-finite window width.
var ErrInvalidWindow = errors.New("pipeline: invalid window width")

// Options configures the fitting stages.
type Options struct {
	Fit  []fit.Option
	Ring []strain.Option
}

// Result holds the outputs of one reduction.
type Result struct {
	Phi      []float64
	Dims     []string
	SlitSize float64
	Q0       *core.Array
	Windows  []peak.Window
	Peaks    *fit.PeakFitResult
	Strain   *strain.Field
	Ring     *strain.HarmonicFit
	Q        *core.Array
}

// Run reduces ds. The dataset should already be prepared (see
// scan.Dataset.Prepare); when it has no azimuths the default ring is used.
func Run(ctx context.Context, ds *scan.Dataset, def peak.Definition, window float64, opts Options) (*Result, error) {
	if !(window > 0) || !core.IsFinite(window) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidWindow, window)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	phi := ds.Phi
	if len(phi) == 0 {
		phi = scan.DefaultPhi(ds.Detectors())
	}

	windows := def.Windows(window)

	peaks, err := fit.Peaks(ctx, ds.Q, ds.I, windows, opts.Fit...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: peak fit: %w", err)
	}

	field, err := strain.Calculate(def, peaks.Centers, peaks.CenterErrs)
	if err != nil {
		return nil, fmt.Errorf("pipeline: strain: %w", err)
	}

	ring, err := strain.FullRing(ctx, field.Strain, phi, opts.Ring...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: full ring fit: %w", err)
	}

	return &Result{
		Phi:      append([]float64(nil), phi...),
		Dims:     append([]string(nil), ds.Dims...),
		SlitSize: ds.SlitSize,
		Q0:       def.Values(),
		Windows:  windows,
		Peaks:    peaks,
		Strain:   field,
		Ring:     ring,
		Q:        ds.Q.Clone(),
	}, nil
}
