package fit

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/internal/lsq"
	"github.com/cwbudde/algo-edxd/peak"
)

var (
	// ErrErrorLimit is returned when a fit converged but its centre
	// uncertainty exceeds the configured error limit.
	ErrErrorLimit = errors.New("fit: centre uncertainty exceeds error limit")
	// ErrInvalidWindow is returned for a window with Low >= High.
	ErrInvalidWindow = errors.New("fit: invalid window")

	// ErrNoConvergence and ErrInsufficientData classify solver failures.
	ErrNoConvergence    = lsq.ErrNoConvergence
	ErrInsufficientData = lsq.ErrInsufficientData
)

// WindowFit is the outcome of fitting one spectrum inside one window.
type WindowFit struct {
	Center    float64
	CenterErr float64
	FWHM      float64
	FWHMErr   float64
}

// FitWindow fits the configured peak model to the samples of (q, y) that
// fall inside w. NaN samples are ignored.
func FitWindow(q, y []float64, w peak.Window, opts ...Option) (WindowFit, error) {
	if len(q) != len(y) {
		return WindowFit{}, fmt.Errorf("fit: %w: q has %d samples, spectrum %d", core.ErrShapeMismatch, len(q), len(y))
	}
	return fitWindow(q, y, w, ApplyOptions(opts...))
}

func fitWindow(q, y []float64, w peak.Window, cfg Config) (WindowFit, error) {
	if !w.Valid() {
		return WindowFit{}, fmt.Errorf("%w: [%g, %g]", ErrInvalidWindow, w.Low, w.High)
	}

	x := make([]float64, 0, len(q))
	v := make([]float64, 0, len(q))
	for i, qi := range q {
		if w.Contains(qi) && core.IsFinite(y[i]) {
			x = append(x, qi)
			v = append(v, y[i])
		}
	}

	model := cfg.Model
	if len(x) <= model.NumParams() {
		return WindowFit{}, fmt.Errorf("%w: %d samples in [%g, %g]", ErrInsufficientData, len(x), w.Low, w.High)
	}

	res, err := lsq.CurveFit(model.Eval, x, v, model.Guess(x, v), lsq.Options{MaxIterations: cfg.MaxIterations})
	if err != nil {
		return WindowFit{}, err
	}

	ci := model.CenterIndex()
	center, centerErr := res.Params[ci], res.StdErr[ci]
	if !core.IsFinite(centerErr) {
		return WindowFit{}, fmt.Errorf("%w: centre uncertainty undetermined", ErrNoConvergence)
	}
	if cfg.ErrorLimit > 0 && centerErr > cfg.ErrorLimit {
		return WindowFit{}, fmt.Errorf("%w: %g > %g", ErrErrorLimit, centerErr, cfg.ErrorLimit)
	}

	fwhm, fwhmErr := model.FWHM(res.Params, res.StdErr)
	return WindowFit{
		Center:    center,
		CenterErr: centerErr,
		FWHM:      fwhm,
		FWHMErr:   fwhmErr,
	}, nil
}
