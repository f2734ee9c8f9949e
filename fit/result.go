package fit

import (
	"errors"

	"github.com/cwbudde/algo-edxd/core"
)

// Failure records one fit that left NaN in the result arrays.
type Failure struct {
	// Index addresses the spectrum: scan indices followed by the detector.
	Index []int
	// Peak is the window index.
	Peak int
	Err  error
}

// PeakFitResult holds dense scan × detector × peak arrays of fitted values.
type PeakFitResult struct {
	Centers    *core.Array
	CenterErrs *core.Array
	FWHM       *core.Array
	FWHMErrs   *core.Array

	// Attempted is the number of (spectrum, window) fits run.
	Attempted int
	// Failures is ordered by peak, then by row-major spectrum index.
	Failures []Failure
}

// FailureCount returns the number of failed fits.
func (r *PeakFitResult) FailureCount() int { return len(r.Failures) }

// Count returns the number of failures matching target with errors.Is.
func (r *PeakFitResult) Count(target error) int {
	n := 0
	for _, f := range r.Failures {
		if errors.Is(f.Err, target) {
			n++
		}
	}
	return n
}

// Unconverged returns the number of fits the solver could not complete.
func (r *PeakFitResult) Unconverged() int { return r.Count(ErrNoConvergence) }

// ErrorLimitExceeded returns the number of fits rejected by the error limit.
func (r *PeakFitResult) ErrorLimitExceeded() int { return r.Count(ErrErrorLimit) }
