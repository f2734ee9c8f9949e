// Package lsq fits parametric models to data by nonlinear least squares.
//
// The solver is Levenberg-Marquardt with a finite-difference Jacobian.
// Parameter covariance is estimated as inv(JᵀJ)·SSR/(m-n), the same scaling
// scipy's curve_fit applies when absolute sigma is not given.
package lsq

import (
	"errors"
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-edxd/core"
)

var (
	// ErrInsufficientData is returned when there are fewer samples than parameters.
	ErrInsufficientData = errors.New("lsq: insufficient data")
	// ErrNoConvergence is returned when the solver fails, runs out of
	// iterations or yields non-finite parameters.
	ErrNoConvergence = errors.New("lsq: fit did not converge")
	// ErrLengthMismatch is returned when x and y differ in length.
	ErrLengthMismatch = errors.New("lsq: x and y length mismatch")
)

const (
	defaultMaxIterations = 1000
	defaultTolerance     = 1e-14
	defaultTau           = 1e-3
)

// Func is a model evaluated at x with parameters p.
type Func func(x float64, p []float64) float64

// Options tunes the solver. Zero values select defaults.
type Options struct {
	MaxIterations int
	Tolerance     float64
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	return o
}

// Result holds fitted parameters and their uncertainties.
type Result struct {
	Params []float64
	// StdErr is sqrt(diag(Cov)). Entries are +Inf when the covariance
	// could not be estimated.
	StdErr []float64
	// Cov is nil when JᵀJ is singular.
	Cov *mat.Dense
	// SSR is the sum of squared residuals at the solution.
	SSR float64
}

// CurveFit fits f to (x, y) starting from p0. With exactly as many samples as
// parameters the fit interpolates and StdErr is +Inf.
func CurveFit(f Func, x, y, p0 []float64, opts Options) (Result, error) {
	m, n := len(x), len(p0)
	if len(y) != m {
		return Result{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, m, len(y))
	}
	if n == 0 || m < n {
		return Result{}, fmt.Errorf("%w: %d samples for %d parameters", ErrInsufficientData, m, n)
	}
	opts = opts.withDefaults()

	residual := func(dst, p []float64) {
		for i, xi := range x {
			dst[i] = y[i] - f(xi, p)
		}
	}

	r := make([]float64, m)
	residual(r, p0)
	if !core.AllFinite(r) {
		return Result{}, fmt.Errorf("%w: non-finite residual at initial guess", ErrNoConvergence)
	}

	jac := lm.NumJac{Func: residual}
	problem := lm.LMProblem{
		Dim:        n,
		Size:       m,
		Func:       residual,
		Jac:        jac.Jac,
		InitParams: append([]float64(nil), p0...),
		Tau:        defaultTau,
		Eps1:       opts.Tolerance,
		Eps2:       opts.Tolerance,
	}

	params, err := solve(problem, &lm.Settings{Iterations: opts.MaxIterations, ObjectiveTol: 1e-32})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}

	if len(params) != n || !core.AllFinite(params) {
		return Result{}, fmt.Errorf("%w: non-finite parameters %v", ErrNoConvergence, params)
	}

	residual(r, params)
	ssr := 0.0
	for _, v := range r {
		ssr += v * v
	}
	if !core.IsFinite(ssr) {
		return Result{}, fmt.Errorf("%w: non-finite residual", ErrNoConvergence)
	}

	res := Result{Params: params, SSR: ssr}
	res.Cov, res.StdErr = covariance(residual, params, m, ssr)
	return res, nil
}

// solve runs the solver. A panic from a degenerate linear system and an
// exhausted iteration budget are reported as errors.
func solve(problem lm.LMProblem, settings *lm.Settings) (x []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("solver panic: %v", r)
		}
	}()

	sol, err := lm.LM(problem, settings)
	if err != nil {
		return nil, err
	}
	if sol.Status == optimize.IterationLimit {
		return nil, fmt.Errorf("stopped after %d iterations: %v", settings.Iterations, sol.Status)
	}
	return append([]float64(nil), sol.X...), nil
}

// covariance estimates the parameter covariance at p. It returns a nil
// matrix and +Inf errors when JᵀJ cannot be inverted or no degrees of
// freedom remain.
func covariance(residual func(dst, p []float64), p []float64, m int, ssr float64) (*mat.Dense, []float64) {
	n := len(p)
	stderr := make([]float64, n)
	core.Fill(stderr, math.Inf(1))
	if m == n {
		return nil, stderr
	}

	j := mat.NewDense(m, n, nil)
	fd.Jacobian(j, residual, p, &fd.JacobianSettings{Formula: fd.Central})

	var jtj mat.Dense
	jtj.Mul(j.T(), j)

	var inv mat.Dense
	if err := inv.Inverse(&jtj); err != nil {
		return nil, stderr
	}

	inv.Scale(ssr/float64(m-n), &inv)
	for i := 0; i < n; i++ {
		v := inv.At(i, i)
		if v >= 0 && core.IsFinite(v) {
			stderr[i] = math.Sqrt(v)
		}
	}
	return &inv, stderr
}
