// Package shape provides single-peak profile models for diffraction curve
// fitting. Every model carries a constant background, a peak height, a centre
// and one or more width parameters.
package shape

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cwbudde/algo-edxd/spectrum"
)

// ErrUnknownModel is returned by Lookup for an unregistered model name.
var ErrUnknownModel = errors.New("shape: unknown peak model")

// sigmaToFWHM converts a Gaussian standard deviation to its full width at
// half maximum: 2*sqrt(2*ln 2).
var sigmaToFWHM = 2 * math.Sqrt(2*math.Ln2)

// Model is a parametric peak profile.
type Model interface {
	// Name returns the registry name of the model.
	Name() string
	// NumParams returns the number of free parameters.
	NumParams() int
	// Eval evaluates the profile at x.
	Eval(x float64, p []float64) float64
	// Guess estimates starting parameters from a windowed profile.
	Guess(x, y []float64) []float64
	// CenterIndex returns the position of the centre in the parameter vector.
	CenterIndex() int
	// FWHM returns the full width at half maximum and its uncertainty
	// given fitted parameters and their standard errors.
	FWHM(p, perr []float64) (fwhm, fwhmErr float64)
}

var registry = map[string]Model{
	"gaussian":     Gaussian{},
	"lorentzian":   Lorentzian{},
	"pseudo-voigt": PseudoVoigt{},
}

var aliases = map[string]string{
	"gauss":        "gaussian",
	"lorentz":      "lorentzian",
	"pseudo_voigt": "pseudo-voigt",
	"psuedo_voigt": "pseudo-voigt",
	"pseudovoigt":  "pseudo-voigt",
}

// Lookup returns the model registered under name (case-insensitive).
func Lookup(name string) (Model, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	m, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownModel, name, strings.Join(Names(), ", "))
	}
	return m, nil
}

// Names returns the registered model names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// estimate holds model-independent starting values.
type estimate struct {
	background float64
	height     float64
	center     float64
	fwhm       float64
}

// estimateProfile derives background, height, centre and width from a
// windowed profile. The centre is the maximum of a lightly smoothed copy so
// isolated noise spikes do not capture it.
func estimateProfile(x, y []float64) estimate {
	n := len(y)
	if n == 0 || len(x) != n {
		return estimate{}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range y {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	sigma := float64(n) / 40
	if sigma < 1 {
		sigma = 1
	}
	ci := spectrum.SmoothedArgMax(y, sigma)
	if ci < 0 {
		ci = n / 2
	}

	half := lo + (hi-lo)/2
	left, right := ci, ci
	for left > 0 && y[left-1] >= half {
		left--
	}
	for right < n-1 && y[right+1] >= half {
		right++
	}

	fwhm := math.Abs(x[right] - x[left])
	span := math.Abs(x[n-1] - x[0])
	if fwhm == 0 || fwhm > span {
		fwhm = span / 4
	}
	if fwhm == 0 {
		fwhm = 1
	}

	return estimate{
		background: lo,
		height:     hi - lo,
		center:     x[ci],
		fwhm:       fwhm,
	}
}
