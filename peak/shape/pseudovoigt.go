package shape

import (
	"math"

	"github.com/cwbudde/algo-edxd/core"
)

// PseudoVoigt is a linear mix of a Gaussian and a Lorentzian sharing one
// FWHM: background + height*(eta*L(x) + (1-eta)*G(x)).
// Parameters: [background, height, centre, fwhm, eta]. eta is clamped to
// [0, 1] on evaluation.
type PseudoVoigt struct{}

func (PseudoVoigt) Name() string     { return "pseudo-voigt" }
func (PseudoVoigt) NumParams() int   { return 5 }
func (PseudoVoigt) CenterIndex() int { return 2 }

func (PseudoVoigt) Eval(x float64, p []float64) float64 {
	d := x - p[2]
	sigma := p[3] / sigmaToFWHM
	gamma := p[3] / 2
	g := math.Exp(-d * d / (2 * sigma * sigma))
	l := gamma * gamma / (d*d + gamma*gamma)
	eta := core.Clamp(p[4], 0, 1)
	return p[0] + p[1]*(eta*l+(1-eta)*g)
}

func (PseudoVoigt) Guess(x, y []float64) []float64 {
	e := estimateProfile(x, y)
	return []float64{e.background, e.height, e.center, e.fwhm, 0.5}
}

func (PseudoVoigt) FWHM(p, perr []float64) (float64, float64) {
	return math.Abs(p[3]), perr[3]
}
