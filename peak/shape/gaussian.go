package shape

import "math"

// Gaussian is background + height*exp(-(x-centre)^2 / (2 sigma^2)).
// Parameters: [background, height, centre, sigma].
type Gaussian struct{}

func (Gaussian) Name() string     { return "gaussian" }
func (Gaussian) NumParams() int   { return 4 }
func (Gaussian) CenterIndex() int { return 2 }

func (Gaussian) Eval(x float64, p []float64) float64 {
	d := x - p[2]
	return p[0] + p[1]*math.Exp(-d*d/(2*p[3]*p[3]))
}

func (Gaussian) Guess(x, y []float64) []float64 {
	e := estimateProfile(x, y)
	return []float64{e.background, e.height, e.center, e.fwhm / sigmaToFWHM}
}

func (Gaussian) FWHM(p, perr []float64) (float64, float64) {
	return sigmaToFWHM * math.Abs(p[3]), sigmaToFWHM * perr[3]
}
