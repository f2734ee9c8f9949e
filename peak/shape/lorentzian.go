package shape

import "math"

// Lorentzian is background + height*gamma^2 / ((x-centre)^2 + gamma^2).
// Parameters: [background, height, centre, gamma], gamma being the half width.
type Lorentzian struct{}

func (Lorentzian) Name() string     { return "lorentzian" }
func (Lorentzian) NumParams() int   { return 4 }
func (Lorentzian) CenterIndex() int { return 2 }

func (Lorentzian) Eval(x float64, p []float64) float64 {
	d := x - p[2]
	g2 := p[3] * p[3]
	return p[0] + p[1]*g2/(d*d+g2)
}

func (Lorentzian) Guess(x, y []float64) []float64 {
	e := estimateProfile(x, y)
	return []float64{e.background, e.height, e.center, e.fwhm / 2}
}

func (Lorentzian) FWHM(p, perr []float64) (float64, float64) {
	return 2 * math.Abs(p[3]), 2 * perr[3]
}
