package scan

import (
	"math"
	"regexp"

	"gonum.org/v1/gonum/floats"
)

// DefaultDetectors is the number of active detectors on the ring.
const DefaultDetectors = 23

var motorPattern = regexp.MustCompile(`ss2_\w+`)

// ScanDims returns the sample-stage motor names in cmd in order of
// appearance.
func ScanDims(cmd string) []string {
	return motorPattern.FindAllString(cmd, -1)
}

// DefaultPhi returns n detector azimuths evenly spaced over [-pi, 0].
func DefaultPhi(n int) []float64 {
	if n <= 0 {
		return nil
	}
	phi := make([]float64, n)
	if n == 1 {
		phi[0] = -math.Pi
		return phi
	}
	return floats.Span(phi, -math.Pi, 0)
}
