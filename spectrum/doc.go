// Package spectrum provides spectral-domain helpers for diffraction profiles.
//
// [Smooth] applies a Gaussian low-pass in the frequency domain and is used to
// locate peak maxima robustly before a curve fit is seeded. Edges are
// extended with the boundary values so smoothing does not pull the profile
// towards zero at the window limits.
package spectrum
