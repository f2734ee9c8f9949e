// Package peak defines nominal diffraction peak positions (q0) and builds the
// search windows that the peak fitter restricts each spectrum to.
//
// A peak definition comes in three shapes:
//
//   - [SinglePeak]:      one nominal centre
//   - [MultiPeak]:       one nominal centre per peak
//   - [PerDetectorPeak]: one nominal centre per detector and peak
//
// Every variant yields exactly one shared window per peak. For
// [PerDetectorPeak] the window is centred on the detector-averaged position,
// ignoring NaN entries.
package peak
