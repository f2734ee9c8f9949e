// Package fit locates diffraction peaks in EDXD spectra.
//
// [FitWindow] fits one peak-shape model to a single spectrum restricted to a
// search window. [Peaks] runs that fit for every scan point, detector and
// window of an intensity array and assembles dense result arrays of shape
// scan × detector × peak. Entries whose fit failed hold NaN and are listed
// in the result's failure report; a failed fit never stops the batch.
//
// Fits are independent, so [Peaks] spreads them over a bounded set of
// goroutines. Each goroutine writes a disjoint set of output elements.
package fit
