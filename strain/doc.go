// Package strain converts fitted peak positions into elastic strain and fits
// the azimuthal variation of strain around the detector ring.
//
// Calculate applies strain = (q0 - q)/q0 elementwise. FullRing fits
//
//	strain(phi) = offset + amplitude*cos(2*phi - 2*phase)
//
// per scan point and peak, across the detector axis.
package strain
