// Package scan holds a loaded EDXD scan: the q axis, the detector spectra
// over the scan grid, detector azimuths and scan metadata.
//
// Datasets are interchanged as JSON. Synthesize builds datasets with known
// strain for demonstrations and tests.
package scan
