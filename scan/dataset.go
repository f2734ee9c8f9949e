package scan

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-edxd/core"
)

// ErrInvalidDataset is returned when a dataset is structurally unusable.
var ErrInvalidDataset = errors.New("scan: invalid dataset")

// UnusedDetector is the detector the I12 EDXD array leaves unconnected.
const UnusedDetector = 23

// Dataset is one EDXD scan.
type Dataset struct {
	// Q is the momentum-transfer axis: 1-D shared by every detector, or
	// detector × q.
	Q *core.Array
	// I holds spectra shaped scan × detector × q.
	I *core.Array
	// Phi is the azimuth of each detector. Empty until Prepare runs unless
	// the file supplies it.
	Phi []float64

	ScanCommand string
	// Dims are the motor names of the scan axes, taken from ScanCommand.
	Dims     []string
	SlitSize float64
	// Coords holds the positions along each scan axis keyed by motor name.
	Coords map[string][]float64
}

// Detectors returns the size of the detector axis.
func (ds *Dataset) Detectors() int {
	s := ds.I.Shape()
	return s[len(s)-2]
}

// ScanShape returns the shape of the scan grid.
func (ds *Dataset) ScanShape() []int {
	s := ds.I.Shape()
	return s[:len(s)-2]
}

// Points returns the number of acquisition points.
func (ds *Dataset) Points() int { return core.ShapeLen(ds.ScanShape()) }

// Validate checks that Q broadcasts against I and that Phi, when present,
// has one angle per detector.
func (ds *Dataset) Validate() error {
	if ds.I == nil || ds.Q == nil {
		return fmt.Errorf("%w: missing q or intensity", ErrInvalidDataset)
	}
	if ds.I.Dims() < 2 {
		return fmt.Errorf("%w: intensity shape %v has no detector axis", ErrInvalidDataset, ds.I.Shape())
	}
	if q := ds.Q.Shape(); len(q) == 0 || len(q) > 2 || !core.HasSuffixShape(ds.I.Shape(), q) {
		return fmt.Errorf("%w: q shape %v does not match intensity shape %v", ErrInvalidDataset, q, ds.I.Shape())
	}
	if len(ds.Phi) > 0 && len(ds.Phi) != ds.Detectors() {
		return fmt.Errorf("%w: %d azimuths for %d detectors", ErrInvalidDataset, len(ds.Phi), ds.Detectors())
	}
	for _, v := range ds.Phi {
		if !core.IsFinite(v) {
			return fmt.Errorf("%w: non-finite azimuth", ErrInvalidDataset)
		}
	}
	return nil
}

// Prepare returns a copy ready for fitting: the unused detector is removed
// (skipped when unused is negative) and Phi is set to phi, or DefaultPhi
// when phi is empty and the dataset has none.
func (ds *Dataset) Prepare(unused int, phi []float64) (*Dataset, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	out := *ds
	out.Dims = append([]string(nil), ds.Dims...)
	out.Phi = append([]float64(nil), ds.Phi...)
	if unused >= 0 {
		I, q, err := DropDetector(ds.I, ds.Q, unused)
		if err != nil {
			return nil, err
		}
		out.I, out.Q = I, q
		if len(out.Phi) == ds.Detectors() {
			out.Phi = append(out.Phi[:unused], out.Phi[unused+1:]...)
		}
	}

	switch {
	case len(phi) > 0:
		out.Phi = append([]float64(nil), phi...)
	case len(out.Phi) == 0:
		out.Phi = DefaultPhi(out.Detectors())
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// DropDetector removes detector d from the intensity array and, when it is
// per-detector, from q.
func DropDetector(I, q *core.Array, d int) (*core.Array, *core.Array, error) {
	if I.Dims() < 2 {
		return nil, nil, fmt.Errorf("scan: %w: intensity shape %v", core.ErrShapeMismatch, I.Shape())
	}
	n := I.Shape()[I.Dims()-2]
	if d < 0 || d >= n {
		return nil, nil, fmt.Errorf("%w: detector %d out of range [0, %d)", ErrInvalidDataset, d, n)
	}

	outI := removeIndex(I, I.Dims()-2, d)
	outQ := q
	if q.Dims() == 2 {
		outQ = removeIndex(q, 0, d)
	}
	return outI, outQ, nil
}

// removeIndex drops index i along axis.
func removeIndex(a *core.Array, axis, i int) *core.Array {
	shape := a.Shape()
	outer := core.ShapeLen(shape[:axis])
	inner := core.ShapeLen(shape[axis+1:])
	n := shape[axis]

	shape[axis]--
	out := core.NewArray(shape...)
	src, dst := a.Data(), out.Data()
	for o := 0; o < outer; o++ {
		base := o * n * inner
		copy(dst[o*(n-1)*inner:], src[base:base+i*inner])
		copy(dst[o*(n-1)*inner+i*inner:], src[base+(i+1)*inner:base+n*inner])
	}
	return out
}

// Equal reports whether two datasets hold the same values, treating NaN as
// equal to NaN.
func Equal(a, b *Dataset) bool {
	if a.ScanCommand != b.ScanCommand || a.SlitSize != b.SlitSize {
		return false
	}
	if !sameFloats(a.Phi, b.Phi) || !sameStrings(a.Dims, b.Dims) {
		return false
	}
	if !sameArray(a.Q, b.Q) || !sameArray(a.I, b.I) {
		return false
	}
	if len(a.Coords) != len(b.Coords) {
		return false
	}
	for k, v := range a.Coords {
		w, ok := b.Coords[k]
		if !ok || !sameFloats(v, w) {
			return false
		}
	}
	return true
}

func sameArray(a, b *core.Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	return core.SameShape(a, b) && sameFloats(a.Data(), b.Data())
}

func sameFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] && !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
			return false
		}
	}
	return true
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
