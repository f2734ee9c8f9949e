package strain

import (
	"fmt"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/peak"
)

// Field holds strain and its error, shaped like the peak-centre array.
type Field struct {
	Strain    *core.Array
	StrainErr *core.Array
}

// Calculate converts peak centres and their errors into strain.
//
// The last axis of centers and errs is the peak axis and must have
// def.Count() entries. q0 is broadcast over every other axis; a per-detector
// definition contributes its detector-averaged centres. NaN centres give NaN
// strain.
func Calculate(def peak.Definition, centers, errs *core.Array) (*Field, error) {
	if !core.SameShape(centers, errs) {
		return nil, fmt.Errorf("strain: %w: centres %v, errors %v", core.ErrShapeMismatch, centers.Shape(), errs.Shape())
	}
	q0 := def.Centers()
	if centers.Dims() == 0 || !core.HasSuffixShape(centers.Shape(), []int{len(q0)}) {
		return nil, fmt.Errorf("strain: %w: centres %v for %d peaks", core.ErrShapeMismatch, centers.Shape(), len(q0))
	}

	return &Field{
		Strain:    relativeShift(centers, q0),
		StrainErr: relativeShift(errs, q0),
	}, nil
}

// relativeShift returns (q0 - x)/q0 for every lane of x. A single rounding
// keeps x == q0 at exactly zero.
func relativeShift(x *core.Array, q0 []float64) *core.Array {
	out := core.NewArray(x.Shape()...)
	src, dst := x.Data(), out.Data()
	n := len(q0)
	for off := 0; off < len(src); off += n {
		for i, q := range q0 {
			dst[off+i] = (q - src[off+i]) / q
		}
	}
	return out
}
