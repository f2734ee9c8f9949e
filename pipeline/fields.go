package pipeline

import (
	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/peak"
)

// FieldNames lists the persisted fields in write order. Downstream tools
// read these names; they must not change.
var FieldNames = []string{
	"phi",
	"dims",
	"slit_size",
	"q0",
	"peak_windows",
	"peaks",
	"peaks_err",
	"fwhm",
	"fwhm_err",
	"strain",
	"strain_err",
	"strain_param",
	"q",
}

// Field is one persisted value. Exactly one of Array and Strings is set.
type Field struct {
	Name    string
	Array   *core.Array
	Strings []string
}

// Fields returns the persisted fields in FieldNames order.
func (r *Result) Fields() []Field {
	return []Field{
		{Name: "phi", Array: vector(r.Phi)},
		{Name: "dims", Strings: append(make([]string, 0, len(r.Dims)), r.Dims...)},
		{Name: "slit_size", Array: scalar(r.SlitSize)},
		{Name: "q0", Array: r.Q0},
		{Name: "peak_windows", Array: peak.WindowArray(r.Windows)},
		{Name: "peaks", Array: r.Peaks.Centers},
		{Name: "peaks_err", Array: r.Peaks.CenterErrs},
		{Name: "fwhm", Array: r.Peaks.FWHM},
		{Name: "fwhm_err", Array: r.Peaks.FWHMErrs},
		{Name: "strain", Array: r.Strain.Strain},
		{Name: "strain_err", Array: r.Strain.StrainErr},
		{Name: "strain_param", Array: r.Ring.Params},
		{Name: "q", Array: r.Q},
	}
}

// Field returns the named field.
func (r *Result) Field(name string) (Field, bool) {
	for _, f := range r.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func vector(v []float64) *core.Array {
	a, _ := core.FromSlice(append([]float64(nil), v...), len(v))
	return a
}

func scalar(v float64) *core.Array {
	a, _ := core.FromSlice([]float64{v})
	return a
}
