package peak

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/nanstat"
)

// ErrInvalidDefinition is returned by Parse when a value cannot describe q0.
var ErrInvalidDefinition = errors.New("peak: invalid q0 definition")

// Definition describes the nominal peak positions of a measurement.
type Definition interface {
	// Count returns the number of peaks.
	Count() int
	// Centers returns one nominal centre per peak. These are the strain
	// reference positions.
	Centers() []float64
	// Windows returns one search window of the given width per peak.
	Windows(width float64) []Window
	// Values returns q0 as supplied, for persistence.
	Values() *core.Array
}

// SinglePeak is a single nominal peak centre.
type SinglePeak struct {
	Q0 float64
}

func (p SinglePeak) Count() int                     { return 1 }
func (p SinglePeak) Centers() []float64             { return []float64{p.Q0} }
func (p SinglePeak) Windows(width float64) []Window { return WindowsFor(p.Centers(), width) }

// Values returns a one-element vector, matching a scalar q0 promoted to a list.
func (p SinglePeak) Values() *core.Array {
	a, _ := core.FromSlice([]float64{p.Q0}, 1)
	return a
}

// MultiPeak holds one nominal centre per peak.
type MultiPeak struct {
	Q0 []float64
}

func (p MultiPeak) Count() int                     { return len(p.Q0) }
func (p MultiPeak) Centers() []float64             { return append([]float64(nil), p.Q0...) }
func (p MultiPeak) Windows(width float64) []Window { return WindowsFor(p.Q0, width) }

func (p MultiPeak) Values() *core.Array {
	a, _ := core.FromSlice(append([]float64(nil), p.Q0...), len(p.Q0))
	return a
}

// PerDetectorPeak holds nominal centres indexed [detector][peak].
//
// Windows and strain reference positions both use the detector average; the
// per-detector values are kept only for persistence.
type PerDetectorPeak struct {
	Q0 [][]float64
}

// Count returns the width of the widest detector row.
func (p PerDetectorPeak) Count() int {
	n := 0
	for _, row := range p.Q0 {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Centers returns the NaN-ignoring mean over detectors for each peak.
func (p PerDetectorPeak) Centers() []float64 { return nanstat.MeanAxis0(p.Q0) }

func (p PerDetectorPeak) Windows(width float64) []Window { return WindowsFor(p.Centers(), width) }

// Values returns the [detector][peak] array; short rows are NaN padded.
func (p PerDetectorPeak) Values() *core.Array {
	a := core.NewNaNArray(len(p.Q0), p.Count())
	for d, row := range p.Q0 {
		copy(a.Lane(d), row)
	}
	return a
}

// Parse converts a decoded configuration value into a Definition.
// It accepts a number, a list of numbers, or a list of lists of numbers.
func Parse(v any) (Definition, error) {
	if x, ok := toFloat(v); ok {
		return SinglePeak{Q0: x}, nil
	}

	switch t := v.(type) {
	case []float64:
		return MultiPeak{Q0: append([]float64(nil), t...)}, nil
	case [][]float64:
		rows := make([][]float64, len(t))
		for i, r := range t {
			rows[i] = append([]float64(nil), r...)
		}
		return PerDetectorPeak{Q0: rows}, nil
	case []any:
		return parseList(t)
	}

	return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidDefinition, v)
}

func parseList(items []any) (Definition, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidDefinition)
	}

	if _, nested := items[0].([]any); !nested {
		q0 := make([]float64, len(items))
		for i, it := range items {
			x, ok := toFloat(it)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T", ErrInvalidDefinition, i, it)
			}
			q0[i] = x
		}
		return MultiPeak{Q0: q0}, nil
	}

	rows := make([][]float64, len(items))
	for d, it := range items {
		row, ok := it.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: row %d is %T", ErrInvalidDefinition, d, it)
		}
		rows[d] = make([]float64, len(row))
		for p, el := range row {
			x, ok := toFloat(el)
			if !ok {
				return nil, fmt.Errorf("%w: element [%d][%d] is %T", ErrInvalidDefinition, d, p, el)
			}
			rows[d][p] = x
		}
	}
	return PerDetectorPeak{Q0: rows}, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
