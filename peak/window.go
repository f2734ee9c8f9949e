package peak

import "github.com/cwbudde/algo-edxd/core"

// Window is a closed search interval [Low, High] in q.
type Window struct {
	Low  float64
	High float64
}

// NewWindow returns the window of the given full width centred on center.
func NewWindow(center, width float64) Window {
	return Window{Low: center - width/2, High: center + width/2}
}

// Contains reports whether x lies inside the window, bounds included.
func (w Window) Contains(x float64) bool {
	return x >= w.Low && x <= w.High
}

// Center returns the window midpoint.
func (w Window) Center() float64 { return (w.Low + w.High) / 2 }

// Width returns High - Low.
func (w Window) Width() float64 { return w.High - w.Low }

// Valid reports whether Low < High.
func (w Window) Valid() bool { return w.Low < w.High }

// WindowsFor builds one window of the given width around each centre.
func WindowsFor(centers []float64, width float64) []Window {
	out := make([]Window, len(centers))
	for i, c := range centers {
		out[i] = NewWindow(c, width)
	}
	return out
}

// WindowArray packs windows into a [peak][2] array of (low, high) pairs.
func WindowArray(ws []Window) *core.Array {
	a := core.NewArray(len(ws), 2)
	for i, w := range ws {
		a.Set(w.Low, i, 0)
		a.Set(w.High, i, 1)
	}
	return a
}
