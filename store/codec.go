package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/cwbudde/algo-edxd/core"
)

const (
	kindArray   = "array"
	kindStrings = "strings"
)

func encodeFloats(v []float64) []byte {
	b := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(x))
	}
	return b
}

func decodeFloats(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("%w: blob of %d bytes", ErrCorrupt, len(b))
	}
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return v, nil
}

// encodeArray returns the shape JSON and data blob for a.
func encodeArray(a *core.Array) (string, []byte, error) {
	shape, err := json.Marshal(a.Shape())
	if err != nil {
		return "", nil, err
	}
	return string(shape), encodeFloats(a.Data()), nil
}

func decodeArray(shape string, blob []byte) (*core.Array, error) {
	var s []int
	if err := json.Unmarshal([]byte(shape), &s); err != nil {
		return nil, fmt.Errorf("%w: shape %q: %v", ErrCorrupt, shape, err)
	}
	v, err := decodeFloats(blob)
	if err != nil {
		return nil, err
	}
	a, err := core.FromSlice(v, s...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return a, nil
}

func encodeStrings(v []string) (string, []byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	shape, _ := json.Marshal([]int{len(v)})
	return string(shape), b, nil
}

func decodeStrings(blob []byte) ([]string, error) {
	var v []string
	if err := json.Unmarshal(blob, &v); err != nil {
		return nil, fmt.Errorf("%w: strings: %v", ErrCorrupt, err)
	}
	return v, nil
}
