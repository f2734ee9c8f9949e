package scan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/cwbudde/algo-edxd/core"
)

type fileArray struct {
	Shape []int  `json:"shape"`
	Data  values `json:"data"`
}

type fileDataset struct {
	ScanCommand string               `json:"scan_command"`
	SlitSize    float64              `json:"slit_size"`
	Coords      map[string][]float64 `json:"coords,omitempty"`
	Phi         []float64            `json:"phi,omitempty"`
	Q           fileArray            `json:"edxd_q"`
	Data        fileArray            `json:"data"`
}

// values encodes NaN and infinities as null.
type values []float64

func (v values) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+len(v)*12)
	buf = append(buf, '[')
	for i, x := range v {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, x, 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

func (v *values) UnmarshalJSON(b []byte) error {
	var raw []*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(values, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *p
	}
	*v = out
	return nil
}

func (a fileArray) array() (*core.Array, error) {
	return core.FromSlice([]float64(a.Data), a.Shape...)
}

func toFileArray(a *core.Array) fileArray {
	return fileArray{Shape: a.Shape(), Data: values(a.Data())}
}

// Decode reads a JSON dataset. Dims are derived from the scan command.
func Decode(r io.Reader) (*Dataset, error) {
	var f fileDataset
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("scan: decode: %w", err)
	}

	q, err := f.Q.array()
	if err != nil {
		return nil, fmt.Errorf("%w: edxd_q: %v", ErrInvalidDataset, err)
	}
	I, err := f.Data.array()
	if err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrInvalidDataset, err)
	}

	ds := &Dataset{
		Q:           q,
		I:           I,
		Phi:         f.Phi,
		ScanCommand: f.ScanCommand,
		Dims:        ScanDims(f.ScanCommand),
		SlitSize:    f.SlitSize,
		Coords:      f.Coords,
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Encode writes ds as JSON.
func Encode(w io.Writer, ds *Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	f := fileDataset{
		ScanCommand: ds.ScanCommand,
		SlitSize:    ds.SlitSize,
		Coords:      ds.Coords,
		Phi:         ds.Phi,
		Q:           toFileArray(ds.Q),
		Data:        toFileArray(ds.I),
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("scan: encode: %w", err)
	}
	return nil
}

// Marshal returns the JSON encoding of ds.
func Marshal(ds *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads a JSON dataset from path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scan: open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Save writes ds to path as JSON.
func Save(path string, ds *Dataset) error {
	b, err := Marshal(ds)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("scan: write %s: %w", path, err)
	}
	return nil
}
