package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-edxd/internal/testutil"
	"github.com/cwbudde/algo-edxd/peak"
	"github.com/cwbudde/algo-edxd/pipeline"
	"github.com/cwbudde/algo-edxd/scan"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "results.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func reduce(t *testing.T) (*scan.Dataset, *pipeline.Result) {
	t.Helper()
	c := scan.DefaultSynthConfig()
	c.Shape, c.Dims = []int{2}, []string{"ss2_x"}
	c.Bins = 201
	raw, err := scan.Synthesize(c)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := raw.Prepare(scan.UnusedDetector, nil)
	if err != nil {
		t.Fatal(err)
	}
	// One dead spectrum so the stored arrays carry NaN.
	dead := ds.I.Lane(0, 3)
	for i := range dead {
		dead[i] = math.NaN()
	}
	res, err := pipeline.Run(context.Background(), ds, peak.MultiPeak{Q0: c.Q0}, 0.3, pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return ds, res
}

func TestSaveAndLoad(t *testing.T) {
	s := setupStore(t)
	ds, res := reduce(t)
	ctx := context.Background()

	id, err := s.Save(ctx, "scan.json", ds, res)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fields, err := s.Fields(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != len(pipeline.FieldNames) {
		t.Fatalf("Fields() = %v, want %v", fields, pipeline.FieldNames)
	}
	for i := range fields {
		if fields[i] != pipeline.FieldNames[i] {
			t.Fatalf("Fields()[%d] = %q, want %q", i, fields[i], pipeline.FieldNames[i])
		}
	}

	for _, f := range res.Fields() {
		e, err := s.Load(ctx, id, f.Name)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", f.Name, err)
		}
		if e.Path != FieldRoot+f.Name {
			t.Fatalf("Path = %q", e.Path)
		}
		if f.Strings != nil {
			if len(e.Strings) != len(f.Strings) || e.Strings[0] != f.Strings[0] {
				t.Fatalf("%s = %v, want %v", f.Name, e.Strings, f.Strings)
			}
			continue
		}
		if got, want := e.Array.Shape(), f.Array.Shape(); len(got) != len(want) {
			t.Fatalf("%s shape = %v, want %v", f.Name, got, want)
		}
		testutil.RequireIdentical(t, e.Array.Data(), f.Array.Data())
	}

	peaks, _ := s.Load(ctx, id, "peaks")
	if !math.IsNaN(peaks.Array.At(0, 3, 0)) {
		t.Fatal("NaN peak did not survive storage")
	}
}

func TestSaveKeepsInput(t *testing.T) {
	s := setupStore(t)
	ds, res := reduce(t)
	ctx := context.Background()

	id, err := s.Save(ctx, "scan.json", ds, res)
	if err != nil {
		t.Fatal(err)
	}

	names, err := s.Inputs(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"scan_command", "slit_size", "edxd_q", "data", "phi", "ss2_x"}
	if len(names) != len(want) {
		t.Fatalf("Inputs() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Inputs()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	data, err := s.LoadInput(ctx, id, "data")
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireIdentical(t, data.Array.Data(), ds.I.Data())

	cmd, err := s.LoadInput(ctx, id, "scan_command")
	if err != nil || len(cmd.Strings) != 1 || cmd.Strings[0] != ds.ScanCommand {
		t.Fatalf("scan_command = %v, %v", cmd.Strings, err)
	}
}

func TestRuns(t *testing.T) {
	s := setupStore(t)
	ds, res := reduce(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "a.json", ds, res)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Save(ctx, "b.json", ds, res)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("run ids collide")
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(Runs()) = %d, want 2", len(runs))
	}

	r, err := s.Run(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	if r.Source != "a.json" || r.PeakFits != res.Peaks.Attempted || r.PeakFailures != res.Peaks.FailureCount() {
		t.Fatalf("run = %+v", r)
	}
	if r.PeakFailures != 2 || r.RingFits != res.Ring.Attempted {
		t.Fatalf("run counts = %+v", r)
	}
	if r.Created.IsZero() {
		t.Fatal("Created not parsed")
	}
}

func TestNotFound(t *testing.T) {
	s := setupStore(t)
	ds, res := reduce(t)
	ctx := context.Background()
	id, err := s.Save(ctx, "", ds, res)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(ctx, id, "stress"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.Run(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.Fields(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	ds, res := reduce(t)
	id, err := s.Save(context.Background(), "", ds, res)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Load(context.Background(), id, "strain_param"); err != nil {
		t.Fatalf("Load() after reopen error = %v", err)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	if _, err := decodeFloats(make([]byte, 7)); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	if _, err := decodeArray("[2,2]", encodeFloats([]float64{1, 2, 3})); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	if _, err := decodeArray("{", nil); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
}
