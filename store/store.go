package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/pipeline"
	"github.com/cwbudde/algo-edxd/scan"
	"github.com/cwbudde/algo-edxd/strain"
)

const (
	// InputRoot prefixes the verbatim input entries.
	InputRoot = "entry1/input/"
	// FieldRoot prefixes the derived fields.
	FieldRoot = "entry1/EDXD_elements/"
)

var (
	// ErrNotFound is returned when a run or entry does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrCorrupt is returned when a stored entry cannot be decoded.
	ErrCorrupt = errors.New("store: corrupt entry")
)

// Store is a SQLite result database.
type Store struct {
	db   *sql.DB
	path string
}

// Run describes one stored reduction.
type Run struct {
	ID      string
	Created time.Time
	Source  string

	PeakFits           int
	PeakFailures       int
	Unconverged        int
	ErrorLimitExceeded int
	RingFits           int
	RingFailures       int
	InsufficientRings  int
}

// Entry is one stored value. Exactly one of Array and Strings is set.
type Entry struct {
	Path    string
	Array   *core.Array
	Strings []string
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: path}
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create tables: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created DATETIME DEFAULT CURRENT_TIMESTAMP,
		source TEXT,
		peak_fits INTEGER,
		peak_failures INTEGER,
		unconverged INTEGER,
		error_limit_exceeded INTEGER,
		ring_fits INTEGER,
		ring_failures INTEGER,
		insufficient_rings INTEGER
	);

	CREATE TABLE IF NOT EXISTS entries (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		path TEXT NOT NULL,
		kind TEXT NOT NULL,
		shape TEXT NOT NULL,
		data BLOB,
		PRIMARY KEY (run_id, path)
	);

	CREATE INDEX IF NOT EXISTS idx_entries_seq ON entries(run_id, seq);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save stores ds and res as a new run in one transaction and returns the
// run id. source names the input, typically its file path.
func (s *Store) Save(ctx context.Context, source string, ds *scan.Dataset, res *pipeline.Result) (string, error) {
	id := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, source, peak_fits, peak_failures, unconverged, error_limit_exceeded,
		ring_fits, ring_failures, insufficient_rings)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, source,
		res.Peaks.Attempted, res.Peaks.FailureCount(), res.Peaks.Unconverged(), res.Peaks.ErrorLimitExceeded(),
		res.Ring.Attempted, res.Ring.FailureCount(), res.Ring.Count(strain.ErrInsufficientSamples),
	)
	if err != nil {
		return "", fmt.Errorf("store: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO entries (run_id, seq, path, kind, shape, data) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	entries := append(inputEntries(ds), fieldEntries(res)...)
	for seq, e := range entries {
		kind, shape, blob := kindArray, "", []byte(nil)
		if e.Array != nil {
			shape, blob, err = encodeArray(e.Array)
		} else {
			kind = kindStrings
			shape, blob, err = encodeStrings(e.Strings)
		}
		if err != nil {
			return "", fmt.Errorf("store: encode %s: %w", e.Path, err)
		}
		if _, err := stmt.ExecContext(ctx, id, seq, e.Path, kind, shape, blob); err != nil {
			return "", fmt.Errorf("store: insert %s: %w", e.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

func inputEntries(ds *scan.Dataset) []Entry {
	out := []Entry{
		{Path: InputRoot + "scan_command", Strings: []string{ds.ScanCommand}},
		{Path: InputRoot + "slit_size", Array: scalar(ds.SlitSize)},
		{Path: InputRoot + "edxd_q", Array: ds.Q},
		{Path: InputRoot + "data", Array: ds.I},
	}
	if len(ds.Phi) > 0 {
		out = append(out, Entry{Path: InputRoot + "phi", Array: vector(ds.Phi)})
	}
	names := make([]string, 0, len(ds.Coords))
	for k := range ds.Coords {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		out = append(out, Entry{Path: InputRoot + k, Array: vector(ds.Coords[k])})
	}
	return out
}

func fieldEntries(res *pipeline.Result) []Entry {
	fields := res.Fields()
	out := make([]Entry, len(fields))
	for i, f := range fields {
		out[i] = Entry{Path: FieldRoot + f.Name, Array: f.Array, Strings: f.Strings}
	}
	return out
}

// Load reads a derived field of a run by name, e.g. "strain".
func (s *Store) Load(ctx context.Context, runID, field string) (Entry, error) {
	return s.Entry(ctx, runID, FieldRoot+field)
}

// LoadInput reads an input entry of a run by name, e.g. "data".
func (s *Store) LoadInput(ctx context.Context, runID, name string) (Entry, error) {
	return s.Entry(ctx, runID, InputRoot+name)
}

// Entry reads one entry by full path.
func (s *Store) Entry(ctx context.Context, runID, path string) (Entry, error) {
	var kind, shape string
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT kind, shape, data FROM entries WHERE run_id = ? AND path = ?`, runID, path,
	).Scan(&kind, &shape, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s in run %s", ErrNotFound, path, runID)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("store: read %s: %w", path, err)
	}

	e := Entry{Path: path}
	switch kind {
	case kindArray:
		e.Array, err = decodeArray(shape, blob)
	case kindStrings:
		e.Strings, err = decodeStrings(blob)
	default:
		err = fmt.Errorf("%w: kind %q", ErrCorrupt, kind)
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Fields lists the derived field names of a run in write order.
func (s *Store) Fields(ctx context.Context, runID string) ([]string, error) {
	paths, err := s.paths(ctx, runID, FieldRoot)
	if err != nil {
		return nil, err
	}
	for i, p := range paths {
		paths[i] = p[len(FieldRoot):]
	}
	return paths, nil
}

// Inputs lists the input entry names of a run in write order.
func (s *Store) Inputs(ctx context.Context, runID string) ([]string, error) {
	paths, err := s.paths(ctx, runID, InputRoot)
	if err != nil {
		return nil, err
	}
	for i, p := range paths {
		paths[i] = p[len(InputRoot):]
	}
	return paths, nil
}

func (s *Store) paths(ctx context.Context, runID, prefix string) ([]string, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM entries WHERE run_id = ? AND substr(path, 1, ?) = ? ORDER BY seq`,
		runID, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("store: list entries: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("store: scan entry: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const runColumns = `id, created, source, peak_fits, peak_failures, unconverged, error_limit_exceeded,
	ring_fits, ring_failures, insufficient_rings`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var created string
	err := row.Scan(&r.ID, &created, &r.Source, &r.PeakFits, &r.PeakFailures, &r.Unconverged,
		&r.ErrorLimitExceeded, &r.RingFits, &r.RingFailures, &r.InsufficientRings)
	if err != nil {
		return Run{}, err
	}
	r.Created = parseTimestamp(created)
	return r, nil
}

// Run returns the metadata of one run.
func (s *Store) Run(ctx context.Context, runID string) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: run %s", ErrNotFound, runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: read run: %w", err)
	}
	return r, nil
}

// Runs lists every run, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// parseTimestamp accepts the formats SQLite returns for CURRENT_TIMESTAMP.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func vector(v []float64) *core.Array {
	a, _ := core.FromSlice(append([]float64(nil), v...), len(v))
	return a
}

func scalar(v float64) *core.Array {
	a, _ := core.FromSlice([]float64{v})
	return a
}

