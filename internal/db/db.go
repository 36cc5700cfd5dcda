// Package db keeps a record of jetbg runs in SQLite.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// DefaultListLimit caps ListRuns when no limit is given.
const DefaultListLimit = 100

type DB struct {
	*sql.DB
}

// OpenDB opens the database without touching the schema.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000; PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}
	return &DB{db}, nil
}

// NewDB opens the database and applies pending migrations.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Run is one recorded invocation.
type Run struct {
	ID               string
	Kind             string // generate, subtract or embed
	CreatedAt        time.Time
	Seed             uint64
	Events           int
	Multiplicity     int
	MeanPt           float64
	MinPt            float64
	MaxPt            float64
	Constant         float64 // density normalisation
	Integral         float64 // density integral over the window
	InputCount       int     // particles handed to the model
	OutputCount      int     // particles it returned
	JetR             float64
	Matched          int
	MeanFraction     float64
	MeanBackgroundPt float64
	ConfigJSON       string
	Notes            string
}

func (r *Run) String() string {
	return fmt.Sprintf(
		"%s %-8s %s seed=%d events=%d mult=%d in=%d out=%d mean_pt=%.4f matched=%d fraction=%.3f",
		r.ID,
		r.Kind,
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.Seed,
		r.Events,
		r.Multiplicity,
		r.InputCount,
		r.OutputCount,
		r.MeanPt,
		r.Matched,
		r.MeanFraction,
	)
}

// RecordRun inserts r, assigning an ID and creation time when unset.
func (db *DB) RecordRun(r *Run) error {
	if r.Kind == "" {
		return fmt.Errorf("run kind is required")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	} else if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", r.ID, err)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if strings.TrimSpace(r.ConfigJSON) == "" {
		r.ConfigJSON = "{}"
	}

	_, err := db.Exec(
		`INSERT INTO runs (
			run_id, kind, created_unix_nanos, seed, events, multiplicity,
			mean_pt, min_pt, max_pt, constant, integral, input_count, output_count,
			jet_r, matched, mean_fraction, mean_background_pt, config_json, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Kind, r.CreatedAt.UnixNano(), int64(r.Seed), r.Events, r.Multiplicity,
		r.MeanPt, r.MinPt, r.MaxPt, r.Constant, r.Integral, r.InputCount, r.OutputCount,
		r.JetR, r.Matched, r.MeanFraction,
		r.MeanBackgroundPt, r.ConfigJSON, r.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

const runColumns = `run_id, kind, created_unix_nanos, seed, events, multiplicity,
	mean_pt, min_pt, max_pt, constant, integral, input_count, output_count,
	jet_r, matched, mean_fraction, mean_background_pt, config_json, notes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (Run, error) {
	var (
		r       Run
		created int64
		seed    int64
	)
	err := s.Scan(
		&r.ID,
		&r.Kind,
		&created,
		&seed,
		&r.Events,
		&r.Multiplicity,
		&r.MeanPt,
		&r.MinPt,
		&r.MaxPt,
		&r.Constant,
		&r.Integral,
		&r.InputCount,
		&r.OutputCount,
		&r.JetR,
		&r.Matched,
		&r.MeanFraction,
		&r.MeanBackgroundPt,
		&r.ConfigJSON,
		&r.Notes,
	)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = time.Unix(0, created)
	r.Seed = uint64(seed)
	return r, nil
}

// GetRun returns the run with the given id.
func (db *DB) GetRun(id string) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit means DefaultListLimit.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.Query(
		`SELECT `+runColumns+` FROM runs ORDER BY created_unix_nanos DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// DeleteRun removes a run. Deleting an unknown id returns ErrRunNotFound.
func (db *DB) DeleteRun(id string) error {
	res, err := db.Exec(`DELETE FROM runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
