package corebench

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// BaselineStore records run averages in a SQLite database so later runs on
// the same hardware can be checked against a known-good baseline.
type BaselineStore struct {
	db *sql.DB
}

const createBaselines = `
CREATE TABLE IF NOT EXISTS baselines (
	name        TEXT    NOT NULL,
	core        INTEGER NOT NULL,
	avg_cycles  INTEGER NOT NULL,
	samples     INTEGER NOT NULL,
	recorded_at TEXT    NOT NULL,
	PRIMARY KEY (name, core)
)`

// OpenBaselineStore opens (creating if needed) the baseline database at
// path. Use ":memory:" for an ephemeral store.
func OpenBaselineStore(path string) (*BaselineStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open baseline db %s: %w", path, err)
	}

	if _, err := db.Exec(createBaselines); err != nil {
		db.Close()

		return nil, fmt.Errorf("create baselines table: %w", err)
	}

	return &BaselineStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *BaselineStore) Close() error {
	return s.db.Close()
}

// Record upserts the given results as the new baseline.
func (s *BaselineStore) Record(ctx context.Context, results []Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin baseline tx: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)

	for _, r := range results {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO baselines (name, core, avg_cycles, samples, recorded_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (name, core) DO UPDATE SET
			   avg_cycles = excluded.avg_cycles,
			   samples = excluded.samples,
			   recorded_at = excluded.recorded_at`,
			r.Name, r.Core, int64(r.AverageCycles), r.Samples, now)
		if err != nil {
			tx.Rollback()

			return fmt.Errorf("record baseline %s: %w", baselineKey(r.Name, r.Core), err)
		}
	}

	return tx.Commit()
}

// Load returns all recorded baselines keyed by primitive name and core,
// suitable for AssertWithinBaseline.
func (s *BaselineStore) Load(ctx context.Context) (map[string]Sample, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, core, avg_cycles FROM baselines`)
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}
	defer rows.Close()

	baseline := make(map[string]Sample)

	for rows.Next() {
		var (
			name   string
			core   int
			cycles int64
		)

		if err := rows.Scan(&name, &core, &cycles); err != nil {
			return nil, fmt.Errorf("scan baseline row: %w", err)
		}

		baseline[baselineKey(name, core)] = Sample(cycles)
	}

	return baseline, rows.Err()
}

// Drift describes one result that moved outside the tolerance band of its
// recorded baseline.
type Drift struct {
	Name     string
	Core     int
	Baseline Sample
	Current  Sample
	Ratio    float64 // current / baseline
}

// Compare checks results against the recorded baseline and returns the
// entries drifting outside the relative tolerance band. Results without a
// recorded baseline are reported as drift with a zero baseline.
func (s *BaselineStore) Compare(ctx context.Context, results []Result, tolerance float64) ([]Drift, error) {
	baseline, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []Drift

	for _, r := range results {
		want, ok := baseline[baselineKey(r.Name, r.Core)]
		if !ok || want == 0 {
			drifts = append(drifts, Drift{Name: r.Name, Core: r.Core, Current: r.AverageCycles})

			continue
		}

		ratio := float64(r.AverageCycles) / float64(want)
		if ratio < 1-tolerance || ratio > 1+tolerance {
			drifts = append(drifts, Drift{
				Name:     r.Name,
				Core:     r.Core,
				Baseline: want,
				Current:  r.AverageCycles,
				Ratio:    ratio,
			})
		}
	}

	return drifts, nil
}

func baselineKey(name string, core int) string {
	if core < 0 {
		return name
	}

	return fmt.Sprintf("%s/core%d", name, core)
}
