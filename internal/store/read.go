package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/margin/internal/model"
	"github.com/roach88/margin/internal/scenario"
	"github.com/roach88/margin/internal/sim"
)

// ErrRunNotFound reports a run ID with no stored run.
var ErrRunNotFound = errors.New("run not found")

// RunInfo is the listing view of a stored run.
type RunInfo struct {
	ID         string
	CreatedAt  time.Time
	Scenario   string
	Model      string
	Iterations int
	Confidence float64
	Seed       uint64
}

// StoredRun is a fully loaded run. Raw samples are loaded separately via
// LoadSamples since most callers never need them.
type StoredRun struct {
	RunInfo

	// Document is the scenario the run was built from.
	Document *scenario.Scenario

	Point         model.Outcome
	Summaries     map[string]sim.Summary
	Probabilities map[string]float64
	Drivers       []sim.Driver
}

// Result reassembles the stored run as an engine result. Raw samples are
// not included; attach them from LoadSamples if needed.
func (r *StoredRun) Result() *sim.Result {
	return &sim.Result{
		Model:         r.Model,
		Iterations:    r.Iterations,
		Confidence:    r.Confidence,
		Seed:          r.Seed,
		Point:         r.Point,
		Summaries:     r.Summaries,
		Probabilities: r.Probabilities,
		Drivers:       r.Drivers,
	}
}

// ListRuns returns all stored runs, newest first. UUIDv7 run IDs sort in
// creation order, so the ID is the tiebreaker.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, scenario, model, iterations, confidence, seed
		FROM runs
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		info, err := scanRunInfo(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	if runs == nil {
		runs = []RunInfo{}
	}

	return runs, nil
}

// GetRun loads one run with its summaries, probabilities, and drivers.
// Returns ErrRunNotFound if the ID does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*StoredRun, error) {
	var (
		run       StoredRun
		createdAt string
		seed      int64
		document  string
		point     string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, scenario, model, iterations, confidence, seed, document, point
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&run.ID, &createdAt, &run.Scenario, &run.Model,
		&run.Iterations, &run.Confidence, &seed, &document, &point,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("get run %s: parse created_at: %w", id, err)
	}
	run.Seed = uint64(seed)

	run.Document, err = unmarshalDocument(document)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	run.Point, err = unmarshalPoint(point)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	run.Summaries, err = s.readSummaries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	run.Probabilities, err = s.readProbabilities(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	run.Drivers, err = s.readDrivers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	return &run, nil
}

// LoadSamples returns the stored raw samples for a run, keyed by metric.
// Runs saved without samples yield an empty map.
func (s *Store) LoadSamples(ctx context.Context, id string) (map[string][]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT metric, data
		FROM samples
		WHERE run_id = ?
		ORDER BY metric ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	samples := make(map[string][]float64)
	for rows.Next() {
		var metric, data string
		if err := rows.Scan(&metric, &data); err != nil {
			return nil, fmt.Errorf("scan samples: %w", err)
		}
		values, err := unmarshalSamples(data)
		if err != nil {
			return nil, fmt.Errorf("samples for %s: %w", metric, err)
		}
		samples[metric] = values
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}

	return samples, nil
}

func (s *Store) readSummaries(ctx context.Context, id string) (map[string]sim.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT metric, mean, median, std, ci_lower, ci_upper, min, max, n, dropped
		FROM summaries
		WHERE run_id = ?
		ORDER BY metric ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	summaries := make(map[string]sim.Summary)
	for rows.Next() {
		var (
			metric string
			sum    sim.Summary
		)
		if err := rows.Scan(
			&metric, &sum.Mean, &sum.Median, &sum.Std,
			&sum.CILower, &sum.CIUpper, &sum.Min, &sum.Max,
			&sum.N, &sum.Dropped,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries[metric] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return summaries, nil
}

func (s *Store) readProbabilities(ctx context.Context, id string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, value
		FROM probabilities
		WHERE run_id = ?
		ORDER BY name ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query probabilities: %w", err)
	}
	defer rows.Close()

	probabilities := make(map[string]float64)
	for rows.Next() {
		var (
			name  string
			value float64
		)
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan probability: %w", err)
		}
		probabilities[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate probabilities: %w", err)
	}

	return probabilities, nil
}

func (s *Store) readDrivers(ctx context.Context, id string) ([]sim.Driver, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT input, correlation
		FROM drivers
		WHERE run_id = ?
		ORDER BY rank ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query drivers: %w", err)
	}
	defer rows.Close()

	var drivers []sim.Driver
	for rows.Next() {
		var d sim.Driver
		if err := rows.Scan(&d.Input, &d.Correlation); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}

	return drivers, nil
}

func scanRunInfo(rows *sql.Rows) (RunInfo, error) {
	var (
		info      RunInfo
		createdAt string
		seed      int64
	)
	if err := rows.Scan(
		&info.ID, &createdAt, &info.Scenario, &info.Model,
		&info.Iterations, &info.Confidence, &seed,
	); err != nil {
		return RunInfo{}, fmt.Errorf("scan run: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return RunInfo{}, fmt.Errorf("scan run: parse created_at: %w", err)
	}
	info.CreatedAt = parsed
	info.Seed = uint64(seed)

	return info, nil
}
