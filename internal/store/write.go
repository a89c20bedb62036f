package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/margin/internal/scenario"
	"github.com/roach88/margin/internal/sim"
)

// RunRecord is one run to persist.
type RunRecord struct {
	// ID identifies the run. Empty means a fresh UUIDv7 is assigned, so
	// run IDs sort in creation order.
	ID string

	// CreatedAt is the run timestamp. Zero means now.
	CreatedAt time.Time

	// Scenario is the document the run was built from.
	Scenario *scenario.Scenario

	// Result is the completed run.
	Result *sim.Result

	// KeepSamples persists the raw per-iteration samples. They dominate
	// the database size, so they are off by default.
	KeepSamples bool
}

// NewRunID returns a fresh time-ordered run identifier.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SaveRun writes a run and its results in one transaction and returns the
// run ID. Uses ON CONFLICT(id) DO NOTHING for idempotency: saving a record
// with an ID that already exists is a silent no-op.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) (string, error) {
	if rec.Scenario == nil || rec.Result == nil {
		return "", fmt.Errorf("save run: scenario and result are required")
	}

	id := rec.ID
	if id == "" {
		id = NewRunID()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	document, err := marshalDocument(rec.Scenario)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	point, err := marshalPoint(rec.Result.Point)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res := rec.Result
	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, scenario, model, iterations, confidence, seed, document, point)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		createdAt.UTC().Format(time.RFC3339Nano),
		rec.Scenario.Name,
		res.Model,
		res.Iterations,
		res.Confidence,
		// Stored as the signed bit pattern; read back with a uint64 cast.
		int64(res.Seed),
		document,
		point,
	)
	if err != nil {
		return "", fmt.Errorf("save run: insert run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("save run: rows affected: %w", err)
	}
	if affected == 0 {
		// Run already stored; leave its child rows untouched.
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("save run: commit (existing): %w", err)
		}
		return id, nil
	}

	for _, metric := range sortedKeys(res.Summaries) {
		sum := res.Summaries[metric]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO summaries
			(run_id, metric, mean, median, std, ci_lower, ci_upper, min, max, n, dropped)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id, metric,
			sum.Mean, sum.Median, sum.Std,
			sum.CILower, sum.CIUpper, sum.Min, sum.Max,
			sum.N, sum.Dropped,
		)
		if err != nil {
			return "", fmt.Errorf("save run: insert summary %s: %w", metric, err)
		}
	}

	for _, name := range sortedKeys(res.Probabilities) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO probabilities (run_id, name, value) VALUES (?, ?, ?)
		`, id, name, res.Probabilities[name])
		if err != nil {
			return "", fmt.Errorf("save run: insert probability %s: %w", name, err)
		}
	}

	for rank, drv := range res.Drivers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO drivers (run_id, rank, input, correlation) VALUES (?, ?, ?, ?)
		`, id, rank, drv.Input, drv.Correlation)
		if err != nil {
			return "", fmt.Errorf("save run: insert driver %s: %w", drv.Input, err)
		}
	}

	if rec.KeepSamples {
		for _, metric := range sortedKeys(res.Samples) {
			data, err := marshalSamples(res.Samples[metric])
			if err != nil {
				return "", fmt.Errorf("save run: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO samples (run_id, metric, data) VALUES (?, ?, ?)
			`, id, metric, data)
			if err != nil {
				return "", fmt.Errorf("save run: insert samples %s: %w", metric, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save run: commit: %w", err)
	}

	return id, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
