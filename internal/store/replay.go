package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/roach88/margin/internal/model"
	"github.com/roach88/margin/internal/sim"
)

// Mismatch is one recorded value that differs from its replayed counterpart.
type Mismatch struct {
	// Section is "point", "summary", or "probability".
	Section string
	// Metric names the differing metric or probability. For summaries the
	// field is appended, e.g. "roi_pct.mean".
	Metric string

	Stored   float64
	Replayed float64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s: stored %v, replayed %v", m.Section, m.Metric, m.Stored, m.Replayed)
}

// ReplayResult is the outcome of replaying one stored run.
type ReplayResult struct {
	RunID string
	Model string

	// Replayed is the freshly computed result.
	Replayed *sim.Result

	// Mismatches lists every stored value that the replay did not
	// reproduce. Empty means the run verified.
	Mismatches []Mismatch
}

// Match reports whether the replay reproduced the stored run exactly.
func (r *ReplayResult) Match() bool { return len(r.Mismatches) == 0 }

// Replay rebuilds a stored run's model from its scenario document, re-runs
// the simulation with the recorded seed, and compares the results value for
// value. The engine is deterministic, so any difference means the stored run
// was produced by different code or the database was altered.
func (s *Store) Replay(ctx context.Context, id string) (*ReplayResult, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	m, err := run.Document.Build()
	if err != nil {
		return nil, fmt.Errorf("replay run %s: %w", id, err)
	}
	replayed, err := sim.Run(m, run.Document.SimConfig())
	if err != nil {
		return nil, fmt.Errorf("replay run %s: %w", id, err)
	}

	result := &ReplayResult{RunID: id, Model: run.Model, Replayed: replayed}
	result.Mismatches = append(result.Mismatches, comparePoint(run.Point, replayed.Point)...)
	result.Mismatches = append(result.Mismatches, compareSummaries(run.Summaries, replayed.Summaries)...)
	result.Mismatches = append(result.Mismatches, compareProbabilities(run.Probabilities, replayed.Probabilities)...)
	return result, nil
}

func comparePoint(stored, replayed model.Outcome) []Mismatch {
	var mismatches []Mismatch
	for _, name := range model.MetricNames() {
		a, b := stored.Metric(name), replayed.Metric(name)
		if !same(a, b) {
			mismatches = append(mismatches, Mismatch{Section: "point", Metric: name, Stored: a, Replayed: b})
		}
	}
	return mismatches
}

func compareSummaries(stored, replayed map[string]sim.Summary) []Mismatch {
	var mismatches []Mismatch
	for _, metric := range sortedKeys(stored) {
		a := stored[metric]
		b, ok := replayed[metric]
		if !ok {
			mismatches = append(mismatches, Mismatch{Section: "summary", Metric: metric + ".n", Stored: float64(a.N)})
			continue
		}
		fields := []struct {
			name     string
			stored   float64
			replayed float64
		}{
			{"mean", a.Mean, b.Mean},
			{"median", a.Median, b.Median},
			{"std", a.Std, b.Std},
			{"ci_lower", a.CILower, b.CILower},
			{"ci_upper", a.CIUpper, b.CIUpper},
			{"min", a.Min, b.Min},
			{"max", a.Max, b.Max},
			{"n", float64(a.N), float64(b.N)},
			{"dropped", float64(a.Dropped), float64(b.Dropped)},
		}
		for _, f := range fields {
			if !same(f.stored, f.replayed) {
				mismatches = append(mismatches, Mismatch{
					Section:  "summary",
					Metric:   metric + "." + f.name,
					Stored:   f.stored,
					Replayed: f.replayed,
				})
			}
		}
	}
	return mismatches
}

func compareProbabilities(stored, replayed map[string]float64) []Mismatch {
	names := sortedKeys(stored)
	for name := range replayed {
		if _, ok := stored[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var mismatches []Mismatch
	for _, name := range names {
		a, b := stored[name], replayed[name]
		if !same(a, b) {
			mismatches = append(mismatches, Mismatch{Section: "probability", Metric: name, Stored: a, Replayed: b})
		}
	}
	return mismatches
}

// same is exact equality that also treats two NaNs as equal, since a NaN
// stored and a NaN replayed are the same outcome.
func same(a, b float64) bool {
	return a == b || (a != a && b != b)
}
