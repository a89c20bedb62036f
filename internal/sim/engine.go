package sim

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/roach88/margin/internal/dist"
	"github.com/roach88/margin/internal/model"
)

// DefaultConfidence is the two-sided interval level used when a run does not
// specify one.
const DefaultConfidence = 0.95

// Config controls one simulation run.
type Config struct {
	// Iterations is the number of Monte Carlo samples. Required.
	Iterations int `json:"iterations" yaml:"iterations"`
	// Confidence is the two-sided interval level in (0, 1). Zero means
	// DefaultConfidence.
	Confidence float64 `json:"confidence" yaml:"confidence"`
	// Seed initializes the random source. The same seed reproduces the run.
	Seed uint64 `json:"seed" yaml:"seed"`
}

func (c Config) validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("sim: iterations must be positive, got %d", c.Iterations)
	}
	if c.Confidence < 0 || c.Confidence >= 1 {
		return fmt.Errorf("sim: confidence must lie in [0, 1), got %g", c.Confidence)
	}
	return nil
}

// Summary holds the distribution statistics of one metric. Non-finite
// samples are excluded and counted in Dropped.
type Summary struct {
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Std     float64 `json:"std"`
	CILower float64 `json:"ci_lower"`
	CIUpper float64 `json:"ci_upper"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	N       int     `json:"n"`
	Dropped int     `json:"dropped"`
}

// Driver reports how strongly one input correlates with ROI across the run.
type Driver struct {
	Input       string  `json:"input"`
	Correlation float64 `json:"correlation"`
}

// Result is one completed simulation run.
type Result struct {
	Model      string  `json:"model"`
	Iterations int     `json:"iterations"`
	Confidence float64 `json:"confidence"`
	Seed       uint64  `json:"seed"`

	// Point is the analytic estimate at distribution means.
	Point model.Outcome `json:"point"`

	// Samples holds the raw per-iteration metric values, non-finite
	// included, keyed by metric name.
	Samples map[string][]float64 `json:"samples,omitempty"`

	// Summaries keys metric name to its statistics.
	Summaries map[string]Summary `json:"summaries"`

	// Probabilities keys probability name to its estimate.
	Probabilities map[string]float64 `json:"probabilities"`

	// Drivers lists inputs by descending correlation strength with ROI.
	// Fixed inputs and correlations weaker than 0.1 are omitted.
	Drivers []Driver `json:"drivers,omitempty"`
}

// Run executes the simulation. The model's Evaluate must be pure; any
// evaluation error aborts the run.
func Run(m model.Model, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	confidence := cfg.Confidence
	if confidence == 0 {
		confidence = DefaultConfidence
	}

	inputs := m.Inputs()
	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	samplers := make([]dist.Sampler, len(inputs))
	for i, in := range inputs {
		s, err := dist.Compile(in.Dist, src)
		if err != nil {
			return nil, fmt.Errorf("sim: model %s: input %s: %w", m.Name(), in.Name, err)
		}
		samplers[i] = s
	}

	metrics := model.MetricNames()
	samples := make(map[string][]float64, len(metrics))
	for _, name := range metrics {
		samples[name] = make([]float64, 0, cfg.Iterations)
	}
	draws := make(map[string][]float64, len(inputs))
	for _, in := range inputs {
		draws[in.Name] = make([]float64, 0, cfg.Iterations)
	}

	draw := make(map[string]float64, len(inputs))
	for iter := 0; iter < cfg.Iterations; iter++ {
		for i, in := range inputs {
			v := samplers[i].Rand()
			draw[in.Name] = v
			draws[in.Name] = append(draws[in.Name], v)
		}
		out, err := m.Evaluate(draw)
		if err != nil {
			return nil, fmt.Errorf("sim: model %s: iteration %d: %w", m.Name(), iter, err)
		}
		for _, name := range metrics {
			samples[name] = append(samples[name], out.Metric(name))
		}
	}

	summaries := make(map[string]Summary, len(metrics))
	for _, name := range metrics {
		summaries[name] = summarize(samples[name], confidence)
	}

	return &Result{
		Model:         m.Name(),
		Iterations:    cfg.Iterations,
		Confidence:    confidence,
		Seed:          cfg.Seed,
		Point:         m.Point(),
		Samples:       samples,
		Summaries:     summaries,
		Probabilities: probabilities(m, samples),
		Drivers:       drivers(inputs, draws, samples[model.MetricROI]),
	}, nil
}

func summarize(values []float64, confidence float64) Summary {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	s := Summary{N: len(finite), Dropped: len(values) - len(finite)}
	if len(finite) == 0 {
		return s
	}
	sort.Float64s(finite)

	alpha := 1 - confidence
	s.Mean = stat.Mean(finite, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, finite, nil)
	s.CILower = stat.Quantile(alpha/2, stat.Empirical, finite, nil)
	s.CIUpper = stat.Quantile(1-alpha/2, stat.Empirical, finite, nil)
	s.Min = finite[0]
	s.Max = finite[len(finite)-1]
	if len(finite) > 1 {
		s.Std = stat.StdDev(finite, nil)
	}
	return s
}

// probabilities estimates the standard tail probabilities plus any the model
// declares. Non-finite samples participate: an unbounded ROI counts toward
// P(ROI > 0).
func probabilities(m model.Model, samples map[string][]float64) map[string]float64 {
	probs := map[string]float64{
		"p_positive_roi": shareAbove(samples[model.MetricROI], 0),
		"p_positive_npv": shareAbove(samples[model.MetricNPV], 0),
		"p_break_even":   shareFinite(samples[model.MetricPayback]),
	}
	if th, ok := m.(model.Thresholder); ok {
		for _, t := range th.Thresholds() {
			if t.Above {
				probs[t.Name] = shareAbove(samples[t.Metric], t.Value)
			} else {
				probs[t.Name] = shareBelow(samples[t.Metric], t.Value)
			}
		}
	}
	return probs
}

func shareAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var n int
	for _, v := range values {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

func shareBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var n int
	for _, v := range values {
		if v < threshold {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

func shareFinite(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var n int
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// drivers correlates each input's draws against ROI, pairwise over finite
// ROI samples only. Inputs without variance (fixed values) and weak
// correlations are dropped.
func drivers(inputs []model.Input, draws map[string][]float64, roi []float64) []Driver {
	var out []Driver
	for _, in := range inputs {
		xs := make([]float64, 0, len(roi))
		ys := make([]float64, 0, len(roi))
		for i, v := range roi {
			if math.IsInf(v, 0) || math.IsNaN(v) {
				continue
			}
			xs = append(xs, draws[in.Name][i])
			ys = append(ys, v)
		}
		if len(xs) < 2 {
			continue
		}
		r := stat.Correlation(xs, ys, nil)
		if math.IsNaN(r) || math.Abs(r) < 0.1 {
			continue
		}
		out = append(out, Driver{Input: in.Name, Correlation: r})
	}
	sort.Slice(out, func(i, j int) bool {
		return math.Abs(out[i].Correlation) > math.Abs(out[j].Correlation)
	})
	return out
}

// Percentile returns the p-th percentile (0-100) over the finite subset of
// values. NaN when nothing is finite.
func Percentile(values []float64, p float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN()
	}
	sort.Float64s(finite)
	return stat.Quantile(p/100, stat.Empirical, finite, nil)
}
