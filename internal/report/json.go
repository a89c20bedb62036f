package report

import (
	"encoding/json"
	"io"
	"math"

	"github.com/roach88/margin/internal/model"
	"github.com/roach88/margin/internal/sim"
)

// Export is the machine-readable run export. Sweeps are present only when
// the scenario declared sensitivity sweeps.
type Export struct {
	Result *sim.Result
	Sweeps []*sim.Sweep
}

// JSON writes the export as indented JSON. Raw samples are bulky and off by
// default; includeSamples keeps them. encoding/json rejects non-finite
// floats, so ±Inf sentinels render as null.
func JSON(w io.Writer, export Export, includeSamples bool) error {
	tree := make(map[string]any, 2)
	if export.Result != nil {
		tree["result"] = resultTree(export.Result, includeSamples)
	}
	if len(export.Sweeps) > 0 {
		sweeps := make([]any, len(export.Sweeps))
		for i, s := range export.Sweeps {
			sweeps[i] = sweepTree(s)
		}
		tree["sweeps"] = sweeps
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tree)
}

// num maps non-finite values to nil so they encode as null.
func num(v float64) any {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return v
}

func outcomeTree(o model.Outcome) map[string]any {
	tree := make(map[string]any, len(model.MetricNames()))
	for _, name := range model.MetricNames() {
		tree[name] = num(o.Metric(name))
	}
	return tree
}

func summaryTree(s sim.Summary) map[string]any {
	return map[string]any{
		"mean":     num(s.Mean),
		"median":   num(s.Median),
		"std":      num(s.Std),
		"ci_lower": num(s.CILower),
		"ci_upper": num(s.CIUpper),
		"min":      num(s.Min),
		"max":      num(s.Max),
		"n":        s.N,
		"dropped":  s.Dropped,
	}
}

func resultTree(res *sim.Result, includeSamples bool) map[string]any {
	summaries := make(map[string]any, len(res.Summaries))
	for name, s := range res.Summaries {
		summaries[name] = summaryTree(s)
	}

	tree := map[string]any{
		"model":         res.Model,
		"iterations":    res.Iterations,
		"confidence":    res.Confidence,
		"seed":          res.Seed,
		"point":         outcomeTree(res.Point),
		"summaries":     summaries,
		"probabilities": res.Probabilities,
	}

	if len(res.Drivers) > 0 {
		tree["drivers"] = res.Drivers
	}
	if includeSamples && len(res.Samples) > 0 {
		samples := make(map[string]any, len(res.Samples))
		for name, values := range res.Samples {
			row := make([]any, len(values))
			for i, v := range values {
				row[i] = num(v)
			}
			samples[name] = row
		}
		tree["samples"] = samples
	}
	return tree
}

func sweepTree(s *sim.Sweep) map[string]any {
	points := make([]any, len(s.Points))
	for i, p := range s.Points {
		points[i] = map[string]any{"value": p.Value, "outcome": outcomeTree(p.Outcome)}
	}
	return map[string]any{
		"model":  s.Model,
		"param":  s.Param,
		"base":   outcomeTree(s.Base),
		"points": points,
	}
}
