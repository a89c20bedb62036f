package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/roach88/margin/internal/dist"
)

// Config holds numeric model parameters keyed by name. Values override the
// model's registered defaults.
type Config map[string]float64

// Clone returns a copy safe to mutate.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// merge overlays c onto defaults, rejecting keys the model does not define.
func merge(modelName string, defaults, overrides Config) (Config, error) {
	cfg := defaults.Clone()
	for k, v := range overrides {
		if _, ok := defaults[k]; !ok {
			return nil, &ConfigError{Model: modelName, Key: k, Message: "unknown configuration parameter"}
		}
		cfg[k] = v
	}
	return cfg, nil
}

// ConfigError reports an invalid or unknown configuration parameter.
type ConfigError struct {
	Model   string
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("model %s: config %q: %s", e.Model, e.Key, e.Message)
}

// Input pairs a sampled parameter name with its distribution. The slice
// order returned by a model is its draw order and must stay stable.
type Input struct {
	Name string
	Dist dist.Spec
}

// Model evaluates one improvement initiative.
type Model interface {
	// Name is the registered model name.
	Name() string

	// Inputs lists the uncertain parameters sampled each iteration, in
	// fixed draw order.
	Inputs() []Input

	// Evaluate maps one draw to a financial outcome. Pure; no I/O.
	Evaluate(draw map[string]float64) (Outcome, error)

	// Point computes the analytic point estimate from distribution means.
	Point() Outcome

	// Config returns the effective configuration after defaults.
	Config() Config
}

// Adjustable is implemented by models whose configuration can be overridden
// one key at a time, which is what sensitivity sweeps need.
type Adjustable interface {
	Model
	WithValue(key string, value float64) (Model, error)
}

// Detailer is implemented by models that contribute breakdown sections to
// the detailed report.
type Detailer interface {
	Detail() []Section
}

// Section is one titled block of a detailed report.
type Section struct {
	Title string
	Lines []string
}

// Threshold defines a named tail probability over a metric, reported
// alongside the standard probability set.
type Threshold struct {
	Name   string
	Metric string
	Above  bool
	Value  float64
}

// Thresholder is implemented by models that declare extra tail
// probabilities beyond the standard P(ROI>0) / P(NPV>0) set.
type Thresholder interface {
	Thresholds() []Threshold
}

// Factory builds a model from a configuration overlay.
type Factory func(cfg Config) (Model, error)

var registry = map[string]Factory{}

// Register adds a model factory under the given name. Duplicate names are a
// programming error.
func Register(name string, f Factory) {
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("model: duplicate registration for %q", name))
	}
	registry[name] = f
}

// New constructs a registered model.
func New(name string, cfg Config) (Model, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (known: %v)", name, Names())
	}
	return f(cfg)
}

// Names lists registered model names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pointOf evaluates a model at its distribution means. Models delegate
// Point to this helper so the analytic path cannot drift from Evaluate.
func pointOf(m Model) Outcome {
	draw := make(map[string]float64)
	for _, in := range m.Inputs() {
		draw[in.Name] = in.Dist.Mean()
	}
	out, err := m.Evaluate(draw)
	if err != nil {
		// Means are valid by construction; an error here is a model bug.
		panic(fmt.Sprintf("model %s: point estimate: %v", m.Name(), err))
	}
	return out
}

// rebuild clones cfg with one key replaced and re-runs the factory,
// implementing Adjustable for concrete models.
func rebuild(m Model, key string, value float64) (Model, error) {
	cfg := m.Config()
	if _, ok := cfg[key]; !ok {
		return nil, &ConfigError{Model: m.Name(), Key: key, Message: "unknown configuration parameter"}
	}
	next := cfg.Clone()
	next[key] = value
	return New(m.Name(), next)
}

// Metric names for Outcome fields, in report order.
const (
	MetricAnnualBenefit    = "annual_benefit"
	MetricAnnualCost       = "annual_cost"
	MetricROI              = "roi_pct"
	MetricNPV              = "npv"
	MetricPayback          = "payback_months"
	MetricBenefitCostRatio = "benefit_cost_ratio"
)

// MetricNames returns all outcome metric names in report order.
func MetricNames() []string {
	return []string{
		MetricAnnualBenefit,
		MetricAnnualCost,
		MetricROI,
		MetricNPV,
		MetricPayback,
		MetricBenefitCostRatio,
	}
}

// Outcome is one scenario's financial result.
type Outcome struct {
	// AnnualBenefit is the steady-state yearly benefit in dollars.
	AnnualBenefit float64
	// AnnualCost is the yearly cost of the initiative, with one-time
	// spend amortized over the analysis horizon.
	AnnualCost float64
	// ROIPct is the percentage return over the analysis horizon. A
	// zero-investment initiative with positive returns reports +Inf.
	ROIPct float64
	// NPV is the net present value over the analysis horizon.
	NPV float64
	// PaybackMonths is the time to cumulative break-even; +Inf when the
	// investment never recovers within the horizon.
	PaybackMonths float64
	// BenefitCostRatio is annual benefit over annual cost; +Inf for
	// zero-cost initiatives with positive benefit.
	BenefitCostRatio float64
}

// Metric returns the named metric value.
func (o Outcome) Metric(name string) float64 {
	switch name {
	case MetricAnnualBenefit:
		return o.AnnualBenefit
	case MetricAnnualCost:
		return o.AnnualCost
	case MetricROI:
		return o.ROIPct
	case MetricNPV:
		return o.NPV
	case MetricPayback:
		return o.PaybackMonths
	case MetricBenefitCostRatio:
		return o.BenefitCostRatio
	}
	return math.NaN()
}
