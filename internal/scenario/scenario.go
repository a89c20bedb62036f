// Package scenario loads simulation scenarios from YAML files. A scenario
// names a model, overlays configuration and input distributions, and fixes
// the simulation parameters, so a run is fully reproducible from the file
// plus its seed.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/margin/internal/dist"
	"github.com/roach88/margin/internal/model"
	"github.com/roach88/margin/internal/sim"
)

// Scenario is one simulation scenario. The JSON tags exist so a scenario
// document can be stored alongside its run and rebuilt for replay.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name" json:"name"`

	// Description explains what the scenario analyzes.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Model is the registered model name to simulate.
	Model string `yaml:"model" json:"model"`

	// Config overlays numeric parameters onto the model's defaults.
	// Unknown keys are rejected by the model.
	Config map[string]float64 `yaml:"config,omitempty" json:"config,omitempty"`

	// Inputs replaces sampling distributions by input name. Names must
	// match the model's declared inputs.
	Inputs map[string]dist.Spec `yaml:"inputs,omitempty" json:"inputs,omitempty"`

	// Simulation fixes the run parameters.
	Simulation Simulation `yaml:"simulation" json:"simulation"`

	// Sensitivity lists optional one-parameter sweeps to run alongside the
	// simulation.
	Sensitivity []SweepSpec `yaml:"sensitivity,omitempty" json:"sensitivity,omitempty"`
}

// Simulation holds the Monte Carlo run parameters.
type Simulation struct {
	// Iterations is the sample count. Required.
	Iterations int `yaml:"iterations" json:"iterations"`

	// Confidence is the two-sided interval level. Zero means the engine
	// default of 0.95.
	Confidence float64 `yaml:"confidence,omitempty" json:"confidence,omitempty"`

	// Seed makes the run reproducible. Defaults to zero, which is itself a
	// valid fixed seed.
	Seed uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// SweepSpec declares a sensitivity sweep over one configuration parameter.
type SweepSpec struct {
	Param  string    `yaml:"param" json:"param"`
	Values []float64 `yaml:"values" json:"values"`
}

// Load reads and parses a scenario YAML file. The document is first checked
// against the embedded CUE schema, then decoded with strict field validation
// so typos like "iterations:" vs "iteration:" fail loudly.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return Parse(path, data)
}

// Parse validates and decodes scenario YAML. The filename is used in error
// messages only.
func Parse(filename string, data []byte) (*Scenario, error) {
	if err := ValidateYAML(filename, data); err != nil {
		return nil, err
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Model == "" {
		return fmt.Errorf("model is required")
	}
	if s.Simulation.Iterations <= 0 {
		return fmt.Errorf("simulation.iterations must be positive")
	}
	if c := s.Simulation.Confidence; c < 0 || c >= 1 {
		return fmt.Errorf("simulation.confidence must lie in [0, 1)")
	}

	for name, spec := range s.Inputs {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("inputs.%s: %w", name, err)
		}
	}

	for i, sweep := range s.Sensitivity {
		if sweep.Param == "" {
			return fmt.Errorf("sensitivity[%d]: param is required", i)
		}
		if len(sweep.Values) == 0 {
			return fmt.Errorf("sensitivity[%d]: values list is required and must be non-empty", i)
		}
	}
	return nil
}

// Build constructs the scenario's model with its configuration and input
// overrides applied.
func (s *Scenario) Build() (model.Model, error) {
	m, err := model.New(s.Model, model.Config(s.Config))
	if err != nil {
		return nil, err
	}
	return model.WithInputs(m, s.Inputs)
}

// SimConfig returns the run parameters as an engine configuration.
func (s *Scenario) SimConfig() sim.Config {
	return sim.Config{
		Iterations: s.Simulation.Iterations,
		Confidence: s.Simulation.Confidence,
		Seed:       s.Simulation.Seed,
	}
}
