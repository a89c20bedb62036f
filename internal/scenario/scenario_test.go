package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/margin/internal/dist"
)

const validScenario = `name: regional-300-bed
description: Bed turnover reduction at a 300-bed regional hospital
model: bed_turnover
config:
  bed_count: 300
  revenue_per_bed_day: 2200
inputs:
  occupancy:
    dist: beta
    alpha: 36
    beta: 12
simulation:
  iterations: 10000
  confidence: 0.95
  seed: 42
sensitivity:
  - param: bed_count
    values: [200, 300, 400]
`

func TestParseValidScenario(t *testing.T) {
	s, err := Parse("regional.yaml", []byte(validScenario))
	require.NoError(t, err)

	assert.Equal(t, "regional-300-bed", s.Name)
	assert.Equal(t, "bed_turnover", s.Model)
	assert.Equal(t, 2200.0, s.Config["revenue_per_bed_day"])
	assert.Equal(t, dist.KindBeta, s.Inputs["occupancy"].Kind)
	assert.Equal(t, 10000, s.Simulation.Iterations)
	assert.Equal(t, uint64(42), s.Simulation.Seed)
	require.Len(t, s.Sensitivity, 1)
	assert.Equal(t, "bed_count", s.Sensitivity[0].Param)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validScenario), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "regional-300-bed", s.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown top-level field", `
name: x
model: bed_turnover
simulation: {iterations: 100}
iterattions: 5
`},
		{"unknown distribution kind", `
name: x
model: bed_turnover
inputs:
  occupancy: {dist: cauchy, mu: 0}
simulation: {iterations: 100}
`},
		{"zero iterations", `
name: x
model: bed_turnover
simulation: {iterations: 0}
`},
		{"fractional iterations", `
name: x
model: bed_turnover
simulation: {iterations: 2.5}
`},
		{"confidence at one", `
name: x
model: bed_turnover
simulation: {iterations: 100, confidence: 1.0}
`},
		{"missing model", `
name: x
simulation: {iterations: 100}
`},
		{"empty sensitivity values", `
name: x
model: bed_turnover
simulation: {iterations: 100}
sensitivity:
  - param: bed_count
    values: []
`},
		{"string where number expected", `
name: x
model: bed_turnover
config: {bed_count: lots}
simulation: {iterations: 100}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.name+".yaml", []byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestParseRejectsInvalidDistributionShape(t *testing.T) {
	// Schema-valid but semantically broken: sigma must be positive.
	_, err := Parse("bad-sigma.yaml", []byte(`
name: x
model: bed_turnover
inputs:
  occupancy: {dist: normal, mu: 0.8, sigma: -1}
simulation: {iterations: 100}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sigma")
}

func TestBuildAppliesConfigAndInputs(t *testing.T) {
	s, err := Parse("regional.yaml", []byte(validScenario))
	require.NoError(t, err)

	m, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, "bed_turnover", m.Name())
	assert.Equal(t, 2200.0, m.Config()["revenue_per_bed_day"])

	for _, in := range m.Inputs() {
		if in.Name == "occupancy" {
			assert.Equal(t, 36.0, in.Dist.Alpha)
		}
	}
}

func TestBuildRejectsUnknownModel(t *testing.T) {
	s, err := Parse("x.yaml", []byte(`
name: x
model: perpetual_motion
simulation: {iterations: 100}
`))
	require.NoError(t, err)
	_, err = s.Build()
	require.Error(t, err)
}

func TestBuildRejectsUnknownConfigKey(t *testing.T) {
	s, err := Parse("x.yaml", []byte(`
name: x
model: bed_turnover
config: {bed_cuont: 250}
simulation: {iterations: 100}
`))
	require.NoError(t, err)
	_, err = s.Build()
	require.Error(t, err)
}

func TestBuildRejectsUnknownInputName(t *testing.T) {
	s, err := Parse("x.yaml", []byte(`
name: x
model: bed_turnover
inputs:
  room_temperature: {dist: fixed, value: 21}
simulation: {iterations: 100}
`))
	require.NoError(t, err)
	_, err = s.Build()
	require.Error(t, err)
}

func TestSimConfig(t *testing.T) {
	s, err := Parse("regional.yaml", []byte(validScenario))
	require.NoError(t, err)
	cfg := s.SimConfig()
	assert.Equal(t, 10000, cfg.Iterations)
	assert.Equal(t, 0.95, cfg.Confidence)
	assert.Equal(t, uint64(42), cfg.Seed)
}
