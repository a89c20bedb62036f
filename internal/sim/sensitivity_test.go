package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/margin/internal/dist"
	"github.com/roach88/margin/internal/model"
)

func TestSensitivitySweep(t *testing.T) {
	m := mustModel(t, "bed_turnover")

	sweep, err := Sensitivity(m, "bed_count", []float64{200, 300, 400})
	require.NoError(t, err)

	assert.Equal(t, "bed_turnover", sweep.Model)
	assert.Equal(t, "bed_count", sweep.Param)
	assert.Equal(t, m.Point(), sweep.Base)
	require.Len(t, sweep.Points, 3)

	// Benefit scales with bed count, so the sweep is monotonic.
	for i := 1; i < len(sweep.Points); i++ {
		assert.Greater(t,
			sweep.Points[i].Outcome.AnnualBenefit,
			sweep.Points[i-1].Outcome.AnnualBenefit)
	}
	// The middle point is the default configuration.
	assert.Equal(t, m.Point(), sweep.Points[1].Outcome)
}

func TestSensitivityUnknownParam(t *testing.T) {
	m := mustModel(t, "bed_turnover")
	_, err := Sensitivity(m, "phase_of_moon", []float64{1})
	require.Error(t, err)
}

func TestSensitivityInvalidValue(t *testing.T) {
	m := mustModel(t, "bed_turnover")
	// Occupancy of 1.5 fails the model's own validation.
	_, err := Sensitivity(m, "average_occupancy", []float64{0.6, 1.5})
	require.Error(t, err)
}

func TestSensitivityEmptyValues(t *testing.T) {
	m := mustModel(t, "bed_turnover")
	_, err := Sensitivity(m, "bed_count", nil)
	require.Error(t, err)
}

func TestSensitivityRequiresAdjustable(t *testing.T) {
	m := &stubModel{
		name:   "rigid",
		inputs: []model.Input{{Name: "x", Dist: dist.Fixed(1)}},
		eval: func(map[string]float64) (model.Outcome, error) {
			return model.Outcome{}, nil
		},
	}
	_, err := Sensitivity(m, "x", []float64{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support sensitivity sweeps")
}
