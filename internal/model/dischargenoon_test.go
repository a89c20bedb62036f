package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDischargeByNoonPointConsistency(t *testing.T) {
	m, err := New("discharge_by_noon", nil)
	require.NoError(t, err)
	dbn := m.(*DischargeByNoon)
	point := m.Point()

	parts := dbn.benefits(0.20, 0.40, 8000, 250, 6, 15000)
	assert.InDelta(t, parts.total(), point.AnnualBenefit, 1e-6)

	// Total investment: 145k first year plus four years of 20k maintenance.
	assert.InDelta(t, (145000.0+4*20000)/5, point.AnnualCost, 1e-9)
	assert.Greater(t, point.ROIPct, 0.0)
	assert.Greater(t, point.NPV, 0.0)
	assert.InDelta(t, 145000/(parts.total()/12), point.PaybackMonths, 1e-9)
}

func TestDischargeByNoonBenefitComposition(t *testing.T) {
	m, err := New("discharge_by_noon", nil)
	require.NoError(t, err)
	dbn := m.(*DischargeByNoon)

	parts := dbn.benefits(0.20, 0.40, 8000, 250, 6, 15000)
	assert.Greater(t, parts.capacityRevenue, 0.0)
	assert.Greater(t, parts.edImpact, 0.0)
	assert.Greater(t, parts.staffSavings, 0.0)
	assert.Greater(t, parts.qualityImpact, 0.0)

	// A bigger improvement never produces a smaller benefit.
	wider := dbn.benefits(0.20, 0.50, 8000, 250, 6, 15000)
	assert.Greater(t, wider.total(), parts.total())
}

func TestDischargeByNoonNoImprovementClamps(t *testing.T) {
	m, err := New("discharge_by_noon", nil)
	require.NoError(t, err)

	// A draw can land the sampled current rate above the fixed target; the
	// improvement clamps to zero instead of producing negative benefits.
	draw := map[string]float64{}
	for _, in := range m.Inputs() {
		draw[in.Name] = in.Dist.Mean()
	}
	draw["current_dbn_rate"] = 0.45

	out, err := m.Evaluate(draw)
	require.NoError(t, err)
	assert.Zero(t, out.AnnualBenefit)
	assert.Equal(t, -100.0, out.ROIPct)
	assert.True(t, math.IsInf(out.PaybackMonths, 1))
	assert.Less(t, out.NPV, 0.0)
}

func TestDischargeByNoonConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"census above size", Config{"avg_daily_census": 250}},
		{"target below current", Config{"target_dbn_rate": 0.15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("discharge_by_noon", tt.cfg)
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}
