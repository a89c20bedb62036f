package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNPV(t *testing.T) {
	// Index zero is undiscounted.
	assert.InDelta(t, 0.0, NPV(0.10, []float64{-100, 110}), 1e-9)
	assert.InDelta(t, 30.0, NPV(0, []float64{10, 10, 10}), 1e-12)

	// Leading zero flow pushes the whole series out one year.
	fromYear1 := NPV(0.05, []float64{0, 100})
	assert.InDelta(t, 100/1.05, fromYear1, 1e-9)

	assert.Equal(t, 0.0, NPV(0.08, nil))
}

func TestROIPct(t *testing.T) {
	assert.InDelta(t, 100.0, ROIPct(200, 100), 1e-12)
	assert.InDelta(t, -50.0, ROIPct(50, 100), 1e-12)

	require.True(t, math.IsInf(ROIPct(1, 0), 1))
	require.True(t, math.IsInf(ROIPct(-1, 0), -1))
	assert.Equal(t, 0.0, ROIPct(0, 0))
}

func TestBenefitCostRatio(t *testing.T) {
	assert.InDelta(t, 2.5, BenefitCostRatio(250, 100), 1e-12)
	require.True(t, math.IsInf(BenefitCostRatio(1, 0), 1))
	assert.Equal(t, 0.0, BenefitCostRatio(0, 0))
	assert.Equal(t, 0.0, BenefitCostRatio(-5, 0))
}

func TestPaybackMonths(t *testing.T) {
	// Already ahead in year one: nothing to recover.
	assert.Equal(t, 0.0, PaybackMonths(5000, 5000, 5))

	// Underwater all year one, recovered exactly at the end of year two.
	assert.Equal(t, 24.0, PaybackMonths(-1200, 1200, 5))

	// Recovery mid-year: -1200 after year one, +2400/year after.
	assert.Equal(t, 18.0, PaybackMonths(-1200, 2400, 5))

	// Never recovers inside the horizon.
	require.True(t, math.IsInf(PaybackMonths(-1000000, 100, 3), 1))
}
