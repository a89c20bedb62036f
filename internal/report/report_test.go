package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/margin/internal/model"
	"github.com/roach88/margin/internal/sim"
)

// stubResult builds a result with round numbers so the rendered output is
// stable across platforms.
func stubResult() *sim.Result {
	return &sim.Result{
		Model:      "demo",
		Iterations: 1000,
		Confidence: 0.95,
		Seed:       42,
		Point: model.Outcome{
			AnnualBenefit:    1000000,
			AnnualCost:       200000,
			ROIPct:           150,
			NPV:              2500000,
			PaybackMonths:    4,
			BenefitCostRatio: 5,
		},
		Summaries: map[string]sim.Summary{
			model.MetricAnnualBenefit:    {Mean: 1000000, Median: 990000, Std: 100000, CILower: 800000, CIUpper: 1200000, Min: 700000, Max: 1400000, N: 1000},
			model.MetricAnnualCost:       {Mean: 200000, Median: 200000, Std: 5000, CILower: 190000, CIUpper: 210000, Min: 185000, Max: 216000, N: 1000},
			model.MetricROI:              {Mean: 150, Median: 148, Std: 35, CILower: 80, CIUpper: 220, Min: 40, Max: 280, N: 990, Dropped: 10},
			model.MetricNPV:              {Mean: 2500000, Median: 2450000, Std: 500000, CILower: 1500000, CIUpper: 3500000, Min: 1000000, Max: 4200000, N: 1000},
			model.MetricPayback:          {Mean: 4, Median: 3.9, Std: 0.9, CILower: 2.5, CIUpper: 6, Min: 2, Max: 9, N: 990, Dropped: 10},
			model.MetricBenefitCostRatio: {Dropped: 1000},
		},
		Probabilities: map[string]float64{
			"p_positive_roi": 0.985,
			"p_positive_npv": 0.97,
			"p_break_even":   1.0,
		},
		Drivers: []sim.Driver{
			{Input: "profit_margin", Correlation: 0.82},
			{Input: "occupancy", Correlation: -0.25},
		},
	}
}

func TestSummaryGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, stubResult()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "summary", buf.Bytes())
}

func TestSweepTableGolden(t *testing.T) {
	sweep := &sim.Sweep{
		Model: "demo",
		Param: "bed_count",
		Base:  model.Outcome{AnnualBenefit: 1000000, ROIPct: 150, NPV: 2500000},
		Points: []sim.SweepPoint{
			{Value: 200, Outcome: model.Outcome{AnnualBenefit: 500000, ROIPct: 75, NPV: 1200000}},
			{Value: 400, Outcome: model.Outcome{AnnualBenefit: 2000000, ROIPct: 300, NPV: 5000000}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, SweepTable(&buf, sweep))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "sweep", buf.Bytes())
}

type stubDetailer struct {
	model.Model
}

func (stubDetailer) Name() string          { return "demo" }
func (stubDetailer) Inputs() []model.Input { return nil }
func (stubDetailer) Detail() []model.Section {
	return []model.Section{
		{Title: "Assumptions", Lines: []string{"Beds: 300", "Occupancy: 75.0%"}},
	}
}

func TestDetailedIncludesSectionsAndPercentiles(t *testing.T) {
	res := stubResult()
	res.Samples = map[string][]float64{
		model.MetricAnnualBenefit: {900000, 1000000, 1100000},
		model.MetricROI:           {100, 150, 200, math.Inf(1)},
		model.MetricNPV:           {2000000, 2500000, 3000000},
	}

	var buf bytes.Buffer
	require.NoError(t, Detailed(&buf, res, stubDetailer{}))
	out := buf.String()

	assert.Contains(t, out, "Assumptions\n")
	assert.Contains(t, out, "  Beds: 300\n")
	assert.Contains(t, out, "Percentiles\n")

	// p50 of three samples is the middle one; the unbounded ROI sample is
	// excluded from the ladder.
	lines := strings.Split(out, "\n")
	var p50 string
	for _, line := range lines {
		if strings.Contains(line, "p50") {
			p50 = line
		}
	}
	require.NotEmpty(t, p50)
	assert.Contains(t, p50, "$1,000,000")
	assert.Contains(t, p50, "150.0%")
	assert.Contains(t, p50, "$2,500,000")
}

func TestDetailedWithoutSamplesSkipsPercentiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Detailed(&buf, stubResult(), stubDetailer{}))
	assert.NotContains(t, buf.String(), "Percentiles")
}

func TestJSONExport(t *testing.T) {
	res := stubResult()
	res.Point.PaybackMonths = math.Inf(1)
	res.Samples = map[string][]float64{
		model.MetricROI: {100, math.Inf(1)},
	}

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, Export{Result: res}, false))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	result := decoded["result"].(map[string]any)

	assert.Equal(t, "demo", result["model"])
	assert.Equal(t, float64(1000), result["iterations"])

	// The unbounded payback renders as null.
	point := result["point"].(map[string]any)
	assert.Nil(t, point[model.MetricPayback])
	assert.Equal(t, 150.0, point[model.MetricROI])

	// Samples are excluded unless requested.
	_, hasSamples := result["samples"]
	assert.False(t, hasSamples)
	_, hasSweeps := decoded["sweeps"]
	assert.False(t, hasSweeps)
}

func TestJSONExportWithSamplesAndSweeps(t *testing.T) {
	res := stubResult()
	res.Samples = map[string][]float64{
		model.MetricROI: {100, math.Inf(1)},
	}
	sweep := &sim.Sweep{Model: "demo", Param: "bed_count", Base: res.Point}

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, Export{Result: res, Sweeps: []*sim.Sweep{sweep}}, true))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	result := decoded["result"].(map[string]any)
	samples := result["samples"].(map[string]any)
	roi := samples[model.MetricROI].([]any)
	require.Len(t, roi, 2)
	assert.Equal(t, 100.0, roi[0])
	assert.Nil(t, roi[1])

	sweeps := decoded["sweeps"].([]any)
	require.Len(t, sweeps, 1)
	assert.Equal(t, "bed_count", sweeps[0].(map[string]any)["param"])
}
