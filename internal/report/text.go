package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/roach88/margin/internal/model"
	"github.com/roach88/margin/internal/sim"
)

// percentileRows is the percentile ladder of the detailed report.
var percentileRows = []float64{1, 5, 10, 25, 50, 75, 90, 95, 99}

// Summary writes the one-screen run summary: point estimate, per-metric
// statistics, probabilities, and driver correlations.
func Summary(w io.Writer, res *sim.Result) error {
	if _, err := fmt.Fprintf(w, "Model: %s\n", res.Model); err != nil {
		return err
	}
	fmt.Fprintf(w, "Iterations: %s  Seed: %d  Confidence: %.0f%%\n",
		printer.Sprintf("%d", res.Iterations), res.Seed, res.Confidence*100)

	fmt.Fprintf(w, "\nPoint Estimate\n")
	for _, name := range model.MetricNames() {
		fmt.Fprintf(w, "  %-20s %s\n", metricLabels[name], formatMetric(name, res.Point.Metric(name)))
	}

	fmt.Fprintf(w, "\nSimulation Summary\n")
	for _, name := range model.MetricNames() {
		s := res.Summaries[name]
		if s.N == 0 {
			printer.Fprintf(w, "  %-20s all %d samples unbounded\n", metricLabels[name], s.Dropped)
			continue
		}
		fmt.Fprintf(w, "  %-20s mean %s  ci [%s, %s]",
			metricLabels[name],
			formatMetric(name, s.Mean),
			formatMetric(name, s.CILower),
			formatMetric(name, s.CIUpper))
		if s.Dropped > 0 {
			printer.Fprintf(w, "  (%d unbounded dropped)", s.Dropped)
		}
		fmt.Fprintln(w)
	}

	if len(res.Probabilities) > 0 {
		fmt.Fprintf(w, "\nProbabilities\n")
		names := make([]string, 0, len(res.Probabilities))
		for name := range res.Probabilities {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %-24s %.1f%%\n", name, res.Probabilities[name]*100)
		}
	}

	if len(res.Drivers) > 0 {
		fmt.Fprintf(w, "\nKey Drivers\n")
		for _, d := range res.Drivers {
			fmt.Fprintf(w, "  %-28s r=%+.2f\n", d.Input, d.Correlation)
		}
	}
	return nil
}

// Detailed writes the full report: the summary, the model's breakdown
// sections, and the percentile ladder over the raw samples.
func Detailed(w io.Writer, res *sim.Result, m model.Model) error {
	if err := Summary(w, res); err != nil {
		return err
	}

	if d, ok := m.(model.Detailer); ok {
		for _, section := range d.Detail() {
			fmt.Fprintf(w, "\n%s\n", section.Title)
			for _, line := range section.Lines {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}

	if len(res.Samples) > 0 {
		fmt.Fprintf(w, "\nPercentiles\n")
		fmt.Fprintf(w, "  %4s  %16s  %12s  %16s\n", "pct", "annual benefit", "roi", "npv")
		for _, p := range percentileRows {
			fmt.Fprintf(w, "  %4s  %16s  %12s  %16s\n",
				fmt.Sprintf("p%.0f", p),
				money(sim.Percentile(res.Samples[model.MetricAnnualBenefit], p)),
				pct(sim.Percentile(res.Samples[model.MetricROI], p)),
				money(sim.Percentile(res.Samples[model.MetricNPV], p)))
		}
	}
	return nil
}

// SweepTable writes one sensitivity sweep as a table of point estimates.
func SweepTable(w io.Writer, sweep *sim.Sweep) error {
	if _, err := fmt.Fprintf(w, "Sensitivity: %s over %s\n", sweep.Model, sweep.Param); err != nil {
		return err
	}
	fmt.Fprintf(w, "  %-12s  %16s  %12s  %16s\n", "value", "annual benefit", "roi", "npv")
	fmt.Fprintf(w, "  %-12s  %16s  %12s  %16s\n",
		"(base)",
		money(sweep.Base.AnnualBenefit),
		pct(sweep.Base.ROIPct),
		money(sweep.Base.NPV))
	for _, p := range sweep.Points {
		fmt.Fprintf(w, "  %-12s  %16s  %12s  %16s\n",
			printer.Sprintf("%g", p.Value),
			money(p.Outcome.AnnualBenefit),
			pct(p.Outcome.ROIPct),
			money(p.Outcome.NPV))
	}
	return nil
}
