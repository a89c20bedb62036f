// Package report renders simulation results as text or JSON. Text output is
// the human-facing analysis summary; JSON is the machine-facing export the
// CLI hands to downstream tooling. Both render deterministically from a
// Result so golden comparisons stay stable.
package report

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/margin/internal/model"
)

// printer groups digits in rendered numbers ($1,296,035 not $1296035).
var printer = message.NewPrinter(language.English)

var metricLabels = map[string]string{
	model.MetricAnnualBenefit:    "Annual Benefit",
	model.MetricAnnualCost:       "Annual Cost",
	model.MetricROI:              "ROI",
	model.MetricNPV:              "NPV",
	model.MetricPayback:          "Payback",
	model.MetricBenefitCostRatio: "Benefit/Cost Ratio",
}

func money(v float64) string {
	if math.IsInf(v, 1) {
		return "unbounded"
	}
	if math.IsInf(v, -1) {
		return "-unbounded"
	}
	if v < 0 {
		return printer.Sprintf("-$%.0f", -v)
	}
	return printer.Sprintf("$%.0f", v)
}

func pct(v float64) string {
	if math.IsInf(v, 1) {
		return "unbounded"
	}
	if math.IsInf(v, -1) {
		return "-unbounded"
	}
	return fmt.Sprintf("%.1f%%", v)
}

func months(v float64) string {
	if math.IsInf(v, 1) {
		return "never"
	}
	return fmt.Sprintf("%.1f mo", v)
}

func ratio(v float64) string {
	if math.IsInf(v, 1) {
		return "unbounded"
	}
	return fmt.Sprintf("%.2f", v)
}

// formatMetric renders a metric value in its natural unit.
func formatMetric(name string, v float64) string {
	switch name {
	case model.MetricROI:
		return pct(v)
	case model.MetricPayback:
		return months(v)
	case model.MetricBenefitCostRatio:
		return ratio(v)
	default:
		return money(v)
	}
}
