package model

import "math"

// NPV discounts a series of annual cash flows at the given rate. Flows are
// indexed from year zero: the first element is undiscounted, the element at
// index i is divided by (1+rate)^i. Callers that discount from year one
// lead with a zero flow.
func NPV(rate float64, flows []float64) float64 {
	var total float64
	factor := 1.0
	for _, flow := range flows {
		total += flow / factor
		factor *= 1 + rate
	}
	return total
}

// ROIPct returns ((totalReturn - totalInvestment) / totalInvestment) * 100.
// A zero investment cannot be divided: positive returns report +Inf,
// negative returns -Inf, and no return at all reports zero. The sentinel
// keeps zero-cost initiatives (reusing existing systems) from aborting a
// simulation; the aggregator excludes non-finite values from summary
// statistics.
func ROIPct(totalReturn, totalInvestment float64) float64 {
	if totalInvestment == 0 {
		switch {
		case totalReturn > 0:
			return math.Inf(1)
		case totalReturn < 0:
			return math.Inf(-1)
		}
		return 0
	}
	return (totalReturn - totalInvestment) / totalInvestment * 100
}

// BenefitCostRatio guards the annual benefit/cost quotient the same way.
func BenefitCostRatio(benefit, cost float64) float64 {
	if cost == 0 {
		if benefit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return benefit / cost
}

// PaybackMonths walks cumulative monthly cash flow until it turns
// non-negative. Year one nets year1Annual spread over twelve months; every
// later year nets ongoingAnnual. Returns the (1-based) month of
// break-even, zero when there is nothing to recover, or +Inf when the
// horizon ends underwater.
func PaybackMonths(year1Annual, ongoingAnnual float64, horizonYears int) float64 {
	if year1Annual >= 0 {
		return 0
	}
	var cumulative float64
	for month := 0; month < horizonYears*12; month++ {
		if month < 12 {
			cumulative += year1Annual / 12
		} else {
			cumulative += ongoingAnnual / 12
		}
		if cumulative >= 0 {
			return float64(month + 1)
		}
	}
	return math.Inf(1)
}
