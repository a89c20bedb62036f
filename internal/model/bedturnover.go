package model

import (
	"math"

	"github.com/roach88/margin/internal/dist"
)

// BedTurnover models a bed turnaround time reduction initiative: cutting
// the time between one patient's discharge and the next admission recovers
// bed-days that would otherwise be lost, which monetizes as contribution
// margin on recovered capacity plus knock-on ED, surgery, and overtime
// savings.
type BedTurnover struct {
	cfg Config
}

var bedTurnoverDefaults = Config{
	"bed_count":                 300,
	"average_occupancy":         0.75,
	"occupancy_concentration":   40,
	"revenue_per_bed_day":       2000,
	"revenue_sigma_pct":         0.10,
	"current_turnover_minutes":  180,
	"turnover_sigma_minutes":    15,
	"turnover_floor_minutes":    150,
	"target_turnover_minutes":   90,
	"annual_discharges_per_bed": 91.25, // 4-day average length of stay
	"evs_hourly_cost":           25,
	"nurse_hourly_cost":         75,
	"profit_margin":             0.40,
	"margin_concentration":      20,
	"implementation_cost":       350000,
	"implementation_cost_low":   300000,
	"implementation_cost_high":  400000,
	"annual_maintenance_cost":   50000,
	"maintenance_sigma":         8000,
	"maintenance_floor":         35000,
	"discount_rate":             0.08,
	"discount_spread":           0.01,
	"horizon_years":             5,
	"ed_boarding_benefit_pct":   0.10,
	"surgery_benefit_pct":       0.05,
	"overtime_benefit_pct":      0.15,
	"staff_per_bed":             0.5,
	"training_hours_per_staff":  4,
}

func init() {
	Register("bed_turnover", newBedTurnover)
}

func newBedTurnover(cfg Config) (Model, error) {
	merged, err := merge("bed_turnover", bedTurnoverDefaults, cfg)
	if err != nil {
		return nil, err
	}
	if merged["bed_count"] <= 0 {
		return nil, &ConfigError{Model: "bed_turnover", Key: "bed_count", Message: "must be positive"}
	}
	if occ := merged["average_occupancy"]; occ <= 0 || occ >= 1 {
		return nil, &ConfigError{Model: "bed_turnover", Key: "average_occupancy", Message: "must lie in (0, 1)"}
	}
	if merged["current_turnover_minutes"] <= merged["target_turnover_minutes"] {
		return nil, &ConfigError{Model: "bed_turnover", Key: "current_turnover_minutes", Message: "must exceed target_turnover_minutes"}
	}
	if merged["horizon_years"] < 1 {
		return nil, &ConfigError{Model: "bed_turnover", Key: "horizon_years", Message: "must be at least 1"}
	}
	return &BedTurnover{cfg: merged}, nil
}

func (m *BedTurnover) Name() string   { return "bed_turnover" }
func (m *BedTurnover) Config() Config { return m.cfg.Clone() }
func (m *BedTurnover) Point() Outcome { return pointOf(m) }

func (m *BedTurnover) WithValue(key string, value float64) (Model, error) {
	return rebuild(m, key, value)
}

// Inputs recenters each distribution on the configured value so overrides
// like a 250-bed hospital or a $2,500 bed-day shift the whole simulation,
// not just the point estimate. Spreads follow the tightened "realistic"
// calibration: occupancy known within a few points, turnover times stable
// day to day, revenue predictable within a facility.
func (m *BedTurnover) Inputs() []Input {
	c := m.cfg
	revenue := c["revenue_per_bed_day"]
	return []Input{
		{Name: "occupancy", Dist: dist.BetaMean(c["average_occupancy"], c["occupancy_concentration"])},
		{Name: "current_turnover_minutes", Dist: dist.NormalFloor(c["current_turnover_minutes"], c["turnover_sigma_minutes"], c["turnover_floor_minutes"])},
		// The target is an implementation decision, not a random variable.
		{Name: "target_turnover_minutes", Dist: dist.Fixed(c["target_turnover_minutes"])},
		{Name: "revenue_per_bed_day", Dist: dist.NormalClip(revenue, revenue*c["revenue_sigma_pct"], revenue*0.75, revenue*1.25)},
		{Name: "profit_margin", Dist: dist.BetaMean(c["profit_margin"], c["margin_concentration"])},
		{Name: "implementation_cost", Dist: dist.Triangular(c["implementation_cost_low"], c["implementation_cost"], c["implementation_cost_high"])},
		{Name: "annual_maintenance_cost", Dist: dist.NormalFloor(c["annual_maintenance_cost"], c["maintenance_sigma"], c["maintenance_floor"])},
		{Name: "discount_rate", Dist: dist.Uniform(c["discount_rate"]-c["discount_spread"], c["discount_rate"]+c["discount_spread"])},
	}
}

func (m *BedTurnover) Evaluate(draw map[string]float64) (Outcome, error) {
	c := m.cfg
	occupancy := draw["occupancy"]
	current := draw["current_turnover_minutes"]
	target := draw["target_turnover_minutes"]
	revenue := draw["revenue_per_bed_day"]
	margin := draw["profit_margin"]
	implCost := draw["implementation_cost"]
	maintenance := draw["annual_maintenance_cost"]
	discount := draw["discount_rate"]

	years := int(c["horizon_years"])
	operationalBeds := c["bed_count"] * occupancy
	annualTurnovers := operationalBeds * c["annual_discharges_per_bed"]

	timeSaved := current - target
	if timeSaved <= 0 {
		// Nothing to monetize; the spend is sunk.
		return Outcome{
			AnnualCost:    implCost/float64(years) + maintenance,
			ROIPct:        -100,
			NPV:           -implCost,
			PaybackMonths: math.Inf(1),
		}, nil
	}

	hoursSaved := annualTurnovers * timeSaved / 60
	bedDaysGained := hoursSaved / 24
	directRevenue := bedDaysGained * revenue * margin
	edSavings := directRevenue * c["ed_boarding_benefit_pct"]
	surgerySavings := directRevenue * c["surgery_benefit_pct"]
	overtimeSavings := annualTurnovers * 0.5 * c["nurse_hourly_cost"] * c["overtime_benefit_pct"]
	totalBenefit := directRevenue + edSavings + surgerySavings + overtimeSavings

	year1Cost := implCost + m.trainingCost()

	flows := make([]float64, years)
	for y := range flows {
		if y == 0 {
			flows[y] = totalBenefit - year1Cost
		} else {
			flows[y] = totalBenefit - maintenance
		}
	}
	npv := NPV(discount, flows)

	totalInvestment := year1Cost + maintenance*float64(years-1)
	totalReturn := totalBenefit * float64(years)

	payback := math.Inf(1)
	if totalBenefit > 0 {
		if monthly := totalBenefit / 12; monthly > year1Cost/12 {
			payback = year1Cost / monthly
		} else {
			payback = PaybackMonths(totalBenefit-year1Cost, totalBenefit-maintenance, years)
		}
	}

	annualCost := totalInvestment / float64(years)
	return Outcome{
		AnnualBenefit:    totalBenefit,
		AnnualCost:       annualCost,
		ROIPct:           ROIPct(totalReturn, totalInvestment),
		NPV:              npv,
		PaybackMonths:    payback,
		BenefitCostRatio: BenefitCostRatio(totalBenefit, annualCost),
	}, nil
}

func (m *BedTurnover) trainingCost() float64 {
	c := m.cfg
	staff := c["bed_count"] * c["staff_per_bed"]
	blendedRate := (c["nurse_hourly_cost"] + c["evs_hourly_cost"]) / 2
	return staff * c["training_hours_per_staff"] * blendedRate
}

// BaselineMetrics quantifies capacity lost at the current turnover time.
type BaselineMetrics struct {
	OperationalBeds          float64
	AnnualTurnovers          float64
	ExcessMinutesPerTurnover float64
	AnnualLostHours          float64
	AnnualLostBedDays        float64
	EquivalentBedsLost       float64
}

// Baseline computes the current-state capacity loss at configured values.
func (m *BedTurnover) Baseline() BaselineMetrics {
	c := m.cfg
	operationalBeds := c["bed_count"] * c["average_occupancy"]
	annualTurnovers := operationalBeds * c["annual_discharges_per_bed"]
	excess := c["current_turnover_minutes"] - c["target_turnover_minutes"]
	lostHours := annualTurnovers * excess / 60
	lostBedDays := lostHours / 24
	return BaselineMetrics{
		OperationalBeds:          operationalBeds,
		AnnualTurnovers:          annualTurnovers,
		ExcessMinutesPerTurnover: excess,
		AnnualLostHours:          lostHours,
		AnnualLostBedDays:        lostBedDays,
		EquivalentBedsLost:       lostBedDays / 365,
	}
}

// ImprovementImpact breaks down the point-estimate annual benefit.
type ImprovementImpact struct {
	TimeSavedPerTurnover       float64
	AnnualHoursSaved           float64
	AnnualBedDaysGained        float64
	DirectRevenueGain          float64
	EDBoardingSavings          float64
	SurgeryCancellationSavings float64
	OvertimeReduction          float64
	TotalAnnualBenefit         float64
}

// Improvement computes the point-estimate benefit breakdown.
func (m *BedTurnover) Improvement() ImprovementImpact {
	c := m.cfg
	baseline := m.Baseline()
	timeSaved := baseline.ExcessMinutesPerTurnover
	hoursSaved := baseline.AnnualTurnovers * timeSaved / 60
	bedDaysGained := hoursSaved / 24
	direct := bedDaysGained * c["revenue_per_bed_day"] * c["profit_margin"]
	ed := direct * c["ed_boarding_benefit_pct"]
	surgery := direct * c["surgery_benefit_pct"]
	overtime := baseline.AnnualTurnovers * 0.5 * c["nurse_hourly_cost"] * c["overtime_benefit_pct"]
	return ImprovementImpact{
		TimeSavedPerTurnover:       timeSaved,
		AnnualHoursSaved:           hoursSaved,
		AnnualBedDaysGained:        bedDaysGained,
		DirectRevenueGain:          direct,
		EDBoardingSavings:          ed,
		SurgeryCancellationSavings: surgery,
		OvertimeReduction:          overtime,
		TotalAnnualBenefit:         direct + ed + surgery + overtime,
	}
}

// CostBreakdown itemizes the investment.
type CostBreakdown struct {
	ImplementationCost float64
	TrainingCost       float64
	Year1Total         float64
	AnnualMaintenance  float64
}

// Costs computes the point-estimate cost breakdown.
func (m *BedTurnover) Costs() CostBreakdown {
	c := m.cfg
	training := m.trainingCost()
	return CostBreakdown{
		ImplementationCost: c["implementation_cost"],
		TrainingCost:       training,
		Year1Total:         c["implementation_cost"] + training,
		AnnualMaintenance:  c["annual_maintenance_cost"],
	}
}

func (m *BedTurnover) Detail() []Section {
	c := m.cfg
	baseline := m.Baseline()
	improvement := m.Improvement()
	costs := m.Costs()
	return []Section{
		{
			Title: "Hospital Configuration",
			Lines: []string{
				"Total Beds: " + count(c["bed_count"]),
				"Average Occupancy: " + pct(c["average_occupancy"]*100),
				"Revenue per Bed Day: " + money(c["revenue_per_bed_day"]),
				"Current Turnover Time: " + count(c["current_turnover_minutes"]) + " minutes",
				"Target Turnover Time: " + count(c["target_turnover_minutes"]) + " minutes",
			},
		},
		{
			Title: "Current State",
			Lines: []string{
				"Annual Turnovers: " + count(baseline.AnnualTurnovers),
				"Excess Time per Turnover: " + count(baseline.ExcessMinutesPerTurnover) + " minutes",
				"Annual Lost Bed Days: " + count(baseline.AnnualLostBedDays),
				"Equivalent Beds Lost: " + printer.Sprintf("%.1f", baseline.EquivalentBedsLost),
			},
		},
		{
			Title: "Improvement Opportunity (Point Estimate)",
			Lines: []string{
				"Time Saved per Turnover: " + count(improvement.TimeSavedPerTurnover) + " minutes",
				"Annual Bed Days Gained: " + count(improvement.AnnualBedDaysGained),
				"Direct Margin Gain: " + money(improvement.DirectRevenueGain),
				"ED Boarding Reduction: " + money(improvement.EDBoardingSavings),
				"Surgery Cancellation Reduction: " + money(improvement.SurgeryCancellationSavings),
				"Overtime Reduction: " + money(improvement.OvertimeReduction),
				"Total Annual Benefit: " + money(improvement.TotalAnnualBenefit),
			},
		},
		{
			Title: "Investment Required",
			Lines: []string{
				"Implementation Cost: " + money(costs.ImplementationCost),
				"Training Cost: " + money(costs.TrainingCost),
				"Year 1 Total: " + money(costs.Year1Total),
				"Annual Maintenance: " + money(costs.AnnualMaintenance),
			},
		},
	}
}
