package model

import (
	"math"

	"github.com/roach88/margin/internal/dist"
)

// StaffingVariance models a staffing variance reduction program. The cost of
// variance shows up as overtime and agency premiums, burnout-driven turnover
// and sick calls, and a productivity drag; the program buys those down to a
// committed target state with a scheduling platform and a flex pool.
type StaffingVariance struct {
	cfg Config
}

var staffingDefaults = Config{
	"units":           12,
	"nurses_per_unit": 6,
	"shifts_per_day":  3,

	"regular_hourly":          45,
	"hourly_sigma":            3,
	"overtime_multiplier":     1.5,
	"agency_multiplier":       2.5,
	"turnover_cost_per_nurse": 61110, // NSI 2025 average RN turnover cost
	"turnover_cost_sigma":     8000,
	"sick_day_cost":           540,

	"current_variance":       0.18,
	"current_overtime_share": 0.08,
	"current_agency_share":   0.05,
	"current_turnover_rate":  0.18,
	"current_sick_call_rate": 4,

	"target_variance":       0.07,
	"target_overtime_share": 0.03,
	"target_agency_share":   0.01,
	"target_turnover_rate":  0.15,
	"target_sick_call_rate": 3,

	"share_concentration":    150,
	"turnover_concentration": 120,

	"software_platform":          150000,
	"training_hours":             500,
	"consulting_days":            20,
	"consulting_rate":            2500,
	"flex_pool_setup":            50000,
	"annual_software":            60000,
	"flex_pool_incentive_annual": 120000,

	"discount_rate": 0.05,
	"horizon_years": 5,
}

func init() {
	Register("staffing_variance", newStaffingVariance)
}

func newStaffingVariance(cfg Config) (Model, error) {
	merged, err := merge("staffing_variance", staffingDefaults, cfg)
	if err != nil {
		return nil, err
	}
	if merged["units"] <= 0 || merged["nurses_per_unit"] <= 0 {
		return nil, &ConfigError{Model: "staffing_variance", Key: "units", Message: "units and nurses_per_unit must be positive"}
	}
	if merged["target_overtime_share"] >= merged["current_overtime_share"] {
		return nil, &ConfigError{Model: "staffing_variance", Key: "target_overtime_share", Message: "must be below current_overtime_share"}
	}
	if merged["horizon_years"] < 1 {
		return nil, &ConfigError{Model: "staffing_variance", Key: "horizon_years", Message: "must be at least 1"}
	}
	return &StaffingVariance{cfg: merged}, nil
}

func (m *StaffingVariance) Name() string   { return "staffing_variance" }
func (m *StaffingVariance) Config() Config { return m.cfg.Clone() }
func (m *StaffingVariance) Point() Outcome { return pointOf(m) }

func (m *StaffingVariance) WithValue(key string, value float64) (Model, error) {
	return rebuild(m, key, value)
}

func (m *StaffingVariance) totalNurses() float64 {
	return m.cfg["units"] * m.cfg["nurses_per_unit"] * m.cfg["shifts_per_day"]
}

func (m *StaffingVariance) Inputs() []Input {
	c := m.cfg
	hourly := c["regular_hourly"]
	return []Input{
		// The current state is what we are uncertain about; the targets are
		// program commitments and stay fixed.
		{Name: "current_overtime_share", Dist: dist.BetaMean(c["current_overtime_share"], c["share_concentration"])},
		{Name: "current_agency_share", Dist: dist.BetaMean(c["current_agency_share"], c["share_concentration"])},
		{Name: "current_turnover_rate", Dist: dist.BetaMean(c["current_turnover_rate"], c["turnover_concentration"])},
		{Name: "turnover_cost_per_nurse", Dist: dist.NormalFloor(c["turnover_cost_per_nurse"], c["turnover_cost_sigma"], 40000)},
		{Name: "regular_hourly", Dist: dist.NormalClip(hourly, c["hourly_sigma"], hourly-7, hourly+7)},
	}
}

// VarianceCosts itemizes the annual cost of staffing variance for one state.
type VarianceCosts struct {
	OvertimePremium  float64
	AgencyPremium    float64
	TurnoverCost     float64
	SickCallCost     float64
	ProductivityLoss float64
}

func (v VarianceCosts) Total() float64 {
	return v.OvertimePremium + v.AgencyPremium + v.TurnoverCost + v.SickCallCost + v.ProductivityLoss
}

type staffingState struct {
	variance     float64
	overtime     float64
	agency       float64
	turnover     float64
	sickCallRate float64
}

func (m *StaffingVariance) stateCosts(s staffingState, hourly, turnoverCost float64) VarianceCosts {
	c := m.cfg
	nurses := m.totalNurses()
	annualHours := nurses * 2080

	overtimeHours := annualHours * s.overtime
	agencyHours := annualHours * s.agency
	// Sick calls above a two-day baseline are attributed to variance burnout.
	excessSickDays := nurses * (s.sickCallRate - 2) * 8
	if excessSickDays < 0 {
		excessSickDays = 0
	}

	return VarianceCosts{
		OvertimePremium:  overtimeHours * hourly * (c["overtime_multiplier"] - 1),
		AgencyPremium:    agencyHours * hourly * (c["agency_multiplier"] - 1),
		TurnoverCost:     nurses * s.turnover * turnoverCost,
		SickCallCost:     excessSickDays * c["sick_day_cost"],
		ProductivityLoss: annualHours * hourly * 0.05 * (s.variance / 0.20),
	}
}

func (m *StaffingVariance) targetState() staffingState {
	c := m.cfg
	return staffingState{
		variance:     c["target_variance"],
		overtime:     c["target_overtime_share"],
		agency:       c["target_agency_share"],
		turnover:     c["target_turnover_rate"],
		sickCallRate: c["target_sick_call_rate"],
	}
}

func (m *StaffingVariance) oneTimeCost() float64 {
	c := m.cfg
	return c["software_platform"] +
		c["training_hours"]*c["regular_hourly"] +
		c["consulting_days"]*c["consulting_rate"] +
		c["flex_pool_setup"]
}

func (m *StaffingVariance) ongoingCost() float64 {
	return m.cfg["annual_software"] + m.cfg["flex_pool_incentive_annual"]
}

func (m *StaffingVariance) Evaluate(draw map[string]float64) (Outcome, error) {
	c := m.cfg
	years := int(c["horizon_years"])

	current := staffingState{
		variance:     c["current_variance"],
		overtime:     draw["current_overtime_share"],
		agency:       draw["current_agency_share"],
		turnover:     draw["current_turnover_rate"],
		sickCallRate: c["current_sick_call_rate"],
	}
	hourly := draw["regular_hourly"]
	turnoverCost := draw["turnover_cost_per_nurse"]

	annualSavings := m.stateCosts(current, hourly, turnoverCost).Total() -
		m.stateCosts(m.targetState(), hourly, turnoverCost).Total()

	oneTime := m.oneTimeCost()
	ongoing := m.ongoingCost()

	year1Net := annualSavings - oneTime - ongoing
	laterNet := annualSavings - ongoing

	// Cash flows land at year end, so everything discounts from year one.
	flows := make([]float64, years+1)
	flows[1] = year1Net
	for y := 2; y <= years; y++ {
		flows[y] = laterNet
	}
	npv := NPV(c["discount_rate"], flows)

	payback := math.Inf(1)
	if annualSavings > 0 {
		payback = oneTime / (annualSavings / 12)
	}

	annualCost := ongoing + oneTime/float64(years)
	return Outcome{
		AnnualBenefit:    annualSavings,
		AnnualCost:       annualCost,
		ROIPct:           ROIPct(annualSavings, ongoing),
		NPV:              npv,
		PaybackMonths:    payback,
		BenefitCostRatio: BenefitCostRatio(annualSavings, annualCost),
	}, nil
}

// Thresholds adds the staffing report's decision gates.
func (m *StaffingVariance) Thresholds() []Threshold {
	return []Threshold{
		{Name: "p_payback_under_6mo", Metric: MetricPayback, Above: false, Value: 6},
		{Name: "p_payback_under_12mo", Metric: MetricPayback, Above: false, Value: 12},
		{Name: "p_npv_over_5m", Metric: MetricNPV, Above: true, Value: 5000000},
	}
}

func (m *StaffingVariance) Detail() []Section {
	c := m.cfg
	hourly := c["regular_hourly"]
	turnoverCost := c["turnover_cost_per_nurse"]

	current := m.stateCosts(staffingState{
		variance:     c["current_variance"],
		overtime:     c["current_overtime_share"],
		agency:       c["current_agency_share"],
		turnover:     c["current_turnover_rate"],
		sickCallRate: c["current_sick_call_rate"],
	}, hourly, turnoverCost)
	target := m.stateCosts(m.targetState(), hourly, turnoverCost)
	savings := current.Total() - target.Total()

	return []Section{
		{
			Title: "Facility Profile",
			Lines: []string{
				"Nursing Units: " + count(c["units"]),
				"Total Nursing FTEs: " + count(m.totalNurses()),
				"Current Variance: " + pct(c["current_variance"]*100) + " / Target: " + pct(c["target_variance"]*100),
			},
		},
		{
			Title: "Annual Variance Cost (Current vs Target)",
			Lines: []string{
				"Overtime Premium: " + money(current.OvertimePremium) + " vs " + money(target.OvertimePremium),
				"Agency Premium: " + money(current.AgencyPremium) + " vs " + money(target.AgencyPremium),
				"Turnover Cost: " + money(current.TurnoverCost) + " vs " + money(target.TurnoverCost),
				"Excess Sick Calls: " + money(current.SickCallCost) + " vs " + money(target.SickCallCost),
				"Productivity Loss: " + money(current.ProductivityLoss) + " vs " + money(target.ProductivityLoss),
				"Total: " + money(current.Total()) + " vs " + money(target.Total()),
				"Annual Savings: " + money(savings),
				"Weekly Savings: " + money(savings/52),
			},
		},
		{
			Title: "Investment Required",
			Lines: []string{
				"One-Time Implementation: " + money(m.oneTimeCost()),
				"Ongoing Annual Cost: " + money(m.ongoingCost()),
			},
		},
	}
}
