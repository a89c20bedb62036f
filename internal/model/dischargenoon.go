package model

import (
	"github.com/roach88/margin/internal/dist"
)

// DischargeByNoon models a discharge-by-noon (DBN) program. Shifting
// discharges into the morning frees beds for the afternoon admission wave,
// which shows up as new admission revenue, reduced ED boarding and
// diversion, calmer staffing, and fewer bed-shortage surgery cancellations.
type DischargeByNoon struct {
	cfg Config
}

var dischargeDefaults = Config{
	"hospital_size":    200,
	"avg_daily_census": 160,
	"avg_los_days":     4.5,

	"revenue_per_admission":      8000,
	"admission_revenue_sigma":    800,
	"ed_boarding_cost_per_hour":  250,
	"boarding_cost_sigma":        30,
	"overtime_cost_per_hour":     75,
	"unnecessary_day_cost":       600,
	"surgical_case_revenue":      15000,
	"surgical_revenue_sigma":     2000,
	"ed_diversion_loss_per_hour": 2000,

	"current_dbn_rate":  0.20,
	"dbn_concentration": 60,
	"target_dbn_rate":   0.40,

	"avg_ed_boarding_hours":            6,
	"boarding_hours_sigma":             1,
	"surgical_cancellations_per_month": 8,
	"ed_admission_rate":                0.20,
	"staff_hours_per_early_discharge":  2,

	"first_year_cost":    145000, // dashboard, training, consulting, tooling, pilot, maintenance
	"annual_maintenance": 20000,
	"discount_rate":      0.08,
	"horizon_years":      5,
}

func init() {
	Register("discharge_by_noon", newDischargeByNoon)
}

func newDischargeByNoon(cfg Config) (Model, error) {
	merged, err := merge("discharge_by_noon", dischargeDefaults, cfg)
	if err != nil {
		return nil, err
	}
	if merged["avg_daily_census"] > merged["hospital_size"] {
		return nil, &ConfigError{Model: "discharge_by_noon", Key: "avg_daily_census", Message: "cannot exceed hospital_size"}
	}
	if merged["target_dbn_rate"] <= merged["current_dbn_rate"] {
		return nil, &ConfigError{Model: "discharge_by_noon", Key: "target_dbn_rate", Message: "must exceed current_dbn_rate"}
	}
	return &DischargeByNoon{cfg: merged}, nil
}

func (m *DischargeByNoon) Name() string   { return "discharge_by_noon" }
func (m *DischargeByNoon) Config() Config { return m.cfg.Clone() }
func (m *DischargeByNoon) Point() Outcome { return pointOf(m) }

func (m *DischargeByNoon) WithValue(key string, value float64) (Model, error) {
	return rebuild(m, key, value)
}

func (m *DischargeByNoon) Inputs() []Input {
	c := m.cfg
	return []Input{
		{Name: "current_dbn_rate", Dist: dist.BetaMean(c["current_dbn_rate"], c["dbn_concentration"])},
		// The target is a program commitment, not a random variable.
		{Name: "target_dbn_rate", Dist: dist.Fixed(c["target_dbn_rate"])},
		{Name: "revenue_per_admission", Dist: dist.NormalClip(c["revenue_per_admission"], c["admission_revenue_sigma"], c["revenue_per_admission"]*0.75, c["revenue_per_admission"]*1.25)},
		{Name: "ed_boarding_cost_per_hour", Dist: dist.NormalFloor(c["ed_boarding_cost_per_hour"], c["boarding_cost_sigma"], c["ed_boarding_cost_per_hour"]*0.6)},
		{Name: "avg_ed_boarding_hours", Dist: dist.NormalFloor(c["avg_ed_boarding_hours"], c["boarding_hours_sigma"], 3)},
		{Name: "surgical_case_revenue", Dist: dist.NormalFloor(c["surgical_case_revenue"], c["surgical_revenue_sigma"], c["surgical_case_revenue"]*0.5)},
	}
}

// benefitParts is the DBN benefit decomposition shared by Evaluate and the
// detailed report.
type benefitParts struct {
	capacityRevenue      float64
	edImpact             float64
	staffSavings         float64
	qualityImpact        float64
	newAdmissions        float64
	boardingHoursSaved   float64
	cancellationsAvoided float64
}

func (p benefitParts) total() float64 {
	return p.capacityRevenue + p.edImpact + p.staffSavings + p.qualityImpact
}

func (m *DischargeByNoon) benefits(current, target, admissionRevenue, boardingCostPerHour, boardingHours, surgicalRevenue float64) benefitParts {
	c := m.cfg
	improvement := target - current
	if improvement < 0 {
		improvement = 0
	}

	annualDischarges := c["avg_daily_census"] * 365 / c["avg_los_days"]

	// Capacity: each shifted discharge frees the bed about two hours
	// earlier, compounding into whole bed-days across the year.
	hoursGained := improvement * 0.20 * 2
	capacityGain := hoursGained / 24
	bedDaysGained := c["hospital_size"] * 365 * capacityGain
	newAdmissions := bedDaysGained / c["avg_los_days"]
	capacityRevenue := newAdmissions * admissionRevenue

	// ED: every 10-point DBN gain cuts boarding roughly 15%.
	boardingReduction := improvement * 1.5
	annualEDVisits := c["hospital_size"] * 365
	admissionsFromED := annualEDVisits * c["ed_admission_rate"]
	currentBoardingHours := admissionsFromED * boardingHours
	boardingSaved := currentBoardingHours * boardingReduction
	boardingSavings := boardingSaved * boardingCostPerHour
	diversionSaved := boardingSaved * 0.05
	diversionRecovered := diversionSaved * c["ed_diversion_loss_per_hour"]
	edImpact := boardingSavings + diversionRecovered

	// Staffing: morning discharges flatten the afternoon surge.
	shifted := annualDischarges * improvement
	staffHoursSaved := shifted * c["staff_hours_per_early_discharge"]
	overtimeSavings := staffHoursSaved * 0.3 * c["overtime_cost_per_hour"]
	weekendImproved := annualDischarges * 0.28 * (improvement * 0.5)
	weekendSavings := weekendImproved * 4 * c["overtime_cost_per_hour"]
	staffSavings := overtimeSavings + weekendSavings

	// Quality: fewer unnecessary days, fewer bed-shortage cancellations,
	// satisfaction-linked reimbursement.
	annualPatientDays := c["avg_daily_census"] * 365
	unnecessaryReduced := annualPatientDays * 0.05 * improvement * 0.4
	unnecessarySavings := unnecessaryReduced * c["unnecessary_day_cost"]
	cancellationsAvoided := c["surgical_cancellations_per_month"] * improvement * 0.3 * 12
	surgicalRecovered := cancellationsAvoided * surgicalRevenue
	satisfactionValue := annualDischarges * 50 * improvement * 0.2
	qualityImpact := unnecessarySavings + surgicalRecovered + satisfactionValue

	return benefitParts{
		capacityRevenue:      capacityRevenue,
		edImpact:             edImpact,
		staffSavings:         staffSavings,
		qualityImpact:        qualityImpact,
		newAdmissions:        newAdmissions,
		boardingHoursSaved:   boardingSaved,
		cancellationsAvoided: cancellationsAvoided,
	}
}

func (m *DischargeByNoon) Evaluate(draw map[string]float64) (Outcome, error) {
	c := m.cfg
	years := int(c["horizon_years"])

	parts := m.benefits(
		draw["current_dbn_rate"],
		draw["target_dbn_rate"],
		draw["revenue_per_admission"],
		draw["ed_boarding_cost_per_hour"],
		draw["avg_ed_boarding_hours"],
		draw["surgical_case_revenue"],
	)
	totalBenefit := parts.total()

	firstYear := c["first_year_cost"]
	maintenance := c["annual_maintenance"]

	flows := make([]float64, years)
	for y := range flows {
		if y == 0 {
			flows[y] = totalBenefit - firstYear
		} else {
			flows[y] = totalBenefit - maintenance
		}
	}
	npv := NPV(c["discount_rate"], flows)

	totalInvestment := firstYear + maintenance*float64(years-1)
	totalReturn := totalBenefit * float64(years)

	payback := PaybackMonths(totalBenefit-firstYear, totalBenefit-maintenance, years)
	if totalBenefit > 0 {
		if monthly := totalBenefit / 12; monthly > firstYear/12 {
			payback = firstYear / monthly
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

func (m *DischargeByNoon) Detail() []Section {
	c := m.cfg
	parts := m.benefits(
		c["current_dbn_rate"],
		c["target_dbn_rate"],
		c["revenue_per_admission"],
		c["ed_boarding_cost_per_hour"],
		c["avg_ed_boarding_hours"],
		c["surgical_case_revenue"],
	)
	return []Section{
		{
			Title: "Program Target",
			Lines: []string{
				"Current DBN Rate: " + pct(c["current_dbn_rate"]*100),
				"Target DBN Rate: " + pct(c["target_dbn_rate"]*100),
				"Improvement: " + pct((c["target_dbn_rate"]-c["current_dbn_rate"])*100) + " points",
			},
		},
		{
			Title: "Annual Benefit Breakdown (Point Estimate)",
			Lines: []string{
				"New Admission Revenue: " + money(parts.capacityRevenue) + " (" + count(parts.newAdmissions) + " admissions)",
				"ED Boarding + Diversion Impact: " + money(parts.edImpact) + " (" + count(parts.boardingHoursSaved) + " hours saved)",
				"Staff Efficiency: " + money(parts.staffSavings),
				"Quality Impact: " + money(parts.qualityImpact) + " (" + count(parts.cancellationsAvoided) + " cancellations avoided)",
				"Total Annual Benefit: " + money(parts.total()),
			},
		},
		{
			Title: "Investment Required",
			Lines: []string{
				"First Year Cost: " + money(c["first_year_cost"]),
				"Ongoing Annual Maintenance: " + money(c["annual_maintenance"]),
			},
		},
	}
}
