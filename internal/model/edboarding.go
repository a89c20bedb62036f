package model

import (
	"github.com/roach88/margin/internal/dist"
)

// EDBoarding models an ED boarding reduction intervention. Boarded
// admissions hold ED beds that cannot see new patients; reducing boarding
// hours recovers direct cost, ED visit revenue, and (for capacity-command
// interventions) virtual bed capacity.
type EDBoarding struct {
	name         string
	intervention edIntervention
	cfg          Config
}

// edIntervention is one row of the intervention catalog: annualized cost,
// expected boarding reduction, and months to stand up.
type edIntervention struct {
	annualCost  float64
	reduction   float64
	rampMonths  float64
	virtualBeds float64
}

var edInterventions = map[string]edIntervention{
	// Bed-ahead alerts on the existing EHR; effectively free.
	"ed-boarding-basic-alerts": {annualCost: 0, reduction: 0.31, rampMonths: 1},
	// Dedicated RN + case manager + transport team.
	"ed-boarding-discharge-team": {annualCost: 312000, reduction: 0.47, rampMonths: 3},
	// Capacity command center, annualized from the capital investment.
	"ed-boarding-command-center": {annualCost: 600000, reduction: 0.30, rampMonths: 6, virtualBeds: 14},
	// Predictive transfer analytics.
	"ed-boarding-ai-analytics": {annualCost: 200000, reduction: 0.65, rampMonths: 4},
	// Command center plus analytics.
	"ed-boarding-combined": {annualCost: 800000, reduction: 0.70, rampMonths: 9, virtualBeds: 16},
}

var edBoardingDefaults = Config{
	"hospital_beds":           200,
	"boarding_bed_share":      0.10,
	"avg_boarding_hours":      6.9,
	"boarding_hours_sigma":    1.0,
	"boarding_hours_floor":    4,
	"boarding_cost_per_hour":  219, // lost ED capacity 137 + overtime 82
	"boarding_cost_sigma":     25,
	"ed_visit_hours":          3,
	"ed_visit_revenue":        650,
	"ed_visit_revenue_sigma":  75,
	"virtual_bed_value":       500000,
	"reduction_concentration": 50,
	"discount_rate":           0.10,
	"horizon_years":           5,
}

func init() {
	for name := range edInterventions {
		Register(name, edBoardingFactory(name))
	}
}

func edBoardingFactory(name string) Factory {
	intervention := edInterventions[name]
	return func(cfg Config) (Model, error) {
		merged, err := merge(name, edBoardingDefaults, cfg)
		if err != nil {
			return nil, err
		}
		if merged["hospital_beds"] <= 0 {
			return nil, &ConfigError{Model: name, Key: "hospital_beds", Message: "must be positive"}
		}
		if merged["horizon_years"] < 1 {
			return nil, &ConfigError{Model: name, Key: "horizon_years", Message: "must be at least 1"}
		}
		return &EDBoarding{name: name, intervention: intervention, cfg: merged}, nil
	}
}

func (m *EDBoarding) Name() string   { return m.name }
func (m *EDBoarding) Config() Config { return m.cfg.Clone() }
func (m *EDBoarding) Point() Outcome { return pointOf(m) }

func (m *EDBoarding) WithValue(key string, value float64) (Model, error) {
	return rebuild(m, key, value)
}

func (m *EDBoarding) Inputs() []Input {
	c := m.cfg
	revenue := c["ed_visit_revenue"]
	return []Input{
		{Name: "avg_boarding_hours", Dist: dist.NormalFloor(c["avg_boarding_hours"], c["boarding_hours_sigma"], c["boarding_hours_floor"])},
		{Name: "boarding_reduction", Dist: dist.BetaMean(m.intervention.reduction, c["reduction_concentration"])},
		{Name: "boarding_cost_per_hour", Dist: dist.NormalFloor(c["boarding_cost_per_hour"], c["boarding_cost_sigma"], c["boarding_cost_per_hour"]*0.6)},
		{Name: "ed_visit_revenue", Dist: dist.NormalClip(revenue, c["ed_visit_revenue_sigma"], revenue*0.7, revenue*1.3)},
	}
}

func (m *EDBoarding) Evaluate(draw map[string]float64) (Outcome, error) {
	c := m.cfg
	years := int(c["horizon_years"])

	dailyBoarders := c["hospital_beds"] * c["boarding_bed_share"]
	annualBoardingHours := dailyBoarders * draw["avg_boarding_hours"] * 365

	steadyReduction := draw["boarding_reduction"]
	year1Reduction := steadyReduction * (12 - m.intervention.rampMonths) / 12

	benefitAt := func(reduction float64) float64 {
		reducedHours := annualBoardingHours * reduction
		directSavings := reducedHours * draw["boarding_cost_per_hour"]
		visitsRecovered := reducedHours / c["ed_visit_hours"]
		revenueRecovery := visitsRecovered * draw["ed_visit_revenue"]
		return directSavings + revenueRecovery + m.intervention.virtualBeds*c["virtual_bed_value"]
	}

	annualCost := m.intervention.annualCost
	year1Net := benefitAt(year1Reduction) - annualCost
	steadyNet := benefitAt(steadyReduction) - annualCost

	// Benefits land from year one onward; nothing at year zero.
	flows := make([]float64, years+1)
	flows[1] = year1Net
	for y := 2; y <= years; y++ {
		flows[y] = steadyNet
	}
	npv := NPV(c["discount_rate"], flows)

	totalBenefit := benefitAt(year1Reduction) + float64(years-1)*benefitAt(steadyReduction)
	totalCost := annualCost * float64(years)

	return Outcome{
		AnnualBenefit:    benefitAt(steadyReduction),
		AnnualCost:       annualCost,
		ROIPct:           ROIPct(totalBenefit, totalCost),
		NPV:              npv,
		PaybackMonths:    PaybackMonths(year1Net, steadyNet, years),
		BenefitCostRatio: BenefitCostRatio(benefitAt(steadyReduction), annualCost),
	}, nil
}

// Detail renders the full intervention catalog at this model's baseline so
// the report reads as a comparison, matching how the analysis is consumed.
func (m *EDBoarding) Detail() []Section {
	c := m.cfg
	dailyBoarders := c["hospital_beds"] * c["boarding_bed_share"]
	annualBoardingHours := dailyBoarders * c["avg_boarding_hours"] * 365

	baseline := Section{
		Title: "Boarding Baseline",
		Lines: []string{
			"Hospital Beds: " + count(c["hospital_beds"]),
			"Average Boarding Hours per Patient: " + printer.Sprintf("%.1f", c["avg_boarding_hours"]),
			"Annual Boarding Hours: " + count(annualBoardingHours),
			"Annual Boarding Cost: " + money(annualBoardingHours*c["boarding_cost_per_hour"]),
			"ED Visits Crowded Out: " + count(annualBoardingHours/c["ed_visit_hours"]),
		},
	}

	comparison := Section{Title: "Intervention Comparison (Steady-State Annual Net)"}
	for _, name := range edInterventionNames() {
		iv := edInterventions[name]
		reducedHours := annualBoardingHours * iv.reduction
		benefit := reducedHours*c["boarding_cost_per_hour"] +
			reducedHours/c["ed_visit_hours"]*c["ed_visit_revenue"] +
			iv.virtualBeds*c["virtual_bed_value"]
		marker := "  "
		if name == m.name {
			marker = "> "
		}
		comparison.Lines = append(comparison.Lines,
			marker+name+": net "+money(benefit-iv.annualCost)+" (cost "+money(iv.annualCost)+", reduction "+pct(iv.reduction*100)+")")
	}

	return []Section{baseline, comparison}
}

func edInterventionNames() []string {
	return []string{
		"ed-boarding-basic-alerts",
		"ed-boarding-discharge-team",
		"ed-boarding-command-center",
		"ed-boarding-ai-analytics",
		"ed-boarding-combined",
	}
}
