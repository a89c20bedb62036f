package model

import (
	"math"

	"github.com/roach88/margin/internal/dist"
)

// Avatar models a virtual healthcare avatar deployment. Variants share the
// cost structure (triangular implementation and operating costs, a small
// per-interaction charge) and the common nurse-time and patient-satisfaction
// benefits; each variant adds its own clinical savings stream.
type Avatar struct {
	name    string
	variant avatarVariant
	cfg     Config
}

type avatarVariant int

const (
	avatarDischarge avatarVariant = iota
	avatarMentalHealth
	avatarAdherence
)

var avatarDefaults = Config{
	"implementation_cost":       200000,
	"implementation_cost_low":   150000,
	"implementation_cost_high":  300000,
	"monthly_operating_cost":    24750,
	"monthly_operating_low":     20000,
	"monthly_operating_high":    35000,
	"cost_per_interaction":      0.0124,
	"interaction_cost_sigma":    0.003,
	"monthly_interaction_shape": 2,
	"monthly_interaction_scale": 1000,

	"readmissions_prevented": 30,
	"readmission_value":      14000,

	"therapy_sessions_saved": 100,
	"therapy_session_cost":   180,
	"therapy_session_sigma":  30,

	"adherence_improvement":       0.22,
	"adherence_sigma":             0.06,
	"patients_enrolled":           200,
	"adherence_value_per_patient": 4000,

	"nurse_hours_saved_daily": 2.5,
	"nurse_hours_sigma":       0.5,
	"nurse_hourly_cost":       65,
	"nurse_days_per_year":     250,
	"nurse_shift_hours":       8,

	"satisfaction_increase":     0.15,
	"satisfaction_sigma":        0.05,
	"satisfaction_revenue_base": 50000000,
	"satisfaction_capture_pct":  0.02,

	"amortization_years": 3,
	"discount_rate":      0.08,
}

func init() {
	Register("avatar-discharge", avatarFactory("avatar-discharge", avatarDischarge))
	Register("avatar-mental-health", avatarFactory("avatar-mental-health", avatarMentalHealth))
	Register("avatar-adherence", avatarFactory("avatar-adherence", avatarAdherence))
}

func avatarFactory(name string, variant avatarVariant) Factory {
	return func(cfg Config) (Model, error) {
		merged, err := merge(name, avatarDefaults, cfg)
		if err != nil {
			return nil, err
		}
		if merged["amortization_years"] < 1 {
			return nil, &ConfigError{Model: name, Key: "amortization_years", Message: "must be at least 1"}
		}
		return &Avatar{name: name, variant: variant, cfg: merged}, nil
	}
}

func (m *Avatar) Name() string   { return m.name }
func (m *Avatar) Config() Config { return m.cfg.Clone() }
func (m *Avatar) Point() Outcome { return pointOf(m) }

func (m *Avatar) WithValue(key string, value float64) (Model, error) {
	return rebuild(m, key, value)
}

func (m *Avatar) Inputs() []Input {
	c := m.cfg
	inputs := []Input{
		{Name: "implementation_cost", Dist: dist.Triangular(c["implementation_cost_low"], c["implementation_cost"], c["implementation_cost_high"])},
		{Name: "monthly_operating_cost", Dist: dist.Triangular(c["monthly_operating_low"], c["monthly_operating_cost"], c["monthly_operating_high"])},
		{Name: "cost_per_interaction", Dist: dist.Normal(c["cost_per_interaction"], c["interaction_cost_sigma"])},
		{Name: "monthly_interactions", Dist: dist.Gamma(c["monthly_interaction_shape"], c["monthly_interaction_scale"])},
		{Name: "nurse_hours_saved_daily", Dist: dist.NormalClip(c["nurse_hours_saved_daily"], c["nurse_hours_sigma"], 1.0, 4.0)},
		{Name: "satisfaction_increase", Dist: dist.NormalClip(c["satisfaction_increase"], c["satisfaction_sigma"], 0, 0.30)},
	}
	switch m.variant {
	case avatarDischarge:
		inputs = append(inputs,
			Input{Name: "readmissions_prevented", Dist: dist.Poisson(c["readmissions_prevented"])},
		)
	case avatarMentalHealth:
		inputs = append(inputs,
			Input{Name: "therapy_sessions_saved", Dist: dist.Poisson(c["therapy_sessions_saved"])},
			Input{Name: "therapy_session_cost", Dist: dist.Normal(c["therapy_session_cost"], c["therapy_session_sigma"])},
		)
	case avatarAdherence:
		inputs = append(inputs,
			Input{Name: "adherence_improvement", Dist: dist.NormalClip(c["adherence_improvement"], c["adherence_sigma"], 0.10, 0.40)},
			Input{Name: "patients_enrolled", Dist: dist.Poisson(c["patients_enrolled"])},
		)
	}
	return inputs
}

func (m *Avatar) Evaluate(draw map[string]float64) (Outcome, error) {
	c := m.cfg

	amortYears := c["amortization_years"]
	annualImplementation := draw["implementation_cost"] / amortYears
	annualOperating := draw["monthly_operating_cost"] * 12
	annualInteraction := draw["cost_per_interaction"] * draw["monthly_interactions"] * 12
	totalAnnualCost := annualImplementation + annualOperating + annualInteraction

	var clinicalSavings float64
	switch m.variant {
	case avatarDischarge:
		clinicalSavings = draw["readmissions_prevented"] * c["readmission_value"]
	case avatarMentalHealth:
		clinicalSavings = draw["therapy_sessions_saved"] * draw["therapy_session_cost"] * 12
	case avatarAdherence:
		clinicalSavings = draw["adherence_improvement"] * draw["patients_enrolled"] * c["adherence_value_per_patient"]
	}

	laborSavings := draw["nurse_hours_saved_daily"] * c["nurse_days_per_year"] * c["nurse_shift_hours"] * c["nurse_hourly_cost"]
	satisfactionRevenue := draw["satisfaction_increase"] * c["satisfaction_capture_pct"] * c["satisfaction_revenue_base"]
	totalAnnualBenefit := clinicalSavings + laborSavings + satisfactionRevenue

	netAnnual := totalAnnualBenefit - totalAnnualCost
	roi := ROIPct(totalAnnualBenefit, totalAnnualCost)

	payback := math.Inf(1)
	if monthly := netAnnual / 12; monthly > 0 {
		payback = draw["implementation_cost"] / monthly
	}

	// NPV over the amortization horizon: implementation up front, then net
	// operating cash flow each year.
	flows := make([]float64, int(amortYears)+1)
	flows[0] = -draw["implementation_cost"]
	for y := 1; y < len(flows); y++ {
		flows[y] = totalAnnualBenefit - (annualOperating + annualInteraction)
	}
	npv := NPV(c["discount_rate"], flows)

	return Outcome{
		AnnualBenefit:    totalAnnualBenefit,
		AnnualCost:       totalAnnualCost,
		ROIPct:           roi,
		NPV:              npv,
		PaybackMonths:    payback,
		BenefitCostRatio: BenefitCostRatio(totalAnnualBenefit, totalAnnualCost),
	}, nil
}

// Thresholds carries the avatar report's tail probabilities: the deployment
// decision hinges on P(ROI > 100%) and P(payback < 18 months), not just the
// break-even chance.
func (m *Avatar) Thresholds() []Threshold {
	return []Threshold{
		{Name: "p_roi_over_100", Metric: MetricROI, Above: true, Value: 100},
		{Name: "p_roi_over_200", Metric: MetricROI, Above: true, Value: 200},
		{Name: "p_payback_under_12mo", Metric: MetricPayback, Above: false, Value: 12},
		{Name: "p_payback_under_18mo", Metric: MetricPayback, Above: false, Value: 18},
		{Name: "p_payback_under_24mo", Metric: MetricPayback, Above: false, Value: 24},
		{Name: "p_npv_over_500k", Metric: MetricNPV, Above: true, Value: 500000},
		{Name: "p_npv_over_1m", Metric: MetricNPV, Above: true, Value: 1000000},
	}
}

func (m *Avatar) Detail() []Section {
	c := m.cfg
	point := m.Point()
	lines := []string{
		"Implementation Cost (mode): " + money(c["implementation_cost"]),
		"Monthly Operating Cost (mode): " + money(c["monthly_operating_cost"]),
		"Expected Monthly Interactions: " + count(c["monthly_interaction_shape"]*c["monthly_interaction_scale"]),
		"Nurse Hours Saved Daily: " + printer.Sprintf("%.1f", c["nurse_hours_saved_daily"]),
	}
	switch m.variant {
	case avatarDischarge:
		lines = append(lines,
			"Readmissions Prevented (expected): "+count(c["readmissions_prevented"]),
			"Value per Readmission Avoided: "+money(c["readmission_value"]))
	case avatarMentalHealth:
		lines = append(lines,
			"Monthly Therapy Sessions Deflected (expected): "+count(c["therapy_sessions_saved"]),
			"Cost per Therapy Session: "+money(c["therapy_session_cost"]))
	case avatarAdherence:
		lines = append(lines,
			"Adherence Improvement (expected): "+pct(c["adherence_improvement"]*100),
			"Patients Enrolled (expected): "+count(c["patients_enrolled"]),
			"Annual Value per Adherent Patient: "+money(c["adherence_value_per_patient"]))
	}
	return []Section{
		{Title: "Deployment Assumptions", Lines: lines},
		{
			Title: "Point Estimate",
			Lines: []string{
				"Total Annual Benefit: " + money(point.AnnualBenefit),
				"Total Annual Cost: " + money(point.AnnualCost),
				"ROI: " + pct(point.ROIPct),
				count(c["amortization_years"]) + "-Year NPV: " + money(point.NPV),
				"Payback: " + months(point.PaybackMonths),
			},
		},
	}
}
