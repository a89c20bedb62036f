// Package model implements the financial transforms for hospital
// operational improvement initiatives.
//
// Each model is a pure mapping from one parameter draw to one Outcome
// (annual benefit, ROI, NPV, payback). The same Evaluate path serves both
// the Monte Carlo engine (stochastic draws) and the analytic point
// estimate (distribution means), so the simulated mean converges to the
// point estimate as iterations grow.
//
// Models are registered by name; New constructs one from a numeric
// configuration map with defaults filled in and unknown keys rejected.
// Results are explicit record types throughout - never loosely keyed maps.
package model
