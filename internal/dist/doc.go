// Package dist defines parametric distribution specifications and compiles
// them into samplers for the Monte Carlo engine.
//
// A Spec is a declarative description of one uncertain input: a family
// (beta, normal, lognormal, triangular, gamma, poisson, uniform, or fixed),
// its shape parameters, and optional floor/cap truncation bounds. Specs are
// what scenario files and model defaults are written in; Compile turns a
// Spec into a Sampler bound to a shared pseudo-random source.
//
// DETERMINISM:
// All samplers for one simulation share a single seeded source and are
// drawn in a fixed declaration order. Given the same seed, Spec set, and
// iteration count, the draw sequence is bit-identical across runs. Nothing
// in this package reads wall-clock time or global random state.
//
// Truncation is applied after the underlying draw. It deliberately tightens
// analytic distributions to physically plausible ranges (a turnover time
// floored at the achievable minimum, revenue capped to contract bounds)
// rather than rejecting and redrawing, so the draw count per iteration is
// constant and replayable.
package dist
