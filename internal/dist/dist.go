package dist

import (
	"fmt"
	"math"
)

// Kind identifies a distribution family.
type Kind string

const (
	KindFixed      Kind = "fixed"
	KindBeta       Kind = "beta"
	KindNormal     Kind = "normal"
	KindLogNormal  Kind = "lognormal"
	KindTriangular Kind = "triangular"
	KindGamma      Kind = "gamma"
	KindPoisson    Kind = "poisson"
	KindUniform    Kind = "uniform"
)

// Spec describes one parametric distribution with optional truncation.
// Only the fields relevant to Kind are consulted; Compile rejects specs
// whose shape parameters are out of range.
type Spec struct {
	Kind Kind `yaml:"dist" json:"dist"`

	// Value is the constant returned by a fixed spec.
	Value float64 `yaml:"value,omitempty" json:"value,omitempty"`

	// Alpha and Beta are the beta-distribution shapes; for gamma, Alpha is
	// the shape and Beta the rate (1/scale).
	Alpha float64 `yaml:"alpha,omitempty" json:"alpha,omitempty"`
	Beta  float64 `yaml:"beta,omitempty" json:"beta,omitempty"`

	// Mu and Sigma parameterize normal and lognormal specs.
	Mu    float64 `yaml:"mu,omitempty" json:"mu,omitempty"`
	Sigma float64 `yaml:"sigma,omitempty" json:"sigma,omitempty"`

	// Low, Mode, High parameterize triangular specs; Low and High alone
	// parameterize uniform specs.
	Low  float64 `yaml:"low,omitempty" json:"low,omitempty"`
	Mode float64 `yaml:"mode,omitempty" json:"mode,omitempty"`
	High float64 `yaml:"high,omitempty" json:"high,omitempty"`

	// Lambda is the poisson mean.
	Lambda float64 `yaml:"lambda,omitempty" json:"lambda,omitempty"`

	// Floor and Cap clamp draws after sampling. Either may be nil.
	Floor *float64 `yaml:"floor,omitempty" json:"floor,omitempty"`
	Cap   *float64 `yaml:"cap,omitempty" json:"cap,omitempty"`
}

// SpecError reports an invalid distribution specification.
type SpecError struct {
	Kind    Kind
	Message string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("invalid %s distribution: %s", e.Kind, e.Message)
}

func specErrorf(kind Kind, format string, args ...any) *SpecError {
	return &SpecError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validate checks shape parameters and truncation bounds.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindFixed:
		// Any value is a valid constant.
	case KindBeta:
		if s.Alpha <= 0 || s.Beta <= 0 {
			return specErrorf(s.Kind, "alpha and beta must be positive (alpha=%g, beta=%g)", s.Alpha, s.Beta)
		}
	case KindNormal, KindLogNormal:
		if s.Sigma <= 0 {
			return specErrorf(s.Kind, "sigma must be positive (sigma=%g)", s.Sigma)
		}
	case KindTriangular:
		if !(s.Low < s.High) || s.Mode < s.Low || s.Mode > s.High {
			return specErrorf(s.Kind, "bounds must satisfy low <= mode <= high, low < high (low=%g, mode=%g, high=%g)", s.Low, s.Mode, s.High)
		}
	case KindGamma:
		if s.Alpha <= 0 || s.Beta <= 0 {
			return specErrorf(s.Kind, "shape and rate must be positive (alpha=%g, beta=%g)", s.Alpha, s.Beta)
		}
	case KindPoisson:
		if s.Lambda <= 0 {
			return specErrorf(s.Kind, "lambda must be positive (lambda=%g)", s.Lambda)
		}
	case KindUniform:
		if !(s.Low < s.High) {
			return specErrorf(s.Kind, "low must be below high (low=%g, high=%g)", s.Low, s.High)
		}
	case "":
		return &SpecError{Kind: s.Kind, Message: "missing distribution kind"}
	default:
		return specErrorf(s.Kind, "unknown distribution kind")
	}

	if s.Floor != nil && s.Cap != nil && *s.Floor > *s.Cap {
		return specErrorf(s.Kind, "floor %g exceeds cap %g", *s.Floor, *s.Cap)
	}
	return nil
}

// Mean returns the analytic mean of the untruncated distribution. Point
// estimates are computed from these means, so truncation effects (which are
// deliberately kept small) do not enter the analytic path.
func (s Spec) Mean() float64 {
	switch s.Kind {
	case KindFixed:
		return s.Value
	case KindBeta:
		return s.Alpha / (s.Alpha + s.Beta)
	case KindNormal:
		return s.Mu
	case KindLogNormal:
		return math.Exp(s.Mu + s.Sigma*s.Sigma/2)
	case KindTriangular:
		return (s.Low + s.Mode + s.High) / 3
	case KindGamma:
		return s.Alpha / s.Beta
	case KindPoisson:
		return s.Lambda
	case KindUniform:
		return (s.Low + s.High) / 2
	}
	return math.NaN()
}

// Fixed returns a spec that always yields v.
func Fixed(v float64) Spec {
	return Spec{Kind: KindFixed, Value: v}
}

// BetaShape returns a Beta(alpha, beta) spec.
func BetaShape(alpha, beta float64) Spec {
	return Spec{Kind: KindBeta, Alpha: alpha, Beta: beta}
}

// BetaMean returns a beta spec with the given mean and concentration
// (alpha+beta). Larger concentrations give tighter distributions around the
// mean; concentration 40 at mean 0.75 is Beta(30, 10).
func BetaMean(mean, concentration float64) Spec {
	return Spec{Kind: KindBeta, Alpha: mean * concentration, Beta: (1 - mean) * concentration}
}

// Normal returns a Normal(mu, sigma) spec.
func Normal(mu, sigma float64) Spec {
	return Spec{Kind: KindNormal, Mu: mu, Sigma: sigma}
}

// NormalFloor returns a normal spec floored at the given bound.
func NormalFloor(mu, sigma, floor float64) Spec {
	s := Normal(mu, sigma)
	s.Floor = &floor
	return s
}

// NormalClip returns a normal spec clamped to [low, high].
func NormalClip(mu, sigma, low, high float64) Spec {
	s := Normal(mu, sigma)
	s.Floor = &low
	s.Cap = &high
	return s
}

// Triangular returns a Triangular(low, mode, high) spec.
func Triangular(low, mode, high float64) Spec {
	return Spec{Kind: KindTriangular, Low: low, Mode: mode, High: high}
}

// Gamma returns a gamma spec with the given shape and scale, matching the
// (shape, scale) convention of the source models.
func Gamma(shape, scale float64) Spec {
	return Spec{Kind: KindGamma, Alpha: shape, Beta: 1 / scale}
}

// Poisson returns a Poisson(lambda) spec.
func Poisson(lambda float64) Spec {
	return Spec{Kind: KindPoisson, Lambda: lambda}
}

// Uniform returns a Uniform(low, high) spec.
func Uniform(low, high float64) Spec {
	return Spec{Kind: KindUniform, Low: low, High: high}
}
