package dist

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler produces one draw per call. Implementations advance the shared
// pseudo-random source they were compiled against.
type Sampler interface {
	Rand() float64
}

// Compile validates a spec and binds it to the given random source.
func Compile(spec Spec, src rand.Source) (Sampler, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var inner Sampler
	switch spec.Kind {
	case KindFixed:
		inner = constant(spec.Value)
	case KindBeta:
		inner = distuv.Beta{Alpha: spec.Alpha, Beta: spec.Beta, Src: src}
	case KindNormal:
		inner = distuv.Normal{Mu: spec.Mu, Sigma: spec.Sigma, Src: src}
	case KindLogNormal:
		inner = distuv.LogNormal{Mu: spec.Mu, Sigma: spec.Sigma, Src: src}
	case KindTriangular:
		inner = distuv.NewTriangle(spec.Low, spec.High, spec.Mode, src)
	case KindGamma:
		inner = distuv.Gamma{Alpha: spec.Alpha, Beta: spec.Beta, Src: src}
	case KindPoisson:
		inner = distuv.Poisson{Lambda: spec.Lambda, Src: src}
	case KindUniform:
		inner = distuv.Uniform{Min: spec.Low, Max: spec.High, Src: src}
	}

	if spec.Floor == nil && spec.Cap == nil {
		return inner, nil
	}
	return clamped{inner: inner, floor: spec.Floor, cap: spec.Cap}, nil
}

// constant is the sampler for fixed specs. It draws nothing from the
// source, so adding or removing a fixed input does not shift other draws.
type constant float64

func (c constant) Rand() float64 { return float64(c) }

// clamped applies floor/cap truncation after the underlying draw.
type clamped struct {
	inner      Sampler
	floor, cap *float64
}

func (c clamped) Rand() float64 {
	v := c.inner.Rand()
	if c.floor != nil && v < *c.floor {
		v = *c.floor
	}
	if c.cap != nil && v > *c.cap {
		v = *c.cap
	}
	return v
}
