package dist

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}

func TestCompileRejectsInvalidSpec(t *testing.T) {
	_, err := Compile(Spec{Kind: KindBeta, Alpha: -1, Beta: 2}, newSource(1))
	require.Error(t, err)
	var specErr *SpecError
	require.ErrorAs(t, err, &specErr)
	assert.Equal(t, KindBeta, specErr.Kind)
}

func TestCompileDeterministic(t *testing.T) {
	specs := []Spec{
		BetaShape(30, 10),
		NormalFloor(180, 15, 150),
		Triangular(300000, 350000, 400000),
		Gamma(2, 1000),
		Poisson(30),
		Uniform(0.07, 0.09),
	}

	draw := func(seed uint64) []float64 {
		src := newSource(seed)
		var out []float64
		for _, spec := range specs {
			s, err := Compile(spec, src)
			require.NoError(t, err)
			for i := 0; i < 100; i++ {
				out = append(out, s.Rand())
			}
		}
		return out
	}

	first := draw(42)
	second := draw(42)
	assert.Equal(t, first, second, "same seed must reproduce the draw sequence exactly")

	other := draw(43)
	assert.NotEqual(t, first, other)
}

func TestSamplerSupports(t *testing.T) {
	src := newSource(7)

	beta, err := Compile(BetaShape(8, 12), src)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		v := beta.Rand()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}

	floored, err := Compile(NormalFloor(180, 15, 150), src)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		assert.GreaterOrEqual(t, floored.Rand(), 150.0)
	}

	clipped, err := Compile(NormalClip(2000, 200, 1500, 2500), src)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		v := clipped.Rand()
		assert.GreaterOrEqual(t, v, 1500.0)
		assert.LessOrEqual(t, v, 2500.0)
	}

	tri, err := Compile(Triangular(300000, 350000, 400000), src)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		v := tri.Rand()
		assert.GreaterOrEqual(t, v, 300000.0)
		assert.LessOrEqual(t, v, 400000.0)
	}
}

func TestFixedSamplerDrawsNothing(t *testing.T) {
	// A fixed input must not consume randomness, so inserting one between
	// two stochastic inputs leaves their draws unchanged.
	src := newSource(11)
	n1, err := Compile(Normal(100, 10), src)
	require.NoError(t, err)
	a1 := n1.Rand()
	b1 := n1.Rand()

	src = newSource(11)
	n2, err := Compile(Normal(100, 10), src)
	require.NoError(t, err)
	fixed, err := Compile(Fixed(90), src)
	require.NoError(t, err)
	a2 := n2.Rand()
	require.Equal(t, 90.0, fixed.Rand())
	b2 := n2.Rand()

	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
}

func TestSamplerMeansConverge(t *testing.T) {
	src := newSource(42)
	specs := []Spec{
		BetaShape(30, 10),
		Normal(2000, 200),
		Triangular(300000, 350000, 400000),
		Gamma(2, 1000),
		Uniform(0.07, 0.09),
	}
	for _, spec := range specs {
		s, err := Compile(spec, src)
		require.NoError(t, err)
		var sum float64
		const n = 20000
		for i := 0; i < n; i++ {
			sum += s.Rand()
		}
		mean := sum / n
		assert.InEpsilon(t, spec.Mean(), mean, 0.05, "kind %s", spec.Kind)
	}
}
