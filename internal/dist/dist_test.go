package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{"fixed", Fixed(42), false},
		{"beta", BetaShape(30, 10), false},
		{"beta zero alpha", Spec{Kind: KindBeta, Alpha: 0, Beta: 10}, true},
		{"beta negative beta", Spec{Kind: KindBeta, Alpha: 2, Beta: -1}, true},
		{"normal", Normal(180, 15), false},
		{"normal zero sigma", Spec{Kind: KindNormal, Mu: 180}, true},
		{"lognormal", Spec{Kind: KindLogNormal, Mu: 7, Sigma: 0.2}, false},
		{"triangular", Triangular(300000, 350000, 400000), false},
		{"triangular mode outside", Spec{Kind: KindTriangular, Low: 1, Mode: 5, High: 3}, true},
		{"triangular degenerate", Spec{Kind: KindTriangular, Low: 2, Mode: 2, High: 2}, true},
		{"gamma", Gamma(2, 1000), false},
		{"gamma bad shape", Spec{Kind: KindGamma, Alpha: -2, Beta: 1}, true},
		{"poisson", Poisson(30), false},
		{"poisson zero lambda", Spec{Kind: KindPoisson}, true},
		{"uniform", Uniform(0.07, 0.09), false},
		{"uniform inverted", Spec{Kind: KindUniform, Low: 0.09, High: 0.07}, true},
		{"missing kind", Spec{}, true},
		{"unknown kind", Spec{Kind: "cauchy"}, true},
		{"floor above cap", NormalClip(100, 10, 200, 50), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				require.Error(t, err)
				var specErr *SpecError
				require.ErrorAs(t, err, &specErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSpecMean(t *testing.T) {
	assert.Equal(t, 42.0, Fixed(42).Mean())
	assert.InDelta(t, 0.75, BetaShape(30, 10).Mean(), 1e-12)
	assert.Equal(t, 180.0, Normal(180, 15).Mean())
	assert.InDelta(t, 350000.0, Triangular(300000, 350000, 400000).Mean(), 1e-6)
	assert.InDelta(t, 2000.0, Gamma(2, 1000).Mean(), 1e-9)
	assert.Equal(t, 30.0, Poisson(30).Mean())
	assert.InDelta(t, 0.08, Uniform(0.07, 0.09).Mean(), 1e-12)
	assert.InDelta(t, math.Exp(7+0.02), Spec{Kind: KindLogNormal, Mu: 7, Sigma: 0.2}.Mean(), 1e-9)
}

func TestBetaMean(t *testing.T) {
	s := BetaMean(0.75, 40)
	assert.InDelta(t, 30.0, s.Alpha, 1e-12)
	assert.InDelta(t, 10.0, s.Beta, 1e-12)
	assert.InDelta(t, 0.75, s.Mean(), 1e-12)
}
