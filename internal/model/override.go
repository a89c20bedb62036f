package model

import (
	"fmt"

	"github.com/roach88/margin/internal/dist"
)

// WithInputs returns a model whose sampling distributions are replaced by
// the given overrides. Override names must match declared inputs; the
// override spec must validate. Draw order is unchanged, and the point
// estimate follows the overridden means.
func WithInputs(m Model, overrides map[string]dist.Spec) (Model, error) {
	if len(overrides) == 0 {
		return m, nil
	}

	declared := make(map[string]bool, len(m.Inputs()))
	for _, in := range m.Inputs() {
		declared[in.Name] = true
	}
	for name, spec := range overrides {
		if !declared[name] {
			return nil, fmt.Errorf("model %s: input override %q does not match a declared input", m.Name(), name)
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("model %s: input override %q: %w", m.Name(), name, err)
		}
	}

	return &overridden{Model: m, overrides: overrides}, nil
}

type overridden struct {
	Model
	overrides map[string]dist.Spec
}

func (o *overridden) Inputs() []Input {
	inputs := make([]Input, len(o.Model.Inputs()))
	for i, in := range o.Model.Inputs() {
		if spec, ok := o.overrides[in.Name]; ok {
			in.Dist = spec
		}
		inputs[i] = in
	}
	return inputs
}

func (o *overridden) Point() Outcome { return pointOf(o) }

// WithValue preserves Adjustable across the wrapper so sensitivity sweeps
// still work on models with overridden inputs. Overrides are re-applied to
// the rebuilt model, pinning the overridden inputs while config-derived
// distributions track the new configuration.
func (o *overridden) WithValue(key string, value float64) (Model, error) {
	adj, ok := o.Model.(Adjustable)
	if !ok {
		return nil, fmt.Errorf("model %s does not support sensitivity sweeps", o.Name())
	}
	rebuilt, err := adj.WithValue(key, value)
	if err != nil {
		return nil, err
	}
	return &overridden{Model: rebuilt, overrides: o.overrides}, nil
}
