package sim

import (
	"fmt"

	"github.com/roach88/margin/internal/model"
)

// SweepPoint is one point-estimate evaluation of a sensitivity sweep.
type SweepPoint struct {
	Value   float64       `json:"value"`
	Outcome model.Outcome `json:"outcome"`
}

// Sweep holds a one-parameter sensitivity sweep: the base point estimate and
// the point estimate at each swept value.
type Sweep struct {
	Model  string        `json:"model"`
	Param  string        `json:"param"`
	Base   model.Outcome `json:"base"`
	Points []SweepPoint  `json:"points"`
}

// Sensitivity sweeps one configuration parameter across the given values,
// re-deriving the analytic point estimate at each. The model must be
// Adjustable; the swept values must be valid for the parameter.
func Sensitivity(m model.Model, param string, values []float64) (*Sweep, error) {
	adj, ok := m.(model.Adjustable)
	if !ok {
		return nil, fmt.Errorf("sim: model %s does not support sensitivity sweeps", m.Name())
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("sim: sensitivity sweep over %s needs at least one value", param)
	}

	sweep := &Sweep{
		Model:  m.Name(),
		Param:  param,
		Base:   m.Point(),
		Points: make([]SweepPoint, 0, len(values)),
	}
	for _, v := range values {
		adjusted, err := adj.WithValue(param, v)
		if err != nil {
			return nil, fmt.Errorf("sim: sweep %s=%g: %w", param, v, err)
		}
		sweep.Points = append(sweep.Points, SweepPoint{Value: v, Outcome: adjusted.Point()})
	}
	return sweep, nil
}
