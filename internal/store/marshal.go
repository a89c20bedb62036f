package store

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/roach88/margin/internal/model"
	"github.com/roach88/margin/internal/scenario"
)

// Non-finite metric values survive the round trip through JSON as strings,
// since JSON has no literals for them. The sign of an unbounded ROI matters
// for replay comparison, so null is not an option here.
const (
	posInf = "+inf"
	negInf = "-inf"
	nan    = "nan"
)

func encodeValue(v float64) any {
	switch {
	case math.IsInf(v, 1):
		return posInf
	case math.IsInf(v, -1):
		return negInf
	case math.IsNaN(v):
		return nan
	default:
		return v
	}
}

func decodeValue(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		switch v {
		case posInf:
			return math.Inf(1), nil
		case negInf:
			return math.Inf(-1), nil
		case nan:
			return math.NaN(), nil
		}
	}
	return 0, fmt.Errorf("decode value: unexpected %T %v", raw, raw)
}

func marshalSamples(values []float64) (string, error) {
	encoded := make([]any, len(values))
	for i, v := range values {
		encoded[i] = encodeValue(v)
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return "", fmt.Errorf("marshal samples: %w", err)
	}
	return string(data), nil
}

func unmarshalSamples(data string) ([]float64, error) {
	var encoded []any
	if err := json.Unmarshal([]byte(data), &encoded); err != nil {
		return nil, fmt.Errorf("unmarshal samples: %w", err)
	}
	values := make([]float64, len(encoded))
	for i, raw := range encoded {
		v, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("unmarshal samples: %w", err)
		}
		values[i] = v
	}
	return values, nil
}

func marshalPoint(point model.Outcome) (string, error) {
	encoded := make(map[string]any, len(model.MetricNames()))
	for _, name := range model.MetricNames() {
		encoded[name] = encodeValue(point.Metric(name))
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return "", fmt.Errorf("marshal point: %w", err)
	}
	return string(data), nil
}

func unmarshalPoint(data string) (model.Outcome, error) {
	var encoded map[string]any
	if err := json.Unmarshal([]byte(data), &encoded); err != nil {
		return model.Outcome{}, fmt.Errorf("unmarshal point: %w", err)
	}
	values := make(map[string]float64, len(encoded))
	for name, raw := range encoded {
		v, err := decodeValue(raw)
		if err != nil {
			return model.Outcome{}, fmt.Errorf("unmarshal point: metric %s: %w", name, err)
		}
		values[name] = v
	}
	return model.Outcome{
		AnnualBenefit:    values[model.MetricAnnualBenefit],
		AnnualCost:       values[model.MetricAnnualCost],
		ROIPct:           values[model.MetricROI],
		NPV:              values[model.MetricNPV],
		PaybackMonths:    values[model.MetricPayback],
		BenefitCostRatio: values[model.MetricBenefitCostRatio],
	}, nil
}

func marshalDocument(sc *scenario.Scenario) (string, error) {
	data, err := json.Marshal(sc)
	if err != nil {
		return "", fmt.Errorf("marshal scenario document: %w", err)
	}
	return string(data), nil
}

func unmarshalDocument(data string) (*scenario.Scenario, error) {
	var sc scenario.Scenario
	if err := json.Unmarshal([]byte(data), &sc); err != nil {
		return nil, fmt.Errorf("unmarshal scenario document: %w", err)
	}
	return &sc, nil
}
