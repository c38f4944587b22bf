// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package scaling

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/tempor/tempor/internal/methods/features"
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/params"
	"github.com/tempor/tempor/pkg/plugin"
)

// Plugin names.
const (
	TSMinMaxName     = "ts_minmax_scaler"
	StaticMinMaxName = "static_minmax_scaler"
)

// MinMaxSchema declares the min-max scaler options.
var MinMaxSchema = params.MustSchema(
	params.Floats("feature_range", []float64{0, 1}, "Desired range of transformed data."),
	params.Bool("clip", false, "Clip transformed values of held-out data to the feature range."),
)

// MinMaxSpace is the min-max scaler hyperparameter space.
func MinMaxSpace() []params.Descriptor {
	return []params.Descriptor{
		params.CategoricalParams{Name: "clip", Choices: []any{true, false}},
	}
}

// MinMaxScaler scales each numeric column to feature_range.
type MinMaxScaler struct {
	method.BaseTransformer
	slice  features.Slice
	lo, hi float64
	clip   bool
	maps   columnMaps
}

var (
	_ method.Transformer = (*MinMaxScaler)(nil)
	_ method.Stateful    = (*MinMaxScaler)(nil)
)

func newMinMax(category, name string, s features.Slice, p *params.Params) (*MinMaxScaler, error) {
	r := p.Floats("feature_range")
	if len(r) != 2 || r[0] >= r[1] {
		return nil, errutil.Configuration().
			With("option", "feature_range").
			With("value", r).
			Errorf("feature_range must be two increasing values, got %v", r)
	}
	m := &MinMaxScaler{slice: s, lo: r[0], hi: r[1], clip: p.Bool("clip")}
	m.BaseTransformer = method.NewBaseTransformer(plugin.JoinName(category, name), p, m)
	return m, nil
}

// NewTSMinMax builds a min-max scaler over the time series covariates.
func NewTSMinMax(p *params.Params) (*MinMaxScaler, error) {
	return newMinMax(TemporalCategory, TSMinMaxName, features.Temporal, p)
}

// NewStaticMinMax builds a min-max scaler over the static covariates.
func NewStaticMinMax(p *params.Params) (*MinMaxScaler, error) {
	return newMinMax(StaticCategory, StaticMinMaxName, features.Static, p)
}

// FitData implements method.Fitter.
func (m *MinMaxScaler) FitData(_ context.Context, data dataset.Data) error {
	maps, err := fitColumns(m.slice, data, func(values []float64) affine {
		if len(values) == 0 {
			return affine{Scale: 1}
		}
		span := floats.Max(values) - floats.Min(values)
		if span == 0 {
			span = 1
		}
		scale := (m.hi - m.lo) / span
		return affine{Scale: scale, Offset: m.lo - floats.Min(values)*scale}
	})
	if err != nil {
		return err
	}
	m.maps = maps
	return nil
}

// TransformData implements method.TransformHooks.
func (m *MinMaxScaler) TransformData(_ context.Context, data dataset.Data) (dataset.Data, error) {
	var bound func(float64) float64
	if m.clip {
		bound = func(v float64) float64 { return min(max(v, m.lo), m.hi) }
	}
	return m.maps.apply(m.slice, data, bound)
}

// MarshalState implements method.Stateful.
func (m *MinMaxScaler) MarshalState() ([]byte, error) { return m.maps.marshal() }

// UnmarshalState implements method.Stateful.
func (m *MinMaxScaler) UnmarshalState(data []byte) error {
	maps, err := unmarshalColumnMaps(data)
	if err != nil {
		return err
	}
	m.maps = maps
	return nil
}
