// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package scaling

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"github.com/tempor/tempor/internal/methods/features"
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/params"
	"github.com/tempor/tempor/pkg/plugin"
)

// TSStandardName is the plugin name of the temporal standard scaler.
const TSStandardName = "ts_standard_scaler"

// StandardSchema declares the standard scaler options.
var StandardSchema = params.MustSchema(
	params.Bool("with_mean", true, "Center the data before scaling."),
	params.Bool("with_std", true, "Scale the data to unit variance."),
)

// StandardSpace is the standard scaler hyperparameter space.
func StandardSpace() []params.Descriptor {
	return []params.Descriptor{
		params.CategoricalParams{Name: "with_mean", Choices: []any{true, false}},
		params.CategoricalParams{Name: "with_std", Choices: []any{true, false}},
	}
}

// StandardScaler removes the mean and scales each numeric column to unit
// variance. A constant column is only centered.
type StandardScaler struct {
	method.BaseTransformer
	slice    features.Slice
	withMean bool
	withStd  bool
	maps     columnMaps
}

var (
	_ method.Transformer = (*StandardScaler)(nil)
	_ method.Stateful    = (*StandardScaler)(nil)
)

// NewTSStandard builds a standard scaler over the time series covariates.
func NewTSStandard(p *params.Params) (*StandardScaler, error) {
	s := &StandardScaler{slice: features.Temporal, withMean: p.Bool("with_mean"), withStd: p.Bool("with_std")}
	s.BaseTransformer = method.NewBaseTransformer(plugin.JoinName(TemporalCategory, TSStandardName), p, s)
	return s, nil
}

// FitData implements method.Fitter.
func (s *StandardScaler) FitData(_ context.Context, data dataset.Data) error {
	maps, err := fitColumns(s.slice, data, func(values []float64) affine {
		if len(values) == 0 {
			return affine{Scale: 1}
		}
		mean, std := stat.PopMeanStdDev(values, nil)
		if !s.withMean {
			mean = 0
		}
		if !s.withStd || std == 0 {
			std = 1
		}
		return affine{Scale: 1 / std, Offset: -mean / std}
	})
	if err != nil {
		return err
	}
	s.maps = maps
	return nil
}

// TransformData implements method.TransformHooks.
func (s *StandardScaler) TransformData(_ context.Context, data dataset.Data) (dataset.Data, error) {
	return s.maps.apply(s.slice, data, nil)
}

// MarshalState implements method.Stateful.
func (s *StandardScaler) MarshalState() ([]byte, error) { return s.maps.marshal() }

// UnmarshalState implements method.Stateful.
func (s *StandardScaler) UnmarshalState(data []byte) error {
	maps, err := unmarshalColumnMaps(data)
	if err != nil {
		return err
	}
	s.maps = maps
	return nil
}
