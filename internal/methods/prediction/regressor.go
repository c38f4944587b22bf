// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package prediction

import (
	"context"

	"github.com/tempor/tempor/internal/methods/features"
	"github.com/tempor/tempor/internal/methods/nn"
	"github.com/tempor/tempor/internal/models/mlp"
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/params"
	"github.com/tempor/tempor/pkg/plugin"
)

// NNRegressorName is the plugin name of the neural-net regressor.
const NNRegressorName = "nn_regressor"

// NNRegressorSchema declares the regressor options.
var NNRegressorSchema = params.MustSchema(nn.Options()...)

// NNRegressor estimates a continuous outcome per sample. It has no
// probabilistic output.
type NNRegressor struct {
	method.BasePredictor
	cfg    mlp.Config
	window int
	net    *nn.Network
}

var (
	_ method.Predictor = (*NNRegressor)(nil)
	_ method.Stateful  = (*NNRegressor)(nil)
)

// NewNNRegressor builds an unfitted regressor.
func NewNNRegressor(p *params.Params) (*NNRegressor, error) {
	cfg, err := nn.Config(p, mlp.Regression)
	if err != nil {
		return nil, err
	}
	r := &NNRegressor{cfg: cfg, window: p.Int("window_size")}
	r.BasePredictor = method.NewBasePredictor(plugin.JoinName(RegressionCategory, NNRegressorName), p, r)
	return r, nil
}

// NNRegressorDefinition describes the regressor for registration.
func NNRegressorDefinition() *plugin.Definition {
	return plugin.Define(NNRegressorName, RegressionCategory, NNRegressorSchema, NewNNRegressor,
		plugin.WithSpace(nn.Space),
		plugin.WithVersion("1.0.0"),
		plugin.WithDescription("Neural-net regressor over the last observations of each series."),
	)
}

// FitData implements method.Fitter.
func (r *NNRegressor) FitData(ctx context.Context, data dataset.Data) error {
	y, err := features.Column(data.Targets(), dataset.SliceTargets, "")
	if err != nil {
		return err
	}
	net, err := nn.Train(ctx, r.cfg, r.window, data, y, nn.TargetName(data))
	if err != nil {
		return err
	}
	r.net = net
	return nil
}

// PredictData implements method.PredictHooks.
func (r *NNRegressor) PredictData(_ context.Context, data dataset.Data) (dataset.Samples, error) {
	return r.net.PredictSamples(data)
}

// MarshalState implements method.Stateful.
func (r *NNRegressor) MarshalState() ([]byte, error) { return r.net.Marshal() }

// UnmarshalState implements method.Stateful.
func (r *NNRegressor) UnmarshalState(data []byte) error {
	net, err := nn.Unmarshal(data)
	if err != nil {
		return err
	}
	r.net = net
	return nil
}
