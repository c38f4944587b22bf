// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package prediction provides the one-off prediction plugins: a neural-net
// classifier and a neural-net regressor over the last observations of each
// series plus static covariates.
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

// Category names.
const (
	ClassificationCategory = "prediction.one_off.classification"
	RegressionCategory     = "prediction.one_off.regression"
)

// NNClassifierName is the plugin name of the neural-net classifier.
const NNClassifierName = "nn_classifier"

// NNClassifierSchema declares the classifier options.
var NNClassifierSchema = params.MustSchema(nn.Options()...)

// NNClassifier classifies each sample from its most recent observations.
type NNClassifier struct {
	method.BasePredictor
	cfg    mlp.Config
	window int
	net    *nn.Network
}

var (
	_ method.Predictor      = (*NNClassifier)(nil)
	_ method.ProbaPredictor = (*NNClassifier)(nil)
	_ method.Stateful       = (*NNClassifier)(nil)
)

// NewNNClassifier builds an unfitted classifier.
func NewNNClassifier(p *params.Params) (*NNClassifier, error) {
	cfg, err := nn.Config(p, mlp.Classification)
	if err != nil {
		return nil, err
	}
	c := &NNClassifier{cfg: cfg, window: p.Int("window_size")}
	c.BasePredictor = method.NewBasePredictor(plugin.JoinName(ClassificationCategory, NNClassifierName), p, c)
	return c, nil
}

// NNClassifierDefinition describes the classifier for registration.
func NNClassifierDefinition() *plugin.Definition {
	return plugin.Define(NNClassifierName, ClassificationCategory, NNClassifierSchema, NewNNClassifier,
		plugin.WithSpace(nn.Space),
		plugin.WithVersion("1.0.0"),
		plugin.WithDescription("Neural-net classifier over the last observations of each series."),
	)
}

// FitData implements method.Fitter.
func (c *NNClassifier) FitData(ctx context.Context, data dataset.Data) error {
	y, err := features.Column(data.Targets(), dataset.SliceTargets, "")
	if err != nil {
		return err
	}
	net, err := nn.Train(ctx, c.cfg, c.window, data, y, nn.TargetName(data))
	if err != nil {
		return err
	}
	c.net = net
	return nil
}

// PredictData implements method.PredictHooks.
func (c *NNClassifier) PredictData(_ context.Context, data dataset.Data) (dataset.Samples, error) {
	return c.net.PredictSamples(data)
}

// PredictProbaData implements method.ProbaPredictor.
func (c *NNClassifier) PredictProbaData(_ context.Context, data dataset.Data) (dataset.Samples, error) {
	return c.net.PredictProbaSamples(data)
}

// MarshalState implements method.Stateful.
func (c *NNClassifier) MarshalState() ([]byte, error) { return c.net.Marshal() }

// UnmarshalState implements method.Stateful.
func (c *NNClassifier) UnmarshalState(data []byte) error {
	net, err := nn.Unmarshal(data)
	if err != nil {
		return err
	}
	c.net = net
	return nil
}
