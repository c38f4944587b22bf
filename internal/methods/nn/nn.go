// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package nn holds what the neural-net method plugins share: their common
// options, the mapping from params to an mlp.Config and a Network that ties
// a trained model to the feature layout it was trained on.
package nn

import (
	"context"
	"encoding/json"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/tempor/tempor/internal/methods/features"
	"github.com/tempor/tempor/internal/models/mlp"
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/params"
)

// Options returns the options every neural-net plugin accepts.
func Options() []params.Option {
	nonlins := make([]any, len(mlp.Nonlins))
	for i, n := range mlp.Nonlins {
		nonlins[i] = n
	}
	return []params.Option{
		params.Int("n_static_units_hidden", 100, "Number of hidden units for the static features."),
		params.Int("n_static_layers_hidden", 2, "Number of hidden layers for the static features."),
		params.Int("n_temporal_units_hidden", 102, "Number of hidden units for the temporal features."),
		params.Int("n_temporal_layers_hidden", 2, "Number of hidden layers for the temporal features."),
		params.Int("n_iter", 500, "Number of epochs."),
		params.Int("n_iter_print", 10, "Number of epochs between validation loss checks."),
		params.Int("batch_size", 100, "Batch size."),
		params.Float("lr", 1e-3, "Learning rate."),
		params.Float("weight_decay", 1e-3, "l2 (ridge) penalty for the weights."),
		params.Int("window_size", 1, "How many of the last observations feed the outcome."),
		params.Float("dropout", 0, "Dropout value."),
		params.String("nonlin", mlp.NonlinReLU, "Activation for hidden layers.").OneOf(nonlins...),
		params.Int("random_state", 0, "Random seed."),
		params.Int("clipping_value", 1, "Gradients clipping value. Zero disables the feature."),
		params.Int("patience", 20, "How many validation checks to wait without loss improvement."),
		params.Float("train_ratio", 0.8, "Train/validation split ratio."),
	}
}

// Space returns the hyperparameter space shared by the neural-net plugins.
func Space() []params.Descriptor {
	return []params.Descriptor{
		params.IntegerParams{Name: "n_static_units_hidden", Low: 100, High: 1000},
		params.IntegerParams{Name: "n_static_layers_hidden", Low: 1, High: 5},
		params.IntegerParams{Name: "n_temporal_units_hidden", Low: 100, High: 1000},
		params.IntegerParams{Name: "n_temporal_layers_hidden", Low: 1, High: 5},
		params.CategoricalParams{Name: "batch_size", Choices: []any{64, 128, 256, 512}},
		params.CategoricalParams{Name: "lr", Choices: []any{1e-3, 1e-4, 2e-4}},
		params.FloatParams{Name: "dropout", Low: 0, High: 0.2},
		params.CategoricalParams{Name: "nonlin", Choices: []any{"relu", "elu", "leaky_relu", "selu"}},
	}
}

// Config maps plugin params to a model configuration. Temporal hidden
// layers come first, then static ones.
func Config(p *params.Params, task mlp.Task) (mlp.Config, error) {
	var hidden []int
	for range p.Int("n_temporal_layers_hidden") {
		hidden = append(hidden, p.Int("n_temporal_units_hidden"))
	}
	for range p.Int("n_static_layers_hidden") {
		hidden = append(hidden, p.Int("n_static_units_hidden"))
	}
	cfg := mlp.Config{
		Task:          task,
		Hidden:        hidden,
		Nonlin:        p.String("nonlin"),
		NIter:         p.Int("n_iter"),
		NIterPrint:    p.Int("n_iter_print"),
		BatchSize:     p.Int("batch_size"),
		LR:            p.Float("lr"),
		WeightDecay:   p.Float("weight_decay"),
		Patience:      p.Int("patience"),
		TrainRatio:    p.Float("train_ratio"),
		ClippingValue: float64(p.Int("clipping_value")),
		Dropout:       p.Float("dropout"),
		RandomState:   p.Int("random_state"),
	}
	if p.Int("window_size") < 1 {
		return mlp.Config{}, errutil.Configuration().
			With("option", "window_size").
			Errorf("window_size must be at least 1, got %d", p.Int("window_size"))
	}
	if err := cfg.Validate(); err != nil {
		return mlp.Config{}, errutil.Configuration().Wrapf(err, "invalid network parameters")
	}
	return cfg, nil
}

// Network is a trained model together with the inputs it expects.
type Network struct {
	Model  *mlp.Model      `json:"model"`
	Layout features.Layout `json:"layout"`
	Output string          `json:"output"`
}

// Train fits a new network on data against y. output names the prediction
// column.
func Train(ctx context.Context, cfg mlp.Config, window int, data dataset.Data, y []float64, output string) (*Network, error) {
	layout, err := features.LayoutOf(data, window)
	if err != nil {
		return nil, err
	}
	x, err := features.Matrix(data, layout)
	if err != nil {
		return nil, err
	}
	return TrainMatrix(ctx, cfg, layout, x, y, output)
}

// TrainMatrix fits a new network on an already flattened matrix laid out as
// layout describes.
func TrainMatrix(ctx context.Context, cfg mlp.Config, layout features.Layout, x mat.Matrix, y []float64, output string) (*Network, error) {
	model, err := mlp.New(cfg)
	if err != nil {
		return nil, errutil.Configuration().Wrap(err)
	}
	if err := model.Fit(ctx, x, y); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errutil.InvalidData().With("operation", "train network").Wrap(err)
	}
	return &Network{Model: model, Layout: layout, Output: output}, nil
}

func (n *Network) inputs(data dataset.Data) (*features.Layout, error) {
	layout, err := features.LayoutOf(data, n.Layout.Window)
	if err != nil {
		return nil, err
	}
	if !layout.Equal(n.Layout) {
		return nil, errutil.InvalidData().
			With("expected_temporal", n.Layout.Temporal).
			With("expected_static", n.Layout.Static).
			Errorf("dataset features differ from the ones the model was trained on")
	}
	return &layout, nil
}

// Predict returns one value per sample.
func (n *Network) Predict(data dataset.Data) ([]float64, error) {
	layout, err := n.inputs(data)
	if err != nil {
		return nil, err
	}
	x, err := features.Matrix(data, *layout)
	if err != nil {
		return nil, err
	}
	preds, err := n.Model.Predict(x)
	if err != nil {
		return nil, errutil.InvalidData().With("operation", "predict").Wrap(err)
	}
	return preds, nil
}

// PredictSamples wraps Predict as samples with the output column.
func (n *Network) PredictSamples(data dataset.Data) (*dataset.StaticSamples, error) {
	preds, err := n.Predict(data)
	if err != nil {
		return nil, err
	}
	return features.Samples(data.TimeSeries().SampleIDs(), []string{n.Output}, [][]float64{preds})
}

// PredictProbaSamples returns class probabilities, one column per class.
func (n *Network) PredictProbaSamples(data dataset.Data) (*dataset.StaticSamples, error) {
	layout, err := n.inputs(data)
	if err != nil {
		return nil, err
	}
	x, err := features.Matrix(data, *layout)
	if err != nil {
		return nil, err
	}
	proba, err := n.Model.PredictProba(x)
	if err != nil {
		return nil, errutil.InvalidData().With("operation", "predict probabilities").Wrap(err)
	}
	classes := n.Model.Classes()
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return features.Samples(data.TimeSeries().SampleIDs(), names, features.MatrixColumns(proba))
}

// Marshal encodes the network.
func (n *Network) Marshal() ([]byte, error) { return json.Marshal(n) }

// Unmarshal decodes a network encoded by Marshal.
func Unmarshal(data []byte) (*Network, error) {
	n := &Network{Model: &mlp.Model{}}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, errutil.InvalidData().With("operation", "decode network").Wrap(err)
	}
	if !n.Model.Trained() {
		return nil, errutil.InvalidData().With("operation", "decode network").Wrap(mlp.ErrNotTrained)
	}
	return n, nil
}

// TargetName returns the column predictions are reported under: the first
// numeric target column, or "prediction" when targets are unnamed.
func TargetName(data dataset.Data) string {
	if t := data.Targets(); t != nil {
		if names := t.Frame().NumericNames(); len(names) > 0 {
			return names[0]
		}
	}
	return "prediction"
}
