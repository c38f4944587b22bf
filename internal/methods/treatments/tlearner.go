// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package treatments provides the one-off treatment effect plugins.
package treatments

import (
	"context"
	"encoding/json"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/tempor/tempor/internal/methods/features"
	"github.com/tempor/tempor/internal/methods/nn"
	"github.com/tempor/tempor/internal/models/mlp"
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/params"
	"github.com/tempor/tempor/pkg/plugin"
)

// RegressionCategory is the category of one-off treatment regressors.
const RegressionCategory = "treatments.one_off.regression"

// NNTLearnerName is the plugin name of the neural-net T-learner.
const NNTLearnerName = "nn_tlearner"

// NNTLearnerSchema declares the T-learner options.
var NNTLearnerSchema = params.MustSchema(nn.Options()...)

// NNTLearner fits one network per treatment arm and predicts the outcome of
// every sample under every arm.
type NNTLearner struct {
	method.BasePredictor
	cfg    mlp.Config
	window int

	arms     []float64
	networks []*nn.Network
}

var (
	_ method.Predictor               = (*NNTLearner)(nil)
	_ method.CounterfactualPredictor = (*NNTLearner)(nil)
	_ method.Stateful                = (*NNTLearner)(nil)
)

// NewNNTLearner builds an unfitted T-learner.
func NewNNTLearner(p *params.Params) (*NNTLearner, error) {
	cfg, err := nn.Config(p, mlp.Regression)
	if err != nil {
		return nil, err
	}
	t := &NNTLearner{cfg: cfg, window: p.Int("window_size")}
	t.BasePredictor = method.NewBasePredictor(plugin.JoinName(RegressionCategory, NNTLearnerName), p, t)
	return t, nil
}

// NNTLearnerDefinition describes the T-learner for registration.
func NNTLearnerDefinition() *plugin.Definition {
	return plugin.Define(NNTLearnerName, RegressionCategory, NNTLearnerSchema, NewNNTLearner,
		plugin.WithSpace(nn.Space),
		plugin.WithDescription("T-learner with one neural-net regressor per treatment arm."),
	)
}

// Arms returns the treatment values seen during fit.
func (t *NNTLearner) Arms() []float64 { return slices.Clone(t.arms) }

// FitData implements method.Fitter.
func (t *NNTLearner) FitData(ctx context.Context, data dataset.Data) error {
	y, err := features.Column(data.Targets(), dataset.SliceTargets, "")
	if err != nil {
		return err
	}
	treated, err := features.Column(data.Treatments(), dataset.SliceTreatments, "")
	if err != nil {
		return err
	}
	layout, err := features.LayoutOf(data, t.window)
	if err != nil {
		return err
	}
	x, err := features.Matrix(data, layout)
	if err != nil {
		return err
	}

	arms := slices.Sorted(slices.Values(treated))
	arms = slices.Compact(arms)
	if len(arms) < 2 {
		return errutil.InvalidData().
			With("slice", dataset.SliceTreatments).
			With("arms", arms).
			Errorf("a T-learner needs at least two treatment arms, got %d", len(arms))
	}

	output := nn.TargetName(data)
	networks := make([]*nn.Network, len(arms))
	for i, arm := range arms {
		var rows []int
		for r, v := range treated {
			if v == arm {
				rows = append(rows, r)
			}
		}
		xs, ys := takeRows(x, y, rows)
		net, err := nn.TrainMatrix(ctx, t.cfg, layout, xs, ys, output)
		if err != nil {
			return errutil.InvalidData().With("arm", arm).Wrapf(err, "fitting arm %g", arm)
		}
		networks[i] = net
	}
	t.arms, t.networks = arms, networks
	return nil
}

func takeRows(x *mat.Dense, y []float64, rows []int) (*mat.Dense, []float64) {
	_, cols := x.Dims()
	xs := mat.NewDense(len(rows), cols, nil)
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs.SetRow(i, x.RawRowView(r))
		ys[i] = y[r]
	}
	return xs, ys
}

// PredictData predicts each sample's outcome under its observed treatment.
func (t *NNTLearner) PredictData(_ context.Context, data dataset.Data) (dataset.Samples, error) {
	treated, err := features.Column(data.Treatments(), dataset.SliceTreatments, "")
	if err != nil {
		return nil, err
	}
	outcomes, err := t.outcomes(data)
	if err != nil {
		return nil, err
	}
	preds := make([]float64, len(treated))
	for r, v := range treated {
		i, ok := slices.BinarySearch(t.arms, v)
		if !ok {
			return nil, errutil.InvalidData().
				With("slice", dataset.SliceTreatments).
				With("arm", v).
				Errorf("treatment %g was not seen during fit", v)
		}
		preds[r] = outcomes[i][r]
	}
	return features.Samples(data.TimeSeries().SampleIDs(), []string{t.networks[0].Output}, [][]float64{preds})
}

// PredictCounterfactualsData returns one column per treatment arm, named
// "<target>_<arm>", holding the outcome predicted under that arm.
func (t *NNTLearner) PredictCounterfactualsData(_ context.Context, data dataset.Data) (dataset.Samples, error) {
	outcomes, err := t.outcomes(data)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(t.arms))
	for i, arm := range t.arms {
		names[i] = t.networks[i].Output + "_" + strconv.FormatFloat(arm, 'g', -1, 64)
	}
	return features.Samples(data.TimeSeries().SampleIDs(), names, outcomes)
}

func (t *NNTLearner) outcomes(data dataset.Data) ([][]float64, error) {
	out := make([][]float64, len(t.networks))
	for i, net := range t.networks {
		preds, err := net.Predict(data)
		if err != nil {
			return nil, err
		}
		out[i] = preds
	}
	return out, nil
}

type tlearnerState struct {
	Arms     []float64         `json:"arms"`
	Networks []json.RawMessage `json:"networks"`
}

// MarshalState implements method.Stateful.
func (t *NNTLearner) MarshalState() ([]byte, error) {
	st := tlearnerState{Arms: t.arms, Networks: make([]json.RawMessage, len(t.networks))}
	for i, net := range t.networks {
		b, err := net.Marshal()
		if err != nil {
			return nil, err
		}
		st.Networks[i] = b
	}
	return json.Marshal(st)
}

// UnmarshalState implements method.Stateful.
func (t *NNTLearner) UnmarshalState(data []byte) error {
	var st tlearnerState
	if err := json.Unmarshal(data, &st); err != nil {
		return errutil.InvalidData().With("operation", "decode T-learner state").Wrap(err)
	}
	if len(st.Arms) != len(st.Networks) || len(st.Arms) < 2 || !slices.IsSorted(st.Arms) {
		return errutil.InvalidData().
			With("arms", st.Arms).
			Errorf("invalid T-learner state: %d arms for %d networks", len(st.Arms), len(st.Networks))
	}
	networks := make([]*nn.Network, len(st.Networks))
	for i, raw := range st.Networks {
		net, err := nn.Unmarshal(raw)
		if err != nil {
			return err
		}
		networks[i] = net
	}
	t.arms, t.networks = st.Arms, networks
	return nil
}
