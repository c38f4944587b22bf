// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package mlp is a small multilayer perceptron on gonum matrices. It backs
// the neural-net method plugins and supports classification (softmax output,
// cross-entropy loss) and regression (linear output, squared loss), trained
// with Adam on mini-batches with early stopping on a held-out split.
package mlp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Task selects the output head.
type Task string

// Tasks.
const (
	Classification Task = "classification"
	Regression     Task = "regression"
)

// Config holds model hyperparameters.
type Config struct {
	Task          Task    `json:"task"`
	Hidden        []int   `json:"hidden"`
	Nonlin        string  `json:"nonlin"`
	NIter         int     `json:"n_iter"`
	NIterPrint    int     `json:"n_iter_print"`
	BatchSize     int     `json:"batch_size"`
	LR            float64 `json:"lr"`
	WeightDecay   float64 `json:"weight_decay"`
	Patience      int     `json:"patience"`
	TrainRatio    float64 `json:"train_ratio"`
	ClippingValue float64 `json:"clipping_value"`
	Dropout       float64 `json:"dropout"`
	RandomState   int     `json:"random_state"`
}

// ErrNotTrained is returned by inference before a successful Fit.
var ErrNotTrained = errors.New("mlp: model is not trained")

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Task != Classification && c.Task != Regression {
		return fmt.Errorf("unknown task %q", c.Task)
	}
	if _, ok := activations[c.Nonlin]; !ok {
		return fmt.Errorf("unknown nonlinearity %q", c.Nonlin)
	}
	for _, h := range c.Hidden {
		if h <= 0 {
			return fmt.Errorf("hidden layer size must be positive, got %d", h)
		}
	}
	if c.NIter < 0 {
		return fmt.Errorf("n_iter must not be negative, got %d", c.NIter)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.LR <= 0 {
		return fmt.Errorf("lr must be positive, got %g", c.LR)
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("dropout must be in [0, 1), got %g", c.Dropout)
	}
	if c.TrainRatio <= 0 || c.TrainRatio > 1 {
		return fmt.Errorf("train_ratio must be in (0, 1], got %g", c.TrainRatio)
	}
	return nil
}

type layer struct {
	w *mat.Dense
	b []float64
}

// Model is a trained or untrained network. A Model is not safe for
// concurrent Fit calls.
type Model struct {
	cfg     Config
	layers  []layer
	classes []float64
	xMean   []float64
	xStd    []float64
	yMean   float64
	yStd    float64
}

// New creates an untrained model.
func New(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Hidden = slices.Clone(cfg.Hidden)
	return &Model{cfg: cfg}, nil
}

// Config returns the model configuration.
func (m *Model) Config() Config { return m.cfg }

// Trained reports whether Fit has succeeded.
func (m *Model) Trained() bool { return len(m.layers) > 0 }

// Classes returns the class labels seen during Fit, sorted.
func (m *Model) Classes() []float64 { return slices.Clone(m.classes) }

// InputDim returns the feature count the model was trained on.
func (m *Model) InputDim() int {
	if !m.Trained() {
		return 0
	}
	r, _ := m.layers[0].w.Dims()
	return r
}

// forward returns pre-activations and activations of every layer. acts[0]
// is the input. hidden, when set, may modify each hidden activation in place.
func (m *Model) forward(layers []layer, x *mat.Dense, hidden func(i int, a *mat.Dense)) (pre, acts []*mat.Dense) {
	act := activations[m.cfg.Nonlin]
	acts = append(acts, x)
	for i, l := range layers {
		var z mat.Dense
		z.Mul(acts[i], l.w)
		rows, _ := z.Dims()
		for r := range rows {
			row := z.RawRowView(r)
			for j := range row {
				row[j] += l.b[j]
			}
		}
		pre = append(pre, &z)

		var a mat.Dense
		if i < len(layers)-1 {
			a.Apply(func(_, _ int, v float64) float64 { return act.f(v) }, &z)
			if hidden != nil {
				hidden(i, &a)
			}
		} else if m.cfg.Task == Classification {
			softmax(&a, &z)
		} else {
			a.CloneFrom(&z)
		}
		acts = append(acts, &a)
	}
	return pre, acts
}

func softmax(dst, z *mat.Dense) {
	dst.CloneFrom(z)
	rows, _ := dst.Dims()
	for r := range rows {
		row := dst.RawRowView(r)
		maxV := slices.Max(row)
		var sum float64
		for j, v := range row {
			row[j] = math.Exp(v - maxV)
			sum += row[j]
		}
		for j := range row {
			row[j] /= sum
		}
	}
}

func (m *Model) standardize(x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	for r := range rows {
		for c := range cols {
			out.Set(r, c, (x.At(r, c)-m.xMean[c])/m.xStd[c])
		}
	}
	return out
}

func (m *Model) output(x mat.Matrix) (*mat.Dense, error) {
	if !m.Trained() {
		return nil, ErrNotTrained
	}
	if _, cols := x.Dims(); cols != m.InputDim() {
		return nil, fmt.Errorf("mlp: expected %d features, got %d", m.InputDim(), cols)
	}
	_, acts := m.forward(m.layers, m.standardize(x), nil)
	return acts[len(acts)-1], nil
}

// Predict returns one value per row: the most probable class label for
// classification, the estimate for regression.
func (m *Model) Predict(x mat.Matrix) ([]float64, error) {
	out, err := m.output(x)
	if err != nil {
		return nil, err
	}
	rows, _ := out.Dims()
	preds := make([]float64, rows)
	for r := range rows {
		row := out.RawRowView(r)
		if m.cfg.Task == Classification {
			preds[r] = m.classes[argmax(row)]
		} else {
			preds[r] = row[0]*m.yStd + m.yMean
		}
	}
	return preds, nil
}

// PredictProba returns class probabilities, one column per class in
// Classes order.
func (m *Model) PredictProba(x mat.Matrix) (*mat.Dense, error) {
	if m.cfg.Task != Classification {
		return nil, errors.New("mlp: probabilities need a classification model")
	}
	out, err := m.output(x)
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(out), nil
}

func argmax(v []float64) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}

// Fit trains the model on x (one row per sample) and y. The model is only
// replaced once training completes; a canceled or failed fit keeps the
// previous weights.
func (m *Model) Fit(ctx context.Context, x mat.Matrix, y []float64) error {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return errors.New("mlp: empty training data")
	}
	if len(y) != rows {
		return fmt.Errorf("mlp: %d targets for %d rows", len(y), rows)
	}

	t := newTrainer(m.cfg, x, y)
	if err := t.run(ctx); err != nil {
		return err
	}
	m.layers = t.best
	m.classes = t.classes
	m.xMean, m.xStd = t.xMean, t.xStd
	m.yMean, m.yStd = t.yMean, t.yStd
	return nil
}
