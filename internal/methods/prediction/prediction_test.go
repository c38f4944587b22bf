// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package prediction_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempor/tempor/internal/datasources"
	"github.com/tempor/tempor/internal/methods/prediction"
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/params"
)

var smallNet = map[string]any{
	"n_iter":                   20,
	"n_temporal_units_hidden":  8,
	"n_temporal_layers_hidden": 1,
	"n_static_units_hidden":    8,
	"n_static_layers_hidden":   1,
	"batch_size":               16,
	"window_size":              2,
}

func sineData(t *testing.T, regression bool) *dataset.Dataset {
	t.Helper()
	p, err := datasources.SineSchema.New(map[string]any{"no_samples": 30, "seq_len": 5})
	require.NoError(t, err)
	var src *datasources.Sine
	if regression {
		src, err = datasources.NewSineRegression(p)
	} else {
		src, err = datasources.NewSine(p)
	}
	require.NoError(t, err)
	d, err := src.Load(context.Background())
	require.NoError(t, err)
	return d
}

func newParams(t *testing.T, s *params.Schema, values map[string]any) *params.Params {
	t.Helper()
	p, err := s.New(values)
	require.NoError(t, err)
	return p
}

func TestNNClassifier_FitPredict(t *testing.T) {
	ctx := context.Background()
	c, err := prediction.NewNNClassifier(newParams(t, prediction.NNClassifierSchema, smallNet))
	require.NoError(t, err)
	assert.Equal(t, prediction.ClassificationCategory+"."+prediction.NNClassifierName, c.Name())

	data := sineData(t, false)
	preds, err := c.FitPredict(ctx, data)
	require.NoError(t, err)
	assert.True(t, c.IsFitted())
	assert.Equal(t, data.TimeSeries().SampleIDs(), preds.SampleIDs())
	assert.Equal(t, []string{"label"}, preds.Frame().Names())

	labels, _ := preds.Frame().Column("label")
	for _, v := range labels.Numeric {
		assert.Contains(t, []float64{0, 1}, v)
	}

	proba, err := c.PredictProba(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 30, proba.Len())
	cols := proba.Frame().Columns()
	require.NotEmpty(t, cols)
	for i := range proba.Len() {
		sum := 0.0
		for _, col := range cols {
			sum += col.Numeric[i]
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}

	_, err = c.PredictCounterfactuals(ctx, data)
	errutil.AssertErrorCode(t, err, errutil.CodeUnsupportedOperation)
}

func TestNNRegressor_FitPredict(t *testing.T) {
	ctx := context.Background()
	r, err := prediction.NewNNRegressor(newParams(t, prediction.NNRegressorSchema, smallNet))
	require.NoError(t, err)

	data := sineData(t, true)
	require.NoError(t, r.Fit(ctx, data))
	preds, err := r.Predict(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 30, preds.Len())

	_, err = r.PredictProba(ctx, data)
	errutil.AssertErrorCode(t, err, errutil.CodeUnsupportedOperation)
}

func TestPredictors_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("predict before fit", func(t *testing.T) {
		c, err := prediction.NewNNClassifier(newParams(t, prediction.NNClassifierSchema, smallNet))
		require.NoError(t, err)
		_, err = c.Predict(ctx, sineData(t, false))
		errutil.AssertErrorCode(t, err, errutil.CodeInvalidState)
		_, err = c.PredictProba(ctx, sineData(t, false))
		errutil.AssertErrorCode(t, err, errutil.CodeInvalidState)
	})

	t.Run("fit without targets", func(t *testing.T) {
		c, err := prediction.NewNNClassifier(newParams(t, prediction.NNClassifierSchema, smallNet))
		require.NoError(t, err)
		data := sineData(t, false)
		data.SetTargets(nil)
		err = c.Fit(ctx, data)
		errutil.AssertErrorCode(t, err, errutil.CodeInvalidData)
		assert.False(t, c.IsFitted())
	})

	t.Run("features differ at predict", func(t *testing.T) {
		r, err := prediction.NewNNRegressor(newParams(t, prediction.NNRegressorSchema, smallNet))
		require.NoError(t, err)
		require.NoError(t, r.Fit(ctx, sineData(t, true)))

		data := sineData(t, true)
		data.SetStatic(nil)
		_, err = r.Predict(ctx, data)
		errutil.AssertErrorCode(t, err, errutil.CodeInvalidData)
	})

	t.Run("invalid window", func(t *testing.T) {
		_, err := prediction.NewNNRegressor(newParams(t, prediction.NNRegressorSchema, map[string]any{"window_size": 0}))
		errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
	})

	t.Run("invalid nonlin", func(t *testing.T) {
		_, err := prediction.NNClassifierSchema.New(map[string]any{"nonlin": "swish"})
		errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
	})
}

func TestNNClassifier_StateRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, err := prediction.NewNNClassifier(newParams(t, prediction.NNClassifierSchema, smallNet))
	require.NoError(t, err)
	data := sineData(t, false)
	require.NoError(t, src.Fit(ctx, data))

	st, err := method.Snapshot(src)
	require.NoError(t, err)
	require.NotEmpty(t, st.Learned)

	dst, err := prediction.NewNNClassifier(newParams(t, prediction.NNClassifierSchema, st.Params))
	require.NoError(t, err)
	require.NoError(t, method.Restore(dst, st))
	assert.Equal(t, src.ID(), dst.ID())

	want, err := src.PredictProba(ctx, data)
	require.NoError(t, err)
	got, err := dst.PredictProba(ctx, data)
	require.NoError(t, err)
	assert.True(t, want.Frame().Equal(got.Frame()))

	errutil.AssertErrorCode(t, dst.UnmarshalState([]byte(`{"model":{}}`)), errutil.CodeInvalidData)
}

func TestModules(t *testing.T) {
	mods := prediction.Modules()
	require.Len(t, mods, 2)
	for _, m := range mods {
		assert.NotNil(t, m.Register, m.Name)
	}
	def := prediction.NNClassifierDefinition()
	require.NoError(t, params.ValidateSpace(def.Schema(), def.HyperparameterSpace()))
	assert.Equal(t, "1.0.0", def.Version().String())
}
