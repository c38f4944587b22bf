// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package method_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/params"
)

var testSchema = params.MustSchema(params.Int("n", 1, "A count."))

type identity struct {
	method.BaseTransformer
	fitErr error
}

func newIdentity(t *testing.T) *identity {
	t.Helper()
	id := &identity{}
	id.BaseTransformer = method.NewBaseTransformer("x.y.id", testSchema.Defaults(), id)
	return id
}

func (i *identity) FitData(context.Context, dataset.Data) error { return i.fitErr }

func (i *identity) TransformData(_ context.Context, data dataset.Data) (dataset.Data, error) {
	return data, nil
}

type regressor struct {
	method.BasePredictor
	mean float64
}

func newRegressor(name string) *regressor {
	r := &regressor{}
	r.BasePredictor = method.NewBasePredictor(name, testSchema.Defaults(), r)
	return r
}

func (r *regressor) FitData(_ context.Context, data dataset.Data) error {
	v, _ := data.TimeSeries().Frame().Value("x", 0)
	r.mean = v
	return nil
}

func (r *regressor) PredictData(_ context.Context, data dataset.Data) (dataset.Samples, error) {
	ids := data.TimeSeries().SampleIDs()
	values := make([]float64, len(ids))
	for i := range values {
		values[i] = r.mean
	}
	f, err := dataset.NewFrame(dataset.NumericColumn("prediction", values))
	if err != nil {
		return nil, err
	}
	return dataset.NewStatic(ids, f)
}

type classifier struct {
	regressor
}

func newClassifier() *classifier {
	c := &classifier{}
	c.BasePredictor = method.NewBasePredictor("c.clf", testSchema.Defaults(), c)
	return c
}

func (c *classifier) PredictProbaData(ctx context.Context, data dataset.Data) (dataset.Samples, error) {
	return c.PredictData(ctx, data)
}

var (
	_ method.Transformer = (*identity)(nil)
	_ method.Predictor   = (*regressor)(nil)
	_ method.Predictor   = (*classifier)(nil)
)

func testData(t *testing.T) *dataset.Dataset {
	t.Helper()
	f, err := dataset.NewFrame(dataset.NumericColumn("x", []float64{3, 4}))
	require.NoError(t, err)
	ts, err := dataset.NewTimeSeries([]dataset.TimeIndex{{Sample: "a"}, {Sample: "a", Time: 1}}, f)
	require.NoError(t, err)
	d, err := dataset.New(ts)
	require.NoError(t, err)
	return d
}

func TestTransformer_Lifecycle(t *testing.T) {
	ctx := context.Background()
	id := newIdentity(t)
	data := testData(t)

	assert.False(t, id.IsFitted())
	assert.Equal(t, "x.y.id", id.Name())
	assert.Equal(t, 1, id.Params().Int("n"))

	_, err := id.Transform(ctx, data)
	errutil.AssertErrorCode(t, err, errutil.CodeInvalidState)

	out, err := id.FitTransform(ctx, data)
	require.NoError(t, err)
	assert.True(t, id.IsFitted())
	assert.Same(t, data, out)
}

func TestFit_FailureLeavesFlagUnchanged(t *testing.T) {
	ctx := context.Background()
	id := newIdentity(t)
	id.fitErr = errors.New("boom")

	err := id.Fit(ctx, testData(t))
	require.Error(t, err)
	assert.False(t, id.IsFitted())

	id.fitErr = nil
	require.NoError(t, id.Fit(ctx, testData(t)))
	id.fitErr = errors.New("boom")
	require.Error(t, id.Fit(ctx, testData(t)))
	assert.True(t, id.IsFitted(), "a failed refit keeps the previous fitted state")
}

func TestFit_NilData(t *testing.T) {
	err := newIdentity(t).Fit(context.Background(), nil)
	errutil.AssertErrorCode(t, err, errutil.CodeInvalidData)
}

func TestPredictor_BeforeFit(t *testing.T) {
	ctx := context.Background()
	data := testData(t)

	calls := map[string]func(method.Predictor) error{
		method.OpPredict: func(p method.Predictor) error {
			_, err := p.Predict(ctx, data)
			return err
		},
		method.OpPredictProba: func(p method.Predictor) error {
			_, err := p.PredictProba(ctx, data)
			return err
		},
		method.OpPredictCounterfactuals: func(p method.Predictor) error {
			_, err := p.PredictCounterfactuals(ctx, data)
			return err
		},
	}

	for op, call := range calls {
		t.Run(op, func(t *testing.T) {
			err := call(newRegressor("r.before_" + op))
			errutil.AssertErrorCode(t, err, errutil.CodeInvalidState)
			errutil.AssertErrorContext(t, err, "operation", op)
		})
	}
}

func TestPredictor_NotPredictReady(t *testing.T) {
	ctx := context.Background()
	r := newRegressor("r.not_ready")
	require.NoError(t, r.Fit(ctx, testData(t)))

	_, err := r.Predict(ctx, &dataset.Dataset{})
	errutil.AssertErrorCode(t, err, errutil.CodeInvalidState)

	_, err = r.Predict(ctx, nil)
	errutil.AssertErrorCode(t, err, errutil.CodeInvalidState)
}

func TestPredictor_OptionalOperations(t *testing.T) {
	ctx := context.Background()
	data := testData(t)

	r := newRegressor("r.optional")
	preds, err := r.FitPredict(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, preds.SampleIDs())
	v, _ := preds.Frame().Value("prediction", 0)
	assert.InDelta(t, 3.0, v, 0)

	_, err = r.PredictProba(ctx, data)
	errutil.AssertErrorCode(t, err, errutil.CodeUnsupportedOperation)
	assert.Contains(t, err.Error(), "supported only for classification tasks")

	_, err = r.PredictCounterfactuals(ctx, data)
	errutil.AssertErrorCode(t, err, errutil.CodeUnsupportedOperation)
	assert.Contains(t, err.Error(), "supported only for treatments tasks")

	c := newClassifier()
	require.NoError(t, c.Fit(ctx, data))
	assert.True(t, c.SupportsProba())
	assert.False(t, c.SupportsCounterfactuals())
	_, err = c.PredictProba(ctx, data)
	require.NoError(t, err)
}

func TestBase_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	r := newRegressor("r.metrics")

	_, _ = r.Predict(ctx, testData(t))
	require.NoError(t, r.Fit(ctx, testData(t)))
	_, err := r.Predict(ctx, testData(t))
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(method.Operations.WithLabelValues("r.metrics", method.OpFit, method.StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(method.Operations.WithLabelValues("r.metrics", method.OpPredict, method.StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(method.Operations.WithLabelValues("r.metrics", method.OpPredict, method.StatusInvalidState)), 0)
}

func TestInstanceIDsAreUnique(t *testing.T) {
	a := newIdentity(t)
	b := newIdentity(t)
	assert.NotEqual(t, a.ID(), b.ID())
}
