// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package treatments_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempor/tempor/internal/datasources"
	"github.com/tempor/tempor/internal/methods/treatments"
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
)

var smallNet = map[string]any{
	"n_iter":                   20,
	"n_temporal_units_hidden":  8,
	"n_temporal_layers_hidden": 1,
	"n_static_units_hidden":    8,
	"n_static_layers_hidden":   1,
	"batch_size":               16,
}

func treatmentData(t *testing.T, ratio float64) *dataset.Dataset {
	t.Helper()
	p, err := datasources.DummyTreatmentsSchema.New(map[string]any{
		"no_samples":      40,
		"seq_len":         4,
		"treatment_ratio": ratio,
	})
	require.NoError(t, err)
	src, err := datasources.NewDummyTreatments(p)
	require.NoError(t, err)
	d, err := src.Load(context.Background())
	require.NoError(t, err)
	return d
}

func newLearner(t *testing.T) *treatments.NNTLearner {
	t.Helper()
	p, err := treatments.NNTLearnerSchema.New(smallNet)
	require.NoError(t, err)
	l, err := treatments.NewNNTLearner(p)
	require.NoError(t, err)
	return l
}

func TestNNTLearner_FitPredict(t *testing.T) {
	ctx := context.Background()
	l := newLearner(t)
	data := treatmentData(t, 0.5)

	require.NoError(t, l.Fit(ctx, data))
	assert.Equal(t, []float64{0, 1}, l.Arms())

	preds, err := l.Predict(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, data.TimeSeries().SampleIDs(), preds.SampleIDs())
	assert.Equal(t, []string{"label"}, preds.Frame().Names())

	cf, err := l.PredictCounterfactuals(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"label_0", "label_1"}, cf.Frame().Names())

	// The factual prediction is the counterfactual column of the observed arm.
	treated, _ := data.Treatments().Frame().Column("treatment")
	factual, _ := preds.Frame().Column("label")
	for i, arm := range treated.Numeric {
		col, _ := cf.Frame().Column("label_" + strconv.FormatFloat(arm, 'g', -1, 64))
		assert.InDelta(t, col.Numeric[i], factual.Numeric[i], 1e-12)
	}

	_, err = l.PredictProba(ctx, data)
	errutil.AssertErrorCode(t, err, errutil.CodeUnsupportedOperation)
}

func TestNNTLearner_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("single arm", func(t *testing.T) {
		l := newLearner(t)
		err := l.Fit(ctx, treatmentData(t, 0))
		errutil.AssertErrorCode(t, err, errutil.CodeInvalidData)
		assert.False(t, l.IsFitted())
	})

	t.Run("no treatments", func(t *testing.T) {
		l := newLearner(t)
		data := treatmentData(t, 0.5)
		data.SetTreatments(nil)
		err := l.Fit(ctx, data)
		errutil.AssertErrorCode(t, err, errutil.CodeInvalidData)
	})

	t.Run("unseen arm at predict", func(t *testing.T) {
		l := newLearner(t)
		data := treatmentData(t, 0.5)
		require.NoError(t, l.Fit(ctx, data))

		ids := data.Treatments().SampleIDs()
		arms := make([]float64, len(ids))
		for i := range arms {
			arms[i] = 2
		}
		f, err := dataset.NewFrame(dataset.NumericColumn("treatment", arms))
		require.NoError(t, err)
		tr, err := dataset.NewStatic(ids, f)
		require.NoError(t, err)
		data.SetTreatments(tr)

		_, err = l.Predict(ctx, data)
		errutil.AssertErrorCode(t, err, errutil.CodeInvalidData)
		errutil.AssertErrorContext(t, err, "arm", 2.0)

		_, err = l.PredictCounterfactuals(ctx, data)
		require.NoError(t, err, "counterfactuals do not depend on the observed arm")
	})

	t.Run("counterfactuals before fit", func(t *testing.T) {
		_, err := newLearner(t).PredictCounterfactuals(ctx, treatmentData(t, 0.5))
		errutil.AssertErrorCode(t, err, errutil.CodeInvalidState)
	})
}

func TestNNTLearner_StateRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newLearner(t)
	data := treatmentData(t, 0.5)
	require.NoError(t, src.Fit(ctx, data))

	st, err := method.Snapshot(src)
	require.NoError(t, err)
	dst := newLearner(t)
	require.NoError(t, method.Restore(dst, st))
	assert.Equal(t, src.Arms(), dst.Arms())

	want, err := src.PredictCounterfactuals(ctx, data)
	require.NoError(t, err)
	got, err := dst.PredictCounterfactuals(ctx, data)
	require.NoError(t, err)
	assert.True(t, want.Frame().Equal(got.Frame()))

	for _, bad := range []string{
		`{"arms":[0],"networks":[{}]}`,
		`{"arms":[1,0],"networks":[{},{}]}`,
		`{"arms":[0,1],"networks":[{}]}`,
		`{"arms":[0,1],"networks":[{},{}]}`,
		`{`,
	} {
		errutil.AssertErrorCode(t, dst.UnmarshalState([]byte(bad)), errutil.CodeInvalidData)
	}
}
