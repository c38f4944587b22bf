// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package serialization_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/serialization"
	"github.com/tempor/tempor/pkg/tempor"
)

func sineData(t *testing.T) *dataset.Dataset {
	t.Helper()
	src, err := tempor.DataSource("prediction.one_off.sine_regression", map[string]any{"no_samples": 20, "seq_len": 4})
	require.NoError(t, err)
	d, err := src.Load(context.Background())
	require.NoError(t, err)
	return d
}

func fittedRegressor(t *testing.T, data dataset.Data) method.Predictor {
	t.Helper()
	p, err := tempor.Predictor("prediction.one_off.regression.nn_regressor", map[string]any{
		"n_iter":                   10,
		"n_temporal_units_hidden":  4,
		"n_temporal_layers_hidden": 1,
		"n_static_layers_hidden":   0,
		"batch_size":               8,
	})
	require.NoError(t, err)
	require.NoError(t, p.Fit(context.Background(), data))
	return p
}

func TestRoundTrip_PreservesPredictions(t *testing.T) {
	ctx := context.Background()
	data := sineData(t)
	src := fittedRegressor(t, data)

	raw, err := serialization.Save(src)
	require.NoError(t, err)

	loaded, err := serialization.Load(raw)
	require.NoError(t, err)
	assert.Equal(t, src.Name(), loaded.Name())
	assert.True(t, loaded.IsFitted())
	assert.Equal(t, src.Params().Map(), loaded.Params().Map())

	dst, ok := loaded.(method.Predictor)
	require.True(t, ok)
	want, err := src.Predict(ctx, data)
	require.NoError(t, err)
	got, err := dst.Predict(ctx, data)
	require.NoError(t, err)
	assert.True(t, want.Frame().Equal(got.Frame()))
}

func TestRoundTrip_Unfitted(t *testing.T) {
	src, err := tempor.Transformer("preprocessing.scaling.static.static_minmax_scaler", map[string]any{"clip": true})
	require.NoError(t, err)

	raw, err := serialization.Save(src)
	require.NoError(t, err)
	env, err := serialization.Decode(raw)
	require.NoError(t, err)
	assert.False(t, env.Fitted)
	assert.Empty(t, env.State)

	reg, err := tempor.Load(context.Background())
	require.NoError(t, err)
	loaded, err := serialization.LoadWith(reg, raw)
	require.NoError(t, err)
	assert.False(t, loaded.IsFitted())
	assert.True(t, loaded.Params().Bool("clip"))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code string
	}{
		{name: "not json", data: "{", code: errutil.CodeInvalidData},
		{name: "future format", data: `{"format":2,"plugin":"a.b"}`, code: errutil.CodeUnsupportedOperation},
		{name: "no plugin", data: `{"format":1}`, code: errutil.CodeInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serialization.Decode([]byte(tt.data))
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	src, err := tempor.Transformer("preprocessing.scaling.temporal.ts_minmax_scaler", nil)
	require.NoError(t, err)
	raw, err := serialization.Save(src)
	require.NoError(t, err)

	var env serialization.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))

	t.Run("unknown plugin", func(t *testing.T) {
		bad := env
		bad.Plugin = "preprocessing.scaling.temporal.gone"
		data, err := json.Marshal(bad)
		require.NoError(t, err)
		_, err = serialization.Load(data)
		errutil.AssertErrorCode(t, err, errutil.CodeNotFound)
	})

	t.Run("params no longer valid", func(t *testing.T) {
		bad := env
		bad.Params = map[string]any{"feature_range": []float64{0, 1}, "removed": true}
		data, err := json.Marshal(bad)
		require.NoError(t, err)
		_, err = serialization.Load(data)
		errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
	})

	t.Run("fitted without state", func(t *testing.T) {
		bad := env
		bad.Fitted = true
		data, err := json.Marshal(bad)
		require.NoError(t, err)
		_, err = serialization.Load(data)
		errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
	})
}

func TestFiles(t *testing.T) {
	data := sineData(t)
	src := fittedRegressor(t, data)
	path := filepath.Join(t.TempDir(), "nested", "model.json")

	require.NoError(t, serialization.SaveToFile(path, src))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := serialization.LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.IsFitted())

	_, err = serialization.LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	errutil.AssertErrorCode(t, err, errutil.CodeNotFound)
}
