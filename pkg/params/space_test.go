// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package params_test

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/params"
)

func TestValidateSpace_Valid(t *testing.T) {
	s := testSchema(t)
	space := []params.Descriptor{
		params.IntegerParams{Name: "n_iter", Low: 10, High: 1000},
		params.FloatParams{Name: "lr", Low: 1e-4, High: 1e-2},
		params.CategoricalParams{Name: "mode", Choices: []any{"RNN", "LSTM"}},
		params.CategoricalParams{Name: "clip", Choices: []any{true, false}},
	}

	require.NoError(t, params.ValidateSpace(s, space))
	assert.Equal(t, []string{"n_iter", "lr", "mode", "clip"}, params.Names(space))
}

func TestValidateSpace_Invalid(t *testing.T) {
	s := testSchema(t)

	tests := []struct {
		name string
		d    params.Descriptor
	}{
		{"unknown name", params.IntegerParams{Name: "depth", Low: 1, High: 2}},
		{"inverted int bounds", params.IntegerParams{Name: "n_iter", Low: 5, High: 1}},
		{"inverted float bounds", params.FloatParams{Name: "lr", Low: 1, High: 0}},
		{"empty choices", params.CategoricalParams{Name: "mode"}},
		{"choice outside option choices", params.CategoricalParams{Name: "mode", Choices: []any{"CNN"}}},
		{"float range on int option", params.FloatParams{Name: "n_iter", Low: 0, High: 1}},
		{"integer range on bool option", params.IntegerParams{Name: "clip", Low: 0, High: 1}},
		{"empty name", params.FloatParams{Low: 0, High: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := params.ValidateSpace(s, []params.Descriptor{tt.d})
			errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
		})
	}
}

func TestValidateSpace_Duplicate(t *testing.T) {
	s := testSchema(t)
	err := params.ValidateSpace(s, []params.Descriptor{
		params.IntegerParams{Name: "n_iter", Low: 1, High: 2},
		params.IntegerParams{Name: "n_iter", Low: 3, High: 4},
	})
	errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
}

func TestSample_StaysInSpace(t *testing.T) {
	s := testSchema(t)
	space := []params.Descriptor{
		params.IntegerParams{Name: "n_iter", Low: 10, High: 12},
		params.FloatParams{Name: "lr", Low: 0.1, High: 0.2},
		params.CategoricalParams{Name: "mode", Choices: []any{"LSTM", "GRU"}},
	}
	r := rand.New(rand.NewPCG(1, 2))

	for range 50 {
		cfg := params.Sample(space, r)
		n := cfg["n_iter"].(int)
		assert.GreaterOrEqual(t, n, 10)
		assert.LessOrEqual(t, n, 12)
		lr := cfg["lr"].(float64)
		assert.GreaterOrEqual(t, lr, 0.1)
		assert.LessOrEqual(t, lr, 0.2)
		assert.Contains(t, []any{"LSTM", "GRU"}, cfg["mode"])

		_, err := s.New(cfg)
		require.NoError(t, err)
	}
}

func TestIntegerParams_SampleWideRanges(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))

	tests := []params.IntegerParams{
		{Name: "n", Low: 0, High: math.MaxInt},
		{Name: "n", Low: math.MinInt, High: 0},
		{Name: "n", Low: math.MinInt, High: math.MaxInt},
		{Name: "n", Low: math.MaxInt, High: math.MaxInt},
	}

	for _, d := range tests {
		require.NoError(t, d.Validate())
		for range 20 {
			v := d.Sample(r).(int)
			assert.GreaterOrEqual(t, v, d.Low)
			assert.LessOrEqual(t, v, d.High)
		}
	}
}

func TestValidateSpace_ListOption(t *testing.T) {
	s := testSchema(t)
	space := []params.Descriptor{
		params.CategoricalParams{Name: "feature_range", Choices: []any{[]float64{0, 1}, []any{-1.0, 1.0}}},
	}
	require.NoError(t, params.ValidateSpace(s, space))

	r := rand.New(rand.NewPCG(5, 6))
	_, err := s.New(params.Sample(space, r))
	require.NoError(t, err)
}

func TestDescriptor_MarshalJSON(t *testing.T) {
	space := []params.Descriptor{
		params.IntegerParams{Name: "a", Low: 1, High: 5},
		params.FloatParams{Name: "b", Low: 0, High: 0.5},
		params.CategoricalParams{Name: "c", Choices: []any{"x", 2}},
	}

	data, err := json.Marshal(space)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type": "integer", "name": "a", "low": 1, "high": 5},
		{"type": "float", "name": "b", "low": 0, "high": 0.5},
		{"type": "categorical", "name": "c", "choices": ["x", 2]}
	]`, string(data))
}
