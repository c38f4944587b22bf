// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package params_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/params"
)

func testSchema(t *testing.T) *params.Schema {
	t.Helper()
	s, err := params.NewSchema(
		params.Int("n_iter", 500, "Number of epochs."),
		params.Float("lr", 1e-3, "Learning rate."),
		params.Bool("clip", false, "Clip transformed values."),
		params.String("mode", "RNN", "Core architecture.").OneOf("RNN", "LSTM", "GRU"),
		params.Strings("features", nil, "Features to encode.").OrNil(),
		params.Floats("feature_range", []float64{0, 1}, "Target range."),
	)
	require.NoError(t, err)
	return s
}

func TestSchema_NewUsesDefaults(t *testing.T) {
	s := testSchema(t)

	p, err := s.New(nil)
	require.NoError(t, err)

	assert.Equal(t, 500, p.Int("n_iter"))
	assert.InDelta(t, 1e-3, p.Float("lr"), 1e-12)
	assert.False(t, p.Bool("clip"))
	assert.Equal(t, "RNN", p.String("mode"))
	assert.True(t, p.IsNil("features"))
	assert.Equal(t, []float64{0, 1}, p.Floats("feature_range"))
}

func TestSchema_NewOverridesAndMerges(t *testing.T) {
	s := testSchema(t)

	p, err := s.New(map[string]any{"n_iter": 50, "features": []string{"a", "b"}})
	require.NoError(t, err)

	expected := map[string]any{
		"n_iter":        50,
		"lr":            1e-3,
		"clip":          false,
		"mode":          "RNN",
		"features":      []string{"a", "b"},
		"feature_range": []float64{0, 1},
	}
	assert.Equal(t, expected, p.Map())
}

func TestSchema_NewErrors(t *testing.T) {
	s := testSchema(t)

	tests := []struct {
		name   string
		values map[string]any
	}{
		{"unknown option", map[string]any{"n_epochs": 3}},
		{"int gets string", map[string]any{"n_iter": "many"}},
		{"int gets fractional float", map[string]any{"n_iter": 2.5}},
		{"bool gets int", map[string]any{"clip": 1}},
		{"nil on non-nullable", map[string]any{"lr": nil}},
		{"choice outside set", map[string]any{"mode": "CNN"}},
		{"list with mixed items", map[string]any{"features": []any{"a", 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.New(tt.values)
			errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
		})
	}
}

func TestSchema_NewUnknownOptionContext(t *testing.T) {
	s := testSchema(t)

	_, err := s.New(map[string]any{"bogus": true})
	errutil.AssertErrorContext(t, err, "option", "bogus")
}

func TestSchema_CoercesDecodedValues(t *testing.T) {
	s := testSchema(t)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"n_iter": 20, "lr": 1, "feature_range": [-1, 1], "features": ["x"]}`), &decoded))

	p, err := s.New(decoded)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Int("n_iter"))
	assert.InDelta(t, 1.0, p.Float("lr"), 1e-12)
	assert.Equal(t, []float64{-1, 1}, p.Floats("feature_range"))
	assert.Equal(t, []string{"x"}, p.Strings("features"))
}

func TestNewSchema_Rejects(t *testing.T) {
	t.Run("duplicate names", func(t *testing.T) {
		_, err := params.NewSchema(params.Int("a", 1, ""), params.Float("a", 1, ""))
		errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
	})
	t.Run("default of wrong kind", func(t *testing.T) {
		_, err := params.NewSchema(params.Option{Name: "a", Kind: params.KindInt, Default: "x"})
		errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
	})
	t.Run("default outside choices", func(t *testing.T) {
		_, err := params.NewSchema(params.String("a", "z", "").OneOf("x", "y"))
		errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
	})
	t.Run("empty name", func(t *testing.T) {
		_, err := params.NewSchema(params.Int("", 1, ""))
		errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
	})
	t.Run("choices on string list", func(t *testing.T) {
		_, err := params.NewSchema(params.Strings("cols", []string{"a"}, "").OneOf([]string{"a"}, []string{"b"}))
		errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
		errutil.AssertErrorContext(t, err, "option", "cols")
	})
	t.Run("choices on float list", func(t *testing.T) {
		_, err := params.NewSchema(params.Floats("r", []float64{0, 1}, "").OneOf([]float64{0, 1}))
		errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
	})
}

func TestSchema_IntCoercionBounds(t *testing.T) {
	s := params.MustSchema(params.Int("n", 0, ""))

	tests := []struct {
		name  string
		value float64
		want  int
		ok    bool
	}{
		{"largest float below 2^63", float64(1<<63 - 1024), 1<<63 - 1024, true},
		{"2^63 overflows int", float64(1 << 63), 0, false},
		{"-2^63 fits", -float64(1 << 63), math.MinInt64, true},
		{"below -2^63", -float64(1<<63) * 2, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.New(map[string]any{"n": tt.value})
			if !tt.ok {
				errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Int("n"))
		})
	}
}

func TestMustSchema_Panics(t *testing.T) {
	assert.Panics(t, func() {
		params.MustSchema(params.Int("a", 1, ""), params.Int("a", 2, ""))
	})
}
