// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package scaling provides the feature scaling preprocessing plugins.
//
// Every scaler learns an affine map per numeric column at fit time and
// applies it on transform; categorical columns pass through untouched.
package scaling

import (
	"encoding/json"
	"slices"

	"github.com/tempor/tempor/internal/methods/features"
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
)

// Categories.
const (
	TemporalCategory = "preprocessing.scaling.temporal"
	StaticCategory   = "preprocessing.scaling.static"
)

// affine maps v to v*Scale + Offset.
type affine struct {
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset"`
}

// columnMaps is the learned state shared by the scalers.
type columnMaps struct {
	Columns []string          `json:"columns"`
	Maps    map[string]affine `json:"maps"`
}

// fitColumns learns one map per numeric column of the slice.
func fitColumns(s features.Slice, data dataset.Data, fit func(values []float64) affine) (columnMaps, error) {
	frame, err := s.Frame(data)
	if err != nil {
		return columnMaps{}, err
	}
	m := columnMaps{Columns: frame.NumericNames(), Maps: make(map[string]affine)}
	for _, name := range m.Columns {
		c, _ := frame.Column(name)
		m.Maps[name] = fit(c.Numeric)
	}
	return m, nil
}

// apply rewrites the slice covariates. bound, when set, post-processes every
// scaled value.
func (m columnMaps) apply(s features.Slice, data dataset.Data, bound func(float64) float64) (dataset.Data, error) {
	frame, err := s.Frame(data)
	if err != nil {
		return nil, err
	}
	cols := make([]dataset.Column, 0, len(m.Columns))
	for _, name := range m.Columns {
		c, ok := frame.Column(name)
		if !ok || c.IsCategorical() {
			return nil, errutil.InvalidData().
				With("slice", string(s)).
				With("column", name).
				Errorf("column %q seen during fit is missing", name)
		}
		a := m.Maps[name]
		out := make([]float64, len(c.Numeric))
		for i, v := range c.Numeric {
			out[i] = v*a.Scale + a.Offset
			if bound != nil {
				out[i] = bound(out[i])
			}
		}
		cols = append(cols, dataset.NumericColumn(name, out))
	}
	scaled, err := frame.Replace(cols...)
	if err != nil {
		return nil, err
	}
	return s.With(data, scaled)
}

func (m columnMaps) marshal() ([]byte, error) { return json.Marshal(m) }

func unmarshalColumnMaps(data []byte) (columnMaps, error) {
	var m columnMaps
	if err := json.Unmarshal(data, &m); err != nil {
		return columnMaps{}, err
	}
	for _, name := range m.Columns {
		if _, ok := m.Maps[name]; !ok {
			return columnMaps{}, errutil.InvalidData().
				With("column", name).
				Errorf("scaler state has no map for column %q", name)
		}
	}
	if len(m.Maps) != len(m.Columns) || len(slices.Compact(slices.Sorted(slices.Values(m.Columns)))) != len(m.Columns) {
		return columnMaps{}, errutil.InvalidData().Errorf("scaler state columns do not match its maps")
	}
	return m, nil
}
