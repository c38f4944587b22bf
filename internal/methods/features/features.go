// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package features flattens datasets into model inputs and wraps model
// outputs back into samples.
package features

import (
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
)

// Layout records which columns produced a feature matrix so inference can
// check it sees the same inputs as training.
type Layout struct {
	Temporal []string `json:"temporal"`
	Static   []string `json:"static"`
	Window   int      `json:"window"`
}

// Width returns the number of features per sample.
func (l Layout) Width() int { return len(l.Temporal)*l.Window + len(l.Static) }

// Equal reports whether both layouts describe the same features.
func (l Layout) Equal(o Layout) bool {
	return l.Window == o.Window && slices.Equal(l.Temporal, o.Temporal) && slices.Equal(l.Static, o.Static)
}

// LayoutOf derives the layout of data for a window length.
func LayoutOf(data dataset.Data, window int) (Layout, error) {
	ts := data.TimeSeries()
	if ts == nil {
		return Layout{}, errutil.InvalidData().
			With("slice", dataset.SliceTimeSeries).
			Errorf("dataset has no time series")
	}
	if cats := ts.Frame().CategoricalNames(); len(cats) > 0 {
		return Layout{}, errutil.InvalidData().
			With("slice", dataset.SliceTimeSeries).
			With("columns", cats).
			Errorf("categorical time series features %v must be encoded first", cats)
	}
	l := Layout{Temporal: ts.Frame().NumericNames(), Window: max(window, 1)}
	if s := data.Static(); s != nil {
		if cats := s.Frame().CategoricalNames(); len(cats) > 0 {
			return Layout{}, errutil.InvalidData().
				With("slice", dataset.SliceStatic).
				With("columns", cats).
				Errorf("categorical static features %v must be encoded first", cats)
		}
		l.Static = s.Frame().NumericNames()
	}
	if l.Width() == 0 {
		return Layout{}, errutil.InvalidData().Errorf("dataset has no numeric features")
	}
	return l, nil
}

// Matrix builds one row per sample: the temporal features of the last
// Window observations (earliest observation repeated when a series is
// shorter), followed by the static features.
func Matrix(data dataset.Data, l Layout) (*mat.Dense, error) {
	ts := data.TimeSeries()
	if ts == nil {
		return nil, errutil.InvalidData().
			With("slice", dataset.SliceTimeSeries).
			Errorf("dataset has no time series")
	}
	ids := ts.SampleIDs()
	x := mat.NewDense(len(ids), l.Width(), nil)
	frame := ts.Frame()

	var static *dataset.Frame
	if len(l.Static) > 0 {
		if data.Static() == nil {
			return nil, errutil.InvalidData().
				With("slice", dataset.SliceStatic).
				Errorf("model was trained with static features but the dataset has none")
		}
		static = data.Static().Frame()
	}

	for r, id := range ids {
		rows := ts.Rows(id)
		if len(rows) == 0 {
			continue
		}
		col := 0
		for step := range l.Window {
			pos := len(rows) - l.Window + step
			row := rows[max(pos, 0)]
			for _, name := range l.Temporal {
				v, ok := frame.Value(name, row)
				if !ok {
					return nil, missingColumn(dataset.SliceTimeSeries, name)
				}
				x.Set(r, col, v)
				col++
			}
		}
		for _, name := range l.Static {
			v, ok := static.Value(name, r)
			if !ok {
				return nil, missingColumn(dataset.SliceStatic, name)
			}
			x.Set(r, col, v)
			col++
		}
	}
	return x, nil
}

func missingColumn(slice, name string) error {
	return errutil.InvalidData().
		With("slice", slice).
		With("column", name).
		Errorf("%s feature %q is missing", slice, name)
}

// Column returns the first numeric column of a static slice, or the named
// one when name is set.
func Column(s *dataset.StaticSamples, slice, name string) ([]float64, error) {
	if s == nil {
		return nil, errutil.InvalidData().
			With("slice", slice).
			Errorf("dataset has no %s", slice)
	}
	names := s.Frame().NumericNames()
	if name == "" {
		if len(names) == 0 {
			return nil, errutil.InvalidData().
				With("slice", slice).
				Errorf("%s have no numeric column", slice)
		}
		name = names[0]
	}
	c, ok := s.Frame().Column(name)
	if !ok || c.IsCategorical() {
		return nil, missingColumn(slice, name)
	}
	return c.Numeric, nil
}

// Samples wraps per-sample model outputs. cols[i] holds the values of
// column names[i].
func Samples(ids, names []string, cols [][]float64) (*dataset.StaticSamples, error) {
	if len(names) != len(cols) {
		return nil, errutil.InvalidData().
			With("names", len(names)).
			With("columns", len(cols)).
			Errorf("%d names for %d columns", len(names), len(cols))
	}
	fc := make([]dataset.Column, len(names))
	for i, name := range names {
		fc[i] = dataset.NumericColumn(name, cols[i])
	}
	f, err := dataset.NewFrame(fc...)
	if err != nil {
		return nil, err
	}
	return dataset.NewStatic(ids, f)
}

// MatrixColumns splits a matrix into its columns.
func MatrixColumns(m mat.Matrix) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, cols)
	for c := range cols {
		out[c] = make([]float64, rows)
		mat.Col(out[c], c, m)
	}
	return out
}
