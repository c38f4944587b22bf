// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package dataset

import (
	"slices"
)

// Column is a named vector of either numeric or categorical values.
type Column struct {
	Name        string
	Numeric     []float64
	Categorical []string
}

// NumericColumn builds a numeric column.
func NumericColumn(name string, values []float64) Column {
	return Column{Name: name, Numeric: values}
}

// CategoricalColumn builds a categorical column.
func CategoricalColumn(name string, values []string) Column {
	return Column{Name: name, Categorical: values}
}

// IsCategorical reports whether the column holds categorical values.
func (c Column) IsCategorical() bool { return c.Categorical != nil }

// Len returns the number of values.
func (c Column) Len() int {
	if c.IsCategorical() {
		return len(c.Categorical)
	}
	return len(c.Numeric)
}

// Clone returns a deep copy.
func (c Column) Clone() Column {
	return Column{Name: c.Name, Numeric: slices.Clone(c.Numeric), Categorical: slices.Clone(c.Categorical)}
}

func (c Column) validate() error {
	if c.Name == "" {
		return ErrInvalidColumn(c.Name, "name cannot be empty")
	}
	if c.Numeric != nil && c.Categorical != nil {
		return ErrInvalidColumn(c.Name, "column cannot be both numeric and categorical")
	}
	return nil
}

// Frame is an immutable table of equal-length columns.
type Frame struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewFrame builds a frame. All columns must have the same length and unique names.
func NewFrame(cols ...Column) (*Frame, error) {
	f := &Frame{
		columns: make([]Column, 0, len(cols)),
		index:   make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if err := c.validate(); err != nil {
			return nil, err
		}
		if _, dup := f.index[c.Name]; dup {
			return nil, ErrDuplicateColumn(c.Name)
		}
		if i == 0 {
			f.rows = c.Len()
		} else if c.Len() != f.rows {
			return nil, ErrLengthMismatch(c.Name, f.rows, c.Len())
		}
		f.index[c.Name] = len(f.columns)
		f.columns = append(f.columns, c.Clone())
	}
	return f, nil
}

// Rows returns the number of rows.
func (f *Frame) Rows() int { return f.rows }

// Width returns the number of columns.
func (f *Frame) Width() int { return len(f.columns) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return Column{}, false
	}
	return f.columns[i].Clone(), true
}

// Columns returns copies of all columns in order.
func (f *Frame) Columns() []Column {
	out := make([]Column, len(f.columns))
	for i, c := range f.columns {
		out[i] = c.Clone()
	}
	return out
}

// NumericNames returns the names of the numeric columns.
func (f *Frame) NumericNames() []string {
	var names []string
	for _, c := range f.columns {
		if !c.IsCategorical() {
			names = append(names, c.Name)
		}
	}
	return names
}

// CategoricalNames returns the names of the categorical columns.
func (f *Frame) CategoricalNames() []string {
	var names []string
	for _, c := range f.columns {
		if c.IsCategorical() {
			names = append(names, c.Name)
		}
	}
	return names
}

// Value returns the numeric value at row i of the named column. The bool is
// false for unknown or categorical columns.
func (f *Frame) Value(name string, i int) (float64, bool) {
	idx, ok := f.index[name]
	if !ok || f.columns[idx].IsCategorical() {
		return 0, false
	}
	return f.columns[idx].Numeric[i], true
}

// Replace returns a new frame where columns named in cols replace existing
// ones in place and the rest are appended.
func (f *Frame) Replace(cols ...Column) (*Frame, error) {
	out := f.Columns()
	for _, c := range cols {
		if i, ok := f.index[c.Name]; ok {
			out[i] = c
			continue
		}
		out = append(out, c)
	}
	return NewFrame(out...)
}

// Drop returns a new frame without the named columns.
func (f *Frame) Drop(names ...string) *Frame {
	kept := make([]Column, 0, len(f.columns))
	for _, c := range f.columns {
		if !slices.Contains(names, c.Name) {
			kept = append(kept, c)
		}
	}
	out, _ := NewFrame(kept...) // subset of a valid frame
	if len(kept) == 0 {
		out.rows = f.rows
	}
	return out
}

// Select returns a new frame with the named columns in the given order.
// Unknown names are reported through the bool.
func (f *Frame) Select(names ...string) (*Frame, bool) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		i, ok := f.index[name]
		if !ok {
			return nil, false
		}
		cols = append(cols, f.columns[i])
	}
	out, err := NewFrame(cols...)
	if err != nil {
		return nil, false
	}
	return out, true
}

// Take returns a new frame holding the given rows in order.
func (f *Frame) Take(rows []int) *Frame {
	cols := make([]Column, len(f.columns))
	for i, c := range f.columns {
		nc := Column{Name: c.Name}
		if c.IsCategorical() {
			nc.Categorical = make([]string, len(rows))
			for j, r := range rows {
				nc.Categorical[j] = c.Categorical[r]
			}
		} else {
			nc.Numeric = make([]float64, len(rows))
			for j, r := range rows {
				nc.Numeric[j] = c.Numeric[r]
			}
		}
		cols[i] = nc
	}
	out, _ := NewFrame(cols...) // rows of a valid frame
	out.rows = len(rows)
	return out
}

// Equal reports whether both frames hold the same columns and values.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.rows != other.rows || len(f.columns) != len(other.columns) {
		return false
	}
	for i, c := range f.columns {
		o := other.columns[i]
		if c.Name != o.Name || c.IsCategorical() != o.IsCategorical() {
			return false
		}
		if !slices.Equal(c.Numeric, o.Numeric) || !slices.Equal(c.Categorical, o.Categorical) {
			return false
		}
	}
	return true
}
