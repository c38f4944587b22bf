// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package encoding provides the one-hot encoding preprocessing plugins.
package encoding

import (
	"context"
	"encoding/json"
	"maps"
	"math"
	"slices"

	"github.com/tempor/tempor/internal/methods/features"
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/params"
	"github.com/tempor/tempor/pkg/plugin"
)

// Categories.
const (
	TemporalCategory = "preprocessing.encoding.temporal"
	StaticCategory   = "preprocessing.encoding.static"
)

// Plugin names.
const (
	TSOneHotName     = "ts_onehot_encoder"
	StaticOneHotName = "static_onehot_encoder"
)

// Values of the drop option.
const (
	DropFirst    = "first"
	DropIfBinary = "if_binary"
)

// Values of the handle_unknown option.
const (
	UnknownError             = "error"
	UnknownIgnore            = "ignore"
	UnknownInfrequentIfExist = "infrequent_if_exist"
)

// InfrequentSuffix names the column grouping infrequent categories.
const InfrequentSuffix = "infrequent"

// OneHotSchema declares the one-hot encoder options.
var OneHotSchema = params.MustSchema(
	params.Strings("features", nil, "Features to encode. All categorical features when unset.").OrNil(),
	params.String("drop", "", "Category to drop per feature: first, if_binary or unset.").OrNil().OneOf(DropFirst, DropIfBinary),
	params.String("handle_unknown", UnknownError, "How to handle unknown categories during transform.").
		OneOf(UnknownError, UnknownIgnore, UnknownInfrequentIfExist),
	params.Float("min_frequency", 0, "Categories rarer than this are grouped as infrequent. "+
		"Below 1 it is a fraction of the samples, otherwise a count.").OrNil(),
)

// OneHotSpace is the one-hot encoder hyperparameter space.
func OneHotSpace() []params.Descriptor {
	return []params.Descriptor{
		params.CategoricalParams{Name: "drop", Choices: []any{DropFirst, DropIfBinary}},
		params.CategoricalParams{Name: "handle_unknown", Choices: []any{UnknownError, UnknownIgnore, UnknownInfrequentIfExist}},
		params.FloatParams{Name: "min_frequency", Low: 0, High: 0.5},
	}
}

// encodedFeature is what the encoder learned about one feature.
type encodedFeature struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Infrequent []string `json:"infrequent,omitempty"`
	// Dropped is the index in Categories of the dropped category, or -1.
	Dropped int `json:"dropped"`
}

func (f encodedFeature) columns() []string {
	var names []string
	for i, c := range f.Categories {
		if i != f.Dropped {
			names = append(names, f.Name+"_"+c)
		}
	}
	if len(f.Infrequent) > 0 {
		names = append(names, f.Name+"_"+InfrequentSuffix)
	}
	return names
}

// OneHotEncoder replaces categorical features with one indicator column per
// category, named "<feature>_<category>".
type OneHotEncoder struct {
	method.BaseTransformer
	slice         features.Slice
	include       []string
	drop          string
	handleUnknown string
	minFrequency  float64

	encoded []encodedFeature
}

var (
	_ method.Transformer = (*OneHotEncoder)(nil)
	_ method.Stateful    = (*OneHotEncoder)(nil)
)

func newOneHot(category, name string, s features.Slice, p *params.Params) (*OneHotEncoder, error) {
	e := &OneHotEncoder{slice: s, handleUnknown: p.String("handle_unknown")}
	if !p.IsNil("features") {
		e.include = p.Strings("features")
	}
	if !p.IsNil("drop") {
		e.drop = p.String("drop")
	}
	if !p.IsNil("min_frequency") {
		e.minFrequency = p.Float("min_frequency")
		if e.minFrequency < 0 {
			return nil, errutil.Configuration().
				With("option", "min_frequency").
				Errorf("min_frequency must not be negative, got %g", e.minFrequency)
		}
	}
	e.BaseTransformer = method.NewBaseTransformer(plugin.JoinName(category, name), p, e)
	return e, nil
}

// NewTSOneHot builds an encoder over the time series covariates.
func NewTSOneHot(p *params.Params) (*OneHotEncoder, error) {
	return newOneHot(TemporalCategory, TSOneHotName, features.Temporal, p)
}

// NewStaticOneHot builds an encoder over the static covariates.
func NewStaticOneHot(p *params.Params) (*OneHotEncoder, error) {
	return newOneHot(StaticCategory, StaticOneHotName, features.Static, p)
}

// Columns returns the indicator columns produced for each encoded feature.
func (e *OneHotEncoder) Columns() map[string][]string {
	out := make(map[string][]string, len(e.encoded))
	for _, f := range e.encoded {
		out[f.Name] = f.columns()
	}
	return out
}

// FitData implements method.Fitter.
func (e *OneHotEncoder) FitData(_ context.Context, data dataset.Data) error {
	frame, err := e.slice.Frame(data)
	if err != nil {
		return err
	}
	names := e.include
	if names == nil {
		names = frame.CategoricalNames()
	}
	encoded := make([]encodedFeature, 0, len(names))
	for _, name := range names {
		c, ok := frame.Column(name)
		if !ok || !c.IsCategorical() {
			return ErrNotCategorical(string(e.slice), name)
		}
		encoded = append(encoded, e.fitFeature(name, c.Categorical))
	}
	e.encoded = encoded
	return nil
}

func (e *OneHotEncoder) fitFeature(name string, values []string) encodedFeature {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	threshold := e.minFrequency
	if threshold > 0 && threshold < 1 {
		threshold = math.Ceil(threshold * float64(len(values)))
	}
	f := encodedFeature{Name: name, Dropped: -1}
	for _, c := range slices.Sorted(maps.Keys(counts)) {
		if float64(counts[c]) < threshold {
			f.Infrequent = append(f.Infrequent, c)
			continue
		}
		f.Categories = append(f.Categories, c)
	}
	switch e.drop {
	case DropFirst:
		if len(f.Categories) > 0 {
			f.Dropped = 0
		}
	case DropIfBinary:
		if len(f.Categories) == 2 && len(f.Infrequent) == 0 {
			f.Dropped = 0
		}
	}
	return f
}

// TransformData implements method.TransformHooks.
func (e *OneHotEncoder) TransformData(_ context.Context, data dataset.Data) (dataset.Data, error) {
	frame, err := e.slice.Frame(data)
	if err != nil {
		return nil, err
	}
	var (
		drop []string
		add  []dataset.Column
	)
	for _, f := range e.encoded {
		c, ok := frame.Column(f.Name)
		if !ok || !c.IsCategorical() {
			return nil, ErrNotCategorical(string(e.slice), f.Name)
		}
		cols, err := e.encodeFeature(f, c.Categorical)
		if err != nil {
			return nil, err
		}
		drop = append(drop, f.Name)
		add = append(add, cols...)
	}
	out, err := frame.Drop(drop...).Replace(add...)
	if err != nil {
		return nil, err
	}
	return e.slice.With(data, out)
}

func (e *OneHotEncoder) encodeFeature(f encodedFeature, values []string) ([]dataset.Column, error) {
	names := f.columns()
	cols := make([][]float64, len(names))
	for i := range cols {
		cols[i] = make([]float64, len(values))
	}
	// Position of each category's indicator among names.
	pos := make(map[string]int, len(f.Categories))
	next := 0
	for i, c := range f.Categories {
		if i == f.Dropped {
			pos[c] = -1
			continue
		}
		pos[c] = next
		next++
	}
	infrequent := -1
	if len(f.Infrequent) > 0 {
		infrequent = len(names) - 1
	}

	for row, v := range values {
		if p, ok := pos[v]; ok {
			if p >= 0 {
				cols[p][row] = 1
			}
			continue
		}
		if slices.Contains(f.Infrequent, v) {
			cols[infrequent][row] = 1
			continue
		}
		switch e.handleUnknown {
		case UnknownError:
			return nil, ErrUnknownCategory(f.Name, v)
		case UnknownInfrequentIfExist:
			if infrequent >= 0 {
				cols[infrequent][row] = 1
			}
		}
	}

	out := make([]dataset.Column, len(names))
	for i, name := range names {
		out[i] = dataset.NumericColumn(name, cols[i])
	}
	return out, nil
}

// MarshalState implements method.Stateful.
func (e *OneHotEncoder) MarshalState() ([]byte, error) { return json.Marshal(e.encoded) }

// UnmarshalState implements method.Stateful.
func (e *OneHotEncoder) UnmarshalState(data []byte) error {
	var encoded []encodedFeature
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}
	for _, f := range encoded {
		if f.Dropped < -1 || f.Dropped >= len(f.Categories) {
			return errutil.InvalidData().
				With("column", f.Name).
				Errorf("encoder state drops category %d of %d", f.Dropped, len(f.Categories))
		}
	}
	e.encoded = encoded
	return nil
}
