// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package params describes plugin configuration: a Schema declares the
// recognized options of a plugin, Schema.New validates supplied values into
// an immutable Params, and hyperparameter descriptors (IntegerParams,
// FloatParams, CategoricalParams) describe the tunable subset for external
// search tools.
package params

import (
	"maps"
	"slices"
	"sync"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is an ordered set of options. It is immutable once built.
type Schema struct {
	options []Option
	index   map[string]int

	compileOnce sync.Once
	compiled    *jschema.Schema
	compileErr  error
}

// NewSchema builds a schema. Option names must be unique and every default
// must fit its option.
func NewSchema(opts ...Option) (*Schema, error) {
	s := &Schema{
		options: make([]Option, 0, len(opts)),
		index:   make(map[string]int, len(opts)),
	}
	for _, opt := range opts {
		if opt.Name == "" {
			return nil, ErrInvalidDescriptor(opt.Name, "option name cannot be empty")
		}
		if _, dup := s.index[opt.Name]; dup {
			return nil, ErrDuplicateOption(opt.Name)
		}
		if len(opt.Choices) > 0 && (opt.Kind == KindStrings || opt.Kind == KindFloats) {
			return nil, ErrInvalidDescriptor(opt.Name, "choices are not supported on list parameters")
		}
		def, err := opt.normalizeDefault()
		if err != nil {
			return nil, err
		}
		opt.Default = def
		opt.Choices = slices.Clone(opt.Choices)
		s.index[opt.Name] = len(s.options)
		s.options = append(s.options, opt)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
// This is intended for package-level plugin declarations only.
func MustSchema(opts ...Option) *Schema {
	s, err := NewSchema(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (o Option) normalizeDefault() (any, error) {
	if o.Default == nil {
		if o.Nullable {
			return nil, nil
		}
		// A nil list default means an empty list.
		switch o.Kind {
		case KindStrings:
			return []string{}, nil
		case KindFloats:
			return []float64{}, nil
		}
	}
	return o.normalize(o.Default)
}

// Options returns a copy of the declared options in declaration order.
func (s *Schema) Options() []Option {
	return slices.Clone(s.options)
}

// Names returns the declared option names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.options))
	for i, opt := range s.options {
		names[i] = opt.Name
	}
	return names
}

// Lookup returns the option with the given name.
func (s *Schema) Lookup(name string) (Option, bool) {
	i, ok := s.index[name]
	if !ok {
		return Option{}, false
	}
	return s.options[i], true
}

// Has reports whether name is a recognized option.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Defaults returns the params built purely from declared defaults.
func (s *Schema) Defaults() *Params {
	p, err := s.New(nil)
	if err != nil {
		// Defaults were validated by NewSchema.
		panic(err)
	}
	return p
}

// New validates values against the schema. Unknown names, type-incompatible
// values and values outside declared choices fail with a configuration
// error; omitted names take their declared default.
func (s *Schema) New(values map[string]any) (*Params, error) {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if !s.Has(name) {
			return nil, ErrUnknownOption(name, s.Names())
		}
	}

	p := &Params{schema: s, values: make([]any, len(s.options))}
	for i, opt := range s.options {
		raw, ok := values[opt.Name]
		if !ok {
			p.values[i] = cloneValue(opt.Default)
			continue
		}
		v, err := opt.normalize(raw)
		if err != nil {
			return nil, err
		}
		p.values[i] = v
	}
	return p, nil
}
