// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package plugin

import (
	"reflect"

	"github.com/Masterminds/semver/v3"

	"github.com/tempor/tempor/pkg/params"
)

// Definition describes one plugin implementation: where it registers, the
// parameters it accepts, its hyperparameter space and how to build it.
type Definition struct {
	name        string
	category    string
	typ         Type
	impl        reflect.Type
	schema      *params.Schema
	space       func() []params.Descriptor
	version     string
	description string
	factory     func(*params.Params) (any, error)
}

// DefinitionOption configures a Definition.
type DefinitionOption func(*Definition)

// WithType sets the plugin type. The default is TypeMethod.
func WithType(t Type) DefinitionOption {
	return func(d *Definition) { d.typ = t }
}

// WithSpace sets the hyperparameter space function. It must be pure: the
// space depends only on the plugin, never on instance state.
func WithSpace(space func() []params.Descriptor) DefinitionOption {
	return func(d *Definition) { d.space = space }
}

// WithVersion sets the plugin version. It must be a valid semantic version.
func WithVersion(v string) DefinitionOption {
	return func(d *Definition) { d.version = v }
}

// WithDescription sets a one-line plugin description.
func WithDescription(desc string) DefinitionOption {
	return func(d *Definition) { d.description = desc }
}

// Define declares a plugin whose factory builds a T. T is the implementation
// type checked against the category capability at registration.
func Define[T any](name, category string, schema *params.Schema, factory func(*params.Params) (T, error), opts ...DefinitionOption) *Definition {
	if schema == nil {
		schema = params.MustSchema()
	}
	d := &Definition{
		name:     name,
		category: category,
		typ:      TypeMethod,
		impl:     reflect.TypeFor[T](),
		schema:   schema,
		version:  "1.0.0",
	}
	if factory != nil {
		d.factory = func(p *params.Params) (any, error) { return factory(p) }
	}
	for _, opt := range opts {
		opt(d)
	}
	d.typ = d.typ.orDefault()
	return d
}

// Name returns the plugin name within its category.
func (d *Definition) Name() string { return d.name }

// Category returns the category the plugin registers under.
func (d *Definition) Category() string { return d.category }

// FullName returns "<category>.<name>".
func (d *Definition) FullName() string { return JoinName(d.category, d.name) }

// Type returns the plugin type.
func (d *Definition) Type() Type { return d.typ }

// Implementation returns the implementation type.
func (d *Definition) Implementation() reflect.Type { return d.impl }

// Schema returns the parameter schema.
func (d *Definition) Schema() *params.Schema { return d.schema }

// Version returns the plugin version.
func (d *Definition) Version() *semver.Version {
	v, err := semver.NewVersion(d.version)
	if err != nil {
		return nil
	}
	return v
}

// Description returns the plugin description.
func (d *Definition) Description() string { return d.description }

// HyperparameterSpace returns the tunable subset of the plugin's params.
// It never depends on instance state.
func (d *Definition) HyperparameterSpace() []params.Descriptor {
	if d.space == nil {
		return nil
	}
	return params.Clone(d.space())
}

// New validates values against the schema and builds an instance.
func (d *Definition) New(values map[string]any) (any, error) {
	p, err := d.schema.New(values)
	if err != nil {
		return nil, err
	}
	return d.factory(p)
}

// key returns the registry key of the definition.
func (d *Definition) key() Key {
	return Key{Type: d.typ, Category: d.category, Name: d.name}
}

func (d *Definition) validate() error {
	if !validPath(d.category) {
		return ErrInvalidName("category", d.category)
	}
	if !validSegment(d.name) {
		return ErrInvalidName("plugin", d.name)
	}
	if !validSegment(string(d.typ)) {
		return ErrInvalidName("plugin type", string(d.typ))
	}
	if d.factory == nil {
		return ErrInvalidDefinition(d.FullName(), "factory cannot be nil")
	}
	if _, err := semver.StrictNewVersion(d.version); err != nil {
		return ErrInvalidDefinition(d.FullName(), "invalid version "+d.version+": "+err.Error())
	}
	return params.ValidateSpace(d.schema, d.HyperparameterSpace())
}

// Key identifies a registered plugin.
type Key struct {
	Type     Type
	Category string
	Name     string
}

// FullName returns "<category>.<name>".
func (k Key) FullName() string { return JoinName(k.Category, k.Name) }

func (k Key) String() string { return string(k.Type) + ":" + k.FullName() }
