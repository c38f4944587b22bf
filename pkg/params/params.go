// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package params

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"reflect"
)

// Params is a validated, immutable plugin configuration.
type Params struct {
	schema *Schema
	values []any
}

// Schema returns the schema the params were validated against.
func (p *Params) Schema() *Schema { return p.schema }

// Lookup returns the value of name and whether it is a recognized option.
func (p *Params) Lookup(name string) (any, bool) {
	i, ok := p.schema.index[name]
	if !ok {
		return nil, false
	}
	return cloneValue(p.values[i]), true
}

// IsNil reports whether a nullable option holds nil.
func (p *Params) IsNil(name string) bool {
	return p.mustGet(name, 0) == nil
}

// Int returns an integer option. It panics if name is not an int option.
func (p *Params) Int(name string) int {
	v, _ := p.mustGet(name, KindInt).(int)
	return v
}

// Float returns a float option. It panics if name is not a float option.
// A nil nullable value reads as zero.
func (p *Params) Float(name string) float64 {
	v, _ := p.mustGet(name, KindFloat).(float64)
	return v
}

// Bool returns a boolean option. It panics if name is not a bool option.
func (p *Params) Bool(name string) bool {
	v, _ := p.mustGet(name, KindBool).(bool)
	return v
}

// String returns a string option. It panics if name is not a string option.
// A nil nullable value reads as "".
func (p *Params) String(name string) string {
	v, _ := p.mustGet(name, KindString).(string)
	return v
}

// Strings returns a copy of a string list option.
func (p *Params) Strings(name string) []string {
	v, _ := cloneValue(p.mustGet(name, KindStrings)).([]string)
	return v
}

// Floats returns a copy of a float list option.
func (p *Params) Floats(name string) []float64 {
	v, _ := cloneValue(p.mustGet(name, KindFloats)).([]float64)
	return v
}

// mustGet reads a value, panicking on unknown names or, when kind is
// non-zero, on a kind mismatch. Both are programming errors in the plugin
// that owns the schema.
func (p *Params) mustGet(name string, kind Kind) any {
	i, ok := p.schema.index[name]
	if !ok {
		panic(fmt.Sprintf("params: unknown option %q", name))
	}
	if kind != 0 && p.schema.options[i].Kind != kind {
		panic(fmt.Sprintf("params: option %q is %s, not %s", name, p.schema.options[i].Kind, kind))
	}
	return p.values[i]
}

// All iterates name/value pairs in declaration order.
func (p *Params) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for i, opt := range p.schema.options {
			if !yield(opt.Name, cloneValue(p.values[i])) {
				return
			}
		}
	}
}

// Map returns the params as a plain mapping.
func (p *Params) Map() map[string]any {
	return maps.Collect(p.All())
}

// With returns new params with the given values overriding the current ones.
func (p *Params) With(values map[string]any) (*Params, error) {
	merged := p.Map()
	maps.Copy(merged, values)
	return p.schema.New(merged)
}

// Equal reports whether both params hold the same names and values.
func (p *Params) Equal(other *Params) bool {
	if p == nil || other == nil {
		return p == other
	}
	return reflect.DeepEqual(p.Map(), other.Map())
}

// MarshalJSON encodes the params as a JSON object.
func (p *Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}
