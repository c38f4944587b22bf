// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package params

import "slices"

// Option declares one recognized parameter: its name, kind, default value
// and a short description.
type Option struct {
	Name     string
	Kind     Kind
	Default  any
	Doc      string
	Nullable bool
	Choices  []any
}

// Int declares an integer option.
func Int(name string, def int, doc string) Option {
	return Option{Name: name, Kind: KindInt, Default: def, Doc: doc}
}

// Float declares a floating point option.
func Float(name string, def float64, doc string) Option {
	return Option{Name: name, Kind: KindFloat, Default: def, Doc: doc}
}

// Bool declares a boolean option.
func Bool(name string, def bool, doc string) Option {
	return Option{Name: name, Kind: KindBool, Default: def, Doc: doc}
}

// String declares a string option.
func String(name, def, doc string) Option {
	return Option{Name: name, Kind: KindString, Default: def, Doc: doc}
}

// Strings declares a string list option.
func Strings(name string, def []string, doc string) Option {
	return Option{Name: name, Kind: KindStrings, Default: def, Doc: doc}
}

// Floats declares a float list option.
func Floats(name string, def []float64, doc string) Option {
	return Option{Name: name, Kind: KindFloats, Default: def, Doc: doc}
}

// OrNil marks the option as accepting nil and makes nil its default.
func (o Option) OrNil() Option {
	o.Nullable = true
	o.Default = nil
	return o
}

// OneOf restricts the option to the given values.
func (o Option) OneOf(choices ...any) Option {
	o.Choices = slices.Clone(choices)
	return o
}

// normalize validates a raw value against the option and returns its
// canonical form.
func (o Option) normalize(v any) (any, error) {
	if v == nil {
		if o.Nullable {
			return nil, nil
		}
		return nil, ErrTypeMismatch(o.Name, o.Kind, v)
	}
	canonical, ok := o.Kind.coerce(v)
	if !ok {
		return nil, ErrTypeMismatch(o.Name, o.Kind, v)
	}
	if len(o.Choices) > 0 && !o.allows(canonical) {
		return nil, ErrInvalidChoice(o.Name, canonical, o.Choices)
	}
	return canonical, nil
}

func (o Option) allows(v any) bool {
	for _, c := range o.Choices {
		cc, ok := o.Kind.coerce(c)
		if ok && sameValue(cc, v) {
			return true
		}
	}
	return false
}

// sameValue compares canonical values; list kinds compare element-wise.
func sameValue(a, b any) bool {
	switch av := a.(type) {
	case []string:
		bv, ok := b.([]string)
		return ok && slices.Equal(av, bv)
	case []float64:
		bv, ok := b.([]float64)
		return ok && slices.Equal(av, bv)
	default:
		return a == b
	}
}
