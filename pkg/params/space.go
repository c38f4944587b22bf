// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package params

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"slices"
)

// Descriptor is one entry of a hyperparameter space.
type Descriptor interface {
	// ParamName is the option the descriptor tunes.
	ParamName() string
	// Validate checks bounds or choices.
	Validate() error
	// Sample draws one value from the described range.
	Sample(r *rand.Rand) any
}

// IntegerParams is an integer range with inclusive bounds.
type IntegerParams struct {
	Name string
	Low  int
	High int
}

// ParamName implements Descriptor.
func (d IntegerParams) ParamName() string { return d.Name }

// Validate implements Descriptor.
func (d IntegerParams) Validate() error {
	if d.Name == "" {
		return ErrInvalidDescriptor(d.Name, "name cannot be empty")
	}
	if d.Low > d.High {
		return ErrInvalidDescriptor(d.Name, "low must not exceed high")
	}
	return nil
}

// Sample implements Descriptor. The span is computed in uint64 so ranges
// wider than math.MaxInt do not overflow.
func (d IntegerParams) Sample(r *rand.Rand) any {
	span := uint64(d.High - d.Low)
	if span == math.MaxUint64 {
		return d.Low + int(r.Uint64())
	}
	return d.Low + int(r.Uint64N(span+1))
}

// MarshalJSON implements json.Marshaler.
func (d IntegerParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"type": "integer", "name": d.Name, "low": d.Low, "high": d.High})
}

// FloatParams is a continuous range.
type FloatParams struct {
	Name string
	Low  float64
	High float64
}

// ParamName implements Descriptor.
func (d FloatParams) ParamName() string { return d.Name }

// Validate implements Descriptor.
func (d FloatParams) Validate() error {
	if d.Name == "" {
		return ErrInvalidDescriptor(d.Name, "name cannot be empty")
	}
	if math.IsNaN(d.Low) || math.IsNaN(d.High) {
		return ErrInvalidDescriptor(d.Name, "bounds cannot be NaN")
	}
	if d.Low > d.High {
		return ErrInvalidDescriptor(d.Name, "low must not exceed high")
	}
	return nil
}

// Sample implements Descriptor.
func (d FloatParams) Sample(r *rand.Rand) any {
	return d.Low + r.Float64()*(d.High-d.Low)
}

// MarshalJSON implements json.Marshaler.
func (d FloatParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"type": "float", "name": d.Name, "low": d.Low, "high": d.High})
}

// CategoricalParams is an ordered set of discrete values. Values may be of
// different types.
type CategoricalParams struct {
	Name    string
	Choices []any
}

// ParamName implements Descriptor.
func (d CategoricalParams) ParamName() string { return d.Name }

// Validate implements Descriptor.
func (d CategoricalParams) Validate() error {
	if d.Name == "" {
		return ErrInvalidDescriptor(d.Name, "name cannot be empty")
	}
	if len(d.Choices) == 0 {
		return ErrInvalidDescriptor(d.Name, "choices cannot be empty")
	}
	return nil
}

// Sample implements Descriptor.
func (d CategoricalParams) Sample(r *rand.Rand) any {
	return d.Choices[r.IntN(len(d.Choices))]
}

// MarshalJSON implements json.Marshaler.
func (d CategoricalParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"type": "categorical", "name": d.Name, "choices": d.Choices})
}

// ValidateSpace checks a hyperparameter space against the schema it tunes:
// every descriptor must be valid, name a declared option exactly once, and
// describe values that option accepts.
func ValidateSpace(s *Schema, space []Descriptor) error {
	seen := make(map[string]bool, len(space))
	for _, d := range space {
		if err := d.Validate(); err != nil {
			return err
		}
		name := d.ParamName()
		if seen[name] {
			return ErrInvalidDescriptor(name, "described more than once")
		}
		seen[name] = true

		opt, ok := s.Lookup(name)
		if !ok {
			return ErrInvalidDescriptor(name, "not a recognized parameter")
		}
		if err := checkCompatible(opt, d); err != nil {
			return err
		}
	}
	return nil
}

func checkCompatible(opt Option, d Descriptor) error {
	switch d := d.(type) {
	case IntegerParams:
		if opt.Kind != KindInt && opt.Kind != KindFloat {
			return ErrInvalidDescriptor(d.Name, "integer range on a "+opt.Kind.String()+" parameter")
		}
		return checkValues(opt, d.Low, d.High)
	case FloatParams:
		if opt.Kind != KindFloat {
			return ErrInvalidDescriptor(d.Name, "float range on a "+opt.Kind.String()+" parameter")
		}
		return checkValues(opt, d.Low, d.High)
	case CategoricalParams:
		return checkValues(opt, d.Choices...)
	default:
		return checkValues(opt)
	}
}

func checkValues(opt Option, values ...any) error {
	for _, v := range values {
		if _, err := opt.normalize(v); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the option names a space tunes, in order.
func Names(space []Descriptor) []string {
	names := make([]string, len(space))
	for i, d := range space {
		names[i] = d.ParamName()
	}
	return names
}

// Sample draws one configuration from the space. The core performs no search
// itself; this is a building block for random-search tooling.
func Sample(space []Descriptor, r *rand.Rand) map[string]any {
	out := make(map[string]any, len(space))
	for _, d := range space {
		out[d.ParamName()] = d.Sample(r)
	}
	return out
}

// Clone copies a space so callers may modify it freely.
func Clone(space []Descriptor) []Descriptor {
	return slices.Clone(space)
}
