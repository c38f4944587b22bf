// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package params

import (
	"math"
	"slices"
)

// Kind is the value type of an option.
type Kind int

// Option kinds.
const (
	KindInt Kind = iota + 1
	KindFloat
	KindBool
	KindString
	KindStrings
	KindFloats
)

var kindNames = map[Kind]string{
	KindInt:     "int",
	KindFloat:   "float",
	KindBool:    "bool",
	KindString:  "string",
	KindStrings: "[]string",
	KindFloats:  "[]float",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// coerce converts v to the canonical Go type of the kind: int, float64, bool,
// string, []string or []float64. Values decoded from JSON or YAML are
// accepted when the conversion is lossless.
func (k Kind) coerce(v any) (any, bool) {
	switch k {
	case KindInt:
		return toInt(v)
	case KindFloat:
		return toFloat(v)
	case KindBool:
		b, ok := v.(bool)
		return b, ok
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindStrings:
		return toStrings(v)
	case KindFloats:
		return toFloats(v)
	default:
		return nil, false
	}
}

func toInt(v any) (any, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		if uint64(n) > math.MaxInt {
			return nil, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return nil, false
		}
		return int(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	default:
		return nil, false
	}
}

func floatToInt(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int cannot hold.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, false
	}
	return int(f), true
}

func toFloat(v any) (any, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case bool, string, nil:
		return nil, false
	}
	i, ok := toInt(v)
	if !ok {
		return nil, false
	}
	return float64(i.(int)), true
}

func toStrings(v any) (any, bool) {
	switch s := v.(type) {
	case []string:
		return slices.Clone(s), true
	case []any:
		out := make([]string, len(s))
		for i, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[i] = str
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloats(v any) (any, bool) {
	switch s := v.(type) {
	case []float64:
		return slices.Clone(s), true
	case []int:
		out := make([]float64, len(s))
		for i, n := range s {
			out[i] = float64(n)
		}
		return out, true
	case []any:
		out := make([]float64, len(s))
		for i, item := range s {
			f, ok := toFloat(item)
			if !ok {
				return nil, false
			}
			out[i] = f.(float64)
		}
		return out, true
	default:
		return nil, false
	}
}

// cloneValue copies slice values so callers cannot mutate stored params.
func cloneValue(v any) any {
	switch s := v.(type) {
	case []string:
		return slices.Clone(s)
	case []float64:
		return slices.Clone(s)
	default:
		return v
	}
}
