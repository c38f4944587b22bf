// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package plugin

import (
	"fmt"
	"reflect"
)

// Type partitions the registry. Categories and plugin names are independent
// across types.
type Type string

// Plugin types.
const (
	TypeMethod     Type = "method"
	TypeDataSource Type = "datasource"
)

func (t Type) orDefault() Type {
	if t == "" {
		return TypeMethod
	}
	return t
}

// Capability is the interface every plugin of a category must implement.
type Capability struct {
	iface reflect.Type
}

// CapabilityOf returns the capability described by interface type T.
// It panics if T is not an interface.
func CapabilityOf[T any]() Capability {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Interface {
		panic(fmt.Sprintf("plugin: capability %s is not an interface", t))
	}
	return Capability{iface: t}
}

// Interface returns the interface type.
func (c Capability) Interface() reflect.Type { return c.iface }

// IsZero reports whether the capability is unset.
func (c Capability) IsZero() bool { return c.iface == nil }

// Implies reports whether anything satisfying c also satisfies other.
func (c Capability) Implies(other Capability) bool {
	if other.IsZero() {
		return true
	}
	if c.IsZero() {
		return false
	}
	return c.iface.Implements(other.iface)
}

// SatisfiedBy reports whether t provides every method of the capability.
func (c Capability) SatisfiedBy(t reflect.Type) bool {
	return c.IsZero() || (t != nil && t.Implements(c.iface))
}

// Methods lists the operations the capability requires.
func (c Capability) Methods() []string {
	if c.IsZero() {
		return nil
	}
	out := make([]string, c.iface.NumMethod())
	for i := range out {
		out[i] = c.iface.Method(i).Name
	}
	return out
}

func (c Capability) String() string {
	if c.IsZero() {
		return "<none>"
	}
	return c.iface.String()
}
