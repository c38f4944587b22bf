// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package plugin implements the plugin registry: hierarchical categories
// bound to capability interfaces, registration of plugin definitions under
// those categories, string-keyed instantiation, and explicit module
// discovery (see Loader).
//
// Categories are dotted paths stored as a trie per plugin type. A category
// must be declared before plugins register under it or under any path below
// it, and every plugin is checked against the capability of its nearest
// declared category when it registers, not when it is looked up.
package plugin

import (
	"iter"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/tempor/tempor/pkg/errutil"
)

type node struct {
	children   map[string]*node
	declared   bool
	capability Capability
	plugins    map[string]*Definition
}

func newNode() *node {
	return &node{children: make(map[string]*node), plugins: make(map[string]*Definition)}
}

// walk calls fn for n and every node below it, depth-first in name order.
func (n *node) walk(path string, fn func(path string, n *node)) {
	fn(path, n)
	for _, name := range slices.Sorted(maps.Keys(n.children)) {
		child := path + "." + name
		if path == "" {
			child = name
		}
		n.children[name].walk(child, fn)
	}
}

// Registry maps (plugin type, category, name) to plugin definitions.
// It is safe for concurrent use by multiple goroutines; registration takes
// an exclusive lock so lookups never observe a partial registration.
type Registry struct {
	mu    sync.RWMutex
	roots map[Type]*node
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{roots: make(map[Type]*node)}
}

// find returns the node for category, or nil. Callers hold r.mu.
func (r *Registry) find(typ Type, category string) *node {
	n := r.roots[typ]
	if n == nil {
		return nil
	}
	for seg := range strings.SplitSeq(category, ".") {
		n = n.children[seg]
		if n == nil {
			return nil
		}
	}
	return n
}

// nearestDeclared returns the deepest declared node on the category path,
// including the category itself when includeSelf is set. Callers hold r.mu.
func (r *Registry) nearestDeclared(typ Type, category string, includeSelf bool) (string, *node) {
	n := r.roots[typ]
	if n == nil {
		return "", nil
	}
	segs := strings.Split(category, ".")
	var (
		foundPath string
		found     *node
	)
	for i, seg := range segs {
		n = n.children[seg]
		if n == nil {
			break
		}
		if i == len(segs)-1 && !includeSelf {
			break
		}
		if n.declared {
			foundPath, found = strings.Join(segs[:i+1], "."), n
		}
	}
	return foundPath, found
}

// RegisterCategory declares category for the plugin type with the capability
// its plugins must implement. Declaring an existing category again with the
// same capability is a no-op; a different capability fails. A category
// below a declared one must have a capability implying the ancestor's.
func (r *Registry) RegisterCategory(category string, capability Capability, typ Type) error {
	typ = typ.orDefault()
	if !validPath(category) {
		return ErrInvalidName("category", category)
	}
	if !validSegment(string(typ)) {
		return ErrInvalidName("plugin type", string(typ))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.find(typ, category); existing != nil && existing.declared {
		if existing.capability != capability {
			return ErrCapabilityConflict(typ, category, existing.capability, capability)
		}
		return nil
	}

	if ancestorPath, ancestor := r.nearestDeclared(typ, category, false); ancestor != nil {
		if !capability.Implies(ancestor.capability) {
			return ErrCapabilityNotImplied(typ, category, capability, ancestorPath, ancestor.capability)
		}
	}
	if n := r.find(typ, category); n != nil {
		var err error
		n.walk(category, func(path string, d *node) {
			if err != nil {
				return
			}
			if path != category && d.declared && !d.capability.Implies(capability) {
				err = ErrCapabilityNotImplied(typ, path, d.capability, category, capability)
			}
			for _, def := range d.plugins {
				if err == nil && !capability.SatisfiedBy(def.impl) {
					err = ErrCapabilityMismatch(def.FullName(), def.impl.String(), capability)
				}
			}
		})
		if err != nil {
			return err
		}
	}

	n := r.roots[typ]
	if n == nil {
		n = newNode()
		r.roots[typ] = n
	}
	for seg := range strings.SplitSeq(category, ".") {
		child := n.children[seg]
		if child == nil {
			child = newNode()
			n.children[seg] = child
		}
		n = child
	}
	n.declared = true
	n.capability = capability
	return nil
}

// MustRegisterCategory is like RegisterCategory but panics on error.
// This is intended for package initialization only.
func (r *Registry) MustRegisterCategory(category string, capability Capability, typ Type) {
	if err := r.RegisterCategory(category, capability, typ); err != nil {
		panic(err)
	}
}

// Register adds a plugin definition and returns it unchanged. It fails with
// a configuration error when the definition is malformed, its category (or
// an ancestor) is not declared, its implementation lacks the category
// capability, its hyperparameter space does not fit its schema, or the
// (category, name) pair is already taken.
func (r *Registry) Register(def *Definition) (*Definition, error) {
	if def == nil {
		return nil, ErrInvalidDefinition("<nil>", "definition cannot be nil")
	}
	if err := def.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, declared := r.nearestDeclared(def.typ, def.category, true)
	if declared == nil {
		return nil, ErrCategoryNotDeclared(def.typ, def.category)
	}
	if !declared.capability.SatisfiedBy(def.impl) {
		return nil, ErrCapabilityMismatch(def.FullName(), def.impl.String(), declared.capability)
	}

	n := r.roots[def.typ]
	for seg := range strings.SplitSeq(def.category, ".") {
		child := n.children[seg]
		if child == nil {
			child = newNode()
			n.children[seg] = child
		}
		n = child
	}
	if _, dup := n.plugins[def.name]; dup {
		return nil, ErrDuplicatePlugin(def.typ, def.category, def.name)
	}
	n.plugins[def.name] = def
	return def, nil
}

// MustRegister is like Register but panics on error.
// This is intended for package initialization only.
func (r *Registry) MustRegister(def *Definition) *Definition {
	d, err := r.Register(def)
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup returns the definition registered under fullName.
func (r *Registry) Lookup(fullName string, typ Type) (*Definition, error) {
	typ = typ.orDefault()
	category, name, ok := SplitName(fullName)
	if !ok {
		return nil, ErrPluginNotFound(typ, fullName)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := r.find(typ, category)
	if n == nil {
		return nil, ErrCategoryNotFound(typ, category)
	}
	def, ok := n.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound(typ, fullName)
	}
	return def, nil
}

// Get builds an instance of the plugin registered under fullName, a path of
// the form "<category>.<name>". values are validated against the plugin's
// schema; omitted options take their defaults.
func (r *Registry) Get(fullName string, typ Type, values map[string]any) (any, error) {
	def, err := r.Lookup(fullName, typ)
	if err != nil {
		return nil, err
	}
	return def.New(values)
}

// GetAs is like Registry.Get but also asserts the instance type.
func GetAs[T any](r *Registry, fullName string, typ Type, values map[string]any) (T, error) {
	var zero T
	inst, err := r.Get(fullName, typ, values)
	if err != nil {
		return zero, err
	}
	t, ok := inst.(T)
	if !ok {
		return zero, errutil.Configuration().
			With("plugin", fullName).
			Errorf("plugin %s is %T, not the requested type", fullName, inst)
	}
	return t, nil
}

// Categories returns the declared categories of a plugin type in order.
func (r *Registry) Categories(typ Type) []string {
	typ = typ.orDefault()

	r.mu.RLock()
	defer r.mu.RUnlock()

	root := r.roots[typ]
	if root == nil {
		return nil
	}
	var out []string
	root.walk("", func(path string, n *node) {
		if n.declared {
			out = append(out, path)
		}
	})
	return out
}

// Capability returns the capability plugins under category must implement.
func (r *Registry) Capability(category string, typ Type) (Capability, error) {
	typ = typ.orDefault()

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, n := r.nearestDeclared(typ, category, true)
	if n == nil {
		return Capability{}, ErrCategoryNotFound(typ, category)
	}
	return n.capability, nil
}

// Types returns the plugin types that have at least one category.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.roots))
}

// Filter narrows List. A zero Filter matches every plugin of every type.
type Filter struct {
	// Type restricts to one plugin type.
	Type Type
	// Category restricts to plugins at or below a category.
	Category string
	// Pattern is a glob over full plugin names; '*' does not cross dots and
	// '**' does.
	Pattern string
}

// List returns the keys matching f. The sequence is lazy and restartable:
// each range re-reads the registry, so it reflects registrations made
// between iterations. An unknown category fails immediately with a lookup
// error.
func (r *Registry) List(f Filter) (iter.Seq[Key], error) {
	var matcher glob.Glob
	if f.Pattern != "" {
		g, err := glob.Compile(f.Pattern, '.')
		if err != nil {
			return nil, errutil.Configuration().
				With("pattern", f.Pattern).
				Wrapf(err, "invalid plugin name pattern")
		}
		matcher = g
	}
	if f.Category != "" {
		if err := r.checkCategory(f); err != nil {
			return nil, err
		}
	}

	return func(yield func(Key) bool) {
		for _, k := range r.snapshot(f) {
			if matcher != nil && !matcher.Match(k.FullName()) {
				continue
			}
			if !yield(k) {
				return
			}
		}
	}, nil
}

// Names collects the full names matching f.
func (r *Registry) Names(f Filter) ([]string, error) {
	seq, err := r.List(f)
	if err != nil {
		return nil, err
	}
	var out []string
	for k := range seq {
		out = append(out, k.FullName())
	}
	return out, nil
}

func (r *Registry) checkCategory(f Filter) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, typ := range r.filterTypes(f) {
		if r.find(typ, f.Category) != nil {
			return nil
		}
	}
	typ := f.Type
	if typ == "" {
		return errutil.NotFound().
			With("category", f.Category).
			Errorf("category %q not found for any plugin type", f.Category)
	}
	return ErrCategoryNotFound(typ, f.Category)
}

// filterTypes returns the types f covers. Callers hold r.mu.
func (r *Registry) filterTypes(f Filter) []Type {
	if f.Type != "" {
		return []Type{f.Type}
	}
	return slices.Sorted(maps.Keys(r.roots))
}

// snapshot copies the matching keys under the read lock so iteration never
// holds the lock while the caller's loop body runs.
func (r *Registry) snapshot(f Filter) []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Key
	for _, typ := range r.filterTypes(f) {
		start := r.roots[typ]
		if f.Category != "" {
			start = r.find(typ, f.Category)
		}
		if start == nil {
			continue
		}
		start.walk(f.Category, func(path string, n *node) {
			for _, name := range slices.Sorted(maps.Keys(n.plugins)) {
				out = append(out, n.plugins[name].key())
			}
		})
	}
	return out
}
