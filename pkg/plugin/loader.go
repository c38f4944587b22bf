// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package plugin

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/samber/oops"

	"github.com/tempor/tempor/pkg/errutil"
)

// Module is one unit of plugin registration. Name is a dotted path that
// places the module in the discovery namespace, for example
// "methods.prediction.one_off.classification.nn_classifier". Register
// declares categories and registers plugins.
type Module struct {
	Name     string
	Register func(r *Registry) error
}

// Loader discovers plugins by running module registration callbacks. The
// module list is explicit and fixed at construction; no reflection or
// filesystem scanning is involved. Each module runs at most once, so
// importing the same namespace again is a no-op.
type Loader struct {
	registry *Registry
	modules  map[string]Module

	mu       sync.Mutex
	imported map[string]bool
}

// NewLoader creates a loader over the given modules.
func NewLoader(reg *Registry, modules ...Module) (*Loader, error) {
	l := &Loader{
		registry: reg,
		modules:  make(map[string]Module, len(modules)),
		imported: make(map[string]bool),
	}
	for _, m := range modules {
		if !validPath(m.Name) {
			return nil, ErrInvalidName("module", m.Name)
		}
		if m.Register == nil {
			return nil, errutil.Configuration().
				With("module", m.Name).
				Errorf("plugin module %q has no register function", m.Name)
		}
		if _, dup := l.modules[m.Name]; dup {
			return nil, ErrDuplicateModule(m.Name)
		}
		l.modules[m.Name] = m
	}
	return l, nil
}

// Registry returns the registry modules register into.
func (l *Loader) Registry() *Registry { return l.registry }

// GatherModuleNames returns the names of the modules at or below anchor, in
// import order. An empty anchor gathers every module.
func (l *Loader) GatherModuleNames(anchor string) ([]string, error) {
	if anchor != "" && !validPath(anchor) {
		return nil, ErrInvalidName("module", anchor)
	}
	var out []string
	for _, name := range slices.Sorted(maps.Keys(l.modules)) {
		if anchor == "" || isUnder(name, anchor) {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil, ErrModuleNotFound(anchor)
	}
	return out, nil
}

// ImportPlugins runs the modules at or below anchor, preceded by the modules
// on the path above it (which declare the categories the anchor's plugins
// need). Modules sort by name, so a module always runs before those nested
// under it. Modules that already ran are skipped, making repeated imports
// no-ops. It returns the names of the modules under anchor.
//
// A module whose callback fails is not marked imported; the error carries
// the module name.
func (l *Loader) ImportPlugins(ctx context.Context, anchor string) ([]string, error) {
	names, err := l.GatherModuleNames(anchor)
	if err != nil {
		return nil, err
	}
	order := append(l.ancestors(anchor), names...)

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, name := range order {
		if l.imported[name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.modules[name].Register(l.registry); err != nil {
			return nil, oops.With("module", name).Wrapf(err, "import plugin module %s", name)
		}
		l.imported[name] = true
		slog.DebugContext(ctx, "imported plugin module", "module", name)
	}
	return names, nil
}

// Imported returns the names of the modules that ran, sorted.
func (l *Loader) Imported() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Sorted(maps.Keys(l.imported))
}

// ancestors returns the modules whose name is a proper prefix path of anchor.
func (l *Loader) ancestors(anchor string) []string {
	var out []string
	for _, name := range slices.Sorted(maps.Keys(l.modules)) {
		if name != anchor && isUnder(anchor, name) {
			out = append(out, name)
		}
	}
	return out
}
