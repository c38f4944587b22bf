// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package tempor is the entry point to the built-in plugins. Default returns
// the process-wide registry, filled with every built-in plugin the first
// time it is called.
package tempor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tempor/tempor/internal/catalog"
	"github.com/tempor/tempor/pkg/datasource"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/plugin"
)

var defaultLoader = onceLoader(New)

// New returns a fresh loader over the built-in modules. Nothing is imported
// yet; call ImportPlugins on it to register a namespace.
func New() (*plugin.Loader, error) {
	return catalog.NewLoader(plugin.NewRegistry())
}

// Load returns a fresh registry holding every built-in plugin.
func Load(ctx context.Context) (*plugin.Registry, error) {
	l, err := New()
	if err != nil {
		return nil, err
	}
	if _, err := l.ImportPlugins(ctx, ""); err != nil {
		return nil, err
	}
	return l.Registry(), nil
}

// Default returns the shared registry. The first caller runs discovery;
// concurrent first callers block until it completes. It panics if a
// built-in module fails to register, which is a programming error.
func Default() *plugin.Registry {
	return DefaultLoader().Registry()
}

// DefaultLoader returns the loader behind Default.
func DefaultLoader() *plugin.Loader {
	return defaultLoader()
}

// onceLoader returns a function that builds and fills a loader on its first
// call. A failed initialization panics on that call and on every later one
// with the same error.
func onceLoader(newLoader func() (*plugin.Loader, error)) func() *plugin.Loader {
	load := sync.OnceValues(func() (*plugin.Loader, error) {
		l, err := newLoader()
		if err != nil {
			return nil, err
		}
		names, err := l.ImportPlugins(context.Background(), "")
		if err != nil {
			return nil, err
		}
		slog.Info("plugin registry initialized", "modules", len(names))
		return l, nil
	})
	return func() *plugin.Loader {
		l, err := load()
		if err != nil {
			panic(err)
		}
		return l
	}
}

// List returns the full names of the default registry's plugins matching f.
func List(f plugin.Filter) ([]string, error) {
	return Default().Names(f)
}

// Method builds a method plugin from the default registry.
func Method(fullName string, values map[string]any) (method.Estimator, error) {
	return plugin.GetAs[method.Estimator](Default(), fullName, plugin.TypeMethod, values)
}

// Predictor builds a predictor plugin from the default registry.
func Predictor(fullName string, values map[string]any) (method.Predictor, error) {
	return plugin.GetAs[method.Predictor](Default(), fullName, plugin.TypeMethod, values)
}

// Transformer builds a transformer plugin from the default registry.
func Transformer(fullName string, values map[string]any) (method.Transformer, error) {
	return plugin.GetAs[method.Transformer](Default(), fullName, plugin.TypeMethod, values)
}

// DataSource builds a data source plugin from the default registry.
func DataSource(fullName string, values map[string]any) (datasource.DataSource, error) {
	return plugin.GetAs[datasource.DataSource](Default(), fullName, plugin.TypeDataSource, values)
}
