// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package catalog lists every built-in plugin module.
package catalog

import (
	"github.com/tempor/tempor/internal/datasources"
	"github.com/tempor/tempor/internal/methods"
	"github.com/tempor/tempor/pkg/plugin"
)

// Modules returns the modules of all built-in methods and data sources.
func Modules() []plugin.Module {
	return append(methods.Modules(), datasources.Modules()...)
}

// NewLoader returns a loader over the built-in modules registering into reg.
func NewLoader(reg *plugin.Registry) (*plugin.Loader, error) {
	return plugin.NewLoader(reg, Modules()...)
}
