// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package methods assembles the built-in method plugins into registration
// modules. Category modules sit above the plugin modules in the discovery
// namespace, so importing any plugin first declares its category.
package methods

import (
	"github.com/tempor/tempor/internal/methods/encoding"
	"github.com/tempor/tempor/internal/methods/prediction"
	"github.com/tempor/tempor/internal/methods/scaling"
	"github.com/tempor/tempor/internal/methods/treatments"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/plugin"
)

// Namespace is the discovery namespace of the method modules.
const Namespace = "methods"

// Top-level method categories.
const (
	CategoryPrediction    = "prediction"
	CategoryTreatments    = "treatments"
	CategoryPreprocessing = "preprocessing"
)

var categories = []struct {
	name       string
	capability plugin.Capability
}{
	{CategoryPrediction, plugin.CapabilityOf[method.Predictor]()},
	{CategoryTreatments, plugin.CapabilityOf[method.Predictor]()},
	{CategoryPreprocessing, plugin.CapabilityOf[method.Transformer]()},
}

// Modules returns the category and plugin modules of every built-in method.
func Modules() []plugin.Module {
	mods := make([]plugin.Module, 0, len(categories))
	for _, c := range categories {
		mods = append(mods, plugin.Module{
			Name: Namespace + "." + c.name,
			Register: func(r *plugin.Registry) error {
				return r.RegisterCategory(c.name, c.capability, plugin.TypeMethod)
			},
		})
	}
	mods = append(mods, prediction.Modules()...)
	mods = append(mods, treatments.Modules()...)
	mods = append(mods, scaling.Modules()...)
	mods = append(mods, encoding.Modules()...)
	return mods
}
