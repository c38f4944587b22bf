// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package datasources

import (
	"github.com/tempor/tempor/pkg/datasource"
	"github.com/tempor/tempor/pkg/plugin"
)

// Namespace is the discovery namespace of the data source modules.
const Namespace = "datasources"

// Definitions returns the built-in data source definitions.
func Definitions() []*plugin.Definition {
	return []*plugin.Definition{
		plugin.Define(SineName, PredictionCategory, SineSchema, NewSine,
			plugin.WithType(plugin.TypeDataSource),
			plugin.WithDescription("Synthetic sine series with a binary one-off target.")),
		plugin.Define(SineRegressionName, PredictionCategory, SineSchema, NewSineRegression,
			plugin.WithType(plugin.TypeDataSource),
			plugin.WithDescription("Synthetic sine series with a continuous one-off target.")),
		plugin.Define(DummyTreatmentsName, TreatmentsCategory, DummyTreatmentsSchema, NewDummyTreatments,
			plugin.WithType(plugin.TypeDataSource),
			plugin.WithDescription("Synthetic series with a binary treatment of known effect.")),
	}
}

// Modules returns the category and plugin modules of the data sources.
func Modules() []plugin.Module {
	capability := plugin.CapabilityOf[datasource.DataSource]()
	mods := []plugin.Module{}
	for _, category := range []string{"prediction", "treatments"} {
		mods = append(mods, plugin.Module{
			Name: Namespace + "." + category,
			Register: func(r *plugin.Registry) error {
				return r.RegisterCategory(category, capability, plugin.TypeDataSource)
			},
		})
	}
	for _, def := range Definitions() {
		mods = append(mods, plugin.Module{
			Name: Namespace + "." + def.FullName(),
			Register: func(r *plugin.Registry) error {
				_, err := r.Register(def)
				return err
			},
		})
	}
	return mods
}
