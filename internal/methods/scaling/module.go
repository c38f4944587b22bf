// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package scaling

import "github.com/tempor/tempor/pkg/plugin"

// Definitions returns the scaler plugin definitions.
func Definitions() []*plugin.Definition {
	return []*plugin.Definition{
		plugin.Define(TSMinMaxName, TemporalCategory, MinMaxSchema, NewTSMinMax,
			plugin.WithSpace(MinMaxSpace),
			plugin.WithDescription("Scale time series features to a range.")),
		plugin.Define(TSStandardName, TemporalCategory, StandardSchema, NewTSStandard,
			plugin.WithSpace(StandardSpace),
			plugin.WithDescription("Standardize time series features.")),
		plugin.Define(StaticMinMaxName, StaticCategory, MinMaxSchema, NewStaticMinMax,
			plugin.WithSpace(MinMaxSpace),
			plugin.WithDescription("Scale static features to a range.")),
	}
}

// Modules returns one registration module per scaler.
func Modules() []plugin.Module {
	defs := Definitions()
	mods := make([]plugin.Module, len(defs))
	for i, def := range defs {
		mods[i] = plugin.Module{
			Name: "methods." + def.FullName(),
			Register: func(r *plugin.Registry) error {
				_, err := r.Register(def)
				return err
			},
		}
	}
	return mods
}
