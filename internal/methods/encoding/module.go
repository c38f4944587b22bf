// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package encoding

import "github.com/tempor/tempor/pkg/plugin"

// Modules returns the registration modules of the encoders.
func Modules() []plugin.Module {
	return []plugin.Module{
		{
			Name: "methods." + TemporalCategory + "." + TSOneHotName,
			Register: func(r *plugin.Registry) error {
				_, err := r.Register(plugin.Define(TSOneHotName, TemporalCategory, OneHotSchema, NewTSOneHot,
					plugin.WithSpace(OneHotSpace),
					plugin.WithDescription("One-hot encode categorical time series features.")))
				return err
			},
		},
		{
			Name: "methods." + StaticCategory + "." + StaticOneHotName,
			Register: func(r *plugin.Registry) error {
				_, err := r.Register(plugin.Define(StaticOneHotName, StaticCategory, OneHotSchema, NewStaticOneHot,
					plugin.WithSpace(OneHotSpace),
					plugin.WithDescription("One-hot encode categorical static features.")))
				return err
			},
		},
	}
}
