// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package prediction

import "github.com/tempor/tempor/pkg/plugin"

// Modules returns the registration modules of the prediction plugins.
func Modules() []plugin.Module {
	return []plugin.Module{
		{
			Name: "methods.prediction.one_off.classification.nn_classifier",
			Register: func(r *plugin.Registry) error {
				_, err := r.Register(NNClassifierDefinition())
				return err
			},
		},
		{
			Name: "methods.prediction.one_off.regression.nn_regressor",
			Register: func(r *plugin.Registry) error {
				_, err := r.Register(NNRegressorDefinition())
				return err
			},
		},
	}
}
