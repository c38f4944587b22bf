// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package treatments

import "github.com/tempor/tempor/pkg/plugin"

// Modules returns the registration modules of the treatment plugins.
func Modules() []plugin.Module {
	return []plugin.Module{{
		Name: "methods.treatments.one_off.regression.nn_tlearner",
		Register: func(r *plugin.Registry) error {
			_, err := r.Register(NNTLearnerDefinition())
			return err
		},
	}}
}
