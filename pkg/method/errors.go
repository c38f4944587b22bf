// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package method

import "github.com/tempor/tempor/pkg/errutil"

// ErrNotFitted creates an error for an operation that needs a fitted plugin.
func ErrNotFitted(plugin, op string) error {
	return errutil.InvalidState().
		With("plugin", plugin).
		With("operation", op).
		Errorf("%s: the model was not fitted, call fit first", plugin)
}

// ErrNotPredictReady creates an error for inference on a dataset lacking the
// slices inference needs.
func ErrNotPredictReady(plugin, op string) error {
	return errutil.InvalidState().
		With("plugin", plugin).
		With("operation", op).
		Errorf("%s: the dataset was not predict-ready, check that all necessary data components are present", plugin)
}

// ErrUnsupported creates an error for an optional operation the plugin lacks.
func ErrUnsupported(plugin, op, task string) error {
	return errutil.Unsupported().
		With("plugin", plugin).
		With("operation", op).
		Errorf("%s: %s is supported only for %s tasks", plugin, op, task)
}

// ErrNoData creates an error for a nil dataset.
func ErrNoData(plugin, op string) error {
	return errutil.InvalidData().
		With("plugin", plugin).
		With("operation", op).
		Errorf("%s: %s called without data", plugin, op)
}

// ErrRestoreMismatch creates an error for restoring state saved by another plugin.
func ErrRestoreMismatch(plugin, saved string) error {
	return errutil.Configuration().
		With("plugin", plugin).
		With("saved_plugin", saved).
		Errorf("cannot restore %s state into %s", saved, plugin)
}
