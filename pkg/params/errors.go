// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package params

import (
	"fmt"
	"strings"

	"github.com/tempor/tempor/pkg/errutil"
)

// ErrUnknownOption creates an error for a parameter name the schema does not declare.
func ErrUnknownOption(name string, known []string) error {
	return errutil.Configuration().
		With("option", name).
		With("known_options", strings.Join(known, ", ")).
		Errorf("unknown parameter %q", name)
}

// ErrTypeMismatch creates an error for a value that does not fit the option kind.
func ErrTypeMismatch(name string, kind Kind, value any) error {
	return errutil.Configuration().
		With("option", name).
		With("kind", kind.String()).
		With("value_type", fmt.Sprintf("%T", value)).
		Errorf("parameter %q expects %s, got %T", name, kind, value)
}

// ErrInvalidChoice creates an error for a value outside the declared choices.
func ErrInvalidChoice(name string, value any, choices []any) error {
	return errutil.Configuration().
		With("option", name).
		With("value", value).
		Errorf("parameter %q must be one of %v, got %v", name, choices, value)
}

// ErrDuplicateOption creates an error for a schema declaring the same name twice.
func ErrDuplicateOption(name string) error {
	return errutil.Configuration().
		With("option", name).
		Errorf("parameter %q declared more than once", name)
}

// ErrInvalidDescriptor creates an error for a malformed hyperparameter descriptor.
func ErrInvalidDescriptor(name, reason string) error {
	return errutil.Configuration().
		With("option", name).
		Errorf("invalid hyperparameter %q: %s", name, reason)
}
