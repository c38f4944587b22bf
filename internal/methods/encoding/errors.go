// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package encoding

import "github.com/tempor/tempor/pkg/errutil"

// ErrNotCategorical is returned when a feature to encode is not categorical.
func ErrNotCategorical(slice, feature string) error {
	return errutil.InvalidData().
		With("slice", slice).
		With("column", feature).
		Errorf("feature %q is not a categorical %s column", feature, slice)
}

// ErrUnknownCategory is returned when handle_unknown is "error" and
// transform meets a category not seen during fit.
func ErrUnknownCategory(feature, value string) error {
	return errutil.InvalidData().
		With("column", feature).
		With("category", value).
		Errorf("found unknown category %q in feature %q during transform", value, feature)
}
