// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package dataset

import "github.com/tempor/tempor/pkg/errutil"

// ErrLengthMismatch creates an error for a column whose length differs from the frame.
func ErrLengthMismatch(column string, want, got int) error {
	return errutil.InvalidData().
		With("column", column).
		With("expected_rows", want).
		With("actual_rows", got).
		Errorf("column %q has %d rows, expected %d", column, got, want)
}

// ErrDuplicateColumn creates an error for a column name used twice in one frame.
func ErrDuplicateColumn(column string) error {
	return errutil.InvalidData().
		With("column", column).
		Errorf("duplicate column %q", column)
}

// ErrInvalidColumn creates an error for a column that is neither numeric nor
// categorical, or both.
func ErrInvalidColumn(column, reason string) error {
	return errutil.InvalidData().
		With("column", column).
		Errorf("invalid column %q: %s", column, reason)
}

// ErrDuplicateSample creates an error for a sample id listed twice in a static slice.
func ErrDuplicateSample(id string) error {
	return errutil.InvalidData().
		With("sample", id).
		Errorf("duplicate sample %q", id)
}

// ErrMisalignedSlice creates an error for a named slice whose samples do not
// match the time series samples.
func ErrMisalignedSlice(slice string) error {
	return errutil.InvalidData().
		With("slice", slice).
		Errorf("%s samples do not match the time series samples", slice)
}
