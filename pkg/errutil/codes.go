// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package errutil defines the error taxonomy shared by every tempor package
// and helpers for classifying, logging and asserting on those errors.
//
// Errors are samber/oops errors carrying one of the codes below. Packages
// build them through their own constructors (see errors.go in each package)
// and callers classify them with the Is* helpers.
package errutil

import (
	"github.com/samber/oops"
)

// Error codes.
const (
	// CodeConfiguration marks unknown option names, type mismatches, duplicate
	// registrations and category/capability mismatches.
	CodeConfiguration = "CONFIGURATION_ERROR"
	// CodeInvalidState marks an operation invoked in the wrong lifecycle state.
	CodeInvalidState = "INVALID_STATE"
	// CodeUnsupportedOperation marks a contract operation the concrete plugin
	// does not implement.
	CodeUnsupportedOperation = "UNSUPPORTED_OPERATION"
	// CodeNotFound marks an unknown category, plugin, module or artifact.
	CodeNotFound = "NOT_FOUND"
	// CodeInvalidData marks a dataset whose slices have inconsistent shapes.
	CodeInvalidData = "INVALID_DATA"
)

// Configuration starts an error builder with CodeConfiguration.
func Configuration() oops.OopsErrorBuilder { return oops.Code(CodeConfiguration) }

// InvalidState starts an error builder with CodeInvalidState.
func InvalidState() oops.OopsErrorBuilder { return oops.Code(CodeInvalidState) }

// Unsupported starts an error builder with CodeUnsupportedOperation.
func Unsupported() oops.OopsErrorBuilder { return oops.Code(CodeUnsupportedOperation) }

// NotFound starts an error builder with CodeNotFound.
func NotFound() oops.OopsErrorBuilder { return oops.Code(CodeNotFound) }

// InvalidData starts an error builder with CodeInvalidData.
func InvalidData() oops.OopsErrorBuilder { return oops.Code(CodeInvalidData) }

// Code returns the oops code attached to err, or "" when err carries none.
func Code(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string)
	return code
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return err != nil && Code(err) == code
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return HasCode(err, CodeConfiguration) }

// IsInvalidState reports whether err is an invalid-state error.
func IsInvalidState(err error) bool { return HasCode(err, CodeInvalidState) }

// IsUnsupported reports whether err is an unsupported-operation error.
func IsUnsupported(err error) bool { return HasCode(err, CodeUnsupportedOperation) }

// IsNotFound reports whether err is a lookup error.
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsInvalidData reports whether err is a malformed-dataset error.
func IsInvalidData(err error) bool { return HasCode(err, CodeInvalidData) }
