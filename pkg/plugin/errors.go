// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package plugin

import (
	"github.com/tempor/tempor/pkg/errutil"
)

// ErrInvalidName creates an error for a malformed category, plugin or module name.
func ErrInvalidName(what, value string) error {
	return errutil.Configuration().
		With("name_kind", what).
		With("name", value).
		Errorf("invalid %s name %q: segments must match [a-z][a-z0-9_]*", what, value)
}

// ErrCategoryNotDeclared creates an error for registering under an undeclared category.
func ErrCategoryNotDeclared(typ Type, category string) error {
	return errutil.Configuration().
		With("plugin_type", string(typ)).
		With("category", category).
		Errorf("category %q is not registered for plugin type %q", category, typ)
}

// ErrCapabilityConflict creates an error for re-declaring a category with a
// different capability.
func ErrCapabilityConflict(typ Type, category string, existing, requested Capability) error {
	return errutil.Configuration().
		With("plugin_type", string(typ)).
		With("category", category).
		With("existing_capability", existing.String()).
		With("requested_capability", requested.String()).
		Errorf("category %q already registered with capability %s", category, existing)
}

// ErrCapabilityNotImplied creates an error for a category capability that
// does not extend a related category's capability.
func ErrCapabilityNotImplied(typ Type, category string, cap Capability, related string, relatedCap Capability) error {
	return errutil.Configuration().
		With("plugin_type", string(typ)).
		With("category", category).
		With("capability", cap.String()).
		With("related_category", related).
		With("related_capability", relatedCap.String()).
		Errorf("capability %s of category %q does not satisfy %s required by %q", cap, category, relatedCap, related)
}

// ErrCapabilityMismatch creates an error for an implementation lacking the
// category capability.
func ErrCapabilityMismatch(fullName, impl string, cap Capability) error {
	return errutil.Configuration().
		With("plugin", fullName).
		With("implementation", impl).
		With("capability", cap.String()).
		Errorf("plugin %s: %s does not implement %s", fullName, impl, cap)
}

// ErrDuplicatePlugin creates an error for a (category, name) registered twice.
func ErrDuplicatePlugin(typ Type, category, name string) error {
	return errutil.Configuration().
		With("plugin_type", string(typ)).
		With("category", category).
		With("plugin", name).
		Errorf("plugin %q already registered under category %q", name, category)
}

// ErrInvalidDefinition creates an error for a definition that cannot be registered.
func ErrInvalidDefinition(fullName, reason string) error {
	return errutil.Configuration().
		With("plugin", fullName).
		Errorf("plugin %s: %s", fullName, reason)
}

// ErrPluginNotFound creates an error for an unknown plugin name.
func ErrPluginNotFound(typ Type, fullName string) error {
	return errutil.NotFound().
		With("plugin_type", string(typ)).
		With("plugin", fullName).
		Errorf("plugin %q not found for plugin type %q", fullName, typ)
}

// ErrCategoryNotFound creates an error for an unknown category.
func ErrCategoryNotFound(typ Type, category string) error {
	return errutil.NotFound().
		With("plugin_type", string(typ)).
		With("category", category).
		Errorf("category %q not found for plugin type %q", category, typ)
}

// ErrModuleNotFound creates an error for a discovery anchor matching no module.
func ErrModuleNotFound(anchor string) error {
	return errutil.NotFound().
		With("anchor", anchor).
		Errorf("no plugin modules found under %q", anchor)
}

// ErrDuplicateModule creates an error for a module listed twice in a loader.
func ErrDuplicateModule(name string) error {
	return errutil.Configuration().
		With("module", name).
		Errorf("plugin module %q listed more than once", name)
}
