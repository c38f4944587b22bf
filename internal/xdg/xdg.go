// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package xdg resolves the XDG base directories tempor uses.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "tempor"

func dir(env string, fallback ...string) string {
	base := os.Getenv(env)
	if base == "" {
		base = filepath.Join(append([]string{os.Getenv("HOME")}, fallback...)...)
	}
	return filepath.Join(base, appName)
}

// ConfigDir returns $XDG_CONFIG_HOME/tempor, defaulting to ~/.config/tempor.
func ConfigDir() string { return dir("XDG_CONFIG_HOME", ".config") }

// DataDir returns $XDG_DATA_HOME/tempor, defaulting to ~/.local/share/tempor.
func DataDir() string { return dir("XDG_DATA_HOME", ".local", "share") }

// ConfigFile returns the default CLI configuration file path.
func ConfigFile() string { return filepath.Join(ConfigDir(), "config.yaml") }

// ModelsDir returns the default directory of the file model store.
func ModelsDir() string { return filepath.Join(DataDir(), "models") }

// EnsureDir creates path and its parents with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return oops.With("path", path).Wrapf(err, "create directory")
	}
	return nil
}
