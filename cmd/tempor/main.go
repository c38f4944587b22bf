// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package main is the tempor command line: it lists and describes the
// built-in plugins, fits methods on data sources and manages saved models.
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
