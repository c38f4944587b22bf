// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		got  func() string
		want string
	}{
		{"config from env", map[string]string{"XDG_CONFIG_HOME": "/custom/config"}, ConfigDir, "/custom/config/tempor"},
		{"config default", map[string]string{"XDG_CONFIG_HOME": "", "HOME": "/home/u"}, ConfigDir, "/home/u/.config/tempor"},
		{"data from env", map[string]string{"XDG_DATA_HOME": "/custom/data"}, DataDir, "/custom/data/tempor"},
		{"data default", map[string]string{"XDG_DATA_HOME": "", "HOME": "/home/u"}, DataDir, "/home/u/.local/share/tempor"},
		{"config file", map[string]string{"XDG_CONFIG_HOME": "/c"}, ConfigFile, "/c/tempor/config.yaml"},
		{"models dir", map[string]string{"XDG_DATA_HOME": "/d"}, ModelsDir, "/d/tempor/models"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.want, tt.got())
		})
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
