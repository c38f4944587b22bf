// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package serialization saves method plugin instances, fitted or not, and
// loads them back through a plugin registry.
package serialization

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/plugin"
	"github.com/tempor/tempor/pkg/tempor"
)

// FormatVersion is the envelope version Save writes.
const FormatVersion = 1

// Envelope is the serialized form of a plugin instance.
type Envelope struct {
	Format int            `json:"format"`
	Plugin string         `json:"plugin"`
	Params map[string]any `json:"params"`
	Fitted bool           `json:"fitted"`
	ID     string         `json:"id"`
	State  []byte         `json:"state,omitempty"`
}

// Save encodes est.
func Save(est method.Estimator) ([]byte, error) {
	st, err := method.Snapshot(est)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Format: FormatVersion,
		Plugin: st.Plugin,
		Params: st.Params,
		Fitted: st.Fitted,
		ID:     st.ID,
		State:  st.Learned,
	})
}

// Load decodes an instance saved by Save, resolving its plugin through the
// default registry.
func Load(data []byte) (method.Estimator, error) {
	return LoadWith(tempor.Default(), data)
}

// LoadWith is like Load but resolves the plugin through reg.
func LoadWith(reg *plugin.Registry, data []byte) (method.Estimator, error) {
	env, err := Decode(data)
	if err != nil {
		return nil, err
	}
	est, err := plugin.GetAs[method.Estimator](reg, env.Plugin, plugin.TypeMethod, env.Params)
	if err != nil {
		return nil, err
	}
	err = method.Restore(est, method.State{
		Plugin:  env.Plugin,
		Params:  env.Params,
		Fitted:  env.Fitted,
		ID:      env.ID,
		Learned: env.State,
	})
	if err != nil {
		return nil, err
	}
	return est, nil
}

// Decode parses and checks an envelope without building the plugin.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, errutil.InvalidData().Wrapf(err, "decode serialized plugin")
	}
	if env.Format != FormatVersion {
		return Envelope{}, errutil.Unsupported().
			With("format", env.Format).
			Errorf("unsupported serialization format %d", env.Format)
	}
	if env.Plugin == "" {
		return Envelope{}, errutil.InvalidData().Errorf("serialized plugin has no name")
	}
	return env, nil
}

// SaveToFile writes est to path, creating parent directories.
func SaveToFile(path string, est method.Estimator) error {
	data, err := Save(est)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errutil.Configuration().With("path", path).Wrapf(err, "create model directory")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errutil.Configuration().With("path", path).Wrapf(err, "write model file")
	}
	return nil
}

// LoadFromFile reads an instance written by SaveToFile.
func LoadFromFile(path string) (method.Estimator, error) {
	return LoadFileWith(tempor.Default(), path)
}

// LoadFileWith is like LoadFromFile but resolves the plugin through reg.
func LoadFileWith(reg *plugin.Registry, path string) (method.Estimator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errutil.NotFound().With("path", path).Wrapf(err, "model file not found")
		}
		return nil, errutil.Configuration().With("path", path).Wrapf(err, "read model file")
	}
	return LoadWith(reg, data)
}
