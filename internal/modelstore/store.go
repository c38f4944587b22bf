// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package modelstore persists serialized plugin instances under a name.
// Backends: a directory of files, a bbolt database and PostgreSQL.
package modelstore

import (
	"context"
	"regexp"
	"time"

	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/plugin"
	"github.com/tempor/tempor/pkg/serialization"
)

// Artifact is one stored model.
type Artifact struct {
	Name      string    `json:"name"`
	Plugin    string    `json:"plugin"`
	ID        string    `json:"id"`
	Fitted    bool      `json:"fitted"`
	CreatedAt time.Time `json:"created_at"`
	Data      []byte    `json:"data"`
}

// Store keeps artifacts by name. Put replaces an artifact of the same name.
type Store interface {
	Put(ctx context.Context, a Artifact) error
	Get(ctx context.Context, name string) (Artifact, error)
	// List returns the stored artifacts sorted by name, without their data.
	List(ctx context.Context) ([]Artifact, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateName checks an artifact name. Names are used as file names, so
// path separators are rejected.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return errutil.Configuration().
			With("artifact", name).
			Errorf("invalid artifact name %q", name)
	}
	return nil
}

// ErrArtifactNotFound is returned when no artifact has the name.
func ErrArtifactNotFound(name string) error {
	return errutil.NotFound().
		With("artifact", name).
		Errorf("model %q not found", name)
}

// SaveModel serializes est and stores it under name.
func SaveModel(ctx context.Context, s Store, name string, est method.Estimator) (Artifact, error) {
	if err := ValidateName(name); err != nil {
		return Artifact{}, err
	}
	data, err := serialization.Save(est)
	if err != nil {
		return Artifact{}, err
	}
	env, err := serialization.Decode(data)
	if err != nil {
		return Artifact{}, err
	}
	a := Artifact{
		Name:      name,
		Plugin:    env.Plugin,
		ID:        env.ID,
		Fitted:    env.Fitted,
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}
	if err := s.Put(ctx, a); err != nil {
		return Artifact{}, err
	}
	return a, nil
}

// LoadModel reads the artifact stored under name and rebuilds the plugin
// through reg.
func LoadModel(ctx context.Context, s Store, reg *plugin.Registry, name string) (method.Estimator, error) {
	a, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return serialization.LoadWith(reg, a.Data)
}
