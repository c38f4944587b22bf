// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package modelstore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/oops"
)

const fileSuffix = ".model.json"

// FileStore keeps one JSON file per artifact in a directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates dir if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, oops.With("operation", "create model directory").With("dir", dir).Wrap(err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileSuffix)
}

// Put writes the artifact atomically through a temporary file.
func (s *FileStore) Put(_ context.Context, a Artifact) error {
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return oops.With("operation", "encode artifact").With("artifact", a.Name).Wrap(err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+a.Name+"-*")
	if err != nil {
		return oops.With("operation", "create temporary file").With("artifact", a.Name).Wrap(err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return oops.With("operation", "write artifact").With("artifact", a.Name).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return oops.With("operation", "write artifact").With("artifact", a.Name).Wrap(err)
	}
	if err := os.Rename(tmp.Name(), s.path(a.Name)); err != nil {
		return oops.With("operation", "store artifact").With("artifact", a.Name).Wrap(err)
	}
	return nil
}

// Get reads the artifact stored under name.
func (s *FileStore) Get(_ context.Context, name string) (Artifact, error) {
	if err := ValidateName(name); err != nil {
		return Artifact{}, err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return Artifact{}, ErrArtifactNotFound(name)
	}
	if err != nil {
		return Artifact{}, oops.With("operation", "read artifact").With("artifact", name).Wrap(err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Artifact{}, oops.With("operation", "decode artifact").With("artifact", name).Wrap(err)
	}
	return a, nil
}

// List returns the artifacts in the directory.
func (s *FileStore) List(ctx context.Context) ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, oops.With("operation", "list model directory").With("dir", s.dir).Wrap(err)
	}
	var out []Artifact
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), fileSuffix)
		if !ok || e.IsDir() || ValidateName(name) != nil {
			continue
		}
		a, err := s.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		a.Data = nil
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b Artifact) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Delete removes the artifact stored under name.
func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrArtifactNotFound(name)
	}
	if err != nil {
		return oops.With("operation", "delete artifact").With("artifact", name).Wrap(err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
