// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package modelstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
	"go.etcd.io/bbolt"
)

var modelsBucket = []byte("models")

// BoltStore keeps artifacts in a bbolt database, one JSON value per name.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

// OpenBolt opens or creates the database file at path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, oops.With("operation", "create database directory").With("path", path).Wrap(err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, oops.With("operation", "open model database").With("path", path).Wrap(err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(modelsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, oops.With("operation", "create models bucket").Wrap(err)
	}
	return &BoltStore{db: db}, nil
}

// Put stores a.
func (s *BoltStore) Put(_ context.Context, a Artifact) error {
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return oops.With("operation", "encode artifact").With("artifact", a.Name).Wrap(err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(modelsBucket).Put([]byte(a.Name), data)
	})
	if err != nil {
		return oops.With("operation", "store artifact").With("artifact", a.Name).Wrap(err)
	}
	return nil
}

// Get reads the artifact stored under name.
func (s *BoltStore) Get(_ context.Context, name string) (Artifact, error) {
	if err := ValidateName(name); err != nil {
		return Artifact{}, err
	}
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(modelsBucket).Get([]byte(name)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return Artifact{}, oops.With("operation", "read artifact").With("artifact", name).Wrap(err)
	}
	if data == nil {
		return Artifact{}, ErrArtifactNotFound(name)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Artifact{}, oops.With("operation", "decode artifact").With("artifact", name).Wrap(err)
	}
	return a, nil
}

// List returns the stored artifacts in key order.
func (s *BoltStore) List(_ context.Context) ([]Artifact, error) {
	var out []Artifact
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(modelsBucket).ForEach(func(k, v []byte) error {
			var a Artifact
			if err := json.Unmarshal(v, &a); err != nil {
				return oops.With("artifact", string(k)).Wrap(err)
			}
			a.Data = nil
			out = append(out, a)
			return nil
		})
	})
	if err != nil {
		return nil, oops.With("operation", "list artifacts").Wrap(err)
	}
	return out, nil
}

// Delete removes the artifact stored under name.
func (s *BoltStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	found := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(modelsBucket)
		if b.Get([]byte(name)) == nil {
			return nil
		}
		found = true
		return b.Delete([]byte(name))
	})
	if err != nil {
		return oops.With("operation", "delete artifact").With("artifact", name).Wrap(err)
	}
	if !found {
		return ErrArtifactNotFound(name)
	}
	return nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
