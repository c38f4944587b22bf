// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package modelstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// poolIface is the subset of pgxpool.Pool the store uses, so tests can
// drive it with pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore keeps artifacts in the models table.
type PostgresStore struct {
	pool poolIface
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore returns a store over pool. The schema must already be
// migrated.
func NewPostgresStore(pool poolIface) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Put inserts or replaces a.
func (s *PostgresStore) Put(ctx context.Context, a Artifact) error {
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO models (name, plugin, id, fitted, created_at, data)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (name) DO UPDATE SET plugin = $2, id = $3, fitted = $4, created_at = $5, data = $6`,
		a.Name, a.Plugin, a.ID, a.Fitted, a.CreatedAt, a.Data)
	if err != nil {
		return oops.With("operation", "store artifact").With("artifact", a.Name).Wrap(err)
	}
	return nil
}

// Get reads the artifact stored under name.
func (s *PostgresStore) Get(ctx context.Context, name string) (Artifact, error) {
	if err := ValidateName(name); err != nil {
		return Artifact{}, err
	}
	a := Artifact{Name: name}
	err := s.pool.QueryRow(ctx,
		`SELECT plugin, id, fitted, created_at, data FROM models WHERE name = $1`, name).
		Scan(&a.Plugin, &a.ID, &a.Fitted, &a.CreatedAt, &a.Data)
	if errors.Is(err, pgx.ErrNoRows) {
		return Artifact{}, ErrArtifactNotFound(name)
	}
	if err != nil {
		return Artifact{}, oops.With("operation", "read artifact").With("artifact", name).Wrap(err)
	}
	return a, nil
}

// List returns the stored artifacts sorted by name.
func (s *PostgresStore) List(ctx context.Context) ([]Artifact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, plugin, id, fitted, created_at FROM models ORDER BY name`)
	if err != nil {
		return nil, oops.With("operation", "list artifacts").Wrap(err)
	}
	defer rows.Close()

	var out []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.Name, &a.Plugin, &a.ID, &a.Fitted, &a.CreatedAt); err != nil {
			return nil, oops.With("operation", "scan artifact row").Wrap(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate artifacts").Wrap(err)
	}
	return out, nil
}

// Delete removes the artifact stored under name.
func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM models WHERE name = $1`, name)
	if err != nil {
		return oops.With("operation", "delete artifact").With("artifact", name).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrArtifactNotFound(name)
	}
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
