// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package modelstore

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/tempor/tempor/pkg/errutil"
)

// Drivers.
const (
	DriverFile     = "file"
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Driver string `koanf:"driver"`
	// Path is the directory of the file store or the bbolt database file.
	Path string `koanf:"path"`
	// DSN is the PostgreSQL connection string.
	DSN string `koanf:"dsn"`
	// Migrate applies pending PostgreSQL migrations when opening.
	Migrate bool `koanf:"migrate"`
}

// Validate checks the configuration is complete for its driver.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverFile, DriverBolt:
		if c.Path == "" {
			return errutil.Configuration().With("driver", c.Driver).Errorf("%s store requires a path", c.Driver)
		}
	case DriverPostgres:
		if c.DSN == "" {
			return errutil.Configuration().With("driver", c.Driver).Errorf("postgres store requires a dsn")
		}
	default:
		return errutil.Configuration().
			With("driver", c.Driver).
			Errorf("unknown model store driver %q", c.Driver)
	}
	return nil
}

// Open returns the store cfg describes.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "opening model store", "driver", cfg.Driver)
	switch cfg.Driver {
	case DriverFile:
		return NewFileStore(cfg.Path)
	case DriverBolt:
		return OpenBolt(cfg.Path)
	default:
		if cfg.Migrate {
			if err := migrateUp(cfg.DSN); err != nil {
				return nil, err
			}
		}
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, oops.With("operation", "connect to database").Wrap(err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, oops.With("operation", "ping database").Wrap(err)
		}
		return NewPostgresStore(pool), nil
	}
}

func migrateUp(dsn string) error {
	m, err := NewMigrator(dsn)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		_ = m.Close()
		return err
	}
	return m.Close()
}
