// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package datasource defines the capability of data source plugins.
package datasource

import (
	"context"
	"log/slog"

	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/params"
)

// DataSource produces a dataset.
type DataSource interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
	Params() *params.Params
	Name() string
}

// Loader is the hook a data source plugin implements.
type Loader interface {
	LoadData(ctx context.Context) (*dataset.Dataset, error)
}

// Base implements DataSource on top of a Loader hook and validates the
// loaded dataset.
type Base struct {
	name   string
	params *params.Params
	loader Loader
}

// NewBase builds the embedded base of a data source plugin.
func NewBase(name string, p *params.Params, loader Loader) Base {
	return Base{name: name, params: p, loader: loader}
}

// Name implements DataSource.
func (b *Base) Name() string { return b.name }

// Params implements DataSource.
func (b *Base) Params() *params.Params { return b.params }

// Load implements DataSource.
func (b *Base) Load(ctx context.Context) (*dataset.Dataset, error) {
	slog.DebugContext(ctx, "loading dataset", "plugin", b.name)
	d, err := b.loader.LoadData(ctx)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errutil.InvalidData().
			With("plugin", b.name).
			Errorf("%s loaded no dataset", b.name)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
