// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package datasources

import (
	"context"
	"math/rand/v2"

	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/datasource"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/params"
	"github.com/tempor/tempor/pkg/plugin"
)

// DummyTreatmentsName is the plugin name of the dummy treatments source.
const DummyTreatmentsName = "dummy_treatments"

// DummyTreatmentsSchema declares the dummy treatments options.
var DummyTreatmentsSchema = params.MustSchema(
	params.Int("no_samples", 100, "Number of samples."),
	params.Int("seq_len", 10, "Number of observations per sample."),
	params.Int("temporal_dim", 5, "Number of temporal features."),
	params.Int("static_dim", 4, "Number of static features."),
	params.Float("freq_scale", 1, "Frequency scale of the sine waves."),
	params.Float("treatment_effect", 1, "Outcome shift of treated samples."),
	params.Float("treatment_ratio", 0.5, "Probability of a sample being treated."),
	params.Int("random_state", 42, "Random seed."),
)

// DummyTreatments generates sine series with a binary treatment and an
// outcome shifted by a known effect for treated samples.
type DummyTreatments struct {
	datasource.Base
	cfg    sineConfig
	effect float64
	ratio  float64
}

var _ datasource.DataSource = (*DummyTreatments)(nil)

// NewDummyTreatments builds the dummy treatments data source.
func NewDummyTreatments(p *params.Params) (*DummyTreatments, error) {
	cfg, err := sineConfigOf(p)
	if err != nil {
		return nil, err
	}
	d := &DummyTreatments{cfg: cfg, effect: p.Float("treatment_effect"), ratio: p.Float("treatment_ratio")}
	if d.ratio < 0 || d.ratio > 1 {
		return nil, errutil.Configuration().
			With("option", "treatment_ratio").
			Errorf("treatment_ratio must be in [0, 1], got %g", d.ratio)
	}
	d.Base = datasource.NewBase(plugin.JoinName(TreatmentsCategory, DummyTreatmentsName), p, d)
	return d, nil
}

// LoadData implements datasource.Loader.
func (d *DummyTreatments) LoadData(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := rand.New(rand.NewPCG(d.cfg.seed, d.cfg.seed^0x9e3779b97f4a7c15))
	ser := generateSine(d.cfg, r)
	treated := make([]float64, d.cfg.samples)
	outcome := make([]float64, d.cfg.samples)
	for i, v := range ser.signal {
		if r.Float64() < d.ratio {
			treated[i] = 1
		}
		outcome[i] = v + d.effect*treated[i]
	}
	tr, err := static(ser.ids, dataset.NumericColumn("treatment", treated))
	if err != nil {
		return nil, err
	}
	return ser.dataset(outcome, dataset.WithTreatments(tr))
}
