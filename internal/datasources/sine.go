// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package datasources provides the built-in synthetic data source plugins.
package datasources

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/datasource"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/params"
	"github.com/tempor/tempor/pkg/plugin"
)

// Categories.
const (
	PredictionCategory = "prediction.one_off"
	TreatmentsCategory = "treatments.one_off"
)

// Plugin names.
const (
	SineName           = "sine"
	SineRegressionName = "sine_regression"
)

// SineSchema declares the sine data source options.
var SineSchema = params.MustSchema(
	params.Int("no_samples", 100, "Number of samples."),
	params.Int("seq_len", 10, "Number of observations per sample."),
	params.Int("temporal_dim", 5, "Number of temporal features."),
	params.Int("static_dim", 4, "Number of static features."),
	params.Float("freq_scale", 1, "Frequency scale of the sine waves."),
	params.Int("random_state", 42, "Random seed."),
)

type sineConfig struct {
	samples, seqLen, temporal, static int
	freqScale                         float64
	seed                              uint64
}

func sineConfigOf(p *params.Params) (sineConfig, error) {
	c := sineConfig{
		samples:   p.Int("no_samples"),
		seqLen:    p.Int("seq_len"),
		temporal:  p.Int("temporal_dim"),
		static:    p.Int("static_dim"),
		freqScale: p.Float("freq_scale"),
		seed:      uint64(p.Int("random_state")),
	}
	for _, o := range []struct {
		name string
		v    int
	}{{"no_samples", c.samples}, {"seq_len", c.seqLen}, {"temporal_dim", c.temporal}} {
		if o.v < 1 {
			return sineConfig{}, errutil.Configuration().
				With("option", o.name).
				Errorf("%s must be at least 1, got %d", o.name, o.v)
		}
	}
	if c.static < 0 {
		return sineConfig{}, errutil.Configuration().
			With("option", "static_dim").
			Errorf("static_dim must not be negative, got %d", c.static)
	}
	return c, nil
}

// series holds generated covariates before they are framed.
type series struct {
	ids      []string
	index    []dataset.TimeIndex
	temporal [][]float64 // per feature, one value per index row
	static   [][]float64 // per feature, one value per sample
	// signal is the mean of each sample's last observation.
	signal []float64
}

func generateSine(c sineConfig, r *rand.Rand) series {
	s := series{
		temporal: make([][]float64, c.temporal),
		static:   make([][]float64, c.static),
		signal:   make([]float64, c.samples),
	}
	for i := range c.samples {
		id := "sample_" + strconv.Itoa(i)
		s.ids = append(s.ids, id)
		for t := range c.seqLen {
			s.index = append(s.index, dataset.TimeIndex{Sample: id, Time: float64(t)})
		}
		var last float64
		for f := range c.temporal {
			freq := r.Float64() * c.freqScale
			phase := r.Float64() * 2 * math.Pi
			for t := range c.seqLen {
				v := math.Sin(freq*float64(t) + phase)
				s.temporal[f] = append(s.temporal[f], v)
				if t == c.seqLen-1 {
					last += v
				}
			}
		}
		s.signal[i] = last / float64(c.temporal)
		for f := range c.static {
			s.static[f] = append(s.static[f], r.Float64())
		}
	}
	return s
}

func (s series) dataset(targets []float64, extra ...dataset.Option) (*dataset.Dataset, error) {
	tcols := make([]dataset.Column, len(s.temporal))
	for f, values := range s.temporal {
		tcols[f] = dataset.NumericColumn("feat_"+strconv.Itoa(f), values)
	}
	tframe, err := dataset.NewFrame(tcols...)
	if err != nil {
		return nil, err
	}
	ts, err := dataset.NewTimeSeries(s.index, tframe)
	if err != nil {
		return nil, err
	}
	var opts []dataset.Option
	if len(s.static) > 0 {
		scols := make([]dataset.Column, len(s.static))
		for f, values := range s.static {
			scols[f] = dataset.NumericColumn("static_"+strconv.Itoa(f), values)
		}
		st, err := static(s.ids, scols...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dataset.WithStatic(st))
	}
	tg, err := static(s.ids, dataset.NumericColumn("label", targets))
	if err != nil {
		return nil, err
	}
	opts = append(opts, dataset.WithTargets(tg))
	return dataset.New(ts, append(opts, extra...)...)
}

func static(ids []string, cols ...dataset.Column) (*dataset.StaticSamples, error) {
	f, err := dataset.NewFrame(cols...)
	if err != nil {
		return nil, err
	}
	return dataset.NewStatic(ids, f)
}

// Sine generates random sine series. The classification variant labels a
// sample 1 when its last observations average above zero; the regression
// variant reports that average plus a static contribution.
type Sine struct {
	datasource.Base
	cfg        sineConfig
	regression bool
}

var _ datasource.DataSource = (*Sine)(nil)

func newSine(name string, regression bool, p *params.Params) (*Sine, error) {
	cfg, err := sineConfigOf(p)
	if err != nil {
		return nil, err
	}
	s := &Sine{cfg: cfg, regression: regression}
	s.Base = datasource.NewBase(plugin.JoinName(PredictionCategory, name), p, s)
	return s, nil
}

// NewSine builds the classification sine data source.
func NewSine(p *params.Params) (*Sine, error) { return newSine(SineName, false, p) }

// NewSineRegression builds the regression sine data source.
func NewSineRegression(p *params.Params) (*Sine, error) { return newSine(SineRegressionName, true, p) }

// LoadData implements datasource.Loader. The same params always produce the
// same dataset.
func (s *Sine) LoadData(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := rand.New(rand.NewPCG(s.cfg.seed, s.cfg.seed^0x9e3779b97f4a7c15))
	ser := generateSine(s.cfg, r)
	targets := make([]float64, s.cfg.samples)
	for i, v := range ser.signal {
		switch {
		case s.regression:
			targets[i] = v
			for _, f := range ser.static {
				targets[i] += 0.5 * f[i]
			}
		case v > 0:
			targets[i] = 1
		}
	}
	return ser.dataset(targets)
}
