// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package dataset provides the temporal dataset plugins operate on: a time
// series slice plus optional static covariates, targets and treatments, all
// keyed by sample id.
package dataset

import "slices"

// Slice names.
const (
	SliceTimeSeries = "time_series"
	SliceStatic     = "static"
	SliceTargets    = "targets"
	SliceTreatments = "treatments"
)

// Data is what plugins read and write. Named slices may be replaced after a
// transformation; a nil slice is absent.
type Data interface {
	// PredictReady reports whether all slices needed for inference are
	// present and aligned.
	PredictReady() bool

	TimeSeries() *TimeSeriesSamples
	Static() *StaticSamples
	Targets() *StaticSamples
	Treatments() *StaticSamples

	SetTimeSeries(*TimeSeriesSamples)
	SetStatic(*StaticSamples)
	SetTargets(*StaticSamples)
	SetTreatments(*StaticSamples)

	// Clone returns a shallow copy whose slices can be replaced without
	// affecting the original.
	Clone() Data
}

// Dataset is the standard Data implementation.
type Dataset struct {
	timeSeries *TimeSeriesSamples
	static     *StaticSamples
	targets    *StaticSamples
	treatments *StaticSamples
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithStatic sets the static covariates.
func WithStatic(s *StaticSamples) Option { return func(d *Dataset) { d.static = s } }

// WithTargets sets the targets.
func WithTargets(s *StaticSamples) Option { return func(d *Dataset) { d.targets = s } }

// WithTreatments sets the treatments.
func WithTreatments(s *StaticSamples) Option { return func(d *Dataset) { d.treatments = s } }

// New builds a dataset around a time series slice. Every other slice must
// cover exactly the same samples in the same order.
func New(ts *TimeSeriesSamples, opts ...Option) (*Dataset, error) {
	d := &Dataset{timeSeries: ts}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks slice alignment.
func (d *Dataset) Validate() error {
	if d.timeSeries == nil {
		return nil
	}
	ids := d.timeSeries.SampleIDs()
	for name, s := range d.slices() {
		if s != nil && !slices.Equal(s.SampleIDs(), ids) {
			return ErrMisalignedSlice(name)
		}
	}
	return nil
}

func (d *Dataset) slices() map[string]*StaticSamples {
	return map[string]*StaticSamples{
		SliceStatic:     d.static,
		SliceTargets:    d.targets,
		SliceTreatments: d.treatments,
	}
}

// PredictReady implements Data. Inference needs a non-empty time series with
// every present slice aligned to it.
func (d *Dataset) PredictReady() bool {
	if d.timeSeries == nil || d.timeSeries.Len() == 0 {
		return false
	}
	return d.Validate() == nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	if d.timeSeries == nil {
		return 0
	}
	return d.timeSeries.Len()
}

func (d *Dataset) TimeSeries() *TimeSeriesSamples { return d.timeSeries }
func (d *Dataset) Static() *StaticSamples         { return d.static }
func (d *Dataset) Targets() *StaticSamples        { return d.targets }
func (d *Dataset) Treatments() *StaticSamples     { return d.treatments }

func (d *Dataset) SetTimeSeries(s *TimeSeriesSamples) { d.timeSeries = s }
func (d *Dataset) SetStatic(s *StaticSamples)         { d.static = s }
func (d *Dataset) SetTargets(s *StaticSamples)        { d.targets = s }
func (d *Dataset) SetTreatments(s *StaticSamples)     { d.treatments = s }

// Clone implements Data.
func (d *Dataset) Clone() Data {
	c := *d
	return &c
}

// Equal reports whether both datasets hold equal slices.
func (d *Dataset) Equal(other *Dataset) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.timeSeries.Equal(other.timeSeries) &&
		d.static.Equal(other.static) &&
		d.targets.Equal(other.targets) &&
		d.treatments.Equal(other.treatments)
}
