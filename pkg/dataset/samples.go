// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package dataset

import "slices"

// Samples is a slice of data keyed by sample: static rows, per-sample time
// series, or predictions.
type Samples interface {
	// Len returns the number of samples.
	Len() int
	// SampleIDs returns the sample ids in order.
	SampleIDs() []string
	// Frame returns the underlying values.
	Frame() *Frame
}

// StaticSamples holds one row per sample.
type StaticSamples struct {
	ids   []string
	frame *Frame
}

// NewStatic builds static samples. ids must be unique and match the frame rows.
func NewStatic(ids []string, frame *Frame) (*StaticSamples, error) {
	if frame == nil {
		frame = &Frame{index: map[string]int{}, rows: len(ids)}
	}
	if len(ids) != frame.Rows() {
		return nil, ErrLengthMismatch("sample_id", frame.Rows(), len(ids))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, ErrDuplicateSample(id)
		}
		seen[id] = true
	}
	return &StaticSamples{ids: slices.Clone(ids), frame: frame}, nil
}

// Len implements Samples.
func (s *StaticSamples) Len() int { return len(s.ids) }

// SampleIDs implements Samples.
func (s *StaticSamples) SampleIDs() []string { return slices.Clone(s.ids) }

// Frame implements Samples.
func (s *StaticSamples) Frame() *Frame { return s.frame }

// WithFrame returns static samples with the same ids and a new frame.
func (s *StaticSamples) WithFrame(frame *Frame) (*StaticSamples, error) {
	return NewStatic(s.ids, frame)
}

// Take returns the samples at the given positions.
func (s *StaticSamples) Take(rows []int) *StaticSamples {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = s.ids[r]
	}
	return &StaticSamples{ids: ids, frame: s.frame.Take(rows)}
}

// Equal reports whether both hold the same ids and values.
func (s *StaticSamples) Equal(other *StaticSamples) bool {
	if s == nil || other == nil {
		return s == other
	}
	return slices.Equal(s.ids, other.ids) && s.frame.Equal(other.frame)
}

// TimeIndex locates one row of a time series: the sample it belongs to and
// its observation time.
type TimeIndex struct {
	Sample string
	Time   float64
}

// TimeSeriesSamples holds a variable-length series of rows per sample. Rows of
// one sample are kept in observation order.
type TimeSeriesSamples struct {
	index []TimeIndex
	frame *Frame
	ids   []string
	rows  map[string][]int
}

// NewTimeSeries builds time series samples. The index must have one entry per
// frame row; samples appear in order of first occurrence.
func NewTimeSeries(index []TimeIndex, frame *Frame) (*TimeSeriesSamples, error) {
	if frame == nil {
		frame = &Frame{index: map[string]int{}, rows: len(index)}
	}
	if len(index) != frame.Rows() {
		return nil, ErrLengthMismatch("time_index", frame.Rows(), len(index))
	}
	ts := &TimeSeriesSamples{
		index: slices.Clone(index),
		frame: frame,
		rows:  make(map[string][]int),
	}
	for i, ti := range index {
		if _, ok := ts.rows[ti.Sample]; !ok {
			ts.ids = append(ts.ids, ti.Sample)
		}
		ts.rows[ti.Sample] = append(ts.rows[ti.Sample], i)
	}
	for _, id := range ts.ids {
		rows := ts.rows[id]
		slices.SortStableFunc(rows, func(a, b int) int {
			switch {
			case index[a].Time < index[b].Time:
				return -1
			case index[a].Time > index[b].Time:
				return 1
			default:
				return 0
			}
		})
	}
	return ts, nil
}

// Len implements Samples.
func (t *TimeSeriesSamples) Len() int { return len(t.ids) }

// SampleIDs implements Samples.
func (t *TimeSeriesSamples) SampleIDs() []string { return slices.Clone(t.ids) }

// Frame implements Samples.
func (t *TimeSeriesSamples) Frame() *Frame { return t.frame }

// Index returns the time index, one entry per frame row.
func (t *TimeSeriesSamples) Index() []TimeIndex { return slices.Clone(t.index) }

// Rows returns the frame rows of a sample in observation order.
func (t *TimeSeriesSamples) Rows(sample string) []int { return slices.Clone(t.rows[sample]) }

// Times returns the observation times of a sample in order.
func (t *TimeSeriesSamples) Times(sample string) []float64 {
	rows := t.rows[sample]
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = t.index[r].Time
	}
	return out
}

// WithFrame returns time series samples with the same index and a new frame.
func (t *TimeSeriesSamples) WithFrame(frame *Frame) (*TimeSeriesSamples, error) {
	return NewTimeSeries(t.index, frame)
}

// Equal reports whether both hold the same index and values.
func (t *TimeSeriesSamples) Equal(other *TimeSeriesSamples) bool {
	if t == nil || other == nil {
		return t == other
	}
	return slices.Equal(t.index, other.index) && t.frame.Equal(other.frame)
}
