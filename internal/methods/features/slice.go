// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package features

import (
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
)

// Slice selects the covariate slice a preprocessing plugin works on.
type Slice string

// Covariate slices.
const (
	Temporal Slice = dataset.SliceTimeSeries
	Static   Slice = dataset.SliceStatic
)

// Frame returns the covariates of the slice.
func (s Slice) Frame(data dataset.Data) (*dataset.Frame, error) {
	switch s {
	case Temporal:
		if ts := data.TimeSeries(); ts != nil {
			return ts.Frame(), nil
		}
	case Static:
		if st := data.Static(); st != nil {
			return st.Frame(), nil
		}
	default:
		return nil, errutil.Configuration().With("slice", string(s)).Errorf("unknown covariate slice %q", s)
	}
	return nil, errutil.InvalidData().
		With("slice", string(s)).
		Errorf("dataset has no %s covariates", s)
}

// With returns a shallow copy of data whose slice covariates are frame.
// data itself is left untouched.
func (s Slice) With(data dataset.Data, frame *dataset.Frame) (dataset.Data, error) {
	out := data.Clone()
	switch s {
	case Temporal:
		ts, err := data.TimeSeries().WithFrame(frame)
		if err != nil {
			return nil, err
		}
		out.SetTimeSeries(ts)
	case Static:
		st, err := data.Static().WithFrame(frame)
		if err != nil {
			return nil, err
		}
		out.SetStatic(st)
	default:
		return nil, errutil.Configuration().With("slice", string(s)).Errorf("unknown covariate slice %q", s)
	}
	return out, nil
}
