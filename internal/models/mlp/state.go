// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package mlp

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type layerState struct {
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	Weights []float64 `json:"weights"`
	Bias    []float64 `json:"bias"`
}

type modelState struct {
	Config  Config       `json:"config"`
	Layers  []layerState `json:"layers"`
	Classes []float64    `json:"classes,omitempty"`
	XMean   []float64    `json:"x_mean"`
	XStd    []float64    `json:"x_std"`
	YMean   float64      `json:"y_mean"`
	YStd    float64      `json:"y_std"`
}

// MarshalJSON encodes the configuration and trained weights.
func (m *Model) MarshalJSON() ([]byte, error) {
	st := modelState{
		Config:  m.cfg,
		Classes: m.classes,
		XMean:   m.xMean,
		XStd:    m.xStd,
		YMean:   m.yMean,
		YStd:    m.yStd,
	}
	for _, l := range m.layers {
		r, c := l.w.Dims()
		st.Layers = append(st.Layers, layerState{
			Rows:    r,
			Cols:    c,
			Weights: mat.DenseCopyOf(l.w).RawMatrix().Data,
			Bias:    l.b,
		})
	}
	return json.Marshal(st)
}

// UnmarshalJSON restores a model encoded by MarshalJSON.
func (m *Model) UnmarshalJSON(data []byte) error {
	var st modelState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if err := st.Config.Validate(); err != nil {
		return err
	}
	layers := make([]layer, len(st.Layers))
	for i, ls := range st.Layers {
		if ls.Rows*ls.Cols != len(ls.Weights) || len(ls.Bias) != ls.Cols {
			return fmt.Errorf("mlp: layer %d has inconsistent dimensions", i)
		}
		if i > 0 && st.Layers[i-1].Cols != ls.Rows {
			return fmt.Errorf("mlp: layer %d does not follow layer %d", i, i-1)
		}
		layers[i] = layer{w: mat.NewDense(ls.Rows, ls.Cols, ls.Weights), b: ls.Bias}
	}
	if len(layers) > 0 && len(st.XMean) != st.Layers[0].Rows {
		return fmt.Errorf("mlp: %d feature means for %d inputs", len(st.XMean), st.Layers[0].Rows)
	}
	*m = Model{
		cfg:     st.Config,
		layers:  layers,
		classes: st.Classes,
		xMean:   st.XMean,
		xStd:    st.XStd,
		yMean:   st.YMean,
		yStd:    st.YStd,
	}
	return nil
}
