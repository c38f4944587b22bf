// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package method defines the lifecycle contracts every method plugin
// satisfies and the base types that enforce them.
//
// A plugin embeds BaseTransformer or BasePredictor and supplies the hook
// methods (FitData, TransformData, PredictData and the optional
// PredictProbaData / PredictCounterfactualsData). The base types guard the
// lifecycle: calls that need a fitted plugin fail with an invalid-state
// error, optional operations the plugin lacks fail with an
// unsupported-operation error, and a failed fit never marks the plugin
// fitted.
package method

import (
	"context"

	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/params"
)

// Estimator is the capability shared by all method plugins.
type Estimator interface {
	// Fit learns from data, replacing any previously learned state.
	Fit(ctx context.Context, data dataset.Data) error
	// IsFitted reports whether the last successful Fit completed.
	IsFitted() bool
	// Params returns the validated configuration.
	Params() *params.Params
	// Name returns the full plugin name.
	Name() string
}

// Transformer is an Estimator that rewrites datasets.
type Transformer interface {
	Estimator
	Transform(ctx context.Context, data dataset.Data) (dataset.Data, error)
	FitTransform(ctx context.Context, data dataset.Data) (dataset.Data, error)
}

// Predictor is an Estimator that produces predictions.
type Predictor interface {
	Estimator
	Predict(ctx context.Context, data dataset.Data) (dataset.Samples, error)
	PredictProba(ctx context.Context, data dataset.Data) (dataset.Samples, error)
	PredictCounterfactuals(ctx context.Context, data dataset.Data) (dataset.Samples, error)
	FitPredict(ctx context.Context, data dataset.Data) (dataset.Samples, error)
}

// Fitter is the training hook every plugin implements. It must only commit
// learned state when it returns nil.
type Fitter interface {
	FitData(ctx context.Context, data dataset.Data) error
}

// TransformHooks are the hooks of a transformer plugin.
type TransformHooks interface {
	Fitter
	TransformData(ctx context.Context, data dataset.Data) (dataset.Data, error)
}

// PredictHooks are the hooks of a predictor plugin.
type PredictHooks interface {
	Fitter
	PredictData(ctx context.Context, data dataset.Data) (dataset.Samples, error)
}

// ProbaPredictor is implemented by classification plugins.
type ProbaPredictor interface {
	PredictProbaData(ctx context.Context, data dataset.Data) (dataset.Samples, error)
}

// CounterfactualPredictor is implemented by treatment-effect plugins.
type CounterfactualPredictor interface {
	PredictCounterfactualsData(ctx context.Context, data dataset.Data) (dataset.Samples, error)
}

// Operation names used in logs, spans and metrics.
const (
	OpFit                    = "fit"
	OpTransform              = "transform"
	OpPredict                = "predict"
	OpPredictProba           = "predict_proba"
	OpPredictCounterfactuals = "predict_counterfactuals"
)
