// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package method

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/params"
)

var tracer = otel.Tracer("tempor/method")

// Base carries the state common to every plugin instance: its name, params,
// instance id and fitted flag. It is embedded through BaseTransformer or
// BasePredictor.
type Base struct {
	name   string
	params *params.Params
	id     ulid.ULID
	fitted bool
	fitter Fitter
}

func newBase(name string, p *params.Params, fitter Fitter) Base {
	return Base{name: name, params: p, id: NewInstanceID(), fitter: fitter}
}

// Name implements Estimator.
func (b *Base) Name() string { return b.name }

// Params implements Estimator.
func (b *Base) Params() *params.Params { return b.params }

// IsFitted implements Estimator.
func (b *Base) IsFitted() bool { return b.fitted }

// ID returns the instance id.
func (b *Base) ID() ulid.ULID { return b.id }

// Fit implements Estimator. The fitted flag is only set when the plugin's
// FitData hook succeeds; a failure leaves it unchanged.
func (b *Base) Fit(ctx context.Context, data dataset.Data) error {
	return b.observe(ctx, OpFit, func(ctx context.Context) error {
		if data == nil {
			return ErrNoData(b.name, OpFit)
		}
		if err := b.fitter.FitData(ctx, data); err != nil {
			return err
		}
		b.fitted = true
		return nil
	})
}

func (b *Base) base() *Base { return b }

// observe wraps a lifecycle call with a debug log line, a span and metrics.
func (b *Base) observe(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	ctx, span := tracer.Start(ctx, "method."+op,
		trace.WithAttributes(
			attribute.String("plugin.name", b.name),
			attribute.String("plugin.instance_id", b.id.String()),
		),
	)
	start := time.Now()
	defer func() {
		RecordOperationDuration(b.name, op, time.Since(start))
		RecordOperation(b.name, op, statusOf(err))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	slog.DebugContext(ctx, "calling plugin implementation",
		"plugin", b.name,
		"operation", op,
		"instance_id", b.id.String())
	return fn(ctx)
}

// BaseTransformer implements Transformer on top of TransformHooks.
type BaseTransformer struct {
	Base
	hooks TransformHooks
}

// NewBaseTransformer builds the embedded base of a transformer plugin.
// hooks is normally the plugin itself.
func NewBaseTransformer(name string, p *params.Params, hooks TransformHooks) BaseTransformer {
	return BaseTransformer{Base: newBase(name, p, hooks), hooks: hooks}
}

// Transform implements Transformer.
func (t *BaseTransformer) Transform(ctx context.Context, data dataset.Data) (dataset.Data, error) {
	var out dataset.Data
	err := t.observe(ctx, OpTransform, func(ctx context.Context) error {
		if !t.fitted {
			return ErrNotFitted(t.name, OpTransform)
		}
		if data == nil {
			return ErrNoData(t.name, OpTransform)
		}
		var err error
		out, err = t.hooks.TransformData(ctx, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FitTransform implements Transformer.
func (t *BaseTransformer) FitTransform(ctx context.Context, data dataset.Data) (dataset.Data, error) {
	if err := t.Fit(ctx, data); err != nil {
		return nil, err
	}
	return t.Transform(ctx, data)
}

// BasePredictor implements Predictor on top of PredictHooks. The optional
// operations are available when hooks also implements ProbaPredictor or
// CounterfactualPredictor.
type BasePredictor struct {
	Base
	hooks PredictHooks
}

// NewBasePredictor builds the embedded base of a predictor plugin.
// hooks is normally the plugin itself.
func NewBasePredictor(name string, p *params.Params, hooks PredictHooks) BasePredictor {
	return BasePredictor{Base: newBase(name, p, hooks), hooks: hooks}
}

// Predict implements Predictor.
func (p *BasePredictor) Predict(ctx context.Context, data dataset.Data) (dataset.Samples, error) {
	return p.predict(ctx, OpPredict, data, p.hooks.PredictData)
}

// PredictProba implements Predictor.
func (p *BasePredictor) PredictProba(ctx context.Context, data dataset.Data) (dataset.Samples, error) {
	var hook func(context.Context, dataset.Data) (dataset.Samples, error)
	if h, ok := p.hooks.(ProbaPredictor); ok {
		hook = h.PredictProbaData
	} else {
		hook = p.unsupported(OpPredictProba, "classification")
	}
	return p.predict(ctx, OpPredictProba, data, hook)
}

// PredictCounterfactuals implements Predictor.
func (p *BasePredictor) PredictCounterfactuals(ctx context.Context, data dataset.Data) (dataset.Samples, error) {
	var hook func(context.Context, dataset.Data) (dataset.Samples, error)
	if h, ok := p.hooks.(CounterfactualPredictor); ok {
		hook = h.PredictCounterfactualsData
	} else {
		hook = p.unsupported(OpPredictCounterfactuals, "treatments")
	}
	return p.predict(ctx, OpPredictCounterfactuals, data, hook)
}

// FitPredict implements Predictor.
func (p *BasePredictor) FitPredict(ctx context.Context, data dataset.Data) (dataset.Samples, error) {
	if err := p.Fit(ctx, data); err != nil {
		return nil, err
	}
	return p.Predict(ctx, data)
}

// SupportsProba reports whether the plugin implements PredictProba.
func (p *BasePredictor) SupportsProba() bool {
	_, ok := p.hooks.(ProbaPredictor)
	return ok
}

// SupportsCounterfactuals reports whether the plugin implements PredictCounterfactuals.
func (p *BasePredictor) SupportsCounterfactuals() bool {
	_, ok := p.hooks.(CounterfactualPredictor)
	return ok
}

func (p *BasePredictor) unsupported(op, task string) func(context.Context, dataset.Data) (dataset.Samples, error) {
	return func(context.Context, dataset.Data) (dataset.Samples, error) {
		return nil, ErrUnsupported(p.name, op, task)
	}
}

// predict checks the shared preconditions of the predict family. State is
// checked before support so an unfitted plugin always reports invalid state.
func (p *BasePredictor) predict(ctx context.Context, op string, data dataset.Data,
	hook func(context.Context, dataset.Data) (dataset.Samples, error),
) (dataset.Samples, error) {
	var out dataset.Samples
	err := p.observe(ctx, op, func(ctx context.Context) error {
		if !p.fitted {
			return ErrNotFitted(p.name, op)
		}
		if data == nil || !data.PredictReady() {
			return ErrNotPredictReady(p.name, op)
		}
		var err error
		out, err = hook(ctx, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
