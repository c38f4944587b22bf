// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

//go:build integration

package integration

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/plugin"
	"github.com/tempor/tempor/pkg/serialization"
	"github.com/tempor/tempor/pkg/tempor"
)

var smallNet = map[string]any{
	"n_iter":                   20,
	"n_temporal_units_hidden":  8,
	"n_temporal_layers_hidden": 1,
	"n_static_units_hidden":    8,
	"n_static_layers_hidden":   1,
	"batch_size":               16,
}

func load(ctx context.Context, name string, values map[string]any) *dataset.Dataset {
	src, err := tempor.DataSource(name, values)
	Expect(err).NotTo(HaveOccurred())
	d, err := src.Load(ctx)
	Expect(err).NotTo(HaveOccurred())
	return d
}

var _ = Describe("Plugin discovery", func() {
	It("registers every built-in plugin under a declared category", func() {
		reg, err := tempor.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		for _, typ := range []plugin.Type{plugin.TypeMethod, plugin.TypeDataSource} {
			names, err := reg.Names(plugin.Filter{Type: typ})
			Expect(err).NotTo(HaveOccurred())
			Expect(names).NotTo(BeEmpty())
			for _, name := range names {
				def, err := reg.Lookup(name, typ)
				Expect(err).NotTo(HaveOccurred())
				_, err = reg.Capability(def.Category(), typ)
				Expect(err).NotTo(HaveOccurred())
			}
		}
	})

	It("imports a namespace only once", func() {
		l, err := tempor.New()
		Expect(err).NotTo(HaveOccurred())
		ctx := context.Background()

		first, err := l.ImportPlugins(ctx, "methods.prediction")
		Expect(err).NotTo(HaveOccurred())
		second, err := l.ImportPlugins(ctx, "methods.prediction")
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))

		names, err := l.Registry().Names(plugin.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(names).To(ConsistOf(
			"prediction.one_off.classification.nn_classifier",
			"prediction.one_off.regression.nn_regressor",
		))
	})
})

var _ = Describe("Preprocess, fit and predict", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("scales then classifies sine series", func() {
		data := load(ctx, "prediction.one_off.sine", map[string]any{"no_samples": 40, "seq_len": 5})

		scaler, err := tempor.Transformer("preprocessing.scaling.temporal.ts_minmax_scaler", nil)
		Expect(err).NotTo(HaveOccurred())
		scaled, err := scaler.FitTransform(ctx, data)
		Expect(err).NotTo(HaveOccurred())

		clf, err := tempor.Predictor("prediction.one_off.classification.nn_classifier", smallNet)
		Expect(err).NotTo(HaveOccurred())
		preds, err := clf.FitPredict(ctx, scaled)
		Expect(err).NotTo(HaveOccurred())
		Expect(preds.SampleIDs()).To(Equal(data.TimeSeries().SampleIDs()))

		proba, err := clf.PredictProba(ctx, scaled)
		Expect(err).NotTo(HaveOccurred())
		Expect(proba.Len()).To(Equal(40))
	})

	It("estimates counterfactual outcomes", func() {
		data := load(ctx, "treatments.one_off.dummy_treatments", map[string]any{"no_samples": 60, "seq_len": 4})

		scaler, err := tempor.Transformer("preprocessing.scaling.static.static_minmax_scaler", nil)
		Expect(err).NotTo(HaveOccurred())
		scaled, err := scaler.FitTransform(ctx, data)
		Expect(err).NotTo(HaveOccurred())

		learner, err := tempor.Predictor("treatments.one_off.regression.nn_tlearner", smallNet)
		Expect(err).NotTo(HaveOccurred())
		Expect(learner.Fit(ctx, scaled)).To(Succeed())

		cf, err := learner.PredictCounterfactuals(ctx, scaled)
		Expect(err).NotTo(HaveOccurred())
		Expect(cf.Frame().Names()).To(Equal([]string{"label_0", "label_1"}))
	})

	It("reports invalid state before unsupported operations", func() {
		reg, err := tempor.Predictor("prediction.one_off.regression.nn_regressor", smallNet)
		Expect(err).NotTo(HaveOccurred())
		data := load(ctx, "prediction.one_off.sine_regression", map[string]any{"no_samples": 10})

		_, err = reg.PredictProba(ctx, data)
		Expect(errutil.Code(err)).To(Equal(errutil.CodeInvalidState))

		Expect(reg.Fit(ctx, data)).To(Succeed())
		_, err = reg.PredictProba(ctx, data)
		Expect(errutil.Code(err)).To(Equal(errutil.CodeUnsupportedOperation))
	})
})

var _ = Describe("Serialization", func() {
	It("restores a fitted model that predicts identically", func() {
		ctx := context.Background()
		data := load(ctx, "prediction.one_off.sine_regression", map[string]any{"no_samples": 30, "seq_len": 4})

		src, err := tempor.Predictor("prediction.one_off.regression.nn_regressor", smallNet)
		Expect(err).NotTo(HaveOccurred())
		Expect(src.Fit(ctx, data)).To(Succeed())

		path := filepath.Join(GinkgoT().TempDir(), "regressor.json")
		Expect(serialization.SaveToFile(path, src)).To(Succeed())
		loaded, err := serialization.LoadFromFile(path)
		Expect(err).NotTo(HaveOccurred())

		dst, ok := loaded.(method.Predictor)
		Expect(ok).To(BeTrue())
		want, err := src.Predict(ctx, data)
		Expect(err).NotTo(HaveOccurred())
		got, err := dst.Predict(ctx, data)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Frame().Equal(want.Frame())).To(BeTrue())
	})
})
