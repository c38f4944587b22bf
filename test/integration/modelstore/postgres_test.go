// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

//go:build integration

package modelstore_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/tempor/tempor/internal/modelstore"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/tempor"
)

var _ = Describe("PostgresStore", Ordered, func() {
	var store modelstore.Store

	BeforeAll(func() {
		var err error
		store, err = modelstore.Open(env.ctx, modelstore.Config{
			Driver:  modelstore.DriverPostgres,
			DSN:     env.dsn,
			Migrate: true,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if store != nil {
			Expect(store.Close()).To(Succeed())
		}
	})

	It("puts, gets and replaces artifacts", func() {
		a := modelstore.Artifact{
			Name:      "first",
			Plugin:    "preprocessing.scaling.temporal.ts_minmax_scaler",
			ID:        method.NewInstanceID().String(),
			CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
			Data:      []byte(`{"format":1}`),
		}
		Expect(store.Put(env.ctx, a)).To(Succeed())

		got, err := store.Get(env.ctx, "first")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Plugin).To(Equal(a.Plugin))
		Expect(got.Data).To(Equal(a.Data))
		Expect(got.CreatedAt).To(BeTemporally("==", a.CreatedAt))

		a.Fitted = true
		Expect(store.Put(env.ctx, a)).To(Succeed())
		got, err = store.Get(env.ctx, "first")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Fitted).To(BeTrue())
	})

	It("lists artifacts without their data", func() {
		arts, err := store.List(env.ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(arts).To(HaveLen(1))
		Expect(arts[0].Name).To(Equal("first"))
		Expect(arts[0].Data).To(BeEmpty())
	})

	It("saves and loads a fitted model", func() {
		ctx := env.ctx
		src, err := tempor.DataSource("prediction.one_off.sine", map[string]any{"no_samples": 10})
		Expect(err).NotTo(HaveOccurred())
		data, err := src.Load(ctx)
		Expect(err).NotTo(HaveOccurred())

		scaler, err := tempor.Transformer("preprocessing.scaling.temporal.ts_standard_scaler", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(scaler.Fit(ctx, data)).To(Succeed())

		art, err := modelstore.SaveModel(ctx, store, "scaler", scaler)
		Expect(err).NotTo(HaveOccurred())
		Expect(art.Fitted).To(BeTrue())

		loaded, err := modelstore.LoadModel(ctx, store, tempor.Default(), "scaler")
		Expect(err).NotTo(HaveOccurred())
		restored, ok := loaded.(method.Transformer)
		Expect(ok).To(BeTrue())

		want, err := scaler.Transform(ctx, data)
		Expect(err).NotTo(HaveOccurred())
		got, err := restored.Transform(ctx, data)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.TimeSeries().Equal(want.TimeSeries())).To(BeTrue())
	})

	It("reports missing artifacts as not found", func() {
		_, err := store.Get(env.ctx, "missing")
		Expect(errutil.Code(err)).To(Equal(errutil.CodeNotFound))

		Expect(store.Delete(env.ctx, "first")).To(Succeed())
		err = store.Delete(env.ctx, "first")
		Expect(errutil.Code(err)).To(Equal(errutil.CodeNotFound))
	})
})

var _ = Describe("Migrator", Ordered, func() {
	var m *modelstore.Migrator

	BeforeAll(func() {
		var err error
		m, err = modelstore.NewMigrator(env.dsn)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if m != nil {
			Expect(m.Close()).To(Succeed())
		}
	})

	It("applies migrations idempotently", func() {
		Expect(m.Up()).To(Succeed())
		Expect(m.Up()).To(Succeed())
		version, dirty, err := m.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(dirty).To(BeFalse())
		Expect(version).To(Equal(uint(1)))
	})

	It("rolls back and re-applies", func() {
		Expect(m.Down()).To(Succeed())
		version, _, err := m.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(0)))
		Expect(m.Up()).To(Succeed())
	})
})
