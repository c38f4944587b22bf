// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tempor/tempor/internal/logging"
	"github.com/tempor/tempor/internal/modelstore"
	"github.com/tempor/tempor/internal/observability"
	"github.com/tempor/tempor/pkg/plugin"
	"github.com/tempor/tempor/pkg/tempor"
)

// app carries what the subcommands share once the root command resolved
// its configuration.
type app struct {
	cfg       Config
	registry  func() *plugin.Registry
	openStore func(ctx context.Context, cfg modelstore.Config) (modelstore.Store, error)

	metrics       *prometheus.Registry
	metricsServer *observability.Server
}

// NewRootCmd creates the root command of the tempor CLI.
func NewRootCmd() *cobra.Command {
	a := &app{registry: tempor.Default, openStore: modelstore.Open}

	cmd := &cobra.Command{
		Use:   "tempor",
		Short: "tempor - plugins for temporal machine learning",
		Long: `tempor lists and describes the built-in plugins (methods and data
sources), fits methods on data sources and manages the saved models.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			level, err := logging.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			if err := logging.SetDefault("tempor", version, cfg.Log.Format, level, cmd.ErrOrStderr()); err != nil {
				return err
			}
			a.cfg = cfg
			return a.startMetrics()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.stopMetrics()
		},
	}
	registerConfigFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newListCmd(a),
		newDescribeCmd(a),
		newSpaceCmd(a),
		newSchemaCmd(a),
		newSampleCmd(a),
		newCheckCmd(a),
		newFitCmd(a),
		newPredictCmd(a),
		newModelsCmd(a),
	)
	return cmd
}

func (a *app) startMetrics() error {
	if a.cfg.Metrics.File == "" && a.cfg.Metrics.Addr == "" {
		return nil
	}
	a.metrics = observability.NewRegistry()
	if a.cfg.Metrics.Addr == "" {
		return nil
	}
	a.metricsServer = observability.NewServer(a.cfg.Metrics.Addr, a.metrics)
	_, err := a.metricsServer.Start()
	return err
}

func (a *app) stopMetrics() error {
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Stop(ctx); err != nil {
			return err
		}
	}
	if a.cfg.Metrics.File != "" {
		return observability.WriteTextfile(a.cfg.Metrics.File, a.metrics)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
