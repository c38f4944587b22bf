// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tempor/tempor/internal/modelstore"
	"github.com/tempor/tempor/pkg/dataset"
	"github.com/tempor/tempor/pkg/datasource"
	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/method"
	"github.com/tempor/tempor/pkg/plugin"
)

// dataFlags selects the data source a command reads.
type dataFlags struct {
	source string
	params []string
}

func (d *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.source, "data", "", "data source plugin, e.g. prediction.one_off.sine")
	cmd.Flags().StringArrayVar(&d.params, "data-param", nil, "data source parameter name=value (repeatable)")
	_ = cmd.MarkFlagRequired("data")
}

func (d *dataFlags) load(ctx context.Context, reg *plugin.Registry) (*dataset.Dataset, error) {
	values, err := parseAssignments(d.params)
	if err != nil {
		return nil, err
	}
	src, err := plugin.GetAs[datasource.DataSource](reg, d.source, plugin.TypeDataSource, values)
	if err != nil {
		return nil, err
	}
	return src.Load(ctx)
}

func (a *app) store(ctx context.Context) (modelstore.Store, error) {
	return a.openStore(ctx, a.cfg.Store)
}

func newFitCmd(a *app) *cobra.Command {
	var (
		data       dataFlags
		assigns    []string
		paramsFile string
		save       string
	)
	cmd := &cobra.Command{
		Use:   "fit <method>",
		Short: "Fit a method on a data source and save the model",
		Long: `Build a method plugin from --params and --param values, fit it on the
dataset a data source produces and save the fitted instance in the model
store under --save (default: the plugin name).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg := a.registry()
			def, err := reg.Lookup(args[0], plugin.TypeMethod)
			if err != nil {
				return err
			}
			values := map[string]any{}
			if paramsFile != "" {
				if values, err = readParams(def.Schema(), paramsFile); err != nil {
					return err
				}
			}
			over, err := parseAssignments(assigns)
			if err != nil {
				return err
			}
			est, err := plugin.GetAs[method.Estimator](reg, def.FullName(), plugin.TypeMethod, mergeParams(values, over))
			if err != nil {
				return err
			}
			ds, err := data.load(ctx, reg)
			if err != nil {
				return err
			}
			if err := est.Fit(ctx, ds); err != nil {
				return err
			}

			s, err := a.store(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			name := save
			if name == "" {
				name = def.Name()
			}
			art, err := modelstore.SaveModel(ctx, s, name, est)
			if err != nil {
				return err
			}
			cmd.Printf("saved %s (%s, id %s)\n", art.Name, art.Plugin, art.ID)
			return nil
		},
	}
	data.register(cmd)
	cmd.Flags().StringArrayVar(&assigns, "param", nil, "method parameter name=value (repeatable)")
	cmd.Flags().StringVar(&paramsFile, "params", "", "YAML parameter document")
	cmd.Flags().StringVar(&save, "save", "", "model name in the store")
	return cmd
}

func newPredictCmd(a *app) *cobra.Command {
	var (
		data            dataFlags
		proba           bool
		counterfactuals bool
	)
	cmd := &cobra.Command{
		Use:   "predict <model>",
		Short: "Predict with a saved model",
		Long: `Load a saved predictor and print its predictions, class probabilities
(--proba) or counterfactual outcomes (--counterfactuals) for the dataset a
data source produces.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if proba && counterfactuals {
				return errutil.Configuration().Errorf("--proba and --counterfactuals are mutually exclusive")
			}
			ctx := cmd.Context()
			reg := a.registry()

			s, err := a.store(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			est, err := modelstore.LoadModel(ctx, s, reg, args[0])
			if err != nil {
				return err
			}
			p, ok := est.(method.Predictor)
			if !ok {
				return errutil.Unsupported().
					With("plugin", est.Name()).
					Errorf("model %s (%s) is not a predictor", args[0], est.Name())
			}
			ds, err := data.load(ctx, reg)
			if err != nil {
				return err
			}

			var out dataset.Samples
			switch {
			case proba:
				out, err = p.PredictProba(ctx, ds)
			case counterfactuals:
				out, err = p.PredictCounterfactuals(ctx, ds)
			default:
				out, err = p.Predict(ctx, ds)
			}
			if err != nil {
				return err
			}
			return writeSamples(cmd.OutOrStdout(), out)
		},
	}
	data.register(cmd)
	cmd.Flags().BoolVar(&proba, "proba", false, "print class probabilities")
	cmd.Flags().BoolVar(&counterfactuals, "counterfactuals", false, "print outcomes under every treatment")
	return cmd
}

// writeSamples prints one tab-separated row per sample.
func writeSamples(w io.Writer, s dataset.Samples) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	frame := s.Frame()
	fmt.Fprintf(tw, "sample\t%s\n", strings.Join(frame.Names(), "\t"))
	cols := frame.Columns()
	for i, id := range s.SampleIDs() {
		cells := make([]string, len(cols))
		for j, c := range cols {
			if c.IsCategorical() {
				cells[j] = c.Categorical[i]
				continue
			}
			cells[j] = strconv.FormatFloat(c.Numeric[i], 'g', 6, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\n", id, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func newModelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage saved models",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			arts, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPLUGIN\tFITTED\tCREATED")
			for _, art := range arts {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", art.Name, art.Plugin, art.Fitted, art.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
			}
			return tw.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <model>",
		Short: "Delete a saved model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("deleted %s\n", args[0])
			return nil
		},
	})
	return cmd
}
