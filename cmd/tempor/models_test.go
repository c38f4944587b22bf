// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempor/tempor/pkg/errutil"
)

var smallNet = []string{
	"--param", "n_iter=5",
	"--param", "n_temporal_units_hidden=4",
	"--param", "n_temporal_layers_hidden=1",
	"--param", "n_static_units_hidden=4",
	"--param", "n_static_layers_hidden=1",
	"--param", "batch_size=8",
}

func sineData(source string) []string {
	return []string{"--data", source, "--data-param", "no_samples=12", "--data-param", "seq_len=4"}
}

// dataRows returns the non-header rows of a predict table.
func dataRows(output string) [][]string {
	var rows [][]string
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] == "sample" {
			continue
		}
		rows = append(rows, fields)
	}
	return rows
}

func TestFitPredictModels(t *testing.T) {
	isolate(t)
	store := []string{"--store-path", filepath.Join(t.TempDir(), "models")}

	for _, driver := range []string{"file", "bolt"} {
		t.Run(driver, func(t *testing.T) {
			store := append([]string{"--store-driver", driver}, store...)
			if driver == "bolt" {
				store = []string{"--store-driver", driver, "--store-path", filepath.Join(t.TempDir(), "models.db")}
			}

			args := append([]string{"fit", "prediction.one_off.classification.nn_classifier", "--save", "clf"}, store...)
			args = append(args, sineData("prediction.one_off.sine")...)
			output, err := execute(t, append(args, smallNet...)...)
			require.NoError(t, err)
			assert.Contains(t, output, "saved clf (prediction.one_off.classification.nn_classifier")

			args = append([]string{"predict", "clf"}, store...)
			output, err = execute(t, append(args, sineData("prediction.one_off.sine")...)...)
			require.NoError(t, err)
			assert.Len(t, dataRows(output), 12)
			assert.True(t, strings.HasPrefix(output, "sample"))

			args = append([]string{"predict", "clf", "--proba"}, store...)
			output, err = execute(t, append(args, sineData("prediction.one_off.sine")...)...)
			require.NoError(t, err)
			rows := dataRows(output)
			require.Len(t, rows, 12)
			assert.GreaterOrEqual(t, len(rows[0]), 2, "sample id and one probability per class")

			args = append([]string{"predict", "clf", "--counterfactuals"}, store...)
			_, err = execute(t, append(args, sineData("prediction.one_off.sine")...)...)
			errutil.AssertErrorCode(t, err, errutil.CodeUnsupportedOperation)

			output, err = execute(t, append([]string{"models", "list"}, store...)...)
			require.NoError(t, err)
			assert.Contains(t, output, "clf")
			assert.Contains(t, output, "true")

			output, err = execute(t, append([]string{"models", "delete", "clf"}, store...)...)
			require.NoError(t, err)
			assert.Contains(t, output, "deleted clf")

			_, err = execute(t, append([]string{"models", "delete", "clf"}, store...)...)
			errutil.AssertErrorCode(t, err, errutil.CodeNotFound)
		})
	}
}

func TestFitPredict_Counterfactuals(t *testing.T) {
	isolate(t)
	store := []string{"--store-path", filepath.Join(t.TempDir(), "models")}
	data := sineData("treatments.one_off.dummy_treatments")

	args := append([]string{"fit", "treatments.one_off.regression.nn_tlearner"}, store...)
	args = append(args, data...)
	output, err := execute(t, append(args, smallNet...)...)
	require.NoError(t, err)
	assert.Contains(t, output, "saved nn_tlearner", "model name defaults to the plugin name")

	args = append([]string{"predict", "nn_tlearner", "--counterfactuals"}, store...)
	output, err = execute(t, append(args, data...)...)
	require.NoError(t, err)
	rows := dataRows(output)
	require.Len(t, rows, 12)
	assert.Len(t, rows[0], 3, "sample id and one outcome per arm")
}

func TestFit_Errors(t *testing.T) {
	isolate(t)
	store := []string{"--store-path", filepath.Join(t.TempDir(), "models")}

	tests := []struct {
		name string
		args []string
		code string
	}{
		{
			name: "unknown method",
			args: []string{"fit", "prediction.one_off.classification.nope", "--data", "prediction.one_off.sine"},
			code: errutil.CodeNotFound,
		},
		{
			name: "invalid parameter",
			args: []string{"fit", "preprocessing.scaling.temporal.ts_minmax_scaler", "--data", "prediction.one_off.sine", "--param", "clip=maybe"},
			code: errutil.CodeConfiguration,
		},
		{
			name: "unknown data source",
			args: []string{"fit", "preprocessing.scaling.temporal.ts_minmax_scaler", "--data", "prediction.one_off.nope"},
			code: errutil.CodeNotFound,
		},
		{
			name: "invalid model name",
			args: []string{"fit", "preprocessing.scaling.temporal.ts_minmax_scaler", "--data", "prediction.one_off.sine", "--save", "../escape"},
			code: errutil.CodeConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append(tt.args, store...)...)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestPredict_NotAPredictor(t *testing.T) {
	isolate(t)
	store := []string{"--store-path", filepath.Join(t.TempDir(), "models")}
	data := sineData("prediction.one_off.sine")

	args := append([]string{"fit", "preprocessing.scaling.temporal.ts_minmax_scaler", "--save", "scaler"}, store...)
	_, err := execute(t, append(args, data...)...)
	require.NoError(t, err)

	args = append([]string{"predict", "scaler"}, store...)
	_, err = execute(t, append(args, data...)...)
	errutil.AssertErrorCode(t, err, errutil.CodeUnsupportedOperation)

	args = append([]string{"predict", "missing"}, store...)
	_, err = execute(t, append(args, data...)...)
	errutil.AssertErrorCode(t, err, errutil.CodeNotFound)
}

func TestPredict_ExclusiveOutputs(t *testing.T) {
	isolate(t)
	_, err := execute(t, "predict", "clf", "--proba", "--counterfactuals", "--data", "prediction.one_off.sine")
	errutil.AssertErrorCode(t, err, errutil.CodeConfiguration)
}

func TestFit_MetricsFile(t *testing.T) {
	isolate(t)
	metrics := filepath.Join(t.TempDir(), "tempor.prom")

	args := []string{
		"fit", "preprocessing.scaling.temporal.ts_standard_scaler",
		"--store-path", filepath.Join(t.TempDir(), "models"),
		"--metrics-file", metrics,
	}
	_, err := execute(t, append(args, sineData("prediction.one_off.sine")...)...)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tempor_method_operations_total")
	assert.Contains(t, string(data), `plugin="preprocessing.scaling.temporal.ts_standard_scaler"`)
}
