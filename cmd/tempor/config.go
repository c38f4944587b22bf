// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package main

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/tempor/tempor/internal/logging"
	"github.com/tempor/tempor/internal/modelstore"
	"github.com/tempor/tempor/internal/xdg"
	"github.com/tempor/tempor/pkg/errutil"
)

// Defaults.
const (
	defaultLogLevel    = "warn"
	defaultLogFormat   = logging.FormatText
	defaultStoreDriver = modelstore.DriverFile
)

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsConfig configures metrics export. Both are off when empty.
type MetricsConfig struct {
	// File receives the metrics in Prometheus text format on exit.
	File string `koanf:"file"`
	// Addr serves /metrics while the command runs.
	Addr string `koanf:"addr"`
}

// Config is the resolved CLI configuration: flag defaults, then the YAML
// config file, then flags set on the command line.
type Config struct {
	Log     LogConfig         `koanf:"log"`
	Store   modelstore.Config `koanf:"store"`
	Metrics MetricsConfig     `koanf:"metrics"`
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case logging.FormatJSON, logging.FormatText:
	default:
		return errutil.Configuration().
			With("format", c.Log.Format).
			Errorf("log format must be %q or %q, got %q", logging.FormatJSON, logging.FormatText, c.Log.Format)
	}
	return c.Store.Validate()
}

// registerConfigFlags declares the flags that map onto Config. A flag
// "store-dsn" sets the key "store.dsn".
func registerConfigFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file path (default $XDG_CONFIG_HOME/tempor/config.yaml when present)")
	flags.String("log-level", defaultLogLevel, "log level: debug, info, warn or error")
	flags.String("log-format", defaultLogFormat, "log format: json or text")
	flags.String("store-driver", defaultStoreDriver, "model store: file, bolt or postgres")
	flags.String("store-path", "", "file store directory or bolt database file (default $XDG_DATA_HOME/tempor/models)")
	flags.String("store-dsn", "", "PostgreSQL connection string")
	flags.Bool("store-migrate", false, "apply PostgreSQL migrations when opening the store")
	flags.String("metrics-file", "", "write Prometheus metrics to this file on exit")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
}

// loadConfig resolves Config from the flags and the config file. The
// default config file is optional; an explicit one must exist.
func loadConfig(flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	path, explicit := configPath(flags)
	if _, err := os.Stat(path); explicit || err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, errutil.Configuration().With("path", path).Wrapf(err, "load config file")
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errutil.Configuration().With("path", path).Wrapf(err, "stat config file")
	}

	err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
		if f.Name == "config" {
			return "", nil
		}
		return strings.Replace(f.Name, "-", ".", 1), posflag.FlagVal(flags, f)
	}), nil)
	if err != nil {
		return Config{}, oops.Wrapf(err, "load flags")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, errutil.Configuration().Wrapf(err, "decode config")
	}
	if cfg.Store.Path == "" && cfg.Store.Driver != modelstore.DriverPostgres {
		cfg.Store.Path = xdg.ModelsDir()
		if cfg.Store.Driver == modelstore.DriverBolt {
			cfg.Store.Path += ".db"
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// configPath returns the config file to read and whether it was requested
// explicitly.
func configPath(flags *pflag.FlagSet) (string, bool) {
	if p, _ := flags.GetString("config"); p != "" {
		return p, true
	}
	if p := os.Getenv("TEMPOR_CONFIG"); p != "" {
		return p, true
	}
	return xdg.ConfigFile(), false
}
