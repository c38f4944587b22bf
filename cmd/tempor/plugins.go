// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package main

import (
	"encoding/json"
	"maps"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tempor/tempor/pkg/errutil"
	"github.com/tempor/tempor/pkg/params"
	"github.com/tempor/tempor/pkg/plugin"
)

func newListCmd(a *app) *cobra.Command {
	var f plugin.Filter
	var typ string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered plugins",
		Long: `List the full names of registered plugins, optionally restricted to a
plugin type, a category (descendants included) or a name pattern.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.Type = plugin.Type(typ)
			seq, err := a.registry().List(f)
			if err != nil {
				return err
			}
			for k := range seq {
				if typ == "" {
					cmd.Printf("%s\t%s\n", k.Type, k.FullName())
					continue
				}
				cmd.Println(k.FullName())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "plugin type: method or datasource (default all)")
	cmd.Flags().StringVar(&f.Category, "category", "", "only plugins at or below this category")
	cmd.Flags().StringVar(&f.Pattern, "pattern", "", "glob over full names; * stays within a segment, ** crosses dots")
	return cmd
}

// lookup resolves the plugin named by the first argument.
func lookup(a *app, cmd *cobra.Command, args []string) (*plugin.Definition, error) {
	typ, _ := cmd.Flags().GetString("type")
	return a.registry().Lookup(args[0], plugin.Type(typ))
}

func addTypeFlag(cmd *cobra.Command) {
	cmd.Flags().String("type", string(plugin.TypeMethod), "plugin type: method or datasource")
}

type optionInfo struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Default  any    `yaml:"default"`
	Nullable bool   `yaml:"nullable,omitempty"`
	Choices  []any  `yaml:"choices,omitempty"`
	Doc      string `yaml:"doc,omitempty"`
}

type pluginInfo struct {
	Name        string           `yaml:"name"`
	Type        string           `yaml:"type"`
	Version     string           `yaml:"version"`
	Description string           `yaml:"description,omitempty"`
	Capability  string           `yaml:"capability"`
	Options     []optionInfo     `yaml:"options"`
	Space       []map[string]any `yaml:"hyperparameter_space,omitempty"`
}

func describe(reg *plugin.Registry, def *plugin.Definition) (pluginInfo, error) {
	capability, err := reg.Capability(def.Category(), def.Type())
	if err != nil {
		return pluginInfo{}, err
	}
	info := pluginInfo{
		Name:        def.FullName(),
		Type:        string(def.Type()),
		Description: def.Description(),
		Capability:  capability.String(),
	}
	if v := def.Version(); v != nil {
		info.Version = v.String()
	}
	defaults := def.Schema().Defaults()
	for _, opt := range def.Schema().Options() {
		value, _ := defaults.Lookup(opt.Name)
		info.Options = append(info.Options, optionInfo{
			Name:     opt.Name,
			Kind:     opt.Kind.String(),
			Default:  value,
			Nullable: opt.Nullable,
			Choices:  opt.Choices,
			Doc:      opt.Doc,
		})
	}
	info.Space, err = spaceDocs(def.HyperparameterSpace())
	if err != nil {
		return pluginInfo{}, err
	}
	return info, nil
}

// spaceDocs renders descriptors through their JSON form so every entry
// carries its "type".
func spaceDocs(space []params.Descriptor) ([]map[string]any, error) {
	data, err := json.Marshal(space)
	if err != nil {
		return nil, err
	}
	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func newDescribeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <plugin>",
		Short: "Describe a plugin",
		Long:  `Show a plugin's version, capability, options with defaults and hyperparameter space.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookup(a, cmd, args)
			if err != nil {
				return err
			}
			info, err := describe(a.registry(), def)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), info)
		},
	}
	addTypeFlag(cmd)
	return cmd
}

func newSpaceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "space <plugin>",
		Short: "Print a plugin's hyperparameter space as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookup(a, cmd, args)
			if err != nil {
				return err
			}
			space := def.HyperparameterSpace()
			if space == nil {
				space = []params.Descriptor{}
			}
			return writeJSON(cmd.OutOrStdout(), space)
		},
	}
	addTypeFlag(cmd)
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <plugin>",
		Short: "Print the JSON Schema of a plugin's parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookup(a, cmd, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), def.Schema().JSONSchema(def.FullName()))
		},
	}
	addTypeFlag(cmd)
	return cmd
}

func newSampleCmd(a *app) *cobra.Command {
	var (
		seed  uint64
		count int
	)
	cmd := &cobra.Command{
		Use:   "sample <plugin>",
		Short: "Draw random parameter sets from a plugin's hyperparameter space",
		Long: `Draw random configurations from the hyperparameter space. Each one is
validated against the plugin's schema and printed with defaults filled in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookup(a, cmd, args)
			if err != nil {
				return err
			}
			r := rand.New(rand.NewPCG(seed, seed))
			out := make([]map[string]any, 0, count)
			for range count {
				p, err := def.Schema().New(params.Sample(def.HyperparameterSpace(), r))
				if err != nil {
					return err
				}
				out = append(out, p.Map())
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
	addTypeFlag(cmd)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&count, "count", 1, "number of configurations")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var paramsFile string
	cmd := &cobra.Command{
		Use:   "check [plugin]",
		Short: "Check plugins build with their defaults and valid spaces",
		Long: `Without arguments, build every registered plugin with its default
parameters and check its hyperparameter space against its schema. With a
plugin and --params, validate a YAML parameter document for that plugin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				def, err := lookup(a, cmd, args)
				if err != nil {
					return err
				}
				if paramsFile == "" {
					return checkDefinition(def)
				}
				if _, err := readParams(def.Schema(), paramsFile); err != nil {
					return err
				}
				cmd.Printf("ok\t%s\t%s\n", def.FullName(), paramsFile)
				return nil
			}
			return checkAll(cmd, a.registry())
		},
	}
	addTypeFlag(cmd)
	cmd.Flags().StringVar(&paramsFile, "params", "", "YAML parameter document to validate")
	return cmd
}

func checkDefinition(def *plugin.Definition) error {
	if err := params.ValidateSpace(def.Schema(), def.HyperparameterSpace()); err != nil {
		return err
	}
	_, err := def.New(nil)
	return err
}

func checkAll(cmd *cobra.Command, reg *plugin.Registry) error {
	seq, err := reg.List(plugin.Filter{})
	if err != nil {
		return err
	}
	failed := 0
	for k := range seq {
		def, err := reg.Lookup(k.FullName(), k.Type)
		if err == nil {
			err = checkDefinition(def)
		}
		if err != nil {
			failed++
			cmd.Printf("FAIL\t%s\t%v\n", k, err)
			continue
		}
		cmd.Printf("ok\t%s\n", k)
	}
	if failed > 0 {
		return errutil.Configuration().With("failed", failed).Errorf("%d plugins failed the check", failed)
	}
	return nil
}

// readParams reads a YAML parameter document and validates it against
// schema.
func readParams(schema *params.Schema, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errutil.Configuration().With("path", path).Wrapf(err, "read parameter file")
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errutil.Configuration().With("path", path).Wrapf(err, "parse parameter file")
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := schema.ValidateDocument(doc); err != nil {
		return nil, err
	}
	if _, err := schema.New(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseAssignments turns "name=value" pairs into parameter values. Values
// are read as YAML scalars or flow sequences, so "3", "0.5", "true" and
// "[0, 1]" keep their types.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, errutil.Configuration().
				With("assignment", pair).
				Errorf("parameter %q is not of the form name=value", pair)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, errutil.Configuration().With("parameter", name).Wrapf(err, "parse value of %s", name)
		}
		out[name] = v
	}
	return out, nil
}

func mergeParams(base, over map[string]any) map[string]any {
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]any, len(over))
	}
	maps.Copy(out, over)
	return out
}
