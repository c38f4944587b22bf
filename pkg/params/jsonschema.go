// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package params

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/tempor/tempor/pkg/errutil"
)

// JSONSchema renders the schema as a JSON Schema object document.
// Unknown properties are rejected, matching Schema.New.
func (s *Schema) JSONSchema(title string) *jsonschema.Schema {
	root := &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                title,
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
	for _, opt := range s.options {
		root.Properties.Set(opt.Name, optionSchema(opt))
	}
	return root
}

func optionSchema(opt Option) *jsonschema.Schema {
	value := &jsonschema.Schema{}
	switch opt.Kind {
	case KindInt:
		value.Type = "integer"
	case KindFloat:
		value.Type = "number"
	case KindBool:
		value.Type = "boolean"
	case KindString:
		value.Type = "string"
	case KindStrings:
		value.Type = "array"
		value.Items = &jsonschema.Schema{Type: "string"}
	case KindFloats:
		value.Type = "array"
		value.Items = &jsonschema.Schema{Type: "number"}
	}
	if len(opt.Choices) > 0 {
		value.Enum = opt.Choices
	}

	prop := value
	if opt.Nullable {
		prop = &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{value, {Type: "null"}},
		}
	}
	prop.Description = opt.Doc
	prop.Default = opt.Default
	return prop
}

// ValidateDocument validates a decoded JSON or YAML parameter document
// against the schema's JSON Schema rendering.
func (s *Schema) ValidateDocument(doc any) error {
	sch, err := s.compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(toJSONTypes(doc)); err != nil {
		return errutil.Configuration().
			With("operation", "validate parameter document").
			Wrap(err)
	}
	return nil
}

func (s *Schema) compiledSchema() (*jschema.Schema, error) {
	s.compileOnce.Do(func() {
		data, err := json.Marshal(s.JSONSchema("params"))
		if err != nil {
			s.compileErr = fmt.Errorf("failed to marshal schema: %w", err)
			return
		}
		var schemaData any
		if err := json.Unmarshal(data, &schemaData); err != nil {
			s.compileErr = fmt.Errorf("failed to parse schema JSON: %w", err)
			return
		}
		c := jschema.NewCompiler()
		if err := c.AddResource("params.json", schemaData); err != nil {
			s.compileErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		s.compiled, s.compileErr = c.Compile("params.json")
	})
	return s.compiled, s.compileErr
}

// toJSONTypes converts YAML-decoded values to the types the validator
// understands.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toJSONTypes(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = toJSONTypes(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toJSONTypes(item)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case []float64:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case int:
		return float64(val)
	default:
		return val
	}
}
