package mcp

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// JSON Schema building blocks for tool inputs.

// property is one named entry of an object schema.
type property struct {
	name     string
	schema   *jsonschema.Schema
	required bool
}

func ptr[T any](v T) *T { return &v }

// falseSchema rejects every value; used for additionalProperties.
func falseSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}

// objectSchema builds a closed object schema. Properties render in argument order.
func objectSchema(props ...property) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:                 "object",
		Properties:           make(map[string]*jsonschema.Schema, len(props)),
		AdditionalProperties: falseSchema(),
	}
	for _, p := range props {
		s.Properties[p.name] = p.schema
		s.PropertyOrder = append(s.PropertyOrder, p.name)
		if p.required {
			s.Required = append(s.Required, p.name)
		}
	}
	return s
}

func stringProp(name, description string) property {
	return property{name: name, schema: &jsonschema.Schema{Type: "string", Description: description}}
}

// pathProp is a non-empty vault path or key.
func pathProp(name, description string) property {
	p := stringProp(name, description)
	p.schema.MinLength = ptr(1)
	return p
}

func boolProp(name, description string) property {
	return property{name: name, schema: &jsonschema.Schema{Type: "boolean", Description: description}}
}

func intProp(name, description string, minimum float64) property {
	return property{name: name, schema: &jsonschema.Schema{
		Type:        "integer",
		Description: description,
		Minimum:     ptr(minimum),
	}}
}

func enumProp(name, description string, values ...string) property {
	return property{name: name, schema: &jsonschema.Schema{
		Type:        "string",
		Description: description,
		Enum:        enumValues(values),
	}}
}

// setProp is a non-empty list of distinct values drawn from values.
func setProp(name, description string, values ...string) property {
	return property{name: name, schema: &jsonschema.Schema{
		Type:        "array",
		Description: description,
		Items:       &jsonschema.Schema{Type: "string", Enum: enumValues(values)},
		MinItems:    ptr(1),
		UniqueItems: true,
	}}
}

func objectProp(name, description string) property {
	return property{name: name, schema: &jsonschema.Schema{Type: "object", Description: description}}
}

func (p property) require() property {
	p.required = true
	return p
}

// withDefault records the value filled in when the argument is omitted.
func (p property) withDefault(v any) property {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	p.schema.Default = raw
	return p
}

func enumValues(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
