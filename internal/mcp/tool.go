package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/bobmcallan/vault-mcp/internal/vault"
)

// Tool is one catalog entry: what is advertised to clients and how a call
// becomes a vault request. Listing and dispatch both read the same value.
type Tool struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema

	translate func(args map[string]any) (vault.Request, error)
}

// defineTool binds a schema to a typed translator. Arguments are decoded
// strictly into P before build runs.
func defineTool[P any](name, description string, schema *jsonschema.Schema, build func(P) (vault.Request, error)) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Schema:      schema,
		translate: func(args map[string]any) (vault.Request, error) {
			var p P
			if err := decodeArgs(args, &p); err != nil {
				return vault.Request{}, fmt.Errorf("decode arguments: %w", err)
			}
			return build(p)
		},
	}
}

// Translate maps already validated arguments to the vault request for this tool.
func (t Tool) Translate(args map[string]any) (vault.Request, error) {
	if t.translate == nil {
		return vault.Request{}, fmt.Errorf("tool %s has no translator", t.Name)
	}
	return t.translate(args)
}
