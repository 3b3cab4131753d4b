package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/vault-mcp/internal/common"
	"github.com/bobmcallan/vault-mcp/internal/vault"
)

// Executor performs one vault request. *vault.Client satisfies it.
type Executor interface {
	Do(ctx context.Context, r vault.Request) (any, error)
}

// Registry is the dispatch table built from a catalog. It is immutable after
// NewRegistry and safe for concurrent calls.
type Registry struct {
	executor Executor
	logger   *common.Logger
	tools    []Tool
	entries  map[string]*entry
}

type entry struct {
	tool      Tool
	resolved  *jsonschema.Resolved
	rawSchema json.RawMessage
}

// NewRegistry resolves every tool schema up front. Duplicate or empty names,
// missing translators and invalid schemas are rejected.
func NewRegistry(executor Executor, logger *common.Logger, tools []Tool) (*Registry, error) {
	r := &Registry{
		executor: executor,
		logger:   logger,
		tools:    make([]Tool, 0, len(tools)),
		entries:  make(map[string]*entry, len(tools)),
	}

	for _, t := range tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool name cannot be empty")
		}
		if _, exists := r.entries[t.Name]; exists {
			return nil, fmt.Errorf("tool %s already registered", t.Name)
		}
		if t.translate == nil {
			return nil, fmt.Errorf("tool %s has no translator", t.Name)
		}
		if t.Schema == nil {
			return nil, fmt.Errorf("tool %s has no input schema", t.Name)
		}
		resolved, err := t.Schema.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true})
		if err != nil {
			return nil, fmt.Errorf("tool %s: resolve schema: %w", t.Name, err)
		}
		raw, err := json.Marshal(t.Schema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: encode schema: %w", t.Name, err)
		}
		r.entries[t.Name] = &entry{tool: t, resolved: resolved, rawSchema: raw}
		r.tools = append(r.tools, t)
	}

	return r, nil
}

// List returns the catalog in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Tool{}, false
	}
	return e.tool, true
}

// InputSchema returns the encoded input schema advertised for name.
func (r *Registry) InputSchema(name string) (json.RawMessage, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.rawSchema, true
}

// Prepare applies defaults, validates and translates args for the named tool
// without sending anything.
func (r *Registry) Prepare(name string, args map[string]any) (vault.Request, error) {
	e, ok := r.entries[name]
	if !ok {
		return vault.Request{}, unknownTool(name)
	}
	return e.prepare(args)
}

func (e *entry) prepare(args map[string]any) (vault.Request, error) {
	in := make(map[string]any, len(args))
	maps.Copy(in, args)

	if err := e.resolved.ApplyDefaults(&in); err != nil {
		return vault.Request{}, &ArgumentError{Tool: e.tool.Name, Err: err}
	}
	if err := e.resolved.Validate(in); err != nil {
		return vault.Request{}, &ArgumentError{Tool: e.tool.Name, Err: err}
	}
	req, err := e.tool.Translate(in)
	if err != nil {
		return vault.Request{}, &ArgumentError{Tool: e.tool.Name, Err: err}
	}
	return req, nil
}

// Call dispatches one invocation. Every failure, including a panic, comes back
// as an error result; Call itself never fails.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (result *mcp.CallToolResult) {
	correlationID, ok := vault.CorrelationID(ctx)
	if !ok {
		correlationID = uuid.NewString()
		ctx = vault.WithCorrelationID(ctx, correlationID)
	}
	logger := r.logger.WithCorrelationId(correlationID)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Str("tool", name).Str("panic", fmt.Sprint(rec)).Msg("tool call panicked")
			result = errorResult(fmt.Errorf("internal error in %s: %v", name, rec))
		}
	}()

	req, err := r.Prepare(name, args)
	if err != nil {
		logger.Warn().Str("tool", name).Str("error", err.Error()).Msg("tool call rejected")
		return errorResult(err)
	}

	start := time.Now()
	value, err := r.executor.Do(ctx, req)
	if err != nil {
		logger.Warn().Str("tool", name).Str("method", req.Method).Str("path", req.Path).Int64("duration_ms", time.Since(start).Milliseconds()).Str("error", err.Error()).Msg("tool call failed")
		return errorResult(err)
	}

	logger.Debug().Str("tool", name).Int64("duration_ms", time.Since(start).Milliseconds()).Msg("tool call complete")
	return successResult(value)
}
