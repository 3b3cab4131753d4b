package mcp

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/vault-mcp/internal/common"
	"github.com/bobmcallan/vault-mcp/internal/vault"
)

// --- Helpers ---

// recordedRequest is what the fake vault saw.
type recordedRequest struct {
	Method      string
	EscapedPath string
	RawQuery    string
	Query       map[string][]string
	Body        map[string]any
	Header      http.Header
}

// fakeVault records requests and answers with a fixed status and body.
type fakeVault struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func newFakeVault(t *testing.T, status int, body string) *fakeVault {
	t.Helper()
	fv := &fakeVault{status: status, body: body}
	fv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:      r.Method,
			EscapedPath: r.URL.EscapedPath(),
			RawQuery:    r.URL.RawQuery,
			Query:       r.URL.Query(),
			Header:      r.Header.Clone(),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			json.Unmarshal(data, &rec.Body)
		}
		fv.mu.Lock()
		fv.requests = append(fv.requests, rec)
		fv.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fv.status)
		io.WriteString(w, fv.body)
	}))
	t.Cleanup(fv.Close)
	return fv
}

func (fv *fakeVault) last(t *testing.T) recordedRequest {
	t.Helper()
	fv.mu.Lock()
	defer fv.mu.Unlock()
	require.NotEmpty(t, fv.requests, "vault received no requests")
	return fv.requests[len(fv.requests)-1]
}

func (fv *fakeVault) count() int {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	return len(fv.requests)
}

func testRegistry(t *testing.T, exec Executor) *Registry {
	t.Helper()
	reg, err := NewRegistry(exec, common.NewSilentLogger(), Catalog(Options{}))
	require.NoError(t, err)
	return reg
}

// testServer wires the catalog to a fake vault through a real vault client.
func testServer(t *testing.T, fv *fakeVault) (*mcpserver.MCPServer, *Registry) {
	t.Helper()
	client := vault.NewClient(fv.URL, common.NewSilentLogger(), vault.WithAPIKey("test-key"))
	reg := testRegistry(t, client)
	return NewServer(reg, "vault-mcp", "test"), reg
}

// listTools calls tools/list on the MCPServer and returns the tools.
func listTools(t *testing.T, s *mcpserver.MCPServer) []mcpgo.Tool {
	t.Helper()

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolsResult mcpgo.ListToolsResult
	if err := json.Unmarshal(resultJSON, &toolsResult); err != nil {
		t.Fatalf("failed to unmarshal ListToolsResult: %v", err)
	}

	return toolsResult.Tools
}

// callMessage sends tools/call and returns the raw JSON-RPC reply.
func callMessage(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]any) mcpgo.JSONRPCMessage {
	t.Helper()

	params := map[string]any{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":` + string(paramsJSON) + `}`)
	return s.HandleMessage(t.Context(), msg)
}

// callTool calls a tool on the MCPServer and returns the result.
func callTool(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]any) *mcpgo.CallToolResult {
	t.Helper()

	resp, ok := callMessage(t, s, name, args).(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse for %s", name)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolResult mcpgo.CallToolResult
	if err := json.Unmarshal(resultJSON, &toolResult); err != nil {
		t.Fatalf("failed to unmarshal CallToolResult: %v", err)
	}

	return &toolResult
}

// extractText extracts the text field from an MCP content block.
func extractText(t *testing.T, content mcpgo.Content) string {
	t.Helper()
	contentJSON, _ := json.Marshal(content)
	var tc struct {
		Text string `json:"text"`
	}
	json.Unmarshal(contentJSON, &tc)
	return tc.Text
}

func resultText(t *testing.T, r *mcpgo.CallToolResult) string {
	t.Helper()
	require.Len(t, r.Content, 1)
	return extractText(t, r.Content[0])
}

// --- Protocol round trips ---

func TestListTools_MatchesCatalog(t *testing.T) {
	fv := newFakeVault(t, 200, `{}`)
	s, reg := testServer(t, fv)

	tools := listTools(t, s)
	catalog := reg.List()
	require.Len(t, tools, len(catalog))

	listed := make(map[string]mcpgo.Tool, len(tools))
	for _, tool := range tools {
		listed[tool.Name] = tool
	}
	for _, want := range catalog {
		got, ok := listed[want.Name]
		if assert.True(t, ok, "tool %s missing from tools/list", want.Name) {
			assert.Equal(t, want.Description, got.Description)
		}
	}
	assert.Equal(t, 0, fv.count(), "listing must not call the vault")
}

func TestListTools_SchemaAdvertised(t *testing.T) {
	fv := newFakeVault(t, 200, `{}`)
	s, _ := testServer(t, fv)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	resp, ok := s.HandleMessage(t.Context(), msg).(mcpgo.JSONRPCResponse)
	require.True(t, ok)

	// Decode the wire form directly: mcpgo.Tool drops keywords it does not model.
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)

	var listed struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Type                 string                     `json:"type"`
				Required             []string                   `json:"required"`
				Properties           map[string]json.RawMessage `json:"properties"`
				AdditionalProperties *bool                      `json:"additionalProperties"`
			} `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(raw, &listed))
	require.NotEmpty(t, listed.Tools)

	for _, tool := range listed.Tools {
		require.NotNil(t, tool.InputSchema.AdditionalProperties, tool.Name)
		assert.False(t, *tool.InputSchema.AdditionalProperties, tool.Name)
		assert.Equal(t, "object", tool.InputSchema.Type, tool.Name)

		if tool.Name == "write_file" {
			assert.ElementsMatch(t, []string{"path", "content"}, tool.InputSchema.Required)
			assert.Contains(t, string(tool.InputSchema.Properties["mode"]), `"default":"overwrite"`)
		}
	}
}

func TestCallTool_GetDailyNoteRoundTrip(t *testing.T) {
	note := `{"path":"Daily/2026-10-19.md","content":"# Monday\n- ship it","front_matter":{"tags":["daily"],"mood":3}}`
	fv := newFakeVault(t, 200, note)
	s, _ := testServer(t, fv)

	result := callTool(t, s, "get_daily_note", map[string]any{})
	require.False(t, result.IsError, resultText(t, result))

	var got, want map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))
	require.NoError(t, json.Unmarshal([]byte(note), &want))
	assert.Equal(t, want, got)

	assert.True(t, strings.Contains(resultText(t, result), "\n  \""), "expected indented JSON")

	req := fv.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/vault/notes/daily", req.EscapedPath)
	assert.Equal(t, "date=today", req.RawQuery)
}

func TestCallTool_Headers(t *testing.T) {
	fv := newFakeVault(t, 200, `[]`)
	s, _ := testServer(t, fv)

	callTool(t, s, "list_files", nil)

	h := fv.last(t).Header
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "application/json", h.Get("Accept"))
	assert.Equal(t, "Bearer test-key", h.Get("Authorization"))
	assert.NotEmpty(t, h.Get("X-Correlation-ID"))
}

func TestCallTool_NotFoundIsErrorEnvelope(t *testing.T) {
	fv := newFakeVault(t, 404, `{"detail":"Note not found"}`)
	s, _ := testServer(t, fv)

	result := callTool(t, s, "get_note", map[string]any{"path": "missing.md"})

	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.True(t, strings.HasPrefix(text, "Error: "), text)
	assert.Contains(t, text, "404")
	assert.Contains(t, text, "Not Found")
}

func TestCallTool_SlashEncodedAsOneSegment(t *testing.T) {
	tests := []struct {
		tool string
		want string
	}{
		{"read_file", "/files/folder%2Fnote"},
		{"delete_item", "/files/folder%2Fnote"},
		{"get_file", "/files/folder%2Fnote"},
		{"delete_file", "/files/folder%2Fnote"},
		{"get_note", "/notes/folder%2Fnote"},
		{"delete_note", "/notes/folder%2Fnote"},
		{"get_related_notes", "/vault/notes/related/folder%2Fnote"},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			fv := newFakeVault(t, 200, `{}`)
			s, _ := testServer(t, fv)

			result := callTool(t, s, tt.tool, map[string]any{"path": "folder/note"})
			require.False(t, result.IsError, resultText(t, result))
			assert.Equal(t, tt.want, fv.last(t).EscapedPath)
		})
	}
}

func TestCallTool_ListNotesLegacySearch(t *testing.T) {
	t.Run("with search", func(t *testing.T) {
		fv := newFakeVault(t, 200, `{"results":[]}`)
		s, _ := testServer(t, fv)

		result := callTool(t, s, "list_notes", map[string]any{"search": "roadmap"})
		require.False(t, result.IsError, resultText(t, result))

		req := fv.last(t)
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/vault/search", req.EscapedPath)
		assert.Equal(t, []string{"roadmap"}, req.Query["query"])
		assert.Equal(t, []string{"content,filename,tags"}, req.Query["scope"])
		assert.NotContains(t, req.Query, "path_filter")
	})

	t.Run("without search", func(t *testing.T) {
		fv := newFakeVault(t, 200, `[]`)
		s, _ := testServer(t, fv)

		result := callTool(t, s, "list_notes", map[string]any{})
		require.False(t, result.IsError, resultText(t, result))

		req := fv.last(t)
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/notes", req.EscapedPath)
		assert.Empty(t, req.RawQuery)
	})

	t.Run("empty search", func(t *testing.T) {
		fv := newFakeVault(t, 200, `[]`)
		s, _ := testServer(t, fv)

		callTool(t, s, "list_notes", map[string]any{"search": ""})
		assert.Equal(t, "/notes", fv.last(t).EscapedPath)
	})
}

func TestCallTool_WriteFileDefaultMode(t *testing.T) {
	fv := newFakeVault(t, 200, `{"status":"written"}`)
	s, _ := testServer(t, fv)

	result := callTool(t, s, "write_file", map[string]any{"path": "a.md", "content": "hello"})
	require.False(t, result.IsError, resultText(t, result))

	req := fv.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/files/write", req.EscapedPath)
	assert.Equal(t, map[string]any{"path": "a.md", "content": "hello", "mode": "overwrite"}, req.Body)
}

func TestCallTool_RecentNotesDefaultLimit(t *testing.T) {
	fv := newFakeVault(t, 200, `[]`)
	s, _ := testServer(t, fv)

	callTool(t, s, "get_recent_notes", nil)
	assert.Equal(t, "limit=5", fv.last(t).RawQuery)
}

func TestCallTool_InvalidArgumentsNeverReachVault(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"bad enum", "write_file", map[string]any{"path": "a.md", "content": "x", "mode": "sideways"}},
		{"extra field", "read_file", map[string]any{"path": "a.md", "encoding": "utf8"}},
		{"missing required", "search_vault", map[string]any{}},
		{"wrong type", "get_recent_notes", map[string]any{"limit": "five"}},
		{"fractional int", "list_directory", map[string]any{"limit": 2.5}},
		{"empty scope", "search_vault", map[string]any{"query": "x", "scope": []any{}}},
		{"unknown scope", "search_vault", map[string]any{"query": "x", "scope": []any{"body"}}},
		{"empty path", "get_note", map[string]any{"path": ""}},
		{"front matter not object", "create_or_update_note", map[string]any{"path": "a.md", "content": "x", "front_matter": "tags: a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := newFakeVault(t, 200, `{}`)
			s, _ := testServer(t, fv)

			result := callTool(t, s, tt.tool, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), "invalid arguments for "+tt.tool)
			assert.Equal(t, 0, fv.count())
		})
	}
}

func TestCallTool_UnknownToolOverProtocol(t *testing.T) {
	fv := newFakeVault(t, 200, `{}`)
	s, _ := testServer(t, fv)

	reply := callMessage(t, s, "not_a_real_tool", map[string]any{})

	rpcErr, ok := reply.(mcpgo.JSONRPCError)
	require.True(t, ok, "expected JSON-RPC error, got %T", reply)
	assert.Contains(t, rpcErr.Error.Message, "not_a_real_tool")
	assert.Equal(t, 0, fv.count())
}

func TestCallTool_TransportFailureKeepsServing(t *testing.T) {
	client := vault.NewClient("http://127.0.0.1:1", common.NewSilentLogger())
	reg := testRegistry(t, client)
	s := NewServer(reg, "vault-mcp", "test")

	first := callTool(t, s, "list_files", nil)
	assert.True(t, first.IsError)
	assert.Contains(t, resultText(t, first), "vault request failed")

	second := callTool(t, s, "list_metadata_keys", nil)
	assert.True(t, second.IsError)
}

func TestCallTool_InvalidJSONResponse(t *testing.T) {
	fv := newFakeVault(t, 200, `<html>not json</html>`)
	s, _ := testServer(t, fv)

	result := callTool(t, s, "list_files", nil)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "invalid JSON")
}

func TestCallTool_Concurrent(t *testing.T) {
	fv := newFakeVault(t, 200, `{"ok":true}`)
	s, _ := testServer(t, fv)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := json.RawMessage(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"read_file","arguments":{"path":"a.md"}}}`)
			resp, ok := s.HandleMessage(t.Context(), msg).(mcpgo.JSONRPCResponse)
			if !ok {
				t.Errorf("expected JSONRPCResponse")
				return
			}
			if r, ok := resp.Result.(*mcpgo.CallToolResult); ok && r.IsError {
				t.Errorf("unexpected error result")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, fv.count())
}
