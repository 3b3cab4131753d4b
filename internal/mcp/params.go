package mcp

import (
	"bytes"
	"encoding/json"
)

// Typed tool arguments. Defaults are already applied from the input schema
// when these are decoded, so zero values here mean the caller sent them.

type listDirectoryParams struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

type pathParams struct {
	Path string `json:"path"`
}

type keyParams struct {
	Key string `json:"key"`
}

type writeFileParams struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Mode    string `json:"mode"`
}

type upsertNoteParams struct {
	Path        string         `json:"path"`
	Content     string         `json:"content"`
	FrontMatter map[string]any `json:"front_matter"`
}

type dailyNoteParams struct {
	Date string `json:"date"`
}

type recentNotesParams struct {
	Limit int `json:"limit"`
}

type searchVaultParams struct {
	Query      string   `json:"query"`
	Scope      []string `json:"scope"`
	PathFilter string   `json:"path_filter"`
}

type relatedNotesParams struct {
	Path string   `json:"path"`
	On   []string `json:"on"`
}

type noParams struct{}

type fileContentParams struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type listNotesParams struct {
	Search string `json:"search"`
}

// Legacy note arguments keep "not supplied" distinct from empty values.

type createNoteParams struct {
	Path        string          `json:"path"`
	Content     *string         `json:"content"`
	FrontMatter json.RawMessage `json:"front_matter"`
}

type updateNoteParams struct {
	Path        string          `json:"path"`
	Content     *string         `json:"content"`
	FrontMatter json.RawMessage `json:"front_matter"`
}

// noteBody is the legacy note request body. Unset fields are omitted.
type noteBody struct {
	Path        string          `json:"path,omitempty"`
	Content     *string         `json:"content,omitempty"`
	FrontMatter json.RawMessage `json:"front_matter,omitempty"`
}

// decodeArgs converts a validated argument map into a typed parameter struct.
// Unknown fields are rejected.
func decodeArgs(args map[string]any, v any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return strictUnmarshal(data, v)
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
