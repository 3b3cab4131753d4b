package mcp

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/vault-mcp/internal/notes"
	"github.com/bobmcallan/vault-mcp/internal/vault"
)

func listDirectory(p listDirectoryParams) (vault.Request, error) {
	q := vault.Query{}.
		Add("path", p.Path).
		Add("recursive", strconv.FormatBool(p.Recursive)).
		Add("limit", strconv.Itoa(p.Limit)).
		Add("offset", strconv.Itoa(p.Offset))
	return vault.Get("/vault/directory", q), nil
}

func readFile(p pathParams) (vault.Request, error) {
	return vault.Get(filePath(p.Path), nil), nil
}

func writeFile(p writeFileParams) (vault.Request, error) {
	return vault.WithBody(http.MethodPost, "/files/write", map[string]any{
		"path":    p.Path,
		"content": p.Content,
		"mode":    p.Mode,
	}), nil
}

func deleteItem(p pathParams) (vault.Request, error) {
	return vault.Delete(filePath(p.Path)), nil
}

// upsertNote optionally lifts a YAML block out of content. Explicit
// front_matter keys override keys parsed from content.
func upsertNote(opts Options) func(upsertNoteParams) (vault.Request, error) {
	return func(p upsertNoteParams) (vault.Request, error) {
		content, matter := p.Content, p.FrontMatter
		if matter == nil {
			matter = map[string]any{}
		}
		if opts.SplitFrontMatter {
			parsed, body, err := notes.SplitFrontMatter(content)
			if err != nil {
				return vault.Request{}, err
			}
			if parsed != nil {
				content = body
				matter = notes.MergeFrontMatter(parsed, matter)
			}
		}
		return vault.WithBody(http.MethodPost, "/notes/upsert", map[string]any{
			"path":         p.Path,
			"content":      content,
			"front_matter": matter,
		}), nil
	}
}

func dailyNote(p dailyNoteParams) (vault.Request, error) {
	return vault.Get("/vault/notes/daily", vault.Query{}.Add("date", p.Date)), nil
}

func recentNotes(p recentNotesParams) (vault.Request, error) {
	return vault.Get("/vault/notes/recent", vault.Query{}.Add("limit", strconv.Itoa(p.Limit))), nil
}

func searchVault(p searchVaultParams) (vault.Request, error) {
	return searchRequest(p.Query, p.Scope, p.PathFilter), nil
}

func searchRequest(query string, scope []string, pathFilter string) vault.Request {
	q := vault.Query{}.
		Add("query", query).
		Add("scope", strings.Join(scope, ","))
	if pathFilter != "" {
		q = q.Add("path_filter", pathFilter)
	}
	return vault.Get("/vault/search", q)
}

func relatedNotes(p relatedNotesParams) (vault.Request, error) {
	q := vault.Query{}.Add("on", strings.Join(p.On, ","))
	return vault.Get("/vault/notes/related/"+vault.PathSegment(p.Path), q), nil
}

func listFiles(noParams) (vault.Request, error) {
	return vault.Get("/files", nil), nil
}

func getFile(p pathParams) (vault.Request, error) {
	return vault.Get(filePath(p.Path), nil), nil
}

func createFile(p fileContentParams) (vault.Request, error) {
	return vault.WithBody(http.MethodPost, "/files", map[string]any{
		"path":    p.Path,
		"content": p.Content,
	}), nil
}

func updateFile(p fileContentParams) (vault.Request, error) {
	return vault.WithBody(http.MethodPut, filePath(p.Path), map[string]any{
		"content": p.Content,
	}), nil
}

func deleteFile(p pathParams) (vault.Request, error) {
	return vault.Delete(filePath(p.Path)), nil
}

// listNotes sends a non-empty search to the multi-scope search endpoint
// with every scope. There is no path filter on this route.
func listNotes(p listNotesParams) (vault.Request, error) {
	if p.Search != "" {
		return searchRequest(p.Search, searchScopes, ""), nil
	}
	return vault.Get("/notes", nil), nil
}

func getNote(p pathParams) (vault.Request, error) {
	return vault.Get(notePath(p.Path), nil), nil
}

func createNote(p createNoteParams) (vault.Request, error) {
	return vault.WithBody(http.MethodPost, "/notes", noteBody{
		Path:        p.Path,
		Content:     p.Content,
		FrontMatter: compactRaw(p.FrontMatter),
	}), nil
}

func updateNote(p updateNoteParams) (vault.Request, error) {
	return vault.WithBody(http.MethodPatch, notePath(p.Path), noteBody{
		Content:     p.Content,
		FrontMatter: compactRaw(p.FrontMatter),
	}), nil
}

func deleteNote(p pathParams) (vault.Request, error) {
	return vault.Delete(notePath(p.Path)), nil
}

func listMetadataKeys(noParams) (vault.Request, error) {
	return vault.Get("/metadata/keys", nil), nil
}

func listMetadataValues(p keyParams) (vault.Request, error) {
	return vault.Get("/metadata/values/"+vault.PathSegment(p.Key), nil), nil
}

func filePath(p string) string { return "/files/" + vault.PathSegment(p) }
func notePath(p string) string { return "/notes/" + vault.PathSegment(p) }

// compactRaw treats a JSON null the same as an absent field.
func compactRaw(raw json.RawMessage) json.RawMessage {
	if string(raw) == "null" {
		return nil
	}
	return raw
}
