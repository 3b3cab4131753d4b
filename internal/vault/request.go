package vault

import (
	"net/http"
	"net/url"
	"strings"
)

// QueryParam is one key/value pair of a query string.
type QueryParam struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters. Encode keeps insertion order.
type Query []QueryParam

// Add appends a parameter and returns the extended query.
func (q Query) Add(key, value string) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

// Get returns the first value for key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Encode renders the query as "k1=v1&k2=v2" in insertion order.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Request is one outbound call to the vault API.
type Request struct {
	Method string
	Path   string // already escaped, relative to the base URL
	Query  Query
	Body   any // nil sends no body
}

// Get builds a GET request.
func Get(path string, query Query) Request {
	return Request{Method: http.MethodGet, Path: path, Query: query}
}

// Delete builds a DELETE request.
func Delete(path string) Request {
	return Request{Method: http.MethodDelete, Path: path}
}

// WithBody builds a request carrying a JSON body.
func WithBody(method, path string, body any) Request {
	return Request{Method: method, Path: path, Body: body}
}

// Target returns path plus encoded query.
func (r Request) Target() string {
	if q := r.Query.Encode(); q != "" {
		return r.Path + "?" + q
	}
	return r.Path
}

// PathSegment escapes s as a single opaque path segment: "folder/note" becomes "folder%2Fnote".
func PathSegment(s string) string {
	return url.PathEscape(s)
}
