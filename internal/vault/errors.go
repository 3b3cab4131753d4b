package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidJSON is wrapped when a successful response body is not valid JSON.
var ErrInvalidJSON = errors.New("vault returned invalid JSON")

// StatusError is returned for any response outside 200-299.
type StatusError struct {
	StatusCode int
	StatusText string
	Detail     string // upstream error message, when the body carries one
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("vault returned %d %s", e.StatusCode, e.StatusText)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// newStatusError keeps the status text exactly as the server sent it.
func newStatusError(code int, status string, body []byte) *StatusError {
	text := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	return &StatusError{
		StatusCode: code,
		StatusText: text,
		Detail:     errorDetail(body),
	}
}

// errorDetail extracts {"detail": "..."} or {"error": "..."} from an error body.
func errorDetail(body []byte) string {
	var errResp struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) != nil {
		return ""
	}
	switch d := errResp.Detail.(type) {
	case string:
		return d
	case nil:
	default:
		if b, err := json.Marshal(d); err == nil {
			return string(b)
		}
	}
	return errResp.Error
}
