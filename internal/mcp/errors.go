package mcp

import (
	"errors"
	"fmt"
)

// ErrUnknownTool is wrapped when a call names a tool that is not in the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// ArgumentError reports arguments rejected before any request is sent.
type ArgumentError struct {
	Tool string
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

func unknownTool(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownTool, name)
}
