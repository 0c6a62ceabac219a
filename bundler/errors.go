package bundler

import (
	"errors"
	"fmt"
)

// ErrContainerNotFound is wrapped in a ParseError when the document has no
// element carrying the configured imports id.
var ErrContainerNotFound = errors.New("bundler: imports container not found")

// IOError is returned when a file cannot be read, written, created or copied.
type IOError struct {
	Op   string // "read", "write", "mkdir", "copy"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("bundler: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ToolFields reports the failed operation to MCP clients.
func (e *IOError) ToolFields() map[string]any {
	return map[string]any{"kind": "io", "op": e.Op, "path": e.Path}
}

// ParseError is returned when the input document cannot be parsed or lacks
// the structure the build needs.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bundler: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) ToolFields() map[string]any {
	return map[string]any{
		"kind":                "parse",
		"path":                e.Path,
		"container_not_found": errors.Is(e.Err, ErrContainerNotFound),
	}
}

func ioErr(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
