package template

import (
	"errors"
	"fmt"
)

// Errors returned when loading templates.
var (
	// ErrFileNotFound indicates the template file doesn't exist.
	ErrFileNotFound = errors.New("template file not found")

	// ErrUnsupportedFormat indicates a file extension with no loader.
	ErrUnsupportedFormat = errors.New("unsupported template format")

	// ErrInvalidTemplate indicates a template that cannot be used.
	ErrInvalidTemplate = errors.New("invalid template")
)

// ParseError reports a template file that is not valid TOML or JSON.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("templates %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("templates %s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
