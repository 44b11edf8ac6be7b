// Package binding maps files to the display binding that can show them.
package binding

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNoBinding is returned when no binding accepts a file.
var ErrNoBinding = errors.New("no display binding")

// Binding can display some kinds of files.
type Binding interface {
	// Name identifies the binding.
	Name() string
	// CanHandleFile reports whether the binding displays fileName.
	CanHandleFile(fileName string) bool
	// CanHandleMimeType reports whether the binding displays mimeType.
	CanHandleMimeType(mimeType string) bool
}

// Registry holds bindings in priority order.
type Registry struct {
	mu       sync.RWMutex
	bindings []Binding
}

// NewRegistry creates a registry with the given bindings.
func NewRegistry(bindings ...Binding) *Registry {
	r := &Registry{}
	for _, b := range bindings {
		r.Register(b)
	}
	return r
}

// Register appends a binding. Earlier bindings win.
func (r *Registry) Register(b Binding) {
	if b == nil {
		return
	}
	r.mu.Lock()
	r.bindings = append(r.bindings, b)
	r.mu.Unlock()
}

// Bindings returns the registered bindings in order.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Binding(nil), r.bindings...)
}

// ForFile returns the first binding for fileName. Bindings are asked by file
// name first, then by the mime type of the file's extension. Remote http
// names are only matched by name.
func (r *Registry) ForFile(fileName string) (Binding, error) {
	bindings := r.Bindings()
	for _, b := range bindings {
		if b.CanHandleFile(fileName) {
			return b, nil
		}
	}

	if !isRemote(fileName) {
		if mt := MimeType(fileName); mt != "" {
			for _, b := range bindings {
				if b.CanHandleMimeType(mt) {
					return b, nil
				}
			}
		}
	}
	return nil, ErrNoBinding
}

// MimeType returns the media type for the file's extension, without
// parameters, or "".
func MimeType(fileName string) string {
	ext := filepath.Ext(fileName)
	if ext == "" {
		return ""
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return ""
	}
	if base, _, err := mime.ParseMediaType(mt); err == nil {
		return base
	}
	return mt
}

func isRemote(fileName string) bool {
	lower := strings.ToLower(fileName)
	return strings.HasPrefix(lower, "http:") || strings.HasPrefix(lower, "https:")
}

// Text is a binding selected by extensions and mime type prefixes.
type Text struct {
	ID         string
	Extensions []string
	MimeTypes  []string
}

// Name implements Binding.
func (t Text) Name() string { return t.ID }

// CanHandleFile implements Binding.
func (t Text) CanHandleFile(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, e := range t.Extensions {
		if e == "*" || strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// CanHandleMimeType implements Binding. A pattern ending in "/" matches
// every subtype.
func (t Text) CanHandleMimeType(mimeType string) bool {
	for _, m := range t.MimeTypes {
		if m == mimeType || (strings.HasSuffix(m, "/") && strings.HasPrefix(mimeType, m)) {
			return true
		}
	}
	return false
}
