// Package tooltip shows information about the language item under the
// pointer once the pointer has rested for a while.
//
// The pipeline is a three-state machine:
//
//	IDLE      --motion-->        SCHEDULED (timer armed)
//	SCHEDULED --motion-->        SCHEDULED (timer re-armed)
//	SCHEDULED --timer-->         SHOWING, or IDLE when nothing resolves
//	SHOWING   --motion-->        resolved at once: keep, replace or hide
//	any       --Hide/Close-->    IDLE (window destroyed, timer cancelled)
package tooltip

import (
	"time"

	"github.com/dshills/extedit/internal/parser"
)

// DefaultDelay is how long the pointer must rest before resolving.
const DefaultDelay = 800 * time.Millisecond

// State is the pipeline state.
type State uint8

const (
	StateIdle State = iota
	StateScheduled
	StateShowing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateShowing:
		return "showing"
	default:
		return "unknown"
	}
}

// Result is what was found under the pointer.
type Result struct {
	// Item is the language item, or nil.
	Item parser.LanguageItem
	// ErrorText is error information at the pointer, or "".
	ErrorText string
}

// Empty reports whether nothing was found.
func (r Result) Empty() bool {
	return r.Item == nil && r.ErrorText == ""
}

// Resolver finds what lies under a pointer position.
type Resolver interface {
	Resolve(x, y int) Result
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(x, y int) Result

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(x, y int) Result {
	return f(x, y)
}

// Content is what a tooltip window displays.
type Content struct {
	Item      parser.LanguageItem
	Title     string
	Body      string
	ErrorText string
}

// IsError reports whether the content is only error information.
func (c Content) IsError() bool {
	return c.Item == nil && c.ErrorText != ""
}

// Formatter turns a resolution result into displayable content.
type Formatter func(Result) Content

// DefaultFormatter titles the content with the item summary.
func DefaultFormatter(r Result) Content {
	c := Content{Item: r.Item, ErrorText: r.ErrorText}
	if r.Item != nil {
		c.Title = r.Item.Summary()
	}
	return c
}

// Window is a visible tooltip.
type Window interface {
	Destroy()
}

// Display creates tooltip windows for a pointer position.
type Display interface {
	Show(c Content, x, y int) Window
}
