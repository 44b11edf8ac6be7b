package editor

import (
	"github.com/dshills/extedit/internal/input/key"
)

// Result is what a key handler did with a key.
type Result uint8

const (
	// PassThrough leaves the key to the next handler.
	PassThrough Result = iota
	// Handled consumes the key.
	Handled
	// HandledByDefault consumes the key after running the default
	// insertion or command for it.
	HandledByDefault
)

// KeyHandler is one link of the key chain.
type KeyHandler interface {
	HandleKey(e *Editor, ev key.Event) Result
}

// KeyHandlerFunc adapts a function to KeyHandler.
type KeyHandlerFunc func(e *Editor, ev key.Event) Result

// HandleKey implements KeyHandler.
func (f KeyHandlerFunc) HandleKey(e *Editor, ev key.Event) Result {
	return f(e, ev)
}

// NamedHandler is a KeyHandler with a name for logs and outcomes.
type NamedHandler struct {
	Name    string
	Handler KeyHandler
}

// Named pairs a name with a handler.
func Named(name string, h KeyHandler) NamedHandler {
	return NamedHandler{Name: name, Handler: h}
}

// Outcome reports how a key was dispatched.
type Outcome struct {
	// Handled is true when some handler consumed the key.
	Handled bool
	// DefaultRan is true when the default handling for the key ran.
	DefaultRan bool
	// By names the handler that consumed the key.
	By string
}

// Router passes a key to each handler in order until one consumes it.
type Router struct {
	handlers []NamedHandler
}

// NewRouter creates a router with the given chain.
func NewRouter(handlers ...NamedHandler) *Router {
	return &Router{handlers: handlers}
}

// Handlers returns the chain.
func (r *Router) Handlers() []NamedHandler {
	return append([]NamedHandler(nil), r.handlers...)
}

// Insert adds h before the handler called before, or at the end when there
// is none.
func (r *Router) Insert(before string, h NamedHandler) {
	for i, nh := range r.handlers {
		if nh.Name == before {
			r.handlers = append(r.handlers[:i], append([]NamedHandler{h}, r.handlers[i:]...)...)
			return
		}
	}
	r.handlers = append(r.handlers, h)
}

// Remove drops the handler called name.
func (r *Router) Remove(name string) bool {
	for i, nh := range r.handlers {
		if nh.Name == name {
			r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
			return true
		}
	}
	return false
}

// Dispatch runs the chain for ev.
func (r *Router) Dispatch(e *Editor, ev key.Event) Outcome {
	for _, nh := range r.handlers {
		switch nh.Handler.HandleKey(e, ev) {
		case Handled:
			return Outcome{Handled: true, By: nh.Name}
		case HandledByDefault:
			return Outcome{Handled: true, DefaultRan: true, By: nh.Name}
		}
	}
	return Outcome{}
}

// HandleKey routes a key press through the extension, templates, bracket
// completion and default editing, in that order.
func (e *Editor) HandleKey(ev key.Event) Outcome {
	if e.closed {
		return Outcome{}
	}
	out := e.router.Dispatch(e, ev)
	if out.Handled {
		e.logger.Debug("key %s handled by %s", ev, out.By)
	}
	return out
}
