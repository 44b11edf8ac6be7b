// Package luaext implements an editor extension scripted in Lua.
//
// A script may define any of these globals:
//
//	on_key(name, char, mods)   -- return true to consume the key
//	on_text_changed(start, end)
//	on_cursor_moved()
//
// and may call the editor module:
//
//	editor.insert(text)        -- insert at the caret
//	editor.caret()             -- caret offset
//	editor.set_caret(offset)
//	editor.text()              -- whole document
//	editor.log(message)
package luaext

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/extedit/internal/input/key"
	"github.com/dshills/extedit/internal/logging"
)

// Host is the editor surface a script can use.
type Host interface {
	InsertText(text string)
	CaretOffset() int
	SetCaretOffset(offset int)
	Text() string
}

// Extension is a Lua-scripted extension.Extension.
type Extension struct {
	state  *State
	host   Host
	logger *logging.Logger
}

// Option configures an Extension.
type Option func(*config)

type config struct {
	timeout time.Duration
	logger  *logging.Logger
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for script errors and editor.log.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an extension with no script loaded.
func New(host Host, opts ...Option) *Extension {
	cfg := config{timeout: DefaultTimeout, logger: logging.Null()}
	for _, opt := range opts {
		opt(&cfg)
	}
	e := &Extension{
		state:  newState(cfg.timeout),
		host:   host,
		logger: cfg.logger.WithComponent("lua"),
	}
	e.installEditorModule()
	return e
}

// LoadString runs a script.
func (e *Extension) LoadString(code string) error {
	return e.state.DoString(code)
}

// LoadFile runs a script file.
func (e *Extension) LoadFile(path string) error {
	return e.state.DoFile(path)
}

// Close releases the Lua state. Later notifications are ignored.
func (e *Extension) Close() {
	e.state.Close()
}

func (e *Extension) installEditorModule() {
	L := e.state.L
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"insert": func(L *lua.LState) int {
			e.host.InsertText(L.CheckString(1))
			return 0
		},
		"caret": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.host.CaretOffset()))
			return 1
		},
		"set_caret": func(L *lua.LState) int {
			e.host.SetCaretOffset(L.CheckInt(1))
			return 0
		},
		"text": func(L *lua.LState) int {
			L.Push(lua.LString(e.host.Text()))
			return 1
		},
		"log": func(L *lua.LState) int {
			e.logger.Info("%s", L.CheckString(1))
			return 0
		},
	})
	L.SetGlobal("editor", mod)
}

// KeyPress implements extension.Extension. Script errors leave the key
// unhandled.
func (e *Extension) KeyPress(ev key.Event) bool {
	if !e.state.HasFunction("on_key") {
		return false
	}
	name := ev.Key.String()
	char := ""
	if ev.IsRune() {
		char = string(ev.Rune)
	}
	ret, err := e.state.Call("on_key", lua.LString(name), lua.LString(char), lua.LString(ev.Modifiers.String()))
	if err != nil {
		e.logger.Error("on_key: %v", err)
		return false
	}
	return lua.LVAsBool(ret)
}

// TextChanged implements extension.Extension.
func (e *Extension) TextChanged(start, end int) {
	e.notify("on_text_changed", lua.LNumber(start), lua.LNumber(end))
}

// CursorPositionChanged implements extension.Extension.
func (e *Extension) CursorPositionChanged() {
	e.notify("on_cursor_moved")
}

func (e *Extension) notify(fn string, args ...lua.LValue) {
	if !e.state.HasFunction(fn) {
		return
	}
	if _, err := e.state.Call(fn, args...); err != nil {
		e.logger.Error("%s: %v", fn, err)
	}
}
