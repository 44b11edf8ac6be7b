// Package extension defines the capability a language binding attaches to
// an editor session to observe edits and intercept keys.
package extension

import "github.com/dshills/extedit/internal/input/key"

// Extension receives editor notifications. An editor has at most one.
type Extension interface {
	// CursorPositionChanged runs after the caret moved.
	CursorPositionChanged()
	// TextChanged runs after an edit touching [start, end).
	TextChanged(start, end int)
	// KeyPress sees every key first. Returning true means the extension
	// handled it and the editor does nothing more.
	KeyPress(ev key.Event) bool
}

// Funcs builds an Extension from optional functions.
type Funcs struct {
	OnCursor func()
	OnText   func(start, end int)
	OnKey    func(ev key.Event) bool
}

// CursorPositionChanged implements Extension.
func (f Funcs) CursorPositionChanged() {
	if f.OnCursor != nil {
		f.OnCursor()
	}
}

// TextChanged implements Extension.
func (f Funcs) TextChanged(start, end int) {
	if f.OnText != nil {
		f.OnText(start, end)
	}
}

// KeyPress implements Extension.
func (f Funcs) KeyPress(ev key.Event) bool {
	if f.OnKey != nil {
		return f.OnKey(ev)
	}
	return false
}

// Recorder is an Extension that records notifications and handles the keys
// its Consume function accepts.
type Recorder struct {
	Consume func(ev key.Event) bool

	Keys    []key.Event
	Changes [][2]int
	Moves   int
}

// CursorPositionChanged implements Extension.
func (r *Recorder) CursorPositionChanged() {
	r.Moves++
}

// TextChanged implements Extension.
func (r *Recorder) TextChanged(start, end int) {
	r.Changes = append(r.Changes, [2]int{start, end})
}

// KeyPress implements Extension.
func (r *Recorder) KeyPress(ev key.Event) bool {
	r.Keys = append(r.Keys, ev)
	return r.Consume != nil && r.Consume(ev)
}
