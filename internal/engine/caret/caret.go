// Package caret tracks the insertion point of an editing session.
package caret

import (
	"fmt"

	"github.com/dshills/extedit/internal/engine/document"
)

// Caret is an offset into a document with a derived line and column.
// It follows document edits and is always clamped to [0, doc.Len()].
type Caret struct {
	doc    *document.Document
	offset int

	listeners []listener
	nextID    int

	unsubscribe func()
}

type listener struct {
	id int
	fn func()
}

// New creates a caret at offset 0 that follows edits of doc.
func New(doc *document.Document) *Caret {
	c := &Caret{doc: doc}
	c.unsubscribe = doc.OnChange(c.onChange)
	return c
}

// Offset returns the caret offset.
func (c *Caret) Offset() int {
	return c.offset
}

// Line returns the 0-based line of the caret.
func (c *Caret) Line() int {
	return c.doc.OffsetToLine(c.offset)
}

// Column returns the 0-based character column of the caret.
func (c *Caret) Column() int {
	return c.doc.OffsetToLocation(c.offset).Column
}

// Location returns the caret line and column.
func (c *Caret) Location() document.Location {
	return c.doc.OffsetToLocation(c.offset)
}

// SetOffset moves the caret, clamping to the document. Listeners run only
// when the position actually changes.
func (c *Caret) SetOffset(offset int) {
	offset = max(0, min(offset, c.doc.Len()))
	if offset == c.offset {
		return
	}
	c.offset = offset
	c.fire()
}

// SetLocation moves the caret to a line and column.
func (c *Caret) SetLocation(loc document.Location) {
	c.SetOffset(c.doc.LocationToOffset(loc))
}

// MoveBy moves the caret by delta characters.
func (c *Caret) MoveBy(delta int) {
	c.SetOffset(c.offset + delta)
}

// OnPositionChanged registers fn to run whenever the caret moves and
// returns a function that unregisters it.
func (c *Caret) OnPositionChanged(fn func()) (unsubscribe func()) {
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Detach stops following the document.
func (c *Caret) Detach() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// String returns a string representation of the caret.
func (c *Caret) String() string {
	return fmt.Sprintf("Caret(%d %s)", c.offset, c.Location())
}

func (c *Caret) onChange(ev document.ChangeEvent) {
	c.SetOffset(TransformOffset(c.offset, ev))
}

func (c *Caret) fire() {
	for _, l := range append([]listener(nil), c.listeners...) {
		l.fn()
	}
}
