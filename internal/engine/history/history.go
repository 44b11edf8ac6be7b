// Package history records document changes for undo and redo.
package history

import (
	"errors"
	"fmt"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack.
const DefaultMaxEntries = 1000

// Change is one replacement: Removed was replaced by Inserted at Offset.
type Change struct {
	Offset   int
	Removed  string
	Inserted string
}

// Invert returns the change that undoes c.
func (c Change) Invert() Change {
	return Change{Offset: c.Offset, Removed: c.Inserted, Inserted: c.Removed}
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	switch {
	case c.Removed == "":
		return fmt.Sprintf("Insert(%d, %q)", c.Offset, c.Inserted)
	case c.Inserted == "":
		return fmt.Sprintf("Remove(%d, %q)", c.Offset, c.Removed)
	default:
		return fmt.Sprintf("Replace(%d, %q -> %q)", c.Offset, c.Removed, c.Inserted)
	}
}

// Applier applies a change to the document.
type Applier func(Change) error

// entry is a group of changes undone together, in application order.
type entry []Change

// History manages undo/redo state. It is not safe for concurrent use.
type History struct {
	undoStack []entry
	redoStack []entry

	groupDepth int
	group      entry

	maxEntries int
}

// New creates a history bounded to maxEntries groups.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records a change and clears the redo stack.
func (h *History) Push(c Change) {
	if h.groupDepth > 0 {
		h.group = append(h.group, c)
		return
	}
	h.pushEntry(entry{c})
}

func (h *History) pushEntry(e entry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// BeginGroup starts collecting changes into one undo step. Groups nest;
// only the outermost EndGroup commits.
func (h *History) BeginGroup() {
	h.groupDepth++
}

// EndGroup commits the current group.
func (h *History) EndGroup() {
	if h.groupDepth == 0 {
		return
	}
	h.groupDepth--
	if h.groupDepth == 0 && len(h.group) > 0 {
		h.pushEntry(h.group)
		h.group = nil
	}
}

// CanUndo reports whether there is something to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo reports whether there is something to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Undo reverts the last group through apply.
func (h *History) Undo(apply Applier) error {
	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	for i := len(e) - 1; i >= 0; i-- {
		if err := apply(e[i].Invert()); err != nil {
			return fmt.Errorf("undo %s: %w", e[i], err)
		}
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return nil
}

// Redo reapplies the last undone group through apply.
func (h *History) Redo(apply Applier) error {
	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	for _, c := range e {
		if err := apply(c); err != nil {
			return fmt.Errorf("redo %s: %w", c, err)
		}
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return nil
}

// Clear drops all recorded changes.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.group = nil
	h.groupDepth = 0
}
