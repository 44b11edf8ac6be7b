// Package document combines the text buffer and the line index into the
// unit every edit goes through.
//
// A mutation updates the buffer, then the line index, then records the
// change for undo, and only then notifies listeners, so a listener never
// observes a line table that disagrees with the text.
package document

import (
	"errors"
	"fmt"

	"github.com/dshills/extedit/internal/engine/buffer"
	"github.com/dshills/extedit/internal/engine/history"
	"github.com/dshills/extedit/internal/engine/lineindex"
)

// Errors returned by document operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrReadOnly         = errors.New("document is read-only")
)

// LineSegment is re-exported for callers that only import document.
type LineSegment = lineindex.LineSegment

// ErrLineNotFound is returned for line numbers outside the document.
var ErrLineNotFound = lineindex.ErrLineNotFound

// ChangeEvent describes one mutation. Offsets are character offsets.
type ChangeEvent struct {
	Offset         int
	RemovedLength  int
	InsertedLength int
	RemovedText    string
	InsertedText   string
}

// End returns the end of the affected range: the larger of the removed and
// inserted extents measured from Offset.
func (e ChangeEvent) End() int {
	return e.Offset + max(e.RemovedLength, e.InsertedLength)
}

// Delta returns the change in document length.
func (e ChangeEvent) Delta() int {
	return e.InsertedLength - e.RemovedLength
}

// Location is a 0-based line and character column.
type Location struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the location.
func (l Location) String() string {
	return fmt.Sprintf("(%d:%d)", l.Line, l.Column)
}

type listener struct {
	id int
	fn func(ChangeEvent)
}

// Document owns the buffer and its line index. It is not safe for
// concurrent use; callers drive it from a single goroutine.
type Document struct {
	buf   *buffer.Buffer
	index *lineindex.Index

	lineEnding LineEnding
	readOnly   bool

	history *history.History
	undoing bool

	listeners []listener
	nextID    int
}

// New creates a document holding text. Line endings in text are detected
// and normalised to '\n'.
func New(text string, opts ...Option) *Document {
	d := &Document{
		lineEnding: DetectLineEnding(text),
		history:    history.New(history.DefaultMaxEntries),
	}
	for _, opt := range opts {
		opt(d)
	}

	text = normalizeNewlines(text)
	d.buf = buffer.New(text)
	d.index = lineindex.New(text)
	return d
}

// Len returns the number of characters.
func (d *Document) Len() int {
	return d.buf.Len()
}

// Text returns the full content with '\n' line endings.
func (d *Document) Text() string {
	return d.buf.Text()
}

// SaveText returns the content using the document's line ending.
func (d *Document) SaveText() string {
	text := d.buf.Text()
	if d.lineEnding == LineEndingLF {
		return text
	}
	var out []rune
	for _, r := range text {
		if r == '\n' {
			out = append(out, []rune(d.lineEnding.Sequence())...)
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// LineEnding returns the style used by SaveText.
func (d *Document) LineEnding() LineEnding {
	return d.lineEnding
}

// ReadOnly reports whether mutations are rejected.
func (d *Document) ReadOnly() bool {
	return d.readOnly
}

// CharAt returns the character at offset, or false when out of range.
func (d *Document) CharAt(offset int) (rune, bool) {
	return d.buf.CharAt(offset)
}

// TextAt returns up to length characters at offset, clamped to the document.
func (d *Document) TextAt(offset, length int) string {
	return d.buf.TextAt(offset, length)
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return d.index.LineCount()
}

// OffsetToLine returns the 0-based line containing offset, clamped.
func (d *Document) OffsetToLine(offset int) int {
	return d.index.OffsetToLine(offset)
}

// Line returns the segment of line n.
func (d *Document) Line(n int) (LineSegment, error) {
	return d.index.Line(n)
}

// LineText returns the text of line n without its delimiter, or "" when
// the line does not exist.
func (d *Document) LineText(n int) string {
	seg, err := d.index.Line(n)
	if err != nil {
		return ""
	}
	return d.buf.TextAt(seg.Offset, seg.EditableLength())
}

// OffsetToLocation converts an offset to line and column, clamped.
func (d *Document) OffsetToLocation(offset int) Location {
	offset = max(0, min(offset, d.Len()))
	seg := d.index.LineAt(offset)
	return Location{Line: seg.Number, Column: offset - seg.Offset}
}

// LocationToOffset converts a location to an offset. Lines are clamped to
// the document and columns to the editable part of the line.
func (d *Document) LocationToOffset(loc Location) int {
	line := max(0, min(loc.Line, d.index.LineCount()-1))
	seg, _ := d.index.Line(line)
	col := max(0, min(loc.Column, seg.EditableLength()))
	return seg.Offset + col
}

// OnChange registers fn to run after every mutation and returns a function
// that unregisters it.
func (d *Document) OnChange(fn func(ChangeEvent)) (unsubscribe func()) {
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range d.listeners {
			if l.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// Insert inserts text at offset.
func (d *Document) Insert(offset int, text string) error {
	return d.Replace(offset, 0, text)
}

// Remove deletes count characters at offset.
func (d *Document) Remove(offset, count int) error {
	return d.Replace(offset, count, "")
}

// Replace replaces count characters at offset with text. Nothing changes
// and no event fires when the range is invalid or the edit is a no-op.
func (d *Document) Replace(offset, count int, text string) error {
	if d.readOnly {
		return ErrReadOnly
	}
	if offset < 0 || count < 0 || offset+count > d.buf.Len() {
		return fmt.Errorf("%w: [%d,%d) (len %d)", ErrOffsetOutOfRange, offset, offset+count, d.buf.Len())
	}
	text = normalizeNewlines(text)
	if count == 0 && text == "" {
		return nil
	}

	removed, err := d.buf.Remove(offset, count)
	if err != nil {
		return err
	}
	if err := d.buf.Insert(offset, text); err != nil {
		return err
	}
	if err := d.index.Remove(offset, count); err != nil {
		return err
	}
	if err := d.index.Insert(offset, text); err != nil {
		return err
	}

	if !d.undoing {
		d.history.Push(history.Change{Offset: offset, Removed: removed, Inserted: text})
	}

	ev := ChangeEvent{
		Offset:         offset,
		RemovedLength:  count,
		InsertedLength: len([]rune(text)),
		RemovedText:    removed,
		InsertedText:   text,
	}
	for _, l := range append([]listener(nil), d.listeners...) {
		l.fn(ev)
	}
	return nil
}

// SetText replaces the whole content. The change is undoable.
func (d *Document) SetText(text string) error {
	return d.Replace(0, d.Len(), text)
}

// BeginUndoGroup starts grouping subsequent changes into one undo step.
func (d *Document) BeginUndoGroup() {
	d.history.BeginGroup()
}

// EndUndoGroup closes the group opened by BeginUndoGroup.
func (d *Document) EndUndoGroup() {
	d.history.EndGroup()
}

// CanUndo reports whether Undo has work to do.
func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo reports whether Redo has work to do.
func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// Undo reverts the last change group. Listeners see ordinary change events.
func (d *Document) Undo() error {
	return d.replay(d.history.Undo)
}

// Redo reapplies the last undone change group.
func (d *Document) Redo() error {
	return d.replay(d.history.Redo)
}

func (d *Document) replay(run func(history.Applier) error) error {
	d.undoing = true
	defer func() { d.undoing = false }()
	return run(func(c history.Change) error {
		return d.Replace(c.Offset, len([]rune(c.Removed)), c.Inserted)
	})
}
