package document

import "github.com/dshills/extedit/internal/engine/history"

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithLineEnding overrides the detected line ending.
func WithLineEnding(le LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = le
	}
}

// WithReadOnly rejects every mutation with ErrReadOnly.
func WithReadOnly(readOnly bool) Option {
	return func(d *Document) {
		d.readOnly = readOnly
	}
}

// WithMaxUndoEntries bounds the undo history.
func WithMaxUndoEntries(n int) Option {
	return func(d *Document) {
		d.history = history.New(n)
	}
}
