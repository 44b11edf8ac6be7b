package editor

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/extedit/internal/template"
)

// Text returns the document text.
func (e *Editor) Text() string { return e.doc.Text() }

// CaretOffset returns the caret offset.
func (e *Editor) CaretOffset() int { return e.caret.Offset() }

// SetCaretOffset moves the caret.
func (e *Editor) SetCaretOffset(offset int) { e.caret.SetOffset(offset) }

// InsertText inserts text at the caret and moves the caret past it.
func (e *Editor) InsertText(text string) {
	if err := e.insertAtCaret(text); err != nil {
		e.logger.Warn("insert: %v", err)
	}
}

func (e *Editor) insertAtCaret(text string) error {
	if e.closed {
		return ErrClosed
	}
	offset := e.caret.Offset()
	before := e.doc.Len()
	if err := e.doc.Insert(offset, text); err != nil {
		return err
	}
	e.caret.SetOffset(offset + e.doc.Len() - before)
	return nil
}

// wordStart returns the start of the run of non-space characters ending at
// offset.
func (e *Editor) wordStart(offset int) int {
	for offset > 0 {
		r, ok := e.doc.CharAt(offset - 1)
		if !ok || unicode.IsSpace(r) {
			break
		}
		offset--
	}
	return offset
}

// WordBeforeCaret returns the non-space characters directly before the caret.
func (e *Editor) WordBeforeCaret() string {
	offset := e.caret.Offset()
	start := e.wordStart(offset)
	return e.doc.TextAt(start, offset-start)
}

// DeleteWordBeforeCaret removes the word before the caret and returns the
// offset where it started.
func (e *Editor) DeleteWordBeforeCaret() int {
	offset := e.caret.Offset()
	start := e.wordStart(offset)
	if start < offset {
		if err := e.doc.Remove(start, offset-start); err != nil {
			e.logger.Warn("delete word: %v", err)
			return offset
		}
	}
	return start
}

// LeadingWhitespace returns the whitespace that starts line n.
func (e *Editor) LeadingWhitespace(n int) string {
	text := e.doc.LineText(n)
	for i, r := range text {
		if !unicode.IsSpace(r) {
			return text[:i]
		}
	}
	return text
}

// TemplateGroup returns the templates for the document's file name.
func (e *Editor) TemplateGroup() *template.Group {
	if e.templates == nil {
		return &template.Group{}
	}
	return e.templates.GroupForFile(e.fileName)
}

// IsTemplateKnown reports whether the word before the caret selects exactly
// one template and is not the prefix of another.
func (e *Editor) IsTemplateKnown() bool {
	return e.TemplateGroup().IsKnown(e.WordBeforeCaret())
}

// DoInsertTemplate expands the template whose shortcut is the word before
// the caret. It reports whether one was found.
func (e *Editor) DoInsertTemplate() bool {
	word := e.WordBeforeCaret()
	if word == "" {
		return false
	}
	tpl, ok := e.TemplateGroup().Find(word)
	if !ok {
		return false
	}
	e.InsertTemplate(tpl)
	return true
}

// InsertTemplate replaces the word before the caret with the expansion of
// tpl, indented like the caret line, and places the caret at the template's
// caret marker.
func (e *Editor) InsertTemplate(tpl template.Template) {
	if e.closed || e.doc.ReadOnly() {
		return
	}
	e.doc.BeginUndoGroup()
	defer e.doc.EndUndoGroup()

	offset := e.caret.Offset()
	if e.WordBeforeCaret() != "" {
		offset = e.DeleteWordBeforeCaret()
	}
	exp := template.Expand(tpl, offset, e.LeadingWhitespace(e.caret.Line()))
	if err := e.doc.Insert(offset, exp.Text); err != nil {
		e.logger.Warn("template %q: %v", tpl.Shortcut, err)
		return
	}
	e.caret.SetOffset(exp.CaretOffset)
	e.logger.Debug("expanded template %q", tpl.Shortcut)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
