package editor

import (
	"strings"

	"github.com/dshills/extedit/internal/engine/document"
	"github.com/dshills/extedit/internal/input/key"
)

// pageLines is how far PageUp and PageDown move.
const pageLines = 20

// closers maps the characters that get a matching closer.
var closers = map[rune]rune{
	'{':  '}',
	'[':  ']',
	'(':  ')',
	'<':  '>',
	'\'': '\'',
	'"':  '"',
}

func extensionKey(e *Editor, ev key.Event) Result {
	if e.ext != nil && e.ext.KeyPress(ev) {
		return Handled
	}
	return PassThrough
}

// templateKey expands a known shortcut in place of any typed character. Tab
// inserts an exactly matching template even when automatic insertion is off
// or the shortcut is ambiguous.
func templateKey(e *Editor, ev key.Event) Result {
	switch {
	case ev.Is(key.KeyTab):
		if e.DoInsertTemplate() {
			return Handled
		}
	case ev.IsChar():
		if e.opts.AutoInsertTemplates && e.IsTemplateKnown() && e.DoInsertTemplate() {
			return Handled
		}
	}
	return PassThrough
}

func bracketKey(e *Editor, ev key.Event) Result {
	if !e.opts.AutoInsertMatchingBracket || !ev.IsChar() {
		return PassThrough
	}
	closer, ok := closers[ev.Rune]
	if !ok {
		return PassThrough
	}

	e.doc.BeginUndoGroup()
	defer e.doc.EndUndoGroup()

	if ev.Rune == '{' {
		e.insertBraceBlock()
		return HandledByDefault
	}
	if err := e.insertAtCaret(string(ev.Rune)); err != nil {
		e.logger.Warn("insert %q: %v", ev.Rune, err)
		return Handled
	}
	if err := e.doc.Insert(e.caret.Offset(), string(closer)); err != nil {
		e.logger.Warn("insert %q: %v", closer, err)
	}
	return HandledByDefault
}

// insertBraceBlock opens a block: the brace, an indented empty line holding
// the caret, and the closing brace on its own line at the current indent.
func (e *Editor) insertBraceBlock() {
	indent := e.LeadingWhitespace(e.caret.Line())
	inner := indent + e.opts.IndentString
	offset := e.caret.Offset()

	text := "{\n" + inner + "\n" + indent + "}"
	if err := e.doc.Insert(offset, text); err != nil {
		e.logger.Warn("insert block: %v", err)
		return
	}
	e.caret.SetOffset(offset + 2 + runeLen(inner))
}

func defaultKey(e *Editor, ev key.Event) Result {
	if ev.IsChar() {
		return e.result(e.insertAtCaret(string(ev.Rune)))
	}
	if ev.IsRune() && ev.Modifiers.Has(key.ModCtrl) {
		switch ev.Rune {
		case 'z', 'Z':
			if ev.Modifiers.Has(key.ModShift) {
				return e.result(e.doc.Redo())
			}
			return e.result(e.doc.Undo())
		case 'y', 'Y':
			return e.result(e.doc.Redo())
		}
		return PassThrough
	}

	mods := ev.Modifiers.Without(key.ModShift)
	if mods != key.ModNone {
		return PassThrough
	}

	switch ev.Key {
	case key.KeyEnter:
		return e.result(e.insertAtCaret("\n" + e.indentBeforeCaret()))
	case key.KeyTab:
		return e.result(e.insertAtCaret(e.opts.IndentString))
	case key.KeyBackspace:
		return e.result(e.backspace())
	case key.KeyDelete:
		offset := e.caret.Offset()
		if offset >= e.doc.Len() {
			return HandledByDefault
		}
		return e.result(e.doc.Remove(offset, 1))
	case key.KeyLeft:
		e.caret.MoveBy(-1)
	case key.KeyRight:
		e.caret.MoveBy(1)
	case key.KeyUp:
		e.moveLines(-1)
	case key.KeyDown:
		e.moveLines(1)
	case key.KeyPageUp:
		e.moveLines(-pageLines)
	case key.KeyPageDown:
		e.moveLines(pageLines)
	case key.KeyHome:
		e.home()
	case key.KeyEnd:
		loc := e.caret.Location()
		e.caret.SetLocation(document.Location{Line: loc.Line, Column: runeLen(e.doc.LineText(loc.Line))})
	default:
		return PassThrough
	}
	return HandledByDefault
}

func (e *Editor) result(err error) Result {
	if err != nil {
		e.logger.Debug("edit: %v", err)
	}
	return HandledByDefault
}

// indentBeforeCaret is the caret line's leading whitespace, cut at the caret.
func (e *Editor) indentBeforeCaret() string {
	indent := e.LeadingWhitespace(e.caret.Line())
	if col := e.caret.Column(); col < runeLen(indent) {
		return string([]rune(indent)[:col])
	}
	return indent
}

// backspace deletes the character before the caret, or an empty bracket
// pair around it.
func (e *Editor) backspace() error {
	offset := e.caret.Offset()
	if offset == 0 {
		return nil
	}
	count := 1
	prev, _ := e.doc.CharAt(offset - 1)
	if closer, ok := closers[prev]; ok {
		if next, ok := e.doc.CharAt(offset); ok && next == closer {
			count = 2
		}
	}
	return e.doc.Remove(offset-1, count)
}

func (e *Editor) moveLines(delta int) {
	loc := e.caret.Location()
	line := max(0, min(loc.Line+delta, e.doc.LineCount()-1))
	e.caret.SetLocation(document.Location{Line: line, Column: loc.Column})
}

// home toggles between the first non-space character and column 0.
func (e *Editor) home() {
	loc := e.caret.Location()
	indent := runeLen(e.LeadingWhitespace(loc.Line))
	if strings.TrimSpace(e.doc.LineText(loc.Line)) == "" || loc.Column == indent {
		indent = 0
	}
	e.caret.SetLocation(document.Location{Line: loc.Line, Column: indent})
}
