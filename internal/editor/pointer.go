package editor

import (
	"context"
	"errors"

	"github.com/dshills/extedit/internal/input/mouse"
	"github.com/dshills/extedit/internal/parser"
	"github.com/dshills/extedit/internal/tooltip"
	"github.com/dshills/extedit/internal/view/coords"
)

// scrollLines is how far one wheel step scrolls.
const scrollLines = 3

// HandleMouse reacts to a pointer event in text view coordinates.
func (e *Editor) HandleMouse(ev mouse.Event) {
	if e.closed {
		return
	}
	x, y := ev.Position.X, ev.Position.Y

	switch ev.Action {
	case mouse.ActionMove:
		e.tips.Motion(x, y)
	case mouse.ActionPress:
		e.tips.Hide()
		offset := e.coords.VisualToOffset(x, y)
		switch ev.Button {
		case mouse.ButtonLeft:
			e.caret.SetOffset(offset)
		case mouse.ButtonRight:
			if e.contextMenu != nil {
				e.contextMenu(offset)
			}
		}
	case mouse.ActionScroll:
		delta := scrollLines
		if ev.Button == mouse.ButtonScrollUp {
			delta = -scrollLines
		}
		e.ScrollBy(delta)
	case mouse.ActionLeave:
		e.PointerLeft()
	}
}

// PointerLeft hides the tooltip when the pointer leaves the text view.
func (e *Editor) PointerLeft() {
	e.tips.Hide()
}

// FocusChanged hides the tooltip whenever the view gains or loses focus.
func (e *Editor) FocusChanged(focused bool) {
	e.tips.Hide()
	e.logger.Debug("focus %v", focused)
}

// ScrollBy scrolls the view by delta lines and hides the tooltip.
func (e *Editor) ScrollBy(delta int) {
	e.tips.Hide()
	s := e.coords.Scroll()
	s.FirstLine = max(0, min(s.FirstLine+delta, e.doc.LineCount()-1))
	e.coords.SetScroll(s)
}

// SetScroll sets the scroll position and hides the tooltip.
func (e *Editor) SetScroll(s coords.Scroll) {
	e.tips.Hide()
	e.coords.SetScroll(s)
}

// resolve finds the language item and error information under a pointer
// position.
func (e *Editor) resolve(x, y int) tooltip.Result {
	offset := e.coords.VisualToOffset(x, y)

	var res tooltip.Result
	if e.diagnostics != nil {
		res.ErrorText = e.diagnostics.ErrorAt(offset)
	}
	if e.parser == nil {
		return res
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.lookupTimeout)
	defer cancel()
	item, err := parser.Lookup(ctx, e.parser, e.fileName, e.doc.Text(), offset)
	switch {
	case errors.Is(err, parser.ErrNoExpression):
	case err != nil:
		e.logger.Debug("lookup at %d: %v", offset, err)
	default:
		res.Item = item
	}
	return res
}
