package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/extedit/internal/input/key"
	"github.com/dshills/extedit/internal/input/mouse"
)

// handleEvent runs on the loop goroutine.
func (app *Application) handleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		app.handleKey(key.FromTcell(e))
	case *tcell.EventMouse:
		app.handleMouse(app.mouse.FromTcell(e))
	case *tcell.EventResize:
		app.screen.Sync()
		app.editor.Tooltip().Hide()
		app.render()
	case *tcell.EventFocus:
		app.editor.FocusChanged(e.Focused)
		app.render()
	}
}

func (app *Application) handleKey(ev key.Event) {
	if ev.IsRune() && ev.Modifiers.Has(key.ModCtrl) {
		switch ev.Rune {
		case 'q':
			app.Quit()
			return
		case 's':
			if err := app.Save(); err != nil {
				app.status = "save: " + err.Error()
			} else {
				app.status = "saved"
			}
			app.render()
			return
		}
	}

	// A visible tooltip would be painted over by the redraw below.
	app.editor.Tooltip().Hide()
	out := app.editor.HandleKey(ev)
	if !out.Handled {
		app.logger.Debug("unhandled key %s", ev)
	}
	app.scrollToCaret()
	app.render()
}

func (app *Application) handleMouse(ev mouse.Event) {
	if ev.Position.Y >= app.textRows() {
		if app.inside {
			app.inside = false
			app.editor.HandleMouse(mouse.Event{Action: mouse.ActionLeave, Timestamp: ev.Timestamp})
		}
		return
	}
	app.inside = true

	app.editor.HandleMouse(ev)
	if ev.Action != mouse.ActionMove {
		app.render()
	}
}

// scrollToCaret scrolls the view so the caret line is visible.
func (app *Application) scrollToCaret() {
	rows := app.textRows()
	if rows <= 0 {
		return
	}
	s := app.editor.Coords().Scroll()
	line := app.editor.Caret().Line()
	switch {
	case line < s.FirstLine:
		s.FirstLine = line
	case line >= s.FirstLine+rows:
		s.FirstLine = line - rows + 1
	default:
		return
	}
	app.editor.SetScroll(s)
}
