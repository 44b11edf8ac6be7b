package app

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

var statusStyle = tcell.StyleDefault.Reverse(true)

// textRows is the number of screen rows showing text; the last row is the
// status line.
func (app *Application) textRows() int {
	_, h := app.screen.Size()
	return h - 1
}

func (app *Application) render() {
	if app.screen == nil || app.editor == nil {
		return
	}
	w, _ := app.screen.Size()
	rows := app.textRows()
	scroll := app.editor.Coords().Scroll()

	app.screen.Clear()
	for row := 0; row < rows; row++ {
		line := scroll.FirstLine + row
		if line >= app.doc.LineCount() {
			break
		}
		app.drawLine(row, app.doc.LineText(line), scroll.FirstColumn, w)
	}

	if rows >= 0 {
		app.drawStatus(rows, w)
	}

	p := app.editor.Coords().OffsetToVisual(app.editor.CaretOffset())
	if p.Y >= 0 && p.Y < rows && p.X >= 0 && p.X < w {
		app.screen.ShowCursor(p.X, p.Y)
	} else {
		app.screen.HideCursor()
	}
	app.screen.Show()
}

// drawLine draws one document line with tabs expanded, starting at display
// cell firstCell.
func (app *Application) drawLine(y int, text string, firstCell, width int) {
	tab := app.config.TabWidth
	cell := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() && cell-firstCell < width {
		if gr.Str() == "\t" {
			cell += tab - cell%tab
			continue
		}
		runes := gr.Runes()
		if x := cell - firstCell; x >= 0 {
			app.screen.SetContent(x, y, runes[0], runes[1:], tcell.StyleDefault)
		}
		cell += max(1, gr.Width())
	}
}

func (app *Application) drawStatus(y, width int) {
	name := "[no name]"
	if app.opts.File != "" {
		name = filepath.Base(app.opts.File)
	}
	loc := app.editor.Caret().Location()
	text := fmt.Sprintf(" %s  %d:%d  %s", name, loc.Line+1, loc.Column+1, app.binding.Name())
	if app.doc.ReadOnly() {
		text += "  [ro]"
	}
	if app.status != "" {
		text += "  " + app.status
	}

	x := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() && x < width {
		runes := gr.Runes()
		app.screen.SetContent(x, y, runes[0], runes[1:], statusStyle)
		x += max(1, gr.Width())
	}
	for ; x < width; x++ {
		app.screen.SetContent(x, y, ' ', nil, statusStyle)
	}
}
