// Package tipwindow draws tooltip windows on a terminal screen.
package tipwindow

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/extedit/internal/tooltip"
	"github.com/dshills/extedit/internal/view/coords"
)

// DefaultMaxWidth is the widest a tooltip's text may be before wrapping.
const DefaultMaxWidth = 60

// Rect is a screen rectangle.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Styles are the tcell styles a window is drawn with.
type Styles struct {
	Border tcell.Style
	Title  tcell.Style
	Text   tcell.Style
	Error  tcell.Style
}

// DefaultStyles returns the default tooltip styles.
func DefaultStyles() Styles {
	base := tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	return Styles{
		Border: base.Foreground(tcell.ColorSilver),
		Title:  base.Bold(true),
		Text:   base,
		Error:  base.Foreground(tcell.ColorRed),
	}
}

// Display implements tooltip.Display on a tcell screen.
type Display struct {
	screen   tcell.Screen
	styles   Styles
	maxWidth int
	anchor   func(x, y, width int) coords.Point
	redraw   func(Rect)
	box      lipgloss.Style
	wrap     lipgloss.Style
}

// Option configures a Display.
type Option func(*Display)

// WithStyles sets the drawing styles.
func WithStyles(s Styles) Option {
	return func(d *Display) {
		d.styles = s
	}
}

// WithMaxWidth sets the wrap width of the text.
func WithMaxWidth(n int) Option {
	return func(d *Display) {
		if n > 0 {
			d.maxWidth = n
		}
	}
}

// WithAnchor sets how a window of the given width is placed for a pointer
// position. Resolver.TooltipAnchor is the usual choice.
func WithAnchor(fn func(x, y, width int) coords.Point) Option {
	return func(d *Display) {
		if fn != nil {
			d.anchor = fn
		}
	}
}

// WithRedraw sets a callback that repaints the area a destroyed window
// covered.
func WithRedraw(fn func(Rect)) Option {
	return func(d *Display) {
		d.redraw = fn
	}
}

// New creates a display drawing on screen.
func New(screen tcell.Screen, opts ...Option) *Display {
	d := &Display{
		screen:   screen,
		styles:   DefaultStyles(),
		maxWidth: DefaultMaxWidth,
		anchor: func(x, y, width int) coords.Point {
			return coords.Point{X: x - width/2, Y: y + 1}
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	// The layout renderer writes nowhere, so it never emits escape codes;
	// colours come from the tcell styles.
	r := lipgloss.NewRenderer(io.Discard)
	d.box = r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	d.wrap = r.NewStyle().Width(d.maxWidth)
	return d
}

type rowKind uint8

const (
	rowText rowKind = iota
	rowTitle
	rowError
)

// Layout returns the lines of the box drawn for c.
func (d *Display) Layout(c tooltip.Content) []string {
	lines, _ := d.layoutRows(c)
	return lines
}

func (d *Display) layoutRows(c tooltip.Content) ([]string, []rowKind) {
	var rows []string
	var kinds []rowKind
	add := func(text string, kind rowKind) {
		if text == "" {
			return
		}
		if len(rows) > 0 {
			rows = append(rows, "")
			kinds = append(kinds, rowText)
		}
		if lipgloss.Width(text) > d.maxWidth {
			text = d.wrap.Render(text)
		}
		for _, l := range strings.Split(text, "\n") {
			rows = append(rows, l)
			kinds = append(kinds, kind)
		}
	}
	add(c.Title, rowTitle)
	add(c.Body, rowText)
	add(c.ErrorText, rowError)

	box := d.box.Render(strings.Join(rows, "\n"))
	return strings.Split(box, "\n"), kinds
}

// Show implements tooltip.Display.
func (d *Display) Show(c tooltip.Content, x, y int) tooltip.Window {
	lines, kinds := d.layoutRows(c)
	width := 0
	for _, l := range lines {
		width = max(width, lipgloss.Width(l))
	}
	at := d.anchor(x, y, width)
	rect := d.clamp(Rect{X: at.X, Y: at.Y, Width: width, Height: len(lines)})

	for row, line := range lines {
		style := d.styles.Border
		if i := row - 1; i >= 0 && i < len(kinds) {
			switch kinds[i] {
			case rowTitle:
				style = d.styles.Title
			case rowError:
				style = d.styles.Error
			default:
				style = d.styles.Text
			}
		}
		d.drawLine(rect.X, rect.Y+row, line, width, style)
	}
	d.screen.Show()
	return &window{d: d, rect: rect}
}

func (d *Display) drawLine(x, y int, line string, width int, style tcell.Style) {
	col := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		runes := g.Runes()
		cellStyle := style
		if col == 0 || col >= width-1 {
			cellStyle = d.styles.Border
		}
		d.screen.SetContent(x+col, y, runes[0], runes[1:], cellStyle)
		col += max(1, g.Width())
	}
	for ; col < width; col++ {
		d.screen.SetContent(x+col, y, ' ', nil, style)
	}
}

// clamp keeps r on screen where it fits.
func (d *Display) clamp(r Rect) Rect {
	sw, sh := d.screen.Size()
	if r.X+r.Width > sw {
		r.X = sw - r.Width
	}
	if r.Y+r.Height > sh {
		r.Y = sh - r.Height
	}
	r.X = max(0, r.X)
	r.Y = max(0, r.Y)
	return r
}

type window struct {
	d         *Display
	rect      Rect
	destroyed bool
}

// Destroy clears the window area and asks the host to repaint it.
func (w *window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	for y := w.rect.Y; y < w.rect.Y+w.rect.Height; y++ {
		for x := w.rect.X; x < w.rect.X+w.rect.Width; x++ {
			w.d.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
	if w.d.redraw != nil {
		w.d.redraw(w.rect)
	}
	w.d.screen.Show()
}

// Bounds returns the area the window covers.
func (w *window) Bounds() Rect {
	return w.rect
}
