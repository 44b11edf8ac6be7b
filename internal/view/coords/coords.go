// Package coords maps between pointer coordinates in the text view and
// document offsets.
package coords

import (
	"github.com/dshills/extedit/internal/engine/document"
)

// Metrics describes the geometry of the text view.
type Metrics struct {
	// XOffset is the width of the margin left of the text area.
	XOffset int
	// CharWidth is the width of one display cell.
	CharWidth int
	// LineHeight is the height of one line.
	LineHeight int
	// TabWidth is the number of cells between tab stops.
	TabWidth int
	// TooltipOffsetY is added to the pointer y when anchoring a tooltip.
	TooltipOffsetY int
}

// DefaultMetrics returns metrics for a character-cell terminal.
func DefaultMetrics() Metrics {
	return Metrics{
		CharWidth:      1,
		LineHeight:     1,
		TabWidth:       4,
		TooltipOffsetY: 1,
	}
}

func (m Metrics) normalized() Metrics {
	if m.CharWidth < 1 {
		m.CharWidth = 1
	}
	if m.LineHeight < 1 {
		m.LineHeight = 1
	}
	if m.TabWidth < 1 {
		m.TabWidth = 4
	}
	return m
}

// Scroll is the first visible line and display column.
type Scroll struct {
	FirstLine   int
	FirstColumn int
}

// Point is a position in view coordinates.
type Point struct {
	X int
	Y int
}

// Resolver converts view coordinates of one document.
type Resolver struct {
	doc     *document.Document
	metrics Metrics
	scroll  Scroll
}

// New creates a resolver for doc.
func New(doc *document.Document, metrics Metrics) *Resolver {
	return &Resolver{doc: doc, metrics: metrics.normalized()}
}

// Metrics returns the view metrics.
func (r *Resolver) Metrics() Metrics {
	return r.metrics
}

// SetMetrics replaces the view metrics.
func (r *Resolver) SetMetrics(m Metrics) {
	r.metrics = m.normalized()
}

// Scroll returns the scroll position.
func (r *Resolver) Scroll() Scroll {
	return r.scroll
}

// SetScroll sets the scroll position. Negative values are clamped to zero.
func (r *Resolver) SetScroll(s Scroll) {
	r.scroll = Scroll{FirstLine: max(0, s.FirstLine), FirstColumn: max(0, s.FirstColumn)}
}

// VisualToLocation maps a pointer position to a line and column. Positions
// above or below the text clamp to the first or last line, and positions
// left of the text area or past the end of a line clamp to its bounds.
func (r *Resolver) VisualToLocation(x, y int) document.Location {
	m := r.metrics
	line := r.scroll.FirstLine + floorDiv(y, m.LineHeight)
	line = max(0, min(line, r.doc.LineCount()-1))

	cell := r.scroll.FirstColumn + floorDiv(x-m.XOffset, m.CharWidth)
	text := r.doc.LineText(line)
	return document.Location{Line: line, Column: ColumnAtCell(text, cell, m.TabWidth)}
}

// VisualToOffset maps a pointer position to a document offset.
func (r *Resolver) VisualToOffset(x, y int) int {
	return r.doc.LocationToOffset(r.VisualToLocation(x, y))
}

// OffsetToVisual returns the top-left corner of the cell drawing offset.
func (r *Resolver) OffsetToVisual(offset int) Point {
	m := r.metrics
	loc := r.doc.OffsetToLocation(offset)
	cell := CellAtColumn(r.doc.LineText(loc.Line), loc.Column, m.TabWidth)
	return Point{
		X: m.XOffset + (cell-r.scroll.FirstColumn)*m.CharWidth,
		Y: (loc.Line - r.scroll.FirstLine) * m.LineHeight,
	}
}

// OffsetToLocation converts a document offset to a line and column.
func (r *Resolver) OffsetToLocation(offset int) document.Location {
	return r.doc.OffsetToLocation(offset)
}

// TooltipAnchor returns where a tooltip of the given width is placed for a
// pointer at (x, y): centred horizontally, shifted down by TooltipOffsetY.
func (r *Resolver) TooltipAnchor(x, y, width int) Point {
	return Point{X: x - width/2, Y: y + r.metrics.TooltipOffsetY}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
