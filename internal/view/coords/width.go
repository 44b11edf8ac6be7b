package coords

import "github.com/rivo/uniseg"

// cluster is one grapheme cluster of a line with its display extent.
type cluster struct {
	column int // rune column where the cluster starts
	runes  int
	cell   int // display cell where the cluster starts
	width  int
}

// clusters splits line into grapheme clusters, expanding tabs to the next
// tab stop and measuring other clusters with their terminal width.
func clusters(line string, tabWidth int) []cluster {
	if tabWidth < 1 {
		tabWidth = 1
	}
	var out []cluster
	column, cell := 0, 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		runes := len(g.Runes())
		var w int
		if g.Str() == "\t" {
			w = tabWidth - cell%tabWidth
		} else {
			w = g.Width()
		}
		out = append(out, cluster{column: column, runes: runes, cell: cell, width: w})
		column += runes
		cell += w
	}
	return out
}

// Width returns the display width of line in cells.
func Width(line string, tabWidth int) int {
	cs := clusters(line, tabWidth)
	if len(cs) == 0 {
		return 0
	}
	last := cs[len(cs)-1]
	return last.cell + last.width
}

// ColumnAtCell returns the rune column of the character drawn at display
// cell. A cell inside a tab or wide character maps to that character's
// column; cells past the end map to the line length.
func ColumnAtCell(line string, cell, tabWidth int) int {
	if cell <= 0 {
		return 0
	}
	end := 0
	for _, c := range clusters(line, tabWidth) {
		if cell < c.cell+c.width {
			return c.column
		}
		end = c.column + c.runes
	}
	return end
}

// CellAtColumn returns the display cell where rune column starts. Columns
// inside a multi-rune cluster map to the cluster's cell.
func CellAtColumn(line string, column, tabWidth int) int {
	if column <= 0 {
		return 0
	}
	end := 0
	for _, c := range clusters(line, tabWidth) {
		if column < c.column+c.runes {
			return c.cell
		}
		end = c.cell + c.width
	}
	return end
}
