package template

import (
	"strings"
	"unicode/utf8"
)

// Expansion is an expanded template body.
type Expansion struct {
	// Text is the text to insert.
	Text string
	// CaretOffset is where the caret goes, in document offsets.
	CaretOffset int
}

// Expand expands tpl for insertion at offset. Every newline in the body is
// followed by leadingWhitespace so the expansion keeps the indentation of
// the line it is inserted on. The last CaretMarker in the body sets the
// caret; without one the caret goes to the end. Carriage returns are
// dropped.
func Expand(tpl Template, offset int, leadingWhitespace string) Expansion {
	var sb strings.Builder
	n := 0
	caret := -1
	indent := utf8.RuneCountInString(leadingWhitespace)

	for _, r := range tpl.Text {
		switch r {
		case CaretMarker:
			caret = n
		case '\r':
		case '\n':
			sb.WriteRune('\n')
			sb.WriteString(leadingWhitespace)
			n += 1 + indent
		default:
			sb.WriteRune(r)
			n++
		}
	}
	if caret < 0 {
		caret = n
	}
	return Expansion{Text: sb.String(), CaretOffset: offset + caret}
}
