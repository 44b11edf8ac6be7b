package parser

import (
	"context"
	"errors"
)

// ErrNoExpression indicates no expression was found at the lookup offset.
var ErrNoExpression = errors.New("no expression at offset")

// Lookup finds the expression at offset in text and resolves it through pc.
// When pc has no expression finder for fileName, a LexerFinder chosen by
// the file name is used. It returns ErrNoExpression if there is nothing to
// resolve.
func Lookup(ctx context.Context, pc Context, fileName, text string, offset int) (LanguageItem, error) {
	if pc == nil {
		return nil, nil
	}
	finder := pc.ExpressionFinder(fileName)
	if finder == nil {
		finder = NewLexerFinder(fileName)
	}
	res, ok := finder.FindFullExpression(text, offset)
	if !ok || res.Expression == "" {
		return nil, ErrNoExpression
	}
	line, column := lineColumn(text, offset)
	return pc.ResolveIdentifier(ctx, res.Expression, line+1, column+1, fileName, text)
}

// lineColumn returns the 0-based line and column of a character offset.
func lineColumn(text string, offset int) (line, column int) {
	i := 0
	for _, r := range text {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			column = 0
		} else {
			column++
		}
		i++
	}
	return line, column
}

// Diagnostic is an error message covering [Start, End).
type Diagnostic struct {
	Start   int
	End     int
	Message string
}

// DiagnosticList is a static Diagnostics. The first diagnostic covering an
// offset wins.
type DiagnosticList []Diagnostic

// ErrorAt implements Diagnostics.
func (l DiagnosticList) ErrorAt(offset int) string {
	for _, d := range l {
		if offset >= d.Start && offset < d.End {
			return d.Message
		}
	}
	return ""
}
