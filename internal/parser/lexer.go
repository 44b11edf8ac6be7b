package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// LexerFinder finds dotted name expressions using a syntax lexer. It is the
// fallback when a parser context has no finder of its own.
type LexerFinder struct {
	lexer chroma.Lexer
}

// NewLexerFinder returns a finder using the lexer matching fileName, or a
// plain-text scanner when no lexer matches.
func NewLexerFinder(fileName string) *LexerFinder {
	var l chroma.Lexer
	if fileName != "" {
		l = lexers.Match(fileName)
	}
	if l == nil {
		return &LexerFinder{}
	}
	return &LexerFinder{lexer: chroma.Coalesce(l)}
}

// Language returns the lexer name, or "" for the plain-text scanner.
func (f *LexerFinder) Language() string {
	if f.lexer == nil {
		return ""
	}
	return f.lexer.Config().Name
}

type span struct {
	tok        chroma.Token
	start, end int
}

// FindFullExpression returns the name under offset together with the
// qualifiers before it ("a.b.c" for an offset inside "c"). An offset just
// past a name selects that name.
func (f *LexerFinder) FindFullExpression(text string, offset int) (ExpressionResult, bool) {
	if f.lexer == nil {
		return scanExpression(text, offset)
	}
	it, err := f.lexer.Tokenise(nil, text)
	if err != nil {
		return scanExpression(text, offset)
	}

	var spans []span
	pos := 0
	for _, tok := range it.Tokens() {
		n := utf8.RuneCountInString(tok.Value)
		spans = append(spans, span{tok: tok, start: pos, end: pos + n})
		pos += n
	}

	at := -1
	for i, s := range spans {
		if !isName(s.tok) {
			continue
		}
		if offset >= s.start && offset < s.end {
			at = i
			break
		}
		if offset == s.end {
			at = i
		}
	}
	if at < 0 {
		return ExpressionResult{}, false
	}

	first := at
	for first >= 2 && spans[first-1].tok.Value == "." && isName(spans[first-2].tok) {
		first -= 2
	}
	start, end := spans[first].start, spans[at].end
	return ExpressionResult{Expression: substr(text, start, end), Start: start, End: end}, true
}

func isName(tok chroma.Token) bool {
	return tok.Type.InCategory(chroma.Name)
}

// scanExpression treats runs of letters, digits, '_' and '.' as expressions.
func scanExpression(text string, offset int) (ExpressionResult, bool) {
	runes := []rune(text)
	if offset < 0 || offset > len(runes) {
		return ExpressionResult{}, false
	}
	end := offset
	for end < len(runes) && isIdentRune(runes[end]) {
		end++
	}
	start := offset
	for start > 0 && (isIdentRune(runes[start-1]) || runes[start-1] == '.') {
		start--
	}
	for start < end && runes[start] == '.' {
		start++
	}
	if start == end {
		return ExpressionResult{}, false
	}
	return ExpressionResult{Expression: string(runes[start:end]), Start: start, End: end}, true
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func substr(text string, start, end int) string {
	runes := []rune(text)
	return string(runes[start:end])
}
