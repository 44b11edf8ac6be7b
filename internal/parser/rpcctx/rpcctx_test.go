package rpcctx

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/jrpc2/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/extedit/internal/parser"
)

type fakeContext struct {
	items  map[string]parser.Item
	finder parser.ExpressionFinder
	fail   bool
	got    ResolveParams
}

func (f *fakeContext) ResolveIdentifier(_ context.Context, expr string, line, column int, file, text string) (parser.LanguageItem, error) {
	f.got = ResolveParams{Expression: expr, Line: line, Column: column, FileName: file, Text: text}
	if f.fail {
		return nil, errors.New("index not ready")
	}
	item, ok := f.items[expr]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (f *fakeContext) ExpressionFinder(string) parser.ExpressionFinder { return f.finder }

type upperFinder struct{}

func (upperFinder) FindFullExpression(text string, offset int) (parser.ExpressionResult, bool) {
	if offset >= len(text) {
		return parser.ExpressionResult{}, false
	}
	return parser.ExpressionResult{Expression: strings.ToUpper(text), Start: 0, End: len(text)}, true
}

func connect(t *testing.T, pc parser.Context, opts ...ServerOption) *Client {
	t.Helper()
	cch, sch := channel.Direct()
	srv := NewServer(pc, opts...).Start(sch)
	cli := NewClient(cch)
	t.Cleanup(func() {
		cli.Close()
		srv.Stop()
	})
	return cli
}

func TestResolveIdentifier(t *testing.T) {
	pc := &fakeContext{items: map[string]parser.Item{
		"fmt.Println": {Kind: parser.KindMethod, Name: "Println", Container: "fmt", Signature: "(a ...any)"},
	}}
	cli := connect(t, pc)

	li, err := cli.ResolveIdentifier(context.Background(), "fmt.Println", 3, 5, "main.go", "text")
	require.NoError(t, err)
	require.NotNil(t, li)
	assert.Equal(t, "method:fmt.Println(a ...any)", li.Key())
	assert.Equal(t, ResolveParams{Expression: "fmt.Println", Line: 3, Column: 5, FileName: "main.go", Text: "text"}, pc.got)

	li, err = cli.ResolveIdentifier(context.Background(), "missing", 1, 1, "main.go", "")
	require.NoError(t, err)
	assert.Nil(t, li)
}

func TestResolveIdentifierError(t *testing.T) {
	cli := connect(t, &fakeContext{fail: true})
	_, err := cli.ResolveIdentifier(context.Background(), "x", 1, 1, "a.go", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index not ready")
}

func TestRemoteFinder(t *testing.T) {
	cli := connect(t, &fakeContext{finder: upperFinder{}})
	res, ok := cli.ExpressionFinder("a.txt").FindFullExpression("abc", 1)
	require.True(t, ok)
	assert.Equal(t, "ABC", res.Expression)

	_, ok = cli.ExpressionFinder("a.txt").FindFullExpression("abc", 5)
	assert.False(t, ok)
}

func TestRemoteFinderFallsBackToLexer(t *testing.T) {
	cli := connect(t, &fakeContext{})
	res, ok := cli.ExpressionFinder("main.go").FindFullExpression("a.b\n", 2)
	require.True(t, ok)
	assert.Equal(t, "a.b", res.Expression)
}

func TestErrorAt(t *testing.T) {
	diags := parser.DiagnosticList{{Start: 0, End: 4, Message: "undefined: x"}}
	cli := connect(t, &fakeContext{}, WithDiagnostics(diags))
	assert.Equal(t, "undefined: x", cli.ErrorAt(2))
	assert.Equal(t, "", cli.ErrorAt(9))

	plain := connect(t, &fakeContext{})
	assert.Equal(t, "", plain.ErrorAt(2))
}

func TestLookupThroughClient(t *testing.T) {
	pc := &fakeContext{items: map[string]parser.Item{"os.Exit": {Kind: parser.KindMethod, Name: "Exit", Container: "os"}}}
	cli := connect(t, pc)

	li, err := parser.Lookup(context.Background(), cli, "main.go", "os.Exit(1)\n", 4)
	require.NoError(t, err)
	require.NotNil(t, li)
	assert.Equal(t, "Exit", li.(parser.Item).Name)
}
