// Package rpcctx carries the parser-context collaborator over JSON-RPC 2.0,
// so identifier resolution can live in a separate language service.
package rpcctx

import "github.com/dshills/extedit/internal/parser"

// Method names.
const (
	MethodResolveIdentifier = "parser.resolveIdentifier"
	MethodFindExpression    = "parser.findExpression"
	MethodErrorAt           = "parser.errorAt"
)

// ResolveParams are the parameters of MethodResolveIdentifier.
type ResolveParams struct {
	Expression string `json:"expression"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	FileName   string `json:"fileName"`
	Text       string `json:"text"`
}

// ResolveResult is the result of MethodResolveIdentifier.
type ResolveResult struct {
	Found bool         `json:"found"`
	Item  *parser.Item `json:"item,omitempty"`
}

// FindParams are the parameters of MethodFindExpression.
type FindParams struct {
	FileName string `json:"fileName"`
	Text     string `json:"text"`
	Offset   int    `json:"offset"`
}

// FindResult is the result of MethodFindExpression. Supported is false when
// the server has no finder for the file.
type FindResult struct {
	Supported  bool   `json:"supported"`
	Found      bool   `json:"found"`
	Expression string `json:"expression,omitempty"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// ErrorAtParams are the parameters of MethodErrorAt.
type ErrorAtParams struct {
	Offset int `json:"offset"`
}

// ErrorAtResult is the result of MethodErrorAt.
type ErrorAtResult struct {
	Message string `json:"message,omitempty"`
}
