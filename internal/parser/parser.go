// Package parser defines the code-analysis collaborator the editor consults
// to resolve the language item under the pointer, and the error text shown
// when there is none.
package parser

import (
	"context"
	"fmt"
	"strings"
)

// LanguageItem is a resolved symbol such as a type, member or variable.
type LanguageItem interface {
	// Key identifies the item. Two items with the same key are the same
	// symbol.
	Key() string
	// Summary is a one-line description for display.
	Summary() string
}

// Equaler is implemented by items with their own notion of identity.
type Equaler interface {
	Equal(other LanguageItem) bool
}

// SameItem reports whether a and b refer to the same symbol.
func SameItem(a, b LanguageItem) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(Equaler); ok {
		return eq.Equal(b)
	}
	return a.Key() == b.Key()
}

// Kind classifies a language item.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNamespace
	KindType
	KindMethod
	KindProperty
	KindField
	KindEvent
	KindVariable
	KindParameter
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindNamespace: "namespace",
	KindType:      "type",
	KindMethod:    "method",
	KindProperty:  "property",
	KindField:     "field",
	KindEvent:     "event",
	KindVariable:  "variable",
	KindParameter: "parameter",
}

// String returns the kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind returns the kind with the given name, or KindUnknown.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == strings.ToLower(s) {
			return k
		}
	}
	return KindUnknown
}

// Item is the concrete language item exchanged with parser backends.
type Item struct {
	Kind          Kind   `json:"kind"`
	Name          string `json:"name"`
	Container     string `json:"container,omitempty"`
	Signature     string `json:"signature,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

// FullName returns the container-qualified name.
func (i Item) FullName() string {
	if i.Container == "" {
		return i.Name
	}
	return i.Container + "." + i.Name
}

// Key implements LanguageItem. Overloads differ by signature.
func (i Item) Key() string {
	return i.Kind.String() + ":" + i.FullName() + i.Signature
}

// Summary implements LanguageItem.
func (i Item) Summary() string {
	if i.Signature != "" {
		return i.Kind.String() + " " + i.FullName() + i.Signature
	}
	return i.Kind.String() + " " + i.FullName()
}

// AsItem converts any language item to an Item. Items of foreign types keep
// only their key as name and their summary as signature-less text.
func AsItem(li LanguageItem) (Item, bool) {
	switch v := li.(type) {
	case nil:
		return Item{}, false
	case Item:
		return v, true
	case *Item:
		if v == nil {
			return Item{}, false
		}
		return *v, true
	default:
		return Item{Name: li.Key(), Documentation: li.Summary()}, true
	}
}

// ExpressionResult is an expression found around an offset. Start and End
// are character offsets into the searched text.
type ExpressionResult struct {
	Expression string
	Start      int
	End        int
}

// ExpressionFinder extracts the full expression at an offset.
type ExpressionFinder interface {
	FindFullExpression(text string, offset int) (ExpressionResult, bool)
}

// Context resolves identifiers for one project or language. Line and
// column passed to ResolveIdentifier are 1-based. A nil item with a nil
// error means nothing was found.
type Context interface {
	ResolveIdentifier(ctx context.Context, expression string, line, column int, fileName, text string) (LanguageItem, error)
	// ExpressionFinder returns the finder for fileName, or nil when the
	// context has none for that language.
	ExpressionFinder(fileName string) ExpressionFinder
}

// Diagnostics reports error information at document offsets.
type Diagnostics interface {
	// ErrorAt returns the error text at offset, or "".
	ErrorAt(offset int) string
}
