package describe

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dshills/extedit/internal/logging"
	"github.com/dshills/extedit/internal/parser"
	"github.com/dshills/extedit/internal/tooltip"
)

// Describer renders language items.
type Describer struct {
	logger *logging.Logger
}

// Option configures a Describer.
type Option func(*Describer)

// WithLogger sets the logger for markup errors.
func WithLogger(l *logging.Logger) Option {
	return func(d *Describer) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Describer.
func New(opts ...Option) *Describer {
	d := &Describer{logger: logging.Null()}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("describe")
	return d
}

// Documentation converts documentation markup to plain text. Markup that
// does not parse is logged and returned unchanged.
func (d *Describer) Documentation(markup string) string {
	if !strings.ContainsRune(markup, '<') {
		return strings.TrimSpace(markup)
	}
	doc, err := ParseDoc(markup)
	if err != nil {
		d.logger.Error("documentation: %v", err)
		return markup
	}
	return doc.String()
}

// Content is a tooltip.Formatter that adds plain-text documentation to the
// item summary.
func (d *Describer) Content(r tooltip.Result) tooltip.Content {
	c := tooltip.DefaultFormatter(r)
	var markup string
	switch it := r.Item.(type) {
	case parser.Item:
		markup = it.Documentation
	case *parser.Item:
		if it != nil {
			markup = it.Documentation
		}
	}
	if markup != "" {
		c.Body = d.Documentation(markup)
	}
	return c
}

// SortOverloads orders overloads by signature length, then lexically.
func SortOverloads(items []parser.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Signature, items[j].Signature
		if la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b); la != lb {
			return la < lb
		}
		return a < b
	})
}
