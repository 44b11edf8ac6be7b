package template

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

// ExportJSON writes g as a snippet file readable by ParseJSON. Snippets are
// keyed by shortcut; the caret marker becomes "$0".
func ExportJSON(g *Group) ([]byte, error) {
	doc := []byte("{}")
	for _, t := range g.Templates {
		snip, err := sjson.SetBytes([]byte("{}"), "prefix", t.Shortcut)
		if err != nil {
			return nil, fmt.Errorf("exporting %q: %w", t.Shortcut, err)
		}
		if snip, err = sjson.SetBytes(snip, "body", strings.Split(toSnippetBody(t.Text), "\n")); err != nil {
			return nil, fmt.Errorf("exporting %q: %w", t.Shortcut, err)
		}
		if t.Description != "" {
			if snip, err = sjson.SetBytes(snip, "description", t.Description); err != nil {
				return nil, fmt.Errorf("exporting %q: %w", t.Shortcut, err)
			}
		}
		if doc, err = sjson.SetRawBytes(doc, escapeKey(t.Shortcut), snip); err != nil {
			return nil, fmt.Errorf("exporting %q: %w", t.Shortcut, err)
		}
	}
	return doc, nil
}

// toSnippetBody escapes '$' and turns the last caret marker into $0. Other
// markers are dropped as Expand would drop them.
func toSnippetBody(text string) string {
	last := strings.LastIndexByte(text, byte(CaretMarker))
	var sb strings.Builder
	for i, r := range text {
		switch {
		case r == CaretMarker && i == last:
			sb.WriteString("$0")
		case r == CaretMarker, r == '\r':
		case r == '$' || r == '\\':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// escapeKey escapes path syntax so key is used literally as one object key.
func escapeKey(key string) string {
	var sb strings.Builder
	for _, r := range key {
		if strings.ContainsRune(`\.*?|#@:!`, r) {
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
