// Package template implements code templates: short words that expand into
// larger bodies of text when a trigger key is typed after them.
package template

import (
	"path/filepath"
	"slices"
	"strings"
)

// CaretMarker marks where the caret lands after expansion.
const CaretMarker = '|'

// Template is a code template.
type Template struct {
	Shortcut    string `toml:"shortcut" json:"shortcut"`
	Description string `toml:"description" json:"description"`
	Text        string `toml:"text" json:"text"`
}

// Group is an ordered set of templates for a set of file extensions.
type Group struct {
	// Extensions are file extensions including the dot, or "*" for all
	// files.
	Extensions []string   `toml:"extensions"`
	Templates  []Template `toml:"template"`
}

// Matches reports whether the group applies to fileName.
func (g *Group) Matches(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, e := range g.Extensions {
		if e == "*" || (ext != "" && strings.ToLower(e) == ext) {
			return true
		}
	}
	return false
}

// IsKnown reports whether word triggers a template: exactly one template
// has it as shortcut and no other shortcut starts with it, so the user may
// still be typing a longer one.
func (g *Group) IsKnown(word string) bool {
	if g == nil || word == "" {
		return false
	}
	exact := 0
	for _, t := range g.Templates {
		switch {
		case t.Shortcut == word:
			exact++
		case strings.HasPrefix(t.Shortcut, word):
			return false
		}
	}
	return exact == 1
}

// Find returns the template whose shortcut is word.
func (g *Group) Find(word string) (Template, bool) {
	if g == nil {
		return Template{}, false
	}
	for _, t := range g.Templates {
		if t.Shortcut == word {
			return t, true
		}
	}
	return Template{}, false
}

// Shortcuts returns the shortcuts in group order.
func (g *Group) Shortcuts() []string {
	if g == nil {
		return nil
	}
	out := make([]string, 0, len(g.Templates))
	for _, t := range g.Templates {
		out = append(out, t.Shortcut)
	}
	return out
}

// Len returns the number of templates.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Templates)
}

func (g *Group) clone() *Group {
	return &Group{
		Extensions: slices.Clone(g.Extensions),
		Templates:  slices.Clone(g.Templates),
	}
}
