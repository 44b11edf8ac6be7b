package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
)

// tomlFile is the TOML layout:
//
//	[[group]]
//	extensions = [".go"]
//	  [[group.template]]
//	  shortcut = "for"
//	  text = "for | {\n}"
type tomlFile struct {
	Groups []*Group `toml:"group"`
}

// LoadFile reads groups from a .toml template file or a .json snippet
// file. The extensions of a JSON file's group come from its base name:
// "go.json" applies to ".go" files and "global.json" to all files.
func LoadFile(path string) ([]*Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading template file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(path, data)
	case ".json":
		lang := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		ext := "*"
		if lang != "global" {
			ext = "." + lang
		}
		g, err := ParseJSON(path, data, ext)
		if err != nil {
			return nil, err
		}
		return []*Group{g}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load replaces the store contents with the groups in path.
func (s *Store) Load(path string) error {
	groups, err := LoadFile(path)
	if err != nil {
		return err
	}
	s.Replace(groups)
	return nil
}

// ParseTOML parses TOML template groups. source names the data in errors.
func ParseTOML(source string, data []byte) ([]*Group, error) {
	var f tomlFile
	if err := toml.Unmarshal(data, &f); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return nil, pe
	}
	for gi, g := range f.Groups {
		if g == nil {
			continue
		}
		for ti, t := range g.Templates {
			if t.Shortcut == "" {
				return nil, fmt.Errorf("%s: group %d template %d: %w: empty shortcut", source, gi, ti, ErrInvalidTemplate)
			}
		}
	}
	return f.Groups, nil
}

// ParseJSON parses a snippet file in the common editor format:
//
//	{"For loop": {"prefix": "for", "body": ["for $1 {", "\t$0", "}"], "description": "..."}}
//
// "$0" becomes the caret marker, other tab stops are dropped and
// placeholders keep their default text. A prefix list yields one template
// per prefix.
func ParseJSON(source string, data []byte, extensions ...string) (*Group, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{Path: source, Message: "snippet file must be an object"}
	}

	g := &Group{Extensions: extensions}
	var err error
	root.ForEach(func(name, snip gjson.Result) bool {
		body := snip.Get("body")
		var text string
		if body.IsArray() {
			lines := make([]string, 0, len(body.Array()))
			for _, l := range body.Array() {
				lines = append(lines, l.String())
			}
			text = strings.Join(lines, "\n")
		} else {
			text = body.String()
		}
		desc := snip.Get("description").String()
		if desc == "" {
			desc = name.String()
		}

		var prefixes []string
		if p := snip.Get("prefix"); p.IsArray() {
			for _, v := range p.Array() {
				prefixes = append(prefixes, v.String())
			}
		} else if p.String() != "" {
			prefixes = append(prefixes, p.String())
		}
		if len(prefixes) == 0 {
			err = fmt.Errorf("%s: snippet %q: %w: no prefix", source, name.String(), ErrInvalidTemplate)
			return false
		}

		converted := fromSnippetBody(text)
		for _, p := range prefixes {
			g.Templates = append(g.Templates, Template{Shortcut: p, Description: desc, Text: converted})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// fromSnippetBody converts snippet tab stops to plain text with a caret
// marker at $0.
func fromSnippetBody(body string) string {
	rs := []rune(body)
	var sb strings.Builder
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == '\\' && i+1 < len(rs) && (rs[i+1] == '$' || rs[i+1] == '}' || rs[i+1] == '\\') {
			sb.WriteRune(rs[i+1])
			i++
			continue
		}
		if r != '$' || i+1 >= len(rs) {
			sb.WriteRune(r)
			continue
		}

		if isDigit(rs[i+1]) {
			j := i + 1
			for j < len(rs) && isDigit(rs[j]) {
				j++
			}
			if string(rs[i+1:j]) == "0" {
				sb.WriteRune(CaretMarker)
			}
			i = j - 1
			continue
		}

		if rs[i+1] == '{' {
			end := matchingBrace(rs, i+1)
			if end < 0 {
				sb.WriteRune(r)
				continue
			}
			sb.WriteString(placeholder(string(rs[i+2 : end])))
			i = end
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// placeholder renders the inside of ${...}.
func placeholder(inner string) string {
	j := 0
	for j < len(inner) && isDigit(rune(inner[j])) {
		j++
	}
	num, rest := inner[:j], inner[j:]
	switch {
	case num == "0" && rest == "":
		return string(CaretMarker)
	case strings.HasPrefix(rest, ":"):
		text := fromSnippetBody(rest[1:])
		if num == "0" {
			return text + string(CaretMarker)
		}
		return text
	case strings.HasPrefix(rest, "|") && strings.HasSuffix(rest, "|"):
		choices := strings.Split(strings.Trim(rest, "|"), ",")
		return choices[0]
	default:
		return ""
	}
}

func matchingBrace(rs []rune, open int) int {
	depth := 0
	for i := open; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
