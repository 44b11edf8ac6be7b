package describe

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed is returned for documentation markup that is not well formed.
var ErrMalformed = errors.New("malformed documentation")

// Doc is parsed documentation markup.
type Doc struct {
	Summary    string
	Remarks    string
	Value      string
	Returns    string
	Params     []Entry
	Exceptions []Entry
}

// Entry is a named documentation entry, such as a parameter.
type Entry struct {
	Name string
	Text string
}

// ParseDoc parses XML documentation markup such as
// <summary>...</summary><param name="x">...</param>. Text outside any
// section is treated as the summary.
func ParseDoc(markup string) (Doc, error) {
	dec := xml.NewDecoder(strings.NewReader("<doc>" + markup + "</doc>"))
	dec.Entity = xml.HTMLEntity

	var (
		doc   Doc
		loose strings.Builder
		cur   *strings.Builder
		kind  string
		name  string

		inRef   bool
		refText string
		refBody bool
	)
	out := func() *strings.Builder {
		if cur != nil {
			return cur
		}
		return &loose
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Doc{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "summary", "remarks", "value", "returns", "param", "typeparam", "exception":
				if cur != nil {
					continue
				}
				cur = &strings.Builder{}
				kind = t.Name.Local
				name = attr(t, "name")
				if kind == "exception" {
					name = crefName(attr(t, "cref"))
				}
			case "see", "seealso":
				inRef, refBody = true, false
				refText = crefName(attr(t, "cref"))
				if refText == "" {
					refText = attr(t, "langword")
				}
			case "paramref", "typeparamref":
				out().WriteString(attr(t, "name"))
			case "para", "br":
				out().WriteString("\n")
			}

		case xml.EndElement:
			switch {
			case t.Name.Local == "see" || t.Name.Local == "seealso":
				if inRef && !refBody {
					out().WriteString(refText)
				}
				inRef = false
			case cur != nil && t.Name.Local == kind:
				doc.add(kind, name, normalize(cur.String()))
				cur = nil
			}

		case xml.CharData:
			if inRef && strings.TrimSpace(string(t)) != "" {
				refBody = true
			}
			out().WriteString(strings.Map(lineBreakToSpace, string(t)))
		}
	}

	if doc.Summary == "" {
		doc.Summary = normalize(loose.String())
	}
	return doc, nil
}

func (d *Doc) add(kind, name, text string) {
	switch kind {
	case "summary":
		d.Summary = text
	case "remarks":
		d.Remarks = text
	case "value":
		d.Value = text
	case "returns":
		d.Returns = text
	case "param", "typeparam":
		d.Params = append(d.Params, Entry{Name: name, Text: text})
	case "exception":
		d.Exceptions = append(d.Exceptions, Entry{Name: name, Text: text})
	}
}

// String renders the documentation as plain text.
func (d Doc) String() string {
	var parts []string
	for _, s := range []string{d.Summary, d.Remarks} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if d.Value != "" {
		parts = append(parts, "Value: "+d.Value)
	}
	if len(d.Params) > 0 {
		parts = append(parts, "Parameters:\n"+entries(d.Params))
	}
	if d.Returns != "" {
		parts = append(parts, "Returns: "+d.Returns)
	}
	if len(d.Exceptions) > 0 {
		parts = append(parts, "Throws:\n"+entries(d.Exceptions))
	}
	return strings.Join(parts, "\n\n")
}

func entries(es []Entry) string {
	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = "  " + e.Name + ": " + e.Text
	}
	return strings.Join(lines, "\n")
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// crefName shortens a reference like "M:System.String.Trim(System.Char)" to
// "Trim".
func crefName(cref string) string {
	if i := strings.IndexByte(cref, ':'); i >= 0 && i <= 1 {
		cref = cref[i+1:]
	}
	if i := strings.IndexByte(cref, '('); i >= 0 {
		cref = cref[:i]
	}
	if i := strings.LastIndexByte(cref, '.'); i >= 0 {
		cref = cref[i+1:]
	}
	return cref
}

func lineBreakToSpace(r rune) rune {
	if r == '\n' || r == '\r' {
		return ' '
	}
	return r
}

// normalize collapses whitespace within each paragraph.
func normalize(s string) string {
	var paras []string
	for _, p := range strings.Split(s, "\n") {
		if f := strings.Fields(p); len(f) > 0 {
			paras = append(paras, strings.Join(f, " "))
		}
	}
	return strings.Join(paras, "\n")
}
