package template

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const sampleTOML = `
[[group]]
extensions = [".go"]

  [[group.template]]
  shortcut = "for"
  description = "for loop"
  text = "for | {\n}"

  [[group.template]]
  shortcut = "iferr"
  text = "if err != nil {\n\treturn err|\n}"

[[group]]
extensions = ["*"]

  [[group.template]]
  shortcut = "todo"
  text = "// TODO: |"
`

func TestParseTOML(t *testing.T) {
	groups, err := ParseTOML("sample.toml", []byte(sampleTOML))
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{".go"}, groups[0].Extensions)
	assert.Equal(t, []string{"for", "iferr"}, groups[0].Shortcuts())
	assert.Equal(t, "for loop", groups[0].Templates[0].Description)
	assert.Equal(t, "for | {\n}", groups[0].Templates[0].Text)
}

func TestParseTOMLErrors(t *testing.T) {
	_, err := ParseTOML("bad.toml", []byte("[[group]\n"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad.toml", pe.Path)
	assert.Greater(t, pe.Line, 0)

	_, err = ParseTOML("empty.toml", []byte("[[group]]\n[[group.template]]\ntext = \"x\"\n"))
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

const sampleJSON = `{
  "For loop": {
    "prefix": "for",
    "body": ["for ${1:i} := 0; $1 < ${2:n}; $1++ {", "\t$0", "}"],
    "description": "counted loop"
  },
  "Print": {
    "prefix": ["pf", "printf"],
    "body": "fmt.Printf(\"${1|%v,%d|}\\n\", $2)"
  }
}`

func TestParseJSON(t *testing.T) {
	g, err := ParseJSON("go.json", []byte(sampleJSON), ".go")
	require.NoError(t, err)
	assert.Equal(t, []string{".go"}, g.Extensions)
	assert.Equal(t, []string{"for", "pf", "printf"}, g.Shortcuts())

	tpl, _ := g.Find("for")
	assert.Equal(t, "for i := 0;  < n; ++ {\n\t|\n}", tpl.Text)
	assert.Equal(t, "counted loop", tpl.Description)

	tpl, _ = g.Find("printf")
	assert.Equal(t, "fmt.Printf(\"%v\\n\", )", tpl.Text)
	assert.Equal(t, "Print", tpl.Description)
}

func TestParseJSONErrors(t *testing.T) {
	_, err := ParseJSON("x.json", []byte("{"))
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)

	_, err = ParseJSON("x.json", []byte(`[1]`))
	assert.ErrorAs(t, err, &pe)

	_, err = ParseJSON("x.json", []byte(`{"a": {"body": "x"}}`))
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestSnippetBodyConversion(t *testing.T) {
	assert.Equal(t, "a|b", fromSnippetBody("a${0}b"))
	assert.Equal(t, "name|", fromSnippetBody("${0:name}"))
	assert.Equal(t, "$x", fromSnippetBody(`\$x`))
	assert.Equal(t, "{outer inner}", fromSnippetBody("{${1:outer ${2:inner}}}"))
	assert.Equal(t, "cost $", fromSnippetBody("cost $"))
}

func TestExportJSON(t *testing.T) {
	g := &Group{Templates: []Template{
		{Shortcut: "for", Description: "loop", Text: "for | {\n}"},
		{Shortcut: "a.b", Text: "cost $5"},
	}}
	data, err := ExportJSON(g)
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	assert.Equal(t, "for", doc.Get("for.prefix").String())
	assert.Equal(t, "loop", doc.Get("for.description").String())
	assert.Equal(t, `["for $0 {","}"]`, doc.Get("for.body").Raw)
	assert.Equal(t, `a.b`, doc.Get(`a\.b.prefix`).String())

	back, err := ParseJSON("out.json", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"for", "a.b"}, back.Shortcuts())
	tpl, _ := back.Find("a.b")
	assert.Equal(t, "cost $5", tpl.Text)
	tpl, _ = back.Find("for")
	assert.Equal(t, "for | {\n}", tpl.Text)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "templates.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(sampleTOML), 0o644))
	jsonPath := filepath.Join(dir, "go.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))
	globalPath := filepath.Join(dir, "global.json")
	require.NoError(t, os.WriteFile(globalPath, []byte(`{"t": {"prefix": "todo", "body": "TODO"}}`), 0o644))

	groups, err := LoadFile(tomlPath)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	groups, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{".go"}, groups[0].Extensions)

	groups, err = LoadFile(globalPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, groups[0].Extensions)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	other := filepath.Join(dir, "t.yaml")
	require.NoError(t, os.WriteFile(other, nil, 0o644))
	_, err = LoadFile(other)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	s := NewStore()
	require.NoError(t, s.Load(tomlPath))
	assert.True(t, s.GroupForFile("main.go").IsKnown("iferr"))
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	s := NewStore()
	require.NoError(t, s.Load(path))

	reloaded := make(chan error, 4)
	w, err := Watch(s, path, WithReloadDelay(50*time.Millisecond), OnReload(func(err error) { reloaded <- err }))
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	updated := "[[group]]\nextensions = [\".go\"]\n[[group.template]]\nshortcut = \"switch\"\ntext = \"switch | {\\n}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		return s.GroupForFile("main.go").IsKnown("switch")
	}, 5*time.Second, 10*time.Millisecond)
	assert.NoError(t, <-reloaded)
	assert.False(t, s.GroupForFile("main.go").IsKnown("for"))
}

func TestWatcherKeepsTemplatesOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	s := NewStore()
	require.NoError(t, s.Load(path))

	reloaded := make(chan error, 4)
	w, err := Watch(s, path, WithReloadDelay(50*time.Millisecond), OnReload(func(err error) { reloaded <- err }))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[[group"), 0o644))
	var got error
	timeout := time.After(5 * time.Second)
	for got == nil {
		select {
		case got = <-reloaded:
		case <-timeout:
			t.Fatal("no failed reload")
		}
	}
	var pe *ParseError
	assert.True(t, errors.As(got, &pe))
	assert.True(t, s.GroupForFile("main.go").IsKnown("iferr"))

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrWatcherClosed)
}
