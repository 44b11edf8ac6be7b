package binding

import (
	"mime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = mime.AddExtensionType(".xedt", "text/x-extedit; charset=utf-8")
}

func TestForFileByName(t *testing.T) {
	gob := Text{ID: "go", Extensions: []string{".go"}}
	all := Text{ID: "text", Extensions: []string{"*"}}
	r := NewRegistry(gob, all)

	b, err := r.ForFile("main.GO")
	require.NoError(t, err)
	assert.Equal(t, "go", b.Name())

	b, err = r.ForFile("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "text", b.Name())
}

func TestForFileByMimeType(t *testing.T) {
	r := NewRegistry(
		Text{ID: "html", Extensions: []string{".html"}},
		Text{ID: "plain", MimeTypes: []string{"text/"}},
	)

	b, err := r.ForFile("/tmp/a.xedt")
	require.NoError(t, err)
	assert.Equal(t, "plain", b.Name())

	_, err = r.ForFile("https://example.com/a.xedt")
	assert.ErrorIs(t, err, ErrNoBinding)

	_, err = r.ForFile("image.unknownext")
	assert.ErrorIs(t, err, ErrNoBinding)
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "text/x-extedit", MimeType("x.xedt"))
	assert.Equal(t, "", MimeType("Makefile"))
}

func TestRegisterOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(nil)
	r.Register(Text{ID: "a", Extensions: []string{".c"}})
	r.Register(Text{ID: "b", Extensions: []string{".c"}})

	assert.Len(t, r.Bindings(), 2)
	b, err := r.ForFile("x.c")
	require.NoError(t, err)
	assert.Equal(t, "a", b.Name())
}
