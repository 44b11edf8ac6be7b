package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	o := Default()
	require.NoError(t, o.Validate())
	assert.Equal(t, 800*time.Millisecond, o.TipDelay)
	assert.True(t, o.AutoInsertTemplates)
	assert.True(t, o.AutoInsertMatchingBracket)
}

func TestNewAppliesOptions(t *testing.T) {
	o := New(
		WithAutoInsertTemplates(false),
		WithTipDelay(250*time.Millisecond),
		WithIndentString("  "),
		WithTabWidth(0),
	)
	assert.False(t, o.AutoInsertTemplates)
	assert.Equal(t, 250, o.TipDelayMillis)
	assert.Equal(t, "  ", o.IndentString)
	assert.Equal(t, DefaultTabWidth, o.TabWidth)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []Options{
		New(WithTipDelay(-time.Second)),
		New(WithIndentString("x")),
		func() Options { o := Default(); o.TabWidth = 0; return o }(),
		func() Options { o := Default(); o.LogLevel = "loud"; return o }(),
	}
	for _, o := range cases {
		assert.ErrorIs(t, o.Validate(), ErrValidationFailed)
	}
}

func TestLoadFromReader(t *testing.T) {
	src := `
[editor]
auto_insert_templates = false
tip_delay_ms = 300
indent_string = "    "
log_level = "debug"
`
	o, err := LoadFromReader(strings.NewReader(src))
	require.NoError(t, err)
	assert.False(t, o.AutoInsertTemplates)
	assert.True(t, o.AutoInsertMatchingBracket)
	assert.Equal(t, 300*time.Millisecond, o.TipDelay)
	assert.Equal(t, "    ", o.IndentString)
	assert.Equal(t, "debug", o.LogLevel)
}

func TestLoadParseError(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("[editor\nx = 1"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "<reader>", pe.Path)
	assert.Greater(t, pe.Line, 0)
}

func TestLoadMissingFile(t *testing.T) {
	o, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Equal(t, Default(), o)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extedit.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\ntab_width = 8\n"), 0o644))

	o, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, o.TabWidth)
	assert.Equal(t, DefaultTipDelay, o.TipDelay)
}

func TestLoadValidationError(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("[editor]\ntab_width = -2\n"))
	assert.ErrorIs(t, err, ErrValidationFailed)
}
