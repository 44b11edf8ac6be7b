package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// editorFile is the on-disk layout: options live under [editor].
type editorFile struct {
	Editor *Options `toml:"editor"`
}

// Load reads options from a TOML file, starting from the defaults.
// A missing file yields ErrFileNotFound wrapped with the path.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadFromReader reads options from an io.Reader.
func LoadFromReader(r io.Reader) (Options, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Default(), fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", data)
}

func parse(source string, data []byte) (Options, error) {
	opts := Default()
	file := editorFile{Editor: &opts}

	if err := toml.Unmarshal(data, &file); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return Default(), pe
	}

	opts.TipDelay = time.Duration(opts.TipDelayMillis) * time.Millisecond
	if err := opts.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", source, err)
	}
	return opts, nil
}
