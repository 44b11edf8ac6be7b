// Package config holds the editor options that control auto-insertion,
// tooltip timing and indentation, and loads them from TOML files.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Default values for editor options.
const (
	DefaultTipDelay     = 800 * time.Millisecond
	DefaultTabWidth     = 4
	DefaultIndentString = "\t"
	DefaultLogLevel     = "info"
)

// Options configures an editor session.
type Options struct {
	// AutoInsertTemplates expands a code template when its shortcut is
	// typed and followed by a trigger key.
	AutoInsertTemplates bool `toml:"auto_insert_templates"`

	// AutoInsertMatchingBracket inserts the closing bracket after an
	// opening bracket or quote is typed.
	AutoInsertMatchingBracket bool `toml:"auto_insert_matching_bracket"`

	// TipDelay is how long the pointer must rest before a language item
	// tooltip is resolved.
	TipDelay time.Duration `toml:"-"`

	// TipDelayMillis mirrors TipDelay in files.
	TipDelayMillis int `toml:"tip_delay_ms"`

	// IndentString is one indentation unit.
	IndentString string `toml:"indent_string"`

	// TabWidth is the number of columns a tab advances to.
	TabWidth int `toml:"tab_width"`

	// TemplatesPath is an optional template file (.toml or .json).
	TemplatesPath string `toml:"templates_path"`

	// WatchTemplates reloads TemplatesPath when it changes on disk.
	WatchTemplates bool `toml:"watch_templates"`

	// LogLevel is the minimum log level ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`
}

// Default returns the default options.
func Default() Options {
	return Options{
		AutoInsertTemplates:       true,
		AutoInsertMatchingBracket: true,
		TipDelay:                  DefaultTipDelay,
		TipDelayMillis:            int(DefaultTipDelay / time.Millisecond),
		IndentString:              DefaultIndentString,
		TabWidth:                  DefaultTabWidth,
		LogLevel:                  DefaultLogLevel,
	}
}

// Option is a functional option for building Options.
type Option func(*Options)

// WithAutoInsertTemplates toggles template auto-insertion.
func WithAutoInsertTemplates(enabled bool) Option {
	return func(o *Options) {
		o.AutoInsertTemplates = enabled
	}
}

// WithAutoInsertMatchingBracket toggles bracket auto-completion.
func WithAutoInsertMatchingBracket(enabled bool) Option {
	return func(o *Options) {
		o.AutoInsertMatchingBracket = enabled
	}
}

// WithTipDelay sets the tooltip debounce delay.
func WithTipDelay(d time.Duration) Option {
	return func(o *Options) {
		o.TipDelay = d
		o.TipDelayMillis = int(d / time.Millisecond)
	}
}

// WithIndentString sets the indentation unit.
func WithIndentString(s string) Option {
	return func(o *Options) {
		o.IndentString = s
	}
}

// WithTabWidth sets the tab width.
func WithTabWidth(width int) Option {
	return func(o *Options) {
		if width > 0 {
			o.TabWidth = width
		}
	}
}

// New returns the defaults with opts applied.
func New(opts ...Option) Options {
	o := Default()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	if o.TipDelay < 0 {
		return fmt.Errorf("%w: tip delay must not be negative", ErrValidationFailed)
	}
	if o.TabWidth <= 0 {
		return fmt.Errorf("%w: tab width must be positive, got %d", ErrValidationFailed, o.TabWidth)
	}
	if strings.TrimLeft(o.IndentString, " \t") != "" {
		return fmt.Errorf("%w: indent string may only contain spaces and tabs", ErrValidationFailed)
	}
	switch strings.ToLower(o.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrValidationFailed, o.LogLevel)
	}
	return nil
}
