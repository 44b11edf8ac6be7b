package key

import (
	"strings"
	"time"
	"unicode"
)

// Event represents a single key press event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods, Timestamp: time.Now()}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true for a printable character typed without Ctrl, Alt
// or Meta. Shift alone does not count since it changes the character.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && !e.Modifiers.Has(ModCtrl|ModAlt|ModMeta)
}

// Is reports whether the event is k with no modifiers.
func (e Event) Is(k Key) bool {
	return e.Key == k && e.Modifiers == ModNone
}

// String returns a canonical string representation.
// Examples: "a", "C-s", "Enter", "S-Tab".
func (e Event) String() string {
	var parts []string
	if mods := e.Modifiers; e.IsRune() {
		if s := mods.Without(ModShift).String(); s != "" {
			parts = append(parts, s)
		}
	} else if s := mods.String(); s != "" {
		parts = append(parts, s)
	}

	switch {
	case e.IsRune() && e.Rune == ' ':
		parts = append(parts, "Space")
	case e.IsRune():
		parts = append(parts, string(e.Rune))
	default:
		parts = append(parts, e.Key.String())
	}
	return strings.Join(parts, "-")
}

// Equals returns true if two events represent the same key press.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}
