package caret

import "github.com/dshills/extedit/internal/engine/document"

// TransformOffset updates an offset after an edit.
//
// Transformation rules:
//   - edit starts at or after offset: unchanged, so text inserted at the
//     caret lands after it
//   - edit ends at or before offset: shift by the edit's delta
//   - edit spans offset: move to the start of the edit
func TransformOffset(offset int, ev document.ChangeEvent) int {
	end := ev.Offset + ev.RemovedLength
	switch {
	case ev.Offset >= offset:
		return offset
	case end <= offset:
		return offset + ev.Delta()
	default:
		return ev.Offset
	}
}
