package splice

import (
	"fmt"
	"strings"
)

// delimiter wraps every written docstring block.
const delimiter = `"""`

// FormatBlock renders doc as the line sequence of a delimited, re-indented
// docstring block.
func FormatBlock(doc string, indentWidth int) []string {
	indent := strings.Repeat(" ", indentWidth)
	body := strings.Split(strings.TrimSpace(doc), "\n")

	block := make([]string, 0, len(body)+2)
	block = append(block, indent+delimiter)
	for _, line := range body {
		block = append(block, indent+line)
	}
	block = append(block, indent+delimiter)
	return block
}

// Apply writes the docstring block described by pt into the buffer. For
// ModeReplace every line in [Start, End] is removed first. The operation is
// atomic: on any validation error the buffer is left unchanged. Lines outside
// the range are never touched.
func Apply(b *Buffer, pt InsertionPoint, doc string) error {
	start, end := pt.Start, pt.End
	switch pt.Mode {
	case ModeReplace:
		if start < 1 || end < start || end > len(b.lines) {
			return fmt.Errorf("replace range %d-%d out of bounds (%d lines)", start, end, len(b.lines))
		}
	default:
		if start < 1 || start > len(b.lines)+1 {
			return fmt.Errorf("insert line %d out of bounds (%d lines)", start, len(b.lines))
		}
		end = start - 1 // delete nothing
	}

	block := FormatBlock(doc, pt.IndentWidth)

	out := make([]string, 0, len(b.lines)+len(block))
	out = append(out, b.lines[:start-1]...)
	out = append(out, block...)
	out = append(out, b.lines[end:]...)
	b.lines = out
	return nil
}
