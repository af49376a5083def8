package splice

import (
	"errors"
	"regexp"

	"docstringer/internal/pyast"
)

// ErrMalformedHeader marks a definition whose insertion point cannot be
// located. Recoverable per node; the caller skips the node and records it.
var ErrMalformedHeader = errors.New("malformed definition header")

// Mode selects between replacing an existing docstring block and inserting a
// new one.
type Mode int

const (
	ModeInsert Mode = iota
	ModeReplace
)

func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "insert"
}

// InsertionPoint describes where and how a docstring block lands in the
// buffer. Start and End are 1-based and inclusive; for ModeInsert they are
// equal and name the line the block becomes.
type InsertionPoint struct {
	Mode        Mode
	Start       int
	End         int
	IndentWidth int
}

// headerColon matches the header line carrying the trailing colon, either at
// end of line or followed by an inline comment.
var headerColon = regexp.MustCompile(`(:\s*)$|(:\s*#.*$)`)

// Locate determines the insertion point for def against lines. When the
// definition already has a docstring the point replaces it; otherwise the
// header is scanned forward for its colon-terminated line, which may be
// several lines down for multi-line parameter lists.
func Locate(def *pyast.Definition, lines []string) (InsertionPoint, error) {
	if def.DocRange != nil {
		return InsertionPoint{
			Mode:        ModeReplace,
			Start:       def.DocRange.Start,
			End:         def.DocRange.End,
			IndentWidth: def.IndentWidth,
		}, nil
	}

	lo := def.StartLine - 1
	hi := def.HeaderEndLine - 1
	if hi > len(lines) {
		hi = len(lines)
	}
	if lo < 0 || lo >= hi {
		return InsertionPoint{}, ErrMalformedHeader
	}

	for i, line := range lines[lo:hi] {
		if headerColon.MatchString(line) {
			after := def.StartLine + i + 1
			return InsertionPoint{
				Mode:        ModeInsert,
				Start:       after,
				End:         after,
				IndentWidth: def.IndentWidth,
			}, nil
		}
	}
	return InsertionPoint{}, ErrMalformedHeader
}
