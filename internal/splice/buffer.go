// Package splice performs line-level docstring insertion against a source
// buffer, leaving every untouched line byte-identical.
package splice

import (
	"os"
	"strings"
)

// Buffer is the in-memory line view of one source file. It is exclusively
// owned while a file is being processed; line numbers handed to Apply are
// only valid against the buffer state they were computed from.
type Buffer struct {
	path  string
	lines []string
}

// Read loads the file at path into a line buffer.
func Read(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(path, data), nil
}

// FromBytes builds a buffer over data. Splitting on "\n" keeps carriage
// returns attached to their lines, so joining reproduces the input exactly.
func FromBytes(path string, data []byte) *Buffer {
	return &Buffer{path: path, lines: strings.Split(string(data), "\n")}
}

// Lines exposes the current line slice. Callers must treat it as read-only.
func (b *Buffer) Lines() []string {
	return b.lines
}

// LineCount returns the number of physical lines in the buffer.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Bytes renders the buffer back to file content.
func (b *Buffer) Bytes() []byte {
	return []byte(strings.Join(b.lines, "\n"))
}

// Persist writes the buffer back to the path it was read from.
func (b *Buffer) Persist() error {
	return os.WriteFile(b.path, b.Bytes(), 0644)
}
