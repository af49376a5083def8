package llm

import "strings"

// framingLines is the fixed table of framing artifacts the generation service
// is known to emit: sentinel markers and fenced-code delimiters.
var framingLines = map[string]bool{
	"start":     true,
	"end":       true,
	"```":       true,
	"```python": true,
	"```py":     true,
}

// Sanitize strips framing artifacts from a single generated fragment and
// trims surrounding whitespace.
func Sanitize(text string) string {
	return strings.TrimSpace(StripFraming(text))
}

// StripFraming removes every line that consists solely of a recognized
// framing marker. Generated multi-snippet output carries markers between
// fragments, not only at the edges, so the whole text is filtered.
func StripFraming(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if framingLines[strings.TrimSpace(line)] {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
