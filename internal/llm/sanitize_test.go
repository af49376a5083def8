package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFraming(t *testing.T) {
	in := "start\n```python\ndef f():\n    pass\n```\nend"
	assert.Equal(t, "\n\ndef f():\n    pass\n\n", StripFraming(in))
}

func TestStripFraming_InteriorMarkers(t *testing.T) {
	// Markers appear between fragments, not only at the edges.
	in := "def a():\n    pass\nend\nstart\ndef b():\n    pass"
	assert.Equal(t, "def a():\n    pass\ndef b():\n    pass", StripFraming(in))
}

func TestStripFraming_KeepsNonMarkerLines(t *testing.T) {
	// "start" as part of a longer line is content, not framing.
	in := "start the engine\nreturn start"
	assert.Equal(t, in, StripFraming(in))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Adds numbers.", Sanitize("start\nAdds numbers.\nend\n"))
	assert.Equal(t, "", Sanitize("```\n```python\nstart\nend\n"))
}
