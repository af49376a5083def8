package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNameOnly(t *testing.T) {
	output := []byte(`src/app.py
README.md
src/util/helpers.py

docs/guide.rst
tests/test_app.py
`)
	paths := parseNameOnly(output)
	assert.Equal(t, []string{"src/app.py", "src/util/helpers.py", "tests/test_app.py"}, paths)
}

func TestParseNameOnly_Empty(t *testing.T) {
	assert.Empty(t, parseNameOnly(nil))
	assert.Empty(t, parseNameOnly([]byte("\n\n")))
}
