package inserter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Summary(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		r := &Report{File: "a.py", CodeDefs: 2, Generated: 2, Inserted: []string{"f()", "g(x)"}}
		assert.Equal(t, " -> 2/2 docstrings generated and inserted", r.Summary())
	})

	t.Run("Partial", func(t *testing.T) {
		r := &Report{
			File:         "a.py",
			CodeDefs:     3,
			Generated:    2,
			Inserted:     []string{"f()"},
			NotInserted:  []string{"g(x)"},
			NotGenerated: []string{"h()"},
		}
		s := r.Summary()
		assert.Contains(t, s, "3 classes/functions in file")
		assert.Contains(t, s, "1 docstrings not generated: h()")
		assert.Contains(t, s, "1 of generated 2 docstrings not inserted: g(x)")
		assert.True(t, strings.HasSuffix(s, " -> 1/3 docstrings generated and inserted"))
	})
}

func TestSum(t *testing.T) {
	reports := []*Report{
		{CodeDefs: 2, Generated: 2, Inserted: []string{"a", "b"}},
		{CodeDefs: 3, Generated: 2, Inserted: []string{"c"}, NotInserted: []string{"d"}, NotGenerated: []string{"e"}},
	}
	totals := Sum(reports)
	assert.Equal(t, 2, totals.Files)
	assert.Equal(t, 5, totals.CodeDefs)
	assert.Equal(t, 4, totals.Generated)
	assert.Equal(t, 3, totals.Inserted)
	assert.Equal(t, 1, totals.NotInserted)
	assert.Equal(t, 1, totals.NotGenerated)
}
