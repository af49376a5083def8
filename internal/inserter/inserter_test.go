package inserter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstringer/internal/logging"
	"docstringer/internal/reconcile"
)

type fakeClient struct {
	resp  string
	err   error
	calls int
}

func (f *fakeClient) Generate(ctx context.Context, code, instruction, contextText string) (string, error) {
	f.calls++
	return f.resp, f.err
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newEngine(client *fakeClient) *Engine {
	return New(reconcile.New(client), logging.New("error"))
}

func TestInsertFile_SimpleInsert(t *testing.T) {
	path := writeSource(t, "def add(a, b):\n    return a + b\n")
	engine := newEngine(&fakeClient{})

	generated := "start\ndef add(a, b):\n    \"\"\"Add two numbers.\"\"\"\nend\n"
	report, err := engine.InsertFile(context.Background(), path, generated)
	require.NoError(t, err)

	assert.Equal(t, 1, report.CodeDefs)
	assert.Equal(t, 1, report.Generated)
	assert.Equal(t, []string{"add(a, b)"}, report.Inserted)
	assert.Empty(t, report.NotInserted)
	assert.Empty(t, report.NotGenerated)
	assert.True(t, report.Complete())

	want := "def add(a, b):\n" +
		"    \"\"\"\n" +
		"    Add two numbers.\n" +
		"    \"\"\"\n" +
		"    return a + b\n"
	assert.Equal(t, want, readBack(t, path))
}

func TestInsertFile_ReplaceWithMerge(t *testing.T) {
	path := writeSource(t, "class Foo(Bar):\n    \"\"\"Legacy summary.\"\"\"\n\n    pass\n")
	client := &fakeClient{resp: "Merged summary."}
	engine := newEngine(client)

	generated := "class Foo(Bar):\n    \"\"\"Fresh summary.\"\"\"\n"
	report, err := engine.InsertFile(context.Background(), path, generated)
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo(Bar)"}, report.Inserted)
	assert.Equal(t, 1, client.calls, "differing docstrings trigger one merge call")

	want := "class Foo(Bar):\n" +
		"    \"\"\"\n" +
		"    Merged summary.\n" +
		"    \"\"\"\n" +
		"\n" +
		"    pass\n"
	assert.Equal(t, want, readBack(t, path))
}

func TestInsertFile_ShadowedNameFirstOccurrence(t *testing.T) {
	path := writeSource(t, "def helper(x):\n    return 1\n\n\ndef helper(x):\n    return 2\n")
	engine := newEngine(&fakeClient{})

	generated := "def helper(x):\n    \"\"\"Helps.\"\"\"\n"
	report, err := engine.InsertFile(context.Background(), path, generated)
	require.NoError(t, err)

	assert.Equal(t, 2, report.CodeDefs)
	assert.Equal(t, []string{"helper(x)"}, report.Inserted)
	assert.Equal(t, []string{"helper(x)"}, report.NotInserted, "shadowed occurrence is never matched")

	// Only the first definition gains the docstring.
	want := "def helper(x):\n" +
		"    \"\"\"\n" +
		"    Helps.\n" +
		"    \"\"\"\n" +
		"    return 1\n" +
		"\n" +
		"\n" +
		"def helper(x):\n" +
		"    return 2\n"
	assert.Equal(t, want, readBack(t, path))
}

func TestInsertFile_ReparseBetweenSplices(t *testing.T) {
	// The first splice shifts everything below it; the second must still
	// land on its own definition.
	path := writeSource(t, "def one():\n    return 1\n\n\ndef two():\n    return 2\n")
	engine := newEngine(&fakeClient{})

	generated := "def one():\n    \"\"\"First.\"\"\"\n\n\ndef two():\n    \"\"\"Second.\"\"\"\n"
	report, err := engine.InsertFile(context.Background(), path, generated)
	require.NoError(t, err)

	assert.Equal(t, []string{"one()", "two()"}, report.Inserted)
	assert.True(t, report.Complete())

	want := "def one():\n" +
		"    \"\"\"\n" +
		"    First.\n" +
		"    \"\"\"\n" +
		"    return 1\n" +
		"\n" +
		"\n" +
		"def two():\n" +
		"    \"\"\"\n" +
		"    Second.\n" +
		"    \"\"\"\n" +
		"    return 2\n"
	assert.Equal(t, want, readBack(t, path))
}

func TestInsertFile_MethodAncestry(t *testing.T) {
	path := writeSource(t, "class Box:\n    def get(self):\n        return self.v\n")
	engine := newEngine(&fakeClient{})

	generated := "class Box:\n    \"\"\"Holds a value.\"\"\"\n\n    def get(self):\n        \"\"\"Returns the value.\"\"\"\n"
	report, err := engine.InsertFile(context.Background(), path, generated)
	require.NoError(t, err)

	assert.Equal(t, []string{"Box()", "Box.get(self)"}, report.Inserted)

	want := "class Box:\n" +
		"    \"\"\"\n" +
		"    Holds a value.\n" +
		"    \"\"\"\n" +
		"    def get(self):\n" +
		"        \"\"\"\n" +
		"        Returns the value.\n" +
		"        \"\"\"\n" +
		"        return self.v\n"
	assert.Equal(t, want, readBack(t, path))
}

func TestInsertFile_SignatureMismatchNotInserted(t *testing.T) {
	path := writeSource(t, "def f(a, b):\n    pass\n")
	engine := newEngine(&fakeClient{})

	// The generated header carries a different parameter list, so the
	// identity keys never line up.
	generated := "def f(a):\n    \"\"\"Doc.\"\"\"\n"
	report, err := engine.InsertFile(context.Background(), path, generated)
	require.NoError(t, err)

	assert.Empty(t, report.Inserted)
	assert.Equal(t, []string{"f(a)"}, report.NotInserted)
	assert.Equal(t, []string{"f(a, b)"}, report.NotGenerated)
	assert.Equal(t, "def f(a, b):\n    pass\n", readBack(t, path))
}

func TestInsertFile_EmptyGenerated(t *testing.T) {
	path := writeSource(t, "def f():\n    pass\n")
	engine := newEngine(&fakeClient{})

	report, err := engine.InsertFile(context.Background(), path, "start\nend\n")
	require.NoError(t, err)

	assert.Zero(t, report.Generated)
	assert.Equal(t, []string{"f()"}, report.NotGenerated)
}

func TestInsertFile_UnparsableGenerated(t *testing.T) {
	path := writeSource(t, "def f():\n    pass\n")
	engine := newEngine(&fakeClient{})

	report, err := engine.InsertFile(context.Background(), path, "def broken(:\n    pass\n")
	require.NoError(t, err, "an unusable documentation tree is not fatal")

	assert.Empty(t, report.Inserted)
	assert.Equal(t, []string{"f()"}, report.NotGenerated)
}

func TestInsertFile_InvalidSourceFatal(t *testing.T) {
	path := writeSource(t, "def broken(:\n    pass\n")
	engine := newEngine(&fakeClient{})

	_, err := engine.InsertFile(context.Background(), path, "def f():\n    \"\"\"Doc.\"\"\"\n")
	require.Error(t, err)
}

func TestInsertFile_MergeFailureLeavesOldDocstring(t *testing.T) {
	src := "def f():\n    \"\"\"Old.\"\"\"\n    pass\n"
	path := writeSource(t, src)
	client := &fakeClient{resp: ""} // merge comes back empty
	engine := newEngine(client)

	generated := "def f():\n    \"\"\"New.\"\"\"\n"
	report, err := engine.InsertFile(context.Background(), path, generated)
	require.NoError(t, err)

	assert.Equal(t, []string{"f()"}, report.NotInserted)
	assert.Equal(t, src, readBack(t, path), "failed merge leaves the file untouched")
}
