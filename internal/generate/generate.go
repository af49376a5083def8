// Package generate asks the text-generation service for the docstring
// rendition of a source file.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"docstringer/internal/llm"
	"docstringer/internal/pyast"
)

// Generator produces the raw documentation text for one file. Files without
// any class or function definition never reach the service.
type Generator struct {
	client  llm.Client
	prompts llm.PromptBuilder
	rawDir  string // mirror directory for raw model output, empty disables
	log     *log.Logger
}

func New(client llm.Client, rawDir string, logger *log.Logger) *Generator {
	return &Generator{client: client, rawDir: rawDir, log: logger}
}

// DocstringsForFile returns the generated documentation text for the file at
// path, or "" when the file defines nothing documentable. contextText is
// optional repository context forwarded verbatim to the service. root anchors
// the raw-output mirror path.
func (g *Generator) DocstringsForFile(ctx context.Context, path, root, contextText string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	ok, err := pyast.HasDefinitions(src)
	if err != nil {
		return "", fmt.Errorf("cannot analyze %s: %w", path, err)
	}
	if !ok {
		g.log.Info("no class or function definitions, skipping generation", "file", path)
		return "", nil
	}

	out, err := g.client.Generate(ctx, string(src), g.prompts.BuildDocstringInstruction(), contextText)
	if err != nil {
		return "", fmt.Errorf("generation failed for %s: %w", path, err)
	}

	if g.rawDir != "" {
		g.writeRaw(path, root, out)
	}
	return out, nil
}

// writeRaw mirrors the raw model output under the raw-output directory.
// Best effort only; a failed mirror never fails the run.
func (g *Generator) writeRaw(path, root, out string) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	dest := filepath.Join(g.rawDir, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		g.log.Warn("could not create raw output directory", "err", err)
		return
	}
	if err := os.WriteFile(dest, []byte(out), 0644); err != nil {
		g.log.Warn("could not write raw output", "file", dest, "err", err)
	}
}
