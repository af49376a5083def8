// Package inserter walks a generated documentation tree and splices each
// docstring into its matching definition in the original source file.
package inserter

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"docstringer/internal/llm"
	"docstringer/internal/pyast"
	"docstringer/internal/reconcile"
	"docstringer/internal/splice"
)

// Engine drives the per-file insertion loop. Processing is strictly
// sequential: every successful splice shifts the line numbers of everything
// below it, so the source is re-read and re-parsed from disk before each
// node. Positions are never reused across a splice.
type Engine struct {
	rec *reconcile.Reconciler
	log *log.Logger
}

func New(rec *reconcile.Reconciler, logger *log.Logger) *Engine {
	return &Engine{rec: rec, log: logger}
}

// InsertFile parses generated as a documentation tree and inserts its
// docstrings into the file at path, one definition at a time in document
// order of the documentation tree. Node-level failures are recorded in the
// report and never abort the file; a returned error means the file itself
// could not be processed further (invalid source, or a failed write after
// which earlier splices remain on disk).
func (e *Engine) InsertFile(ctx context.Context, path string, generated string) (*Report, error) {
	buf, err := splice.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	codeTree, err := pyast.Parse(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	report := NewReport(path)
	report.CodeDefs = len(codeTree.Definitions)
	codeKeys, codeDupes := uniqueKeys(codeTree)

	generated = llm.StripFraming(generated)
	if strings.TrimSpace(generated) == "" {
		report.NotGenerated = keyStrings(codeKeys)
		return report, nil
	}

	docTree, err := pyast.Parse([]byte(generated))
	if err != nil {
		// The generated text is unusable as a documentation tree; every
		// definition in the file counts as not generated.
		e.log.Warn("generated documentation does not parse", "file", path, "err", err)
		report.NotGenerated = keyStrings(codeKeys)
		return report, nil
	}

	docKeySet := make(map[pyast.Key]bool, len(docTree.Definitions))
	for _, d := range docTree.Definitions {
		docKeySet[d.Key()] = true
	}

	seen := make(map[pyast.Key]bool)
	for _, docDef := range docTree.Definitions {
		key := docDef.Key()
		report.Generated++

		if seen[key] {
			// Duplicate identity inside the documentation tree; only the
			// first occurrence is matched.
			report.NotInserted = append(report.NotInserted, key.String())
			continue
		}
		seen[key] = true

		if docDef.Doc == "" {
			e.log.Debug("documentation node carries no docstring", "def", key.String())
			report.NotInserted = append(report.NotInserted, key.String())
			continue
		}

		if err := e.insertOne(ctx, path, key, docDef.Doc, report); err != nil {
			return report, err
		}
	}

	for _, key := range codeKeys {
		if !docKeySet[key] {
			report.NotGenerated = append(report.NotGenerated, key.String())
		}
	}
	// Shadowed definitions beyond the first occurrence of a key are never
	// matched, so nothing is ever inserted into them.
	report.NotInserted = append(report.NotInserted, keyStrings(codeDupes)...)
	return report, nil
}

// insertOne splices a single docstring. The source is re-read from the
// persisted file so that positions reflect every earlier splice. A non-nil
// error aborts the remaining nodes of the file; recoverable per-node
// conditions are recorded in the report and return nil.
func (e *Engine) insertOne(ctx context.Context, path string, key pyast.Key, doc string, report *Report) error {
	buf, err := splice.Read(path)
	if err != nil {
		return fmt.Errorf("failed to re-read %s: %w", path, err)
	}
	codeTree, err := pyast.Parse(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to re-parse %s: %w", path, err)
	}

	codeDef := codeTree.FindFirst(key)
	if codeDef == nil {
		// Stale name or signature mismatch; counted, not raised.
		report.NotInserted = append(report.NotInserted, key.String())
		return nil
	}

	point, err := splice.Locate(codeDef, buf.Lines())
	if err != nil {
		e.log.Warn("could not locate insertion point", "def", key.String(), "err", err)
		report.NotInserted = append(report.NotInserted, key.String())
		return nil
	}

	final, err := e.rec.Reconcile(ctx, codeDef.Doc, doc)
	if err != nil {
		e.log.Warn("docstring discarded", "def", key.String(), "err", err)
		report.NotInserted = append(report.NotInserted, key.String())
		return nil
	}

	if err := splice.Apply(buf, point, final); err != nil {
		e.log.Warn("splice rejected", "def", key.String(), "err", err)
		report.NotInserted = append(report.NotInserted, key.String())
		return nil
	}
	if err := buf.Persist(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	report.Inserted = append(report.Inserted, key.String())
	return nil
}

// uniqueKeys returns the first occurrence of every identity key in document
// order, plus the shadowed occurrences beyond the first.
func uniqueKeys(t *pyast.Tree) (keys, dupes []pyast.Key) {
	seen := make(map[pyast.Key]bool, len(t.Definitions))
	for _, d := range t.Definitions {
		k := d.Key()
		if seen[k] {
			dupes = append(dupes, k)
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys, dupes
}

func keyStrings(keys []pyast.Key) []string {
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}
