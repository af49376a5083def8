// Package reconcile merges an existing docstring with a newly generated one.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docstringer/internal/llm"
)

// ErrReconcile marks a failed or unusable merge round-trip. Recoverable per
// node; the node's new docstring is discarded and the old one left untouched.
var ErrReconcile = errors.New("docstring reconciliation failed")

// Reconciler decides the final docstring for a definition. Semantic merge
// decisions are delegated to the text-generation collaborator; the merge call
// is not retried on failure.
type Reconciler struct {
	client  llm.Client
	prompts llm.PromptBuilder
}

func New(client llm.Client) *Reconciler {
	return &Reconciler{client: client}
}

// Reconcile returns the docstring to write for a definition that generated
// newDoc and may already carry oldDoc.
func (r *Reconciler) Reconcile(ctx context.Context, oldDoc, newDoc string) (string, error) {
	newDoc = llm.Sanitize(newDoc)
	if oldDoc == "" {
		return newDoc, nil
	}
	if strings.TrimSpace(oldDoc) == newDoc {
		return newDoc, nil
	}

	merged, err := r.client.Generate(ctx, "", r.prompts.BuildMergeInstruction(oldDoc, newDoc), "")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReconcile, err)
	}
	merged = llm.Sanitize(merged)
	if merged == "" {
		return "", fmt.Errorf("%w: merge returned empty text", ErrReconcile)
	}
	return merged, nil
}
