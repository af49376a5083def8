// Package llm talks to the external text-generation service. The service is
// an opaque collaborator: given a code snippet and an instruction it returns
// free text, possibly wrapped in framing artifacts that Sanitize removes.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Client is the text-generation collaborator.
type Client interface {
	// Generate sends code together with an instruction and optional
	// repository context and returns the raw model text.
	Generate(ctx context.Context, code, instruction, contextText string) (string, error)
}

// Options configure the provider factory.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NewClient builds a Client for the configured provider.
func NewClient(ctx context.Context, opts Options) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "gemini"
	}

	switch provider {
	case "gemini":
		return NewGeminiClient(ctx, opts.APIKey, opts.Model)
	case "openai":
		return NewOpenAIClient(opts.APIKey, opts.Model, opts.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", opts.Provider)
	}
}

// composePrompt assembles the request text shared by all providers.
func composePrompt(code, instruction, contextText string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(instruction))
	if contextText != "" {
		sb.WriteString("\n\nadditional information:\n")
		sb.WriteString(contextText)
	}
	if code != "" {
		sb.WriteString("\n\ncode to be edited:\n")
		sb.WriteString(code)
	}
	return sb.String()
}
