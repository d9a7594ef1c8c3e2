package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/pmicheck/internal/report"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Explain writes a short plain-language explanation of a result
	Explain(ctx context.Context, req ExplainRequest) (*ExplainResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ExplainRequest contains the input for an explanation
type ExplainRequest struct {
	// Document is the built result the explanation must stay faithful to
	Document report.Document

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ExplainResponse contains the LLM's output
type ExplainResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictFigures rejects explanations quoting dollar amounts or
	// percentages that are not in the report
	StrictFigures bool

	MaxTokens int
}

// DefaultConfig returns the defaults: disabled, strict figures
func DefaultConfig() Config {
	return Config{
		Provider:      "",
		Timeout:       30,
		StrictFigures: true,
		MaxTokens:     400,
	}
}

// BuildPrompt constructs the default explanation prompt
func BuildPrompt(doc report.Document) string {
	var b strings.Builder
	b.WriteString(`You are explaining a private mortgage insurance (PMI) cancellation check to a homeowner.

RULES:
1. Use only the figures listed below. Do not compute or invent new numbers.
2. Do not give legal or financial advice; suggest contacting the loan servicer to confirm.
3. Write 2-3 short sentences in plain English.

Result:
`)
	fmt.Fprintf(&b, "- %s\n", doc.Headline)
	for _, line := range doc.Bullets {
		fmt.Fprintf(&b, "- %s\n", line.String())
	}
	if closing := doc.Closing.String(); closing != "" {
		fmt.Fprintf(&b, "- %s\n", closing)
	}
	return b.String()
}

// allowedFigures collects every figure the document states
func allowedFigures(doc report.Document) map[string]bool {
	allowed := make(map[string]bool)
	for _, f := range extractFigures(doc.Headline) {
		allowed[f] = true
	}
	for _, line := range append(append([]report.Line(nil), doc.Bullets...), doc.Closing) {
		for _, f := range extractFigures(line.String()) {
			allowed[f] = true
		}
	}
	return allowed
}
