package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/pmicheck/internal/report"
)

// Summarizer adds an optional explanation to ready result documents.
// A Summarizer without a provider is disabled and does nothing.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer for the configured provider
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// NewSummarizerWithProvider wraps an existing provider
func NewSummarizerWithProvider(p Provider, config Config) *Summarizer {
	return &Summarizer{provider: p, config: config}
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the provider name, "" when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// Explain returns a plain-language explanation of doc. Disabled summarizers
// and documents without a result return "" and no error.
func (s *Summarizer) Explain(ctx context.Context, doc report.Document) (string, error) {
	if !s.IsEnabled() || doc.Status != report.StatusReady {
		return "", nil
	}

	resp, err := s.provider.Explain(ctx, ExplainRequest{
		Document:  doc,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s explanation: %w", s.provider.Name(), err)
	}
	return resp.Text, nil
}
