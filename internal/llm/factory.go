package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/pmicheck/internal/model"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty provider name disables explanations and returns nil.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	cfg := DefaultConfig()
	cfg.Provider = modelConfig.Provider
	cfg.Model = modelConfig.Model
	cfg.APIKey = modelConfig.APIKey
	cfg.BaseURL = modelConfig.BaseURL
	if modelConfig.Timeout > 0 {
		cfg.Timeout = modelConfig.Timeout
	}
	if modelConfig.MaxTokens > 0 {
		cfg.MaxTokens = modelConfig.MaxTokens
	}
	return cfg
}
