package llm

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/emailqa/internal/model"
)

// NewProvider returns nil without error when no provider is configured
func NewProvider(config Config, logger zerolog.Logger) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		p, err := NewOpenAIProvider(config, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "ollama":
		p, err := NewOllamaProvider(config, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel maps the file configuration. Probe proxies are reused for
// the LLM endpoint.
func ConfigFromModel(cfg model.LLMConfig, probe model.ProbeConfig) Config {
	return Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		MaxTokens:   cfg.MaxTokens,
		StrictLinks: cfg.StrictLinks,
		HTTPProxy:   probe.HTTPProxy,
		HTTPSProxy:  probe.HTTPSProxy,
		NoProxy:     probe.NoProxy,
	}
}
