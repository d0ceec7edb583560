package llm

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultOllamaURL = "http://localhost:11434"

// NewOllamaProvider targets a local Ollama server through its
// OpenAI-compatible /v1 endpoint. A model must be configured.
func NewOllamaProvider(config Config, logger zerolog.Logger) (*OpenAIProvider, error) {
	base := strings.TrimSuffix(config.BaseURL, "/")
	if base == "" {
		base = defaultOllamaURL
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	config.BaseURL = base

	if config.APIKey == "" {
		// ignored by Ollama but required by the client
		config.APIKey = "ollama"
	}

	// local models are slower
	return newCompatibleProvider("ollama", config, "", 60*time.Second, logger), nil
}
