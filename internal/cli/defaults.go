package cli

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/emailqa/internal/model"
)

const configHeader = `# emailqa configuration
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (EMAILQA_*, e.g. EMAILQA_RULES_DIR)
#   3. This config file
#   4. Built-in defaults
#
# Durations are nanoseconds or Go duration strings such as "5s".

`

const configFooter = `
# API keys are better kept in the environment:
#   export OPENAI_API_KEY=sk-...
#   export OLLAMA_BASE_URL=http://localhost:11434
`

// renderDefaultConfig returns a commented YAML file holding the defaults
func renderDefaultConfig() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(model.DefaultConfig()); err != nil {
		return nil, fmt.Errorf("error marshaling config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("error marshaling config: %w", err)
	}

	buf.WriteString(configFooter)
	return buf.Bytes(), nil
}
