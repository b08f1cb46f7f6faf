package llm

import (
	"fmt"
	"os"
	"time"
)

// Settings selects and tunes a provider.
type Settings struct {
	Provider string // "openai", "anthropic", "ollama"
	Model    string
	APIKey   string        // overrides the provider's environment variable
	BaseURL  string        // OpenAI-compatible endpoint or Ollama host
	RPM      int           // requests per minute, 0 for unlimited
	Timeout  time.Duration // per-call deadline, 0 for none
}

// APIKeyEnvVar returns the environment variable holding the API key for a
// provider, or "" when the provider needs none.
func APIKeyEnvVar(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// NewProvider creates the provider named by s.Provider, reading API keys
// from s.APIKey or the environment, and wraps it with rate limiting and a
// timeout when configured.
func NewProvider(s Settings) (Provider, error) {
	apiKey := s.APIKey
	if apiKey == "" {
		if env := APIKeyEnvVar(s.Provider); env != "" {
			apiKey = os.Getenv(env)
		}
	}

	var p Provider
	switch s.Provider {
	case "anthropic":
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		p = NewAnthropicProvider(apiKey, s.Model)

	case "openai":
		if apiKey == "" && s.BaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		p = NewOpenAIProvider(apiKey, s.Model, s.BaseURL)

	case "ollama":
		host := s.BaseURL
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		p = NewOllamaProvider(host, s.Model)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", s.Provider)
	}

	if s.RPM > 0 || s.Timeout > 0 {
		p = NewLimited(p, s.RPM, s.Timeout)
	}
	return p, nil
}
