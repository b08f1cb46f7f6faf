package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/C1Z4/ourhour-chatbot/internal/llm"
)

// APIKeyCredentials stores an API key for a provider.
type APIKeyCredentials struct {
	APIKey string `json:"api_key,omitempty"`
}

// Credentials holds stored LLM provider keys.
type Credentials struct {
	Anthropic *APIKeyCredentials `json:"anthropic,omitempty"`
	OpenAI    *APIKeyCredentials `json:"openai,omitempty"`
}

// credentialDir overrides the home directory in tests.
var credentialDir = ""

// CredentialPath returns the path to the credentials file
// (~/.ourhour-chatbot/credentials.json).
func CredentialPath() (string, error) {
	dir := credentialDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".ourhour-chatbot")
	}
	return filepath.Join(dir, "credentials.json"), nil
}

// Load reads the stored credentials. A missing file yields empty
// credentials.
func Load() (*Credentials, error) {
	path, err := CredentialPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return &creds, nil
}

// Save writes credentials with owner-only permissions.
func Save(creds *Credentials) error {
	path, err := CredentialPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// SetAPIKey stores key for provider.
func (c *Credentials) SetAPIKey(provider, key string) error {
	var entry *APIKeyCredentials
	if key != "" {
		entry = &APIKeyCredentials{APIKey: key}
	}
	switch provider {
	case "anthropic":
		c.Anthropic = entry
	case "openai":
		c.OpenAI = entry
	default:
		return fmt.Errorf("unknown provider %q (valid: anthropic, openai)", provider)
	}
	return nil
}

// APIKey returns the stored key for provider, or "".
func (c *Credentials) APIKey(provider string) string {
	var entry *APIKeyCredentials
	switch provider {
	case "anthropic":
		entry = c.Anthropic
	case "openai":
		entry = c.OpenAI
	}
	if entry == nil {
		return ""
	}
	return entry.APIKey
}

// GetAPIKey returns the API key for provider. The environment variable
// wins over the stored credentials.
func GetAPIKey(provider string) string {
	if env := llm.APIKeyEnvVar(provider); env != "" {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	creds, err := Load()
	if err != nil {
		return ""
	}
	return creds.APIKey(provider)
}
