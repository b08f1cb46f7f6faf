package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to ourhour-chatbot! Let's configure the assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Groupware API.
	apiPrompt := promptui.Prompt{
		Label:    "Groupware API base URL",
		Default:  cfg.API.BaseURL,
		Validate: validateURL,
	}
	baseURL, err := apiPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	// 2. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := GetPreset(provider)
	cfg.LLM.Provider = provider
	cfg.LLM.Model = preset.Model
	cfg.LLM.ClassifierModel = preset.ClassifierModel

	// 3. Classifier.
	modePrompt := promptui.Select{
		Label: "How should questions be routed?",
		Items: []string{
			"heuristic: keyword rules, no extra model calls",
			"llm: ask the classifier model, keywords as fallback",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("classifier selection: %w", err)
	}
	cfg.Classifier.Mode = []ClassifierMode{ClassifierHeuristic, ClassifierLLM}[modeIdx]

	// 4. JWT secret.
	secretPrompt := promptui.Prompt{
		Label: "JWT secret (base64, shared with the groupware backend; blank to set OURHOUR_AUTH__JWT_SECRET later)",
		Mask:  '*',
	}
	secret, err := secretPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("jwt secret: %w", err)
	}
	cfg.Auth.JWTSecret = strings.TrimSpace(secret)

	// 5. Allowed origins.
	originsPrompt := promptui.Prompt{
		Label:   "Allowed CORS origins (comma-separated)",
		Default: strings.Join(cfg.Server.AllowedOrigins, ","),
	}
	originsStr, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed origins: %w", err)
	}
	cfg.Server.AllowedOrigins = splitAndTrim(originsStr)

	// 6. Knowledge search.
	knowledgePrompt := promptui.Select{
		Label: "Append related records from an embedding index?",
		Items: []string{"no", "yes"},
	}
	knowledgeIdx, _, err := knowledgePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("knowledge selection: %w", err)
	}
	if knowledgeIdx == 1 {
		cfg.Knowledge.Enabled = true
		cfg.Knowledge.Embedder = embeddingProviderFor(provider)
		cfg.Knowledge.Model = GetPreset(cfg.Knowledge.Embedder).EmbeddingModel
	}

	// Check for API key.
	if envVar := APIKeyEnvVar(provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: set %s in your environment or .env, or run `ourhour-chatbot auth %s`.\n", envVar, provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("enter an http(s) URL")
	}
	return nil
}

// embeddingProviderFor returns the default embedding provider for a given
// LLM provider. Anthropic has no embeddings API, so it uses OpenAI.
func embeddingProviderFor(p ProviderType) ProviderType {
	if p == ProviderOllama {
		return ProviderOllama
	}
	return ProviderOpenAI
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
