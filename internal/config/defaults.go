package config

import "time"

// DefaultPath is the configuration file read from the working directory.
const DefaultPath = ".ourhour-chatbot.yaml"

// ModelPreset describes the models to use with a provider.
type ModelPreset struct {
	Model           string
	ClassifierModel string
	EmbeddingModel  string
}

// modelPresets maps each provider to its model choices.
var modelPresets = map[ProviderType]ModelPreset{
	ProviderAnthropic: {
		Model:           "claude-sonnet-4-5-20250929",
		ClassifierModel: "claude-haiku-4-5-20251001",
		EmbeddingModel:  "text-embedding-3-small",
	},
	ProviderOpenAI: {
		Model:           "gpt-4o",
		ClassifierModel: "gpt-4o-mini",
		EmbeddingModel:  "text-embedding-3-small",
	},
	ProviderOllama: {
		Model:           "llama3",
		ClassifierModel: "llama3",
		EmbeddingModel:  "nomic-embed-text",
	},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Provider:        ProviderOpenAI,
			Model:           "gpt-4o",
			ClassifierModel: "gpt-4o-mini",
			MaxTokens:       1024,
			Temperature:     0.3,
			ClassifyTimeout: 10 * time.Second,
			Timeout:         60 * time.Second,
		},
		Classifier: ClassifierConfig{Mode: ClassifierHeuristic},
		Aggregator: AggregatorConfig{
			Concurrency:      4,
			ProjectPageSize:  100,
			ParticipantLimit: 20,
			MilestoneLimit:   10,
			IssueLimit:       5,
			CommentLimit:     3,
		},
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"http://localhost:5173"},
			RequestTimeout: 90 * time.Second,
		},
		History: HistoryConfig{
			Driver: HistorySQLite,
			DSN:    "ourhour-chatbot.db",
		},
		Knowledge: KnowledgeConfig{
			Embedder: ProviderOpenAI,
			Model:    "text-embedding-3-small",
			TopK:     3,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// GetPreset returns the model preset for the given provider.
// Returns the OpenAI preset if the provider is unknown.
func GetPreset(provider ProviderType) ModelPreset {
	if p, ok := modelPresets[provider]; ok {
		return p
	}
	return modelPresets[ProviderOpenAI]
}
