package config

import "time"

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderOllama    ProviderType = "ollama"
)

// ClassifierMode selects how questions are routed.
type ClassifierMode string

const (
	ClassifierHeuristic ClassifierMode = "heuristic"
	ClassifierLLM       ClassifierMode = "llm"
)

// HistoryDriver selects the chat history backend.
type HistoryDriver string

const (
	HistorySQLite   HistoryDriver = "sqlite"
	HistoryPostgres HistoryDriver = "postgres"
)

// Config is the top-level configuration, corresponding to .ourhour-chatbot.yaml.
type Config struct {
	API        APIConfig        `yaml:"api" koanf:"api"`
	LLM        LLMConfig        `yaml:"llm" koanf:"llm"`
	Classifier ClassifierConfig `yaml:"classifier" koanf:"classifier"`
	Aggregator AggregatorConfig `yaml:"aggregator" koanf:"aggregator"`
	Server     ServerConfig     `yaml:"server" koanf:"server"`
	Auth       AuthConfig       `yaml:"auth" koanf:"auth"`
	History    HistoryConfig    `yaml:"history" koanf:"history"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge" koanf:"knowledge"`
	Log        LogConfig        `yaml:"log" koanf:"log"`
}

// APIConfig points at the groupware REST API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" koanf:"base_url"`
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
}

// LLMConfig selects the text generator and the optional classifier model.
type LLMConfig struct {
	Provider        ProviderType  `yaml:"provider" koanf:"provider"`
	Model           string        `yaml:"model" koanf:"model"`
	ClassifierModel string        `yaml:"classifier_model" koanf:"classifier_model"`
	BaseURL         string        `yaml:"base_url,omitempty" koanf:"base_url"`
	MaxTokens       int           `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature     float64       `yaml:"temperature" koanf:"temperature"`
	RPM             int           `yaml:"rpm" koanf:"rpm"`
	Timeout         time.Duration `yaml:"timeout" koanf:"timeout"`
	ClassifyTimeout time.Duration `yaml:"classify_timeout" koanf:"classify_timeout"`
}

type ClassifierConfig struct {
	Mode ClassifierMode `yaml:"mode" koanf:"mode"`
}

// AggregatorConfig bounds the per-request snapshot fan-out.
type AggregatorConfig struct {
	Concurrency      int `yaml:"concurrency" koanf:"concurrency"`
	ProjectPageSize  int `yaml:"project_page_size" koanf:"project_page_size"`
	ParticipantLimit int `yaml:"participant_limit" koanf:"participant_limit"`
	MilestoneLimit   int `yaml:"milestone_limit" koanf:"milestone_limit"`
	IssueLimit       int `yaml:"issue_limit" koanf:"issue_limit"`
	CommentLimit     int `yaml:"comment_limit" koanf:"comment_limit"`
}

// ServerConfig holds the HTTP front door settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr" koanf:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" koanf:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
}

// AuthConfig holds the base64-encoded HS512 secret shared with the groupware.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret,omitempty" koanf:"jwt_secret"`
}

type HistoryConfig struct {
	Driver HistoryDriver `yaml:"driver" koanf:"driver"`
	DSN    string        `yaml:"dsn" koanf:"dsn"`
}

// KnowledgeConfig enables the related-records retriever.
type KnowledgeConfig struct {
	Enabled  bool         `yaml:"enabled" koanf:"enabled"`
	Embedder ProviderType `yaml:"embedder" koanf:"embedder"`
	Model    string       `yaml:"model" koanf:"model"`
	TopK     int          `yaml:"top_k" koanf:"top_k"`
}

type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
