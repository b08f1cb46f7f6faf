package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/C1Z4/ourhour-chatbot/internal/auth"
	"github.com/C1Z4/ourhour-chatbot/internal/config"
	"github.com/C1Z4/ourhour-chatbot/internal/dispatch"
	"github.com/C1Z4/ourhour-chatbot/internal/intent"
	"github.com/C1Z4/ourhour-chatbot/internal/knowledge"
	"github.com/C1Z4/ourhour-chatbot/internal/llm"
	"github.com/C1Z4/ourhour-chatbot/internal/ourhour"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `ourhour-chatbot init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// setupLogger installs the process-wide slog handler on stderr.
func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(cfg.Log.Format, "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings. Stored credentials are used when the environment has no key.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(llm.Settings{
		Provider: string(cfg.LLM.Provider),
		Model:    cfg.LLM.Model,
		APIKey:   auth.GetAPIKey(string(cfg.LLM.Provider)),
		BaseURL:  cfg.LLM.BaseURL,
		RPM:      cfg.LLM.RPM,
		Timeout:  cfg.LLM.Timeout,
	})
}

// createRetrieverFromConfig returns nil when knowledge search is disabled.
func createRetrieverFromConfig(cfg *config.Config, logger *slog.Logger) (*knowledge.Retriever, error) {
	if !cfg.Knowledge.Enabled {
		return nil, nil
	}
	var baseURL string
	if cfg.Knowledge.Embedder == cfg.LLM.Provider {
		baseURL = cfg.LLM.BaseURL
	}
	e, err := knowledge.NewEmbedder(string(cfg.Knowledge.Embedder), cfg.Knowledge.Model,
		auth.GetAPIKey(string(cfg.Knowledge.Embedder)), baseURL)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return knowledge.NewRetriever(e, logger), nil
}

func clientFactory(cfg *config.Config) ourhour.Factory {
	return ourhour.NewFactory(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout})
}

func aggregatorOptions(cfg *config.Config, logger *slog.Logger) snapshot.Options {
	a := cfg.Aggregator
	return snapshot.Options{
		Concurrency:      a.Concurrency,
		ProjectPageSize:  a.ProjectPageSize,
		ParticipantLimit: a.ParticipantLimit,
		MilestoneLimit:   a.MilestoneLimit,
		IssueLimit:       a.IssueLimit,
		CommentLimit:     a.CommentLimit,
		Logger:           logger,
	}
}

// classifiers builds the three tiers. In llm mode they share the provider
// and use the classifier model.
func classifiers(cfg *config.Config, p llm.Provider, logger *slog.Logger) (primary, orgChart, chat intent.Classifier) {
	mode := string(cfg.Classifier.Mode)
	model := cfg.LLM.ClassifierModel
	if model == "" {
		model = cfg.LLM.Model
	}
	opts := intent.LLMOptions{Model: model, Timeout: cfg.LLM.ClassifyTimeout, Logger: logger}
	return intent.New(mode, intent.PrimaryTier, p, opts),
		intent.New(mode, intent.OrgChartTier, p, opts),
		intent.New(mode, intent.ChatTier, p, opts)
}

// newService wires the question pipeline from config.
func newService(cfg *config.Config, logger *slog.Logger) (*dispatch.Service, error) {
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	retriever, err := createRetrieverFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	primary, orgChart, chat := classifiers(cfg, provider, logger)
	opts := dispatch.Options{
		Clients:    clientFactory(cfg),
		Provider:   provider,
		Primary:    primary,
		OrgChart:   orgChart,
		Chat:       chat,
		Aggregator: aggregatorOptions(cfg, logger),
		Generate: llm.Options{
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		},
		Logger: logger,
	}
	if retriever != nil {
		opts.Retriever = retriever
		opts.RelatedLimit = cfg.Knowledge.TopK
	}
	return dispatch.NewService(opts), nil
}

// tokenFlag falls back to OURHOUR_TOKEN so tokens stay out of shell history.
func tokenFlag(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("OURHOUR_TOKEN")
}
