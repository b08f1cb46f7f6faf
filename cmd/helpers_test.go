package cmd

import (
	"context"
	"log/slog"
	"testing"

	"github.com/C1Z4/ourhour-chatbot/internal/config"
	"github.com/C1Z4/ourhour-chatbot/internal/intent"
)

func TestTokenFlagFallsBackToEnv(t *testing.T) {
	t.Setenv("OURHOUR_TOKEN", "env-token")

	if got := tokenFlag("flag-token"); got != "flag-token" {
		t.Errorf("tokenFlag(flag) = %q, want flag-token", got)
	}
	if got := tokenFlag(""); got != "env-token" {
		t.Errorf("tokenFlag(\"\") = %q, want env-token", got)
	}
}

func TestSetupLoggerLevel(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	cfg := config.DefaultConfig()
	cfg.Log.Level = "warn"
	logger := setupLogger(cfg)
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}

	verbose = true
	defer func() { verbose = false }()
	logger = setupLogger(cfg)
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("verbose should enable debug")
	}
}

func TestAggregatorOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Aggregator.Concurrency = 7
	cfg.Aggregator.IssueLimit = 2

	opts := aggregatorOptions(cfg, slog.Default())
	if opts.Concurrency != 7 || opts.IssueLimit != 2 {
		t.Errorf("options = %+v", opts)
	}
	if opts.ParticipantLimit != cfg.Aggregator.ParticipantLimit {
		t.Errorf("ParticipantLimit = %d, want %d", opts.ParticipantLimit, cfg.Aggregator.ParticipantLimit)
	}
}

func TestHeuristicClassifiersNeedNoProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	primary, orgChart, chat := classifiers(cfg, nil, slog.Default())

	if got := primary.Classify(context.Background(), "챗봇 프로젝트 진행 상황 알려줘"); got != intent.ProjectQuery {
		t.Errorf("primary = %q, want %q", got, intent.ProjectQuery)
	}
	if !intent.OrgChartTier.Valid(orgChart.Classify(context.Background(), "개발팀은 몇 명이야?")) {
		t.Error("org chart classifier returned a label outside its tier")
	}
	if !intent.ChatTier.Valid(chat.Classify(context.Background(), "채팅방 목록 보여줘")) {
		t.Error("chat classifier returned a label outside its tier")
	}
}

func TestNewServiceWithOllama(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = config.ProviderOllama
	cfg.LLM.BaseURL = "http://127.0.0.1:1"

	svc, err := newService(cfg, slog.Default())
	if err != nil {
		t.Fatalf("newService: %v", err)
	}
	if svc == nil {
		t.Fatal("newService returned nil")
	}
}

func TestNewServiceRejectsUnknownEmbedder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = config.ProviderOllama
	cfg.Knowledge.Enabled = true
	cfg.Knowledge.Embedder = "word2vec"

	if _, err := newService(cfg, slog.Default()); err == nil {
		t.Fatal("expected an error for an unknown embedder")
	}
}
