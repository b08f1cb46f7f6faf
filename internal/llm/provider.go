// Package llm is the text-generation collaborator: one prompt in, one
// completion out. It backs both the final answers and the single-shot
// intent classification prompts.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Options tunes a single Generate call. Zero values defer to the provider.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Generate sends prompt as a single user message and returns the trimmed
// completion text.
func Generate(ctx context.Context, p Provider, prompt string, opts Options) (string, error) {
	if p == nil {
		return "", fmt.Errorf("llm: no provider configured")
	}
	resp, err := p.Complete(ctx, CompletionRequest{
		Model:       opts.Model,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", p.Name(), err)
	}
	return strings.TrimSpace(resp.Content), nil
}
