// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/C1Z4/ourhour-chatbot/internal/llm"
)

// MockProvider records calls and returns canned responses. When Reply is
// set it takes precedence over Response.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []llm.CompletionRequest
	Response string
	Reply    func(req llm.CompletionRequest) (string, error)
	Err      error
	ProvName string
}

// NewMockProvider returns a mock answering every call with response.
func NewMockProvider(response string) *MockProvider {
	return &MockProvider{ProvName: "mock", Response: response}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	reply, resp, err := m.Reply, m.Response, m.Err
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if reply != nil {
		content, err := reply(req)
		if err != nil {
			return nil, err
		}
		resp = content
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &llm.CompletionResponse{Content: resp, Model: "mock-model", FinishReason: "stop"}, nil
}

// CallCount returns the number of Complete calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastPrompt returns the content of the last message of the last call.
func (m *MockProvider) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return ""
	}
	msgs := m.Calls[len(m.Calls)-1].Messages
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Content
}
