package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxOllamaErrorBody caps how much of a failed response is kept in the error.
const maxOllamaErrorBody = 4 << 10

// OllamaProvider talks to a local or remote Ollama server over its chat API.
type OllamaProvider struct {
	host  string
	model string
	http  *http.Client
}

// NewOllamaProvider creates a provider for the Ollama server at host.
func NewOllamaProvider(host string, model string) *OllamaProvider {
	return &OllamaProvider{
		host:  strings.TrimRight(host, "/"),
		model: model,
		http:  http.DefaultClient,
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

type ollamaTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChat struct {
	Model    string       `json:"model"`
	Messages []ollamaTurn `json:"messages"`
	Stream   bool         `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options"`
}

type ollamaReply struct {
	Model      string     `json:"model"`
	Message    ollamaTurn `json:"message"`
	DoneReason string     `json:"done_reason"`
	PromptEval int        `json:"prompt_eval_count"`
	Eval       int        `json:"eval_count"`
	Error      string     `json:"error"`
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	chat := ollamaChat{Model: req.Model}
	if chat.Model == "" {
		chat.Model = p.model
	}
	chat.Options.Temperature = req.Temperature
	chat.Options.NumPredict = req.MaxTokens
	chat.Messages = make([]ollamaTurn, len(req.Messages))
	for i, m := range req.Messages {
		chat.Messages[i] = ollamaTurn{Role: string(m.Role), Content: m.Content}
	}

	body, err := json.Marshal(chat)
	if err != nil {
		return nil, fmt.Errorf("encoding ollama request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling ollama at %s: %w", p.host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ollamaStatusError(resp, chat.Model)
	}

	var reply ollamaReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decoding ollama response: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("ollama: %s", reply.Error)
	}

	return &CompletionResponse{
		Content:      reply.Message.Content,
		InputTokens:  reply.PromptEval,
		OutputTokens: reply.Eval,
		Model:        reply.Model,
		FinishReason: reply.DoneReason,
	}, nil
}

// ollamaStatusError prefers Ollama's {"error": "..."} body over the raw text.
// A 404 usually means the model has not been pulled.
func ollamaStatusError(resp *http.Response, model string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxOllamaErrorBody))
	msg := strings.TrimSpace(string(raw))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("ollama model %q not available (run `ollama pull %s`): %s", model, model, msg)
	}
	return fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, msg)
}
