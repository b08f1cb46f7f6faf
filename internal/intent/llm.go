package intent

import (
	"context"
	"log/slog"
	"time"

	"github.com/C1Z4/ourhour-chatbot/internal/llm"
)

// DefaultClassifyTimeout bounds a single classification call.
const DefaultClassifyTimeout = 10 * time.Second

// LLMOptions tunes the model-backed classifier.
type LLMOptions struct {
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// LLM classifies with one completion call per message. Errors, timeouts and
// out-of-set replies yield the tier default. Calls are never retried.
type LLM struct {
	provider llm.Provider
	tier     Tier
	opts     LLMOptions
	log      *slog.Logger
}

// NewLLM returns a model-backed classifier for tier.
func NewLLM(p llm.Provider, tier Tier, opts LLMOptions) *LLM {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultClassifyTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &LLM{provider: p, tier: tier, opts: opts, log: opts.Logger}
}

func (c *LLM) Classify(ctx context.Context, text string) (label Label) {
	label = c.tier.Default
	defer func() {
		if r := recover(); r != nil {
			c.log.Info("classifier: provider panicked, using default", "tier", c.tier.Name, "panic", r)
			label = c.tier.Default
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	out, err := llm.Generate(ctx, c.provider, c.tier.prompt(text), llm.Options{
		Model:       c.opts.Model,
		MaxTokens:   20,
		Temperature: 0,
	})
	if err != nil {
		c.log.Info("classifier: completion failed, using default", "tier", c.tier.Name, "default", c.tier.Default, "error", err)
		return c.tier.Default
	}
	l, ok := c.tier.Parse(out)
	if !ok {
		c.log.Info("classifier: reply outside label set, using default", "tier", c.tier.Name, "reply", out, "default", c.tier.Default)
	}
	return l
}

// Tiered short-circuits greetings before consulting next, so a greeting is
// recognized without a model call.
type Tiered struct {
	next Classifier
}

// NewTiered wraps next with the greeting short-circuit.
func NewTiered(next Classifier) *Tiered {
	return &Tiered{next: next}
}

func (t *Tiered) Classify(ctx context.Context, text string) Label {
	if IsGreeting(text) {
		return Greeting
	}
	if t.next == nil {
		return PrimaryTier.Default
	}
	l := t.next.Classify(ctx, text)
	if !PrimaryTier.Valid(l) {
		return PrimaryTier.Default
	}
	return l
}

// New builds the classifier for tier: the keyword heuristic for mode
// "heuristic" or when p is nil, otherwise the model-backed classifier.
// Primary classifiers are wrapped with the greeting short-circuit.
func New(mode string, tier Tier, p llm.Provider, opts LLMOptions) Classifier {
	var c Classifier
	if mode == "llm" && p != nil {
		c = NewLLM(p, tier, opts)
	} else {
		c = NewHeuristic(tier)
	}
	if tier.Name == PrimaryTier.Name {
		return NewTiered(c)
	}
	return c
}
