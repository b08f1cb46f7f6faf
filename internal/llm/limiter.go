package llm

import (
	"context"
	"sync"
	"time"
)

// Limited wraps a Provider with a requests-per-minute token bucket and a
// per-call timeout. Calls are never retried.
type Limited struct {
	provider Provider
	rpm      int
	timeout  time.Duration

	mu       sync.Mutex
	tokens   float64
	lastFill time.Time
}

// NewLimited wraps provider. rpm <= 0 disables the rate limit and
// timeout <= 0 disables the deadline.
func NewLimited(provider Provider, rpm int, timeout time.Duration) *Limited {
	return &Limited{
		provider: provider,
		rpm:      rpm,
		timeout:  timeout,
		tokens:   float64(rpm),
		lastFill: time.Now(),
	}
}

func (l *Limited) Name() string {
	return l.provider.Name()
}

func (l *Limited) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	if err := l.acquire(ctx); err != nil {
		return nil, err
	}
	return l.provider.Complete(ctx, req)
}

// acquire blocks until a request token is available or ctx is done.
func (l *Limited) acquire(ctx context.Context) error {
	if l.rpm <= 0 {
		return nil
	}
	for {
		wait := l.take()
		if wait == 0 {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// take consumes a token and returns 0, or returns how long to wait for the
// next one.
func (l *Limited) take() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	perToken := time.Minute / time.Duration(l.rpm)
	l.tokens += float64(now.Sub(l.lastFill)) / float64(perToken)
	if l.tokens > float64(l.rpm) {
		l.tokens = float64(l.rpm)
	}
	l.lastFill = now

	if l.tokens >= 1 {
		l.tokens--
		return 0
	}
	return time.Duration((1 - l.tokens) * float64(perToken))
}
