package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// ErrThrottled is returned once backoff retries are exhausted. Callers are
// expected to degrade to synthesis from whatever tool results they already
// hold instead of failing the turn.
var ErrThrottled = errors.New("reasoning service throttled")

// Limiter decorates an llms.Model with two behaviors shared by every
// planning and narration call in the process:
//
//   - a minimum spacing between calls, enforced through one mutex-guarded
//     timestamp so concurrent sessions queue instead of racing;
//   - exponential backoff on throttling-class errors, up to MaxRetries.
type Limiter struct {
	inner llms.Model

	mu       sync.Mutex
	lastCall time.Time

	MinSpacing  time.Duration
	BaseBackoff time.Duration
	MaxRetries  int

	// sleep is swappable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

func NewLimiter(inner llms.Model, minSpacing, baseBackoff time.Duration) *Limiter {
	return &Limiter{
		inner:       inner,
		MinSpacing:  minSpacing,
		BaseBackoff: baseBackoff,
		MaxRetries:  2,
		sleep:       sleepCtx,
	}
}

var _ llms.Model = (*Limiter)(nil)

// GenerateContent paces the call and retries throttling errors with doubling
// delays. After MaxRetries it returns ErrThrottled (wrapped) rather than the
// raw provider error.
func (l *Limiter) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var resp *llms.ContentResponse
	err := l.do(ctx, func() error {
		var callErr error
		resp, callErr = l.inner.GenerateContent(ctx, messages, options...)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Call implements the legacy single-prompt entry point of llms.Model.
func (l *Limiter) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	var out string
	err := l.do(ctx, func() error {
		var callErr error
		out, callErr = l.inner.Call(ctx, prompt, options...)
		return callErr
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (l *Limiter) do(ctx context.Context, call func() error) error {
	for attempt := 0; ; attempt++ {
		if err := l.pace(ctx); err != nil {
			return err
		}
		err := call()
		if err == nil {
			return nil
		}
		if !IsThrottlingError(err) {
			return err
		}
		if attempt >= l.MaxRetries {
			return fmt.Errorf("%w after %d retries: %v", ErrThrottled, l.MaxRetries, err)
		}
		delay := l.BaseBackoff << attempt
		log.Printf("LLM throttled, retry %d/%d in %v", attempt+1, l.MaxRetries, delay)
		if serr := l.sleep(ctx, delay); serr != nil {
			return serr
		}
	}
}

// pace blocks until at least MinSpacing has elapsed since the previous call
// from any session, then claims the slot.
func (l *Limiter) pace(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		wait := l.MinSpacing - now.Sub(l.lastCall)
		if wait <= 0 {
			l.lastCall = now
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsThrottlingError reports whether an error from the reasoning service
// looks like rate limiting rather than a hard failure.
func IsThrottlingError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"429", "rate limit", "rate_limit", "too many requests",
		"quota", "throttl", "resource exhausted", "overloaded",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
