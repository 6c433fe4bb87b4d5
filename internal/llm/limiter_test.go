package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// scriptedModel returns canned responses/errors in order.
type scriptedModel struct {
	calls int
	errs  []error
	text  string
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	idx := m.calls
	m.calls++
	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.text}},
	}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, nil)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestLimiter_MinimumSpacing(t *testing.T) {
	model := &scriptedModel{text: "ok"}
	lim := NewLimiter(model, 60*time.Millisecond, time.Millisecond)

	ctx := context.Background()
	start := time.Now()
	_, err := lim.GenerateContent(ctx, nil)
	require.NoError(t, err)
	_, err = lim.GenerateContent(ctx, nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond,
		"back-to-back calls must be spaced by the configured minimum")
	assert.Equal(t, 2, model.calls)
}

func TestLimiter_BackoffExhaustionYieldsErrThrottled(t *testing.T) {
	throttle := errors.New("429: too many requests")
	model := &scriptedModel{errs: []error{throttle, throttle, throttle}}
	lim := NewLimiter(model, 0, 10*time.Millisecond)

	var delays []time.Duration
	lim.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err := lim.GenerateContent(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrThrottled)

	// Exactly the retry ceiling: 1 initial call + 2 retries.
	assert.Equal(t, 3, model.calls)
	require.Len(t, delays, 2)
	assert.Less(t, delays[0], delays[1], "backoff delays must strictly increase")
	assert.Equal(t, 10*time.Millisecond, delays[0])
	assert.Equal(t, 20*time.Millisecond, delays[1])
}

func TestLimiter_RecoversMidBackoff(t *testing.T) {
	throttle := errors.New("rate limit exceeded")
	model := &scriptedModel{errs: []error{throttle, nil}, text: "recovered"}
	lim := NewLimiter(model, 0, time.Millisecond)
	lim.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	resp, err := lim.GenerateContent(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Choices[0].Content)
	assert.Equal(t, 2, model.calls)
}

func TestLimiter_NonThrottlingErrorNotRetried(t *testing.T) {
	boom := errors.New("model not found")
	model := &scriptedModel{errs: []error{boom}}
	lim := NewLimiter(model, 0, time.Millisecond)

	_, err := lim.GenerateContent(context.Background(), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrThrottled)
	assert.Equal(t, 1, model.calls)
}

func TestLimiter_CancelledContext(t *testing.T) {
	model := &scriptedModel{text: "ok"}
	lim := NewLimiter(model, time.Hour, time.Millisecond)

	_, err := lim.GenerateContent(context.Background(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = lim.GenerateContent(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsThrottlingError(t *testing.T) {
	assert.True(t, IsThrottlingError(errors.New("HTTP 429")))
	assert.True(t, IsThrottlingError(errors.New("Quota exceeded for model")))
	assert.True(t, IsThrottlingError(errors.New("request was throttled")))
	assert.False(t, IsThrottlingError(errors.New("connection refused")))
	assert.False(t, IsThrottlingError(nil))
}
