package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dzinly/matsearch/internal/port"
)

// RetryPolicy bounds the retry loop around embedding calls.
type RetryPolicy struct {
	Attempts int           // total attempts, including the first
	Backoff  time.Duration // delay before the second attempt, doubled each retry
	Timeout  time.Duration // per-attempt deadline
}

// DefaultRetryPolicy suits interactive query embedding.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 500 * time.Millisecond, Timeout: 30 * time.Second}
}

// RetryEmbedder wraps an Embedder with per-call timeouts and exponential
// backoff. Only encoding failures are retried; a canceled parent context
// aborts immediately. A call that exhausts its attempts returns the last
// error — never a substitute vector.
type RetryEmbedder struct {
	inner  port.Embedder
	policy RetryPolicy
}

// NewRetryEmbedder wraps inner with the given retry policy.
func NewRetryEmbedder(inner port.Embedder, policy RetryPolicy) *RetryEmbedder {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &RetryEmbedder{inner: inner, policy: policy}
}

// ModelName returns the wrapped embedder's model identifier.
func (r *RetryEmbedder) ModelName() string {
	return r.inner.ModelName()
}

// Embed generates an embedding, retrying encoding failures with backoff.
func (r *RetryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := r.withRetry(ctx, func(attemptCtx context.Context) error {
		var callErr error
		vec, callErr = r.inner.Embed(attemptCtx, text)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// EmbedBatch generates embeddings, retrying encoding failures with backoff.
func (r *RetryEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vecs [][]float32
	err := r.withRetry(ctx, func(attemptCtx context.Context) error {
		var callErr error
		vecs, callErr = r.inner.EmbedBatch(attemptCtx, texts)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return vecs, nil
}

func (r *RetryEmbedder) withRetry(ctx context.Context, call func(context.Context) error) error {
	delay := r.policy.Backoff
	var lastErr error

	for attempt := 1; attempt <= r.policy.Attempts; attempt++ {
		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if r.policy.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, r.policy.Timeout)
		}
		lastErr = call(attemptCtx)
		cancel()

		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		if !port.IsEncodingError(lastErr) && !errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
		if attempt == r.policy.Attempts {
			break
		}

		slog.Warn("embedding call failed, retrying",
			"attempt", attempt,
			"backoff", delay.String(),
			"error", lastErr,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return lastErr
		}
		delay *= 2
	}
	return lastErr
}
