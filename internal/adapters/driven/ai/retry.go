package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoir-cli/internal/logger"
)

// Retrier bounds remote calls: every attempt gets its own deadline,
// transient failures are retried with exponential backoff, and
// everything else returns immediately.
type Retrier struct {
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	limiter    *RateLimiter
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewRetrier creates a retrier from remote settings.
func NewRetrier(settings domain.RemoteSettings) *Retrier {
	if settings.Timeout <= 0 {
		settings.Timeout = domain.DefaultRemoteTimeout
	}
	if settings.MaxRetries < 0 {
		settings.MaxRetries = 0
	}
	return &Retrier{
		timeout:    settings.Timeout,
		maxRetries: settings.MaxRetries,
		backoff:    settings.Backoff,
		limiter:    NewRateLimiter(settings.RequestsPerSecond, settings.Burst),
		sleep:      sleepContext,
	}
}

// Do runs fn until it succeeds, fails permanently, or retries run out.
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := r.backoff << (attempt - 1)
			logger.Debug("%s: retry %d/%d in %s after: %v", op, attempt, r.maxRetries, delay, lastErr)
			if err := r.sleep(ctx, delay); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		lastErr = r.attempt(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || !domain.IsTransient(lastErr) {
			return lastErr
		}

		var svcErr *domain.ServiceError
		if errors.As(lastErr, &svcErr) && svcErr.Kind == domain.ServiceRateLimited {
			r.limiter.Cooldown(r.backoff << attempt)
		}
	}
	return lastErr
}

func (r *Retrier) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return fn(attemptCtx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Ensure the decorators implement their ports.
var (
	_ driven.LLMService        = (*RetryingLLM)(nil)
	_ driven.ModerationService = (*RetryingModeration)(nil)
)

// RetryingLLM applies a Retrier to every completion.
type RetryingLLM struct {
	next    driven.LLMService
	retrier *Retrier
}

// NewRetryingLLM wraps an LLM service.
func NewRetryingLLM(next driven.LLMService, retrier *Retrier) *RetryingLLM {
	return &RetryingLLM{next: next, retrier: retrier}
}

// Complete forwards to the wrapped service with retries.
func (l *RetryingLLM) Complete(ctx context.Context, req driven.CompletionRequest) (string, error) {
	var text string
	err := l.retrier.Do(ctx, "complete", func(ctx context.Context) error {
		var err error
		text, err = l.next.Complete(ctx, req)
		return err
	})
	return text, err
}

// ModelName returns the wrapped service's model.
func (l *RetryingLLM) ModelName() string { return l.next.ModelName() }

// Ping is not retried.
func (l *RetryingLLM) Ping(ctx context.Context) error { return l.next.Ping(ctx) }

// Close closes the wrapped service.
func (l *RetryingLLM) Close() error { return l.next.Close() }

// RetryingModeration applies a Retrier to every moderation call.
type RetryingModeration struct {
	next    driven.ModerationService
	retrier *Retrier
}

// NewRetryingModeration wraps a moderation service.
func NewRetryingModeration(next driven.ModerationService, retrier *Retrier) *RetryingModeration {
	return &RetryingModeration{next: next, retrier: retrier}
}

// Moderate forwards to the wrapped service with retries.
func (m *RetryingModeration) Moderate(ctx context.Context, text string) (driven.ModerationResult, error) {
	var result driven.ModerationResult
	err := m.retrier.Do(ctx, "moderate", func(ctx context.Context) error {
		var err error
		result, err = m.next.Moderate(ctx, text)
		return err
	})
	return result, err
}

// Close closes the wrapped service.
func (m *RetryingModeration) Close() error { return m.next.Close() }
