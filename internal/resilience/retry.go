// Package resilience provides caller-side retry for transient
// dispatch failures. The dispatcher itself never retries; commands
// opt in by wrapping calls in a Policy.
package resilience

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/chino-io/chino-go/internal/output"
)

// Policy bounds the retry loop.
type Policy struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Logger          *slog.Logger
}

// DefaultPolicy retries transient faults three more times with short
// exponential backoff. Suited to interactive commands.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     4,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     8 * time.Second,
		Multiplier:      2.0,
	}
}

// Retryable reports whether the error is a transient fault worth
// retrying. Only typed errors marked retryable qualify; declared API
// errors and local precondition failures never do.
func Retryable(err error) bool {
	typed := output.AsError(err)
	return typed != nil && typed.Retryable
}

// Do runs op, retrying on retryable errors until the policy is
// exhausted or the context ends. Non-retryable errors return
// immediately.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	if p.Multiplier > 0 {
		exp.Multiplier = p.Multiplier
	}
	exp.MaxElapsedTime = 0

	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, attempts-1), ctx)

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		logger.Debug("retrying after transient fault",
			"attempt", attempt, "wait", wait, "error", err)
	})
}
