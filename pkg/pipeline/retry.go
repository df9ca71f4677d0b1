package pipeline

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryConfig configures NewRetryProcessing. MaxAttempt 0 retries until the context is done.
// The delay grows exponentially up to MaxDelay when it is set.
type RetryConfig struct {
	MaxAttempt uint
	Delay      time.Duration
	MaxDelay   time.Duration
	// OnRetry is called after every failed attempt, attempt starting at 0
	OnRetry func(attempt uint, err error)
}

type retryProcessing[Payload any] struct {
	processing Processing[Payload]
	config     RetryConfig
}

// NewRetryProcessing retries the inner processing while it returns an ErrRetryableError.
func NewRetryProcessing[Payload any](p Processing[Payload], config RetryConfig) Processing[Payload] {
	return retryProcessing[Payload]{
		processing: p,
		config:     config,
	}
}

func (p retryProcessing[Payload]) Process(ctx context.Context, payload Payload) error {
	return retry.Do(
		func() error {
			return p.processing.Process(ctx, payload)
		},
		p.options(ctx)...,
	)
}

func (p retryProcessing[Payload]) options(ctx context.Context) []retry.Option {
	ret := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(p.config.MaxAttempt),
		retry.RetryIf(func(err error) bool {
			return IsRetryable(err)
		}),
		retry.Delay(p.config.Delay),
		retry.LastErrorOnly(true),
	}

	if p.config.MaxDelay > 0 {
		ret = append(ret,
			retry.DelayType(retry.BackOffDelay),
			retry.MaxDelay(p.config.MaxDelay),
		)
	} else {
		ret = append(ret, retry.DelayType(retry.FixedDelay))
	}

	if p.config.OnRetry != nil {
		ret = append(ret, retry.OnRetry(p.config.OnRetry))
	}

	return ret
}
