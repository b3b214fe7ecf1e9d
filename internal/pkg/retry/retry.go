package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 3
	defaultMaxDelay = 2 * time.Second
	defaultDelay    = 100 * time.Millisecond
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"3"`
	Delay    time.Duration `env:"DELAY" envDefault:"300ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
	}
}

// Do runs fn with the configured backoff. Errors rejected by retryable are
// returned immediately; the last error is returned unwrapped. A zero
// Attempts means a single try, not retry-go's unlimited mode.
func (rc *RetryConfig) Do(ctx context.Context, fn func() error, retryable func(error) bool) error {
	opts := append(rc.ToRetryOptions(),
		retry.Attempts(max(rc.Attempts, 1)),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
	return retry.Do(fn, opts...)
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}
