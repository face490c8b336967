package retry

import (
	"context"
	"math"
	"time"
)

// Config holds the configuration for retry logic
type Config struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultConfig returns a sensible default retry configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		BaseDelay:       50 * time.Millisecond,
		MaxDelay:        time.Second,
		BackoffMultiple: 2.0,
	}
}

// ErrorChecker defines a function that determines if an error should trigger a retry
type ErrorChecker func(err error) bool

// Logger defines a function for logging retry attempts
type Logger func(message string, args ...interface{})

// Options configures retry behavior
type Options struct {
	Config       Config
	ErrorChecker ErrorChecker
	Logger       Logger

	// Operation names what is being retried in log lines and errors
	Operation string
}

// calculateDelay computes the delay for the given attempt using exponential backoff
func (c Config) calculateDelay(attempt int) time.Duration {
	delay := time.Duration(float64(c.BaseDelay) * math.Pow(c.BackoffMultiple, float64(attempt)))
	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// Do performs fn with the configured retry logic.
// Without an ErrorChecker every error is retried.
func Do[T any](ctx context.Context, opts Options, fn func(attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= opts.Config.MaxRetries; attempt++ {
		// Add delay before retry (but not on first attempt)
		if attempt > 0 {
			delay := opts.Config.calculateDelay(attempt - 1)
			if opts.Logger != nil {
				opts.Logger("%s retry attempt %d/%d after %v delay", opts.Operation, attempt+1, opts.Config.MaxRetries+1, delay)
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}

		result, err := fn(attempt)
		if err == nil {
			if attempt > 0 && opts.Logger != nil {
				opts.Logger("%s succeeded on attempt %d/%d", opts.Operation, attempt+1, opts.Config.MaxRetries+1)
			}
			return result, nil
		}
		lastErr = err

		retryable := opts.ErrorChecker == nil || opts.ErrorChecker(err)
		if !retryable {
			return zero, err
		}

		if opts.Logger != nil {
			opts.Logger("%s failed (attempt %d/%d): %v", opts.Operation, attempt+1, opts.Config.MaxRetries+1, err)
		}
	}

	return zero, &RetryExhaustedError{
		Operation:   opts.Operation,
		MaxAttempts: opts.Config.MaxRetries + 1,
		Err:         lastErr,
	}
}

// RetryExhaustedError represents an error when all retry attempts have been exhausted
type RetryExhaustedError struct {
	Operation   string
	MaxAttempts int
	Err         error
}

func (e *RetryExhaustedError) Error() string {
	return "retry attempts exhausted for " + e.Operation + ": " + e.Err.Error()
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}
