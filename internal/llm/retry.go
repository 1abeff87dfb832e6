package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// statusError is a non-2xx reply from a provider API.
type statusError struct {
	provider string
	code     int
	body     string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.provider, e.code, e.body)
}

// retryable reports whether a failed call is worth repeating: rate limits and
// server-side errors only.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return false
}

// callPolicy bounds every provider call with a timeout and a retry budget.
type callPolicy struct {
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	isRetry    func(error) bool
}

func newCallPolicy(opts Options) callPolicy {
	return callPolicy{
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		baseDelay:  time.Second,
		isRetry:    retryable,
	}
}

// run calls fn until it succeeds, fails with a non-retryable error, or the
// retry budget is spent. Backoff doubles from baseDelay.
func (p callPolicy) run(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		out, err := p.once(ctx, fn)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !p.isRetry(err) {
			return "", err
		}

		if attempt < p.maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * p.baseDelay
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return "", lastErr
}

func (p callPolicy) once(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if p.timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return fn(ctx)
}
