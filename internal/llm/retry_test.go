package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testPolicy(maxRetries int) callPolicy {
	return callPolicy{maxRetries: maxRetries, baseDelay: time.Millisecond, isRetry: retryable}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&statusError{code: http.StatusTooManyRequests}, true},
		{&statusError{code: http.StatusBadGateway}, true},
		{fmt.Errorf("wrapped: %w", &statusError{code: http.StatusServiceUnavailable}), true},
		{&statusError{code: http.StatusBadRequest}, false},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, retryable(tt.err), tt.err.Error())
	}
}

func TestCallPolicy_ExhaustsBudget(t *testing.T) {
	calls := 0
	_, err := testPolicy(2).run(context.Background(), func(context.Context) (string, error) {
		calls++
		return "", &statusError{provider: "x", code: http.StatusInternalServerError}
	})

	var se *statusError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, 3, calls)
}

func TestCallPolicy_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := testPolicy(5)
	p.baseDelay = time.Hour

	calls := 0
	_, err := p.run(ctx, func(context.Context) (string, error) {
		calls++
		cancel()
		return "", &statusError{code: http.StatusTooManyRequests}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCallPolicy_ZeroRetries(t *testing.T) {
	calls := 0
	out, err := testPolicy(0).run(context.Background(), func(context.Context) (string, error) {
		calls++
		return "done", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, 1, calls)
}
