package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestRetrySucceedsAfterFailures tests retry until success
func TestRetrySucceedsAfterFailures(t *testing.T) {
	config := &RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
		RetryIf:      IsRetryable,
	}

	attempts := 0
	err := RetryWithConfig(context.Background(), config, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

// TestRetryExhaustsAttempts tests max attempts exceeded
func TestRetryExhaustsAttempts(t *testing.T) {
	config := &RetryConfig{
		MaxAttempts:  2,
		InitialDelay: 1 * time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
		RetryIf:      IsRetryable,
	}

	cause := errors.New("still failing")
	attempts := 0
	err := RetryWithConfig(context.Background(), config, func() error {
		attempts++
		return cause
	})

	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}

	var maxErr ErrMaxRetriesExceeded
	if !errors.As(err, &maxErr) {
		t.Fatalf("Expected ErrMaxRetriesExceeded, got %v", err)
	}
	if maxErr.Attempts != 2 {
		t.Errorf("Expected Attempts = 2, got %d", maxErr.Attempts)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected the last error to be wrapped")
	}
}

// TestRetryStopsOnNonRetryable tests immediate return for non-retryable errors
func TestRetryStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), func() error {
		attempts++
		return context.Canceled
	})

	if attempts != 1 {
		t.Errorf("Expected 1 attempt for non-retryable error, got %d", attempts)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// TestRetryRespectsContext tests cancellation between attempts
func TestRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	config := &RetryConfig{
		MaxAttempts:  5,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
		RetryIf:      IsRetryable,
	}

	err := RetryWithConfig(ctx, config, func() error {
		attempts++
		cancel()
		return errors.New("fail")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt before cancellation, got %d", attempts)
	}
}

// TestIsRetryable tests the default retry predicate
func TestIsRetryable(t *testing.T) {
	if IsRetryable(context.Canceled) {
		t.Error("context.Canceled must not be retryable")
	}
	if IsRetryable(context.DeadlineExceeded) {
		t.Error("context.DeadlineExceeded must not be retryable")
	}
	if IsRetryable(ErrCircuitOpen) {
		t.Error("an open circuit must not be retried")
	}
	if !IsRetryable(errors.New("connection refused")) {
		t.Error("generic errors must be retryable")
	}
}

// TestApplyJitter tests jitter bounds
func TestApplyJitter(t *testing.T) {
	base := 100 * time.Millisecond

	if got := applyJitter(base, 0); got != base {
		t.Errorf("zero factor must not change the delay, got %v", got)
	}

	for i := 0; i < 20; i++ {
		got := applyJitter(base, 0.1)
		if got < 90*time.Millisecond || got > 110*time.Millisecond {
			t.Errorf("jittered delay %v outside ±10%% of %v", got, base)
		}
	}
}
