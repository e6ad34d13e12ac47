package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

// instant fires immediately so tests don't sleep.
func instant(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, After: instant}, func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_SuccessOnRetry(t *testing.T) {
	var delays []time.Duration
	cfg := Config{
		MaxAttempts:  5,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     25 * time.Millisecond,
		Multiplier:   2,
		After:        instant,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			delays = append(delays, delay)
		},
	}

	attempts := 0
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		if attempts < 4 {
			return errors.New("temporary error")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if attempts != 4 {
		t.Errorf("expected 4 attempts, got %d", attempts)
	}
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 25 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("expected %d delays, got %v", len(want), delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d = %v, expected %v", i, delays[i], want[i])
		}
	}
}

func TestDo_MaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")
	err := Do(context.Background(), Config{MaxAttempts: 3, After: instant}, func(ctx context.Context) error {
		attempts++
		return expectedErr
	})

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected %v, got %v", expectedErr, err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_Permanent(t *testing.T) {
	attempts := 0
	notFound := errors.New("not found")
	err := Do(context.Background(), Config{MaxAttempts: 5, After: instant}, func(ctx context.Context) error {
		attempts++
		return Permanent(notFound)
	})

	if !errors.Is(err, notFound) {
		t.Errorf("expected wrapped %v, got %v", notFound, err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestDo_RetryableFunc(t *testing.T) {
	attempts := 0
	fatal := errors.New("fatal")
	cfg := Config{
		MaxAttempts:   5,
		After:         instant,
		RetryableFunc: func(err error) bool { return !errors.Is(err, fatal) },
	}
	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return fatal
	})

	if !errors.Is(err, fatal) {
		t.Errorf("expected %v, got %v", fatal, err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{
		MaxAttempts:  0,
		InitialDelay: time.Hour,
	}

	attempts := 0
	lastErr := errors.New("still failing")
	err := Do(ctx, cfg, func(ctx context.Context) error {
		attempts++
		cancel()
		return lastErr
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !errors.Is(err, lastErr) {
		t.Errorf("expected last error to be joined, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDoWithValue(t *testing.T) {
	attempts := 0
	v, err := DoWithValue(context.Background(), Config{MaxAttempts: 3, After: instant}, func(ctx context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v != "ok" {
		t.Errorf("expected ok, got %q", v)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "timeout" }
func (timeoutErr) Timeout() bool { return true }

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(timeoutErr{}) {
		t.Error("expected timeout")
	}
	if IsTimeout(errors.New("plain")) {
		t.Error("plain error is not a timeout")
	}
}
