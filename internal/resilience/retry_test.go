package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfwise/pricescan/internal/apperr"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    10 * time.Millisecond,
		Multiplier:  1.5,
	}
}

func TestDoVal_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	val, err := DoVal(context.Background(), DefaultRetryConfig(), func(_ context.Context) (int, error) {
		calls++
		return 7, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 7 {
		t.Errorf("expected 7, got %d", val)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoVal_RetriesNetworkErrorThenSucceeds(t *testing.T) {
	var calls int
	val, err := DoVal(context.Background(), fastRetryConfig(3), func(_ context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", apperr.New(apperr.CodeNetworkError)
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "ok" {
		t.Errorf("expected ok, got %q", val)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoVal_NonRetryableCode_PropagatesImmediately(t *testing.T) {
	var calls int
	orig := apperr.New(apperr.CodeInvalidImageFormat)
	_, err := DoVal(context.Background(), fastRetryConfig(3), func(_ context.Context) (int, error) {
		calls++
		return 0, orig
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	// Error identity is preserved, not wrapped or aggregated.
	if !errors.Is(err, orig) {
		t.Errorf("expected original error, got %v", err)
	}
}

func TestDoVal_UnrecognizedError_NotRetried(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), fastRetryConfig(3), func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("no code here")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call for unrecognized error, got %d", calls)
	}
}

func TestDoVal_ExhaustsAttempts_ReturnsLastError(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), fastRetryConfig(3), func(_ context.Context) (int, error) {
		calls++
		return 0, apperr.New(apperr.CodeAPIRateLimit).WithMessage("attempt %d", calls)
	})
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	appErr := apperr.From(err, apperr.CodeAPIError)
	if appErr.Message != "attempt 3" {
		t.Errorf("expected last attempt's error, got %q", appErr.Message)
	}
}

func TestDoVal_ObserverOncePerRetriedFailure(t *testing.T) {
	var observed []int
	cfg := fastRetryConfig(3)
	cfg.OnRetry = func(attempt int, err error) {
		observed = append(observed, attempt)
	}

	_, _ = DoVal(context.Background(), cfg, func(_ context.Context) (int, error) {
		return 0, apperr.New(apperr.CodeNetworkError)
	})

	// Two retried failures; the final failing attempt is not observed.
	if len(observed) != 2 || observed[0] != 1 || observed[1] != 2 {
		t.Errorf("expected observer calls [1 2], got %v", observed)
	}
}

func TestDoVal_NoObserverOnSuccess(t *testing.T) {
	var observed int
	cfg := fastRetryConfig(3)
	cfg.OnRetry = func(int, error) { observed++ }

	_, err := DoVal(context.Background(), cfg, func(_ context.Context) (int, error) {
		return 1, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if observed != 0 {
		t.Errorf("expected no observer calls on success, got %d", observed)
	}
}

func TestDoVal_ContextCancelled_StopsBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	cfg := RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   50 * time.Millisecond,
		MaxDelay:    100 * time.Millisecond,
		Multiplier:  1.5,
	}

	_, err := DoVal(ctx, cfg, func(_ context.Context) (int, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return 0, apperr.New(apperr.CodeNetworkError)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls > 2 {
		t.Errorf("expected no attempts after cancel, got %d calls", calls)
	}
}

func TestBackoffDelay_CappedAndJittered(t *testing.T) {
	cfg := applyDefaults(RetryConfig{
		BaseDelay:  time.Second,
		MaxDelay:   2 * time.Second,
		Multiplier: 10,
	})

	for i := 0; i < 50; i++ {
		d := backoffDelay(3, cfg)
		if d < 2*time.Second {
			t.Fatalf("delay %v below cap", d)
		}
		// Jitter adds at most 10%.
		if d > 2200*time.Millisecond {
			t.Fatalf("delay %v exceeds cap plus jitter", d)
		}
	}
}

func TestDo_WrapsDoVal(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastRetryConfig(2), func(_ context.Context) error {
		calls++
		return apperr.New(apperr.CodeNetworkError)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}
