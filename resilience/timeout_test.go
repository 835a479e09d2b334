package resilience

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/healthkit/errors"
)

func TestNewTimeout_Defaults(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{})

	if timeout.Config().Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", timeout.Config().Timeout, DefaultTimeout)
	}
	if timeout.Config().Name != "operation" {
		t.Errorf("Name = %q, want operation", timeout.Config().Name)
	}
}

func TestTimeout_ExecuteSuccess(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: time.Second})

	executed := false
	err := timeout.Execute(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if !executed {
		t.Error("operation was not executed")
	}
}

func TestTimeout_ExecuteError(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: time.Second})

	testErr := errors.New("test error")
	err := timeout.Execute(context.Background(), func(ctx context.Context) error {
		return testErr
	})

	if err != testErr {
		t.Errorf("Execute() error = %v, want %v", err, testErr)
	}
}

func TestTimeout_ExecuteTimeout(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Name: "cache", Timeout: 10 * time.Millisecond})

	start := time.Now()
	err := timeout.Execute(context.Background(), func(ctx context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	if !apperrors.HasCode(err, apperrors.ErrCodeTimeout) {
		t.Errorf("Execute() error = %v, want TIMEOUT", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded in chain, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("expected Execute to return at the deadline, took %v", elapsed)
	}
}

func TestTimeout_OperationObservesDeadline(t *testing.T) {
	err := ExecuteWithTimeout(context.Background(), "db", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if !apperrors.HasCode(err, apperrors.ErrCodeTimeout) {
		t.Errorf("expected TIMEOUT, got %v", err)
	}
}

func TestTimeout_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewTimeout(TimeoutConfig{Timeout: time.Second}).Execute(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if apperrors.HasCode(err, apperrors.ErrCodeTimeout) {
		t.Error("expected parent cancellation not to be reported as a timeout")
	}
}

func TestTimeout_PanicIsReturnedAsError(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Name: "cache", Timeout: time.Second})

	err := timeout.Execute(context.Background(), func(context.Context) error {
		panic("boom")
	})

	if !apperrors.HasCode(err, apperrors.ErrCodeCheckPanic) {
		t.Fatalf("expected CHECK_PANIC, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected panic value in error, got %q", err.Error())
	}
}
