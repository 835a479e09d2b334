package resilience

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/kbukum/healthkit/errors"
)

// DefaultTimeout bounds an operation when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Name identifies the operation in the returned error.
	Name string
	// Timeout is the maximum duration for the operation.
	Timeout time.Duration
}

// Timeout bounds an operation by a deadline.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Name == "" {
		config.Name = "operation"
	}
	return &Timeout{config: config}
}

// Execute runs op with a derived deadline. If the deadline passes first it
// returns an AppError with code TIMEOUT wrapping context.DeadlineExceeded;
// op keeps its cancelled context and finishes in the background. A
// cancellation of the parent context is returned as is. A panic in op is
// recovered on op's goroutine and returned as a CHECK_PANIC AppError.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- apperrors.CheckPanic(t.config.Name, rec)
			}
		}()
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == context.DeadlineExceeded {
			return t.timeoutError()
		}
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return t.timeoutError()
		}
		return ctx.Err()
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

func (t *Timeout) timeoutError() error {
	return apperrors.Timeout(t.config.Name).
		WithCause(context.DeadlineExceeded).
		WithDetail("timeout_ms", t.config.Timeout.Milliseconds())
}

// ExecuteWithTimeout runs op bounded by timeout.
func ExecuteWithTimeout(ctx context.Context, name string, timeout time.Duration, op func(context.Context) error) error {
	return NewTimeout(TimeoutConfig{Name: name, Timeout: timeout}).Execute(ctx, op)
}
