package component

import (
	"context"
	"encoding/json"
	"time"

	apperrors "github.com/kbukum/healthkit/errors"
)

// HealthComponent is an independently checkable unit with a stable name.
type HealthComponent interface {
	// Name returns the stable identifier used as the aggregation key.
	Name() string

	// CheckHealth performs the component's own health test. It may block for
	// as long as it needs; the aggregator imposes no timeout.
	CheckHealth(ctx context.Context) (HealthStatus, error)

	// HandleFailure is invoked exactly once, and only, when CheckHealth
	// failed. It receives the error the check produced. A returned error
	// means the handler itself failed.
	HandleFailure(ctx context.Context, err error) error
}

// Health holds the outcome of one component check.
type Health struct {
	Name      string        `json:"name"`
	Status    HealthStatus  `json:"status"`
	Message   string        `json:"message,omitempty"`
	Error     error         `json:"-"`
	Duration  time.Duration `json:"-"`
	CheckedAt time.Time     `json:"checked_at"`
}

// Failed reports whether the check (not just the status) failed.
func (h Health) Failed() bool { return h.Error != nil }

// MarshalJSON renders the duration in milliseconds and the error code.
func (h Health) MarshalJSON() ([]byte, error) {
	type alias Health
	out := struct {
		alias
		DurationMs float64             `json:"duration_ms"`
		ErrorCode  apperrors.ErrorCode `json:"error_code,omitempty"`
	}{
		alias:      alias(h),
		DurationMs: float64(h.Duration.Microseconds()) / 1000,
	}
	if appErr, ok := apperrors.AsAppError(h.Error); ok {
		out.ErrorCode = appErr.Code
	}
	return json.Marshal(out)
}
