package checks

import (
	"context"
	"sync/atomic"

	"github.com/kbukum/healthkit/logger"
)

// Option configures a check.
type Option func(*base)

// WithLogger sets the logger a check reports failures and recoveries to.
func WithLogger(l *logger.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.log = l
		}
	}
}

// base carries what every check shares: the name, the dependency it probes
// and a failure handler that tracks consecutive failures.
type base struct {
	name     string
	target   string
	log      *logger.Logger
	failures *atomic.Int64
}

func newBase(name, target string, opts []Option) base {
	b := base{name: name, target: target, log: logger.Get("checks"), failures: new(atomic.Int64)}
	for _, opt := range opts {
		opt(&b)
	}
	b.log = b.log.WithComponent(name)
	return b
}

// Name returns the component name.
func (b *base) Name() string { return b.name }

// Target returns the address or description of the probed dependency.
func (b *base) Target() string { return b.target }

// ConsecutiveFailures returns how many checks in a row have failed.
func (b *base) ConsecutiveFailures() int64 { return b.failures.Load() }

// HandleFailure records the failure and logs it with the running count.
func (b *base) HandleFailure(ctx context.Context, err error) error {
	n := b.failures.Add(1)
	b.log.WithContext(ctx).Error("dependency unavailable", logger.MergeWithError(logger.Fields(
		logger.FieldTarget, b.target,
		logger.FieldCount, n,
	), err))
	return nil
}

// succeeded resets the failure count, logging a recovery if there was one.
func (b *base) succeeded(ctx context.Context) {
	if n := b.failures.Swap(0); n > 0 {
		b.log.WithContext(ctx).Info("dependency recovered", logger.Fields(
			logger.FieldTarget, b.target,
			logger.FieldCount, n,
		))
	}
}
