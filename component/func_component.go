package component

import (
	"context"
	"fmt"

	"github.com/kbukum/healthkit/logger"
)

// CheckFunc determines a component's health.
type CheckFunc func(ctx context.Context) (HealthStatus, error)

// FailureFunc handles a failed check.
type FailureFunc func(ctx context.Context, err error) error

// FuncComponent builds a HealthComponent from plain functions.
type FuncComponent struct {
	name      string
	check     CheckFunc
	onFailure FailureFunc
	log       *logger.Logger
}

// NewFuncComponent creates a component named name that checks with check.
// Without a failure handler, failures are logged at warn level.
func NewFuncComponent(name string, check CheckFunc) *FuncComponent {
	return &FuncComponent{
		name:  name,
		check: check,
		log:   logger.Get(name),
	}
}

// NewPingComponent adapts a function that only reports success or failure:
// nil means healthy.
func NewPingComponent(name string, ping func(ctx context.Context) error) *FuncComponent {
	return NewFuncComponent(name, func(ctx context.Context) (HealthStatus, error) {
		if err := ping(ctx); err != nil {
			return StatusUnhealthy, err
		}
		return StatusHealthy, nil
	})
}

// WithFailureHandler sets the function invoked when the check fails.
func (f *FuncComponent) WithFailureHandler(fn FailureFunc) *FuncComponent {
	f.onFailure = fn
	return f
}

// WithLogger sets the logger used by the default failure handler.
func (f *FuncComponent) WithLogger(l *logger.Logger) *FuncComponent {
	if l != nil {
		f.log = l.WithComponent(f.name)
	}
	return f
}

// Name returns the component name.
func (f *FuncComponent) Name() string { return f.name }

// CheckHealth runs the check function.
func (f *FuncComponent) CheckHealth(ctx context.Context) (HealthStatus, error) {
	if f.check == nil {
		return StatusUnhealthy, fmt.Errorf("no health check configured for component: %s", f.name)
	}
	return f.check(ctx)
}

// HandleFailure runs the failure handler, or logs the error if none is set.
func (f *FuncComponent) HandleFailure(ctx context.Context, err error) error {
	if f.onFailure != nil {
		return f.onFailure(ctx, err)
	}
	f.log.WithContext(ctx).Warn("component unhealthy", logger.ErrorFields("check", err))
	return nil
}
