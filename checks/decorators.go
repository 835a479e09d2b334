package checks

import (
	"context"
	"io"
	"time"

	"github.com/kbukum/healthkit/component"
	"github.com/kbukum/healthkit/resilience"
)

// timeoutCheck bounds a component's check by a deadline.
type timeoutCheck struct {
	component.HealthComponent
	timeout *resilience.Timeout
}

// WithTimeout bounds c's check by d. A check still running at the deadline
// fails with a TIMEOUT error and keeps running in the background with a
// cancelled context. Name and HandleFailure are c's own.
func WithTimeout(c component.HealthComponent, d time.Duration) component.HealthComponent {
	return &timeoutCheck{
		HealthComponent: c,
		timeout:         resilience.NewTimeout(resilience.TimeoutConfig{Name: c.Name(), Timeout: d}),
	}
}

func (t *timeoutCheck) CheckHealth(ctx context.Context) (component.HealthStatus, error) {
	var status component.HealthStatus
	err := t.timeout.Execute(ctx, func(ctx context.Context) error {
		s, err := t.HealthComponent.CheckHealth(ctx)
		status = s
		return err
	})
	if err != nil {
		return component.StatusUnhealthy, err
	}
	return status, nil
}

func (t *timeoutCheck) Close() error { return closeComponent(t.HealthComponent) }

func (t *timeoutCheck) Unwrap() component.HealthComponent { return t.HealthComponent }

// breakerCheck skips a component's check while its circuit is open.
type breakerCheck struct {
	component.HealthComponent
	breaker *resilience.CircuitBreaker
}

// WithCircuitBreaker runs c's check through cb. While the circuit is open
// the check is not run and fails with a CIRCUIT_OPEN error, so HandleFailure
// still sees every failed round.
func WithCircuitBreaker(c component.HealthComponent, cb *resilience.CircuitBreaker) component.HealthComponent {
	return &breakerCheck{HealthComponent: c, breaker: cb}
}

func (b *breakerCheck) CheckHealth(ctx context.Context) (component.HealthStatus, error) {
	var status component.HealthStatus
	err := b.breaker.Execute(ctx, func(ctx context.Context) error {
		s, err := b.HealthComponent.CheckHealth(ctx)
		status = s
		return err
	})
	if err != nil {
		return component.StatusUnhealthy, err
	}
	return status, nil
}

// Breaker returns the circuit breaker guarding the check.
func (b *breakerCheck) Breaker() *resilience.CircuitBreaker { return b.breaker }

func (b *breakerCheck) Close() error { return closeComponent(b.HealthComponent) }

func (b *breakerCheck) Unwrap() component.HealthComponent { return b.HealthComponent }

func closeComponent(c component.HealthComponent) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
