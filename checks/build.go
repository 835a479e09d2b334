package checks

import (
	stderrors "errors"
	"fmt"

	"github.com/kbukum/healthkit/component"
	"github.com/kbukum/healthkit/config"
	apperrors "github.com/kbukum/healthkit/errors"
	"github.com/kbukum/healthkit/resilience"
)

// Build creates the check described by cfg, wrapped in a timeout and a
// circuit breaker when configured. Checks that own a client implement
// io.Closer; release them with Close.
func Build(cfg config.CheckConfig, opts ...Option) (component.HealthComponent, error) {
	var c component.HealthComponent

	switch cfg.Kind {
	case config.KindRedis:
		c = NewRedisAddr(cfg.Name, cfg.Address, cfg.Password, cfg.DB, opts...)
	case config.KindKafka:
		c = NewKafka(cfg.Name, cfg.Brokers, nil, opts...)
	case config.KindGRPC:
		g, err := NewGRPCTarget(cfg.Name, cfg.Address, cfg.Service, opts...)
		if err != nil {
			return nil, err
		}
		c = g
	case config.KindHTTP:
		c = NewHTTP(cfg.Name, cfg.Address, nil, opts...)
	case config.KindTCP:
		c = NewTCP(cfg.Name, cfg.Address, opts...)
	case config.KindMemory:
		c = NewMemory(cfg.Name, cfg.DegradedBytes, cfg.UnhealthyBytes, opts...)
	default:
		return nil, apperrors.InvalidInput("kind", fmt.Sprintf("unknown check kind %q", cfg.Kind))
	}

	if cfg.Timeout > 0 {
		c = WithTimeout(c, cfg.Timeout)
	}
	if cb := cfg.CircuitBreaker; cb != nil {
		c = WithCircuitBreaker(c, resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             cfg.Name,
			MaxFailures:      cb.MaxFailures,
			Timeout:          cb.Timeout,
			HalfOpenMaxCalls: cb.HalfOpenMaxCalls,
		}))
	}
	return c, nil
}

// BuildAll builds every configured check in order. On error the checks
// already built are closed.
func BuildAll(cfgs []config.CheckConfig, opts ...Option) ([]component.HealthComponent, error) {
	built := make([]component.HealthComponent, 0, len(cfgs))
	for _, cfg := range cfgs {
		c, err := Build(cfg, opts...)
		if err != nil {
			_ = Close(built...)
			return nil, fmt.Errorf("check %s: %w", cfg.Name, err)
		}
		built = append(built, c)
	}
	return built, nil
}

// Close closes every component that implements io.Closer.
func Close(cs ...component.HealthComponent) error {
	var errs []error
	for _, c := range cs {
		if err := closeComponent(c); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
		}
	}
	return stderrors.Join(errs...)
}
