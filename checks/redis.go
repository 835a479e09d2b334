package checks

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/healthkit/component"
	apperrors "github.com/kbukum/healthkit/errors"
)

var _ component.HealthComponent = (*Redis)(nil)

// Redis checks a Redis server with PING.
type Redis struct {
	base
	client goredis.UniversalClient
	owned  bool
}

// NewRedis creates a check over an existing client. The caller keeps
// ownership of client.
func NewRedis(name string, client goredis.UniversalClient, opts ...Option) *Redis {
	target := "redis"
	if c, ok := client.(*goredis.Client); ok {
		target = c.Options().Addr
	}
	return &Redis{base: newBase(name, target, opts), client: client}
}

// NewRedisAddr creates a check with its own client for addr. Close releases it.
func NewRedisAddr(name, addr, password string, db int, opts ...Option) *Redis {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	r := NewRedis(name, client, opts...)
	r.owned = true
	return r
}

// CheckHealth sends PING and expects PONG.
func (r *Redis) CheckHealth(ctx context.Context) (component.HealthStatus, error) {
	pong, err := r.client.Ping(ctx).Result()
	if err != nil {
		return component.StatusUnhealthy, apperrors.ConnectionFailed(r.target, err)
	}
	if pong != "PONG" {
		return component.StatusUnhealthy, fmt.Errorf("unexpected redis ping response: %s", pong)
	}
	r.succeeded(ctx)
	return component.StatusHealthy, nil
}

// Close closes the client if the check created it.
func (r *Redis) Close() error {
	if !r.owned {
		return nil
	}
	return r.client.Close()
}
