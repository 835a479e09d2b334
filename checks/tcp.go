package checks

import (
	"context"
	"net"
	"time"

	"github.com/kbukum/healthkit/component"
	apperrors "github.com/kbukum/healthkit/errors"
)

var _ component.HealthComponent = (*TCP)(nil)

// TCP checks that a TCP address accepts connections.
type TCP struct {
	base
	addr   string
	dialer *net.Dialer
}

// NewTCP creates a check for addr with a 5s dial timeout.
func NewTCP(name, addr string, opts ...Option) *TCP {
	return &TCP{
		base:   newBase(name, addr, opts),
		addr:   addr,
		dialer: &net.Dialer{Timeout: 5 * time.Second},
	}
}

// CheckHealth opens and closes a connection.
func (t *TCP) CheckHealth(ctx context.Context) (component.HealthStatus, error) {
	conn, err := t.dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return component.StatusUnhealthy, apperrors.ConnectionFailed(t.addr, err)
	}
	_ = conn.Close()
	t.succeeded(ctx)
	return component.StatusHealthy, nil
}
