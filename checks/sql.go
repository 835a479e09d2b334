package checks

import (
	"context"

	"github.com/kbukum/healthkit/component"
	apperrors "github.com/kbukum/healthkit/errors"
)

var _ component.HealthComponent = (*SQL)(nil)

// Pinger is satisfied by *sql.DB and *sql.Conn.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SQL checks a database handle with PingContext.
type SQL struct {
	base
	db Pinger
}

// NewSQL creates a check over db. target names the database in errors and
// logs.
func NewSQL(name, target string, db Pinger, opts ...Option) *SQL {
	return &SQL{base: newBase(name, target, opts), db: db}
}

// CheckHealth pings the database.
func (s *SQL) CheckHealth(ctx context.Context) (component.HealthStatus, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return component.StatusUnhealthy, apperrors.ConnectionFailed(s.target, err)
	}
	s.succeeded(ctx)
	return component.StatusHealthy, nil
}
