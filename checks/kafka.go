package checks

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kbukum/healthkit/component"
	apperrors "github.com/kbukum/healthkit/errors"
)

var _ component.HealthComponent = (*Kafka)(nil)

// Kafka checks a Kafka cluster by dialling its brokers and reading cluster
// metadata.
type Kafka struct {
	base
	brokers []string
	dialer  *kafka.Dialer
}

// NewKafka creates a check over brokers. A nil dialer uses a plain TCP
// dialer with a 10s timeout.
func NewKafka(name string, brokers []string, dialer *kafka.Dialer, opts ...Option) *Kafka {
	if dialer == nil {
		dialer = &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true}
	}
	return &Kafka{
		base:    newBase(name, strings.Join(brokers, ","), opts),
		brokers: append([]string(nil), brokers...),
		dialer:  dialer,
	}
}

// CheckHealth tries the brokers in order and reads metadata from the first
// one that accepts a connection. It reports degraded when that was not the
// first broker or when metadata could not be read, and fails when no broker
// is reachable.
func (k *Kafka) CheckHealth(ctx context.Context) (component.HealthStatus, error) {
	if len(k.brokers) == 0 {
		return component.StatusUnhealthy, fmt.Errorf("no brokers configured")
	}

	var dialErrs []error
	for _, broker := range k.brokers {
		conn, err := k.dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			dialErrs = append(dialErrs, fmt.Errorf("%s: %w", broker, err))
			continue
		}

		_, err = conn.Brokers()
		_ = conn.Close()

		k.succeeded(ctx)
		if err != nil || len(dialErrs) > 0 {
			return component.StatusDegraded, nil
		}
		return component.StatusHealthy, nil
	}
	return component.StatusUnhealthy, apperrors.ConnectionFailed(k.target, stderrors.Join(dialErrs...))
}
