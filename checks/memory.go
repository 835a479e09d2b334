package checks

import (
	"context"
	"runtime"

	"github.com/kbukum/healthkit/component"
	"github.com/kbukum/healthkit/logger"
)

var _ component.HealthComponent = (*Memory)(nil)

// Memory checks the process heap against thresholds.
type Memory struct {
	base
	degraded  uint64
	unhealthy uint64
	heapAlloc func() uint64
}

// NewMemory creates a check that reports degraded once the heap reaches
// degraded bytes and unhealthy once it reaches unhealthy bytes. A zero
// threshold is ignored.
func NewMemory(name string, degraded, unhealthy uint64, opts ...Option) *Memory {
	return &Memory{
		base:      newBase(name, "heap", opts),
		degraded:  degraded,
		unhealthy: unhealthy,
		heapAlloc: readHeapAlloc,
	}
}

// CheckHealth reads runtime memory statistics.
func (m *Memory) CheckHealth(ctx context.Context) (component.HealthStatus, error) {
	heap := m.heapAlloc()
	m.succeeded(ctx)

	switch {
	case m.unhealthy > 0 && heap >= m.unhealthy:
		m.log.WithContext(ctx).Warn("heap over unhealthy threshold", logger.Fields(
			"heap_bytes", heap,
			"threshold_bytes", m.unhealthy,
		))
		return component.StatusUnhealthy, nil
	case m.degraded > 0 && heap >= m.degraded:
		return component.StatusDegraded, nil
	default:
		return component.StatusHealthy, nil
	}
}

func readHeapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}
