package observability

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// KnownStatuses lists the status label values exported for every component.
// Exactly one of them is 1 at any time, the rest are 0.
var KnownStatuses = []string{"healthy", "degraded", "unhealthy"}

// StatusGauges exposes the most recent status of each component as a
// Prometheus state set.
type StatusGauges struct {
	status   *prometheus.GaugeVec
	duration *prometheus.GaugeVec
}

// NewStatusGauges creates the gauges and registers them with reg. A nil reg
// leaves them unregistered.
func NewStatusGauges(reg prometheus.Registerer, namespace string) *StatusGauges {
	ns := sanitizeNamespace(namespace)
	g := &StatusGauges{
		status: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Name:      "component_status",
				Help:      "Latest health status of a component (1 for the current status, 0 otherwise)",
			},
			[]string{"component", "status"},
		),
		duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Name:      "component_check_duration_seconds",
				Help:      "Duration of the latest health check of a component",
			},
			[]string{"component"},
		),
	}
	if reg != nil {
		reg.MustRegister(g.status, g.duration)
	}
	return g
}

// Set marks status as the current state of component.
func (g *StatusGauges) Set(component, status string) {
	for _, s := range KnownStatuses {
		v := 0.0
		if s == status {
			v = 1
		}
		g.status.WithLabelValues(component, s).Set(v)
	}
}

// SetDuration records how long the latest check of component took.
func (g *StatusGauges) SetDuration(component string, seconds float64) {
	g.duration.WithLabelValues(component).Set(seconds)
}

// Collectors returns the underlying collectors, e.g. for a custom registry.
func (g *StatusGauges) Collectors() []prometheus.Collector {
	return []prometheus.Collector{g.status, g.duration}
}

func sanitizeNamespace(ns string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, ns)
}
