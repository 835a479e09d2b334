package component

import (
	"encoding/json"
	"sort"
	"time"
)

// Report is the aggregated result of one Aggregator run.
type Report struct {
	ID         string            `json:"id"`
	Service    string            `json:"service,omitempty"`
	Version    string            `json:"version,omitempty"`
	Status     HealthStatus      `json:"status"`
	Components map[string]Health `json:"components"`
	CheckedAt  time.Time         `json:"checked_at"`
	Duration   time.Duration     `json:"-"`
}

// Statuses returns the name→status mapping.
func (r *Report) Statuses() map[string]HealthStatus {
	out := make(map[string]HealthStatus, len(r.Components))
	for name, h := range r.Components {
		out[name] = h.Status
	}
	return out
}

// Component returns the result for one component.
func (r *Report) Component(name string) (Health, bool) {
	h, ok := r.Components[name]
	return h, ok
}

// Healthy reports whether the overall status is healthy.
func (r *Report) Healthy() bool { return r.Status == StatusHealthy }

// Names returns the component names in sorted order.
func (r *Report) Names() []string {
	names := make([]string, 0, len(r.Components))
	for name := range r.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Failed returns the results whose checks failed, sorted by name.
func (r *Report) Failed() []Health {
	var out []Health
	for _, name := range r.Names() {
		if h := r.Components[name]; h.Failed() {
			out = append(out, h)
		}
	}
	return out
}

// MarshalJSON adds the wall-clock duration in milliseconds.
func (r *Report) MarshalJSON() ([]byte, error) {
	type alias Report
	return json.Marshal(struct {
		*alias
		DurationMs float64 `json:"duration_ms"`
	}{
		alias:      (*alias)(r),
		DurationMs: float64(r.Duration.Microseconds()) / 1000,
	})
}
