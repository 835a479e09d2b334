package component

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// IsValid reports whether s is one of the known statuses.
func (s HealthStatus) IsValid() bool {
	switch s {
	case StatusHealthy, StatusDegraded, StatusUnhealthy:
		return true
	}
	return false
}

// Severity orders statuses from best (0) to worst. Unknown statuses rank as
// unhealthy.
func (s HealthStatus) Severity() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// String returns the status value.
func (s HealthStatus) String() string { return string(s) }

// OverallStatus folds component statuses into one: unhealthy if any is
// unhealthy, degraded if any is degraded, healthy otherwise. An empty set is
// healthy.
func OverallStatus(statuses map[string]HealthStatus) HealthStatus {
	overall := StatusHealthy
	for _, s := range statuses {
		if s.Severity() > overall.Severity() {
			overall = s
			if !overall.IsValid() {
				overall = StatusUnhealthy
			}
		}
	}
	return overall
}
