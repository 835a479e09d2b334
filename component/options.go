package component

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/healthkit/logger"
	"github.com/kbukum/healthkit/observability"
)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithMaxConcurrency caps how many checks run at once. Zero or negative
// means one goroutine per component with no cap.
func WithMaxConcurrency(n int) Option {
	return func(a *Aggregator) { a.maxConcurrency = n }
}

// WithLogger sets the logger used for check and handler failures.
func WithLogger(l *logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.runner.log = l
		}
	}
}

// WithMetrics records check and report metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Aggregator) { a.runner.metrics = m }
}

// WithTracer sets the tracer used for report and check spans.
func WithTracer(t trace.Tracer) Option {
	return func(a *Aggregator) {
		if t != nil {
			a.runner.tracer = t
		}
	}
}

// WithService names the service and version stamped on every Report.
func WithService(name, version string) Option {
	return func(a *Aggregator) {
		a.service = name
		a.version = version
	}
}

// WithObserver registers fn to be called with every completed check. fn is
// called from the checking goroutine and must be safe for concurrent use.
func WithObserver(fn func(Health)) Option {
	return func(a *Aggregator) {
		if fn != nil {
			a.runner.observers = append(a.runner.observers, fn)
		}
	}
}
