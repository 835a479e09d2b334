package component

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/healthkit/logger"
	"github.com/kbukum/healthkit/observability"
)

// Aggregator runs the checks of a fixed list of components concurrently and
// merges their results. It keeps no state between calls and is safe for
// concurrent use.
type Aggregator struct {
	components     []HealthComponent
	runner         *runner
	maxConcurrency int
	service        string
	version        string
}

// NewAggregator creates an aggregator over components. The slice is copied;
// the components themselves are not owned.
func NewAggregator(components []HealthComponent, opts ...Option) *Aggregator {
	a := &Aggregator{
		components: append([]HealthComponent(nil), components...),
		runner:     newRunner(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Components returns the aggregated components in construction order.
func (a *Aggregator) Components() []HealthComponent {
	return append([]HealthComponent(nil), a.components...)
}

// Health checks every component concurrently and returns each component's
// status keyed by name. It returns once every check has completed; a check
// that never returns blocks the call. Failed checks appear as
// StatusUnhealthy. If two components share a name, whichever finishes last
// wins.
func (a *Aggregator) Health(ctx context.Context) map[string]HealthStatus {
	return a.Report(ctx).Statuses()
}

// Report is like Health but also returns per-component details and the
// overall status.
func (a *Aggregator) Report(ctx context.Context) *Report {
	id := uuid.NewString()
	start := time.Now()

	ctx = logger.ContextWithReportID(ctx, id)
	ctx, span := a.runner.tracer.Start(ctx, observability.SpanReport, trace.WithAttributes(
		attribute.String(observability.AttrReportID, id),
		attribute.Int(observability.AttrComponents, len(a.components)),
		attribute.String(observability.AttrService, a.service),
	))

	report := &Report{
		ID:         id,
		Service:    a.service,
		Version:    a.version,
		Components: make(map[string]Health, len(a.components)),
		CheckedAt:  start,
	}
	// Results arrive in completion order, so the last finisher wins for
	// duplicate names.
	for _, h := range a.run(ctx) {
		report.Components[h.Name] = h
	}
	report.Status = OverallStatus(report.Statuses())
	report.Duration = time.Since(start)

	a.runner.metrics.RecordReport(ctx, a.service, report.Status.String(), report.Duration)
	observability.EndSpan(span, report.Status.String(), nil)
	a.runner.log.WithContext(ctx).Debug("health report built", logger.MergeWithDuration(logger.Fields(
		logger.FieldStatus, report.Status.String(),
		logger.FieldCount, len(a.components),
	), report.Duration))

	return report
}

// Check runs the check of the first component named name under the same
// wrapping policy as Health. It reports false if no component has that name.
func (a *Aggregator) Check(ctx context.Context, name string) (Health, bool) {
	for _, c := range a.components {
		if c.Name() == name {
			return a.runner.check(ctx, c), true
		}
	}
	return Health{}, false
}

// run fans out one goroutine per component and fans the results back in
// through a channel drained by the caller, which is the only writer of the
// returned slice.
func (a *Aggregator) run(ctx context.Context) []Health {
	if len(a.components) == 0 {
		return nil
	}

	results := make(chan Health, len(a.components))
	var g errgroup.Group
	if a.maxConcurrency > 0 {
		g.SetLimit(a.maxConcurrency)
	}
	for _, c := range a.components {
		g.Go(func() error {
			results <- a.runner.check(ctx, c)
			return nil
		})
	}
	_ = g.Wait() // units never return an error
	close(results)

	out := make([]Health, 0, len(a.components))
	for h := range results {
		out = append(out, h)
	}
	return out
}
