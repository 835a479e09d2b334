package component

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/healthkit/errors"
	"github.com/kbukum/healthkit/logger"
	"github.com/kbukum/healthkit/observability"
)

// runner applies the wrapping policy to a single component. It is shared by
// every goroutine of an aggregation, so it holds no per-call state.
type runner struct {
	log       *logger.Logger
	metrics   *observability.Metrics
	tracer    trace.Tracer
	observers []func(Health)
}

func newRunner() *runner {
	return &runner{
		log:    logger.Get("health"),
		tracer: observability.Tracer(),
	}
}

// Check runs c's health check under the wrapping policy using the global
// logger and tracer:
//
//  1. CheckHealth is invoked; a panic or an unknown status counts as failure.
//  2. On success the returned status is used.
//  3. On failure HandleFailure is invoked once with the check's error and the
//     result is StatusUnhealthy. If the handler returns an error or panics,
//     that is logged and recorded in Health.Error; the status stays
//     StatusUnhealthy.
//
// Check never panics and never returns an error.
func Check(ctx context.Context, c HealthComponent) Health {
	return newRunner().check(ctx, c)
}

func (r *runner) check(ctx context.Context, c HealthComponent) Health {
	name := c.Name()
	start := time.Now()

	ctx, span := r.tracer.Start(ctx, observability.SpanCheck,
		trace.WithAttributes(attribute.String(observability.AttrComponent, name)))

	log := r.log.WithContext(ctx).WithComponent(name)
	h := Health{Name: name, CheckedAt: start}

	status, err := invokeCheck(ctx, c)
	if err == nil {
		h.Status = status
	} else {
		h.Status = StatusUnhealthy
		h.Message = err.Error()
		h.Error = err
		if !apperrors.IsAppError(err) {
			h.Error = apperrors.CheckFailed(name, err)
		}
		log.Warn("health check failed", logger.ErrorFields("check", err))

		if herr := invokeHandler(ctx, c, err); herr != nil {
			h.Error = apperrors.HandlerFailed(name, err, herr)
			r.metrics.RecordHandlerFailure(ctx, name)
			log.Error("failure handler failed", logger.ErrorFields("handle_failure", herr))
		}
	}
	h.Duration = time.Since(start)

	r.metrics.RecordCheck(ctx, name, h.Status.String(), h.Failed(), h.Duration)
	observability.EndSpan(span, h.Status.String(), h.Error)
	log.Debug("health check completed", logger.MergeWithDuration(
		logger.Fields(logger.FieldStatus, h.Status.String()), h.Duration))

	for _, observe := range r.observers {
		observe(h)
	}
	return h
}

// invokeCheck calls CheckHealth, converting panics and unknown statuses
// into errors.
func invokeCheck(ctx context.Context, c HealthComponent) (status HealthStatus, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			status, err = "", apperrors.CheckPanic(c.Name(), rec)
		}
	}()

	status, err = c.CheckHealth(ctx)
	if err == nil && !status.IsValid() {
		err = apperrors.InvalidStatus(c.Name(), string(status))
	}
	return status, err
}

// invokeHandler calls HandleFailure, converting a panic into an error.
func invokeHandler(ctx context.Context, c HealthComponent, checkErr error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.CheckPanic(c.Name(), rec).WithDetail("phase", "handle_failure")
		}
	}()
	return c.HandleFailure(ctx, checkErr)
}
