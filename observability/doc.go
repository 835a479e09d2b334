// Package observability provides OpenTelemetry tracing and metrics for health
// checks, plus Prometheus gauges that expose the latest status of every
// component.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("healthd"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("healthd"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("healthd"))
//	metrics.RecordCheck(ctx, "redis", "healthy", duration)
//
// Prometheus:
//
//	gauges := observability.NewStatusGauges(prometheus.DefaultRegisterer, "healthd")
//	gauges.Set("redis", "healthy")
package observability
