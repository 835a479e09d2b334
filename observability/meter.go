package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/healthkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded while building health reports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	checkTotal      metric.Int64Counter
	checkDuration   metric.Float64Histogram
	handlerFailures metric.Int64Counter
	reportTotal     metric.Int64Counter
	reportDuration  metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	checkTotal, err := meter.Int64Counter("health.check.total",
		metric.WithDescription("Total number of component health checks by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating health.check.total counter: %w", err)
	}

	checkDuration, err := meter.Float64Histogram("health.check.duration",
		metric.WithDescription("Duration of component health checks in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating health.check.duration histogram: %w", err)
	}

	handlerFailures, err := meter.Int64Counter("health.handler.failures",
		metric.WithDescription("Failure handlers that themselves failed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating health.handler.failures counter: %w", err)
	}

	reportTotal, err := meter.Int64Counter("health.report.total",
		metric.WithDescription("Total number of aggregated health reports by overall status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating health.report.total counter: %w", err)
	}

	reportDuration, err := meter.Float64Histogram("health.report.duration",
		metric.WithDescription("Wall-clock duration of aggregated health reports in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating health.report.duration histogram: %w", err)
	}

	return &Metrics{
		checkTotal:      checkTotal,
		checkDuration:   checkDuration,
		handlerFailures: handlerFailures,
		reportTotal:     reportTotal,
		reportDuration:  reportDuration,
	}, nil
}

// RecordCheck records one component check and its outcome.
func (m *Metrics) RecordCheck(ctx context.Context, component, status string, failed bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.checkTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("status", status),
		attribute.Bool("failed", failed),
	))
	m.checkDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("component", component),
	))
}

// RecordHandlerFailure records a failure handler that returned an error or panicked.
func (m *Metrics) RecordHandlerFailure(ctx context.Context, component string) {
	if m == nil {
		return
	}
	m.handlerFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
	))
}

// RecordReport records one aggregated report.
func (m *Metrics) RecordReport(ctx context.Context, service, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("status", status),
	))
	m.reportDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
	))
}
