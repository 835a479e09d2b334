package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kbukum/healthkit/checks"
	"github.com/kbukum/healthkit/component"
	"github.com/kbukum/healthkit/config"
	"github.com/kbukum/healthkit/logger"
	"github.com/kbukum/healthkit/observability"
	"github.com/kbukum/healthkit/version"
)

// app wires the configured checks into an aggregator and owns everything
// that must be released on exit.
type app struct {
	cfg        *config.HealthConfig
	log        *logger.Logger
	registry   *component.Registry
	aggregator *component.Aggregator
	prom       *prometheus.Registry
	shutdown   []func(context.Context) error
}

func newApp(ctx context.Context, cfg *config.HealthConfig) (*app, error) {
	logger.Init(cfg.Logging)
	a := &app{
		cfg:      cfg,
		log:      logger.GetGlobalLogger().WithComponent(cfg.Name),
		registry: component.NewRegistry(),
		prom:     prometheus.NewRegistry(),
	}
	a.prom.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []component.Option{
		component.WithLogger(a.log),
		component.WithService(cfg.Name, a.serviceVersion()),
		component.WithMaxConcurrency(cfg.Aggregator.MaxConcurrency),
	}

	telemetry, err := a.initTelemetry(ctx)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	opts = append(opts, telemetry...)

	gauges := observability.NewStatusGauges(a.prom, cfg.Aggregator.MetricsNamespace)
	opts = append(opts, component.WithObserver(func(h component.Health) {
		gauges.Set(h.Name, h.Status.String())
		gauges.SetDuration(h.Name, h.Duration.Seconds())
	}))

	built, err := checks.BuildAll(cfg.Checks, checks.WithLogger(a.log))
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	a.shutdown = append(a.shutdown, func(context.Context) error { return checks.Close(built...) })
	for _, c := range built {
		if err := a.registry.Register(c); err != nil {
			_ = a.close(ctx)
			return nil, err
		}
	}

	a.aggregator = a.registry.Aggregator(opts...)
	a.log.Info("health checks configured", logger.Fields(
		logger.FieldCount, a.registry.Len(),
		"checks", a.registry.Names(),
	))
	return a, nil
}

// serviceVersion prefers the configured version over the build version.
func (a *app) serviceVersion() string {
	if a.cfg.Version != "" {
		return a.cfg.Version
	}
	return version.GetShortVersion()
}

// initTelemetry starts OTLP trace and metric export when enabled and returns
// the aggregator options that record into them.
func (a *app) initTelemetry(ctx context.Context) ([]component.Option, error) {
	t := a.cfg.Telemetry
	if !t.Enabled {
		return nil, nil
	}

	rate := 1.0
	if t.SampleRate != nil {
		rate = *t.SampleRate
	}
	tp, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName:    a.cfg.Name,
		ServiceVersion: a.serviceVersion(),
		Environment:    a.cfg.Environment,
		Endpoint:       t.Endpoint,
		Insecure:       t.Insecure,
		SampleRate:     rate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.shutdown = append(a.shutdown, tp.Shutdown)

	mp, err := observability.InitMeter(ctx, observability.MeterConfig{
		ServiceName:    a.cfg.Name,
		ServiceVersion: a.serviceVersion(),
		Environment:    a.cfg.Environment,
		Endpoint:       t.Endpoint,
		Insecure:       t.Insecure,
		Interval:       t.Interval,
	})
	if err != nil {
		return nil, fmt.Errorf("init meter: %w", err)
	}
	a.shutdown = append(a.shutdown, mp.Shutdown)

	metrics, err := observability.NewMetrics(observability.Meter(observability.TracerName))
	if err != nil {
		return nil, err
	}
	return []component.Option{
		component.WithTracer(observability.Tracer()),
		component.WithMetrics(metrics),
	}, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.shutdown = nil
	return errors.Join(errs...)
}

// release closes the app on exit, logging what could not be shut down.
func (a *app) release(ctx context.Context) {
	if err := a.close(context.WithoutCancel(ctx)); err != nil {
		a.log.Warn("shutdown incomplete", logger.ErrorFields("close", err))
	}
}
