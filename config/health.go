package config

import (
	"fmt"
	"time"

	"github.com/kbukum/healthkit/validation"
)

// Check kinds understood by checks.Build.
const (
	KindRedis  = "redis"
	KindKafka  = "kafka"
	KindGRPC   = "grpc"
	KindHTTP   = "http"
	KindTCP    = "tcp"
	KindMemory = "memory"
)

// Kinds lists every supported check kind.
var Kinds = []string{KindRedis, KindKafka, KindGRPC, KindHTTP, KindTCP, KindMemory}

// HealthConfig is the configuration of the healthd process.
type HealthConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server        ServerConfig     `yaml:"server" mapstructure:"server"`
	Aggregator    AggregatorConfig `yaml:"aggregator" mapstructure:"aggregator"`
	Telemetry     TelemetryConfig  `yaml:"telemetry" mapstructure:"telemetry"`
	Checks        []CheckConfig    `yaml:"checks" mapstructure:"checks" validate:"unique=Name,dive"`
}

// ServerConfig configures the HTTP server exposing health reports.
type ServerConfig struct {
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0"`   // seconds
	// CheckTimeout bounds a single GET /health request. Zero means no bound.
	CheckTimeout time.Duration `yaml:"check_timeout" mapstructure:"check_timeout" validate:"gte=0"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AggregatorConfig configures the aggregator.
type AggregatorConfig struct {
	// MaxConcurrency caps simultaneous checks. Zero means unbounded.
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency" validate:"gte=0"`
	// MetricsNamespace prefixes the Prometheus status gauges.
	MetricsNamespace string `yaml:"metrics_namespace" mapstructure:"metrics_namespace"`
}

// TelemetryConfig configures OTLP trace and metric export.
type TelemetryConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio. Unset means 1.0; 0 disables sampling.
	SampleRate *float64      `yaml:"sample_rate" mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// CheckConfig describes one health check. Which fields apply depends on Kind.
type CheckConfig struct {
	Name string `yaml:"name" mapstructure:"name" validate:"required"`
	Kind string `yaml:"kind" mapstructure:"kind" validate:"required,oneof=redis kafka grpc http tcp memory"`

	// Address is the redis/tcp host:port, the grpc target or the http URL.
	Address  string   `yaml:"address" mapstructure:"address"`
	Brokers  []string `yaml:"brokers" mapstructure:"brokers" validate:"omitempty,dive,hostname_port"`
	Password string   `yaml:"password" mapstructure:"password"`
	DB       int      `yaml:"db" mapstructure:"db" validate:"gte=0"`
	// Service is the gRPC health service name; empty checks the whole server.
	Service string `yaml:"service" mapstructure:"service"`

	// DegradedBytes and UnhealthyBytes are heap thresholds for memory checks.
	DegradedBytes  uint64 `yaml:"degraded_bytes" mapstructure:"degraded_bytes"`
	UnhealthyBytes uint64 `yaml:"unhealthy_bytes" mapstructure:"unhealthy_bytes"`

	// Timeout bounds the check. Zero leaves it unbounded.
	Timeout        time.Duration  `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	CircuitBreaker *BreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
}

// BreakerConfig enables a circuit breaker around a check.
type BreakerConfig struct {
	MaxFailures      int           `yaml:"max_failures" mapstructure:"max_failures" validate:"gte=0"`
	Timeout          time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	HalfOpenMaxCalls int           `yaml:"half_open_max_calls" mapstructure:"half_open_max_calls" validate:"gte=0"`
}

// ApplyDefaults applies default values to every section.
func (c *HealthConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Name == "" {
		c.Name = "healthd"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Aggregator.MetricsNamespace == "" {
		c.Aggregator.MetricsNamespace = c.Name
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == nil {
		rate := 1.0
		c.Telemetry.SampleRate = &rate
	}
	if c.Telemetry.Interval == 0 {
		c.Telemetry.Interval = 15 * time.Second
	}
}

// Validate checks struct tags first, then the fields each check kind needs.
func (c *HealthConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}

	v := validation.New().Merge("config", validation.Validate(c))
	for i, check := range c.Checks {
		check.validateKind(v, fmt.Sprintf("checks[%d]", i))
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (c CheckConfig) validateKind(v *validation.Validator, path string) {
	v.NonNegativeDuration(path+".timeout", c.Timeout)
	if c.CircuitBreaker != nil {
		v.NonNegativeDuration(path+".circuit_breaker.timeout", c.CircuitBreaker.Timeout)
	}
	switch c.Kind {
	case KindRedis, KindTCP, KindGRPC, KindHTTP:
		v.Required(path+".address", c.Address)
	case KindKafka:
		v.RequiredSlice(path+".brokers", c.Brokers)
	case KindMemory:
		v.Custom(c.DegradedBytes > 0 || c.UnhealthyBytes > 0, path+".unhealthy_bytes", "a threshold is required")
		v.Custom(c.DegradedBytes == 0 || c.UnhealthyBytes == 0 || c.DegradedBytes < c.UnhealthyBytes,
			path+".degraded_bytes", "must be below unhealthy_bytes")
	}
}
