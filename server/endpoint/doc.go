// Package endpoint provides the Gin handlers served by healthd: the health
// report, single-component checks, liveness, Prometheus metrics and build
// version.
package endpoint
