// Package server runs the HTTP server that exposes health reports, using Gin
// with h2c so REST and gRPC clients share one port.
//
// # Middleware
//
// Built-in middleware (server/middleware), applied around every route:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - GET /health: full report, 503 when unhealthy
//   - GET /health/:name: one component, 404 when unknown
//   - GET /livez: liveness probe
//   - GET /metrics: Prometheus metrics
//   - GET /version: build version information
//   - grpc.health.v1.Health/Check over h2c
package server
