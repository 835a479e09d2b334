// Package resilience provides the guards that health checks are wrapped in.
//
//   - CircuitBreaker: stops probing a dependency that keeps failing
//   - Timeout: bounds a single check by a deadline
//
// Rejections are errors.AppError values (CIRCUIT_OPEN, TIMEOUT) so they flow
// through the aggregator's failure path like any other check error:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("redis"))
//	err := cb.Execute(ctx, func(ctx context.Context) error {
//	    return resilience.ExecuteWithTimeout(ctx, "redis", 2*time.Second, ping)
//	})
package resilience
