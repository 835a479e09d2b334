// Package checks provides ready-made health components for common
// dependencies: Redis, Kafka, gRPC health servers, HTTP endpoints, TCP
// listeners, SQL databases and the process heap.
//
// Each check reports a failure to reach its dependency as a CONNECTION_FAILED
// error, which the aggregator routes to the check's HandleFailure. That
// handler logs the failure with the number of consecutive failures; the next
// successful check logs the recovery.
//
//	cache := checks.WithTimeout(checks.NewRedis("cache", rdb), 2*time.Second)
//	agg := component.NewAggregator([]component.HealthComponent{cache, checks.NewSQL("db", "postgres", db)})
//
// Build creates checks from configuration.
package checks
