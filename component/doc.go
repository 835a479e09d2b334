// Package component defines the health component contract and the aggregator
// that checks every component concurrently.
//
// A HealthComponent knows how to determine its own health and what to do
// when that determination fails. The Aggregator runs every component's check
// in its own goroutine, routes failures to the component's failure handler,
// and assembles one name→status mapping once every check has finished.
//
// # Interfaces
//
//   - HealthComponent: Name, CheckHealth, HandleFailure
//
// # Usage
//
//	agg := component.NewAggregator([]component.HealthComponent{db, cache})
//	statuses := agg.Health(ctx) // map[string]component.HealthStatus
//	report := agg.Report(ctx)   // statuses plus overall status and details
package component
