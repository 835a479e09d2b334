// Package errors provides the structured error type used across healthkit.
//
// Check and failure-handler errors are normalized into AppError values so the
// aggregated report can carry a machine-readable code next to the message,
// and the HTTP endpoint can render them consistently.
package errors
