// Package logger provides structured logging for healthkit using zerolog.
//
// It supports JSON and console output, log level configuration, rotating
// file output, and component-scoped loggers. Every health component logs
// through a logger tagged with its own name.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "/var/log/healthd/healthd.log"
//
// # Usage
//
//	log := logger.Get("redis")
//	log.Warn("health check failed", logger.ErrorFields("check", err))
package logger
