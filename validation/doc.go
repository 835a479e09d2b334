// Package validation validates configuration before any health check is
// built from it.
//
// Struct tags cover per-field rules:
//
//	type CheckConfig struct {
//	    Name string `mapstructure:"name" validate:"required"`
//	    Kind string `mapstructure:"kind" validate:"required,oneof=redis kafka grpc http tcp memory"`
//	}
//	err := validation.Validate(cfg)
//
// A Validator collects rules that depend on other fields:
//
//	v := validation.New()
//	v.Required("checks[0].address", cfg.Address)
//	if err := v.Validate(); err != nil { ... }
//
// Both return an errors.AppError with code INVALID_INPUT whose "fields"
// detail lists every failure.
package validation
