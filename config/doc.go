// Package config loads and validates the healthd configuration.
//
// Values are read with Viper from a YAML file, then overridden by a .env file
// and the process environment. Overrides carry the service prefix and use
// underscores for nesting:
//
//	HEALTHD_SERVER_PORT=9090
//	HEALTHD_AGGREGATOR_MAX_CONCURRENCY=8
//
// # Usage
//
//	cfg, err := config.Load(config.WithConfigFile("healthd.yml"))
//
// Load applies defaults and validates the result; checks that reference an
// unknown kind or miss a kind-specific field are rejected before anything is
// built from them.
package config
