// Package config provides configuration for the development backend.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation
//   - sanitize.go: Log sanitization (hide the signing secret)
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// TODO_STUB_* environment variables and defaults.
package config
