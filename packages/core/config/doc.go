// Package config handles configuration loading for cukefmt.
//
// It provides functionality for:
//   - Loading configuration from JSON or YAML files
//   - Default configuration values
//   - Validating and decoding formatter options
//   - Splitting --format values into a type and an output target
package config
