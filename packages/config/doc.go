// Package config handles configuration loading and management for sophttp.
//
// It provides functionality for:
//   - Loading configuration from .sophttp.config.json files
//   - Default configuration values
//   - Merging file configuration with command-line overrides
package config
