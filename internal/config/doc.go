// Package config loads and validates the TOML configuration that wires the
// generation pipeline to its external providers.
package config
