// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including server settings, account credentials, rotation cooldown, and the
// shared store backend.
package config
