// Package config provides application configuration loaded from environment
// variables (HIST_ prefix) merged over an optional config.yaml file, plus the
// centralized path layout used by every command and service.
package config
