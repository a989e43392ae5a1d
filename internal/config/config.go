// Package config loads and validates hrdesk configuration.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			Provider: "openrouter",
			Model:    "google/gemma-3-27b-it:free",
		},
		Agent: AgentConfig{
			Name: "HR Assistant",
		},
		Session: SessionConfig{
			Store: "sqlite",
		},
		Confirm: ConfirmConfig{
			TTLMinutes: 10,
			MaxPending: 1024,
		},
		Gateway: GatewayConfig{
			Port: 18920,
			Bind: "loopback",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
