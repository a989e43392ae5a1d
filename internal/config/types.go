package config

// Config is the root configuration for hrdesk.
type Config struct {
	Engine   EngineConfig   `yaml:"engine,omitempty"`
	Agent    AgentConfig    `yaml:"agent,omitempty"`
	Filter   FilterConfig   `yaml:"filter,omitempty"`
	Session  SessionConfig  `yaml:"session,omitempty"`
	Confirm  ConfirmConfig  `yaml:"confirm,omitempty"`
	Storage  StorageConfig  `yaml:"storage,omitempty"`
	Reports  ReportsConfig  `yaml:"reports,omitempty"`
	Gateway  GatewayConfig  `yaml:"gateway,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// EngineConfig selects and configures the reasoning-engine provider.
type EngineConfig struct {
	Provider  string   `yaml:"provider,omitempty"` // "openrouter" | "mock"
	APIKey    string   `yaml:"apiKey,omitempty"`
	Model     string   `yaml:"model,omitempty"`
	Endpoint  string   `yaml:"endpoint,omitempty"`
	Fallbacks []string `yaml:"fallbacks,omitempty"`
}

// AgentConfig controls the dispatcher's agent persona.
type AgentConfig struct {
	Name        string   `yaml:"name,omitempty"`
	MaxTokens   int      `yaml:"maxTokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	ExtraPrompt string   `yaml:"extraPrompt,omitempty"`
}

// FilterConfig configures the input filter.
type FilterConfig struct {
	// Phrases replaces the built-in disclosure phrase list when set.
	Phrases []string `yaml:"phrases,omitempty"`
}

// SessionConfig defines conversation history behavior.
type SessionConfig struct {
	Store      string `yaml:"store,omitempty"` // "sqlite" | "memory"
	MaxEntries int    `yaml:"maxEntries,omitempty"` // 0 = unbounded
}

// ConfirmConfig controls the confirmation workflow.
type ConfirmConfig struct {
	// TTLMinutes bounds how long an unconfirmed proposal stays valid.
	TTLMinutes int `yaml:"ttlMinutes,omitempty"`
	// MaxPending bounds the number of outstanding proposals.
	MaxPending int `yaml:"maxPending,omitempty"`
}

// StorageConfig points at the HR backing store.
type StorageConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file, ":memory:" for tests
}

// ReportsConfig controls generated artifacts.
type ReportsConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// GatewayConfig controls the WebSocket gateway transport.
type GatewayConfig struct {
	Port int         `yaml:"port,omitempty"`
	Bind string      `yaml:"bind,omitempty"` // "loopback" | "lan"
	Auth GatewayAuth `yaml:"auth,omitempty"`
}

// GatewayAuth configures gateway authentication.
type GatewayAuth struct {
	Token string `yaml:"token,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
}
