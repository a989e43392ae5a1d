// Package engine defines the reasoning-engine client interface and the
// pluggable provider system behind the HR agent.
package engine

import (
	"context"
	"encoding/json"
	"time"
)

// Role constants for messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolDef describes a tool the engine can invoke.
type ToolDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema string `json:"inputSchema"` // JSON Schema string
}

// Request is the input to a Respond call.
type Request struct {
	Model       string    `json:"model,omitempty"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Tools       []ToolDef `json:"tools,omitempty"`
	MaxTokens   int       `json:"maxTokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// Invocation is the engine's request to run one tool. At most one
// invocation comes back per Respond call.
type Invocation struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Result is the outcome of a Respond call: either free text, or a tool
// invocation, or both (text accompanying the call is kept for logging).
type Result struct {
	Text       string        `json:"text"`
	Invocation *Invocation   `json:"invocation,omitempty"`
	Model      string        `json:"model,omitempty"`
	Usage      Usage         `json:"usage"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// Client is the interface all engine providers implement.
type Client interface {
	// Respond sends the conversation and returns the engine's next move.
	Respond(ctx context.Context, req Request) (*Result, error)

	// Name returns the provider name (e.g., "openrouter", "mock").
	Name() string
}
