package engine

import (
	"fmt"
	"sync"

	"github.com/obeidat/hrdesk/internal/config"
	"github.com/obeidat/hrdesk/internal/logging"
)

// ProviderError is returned when an engine provider fails.
type ProviderError struct {
	Provider string
	Message  string
	Code     int // HTTP-like status code (401, 429, 500, etc.)
}

func (e *ProviderError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s: %d %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Registry manages engine provider clients and resolves model references
// to clients.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]Client // model name → client
	aliases  map[string]string // alias → registered model name
	fallback string            // default model name
	log      *logging.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		clients: make(map[string]Client),
		aliases: make(map[string]string),
		log:     log.Sub("engine.registry"),
	}
}

// Register adds a client under the given model name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.log.Info().Str("model", name).Msg("registered engine provider")
}

// Alias maps an alternate reference to a registered model name.
func (r *Registry) Alias(alias, model string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = model
}

// SetFallback sets the default model used when no reference matches.
func (r *Registry) SetFallback(model string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = model
}

// Resolve returns the Client for the given model reference.
// Resolution order: exact model name → alias → fallback.
func (r *Registry) Resolve(model string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.clients[model]; ok {
		return c, nil
	}

	if provider, ok := r.aliases[model]; ok {
		if c, ok := r.clients[provider]; ok {
			return c, nil
		}
	}

	if r.fallback != "" {
		if c, ok := r.clients[r.fallback]; ok {
			return c, nil
		}
	}

	return nil, fmt.Errorf("no engine provider for model %q", model)
}

// List returns all registered model names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	return names
}

// NewRegistryFromConfig builds a provider registry with one client per
// configured model. Every model resolves to its own client, the primary
// doubles as the registry fallback so unknown references still land on a
// working provider.
func NewRegistryFromConfig(cfg config.EngineConfig, log *logging.Logger) (*Registry, error) {
	reg := NewRegistry(log)

	switch cfg.Provider {
	case "mock":
		reg.Register(cfg.Model, &MockClient{ProviderName: "mock"})

	case "openrouter", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("engine.apiKey is required for openrouter")
		}
		reg.Register(cfg.Model, NewOpenRouterClient(cfg.APIKey, cfg.Model, cfg.Endpoint))
		for _, model := range cfg.Fallbacks {
			reg.Register(model, NewOpenRouterClient(cfg.APIKey, model, cfg.Endpoint))
		}

	default:
		return nil, fmt.Errorf("unknown engine provider %q", cfg.Provider)
	}

	reg.Alias("default", cfg.Model)
	reg.SetFallback(cfg.Model)
	return reg, nil
}

// NewClientFromConfig builds the engine client the dispatcher talks to.
// All models are registered in a provider registry; when fallback models
// are configured, the primary is wrapped in a failover chain that
// resolves each model through the registry on retryable failures.
func NewClientFromConfig(cfg config.EngineConfig, log *logging.Logger) (Client, error) {
	reg, err := NewRegistryFromConfig(cfg, log)
	if err != nil {
		return nil, err
	}
	if len(cfg.Fallbacks) == 0 {
		return reg.Resolve(cfg.Model)
	}
	return NewFailoverClient(reg, cfg.Model, cfg.Fallbacks, log), nil
}
