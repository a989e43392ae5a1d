package engine

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/obeidat/hrdesk/internal/logging"
)

// FailoverClient wraps a provider registry to try fallback models on
// retryable failures. The whole chain counts as one Respond call: the
// caller never sees a partial attempt, only the first success or the
// last failure.
type FailoverClient struct {
	registry  *Registry
	primary   string
	fallbacks []string
	log       *logging.Logger
}

// NewFailoverClient creates a client that tries the primary model first,
// then falls back through the list, resolving each model through the
// registry.
func NewFailoverClient(registry *Registry, primary string, fallbacks []string, log *logging.Logger) *FailoverClient {
	return &FailoverClient{
		registry:  registry,
		primary:   primary,
		fallbacks: fallbacks,
		log:       log.Sub("engine.failover"),
	}
}

// Name returns the primary provider's name.
func (f *FailoverClient) Name() string {
	if c, err := f.registry.Resolve(f.primary); err == nil {
		return c.Name()
	}
	return "failover"
}

// Respond tries each model in order until one succeeds.
func (f *FailoverClient) Respond(ctx context.Context, req Request) (*Result, error) {
	models := append([]string{f.primary}, f.fallbacks...)

	var lastErr error
	for i, model := range models {
		c, err := f.registry.Resolve(model)
		if err != nil {
			lastErr = err
			f.log.Debug().Str("model", model).Err(err).Msg("no provider for model, skipping")
			continue
		}

		req.Model = model
		res, err := c.Respond(ctx, req)
		if err == nil {
			if i > 0 {
				f.log.Warn().Str("model", model).Int("attempt", i+1).Msg("fallback model answered")
			}
			return res, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRetryable(err) {
			return nil, err
		}
		f.log.Warn().Err(err).Str("model", model).Msg("model failed, trying next")
	}

	return nil, fmt.Errorf("all %d models failed: %w", len(models), lastErr)
}

// isRetryable reports whether the next model in the chain is worth
// trying. Auth and request-shape errors fail the same way everywhere, so
// only rate limits, server errors and transport faults move the chain on.
func isRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		switch {
		case pe.Code == 429:
			return true
		case pe.Code >= 500:
			return true
		case pe.Code == 0:
			return true
		default:
			return false
		}
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}

	return false
}
