// Package transport manages chat delivery integrations.
package transport

import (
	"context"
	"sync"

	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/logging"
)

// Registry manages a set of transports.
type Registry struct {
	mu         sync.RWMutex
	transports map[string]domain.Transport
	log        *logging.Logger
}

// NewRegistry creates a transport registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		transports: make(map[string]domain.Transport),
		log:        log.Sub("transports"),
	}
}

// Register adds a transport to the registry.
func (r *Registry) Register(tr domain.Transport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transports[tr.ID()] = tr
	r.log.Info().Str("transport", tr.ID()).Msg("transport registered")
}

// Get returns a transport by ID.
func (r *Registry) Get(id string) (domain.Transport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tr, ok := r.transports[id]
	return tr, ok
}

// List returns all transport IDs.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.transports))
	for id := range r.transports {
		ids = append(ids, id)
	}
	return ids
}

// Status returns the status of all registered transports.
func (r *Registry) Status() []domain.TransportStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	statuses := make([]domain.TransportStatus, 0, len(r.transports))
	for _, tr := range r.transports {
		if st, ok := tr.(interface{ Status() domain.TransportStatus }); ok {
			statuses = append(statuses, st.Status())
		} else {
			statuses = append(statuses, domain.TransportStatus{
				TransportID: tr.ID(),
				Running:     true,
			})
		}
	}
	return statuses
}

// StartAll starts all registered transports in background goroutines.
// Transport Start methods may block on their listen loop, so each is
// launched concurrently to avoid stalling subsequent initialization.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, tr := range r.transports {
		r.log.Info().Str("transport", id).Msg("starting transport")
		go func(id string, tr domain.Transport) {
			if err := tr.Start(ctx); err != nil {
				r.log.Error().Err(err).Str("transport", id).Msg("transport exited with error")
			}
		}(id, tr)
	}
	return nil
}

// StopAll stops all registered transports.
func (r *Registry) StopAll(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, tr := range r.transports {
		r.log.Info().Str("transport", id).Msg("stopping transport")
		if err := tr.Stop(ctx); err != nil {
			r.log.Error().Err(err).Str("transport", id).Msg("failed to stop transport")
		}
	}
}

// Count returns the number of registered transports.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.transports)
}
