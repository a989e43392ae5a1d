// Package directory resolves external chat accounts to employee identities.
package directory

import (
	"context"
	"fmt"

	"github.com/obeidat/hrdesk/internal/domain"
	"github.com/obeidat/hrdesk/internal/logging"
)

// Source looks up an employee identity by external account id. A nil
// identity with a nil error means the account is not linked to any
// employee.
type Source interface {
	LookupByExternalID(ctx context.Context, externalID string) (*domain.Identity, error)
}

// Resolver maps inbound chat accounts to internal identities. Every
// inbound message is resolved fresh; nothing is cached, so role changes
// take effect on the next message.
type Resolver struct {
	src Source
	log *logging.Logger
}

// NewResolver creates a resolver over the given identity source.
func NewResolver(src Source, log *logging.Logger) *Resolver {
	return &Resolver{src: src, log: log.Sub("directory")}
}

// Resolve returns the identity linked to the external account id, or
// (nil, nil) when the account is unregistered. A non-nil error means the
// lookup itself failed and the caller should treat the message as
// retryable rather than denied.
func (r *Resolver) Resolve(ctx context.Context, externalID string) (*domain.Identity, error) {
	if externalID == "" {
		return nil, nil
	}

	id, err := r.src.LookupByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", externalID, err)
	}
	if id == nil {
		r.log.Warn().Str("external", externalID).Msg("unregistered account")
		return nil, nil
	}

	// A record with a malformed role is treated as unregistered rather
	// than granted a fallback role.
	if !id.Role.Valid() {
		r.log.Warn().Str("external", externalID).Str("role", string(id.Role)).Msg("invalid role on record")
		return nil, nil
	}

	r.log.Debug().Str("external", externalID).Int("employee", id.EmployeeID).Msg("identity resolved")
	return id, nil
}
