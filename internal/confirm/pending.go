// Package confirm implements the two-phase propose/confirm/finalize
// protocol for irreversible HR operations.
package confirm

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/obeidat/hrdesk/internal/logging"
)

// ErrTokenInvalid covers every way a confirmation token can fail to
// resolve: unknown, expired, already consumed, or presented by a
// different employee than the one it was issued to. Collapsing these
// keeps the token channel from leaking which case occurred.
var ErrTokenInvalid = errors.New("confirmation token invalid")

// OpKind identifies which irreversible operation a proposal performs.
type OpKind string

const (
	OpLeave   OpKind = "leave"
	OpOnboard OpKind = "onboard"
)

// Proposal is one staged irreversible operation. Nothing is written to
// the HR store until the proposal is confirmed.
type Proposal struct {
	Token      string
	Kind       OpKind
	EmployeeID int
	Summary    string
	Payload    string
	CreatedAt  time.Time
}

// PendingStore holds unconfirmed proposals server-side, keyed by opaque
// single-use tokens. Entries expire after the configured TTL and the
// store is bounded, so abandoned proposals cannot accumulate.
type PendingStore struct {
	mu    sync.Mutex // makes Take's lookup-and-consume atomic
	cache *expirable.LRU[string, Proposal]
	log   *logging.Logger
}

// NewPendingStore creates a pending-proposal store. ttl bounds how long
// an unconfirmed proposal stays resolvable; maxPending bounds the number
// of outstanding proposals across all employees.
func NewPendingStore(ttl time.Duration, maxPending int, log *logging.Logger) *PendingStore {
	if maxPending < 1 {
		maxPending = 1024
	}
	return &PendingStore{
		cache: expirable.NewLRU[string, Proposal](maxPending, nil, ttl),
		log:   log.Sub("confirm.pending"),
	}
}

// Propose stages an operation and returns the proposal with its token.
// The token is the only handle the transport ever sees; the operation's
// parameters never leave the server.
func (p *PendingStore) Propose(kind OpKind, empID int, summary, payload string) Proposal {
	prop := Proposal{
		Token:      uuid.New().String(),
		Kind:       kind,
		EmployeeID: empID,
		Summary:    summary,
		Payload:    payload,
		CreatedAt:  time.Now(),
	}
	p.cache.Add(prop.Token, prop)
	p.log.Debug().Str("kind", string(kind)).Int("employee", empID).Msg("proposal staged")
	return prop
}

// Take consumes the proposal for the token if it exists and belongs to
// the given employee. A token presented by anyone else is invalid but
// stays live for its owner. Concurrent Takes of the same token hand the
// proposal to exactly one caller.
func (p *PendingStore) Take(token string, empID int) (Proposal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prop, ok := p.cache.Get(token)
	if !ok {
		return Proposal{}, ErrTokenInvalid
	}
	if prop.EmployeeID != empID {
		p.log.Warn().Int("owner", prop.EmployeeID).Int("presenter", empID).Msg("token presented by wrong employee")
		return Proposal{}, ErrTokenInvalid
	}
	p.cache.Remove(token)
	return prop, nil
}

// Len returns the number of outstanding proposals.
func (p *PendingStore) Len() int {
	return p.cache.Len()
}
