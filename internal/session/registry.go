// Package session tracks per-employee conversation state and serializes
// concurrent work on the same employee.
package session

import (
	"sync"

	"github.com/obeidat/hrdesk/internal/domain"
)

// Store persists conversation turns keyed by employee id.
type Store interface {
	// History returns the employee's turns in insertion order.
	History(empID int) []domain.Turn

	// Append adds the given turns as one unit. Implementations must not
	// interleave turns from a concurrent Append for the same employee.
	Append(empID int, turns ...domain.Turn)
}

// Registry owns the per-employee locks and fronts the turn store. Two
// dispatch cycles for the same employee never run concurrently; cycles
// for different employees are independent.
type Registry struct {
	store Store

	mu    sync.Mutex
	locks map[int]*empLock
}

// empLock is reference-counted so the map entry can be dropped once the
// last holder releases it; otherwise the map would grow with every
// employee ever dispatched.
type empLock struct {
	mu   sync.Mutex
	refs int
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store Store) *Registry {
	return &Registry{store: store, locks: make(map[int]*empLock)}
}

// Lock acquires the employee's lock and returns the release func.
func (r *Registry) Lock(empID int) func() {
	r.mu.Lock()
	l, ok := r.locks[empID]
	if !ok {
		l = &empLock{}
		r.locks[empID] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, empID)
		}
		r.mu.Unlock()
	}
}

// History returns the employee's conversation history.
func (r *Registry) History(empID int) []domain.Turn {
	return r.store.History(empID)
}

// Append records turns for the employee.
func (r *Registry) Append(empID int, turns ...domain.Turn) {
	r.store.Append(empID, turns...)
}
