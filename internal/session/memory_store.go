package session

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/obeidat/hrdesk/internal/domain"
)

// MemoryStore keeps conversation histories in memory, bounded to a fixed
// number of employees. The least recently active employee's history is
// evicted when the bound is hit, so memory stays flat under churn.
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache[int, []domain.Turn]
}

// NewMemoryStore creates a bounded in-memory store. maxEntries caps the
// number of employees with a live history; values below 1 fall back to a
// generous default.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries < 1 {
		maxEntries = 4096
	}
	cache, _ := lru.New[int, []domain.Turn](maxEntries)
	return &MemoryStore{cache: cache}
}

// History returns a copy of the employee's turns.
func (m *MemoryStore) History(empID int) []domain.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	turns, ok := m.cache.Get(empID)
	if !ok {
		return nil
	}
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}

// Append adds turns to the employee's history as one unit.
func (m *MemoryStore) Append(empID int, turns ...domain.Turn) {
	if len(turns) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	existing, _ := m.cache.Get(empID)
	merged := make([]domain.Turn, 0, len(existing)+len(turns))
	merged = append(merged, existing...)
	for _, t := range turns {
		if t.Timestamp.IsZero() {
			t.Timestamp = now
		}
		merged = append(merged, t)
	}
	m.cache.Add(empID, merged)
}
