// Package ledger implements the off-chain arbitration side of the dispute
// safe: role assignments, case intake, evidence anchoring, the arbitrator
// roster, tribunal composition and ruling compilation. It produces the
// payload hashes and resolver decisions that the on-chain client submits.
package ledger

import "sync"

// Store is the repository abstraction the ledger managers depend on. The
// in-memory implementation below backs tests and the CLI; a persistent
// implementation can be swapped in without touching manager code.
type Store[V any] interface {
	Get(key string) (V, bool)
	Put(key string, value V)
	Has(key string) bool
	// Values returns all stored values in insertion order.
	Values() []V
}

// MemoryStore is a mutex-guarded in-memory Store that preserves insertion
// order for Values.
type MemoryStore[V any] struct {
	mu    sync.RWMutex
	items map[string]V
	keys  []string
}

func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{
		items: make(map[string]V),
	}
}

func (s *MemoryStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	return value, ok
}

func (s *MemoryStore[V]) Put(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.items[key] = value
}

func (s *MemoryStore[V]) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[key]
	return ok
}

func (s *MemoryStore[V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make([]V, 0, len(s.keys))
	for _, key := range s.keys {
		values = append(values, s.items[key])
	}
	return values
}
