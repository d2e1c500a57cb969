package debate

import (
	"context"
	"fmt"
	"sync"
)

// Store is the record store contract for debates. Both implementations hand
// out clones; mutations become durable only through Update. Update performs
// no existence check - callers are responsible for loading before writing.
type Store interface {
	// Create inserts a new debate. The identifier is assumed fresh.
	Create(ctx context.Context, d *Debate) error

	// Get retrieves a debate by ID. Returns ErrNotFound (check with
	// IsNotFound) when no record exists.
	Get(ctx context.Context, id string) (*Debate, error)

	// Update overwrites the record for the debate's identifier.
	Update(ctx context.Context, d *Debate) error

	// List returns a snapshot of all current debates in insertion order.
	List(ctx context.Context) ([]*Debate, error)

	// Delete removes a debate. Idempotent; reports whether a record was
	// removed.
	Delete(ctx context.Context, id string) (bool, error)

	// Ping verifies the store is reachable. Useful for health checks.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store. Implements io.Closer.
	Close() error
}

// MemoryStore is the default volatile store: a map guarded by a RWMutex.
// The mutex makes individual operations safe under concurrent access; it
// does not make read-modify-write sequences atomic. Serializing mutation of
// a single debate is the caller's job.
type MemoryStore struct {
	mu      sync.RWMutex
	debates map[string]*Debate
	order   []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		debates: make(map[string]*Debate),
	}
}

// Create inserts a new debate.
func (s *MemoryStore) Create(ctx context.Context, d *Debate) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid debate: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.debates[d.ID]; !exists {
		s.order = append(s.order, d.ID)
	}
	s.debates[d.ID] = d.Clone()
	return nil
}

// Get retrieves a clone of the debate, or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Debate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.debates[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.Clone(), nil
}

// Update overwrites the stored record. No existence check: a debate deleted
// between Get and Update is silently recreated, which is the documented
// last-write-wins behaviour.
func (s *MemoryStore) Update(ctx context.Context, d *Debate) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid debate: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.debates[d.ID]; !exists {
		s.order = append(s.order, d.ID)
	}
	s.debates[d.ID] = d.Clone()
	return nil
}

// List returns clones of all debates in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]*Debate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Debate, 0, len(s.debates))
	for _, id := range s.order {
		if d, ok := s.debates[id]; ok {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

// Delete removes a debate, reporting whether a record existed.
func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.debates[id]; !ok {
		return false, nil
	}
	delete(s.debates, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
