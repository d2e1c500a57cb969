package orchestrator

import "sync"

// lockRegistry hands out one mutex per debate identifier so that the
// read-modify-write sequences in ConductTurn and Adjudicate are serialized
// per debate. Locks are never evicted; the registry grows by one mutex per
// debate seen, which is bounded by the store's lifetime.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{
		locks: make(map[string]*sync.Mutex),
	}
}

// lock acquires the mutex for the given identifier and returns the matching
// release function.
func (r *lockRegistry) lock(id string) func() {
	r.mu.Lock()
	m, ok := r.locks[id]
	if !ok {
		m = &sync.Mutex{}
		r.locks[id] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}
