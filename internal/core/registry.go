package core

import "sync"

// Registry is the single source of truth for who is online: a mapping from
// connection ID to authenticated username. A connection ID appears at most
// once; a username may appear multiple times when the same user is logged
// in from several connections.
type Registry struct {
	mu      sync.RWMutex
	byConn  map[string]string
	order   []string // connection IDs in insertion order
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]string),
	}
}

// Put records or overwrites the username bound to a connection.
func (r *Registry) Put(connID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byConn[connID]; !exists {
		r.order = append(r.order, connID)
	}
	r.byConn[connID] = username
}

// Remove deletes the mapping for a connection. Removing an absent
// connection is not an error.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byConn[connID]; !exists {
		return
	}
	delete(r.byConn, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Values returns the online usernames in insertion order. Duplicates are
// preserved.
func (r *Registry) Values() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make([]string, 0, len(r.order))
	for _, id := range r.order {
		values = append(values, r.byConn[id])
	}
	return values
}

// Len returns the number of authenticated connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
