// Package session tracks which transport connections belong to which
// identity. One identity may hold many live connections (multi-device); the
// registry is the single source of truth for fan-out targets.
package session

import (
	"sync"
	"time"
)

// Conn is the minimal surface the registry needs from a live connection.
// The websocket gateway implements it; tests use lightweight fakes. Send must
// be safe to call from any goroutine and must not block the caller.
type Conn interface {
	ID() string
	Identity() string
	Send(event interface{}) bool
}

type entry struct {
	conn            Conn
	authenticatedAt time.Time
}

// Registry maps identity → live connections. It is constructed and injected,
// never package-global, so a broker-backed implementation can replace it
// behind the same interface.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[string]entry // identity → connID → entry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]map[string]entry)}
}

// Register binds a connection to its identity. Idempotent per connection id;
// re-registering replaces the prior entry. Returns true when this is the
// identity's first live connection (it just came online).
func (r *Registry) Register(identity string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[identity]
	if !ok {
		set = make(map[string]entry)
		r.conns[identity] = set
	}
	first := len(set) == 0
	set[conn.ID()] = entry{conn: conn, authenticatedAt: time.Now()}
	return first
}

// Unregister removes the connection and, when the identity's set empties,
// the identity entry itself. Both steps happen under one lock hold so a
// concurrent Register for the same identity can never be lost between "set
// became empty" and "delete identity". Returns true when the identity went
// offline (last connection removed).
func (r *Registry) Unregister(identity, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[identity]
	if !ok {
		return false
	}
	if _, ok := set[connID]; !ok {
		return false
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(r.conns, identity)
		return true
	}
	return false
}

// ConnectionsOf returns a snapshot of the identity's live connections.
func (r *Registry) ConnectionsOf(identity string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.conns[identity]
	if len(set) == 0 {
		return nil
	}
	out := make([]Conn, 0, len(set))
	for _, e := range set {
		out = append(out, e.conn)
	}
	return out
}

// IsOnline reports whether the identity has at least one live connection.
func (r *Registry) IsOnline(identity string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[identity]) > 0
}

// Identities returns every identity with at least one live connection.
func (r *Registry) Identities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.conns))
	for id := range r.conns {
		out = append(out, id)
	}
	return out
}

// Count returns the number of live connections across all identities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, set := range r.conns {
		n += len(set)
	}
	return n
}
