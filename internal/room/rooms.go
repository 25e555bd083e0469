// Package room tracks which connections are subscribed to which group rooms.
// Membership here is transport-level subscription only; whether an identity
// may join a room is validated by the caller against persisted group state.
package room

import (
	"sync"
)

// Manager maps room id → subscribed connection ids, with a reverse index so
// that cleaning up a disconnecting connection costs O(rooms it joined), not
// O(all rooms). Stale subscriptions cause ghost or missed broadcasts, so
// every mutation keeps both indexes in step under one lock hold.
type Manager struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]struct{} // roomID → connID set
	byConn map[string]map[string]struct{} // connID → roomID set
}

func NewManager() *Manager {
	return &Manager{
		rooms:  make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Join subscribes a connection to a room. Idempotent.
func (m *Manager) Join(roomID, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.rooms[roomID]
	if !ok {
		set = make(map[string]struct{})
		m.rooms[roomID] = set
	}
	set[connID] = struct{}{}

	rset, ok := m.byConn[connID]
	if !ok {
		rset = make(map[string]struct{})
		m.byConn[connID] = rset
	}
	rset[roomID] = struct{}{}
}

// Leave unsubscribes a connection from one room, deleting empty sets in the
// same critical section.
func (m *Manager) Leave(roomID, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveLocked(roomID, connID)
}

func (m *Manager) leaveLocked(roomID, connID string) {
	if set, ok := m.rooms[roomID]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(m.rooms, roomID)
		}
	}
	if rset, ok := m.byConn[connID]; ok {
		delete(rset, roomID)
		if len(rset) == 0 {
			delete(m.byConn, connID)
		}
	}
}

// DropConn removes the connection from every room it joined. Called on
// disconnect.
func (m *Manager) DropConn(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for roomID := range m.byConn[connID] {
		m.leaveLocked(roomID, connID)
	}
}

// MembersOf returns a snapshot of the connection ids subscribed to a room.
func (m *Manager) MembersOf(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.rooms[roomID]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for connID := range set {
		out = append(out, connID)
	}
	return out
}

// RoomsOf returns a snapshot of the rooms a connection is subscribed to.
func (m *Manager) RoomsOf(connID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.byConn[connID]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for roomID := range set {
		out = append(out, roomID)
	}
	return out
}
