// Package tracking routes live position reports from the delivery partner of
// an order to every connection currently watching that order.
//
// The Registry owns subscription state. The Broadcaster validates and stores
// reports through the record-location use case, then fans events out to the
// registry's members through a Sender supplied by the transport.
package tracking

import (
	"sync"

	"tracking/internal/core/domain/model/kernel"
)

// ConnectionID identifies one live client connection.
type ConnectionID string

// Registry is a bidirectional index between connections and the orders they
// watch. Join, Leave and OnDisconnect are its only mutators; all operations are
// linearizable with respect to MembersOf.
type Registry struct {
	mu      sync.RWMutex
	byOrder map[kernel.UUID]map[ConnectionID]struct{}
	byConn  map[ConnectionID]map[kernel.UUID]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byOrder: make(map[kernel.UUID]map[ConnectionID]struct{}),
		byConn:  make(map[ConnectionID]map[kernel.UUID]struct{}),
	}
}

// Join subscribes conn to orderID. Joining twice is the same as joining once.
func (r *Registry) Join(conn ConnectionID, orderID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.byOrder[orderID]
	if !ok {
		members = make(map[ConnectionID]struct{})
		r.byOrder[orderID] = members
	}
	members[conn] = struct{}{}

	watched, ok := r.byConn[conn]
	if !ok {
		watched = make(map[kernel.UUID]struct{})
		r.byConn[conn] = watched
	}
	watched[orderID] = struct{}{}
}

// Leave removes one subscription. Leaving as a non-member is a no-op.
func (r *Registry) Leave(conn ConnectionID, orderID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(conn, orderID)
}

// OnDisconnect drops every subscription of conn and returns the orders it watched.
func (r *Registry) OnDisconnect(conn ConnectionID) []kernel.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	watched := r.byConn[conn]
	left := make([]kernel.UUID, 0, len(watched))
	for orderID := range watched {
		left = append(left, orderID)
		r.remove(conn, orderID)
	}
	return left
}

// MembersOf returns a snapshot of the connections watching orderID.
func (r *Registry) MembersOf(orderID kernel.UUID) []ConnectionID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.byOrder[orderID]
	out := make([]ConnectionID, 0, len(members))
	for conn := range members {
		out = append(out, conn)
	}
	return out
}

// WatchedBy returns the orders conn is subscribed to.
func (r *Registry) WatchedBy(conn ConnectionID) []kernel.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	watched := r.byConn[conn]
	out := make([]kernel.UUID, 0, len(watched))
	for orderID := range watched {
		out = append(out, orderID)
	}
	return out
}

// Size reports how many orders are watched and by how many connections.
func (r *Registry) Size() (orders, connections int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byOrder), len(r.byConn)
}

// remove expects r.mu to be held for writing. Empty inner sets are deleted so
// the maps do not grow with every order ever watched.
func (r *Registry) remove(conn ConnectionID, orderID kernel.UUID) {
	if members, ok := r.byOrder[orderID]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(r.byOrder, orderID)
		}
	}
	if watched, ok := r.byConn[conn]; ok {
		delete(watched, orderID)
		if len(watched) == 0 {
			delete(r.byConn, conn)
		}
	}
}
