package main

import "sync"

// RouteKind says where a peer's commands go
type RouteKind int

const (
	RouteNone RouteKind = iota // connected, not yet anywhere
	RouteLobby
	RouteMatch
)

// Route is a peer's current command target
type Route struct {
	Kind    RouteKind
	MatchID string // set when Kind == RouteMatch
}

// PeerRouter is the single source of truth for the peer <-> match mapping.
// Every write goes through this API; other components only read. Routing
// is idempotent: Route returns the same target until a state change.
type PeerRouter struct {
	mu     sync.RWMutex
	routes map[string]Route
}

// NewPeerRouter creates an empty router
func NewPeerRouter() *PeerRouter {
	return &PeerRouter{routes: make(map[string]Route)}
}

// Register adds a freshly connected peer with no target
func (r *PeerRouter) Register(peerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[peerID] = Route{Kind: RouteNone}
}

// AssignToLobby routes a peer to the lobby. It reports whether the peer
// is still connected, so callers never enroll a released peer.
func (r *PeerRouter) AssignToLobby(peerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routes[peerID]; !ok {
		return false
	}
	r.routes[peerID] = Route{Kind: RouteLobby}
	return true
}

// MoveToMatch atomically routes a peer set into a match
func (r *PeerRouter) MoveToMatch(peerIDs []string, matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range peerIDs {
		if _, ok := r.routes[id]; !ok {
			continue // disconnected between snapshot and move
		}
		r.routes[id] = Route{Kind: RouteMatch, MatchID: matchID}
	}
}

// Route resolves a peer's current target. Unknown peers get RouteNone.
func (r *PeerRouter) Route(peerID string) Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.routes[peerID]
}

// Release removes a peer entirely and returns the route it held, so the
// caller can notify the owning lobby or match.
func (r *PeerRouter) Release(peerID string) Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.routes[peerID]
	delete(r.routes, peerID)
	return prev
}

// LobbyPeers returns every peer currently routed to the lobby
func (r *PeerRouter) LobbyPeers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for id, route := range r.routes {
		if route.Kind == RouteLobby {
			ids = append(ids, id)
		}
	}
	return ids
}
