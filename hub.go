package main

import (
	"sync"

	"github.com/rs/zerolog"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub owns the live connections and bridges them to the server loop. It
// implements Sender (fan-out by peer ID) and AccountResolver (peer to
// account mapping) for the loop, and routes disconnects to whichever
// side of the lobby/match split the peer was on.
type Hub struct {
	mu         sync.RWMutex
	peers      map[string]*Client
	register   chan *Client
	unregister chan *Client

	router *PeerRouter
	lobby  *LobbyCoordinator
	loop   *ServerLoop
	db     *Database
	auth   *Auth
	log    zerolog.Logger

	// connection limiting, touched from HTTP handlers
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	// authenticated accounts online: accountID -> peerID
	onlineMu    sync.RWMutex
	onlineUsers map[int64]string
}

func NewHub(router *PeerRouter, lobby *LobbyCoordinator, db *Database, log zerolog.Logger) *Hub {
	h := &Hub{
		peers:       make(map[string]*Client),
		register:    make(chan *Client, 64),
		unregister:  make(chan *Client, 64),
		router:      router,
		lobby:       lobby,
		db:          db,
		log:         log.With().Str("component", "hub").Logger(),
		ipConns:     make(map[string]int),
		onlineUsers: make(map[int64]string),
	}
	if db != nil {
		h.auth = NewAuth(db, log)
	}
	return h
}

// SetLoop wires the server loop in after construction. The loop needs
// the hub as its Sender, so the two cannot be built in one pass.
func (h *Hub) SetLoop(loop *ServerLoop) {
	h.loop = loop
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	return h.ipConns[ip] < maxConnsPerIP
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.peers[client.peerID] = client
			h.mu.Unlock()
			h.router.Register(client.peerID)
			h.router.AssignToLobby(client.peerID)
			client.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{PeerID: client.peerID}})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.peers[client.peerID]; ok {
				delete(h.peers, client.peerID)
				close(client.send)
			}
			h.mu.Unlock()
			h.dropPeer(client)
		}
	}
}

// dropPeer detaches a disconnected peer from whichever side it was on.
// The slot of a peer mid-match goes inert; the match itself keeps
// running unless it was the last human.
func (h *Hub) dropPeer(client *Client) {
	route := h.router.Release(client.peerID)
	switch route.Kind {
	case RouteLobby:
		h.lobby.Leave(client.peerID)
	case RouteMatch:
		if m, ok := h.loop.Match(route.MatchID); ok {
			m.RemovePeer(client.peerID)
		}
	}
	if client.accountID != 0 {
		h.SetOffline(client.accountID)
	}
	h.log.Debug().Str("peer", client.peerID).Msg("peer dropped")
}

// SendTo delivers a JSON envelope to one peer; unknown peers are dropped.
func (h *Hub) SendTo(peerID string, env Envelope) {
	h.mu.RLock()
	client := h.peers[peerID]
	h.mu.RUnlock()
	if client != nil {
		client.SendJSON(env)
	}
}

// SendBinaryTo delivers a binary frame to one peer.
func (h *Hub) SendBinaryTo(peerID string, data []byte) {
	h.mu.RLock()
	client := h.peers[peerID]
	h.mu.RUnlock()
	if client != nil {
		client.SendBinary(data)
	}
}

// AccountID maps a peer to its authenticated account, 0 for guests.
func (h *Hub) AccountID(peerID string) int64 {
	h.mu.RLock()
	client := h.peers[peerID]
	h.mu.RUnlock()
	if client == nil {
		return 0
	}
	return client.accountID
}

// SetOnline marks an account as online on a specific peer.
func (h *Hub) SetOnline(accountID int64, peerID string) {
	h.onlineMu.Lock()
	defer h.onlineMu.Unlock()
	h.onlineUsers[accountID] = peerID
}

func (h *Hub) SetOffline(accountID int64) {
	h.onlineMu.Lock()
	defer h.onlineMu.Unlock()
	delete(h.onlineUsers, accountID)
}

// IsOnline reports whether an account already has a live connection.
func (h *Hub) IsOnline(accountID int64) bool {
	h.onlineMu.RLock()
	defer h.onlineMu.RUnlock()
	_, ok := h.onlineUsers[accountID]
	return ok
}

// PeerCount returns the number of connected peers.
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}
