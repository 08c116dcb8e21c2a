package main

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Sender delivers outbound frames to a peer's connection. Text frames
// carry JSON envelopes, binary frames carry msgpack snapshots. Sends to
// unknown or closed peers are dropped.
type Sender interface {
	SendTo(peerID string, env Envelope)
	SendBinaryTo(peerID string, data []byte)
}

// AccountResolver maps a live peer to its authenticated account, 0 for
// guests. Implemented by the hub.
type AccountResolver interface {
	AccountID(peerID string) int64
}

// ServerLoop is the single goroutine that advances all game state. Each
// fixed tick it steps the lobby, spins up matches for started rounds,
// steps every live match in sequence, fans out snapshots and events, and
// reaps completed matches back into the lobby. Because everything here
// runs on one goroutine, no two matches ever mutate shared state
// concurrently.
type ServerLoop struct {
	router   *PeerRouter
	lobby    *LobbyCoordinator
	sender   Sender
	accounts AccountResolver
	board    *Leaderboard
	db       *Database // nil when persistence is unavailable
	log      zerolog.Logger

	mu      sync.RWMutex
	matches map[string]*MatchInstance
}

func NewServerLoop(router *PeerRouter, lobby *LobbyCoordinator, sender Sender, accounts AccountResolver, board *Leaderboard, db *Database, log zerolog.Logger) *ServerLoop {
	return &ServerLoop{
		router:   router,
		lobby:    lobby,
		sender:   sender,
		accounts: accounts,
		board:    board,
		db:       db,
		log:      log.With().Str("component", "loop").Logger(),
		matches:  make(map[string]*MatchInstance),
	}
}

// Match looks up a live match by ID for command routing.
func (sl *ServerLoop) Match(id string) (*MatchInstance, bool) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	m, ok := sl.matches[id]
	return m, ok
}

// MatchCount reports live matches, for the health endpoint.
func (sl *ServerLoop) MatchCount() int {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return len(sl.matches)
}

// Run drives the fixed-rate tick until the context is cancelled.
func (sl *ServerLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()
	dt := TickDuration.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sl.step(dt)
		}
	}
}

func (sl *ServerLoop) step(dt float64) {
	started, mapName, seed, update := sl.lobby.Tick(dt)
	if len(started) > 0 {
		sl.startMatch(started, mapName, seed)
	}
	if update != nil {
		env := Envelope{T: MsgLobbyUpdate, Data: update}
		for _, peerID := range sl.router.LobbyPeers() {
			sl.sender.SendTo(peerID, env)
		}
	}

	sl.mu.Lock()
	matches := make([]*MatchInstance, 0, len(sl.matches))
	for _, m := range sl.matches {
		matches = append(matches, m)
	}
	sl.mu.Unlock()

	for _, m := range matches {
		if m.Done() {
			if m.TickGrace(dt) {
				sl.reap(m)
			}
			continue
		}
		snap, events := m.Tick(dt)
		peers := m.PeerIDs()
		for _, ev := range events {
			env := Envelope{T: MsgEvent, Data: ev}
			for _, peerID := range peers {
				sl.sender.SendTo(peerID, env)
			}
		}
		if snap != nil {
			data, err := msgpack.Marshal(snap)
			if err != nil {
				sl.log.Error().Err(err).Str("match", m.ID).Msg("snapshot encode failed")
				continue
			}
			for _, peerID := range peers {
				sl.sender.SendBinaryTo(peerID, data)
			}
		}
	}
}

func (sl *ServerLoop) startMatch(peers []LobbyPeer, mapName string, seed int64) {
	id := uuid.NewString()
	m := NewMatchInstance(id, seed, mapName, peers, sl.log)

	sl.mu.Lock()
	sl.matches[id] = m
	sl.mu.Unlock()

	ids := make([]string, len(peers))
	for i, p := range peers {
		ids[i] = p.ID
	}
	sl.router.MoveToMatch(ids, id)

	for _, p := range peers {
		sl.sender.SendTo(p.ID, Envelope{T: MsgMatchStart, Data: MatchStart{
			MatchID: id,
			Seed:    seed,
			Map:     mapName,
			Slot:    m.SlotOf(p.ID),
			Humans:  len(peers),
		}})
	}
}

// reap tears a completed match down after its grace period, persists the
// result, and returns surviving peers to the lobby.
func (sl *ServerLoop) reap(m *MatchInstance) {
	peers := m.PeerIDs()

	if !m.Abandoned() && m.Winner() >= 0 {
		entry := LeaderboardEntry{
			Name:   m.WinnerName(),
			Map:    m.MapName,
			Humans: len(peers),
			When:   time.Now().UTC(),
		}
		if err := sl.board.Record(entry); err != nil {
			sl.log.Error().Err(err).Str("match", m.ID).Msg("leaderboard write failed")
		}
		sl.persistResults(m, peers)
	}

	for _, peerID := range peers {
		if !sl.router.AssignToLobby(peerID) {
			continue // disconnected since the peer list was taken
		}
		res, _ := m.ResultFor(peerID)
		sl.sender.SendTo(peerID, Envelope{T: MsgReturnToLobby, Data: nil})
		sl.lobby.Join(peerID, res.Name)
	}

	sl.mu.Lock()
	delete(sl.matches, m.ID)
	sl.mu.Unlock()
	sl.log.Info().Str("match", m.ID).Bool("abandoned", m.Abandoned()).Msg("match reaped")
}

func (sl *ServerLoop) persistResults(m *MatchInstance, peers []string) {
	if sl.db == nil {
		return
	}
	for _, peerID := range peers {
		accountID := sl.accounts.AccountID(peerID)
		if accountID == 0 {
			continue
		}
		res, ok := m.ResultFor(peerID)
		if !ok {
			continue
		}
		if err := sl.db.RecordMatch(accountID, res.Kills, res.Deaths, res.Gold, res.Won); err != nil {
			sl.log.Error().Err(err).Int64("account", accountID).Msg("stats write failed")
		}
	}
}
