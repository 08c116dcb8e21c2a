package main

import (
	"math/rand"
	"sync"
)

const (
	LobbyMinPlayers     = 2
	LobbyBroadcastEvery = 1.0 // seconds between lobby_update messages
)

// LobbyCountdown is the seconds from reaching the minimum to match
// start. Variable so tests can shorten it.
var LobbyCountdown = 10.0

// LobbyPeer is a waiting peer snapshot handed to a new match
type LobbyPeer struct {
	ID   string
	Name string
}

// LobbyCoordinator tracks waiting peers and runs the pre-match countdown.
// Tick is driven by the server loop; Join/Leave are called from
// connection goroutines, hence the mutex.
type LobbyCoordinator struct {
	mu        sync.Mutex
	waiting   map[string]string // peerID -> display name
	countdown float64
	mapName   string
	seed      int64
	rng       *rand.Rand

	broadcastAcc float64
}

// NewLobbyCoordinator creates a lobby and rolls the first map/seed
func NewLobbyCoordinator(seed int64) *LobbyCoordinator {
	l := &LobbyCoordinator{
		waiting:   make(map[string]string),
		countdown: LobbyCountdown,
		rng:       rand.New(rand.NewSource(seed)),
	}
	l.rollNextRound()
	return l
}

func (l *LobbyCoordinator) rollNextRound() {
	l.mapName = MapNames[l.rng.Intn(len(MapNames))]
	l.seed = l.rng.Int63()
	l.countdown = LobbyCountdown
}

// Join adds a waiting peer. Joining twice, or while routed to a match,
// is a silent no-op (the router enforces the latter; this guards the set).
func (l *LobbyCoordinator) Join(peerID, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.waiting[peerID]; ok {
		return
	}
	l.waiting[peerID] = name
}

// Leave removes a waiting peer
func (l *LobbyCoordinator) Leave(peerID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.waiting, peerID)
}

// WaitingCount returns the current waiting set size
func (l *LobbyCoordinator) WaitingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.waiting)
}

// Tick advances the countdown. When it expires up to MatchSlots waiting
// peers are taken atomically as the new match's peers; overflow peers
// stay waiting for the following round, which gets a fresh map/seed.
// The second return is a lobby_update to broadcast, nil between
// intervals.
func (l *LobbyCoordinator) Tick(dt float64) ([]LobbyPeer, string, int64, *LobbyUpdate) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.waiting) < LobbyMinPlayers {
		// Below minimum: countdown resets to full
		l.countdown = LobbyCountdown
	} else {
		l.countdown -= dt
	}

	var started []LobbyPeer
	mapName, seed := l.mapName, l.seed
	if l.countdown <= 0 {
		started = make([]LobbyPeer, 0, MatchSlots)
		for id, name := range l.waiting {
			if len(started) == MatchSlots {
				break
			}
			started = append(started, LobbyPeer{ID: id, Name: name})
			delete(l.waiting, id)
		}
		l.rollNextRound()
	}

	var update *LobbyUpdate
	l.broadcastAcc += dt
	if l.broadcastAcc >= LobbyBroadcastEvery {
		l.broadcastAcc -= LobbyBroadcastEvery
		cd := l.countdown
		if len(l.waiting) < LobbyMinPlayers {
			cd = -1
		}
		update = &LobbyUpdate{
			Count:     len(l.waiting),
			Countdown: round1(cd),
			Map:       l.mapName,
		}
	}
	return started, mapName, seed, update
}
