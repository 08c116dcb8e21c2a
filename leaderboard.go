package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const leaderboardCap = 50

// LeaderboardEntry is one recorded match win.
type LeaderboardEntry struct {
	Name   string    `json:"name"`
	Map    string    `json:"map"`
	Humans int       `json:"humans"`
	When   time.Time `json:"when"`
}

// Leaderboard persists recent match winners to a JSON file. Writes go to
// a temp file first and rename into place, so a crash mid-write never
// leaves a truncated file. A missing or corrupt file reads as empty;
// persistence failures are logged by the caller and never stop a match.
type Leaderboard struct {
	mu      sync.Mutex
	path    string
	entries []LeaderboardEntry
}

func NewLeaderboard(path string) *Leaderboard {
	lb := &Leaderboard{path: path}
	lb.entries = lb.load()
	return lb
}

func (lb *Leaderboard) load() []LeaderboardEntry {
	data, err := os.ReadFile(lb.path)
	if err != nil {
		return nil
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

// Record prepends a winner and trims to the newest leaderboardCap entries.
func (lb *Leaderboard) Record(entry LeaderboardEntry) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.entries = append([]LeaderboardEntry{entry}, lb.entries...)
	if len(lb.entries) > leaderboardCap {
		lb.entries = lb.entries[:leaderboardCap]
	}
	return lb.save()
}

func (lb *Leaderboard) save() error {
	data, err := json.MarshalIndent(lb.entries, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(lb.path), ".leaderboard-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), lb.path)
}

// Entries returns a copy of the current standings, newest first.
func (lb *Leaderboard) Entries() []LeaderboardEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	out := make([]LeaderboardEntry, len(lb.entries))
	copy(out, lb.entries)
	return out
}
