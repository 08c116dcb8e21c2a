package main

import (
	"fmt"
	"math/rand"
)

// MobRespawn is a queued mob revival carrying the dead mob's type/origin
type MobRespawn struct {
	Type string
	X, Y float64
	T    float64 // countdown seconds
}

// EntitySet owns every entity of one match. Entity ids are drawn from a
// monotonic counter and never reused while the match is alive.
type EntitySet struct {
	Players     []*Player
	Mobs        map[string]*Mob
	Projectiles map[string]*Projectile
	Pickups     map[string]*Pickup
	Hill        *Hill
	Shops       []Shop

	RespawnQueue []MobRespawn

	nextID uint64
}

// NewEntitySet builds the starting entities from a map's spawn data
func NewEntitySet(terrain TerrainProvider, rng *rand.Rand) *EntitySet {
	sp := terrain.SpawnPoints()
	set := &EntitySet{
		Mobs:        make(map[string]*Mob),
		Projectiles: make(map[string]*Projectile),
		Pickups:     make(map[string]*Pickup),
		Hill:        NewHill(sp.Hill),
	}
	for i, s := range sp.Shops {
		set.Shops = append(set.Shops, Shop{ID: i, X: s.X, Y: s.Y})
	}
	for _, zone := range sp.MobZones {
		for i := 0; i < zone.Count; i++ {
			x := zone.Pos.X + (rng.Float64()*2-1)*zone.Radius
			y := zone.Pos.Y + (rng.Float64()*2-1)*zone.Radius
			set.SpawnMob(zone.MobType, x, y)
		}
	}
	return set
}

func (s *EntitySet) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s%d", prefix, s.nextID)
}

// AddPlayer appends a player at the next slot index
func (s *EntitySet) AddPlayer(name string, human bool, spawn Point) *Player {
	p := NewPlayer(len(s.Players), name, human, spawn)
	s.Players = append(s.Players, p)
	return p
}

// PlayerBySlot returns the player for a slot, or nil for out-of-range slots
func (s *EntitySet) PlayerBySlot(slot int) *Player {
	if slot < 0 || slot >= len(s.Players) {
		return nil
	}
	return s.Players[slot]
}

// SpawnMob creates a living mob of the given type
func (s *EntitySet) SpawnMob(mobType string, x, y float64) *Mob {
	m := NewMob(s.newID("m"), mobType, x, y)
	s.Mobs[m.ID] = m
	return m
}

// QueueMobRespawn schedules a dead mob's replacement at its origin
func (s *EntitySet) QueueMobRespawn(m *Mob) {
	s.RespawnQueue = append(s.RespawnQueue, MobRespawn{
		Type: m.Type,
		X:    m.OriginX,
		Y:    m.OriginY,
		T:    m.Def().RespawnDelay,
	})
}

// SpawnProjectile creates an arrow for a shooter
func (s *EntitySet) SpawnProjectile(owner *Player, bow BowDef, dirX, dirY float64) *Projectile {
	p := NewProjectile(s.newID("a"), owner, bow, dirX, dirY)
	s.Projectiles[p.ID] = p
	return p
}

// SpawnPickup creates a collectible at a position
func (s *EntitySet) SpawnPickup(kind string, x, y float64, amount int) *Pickup {
	p := NewPickup(s.newID("k"), kind, x, y, amount)
	s.Pickups[p.ID] = p
	return p
}

// HillOccupants returns the living, non-safe-zone player slots inside
// the hill radius
func (s *EntitySet) HillOccupants() []int {
	var occ []int
	for _, p := range s.Players {
		if !p.Alive {
			continue
		}
		if InSafeZone(s.Shops, p.X, p.Y) {
			continue
		}
		if s.Hill.Contains(p.X, p.Y) {
			occ = append(occ, p.ID)
		}
	}
	return occ
}
