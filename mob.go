package main

import (
	"math"
	"math/rand"
)

// MobDef holds the per-type stats. Spawn zones reference types by id.
type MobDef struct {
	Type         string
	MaxHP        int
	Speed        float64
	Damage       int
	AttackRange  float64
	AttackCD     float64
	AggroRange   float64
	LeashRange   float64 // max distance from origin before returning home
	Radius       float64
	GoldDrop     int     // base gold pickup on death
	RareChance   float64 // chance of an extra rare drop
	RespawnDelay float64 // seconds in the respawn queue
}

var MobDefs = map[string]MobDef{
	"slime": {
		Type: "slime", MaxHP: 30, Speed: 70, Damage: 6,
		AttackRange: 30, AttackCD: 1.2, AggroRange: 180, LeashRange: 320,
		Radius: 14, GoldDrop: 6, RareChance: 0.04, RespawnDelay: 8,
	},
	"wolf": {
		Type: "wolf", MaxHP: 55, Speed: 140, Damage: 11,
		AttackRange: 34, AttackCD: 1.0, AggroRange: 260, LeashRange: 420,
		Radius: 16, GoldDrop: 14, RareChance: 0.08, RespawnDelay: 12,
	},
	"brute": {
		Type: "brute", MaxHP: 140, Speed: 90, Damage: 22,
		AttackRange: 44, AttackCD: 1.6, AggroRange: 220, LeashRange: 380,
		Radius: 24, GoldDrop: 45, RareChance: 0.2, RespawnDelay: 20,
	},
}

const mobWanderDrift = 0.9 // max radians/s the wander heading changes

// Mob is an AI-driven neutral enemy anchored to its spawn origin
type Mob struct {
	ID     string
	Type   string
	X, Y   float64
	VX, VY float64

	HP, MaxHP int
	Alive     bool

	OriginX, OriginY float64 // spawn origin for leash and respawn
	TargetSlot       int     // player slot being chased, -1 when none
	AttackCD         float64
	WanderAngle      float64
	returning        bool // heading home after leashing
}

// NewMob spawns a mob of the given type at a position
func NewMob(id, mobType string, x, y float64) *Mob {
	def := MobDefs[mobType]
	return &Mob{
		ID:         id,
		Type:       mobType,
		X:          x,
		Y:          y,
		HP:         def.MaxHP,
		MaxHP:      def.MaxHP,
		Alive:      true,
		OriginX:    x,
		OriginY:    y,
		TargetSlot: -1,
	}
}

// Def resolves the static stats for this mob
func (m *Mob) Def() MobDef { return MobDefs[m.Type] }

// Step re-evaluates target acquisition, leash, and wander, then moves.
// Returns the slot of a player to attack this tick, or -1.
func (m *Mob) Step(dt float64, players []*Player, rng *rand.Rand) int {
	if !m.Alive {
		return -1
	}
	def := m.Def()

	if m.AttackCD > 0 {
		m.AttackCD -= dt
	}

	// Leash: past the leash range, drop the target and return home
	if Distance(m.X, m.Y, m.OriginX, m.OriginY) > def.LeashRange {
		m.TargetSlot = -1
		m.returning = true
	}
	if m.returning && Distance(m.X, m.Y, m.OriginX, m.OriginY) < 30 {
		m.returning = false
	}

	// Target acquisition: nearest living player in aggro range
	if !m.returning {
		best := -1
		bestD2 := def.AggroRange * def.AggroRange
		for _, p := range players {
			if !p.Alive {
				continue
			}
			d2 := DistanceSq(m.X, m.Y, p.X, p.Y)
			if d2 < bestD2 {
				bestD2 = d2
				best = p.ID
			}
		}
		m.TargetSlot = best
	}

	var dirX, dirY float64
	attack := -1
	switch {
	case m.returning:
		dirX, dirY = Normalize(m.OriginX-m.X, m.OriginY-m.Y)
	case m.TargetSlot >= 0:
		t := players[m.TargetSlot]
		d := Distance(m.X, m.Y, t.X, t.Y)
		if d <= def.AttackRange {
			if m.AttackCD <= 0 {
				attack = m.TargetSlot
				m.AttackCD = def.AttackCD
			}
		} else {
			dirX, dirY = Normalize(t.X-m.X, t.Y-m.Y)
		}
	default:
		// Wander: drift the heading, stay loosely near the origin
		m.WanderAngle += (rng.Float64()*2 - 1) * mobWanderDrift * dt
		homeX, homeY := m.OriginX-m.X, m.OriginY-m.Y
		if Distance(m.X, m.Y, m.OriginX, m.OriginY) > def.LeashRange*0.6 {
			m.WanderAngle = math.Atan2(homeY, homeX)
		}
		dirX = math.Cos(m.WanderAngle) * 0.4
		dirY = math.Sin(m.WanderAngle) * 0.4
	}

	m.VX = dirX * def.Speed
	m.VY = dirY * def.Speed
	m.X += m.VX * dt
	m.Y += m.VY * dt
	return attack
}

// TakeDamage reduces hp and reports death
func (m *Mob) TakeDamage(dmg int) bool {
	if !m.Alive {
		return false
	}
	m.HP -= dmg
	if m.HP <= 0 {
		m.HP = 0
		m.Alive = false
		return true
	}
	return false
}

// Knockback shoves the mob along a direction
func (m *Mob) Knockback(dirX, dirY, impulse float64) {
	m.X += dirX * impulse * 0.1
	m.Y += dirY * impulse * 0.1
}

// ToState converts to the snapshot representation
func (m *Mob) ToState() MobState {
	return MobState{
		ID:    m.ID,
		Type:  m.Type,
		X:     round1(m.X),
		Y:     round1(m.Y),
		HP:    m.HP,
		MaxHP: m.MaxHP,
	}
}
