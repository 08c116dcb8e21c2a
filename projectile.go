package main

import "math"

const (
	ProjectileRadius = 5.0
	ProjectileOffset = 24.0 // spawn distance from the shooter's center
)

// Projectile is a transient arrow fired from a bow. It dies on hit,
// timeout, or leaving the arena.
type Projectile struct {
	ID        string
	OwnerSlot int // player slot that fired it
	X, Y      float64
	VX, VY    float64
	Damage    int
	Knockback float64
	Life      float64
	Alive     bool
}

// NewProjectile creates an arrow from a shooter's position toward a direction
func NewProjectile(id string, owner *Player, bow BowDef, dirX, dirY float64) *Projectile {
	ang := math.Atan2(dirY, dirX)
	return &Projectile{
		ID:        id,
		OwnerSlot: owner.ID,
		X:         owner.X + math.Cos(ang)*ProjectileOffset,
		Y:         owner.Y + math.Sin(ang)*ProjectileOffset,
		VX:        math.Cos(ang) * bow.ProjSpeed,
		VY:        math.Sin(ang) * bow.ProjSpeed,
		Damage:    bow.Damage,
		Knockback: 80,
		Life:      bow.Lifetime,
		Alive:     true,
	}
}

// Step integrates the projectile; expiry and bounds kill it
func (p *Projectile) Step(dt, worldW, worldH float64) {
	if !p.Alive {
		return
	}
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Life -= dt
	if p.Life <= 0 || p.X < 0 || p.Y < 0 || p.X > worldW || p.Y > worldH {
		p.Alive = false
	}
}

// ToState converts to the snapshot representation
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:    p.ID,
		X:     round1(p.X),
		Y:     round1(p.Y),
		VX:    round1(p.VX),
		VY:    round1(p.VY),
		Owner: p.OwnerSlot,
	}
}
