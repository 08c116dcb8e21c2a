package main

const PickupTimeout = 30.0 // seconds before an uncollected pickup despawns

// Pickup kinds
const (
	PickupGold   = "gold"
	PickupPotion = "potion"
)

// Pickup is a collectible dropped by kills or rare-drop rolls
type Pickup struct {
	ID     string
	Kind   string
	X, Y   float64
	Amount int // gold value, or potion count for potion drops
	Life   float64
	Alive  bool
}

// NewPickup creates a pickup at a position
func NewPickup(id, kind string, x, y float64, amount int) *Pickup {
	return &Pickup{
		ID:     id,
		Kind:   kind,
		X:      x,
		Y:      y,
		Amount: amount,
		Life:   PickupTimeout,
		Alive:  true,
	}
}

// Step ticks the despawn countdown
func (p *Pickup) Step(dt float64) {
	if !p.Alive {
		return
	}
	p.Life -= dt
	if p.Life <= 0 {
		p.Alive = false
	}
}

// ToState converts to the snapshot representation
func (p *Pickup) ToState() PickupState {
	return PickupState{
		ID:     p.ID,
		Kind:   p.Kind,
		X:      round1(p.X),
		Y:      round1(p.Y),
		Amount: p.Amount,
	}
}
