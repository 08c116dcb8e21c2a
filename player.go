package main

const (
	PlayerRadius     = 18.0
	PlayerMaxHP      = 100
	PlayerBaseSpeed  = 170.0 // units/s before skill bonuses
	PlayerAccel      = 900.0 // units/s² toward the input direction
	PlayerFriction   = 0.90  // velocity multiplier per tick
	PlayerRespawn    = 5.0   // seconds before respawn
	StartingGold     = 20
	ShieldReduction  = 0.25 // damage reduction while the shield buff is up
	MaxDamageReduce  = 0.5  // armor + shield cap
	PickupReach      = 26.0 // collection proximity
	SafeZoneRegenPS  = 4.0  // hp/s inside a shop safe zone
	BountyStreakMin  = 3    // kill streak that flags a bounty
	BountyGoldMin    = 250  // carried gold that flags a bounty
	RespawnLossFrac  = 0.25 // fraction of gold lost when respawning
	GoldStealFrac    = 0.25 // fraction of victim gold transferred on a kill
	BountyBonusGold  = 40
	GoldDropChance   = 0.6 // chance the respawn loss spawns a pickup
)

// Player is one match slot. Slots are stable for the match lifetime;
// ID is the slot index. Owned exclusively by its MatchInstance.
type Player struct {
	ID        int // stable slot index, 0..N-1
	Name      string
	Human     bool
	Connected bool // false once the owning peer disconnects

	X, Y   float64
	VX, VY float64
	Facing float64

	HP, MaxHP int
	Gold      int
	Alive     bool
	RespawnT  float64

	Weapon     string
	Bow        string // "" until bought
	Armor      string
	ActiveSlot int // 0 = melee, 1 = bow

	Consumables map[string]int
	Skills      map[string]int

	AttackCD   float64
	ShieldT    float64 // shield buff seconds remaining
	KillStreak int
	Kills      int // match-lifetime totals, persisted for accounts
	Deaths     int
	Bounty     bool
	regenAcc   float64 // fractional hp carried between ticks

	// Latest movement intent, applied during the movement phase
	moveX, moveY float64
}

// NewPlayer creates a player for a slot at a spawn point
func NewPlayer(slot int, name string, human bool, spawn Point) *Player {
	return &Player{
		ID:          slot,
		Name:        name,
		Human:       human,
		Connected:   human,
		X:           spawn.X,
		Y:           spawn.Y,
		HP:          PlayerMaxHP,
		MaxHP:       PlayerMaxHP,
		Gold:        StartingGold,
		Alive:       true,
		Weapon:      "fists",
		Armor:       "cloth",
		Consumables: make(map[string]int),
		Skills:      make(map[string]int),
	}
}

// MoveSpeed is the base speed plus swiftness levels, before terrain
func (p *Player) MoveSpeed() float64 {
	speed := PlayerBaseSpeed
	if lvl := p.Skills["swiftness"]; lvl > 0 {
		speed += SkillByID["swiftness"].SpeedBonus * float64(lvl)
	}
	return speed
}

// DamageReduction sums armor and the shield buff, capped at MaxDamageReduce
func (p *Player) DamageReduction() float64 {
	r := ArmorByID[p.Armor].Reduction
	if p.ShieldT > 0 {
		r += ShieldReduction
	}
	return Clamp(r, 0, MaxDamageReduce)
}

// TakeDamage applies already-reduced damage and reports death
func (p *Player) TakeDamage(dmg int) bool {
	if !p.Alive {
		return false
	}
	p.HP -= dmg
	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
		p.RespawnT = PlayerRespawn
		return true
	}
	return false
}

// Heal restores hp up to the max
func (p *Player) Heal(amount int) {
	if !p.Alive {
		return
	}
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

// Respawn revives the player at a spawn point with full hp
func (p *Player) Respawn(spawn Point) {
	p.X = spawn.X
	p.Y = spawn.Y
	p.VX = 0
	p.VY = 0
	p.HP = p.MaxHP
	p.Alive = true
	p.RespawnT = 0
	p.AttackCD = 0
	p.ShieldT = 0
}

// applyMaxHPSkill recomputes max hp from the vitality level, preserving
// the current damage taken
func (p *Player) applyMaxHPSkill() {
	lost := p.MaxHP - p.HP
	p.MaxHP = PlayerMaxHP + SkillByID["vitality"].MaxHPBonus*p.Skills["vitality"]
	p.HP = p.MaxHP - lost
	if p.HP < 1 && p.Alive {
		p.HP = 1
	}
}

// RegenRate is passive hp/s from the recovery skill
func (p *Player) RegenRate() float64 {
	return SkillByID["recovery"].RegenBonus * float64(p.Skills["recovery"])
}

// CurrentWeapon resolves the melee weapon definition
func (p *Player) CurrentWeapon() WeaponDef {
	return WeaponByID[p.Weapon]
}

// CurrentBow resolves the bow definition; ok is false when none is owned
func (p *Player) CurrentBow() (BowDef, bool) {
	if p.Bow == "" {
		return BowDef{}, false
	}
	b, ok := BowByID[p.Bow]
	return b, ok
}

// ToState converts to the snapshot representation
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:      p.ID,
		Name:    p.Name,
		X:       round1(p.X),
		Y:       round1(p.Y),
		VX:      round1(p.VX),
		VY:      round1(p.VY),
		HP:      p.HP,
		MaxHP:   p.MaxHP,
		Gold:    p.Gold,
		Alive:   p.Alive,
		Respawn: round1(p.RespawnT),
		Weapon:  p.Weapon,
		Bow:     p.Bow,
		Armor:   p.Armor,
		Slot:    p.ActiveSlot,
		Streak:  p.KillStreak,
		Bounty:  p.Bounty,
		Shield:  round1(p.ShieldT),
		Potions: p.Consumables,
		Skills:  p.Skills,
	}
}
