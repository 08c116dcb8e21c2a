package main

// Static item tables. The simulation only reads cost/tier/effect fields;
// nothing in the core ever mutates these.

// Equipment kinds
const (
	EquipWeapon = "weapon"
	EquipBow    = "bow"
	EquipArmor  = "armor"
)

// WeaponDef is a melee weapon
type WeaponDef struct {
	ID        string
	Name      string
	Tier      int
	Cost      int
	Damage    int
	Range     float64 // reach from attacker center
	Arc       float64 // full arc in radians, hits within half-arc of facing
	Knockback float64 // impulse applied to the target
	Cooldown  float64 // seconds between swings
}

// BowDef is a ranged weapon realized as projectiles
type BowDef struct {
	ID        string
	Name      string
	Tier      int
	Cost      int
	Damage    int
	ProjSpeed float64
	Lifetime  float64 // projectile seconds before expiry
	Cooldown  float64
}

// ArmorDef reduces incoming damage by a flat fraction
type ArmorDef struct {
	ID        string
	Name      string
	Tier      int
	Cost      int
	Reduction float64 // fraction of damage absorbed, pre-cap
}

// ConsumableDef is a stackable usable item
type ConsumableDef struct {
	ID       string
	Name     string
	Cost     int
	Heal     int     // hp restored on use (health potions)
	ShieldT  float64 // shield buff duration on use (shield potions)
	MaxStack int
}

// SkillDef is a passively leveled upgrade
type SkillDef struct {
	ID       string
	Name     string
	BaseCost int // cost of level 1; each level costs BaseCost * level
	MaxLevel int
	// Per-level effect magnitudes; the simulation reads whichever applies.
	MaxHPBonus int     // +max hp per level
	SpeedBonus float64 // +move speed per level
	RegenBonus float64 // +hp/s everywhere per level
}

var Weapons = []WeaponDef{
	{ID: "fists", Name: "Fists", Tier: 0, Cost: 0, Damage: 8, Range: 42, Arc: 1.6, Knockback: 90, Cooldown: 0.5},
	{ID: "dagger", Name: "Dagger", Tier: 1, Cost: 25, Damage: 14, Range: 48, Arc: 1.4, Knockback: 90, Cooldown: 0.40},
	{ID: "sword", Name: "Sword", Tier: 2, Cost: 70, Damage: 22, Range: 58, Arc: 1.8, Knockback: 130, Cooldown: 0.55},
	{ID: "battleaxe", Name: "Battleaxe", Tier: 3, Cost: 160, Damage: 36, Range: 64, Arc: 2.2, Knockback: 200, Cooldown: 0.85},
}

var Bows = []BowDef{
	{ID: "shortbow", Name: "Shortbow", Tier: 1, Cost: 40, Damage: 12, ProjSpeed: 420, Lifetime: 1.2, Cooldown: 0.7},
	{ID: "longbow", Name: "Longbow", Tier: 2, Cost: 110, Damage: 20, ProjSpeed: 520, Lifetime: 1.6, Cooldown: 0.9},
	{ID: "warbow", Name: "Warbow", Tier: 3, Cost: 220, Damage: 30, ProjSpeed: 600, Lifetime: 2.0, Cooldown: 1.1},
}

var Armors = []ArmorDef{
	{ID: "cloth", Name: "Cloth", Tier: 0, Cost: 0, Reduction: 0},
	{ID: "leather", Name: "Leather", Tier: 1, Cost: 30, Reduction: 0.10},
	{ID: "chainmail", Name: "Chainmail", Tier: 2, Cost: 90, Reduction: 0.20},
	{ID: "plate", Name: "Plate", Tier: 3, Cost: 200, Reduction: 0.30},
}

// Potion kinds
const (
	PotionHealth = "health_potion"
	PotionShield = "shield_potion"
)

var Consumables = []ConsumableDef{
	{ID: PotionHealth, Name: "Health Potion", Cost: 8, Heal: 35, MaxStack: 5},
	{ID: PotionShield, Name: "Shield Potion", Cost: 14, ShieldT: 6.0, MaxStack: 3},
}

var Skills = []SkillDef{
	{ID: "vitality", Name: "Vitality", BaseCost: 30, MaxLevel: 5, MaxHPBonus: 20},
	{ID: "swiftness", Name: "Swiftness", BaseCost: 35, MaxLevel: 5, SpeedBonus: 12},
	{ID: "recovery", Name: "Recovery", BaseCost: 45, MaxLevel: 3, RegenBonus: 0.8},
}

// Lookup maps, built once at startup
var (
	WeaponByID     map[string]WeaponDef
	BowByID        map[string]BowDef
	ArmorByID      map[string]ArmorDef
	ConsumableByID map[string]ConsumableDef
	SkillByID      map[string]SkillDef
)

func init() {
	WeaponByID = make(map[string]WeaponDef, len(Weapons))
	for _, w := range Weapons {
		WeaponByID[w.ID] = w
	}
	BowByID = make(map[string]BowDef, len(Bows))
	for _, b := range Bows {
		BowByID[b.ID] = b
	}
	ArmorByID = make(map[string]ArmorDef, len(Armors))
	for _, a := range Armors {
		ArmorByID[a.ID] = a
	}
	ConsumableByID = make(map[string]ConsumableDef, len(Consumables))
	for _, c := range Consumables {
		ConsumableByID[c.ID] = c
	}
	SkillByID = make(map[string]SkillDef, len(Skills))
	for _, s := range Skills {
		SkillByID[s.ID] = s
	}
}

// SkillCost returns the gold cost of buying the next level of a skill
func SkillCost(def SkillDef, currentLevel int) int {
	return def.BaseCost * (currentLevel + 1)
}

// NextWeapon returns the cheapest weapon strictly above the given tier, or
// false when the player already owns the top tier. Used by the shop UI and
// the bot purchase heuristic.
func NextWeapon(currentID string) (WeaponDef, bool) {
	cur := WeaponByID[currentID]
	for _, w := range Weapons {
		if w.Tier == cur.Tier+1 {
			return w, true
		}
	}
	return WeaponDef{}, false
}

// NextArmor returns the armor one tier above the given one
func NextArmor(currentID string) (ArmorDef, bool) {
	cur := ArmorByID[currentID]
	for _, a := range Armors {
		if a.Tier == cur.Tier+1 {
			return a, true
		}
	}
	return ArmorDef{}, false
}

// NextBow returns the bow one tier above the given one ("" means no bow yet)
func NextBow(currentID string) (BowDef, bool) {
	tier := 0
	if currentID != "" {
		tier = BowByID[currentID].Tier
	}
	for _, b := range Bows {
		if b.Tier == tier+1 {
			return b, true
		}
	}
	return BowDef{}, false
}
