package main

import "math/rand"

// BotIntent is the same shape a human produces each tick: one input plus
// at most one queued action.
type BotIntent struct {
	MoveX, MoveY float64
	Attack       bool
	AttackX      float64
	AttackY      float64
	Action       *PlayerAction
}

// WorldView is the read-only world a bot may inspect when deciding
type WorldView struct {
	Set     *EntitySet
	Terrain TerrainProvider
	Elapsed float64
}

// BotDecider is the external decision interface. Implementations must be
// synchronous and non-blocking; the match calls Decide once per bot per tick.
type BotDecider interface {
	Decide(p *Player, view WorldView) BotIntent
}

const (
	botEngageRange  = 320.0
	botLowHPFrac    = 0.35
	botShopLinger   = 60.0 // distance from a shop at which buying happens
	botMobHuntRange = 500.0
)

// ArenaBot is the built-in BotDecider: shop when rich, hunt when strong,
// heal when hurt, take the hill when it matters.
type ArenaBot struct {
	rng *rand.Rand
}

// NewArenaBot creates a bot decider with its own rng stream
func NewArenaBot(seed int64) *ArenaBot {
	return &ArenaBot{rng: rand.New(rand.NewSource(seed))}
}

// Decide implements BotDecider
func (b *ArenaBot) Decide(p *Player, view WorldView) BotIntent {
	if !p.Alive {
		return BotIntent{}
	}
	set := view.Set

	// Drink when hurt, retreat when hurt with nothing to drink
	if p.HP < int(float64(p.MaxHP)*botLowHPFrac) {
		if p.Consumables[PotionHealth] > 0 {
			return b.moveAway(p, set, &PlayerAction{Type: ActUsePotion, Kind: PotionHealth})
		}
		return b.moveAway(p, set, nil)
	}

	// Spend gold at the nearest shop when an upgrade is affordable
	if act := b.shoppingList(p); act != nil {
		shop, shopDist := nearestShop(set.Shops, p.X, p.Y)
		if shopDist < botShopLinger {
			return BotIntent{Action: act}
		}
		dirX, dirY := Normalize(shop.X-p.X, shop.Y-p.Y)
		return BotIntent{MoveX: dirX, MoveY: dirY}
	}

	// Fight the nearest player in engage range
	if target := nearestEnemy(set.Players, p, botEngageRange); target != nil {
		dirX, dirY := Normalize(target.X-p.X, target.Y-p.Y)
		return BotIntent{
			MoveX: dirX, MoveY: dirY,
			Attack: true, AttackX: target.X, AttackY: target.Y,
		}
	}

	// Contest the hill once it is live
	if set.Hill.Phase == HillContestable || set.Hill.Phase == HillCapturing || set.Hill.Phase == HillHeld {
		if !set.Hill.Contains(p.X, p.Y) {
			dirX, dirY := Normalize(set.Hill.X-p.X, set.Hill.Y-p.Y)
			return BotIntent{MoveX: dirX, MoveY: dirY}
		}
		// Hold position; swing at anything that walks in
		if target := nearestEnemy(set.Players, p, botEngageRange); target != nil {
			return BotIntent{Attack: true, AttackX: target.X, AttackY: target.Y}
		}
		return BotIntent{}
	}

	// Farm mobs for gold
	if mob := nearestMob(set.Mobs, p.X, p.Y, botMobHuntRange); mob != nil {
		dirX, dirY := Normalize(mob.X-p.X, mob.Y-p.Y)
		return BotIntent{
			MoveX: dirX, MoveY: dirY,
			Attack: true, AttackX: mob.X, AttackY: mob.Y,
		}
	}

	// Idle drift toward the hill's side of the map
	dirX, dirY := Normalize(set.Hill.X-p.X+float64(b.rng.Intn(200)-100), set.Hill.Y-p.Y+float64(b.rng.Intn(200)-100))
	return BotIntent{MoveX: dirX, MoveY: dirY}
}

// moveAway retreats toward the nearest shop safe zone
func (b *ArenaBot) moveAway(p *Player, set *EntitySet, act *PlayerAction) BotIntent {
	shop, _ := nearestShop(set.Shops, p.X, p.Y)
	dirX, dirY := Normalize(shop.X-p.X, shop.Y-p.Y)
	return BotIntent{MoveX: dirX, MoveY: dirY, Action: act}
}

// shoppingList returns the single highest-priority affordable purchase
func (b *ArenaBot) shoppingList(p *Player) *PlayerAction {
	if p.Consumables[PotionHealth] == 0 && p.Gold >= ConsumableByID[PotionHealth].Cost {
		return &PlayerAction{Type: ActBuyConsumable, Item: PotionHealth}
	}
	if a, ok := NextArmor(p.Armor); ok && p.Gold >= a.Cost {
		return &PlayerAction{Type: ActBuyEquipment, Item: a.ID}
	}
	if w, ok := NextWeapon(p.Weapon); ok && p.Gold >= w.Cost {
		return &PlayerAction{Type: ActBuyEquipment, Item: w.ID}
	}
	return nil
}

func nearestShop(shops []Shop, x, y float64) (Shop, float64) {
	best := shops[0]
	bestD := Distance(x, y, best.X, best.Y)
	for _, s := range shops[1:] {
		if d := Distance(x, y, s.X, s.Y); d < bestD {
			best, bestD = s, d
		}
	}
	return best, bestD
}

func nearestEnemy(players []*Player, self *Player, maxRange float64) *Player {
	var best *Player
	bestD2 := maxRange * maxRange
	for _, t := range players {
		if t.ID == self.ID || !t.Alive {
			continue
		}
		if d2 := DistanceSq(self.X, self.Y, t.X, t.Y); d2 < bestD2 {
			best, bestD2 = t, d2
		}
	}
	return best
}

func nearestMob(mobs map[string]*Mob, x, y, maxRange float64) *Mob {
	var best *Mob
	bestD2 := maxRange * maxRange
	for _, m := range mobs {
		if !m.Alive {
			continue
		}
		if d2 := DistanceSq(x, y, m.X, m.Y); d2 < bestD2 {
			best, bestD2 = m, d2
		}
	}
	return best
}
