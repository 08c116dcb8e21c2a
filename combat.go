package main

import (
	"math"
	"math/rand"
)

const (
	TurretDamage     = 35   // fixed retaliation for attacking into a safe zone
	BotMeleeRangeMul = 0.8  // bots get less melee reach against players
	playerKnockback  = 0.12 // impulse-to-displacement factor on players
	minDamage        = 1
)

// CombatResolver turns attack intents into authoritative hits, damage,
// knockback, deaths, and economy transfers against one match's EntitySet.
type CombatResolver struct {
	set  *EntitySet
	rng  *rand.Rand
	emit func(GameEvent)
}

// NewCombatResolver wires a resolver to a match's entities and event sink
func NewCombatResolver(set *EntitySet, rng *rand.Rand, emit func(GameEvent)) *CombatResolver {
	return &CombatResolver{set: set, rng: rng, emit: emit}
}

// withinArc reports whether the target offset lies within half the arc
// of the attack direction
func withinArc(dirX, dirY, dx, dy, arc float64) bool {
	attackAng := math.Atan2(dirY, dirX)
	targetAng := math.Atan2(dy, dx)
	return math.Abs(NormalizeAngle(targetAng-attackAng)) <= arc/2
}

// Melee resolves a swing of the attacker's current weapon toward a
// direction. Every player and mob inside range and arc is hit.
func (cr *CombatResolver) Melee(attacker *Player, dirX, dirY float64) {
	if !attacker.Alive || attacker.AttackCD > 0 {
		return
	}
	w := attacker.CurrentWeapon()
	attacker.AttackCD = w.Cooldown
	dirX, dirY = Normalize(dirX, dirY)
	if dirX == 0 && dirY == 0 {
		dirX = math.Cos(attacker.Facing)
		dirY = math.Sin(attacker.Facing)
	}

	// Bots attacking players use a shortened reach to compensate for
	// their per-tick reaction speed.
	playerRange := w.Range
	if !attacker.Human {
		playerRange *= BotMeleeRangeMul
	}

	for _, t := range cr.set.Players {
		if t.ID == attacker.ID || !t.Alive {
			continue
		}
		dx, dy := t.X-attacker.X, t.Y-attacker.Y
		if dx*dx+dy*dy > (playerRange+PlayerRadius)*(playerRange+PlayerRadius) {
			continue
		}
		if !withinArc(dirX, dirY, dx, dy, w.Arc) {
			continue
		}
		kx, ky := Normalize(dx, dy)
		cr.HitPlayer(attacker, t, w.Damage, kx, ky, w.Knockback)
	}
	for _, m := range cr.set.Mobs {
		if !m.Alive {
			continue
		}
		reach := w.Range + m.Def().Radius
		dx, dy := m.X-attacker.X, m.Y-attacker.Y
		if dx*dx+dy*dy > reach*reach {
			continue
		}
		if !withinArc(dirX, dirY, dx, dy, w.Arc) {
			continue
		}
		kx, ky := Normalize(dx, dy)
		cr.HitMob(attacker, m, w.Damage, kx, ky, w.Knockback)
	}
}

// FireBow spawns a projectile toward a direction; the hit resolves later
// in the projectile phase through the same damage paths as melee.
func (cr *CombatResolver) FireBow(attacker *Player, dirX, dirY float64) {
	if !attacker.Alive || attacker.AttackCD > 0 {
		return
	}
	bow, ok := attacker.CurrentBow()
	if !ok {
		return
	}
	dirX, dirY = Normalize(dirX, dirY)
	if dirX == 0 && dirY == 0 {
		return
	}
	attacker.AttackCD = bow.Cooldown
	cr.set.SpawnProjectile(attacker, bow, dirX, dirY)
}

// ResolveProjectileHit applies a projectile to a player or mob target.
// Exactly one of targetPlayer/targetMob is non-nil.
func (cr *CombatResolver) ResolveProjectileHit(proj *Projectile, targetPlayer *Player, targetMob *Mob) {
	owner := cr.set.PlayerBySlot(proj.OwnerSlot)
	if owner == nil {
		proj.Alive = false
		return
	}
	kx, ky := Normalize(proj.VX, proj.VY)
	if targetPlayer != nil {
		cr.HitPlayer(owner, targetPlayer, proj.Damage, kx, ky, proj.Knockback)
	} else if targetMob != nil {
		cr.HitMob(owner, targetMob, proj.Damage, kx, ky, proj.Knockback)
	}
	proj.Alive = false
}

// HitPlayer applies player-on-player damage. A target inside a shop safe
// zone flips the interaction into turret retaliation against the attacker.
func (cr *CombatResolver) HitPlayer(attacker, target *Player, damage int, kx, ky, knockback float64) {
	if !target.Alive {
		return
	}
	if InSafeZone(cr.set.Shops, target.X, target.Y) {
		cr.emit(GameEvent{Type: EvTurretFire, Attacker: attacker.ID, Victim: target.ID, Damage: TurretDamage, X: round1(attacker.X), Y: round1(attacker.Y)})
		if attacker.TakeDamage(TurretDamage) {
			cr.killPlayer(nil, attacker)
		}
		return
	}

	reduced := int(float64(damage) * (1 - target.DamageReduction()))
	if reduced < minDamage {
		reduced = minDamage
	}
	target.VX += kx * knockback * playerKnockback * 10
	target.VY += ky * knockback * playerKnockback * 10
	cr.emit(GameEvent{Type: EvHit, Attacker: attacker.ID, Victim: target.ID, Damage: reduced})
	if target.TakeDamage(reduced) {
		cr.killPlayer(attacker, target)
	}
}

// HitMob applies player-on-mob damage: same primitives, no gold/bounty
// bookkeeping until the mob actually dies (loot).
func (cr *CombatResolver) HitMob(attacker *Player, mob *Mob, damage int, kx, ky, knockback float64) {
	if !mob.Alive {
		return
	}
	mob.Knockback(kx, ky, knockback)
	cr.emit(GameEvent{Type: EvHit, Attacker: attacker.ID, MobID: mob.ID, Damage: damage})
	if mob.TakeDamage(damage) {
		cr.killMob(attacker, mob)
	}
}

// MobStrike applies mob-on-player damage: reduction and knockback apply,
// no gold or bounty bookkeeping.
func (cr *CombatResolver) MobStrike(mob *Mob, target *Player) {
	if !target.Alive || InSafeZone(cr.set.Shops, target.X, target.Y) {
		return
	}
	def := mob.Def()
	reduced := int(float64(def.Damage) * (1 - target.DamageReduction()))
	if reduced < minDamage {
		reduced = minDamage
	}
	kx, ky := Normalize(target.X-mob.X, target.Y-mob.Y)
	target.VX += kx * 60 * playerKnockback * 10
	target.VY += ky * 60 * playerKnockback * 10
	cr.emit(GameEvent{Type: EvHit, MobID: mob.ID, Victim: target.ID, Damage: reduced})
	if target.TakeDamage(reduced) {
		cr.killPlayer(nil, target)
	}
}

// killPlayer settles a player death. killer is nil for turret and mob
// deaths, which skip the gold transfer and bounty bonus.
func (cr *CombatResolver) killPlayer(killer, victim *Player) {
	if killer != nil {
		stolen := int(float64(victim.Gold) * GoldStealFrac)
		bonus := 0
		if victim.Bounty {
			bonus = BountyBonusGold
			cr.emit(GameEvent{Type: EvBountyClaimed, Attacker: killer.ID, Victim: victim.ID, Gold: bonus})
		}
		victim.Gold -= stolen
		killer.Gold += stolen + bonus
		killer.KillStreak++
		killer.Kills++
		cr.updateBounty(killer)
		cr.emit(GameEvent{Type: EvKill, Attacker: killer.ID, Victim: victim.ID, Gold: stolen + bonus})
	} else {
		cr.emit(GameEvent{Type: EvKill, Attacker: -1, Victim: victim.ID})
	}

	// Respawn gold loss, rolled into a ground drop at the death spot
	loss := int(float64(victim.Gold) * RespawnLossFrac)
	victim.Gold -= loss
	if loss > 1 && cr.rng.Float64() < GoldDropChance {
		cr.set.SpawnPickup(PickupGold, victim.X, victim.Y, loss/2)
	}

	victim.Deaths++
	victim.KillStreak = 0
	cr.updateBounty(victim)
}

// killMob settles a mob death: loot, rare-drop roll, respawn queue
func (cr *CombatResolver) killMob(killer *Player, mob *Mob) {
	def := mob.Def()
	drop := def.GoldDrop + cr.rng.Intn(def.GoldDrop/2+1)
	cr.set.SpawnPickup(PickupGold, mob.X, mob.Y, drop)
	if cr.rng.Float64() < def.RareChance {
		cr.set.SpawnPickup(PickupPotion, mob.X+12, mob.Y, 1)
		cr.emit(GameEvent{Type: EvRareDrop, MobID: mob.ID, X: round1(mob.X), Y: round1(mob.Y)})
	}
	cr.emit(GameEvent{Type: EvMobDeath, Attacker: killer.ID, MobID: mob.ID})
	cr.set.QueueMobRespawn(mob)
	delete(cr.set.Mobs, mob.ID)
}

// updateBounty re-derives the bounty flag from streak and carried gold
func (cr *CombatResolver) updateBounty(p *Player) {
	p.Bounty = p.KillStreak >= BountyStreakMin || p.Gold >= BountyGoldMin
}
