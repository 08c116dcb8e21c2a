package main

import (
	"math/rand"
	"testing"
)

// testArena builds a bare EntitySet with one shop far in the corner and
// a resolver capturing events.
func testArena() (*EntitySet, *CombatResolver, *[]GameEvent) {
	set := &EntitySet{
		Mobs:        make(map[string]*Mob),
		Projectiles: make(map[string]*Projectile),
		Pickups:     make(map[string]*Pickup),
		Hill:        NewHill(Point{X: 1200, Y: 1200}),
		Shops:       []Shop{{ID: 0, X: 100, Y: 100}},
	}
	var events []GameEvent
	cr := NewCombatResolver(set, rand.New(rand.NewSource(7)), func(ev GameEvent) {
		events = append(events, ev)
	})
	return set, cr, &events
}

func hasEvent(events []GameEvent, typ string) bool {
	for _, ev := range events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

func TestDamageReductionCapped(t *testing.T) {
	p := NewPlayer(0, "tank", true, Point{})
	p.Armor = "plate"
	p.ShieldT = 5

	// 0.30 armor + 0.25 shield would be 0.55 uncapped
	if got := p.DamageReduction(); got != MaxDamageReduce {
		t.Errorf("expected reduction capped at %f, got %f", MaxDamageReduce, got)
	}

	p.ShieldT = 0
	if got := p.DamageReduction(); got != 0.30 {
		t.Errorf("expected plate reduction 0.30, got %f", got)
	}
}

func TestHitPlayerAppliesReduction(t *testing.T) {
	set, cr, events := testArena()
	attacker := set.AddPlayer("a", true, Point{X: 800, Y: 800})
	target := set.AddPlayer("b", true, Point{X: 830, Y: 800})
	target.Armor = "chainmail" // 0.20

	cr.HitPlayer(attacker, target, 50, 1, 0, 0)
	if target.HP != 100-40 {
		t.Errorf("expected 40 damage after reduction, got HP %d", target.HP)
	}
	if !hasEvent(*events, EvHit) {
		t.Error("expected a hit event")
	}
}

func TestSafeZoneTurretRetaliation(t *testing.T) {
	set, cr, events := testArena()
	attacker := set.AddPlayer("raider", true, Point{X: 300, Y: 100})
	target := set.AddPlayer("shopper", true, Point{X: 110, Y: 100}) // inside safe zone

	cr.HitPlayer(attacker, target, 50, -1, 0, 0)

	if target.HP != PlayerMaxHP {
		t.Errorf("safe-zone target must take no damage, got HP %d", target.HP)
	}
	if attacker.HP != PlayerMaxHP-TurretDamage {
		t.Errorf("attacker should take %d turret damage, got HP %d", TurretDamage, attacker.HP)
	}
	if !hasEvent(*events, EvTurretFire) {
		t.Error("expected a turret_fire event")
	}
	if hasEvent(*events, EvHit) {
		t.Error("no hit event should fire for a safe-zone attack")
	}
}

func TestTurretCanKillAttacker(t *testing.T) {
	set, cr, _ := testArena()
	attacker := set.AddPlayer("raider", true, Point{X: 300, Y: 100})
	target := set.AddPlayer("shopper", true, Point{X: 110, Y: 100})
	attacker.HP = TurretDamage

	cr.HitPlayer(attacker, target, 50, -1, 0, 0)
	if attacker.Alive {
		t.Error("attacker at turret-damage HP should die to retaliation")
	}
	if attacker.Deaths != 1 {
		t.Errorf("expected 1 death recorded, got %d", attacker.Deaths)
	}
}

func TestKillTransfersGoldFloor(t *testing.T) {
	set, cr, _ := testArena()
	killer := set.AddPlayer("k", true, Point{X: 800, Y: 800})
	victim := set.AddPlayer("v", true, Point{X: 820, Y: 800})
	victim.Gold = 103
	victim.HP = 1

	cr.HitPlayer(killer, victim, 50, 1, 0, 0)

	if victim.Alive {
		t.Fatal("victim should be dead")
	}
	// floor(103 * 0.25) = 25 stolen, then floor(78 * 0.25) = 19 respawn loss
	if killer.Gold != StartingGold+25 {
		t.Errorf("expected killer gold %d, got %d", StartingGold+25, killer.Gold)
	}
	if victim.Gold != 103-25-19 {
		t.Errorf("expected victim gold %d, got %d", 103-25-19, victim.Gold)
	}
	if killer.KillStreak != 1 || killer.Kills != 1 {
		t.Errorf("expected streak/kills 1, got %d/%d", killer.KillStreak, killer.Kills)
	}
	if victim.KillStreak != 0 {
		t.Errorf("victim streak should reset, got %d", victim.KillStreak)
	}
}

func TestBountyClaimedAtDeathMoment(t *testing.T) {
	set, cr, events := testArena()
	killer := set.AddPlayer("k", true, Point{X: 800, Y: 800})
	victim := set.AddPlayer("v", true, Point{X: 820, Y: 800})
	victim.Bounty = true
	victim.Gold = 0
	victim.HP = 1

	cr.HitPlayer(killer, victim, 50, 1, 0, 0)

	if killer.Gold != StartingGold+BountyBonusGold {
		t.Errorf("expected bounty bonus %d, got gold %d", BountyBonusGold, killer.Gold)
	}
	if !hasEvent(*events, EvBountyClaimed) {
		t.Error("expected a bounty_claimed event")
	}
}

func TestBountyFlagFromStreakAndGold(t *testing.T) {
	set, cr, _ := testArena()
	p := set.AddPlayer("p", true, Point{X: 800, Y: 800})

	p.KillStreak = BountyStreakMin
	cr.updateBounty(p)
	if !p.Bounty {
		t.Error("streak at minimum should flag a bounty")
	}

	p.KillStreak = 0
	p.Gold = BountyGoldMin
	cr.updateBounty(p)
	if !p.Bounty {
		t.Error("gold at minimum should flag a bounty")
	}

	p.Gold = 0
	cr.updateBounty(p)
	if p.Bounty {
		t.Error("bounty should clear when neither condition holds")
	}
}

func TestMobAndTurretKillsSkipGoldTransfer(t *testing.T) {
	set, cr, events := testArena()
	victim := set.AddPlayer("v", true, Point{X: 800, Y: 800})
	victim.Gold = 100
	victim.HP = 1

	mob := set.SpawnMob("wolf", 820, 800)
	cr.MobStrike(mob, victim)

	if victim.Alive {
		t.Fatal("victim should be dead")
	}
	// Only the respawn loss applies: floor(100 * 0.25)
	if victim.Gold != 75 {
		t.Errorf("expected only respawn loss, got gold %d", victim.Gold)
	}
	for _, ev := range *events {
		if ev.Type == EvKill && ev.Attacker != -1 {
			t.Errorf("mob kill should report attacker -1, got %d", ev.Attacker)
		}
	}
}

func TestKillMobDropsLootAndQueuesRespawn(t *testing.T) {
	set, cr, events := testArena()
	killer := set.AddPlayer("k", true, Point{X: 800, Y: 800})
	mob := set.SpawnMob("slime", 820, 800)

	cr.HitMob(killer, mob, 999, 1, 0, 0)

	if _, ok := set.Mobs[mob.ID]; ok {
		t.Error("dead mob should be removed from the set")
	}
	if len(set.RespawnQueue) != 1 {
		t.Fatalf("expected 1 queued respawn, got %d", len(set.RespawnQueue))
	}
	if set.RespawnQueue[0].Type != "slime" {
		t.Errorf("respawn should keep the mob type, got %s", set.RespawnQueue[0].Type)
	}
	found := false
	for _, pk := range set.Pickups {
		if pk.Kind == PickupGold {
			found = true
		}
	}
	if !found {
		t.Error("mob death should drop a gold pickup")
	}
	if !hasEvent(*events, EvMobDeath) {
		t.Error("expected a mob_death event")
	}
}

func TestBotMeleeRangeReducedAgainstPlayers(t *testing.T) {
	set, cr, _ := testArena()
	bot := set.AddPlayer("bot", false, Point{X: 800, Y: 800})
	human := set.AddPlayer("h", true, Point{X: 800, Y: 800})

	w := WeaponByID["fists"]
	// Beyond the bot's reduced reach but within full reach
	dist := w.Range*BotMeleeRangeMul + PlayerRadius + 2
	human.X = 800 + dist

	cr.Melee(bot, 1, 0)
	if human.HP != PlayerMaxHP {
		t.Errorf("bot should miss beyond reduced range, got HP %d", human.HP)
	}

	// The same distance is a hit for a human attacker
	human2 := set.AddPlayer("h2", true, Point{X: 800 + dist, Y: 900})
	attacker := set.AddPlayer("a", true, Point{X: 800, Y: 900})
	cr.Melee(attacker, 1, 0)
	if human2.HP == PlayerMaxHP {
		t.Error("human attacker should hit at full range")
	}
}

func TestMeleeRespectsCooldown(t *testing.T) {
	set, cr, _ := testArena()
	attacker := set.AddPlayer("a", true, Point{X: 800, Y: 800})
	target := set.AddPlayer("t", true, Point{X: 830, Y: 800})

	cr.Melee(attacker, 1, 0)
	hpAfterFirst := target.HP
	if hpAfterFirst == PlayerMaxHP {
		t.Fatal("first swing should land")
	}
	cr.Melee(attacker, 1, 0)
	if target.HP != hpAfterFirst {
		t.Error("second swing inside the cooldown should not land")
	}
}

func TestFireBowRequiresBow(t *testing.T) {
	set, cr, _ := testArena()
	p := set.AddPlayer("archer", true, Point{X: 800, Y: 800})

	cr.FireBow(p, 1, 0)
	if len(set.Projectiles) != 0 {
		t.Error("firing without a bow should spawn nothing")
	}

	p.Bow = "shortbow"
	cr.FireBow(p, 1, 0)
	if len(set.Projectiles) != 1 {
		t.Errorf("expected 1 projectile, got %d", len(set.Projectiles))
	}
}
