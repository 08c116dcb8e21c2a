package main

import "testing"

func newBotArena() (*EntitySet, *ArenaBot) {
	set, _, _ := testArena()
	return set, NewArenaBot(99)
}

func TestBotDrinksPotionWhenHurt(t *testing.T) {
	set, bot := newBotArena()
	p := set.AddPlayer("bot", false, Point{X: 800, Y: 800})
	p.HP = int(float64(p.MaxHP)*botLowHPFrac) - 1
	p.Consumables[PotionHealth] = 1

	intent := bot.Decide(p, WorldView{Set: set})
	if intent.Action == nil || intent.Action.Type != ActUsePotion {
		t.Fatal("hurt bot with potions should drink one")
	}
	// Retreat toward the shop in the corner while drinking
	if intent.MoveX >= 0 || intent.MoveY >= 0 {
		t.Errorf("expected retreat toward (100,100), got move (%f, %f)", intent.MoveX, intent.MoveY)
	}
}

func TestBotRetreatsWhenHurtAndDry(t *testing.T) {
	set, bot := newBotArena()
	p := set.AddPlayer("bot", false, Point{X: 800, Y: 800})
	p.HP = 10

	intent := bot.Decide(p, WorldView{Set: set})
	if intent.Action != nil {
		t.Error("no potions means nothing to drink")
	}
	if intent.Attack {
		t.Error("retreating bots do not attack")
	}
	if intent.MoveX >= 0 || intent.MoveY >= 0 {
		t.Error("expected retreat toward the safe zone")
	}
}

func TestBotBuysWhenAtShop(t *testing.T) {
	set, bot := newBotArena()
	p := set.AddPlayer("bot", false, Point{X: 110, Y: 100})
	p.Gold = ConsumableByID[PotionHealth].Cost

	intent := bot.Decide(p, WorldView{Set: set})
	if intent.Action == nil || intent.Action.Type != ActBuyConsumable {
		t.Fatal("bot at a shop with gold should buy a potion first")
	}
}

func TestBotWalksToShopWhenRich(t *testing.T) {
	set, bot := newBotArena()
	p := set.AddPlayer("bot", false, Point{X: 800, Y: 800})
	p.Gold = ConsumableByID[PotionHealth].Cost

	intent := bot.Decide(p, WorldView{Set: set})
	if intent.Action != nil {
		t.Error("too far from the shop to buy yet")
	}
	if intent.MoveX >= 0 || intent.MoveY >= 0 {
		t.Error("expected walk toward shop at (100,100)")
	}
}

func TestBotFightsNearbyPlayer(t *testing.T) {
	set, bot := newBotArena()
	p := set.AddPlayer("bot", false, Point{X: 800, Y: 800})
	p.Consumables[PotionHealth] = 1 // stocked, nothing to buy with 0 gold
	enemy := set.AddPlayer("victim", true, Point{X: 900, Y: 800})

	intent := bot.Decide(p, WorldView{Set: set})
	if !intent.Attack {
		t.Fatal("expected attack on player in engage range")
	}
	if intent.AttackX != enemy.X || intent.AttackY != enemy.Y {
		t.Error("attack should aim at the enemy")
	}
	if intent.MoveX <= 0 {
		t.Error("expected closing movement toward the enemy")
	}
}

func TestBotIgnoresDistantPlayer(t *testing.T) {
	set, bot := newBotArena()
	p := set.AddPlayer("bot", false, Point{X: 800, Y: 800})
	p.Consumables[PotionHealth] = 1
	set.AddPlayer("faraway", true, Point{X: 800 + botEngageRange + 50, Y: 800})

	intent := bot.Decide(p, WorldView{Set: set})
	if intent.Attack {
		t.Error("players outside engage range should not be attacked")
	}
}

func TestBotContestsLiveHill(t *testing.T) {
	set, bot := newBotArena()
	set.Hill.Phase = HillContestable
	p := set.AddPlayer("bot", false, Point{X: 400, Y: 400})
	p.Consumables[PotionHealth] = 1

	intent := bot.Decide(p, WorldView{Set: set})
	if intent.MoveX <= 0 || intent.MoveY <= 0 {
		t.Error("expected movement toward the hill at (1200,1200)")
	}

	// Standing on the hill with no enemies around: hold position
	p.X, p.Y = set.Hill.X, set.Hill.Y
	intent = bot.Decide(p, WorldView{Set: set})
	if intent.MoveX != 0 || intent.MoveY != 0 || intent.Attack {
		t.Error("bot on an uncontested hill should hold still")
	}
}

func TestBotFarmsMobsBeforeHillActivates(t *testing.T) {
	set, bot := newBotArena()
	p := set.AddPlayer("bot", false, Point{X: 800, Y: 800})
	p.Consumables[PotionHealth] = 1
	mob := set.SpawnMob("slime", 900, 800)

	intent := bot.Decide(p, WorldView{Set: set})
	if !intent.Attack {
		t.Fatal("expected attack on a nearby mob")
	}
	if intent.AttackX != mob.X || intent.AttackY != mob.Y {
		t.Error("attack should aim at the mob")
	}
}

func TestDeadBotDoesNothing(t *testing.T) {
	set, bot := newBotArena()
	p := set.AddPlayer("bot", false, Point{X: 800, Y: 800})
	p.Alive = false

	intent := bot.Decide(p, WorldView{Set: set})
	if intent != (BotIntent{}) {
		t.Errorf("dead bots emit the zero intent, got %+v", intent)
	}
}
