package main

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	TickRate         = 30 // simulation ticks per second
	SnapshotInterval = 0.1
	TickDuration     = time.Second / TickRate

	MatchSlots       = 6   // humans first, bots fill the rest
	MatchGrace       = 3.0 // seconds between match_over and teardown
	AbandonGrace     = 2.0 // shorter grace when every human left
	BountyPulseEvery = 5.0 // seconds between bounty location pulses
)

var botNames = []string{"Korrig", "Vex", "Mabel", "Thistle", "Orm", "Pip"}

type queuedAction struct {
	peerID string
	action PlayerAction
}

// MatchInstance is one independent play session: it owns its EntitySet,
// drains inbound command queues once per tick, runs the phase pipeline,
// and emits snapshots and events for the server loop to fan out.
//
// Tick runs only on the server loop goroutine. The mutex guards the
// inbound queues and peer bookkeeping, which connection goroutines touch.
type MatchInstance struct {
	ID      string
	Seed    int64
	MapName string

	terrain  TerrainProvider
	set      *EntitySet
	resolver *CombatResolver
	bots     BotDecider
	rng      *rand.Rand
	log      zerolog.Logger

	mu           sync.Mutex
	inputs       map[string]PlayerInput
	actions      []queuedAction
	peerSlots    map[string]int
	removals     []int
	humansOnline int

	tick     uint64
	elapsed  float64
	snapAcc  float64
	pulseAcc float64
	events   []GameEvent

	done      bool
	abandoned bool
	winner    int
	graceT    float64
}

// NewMatchInstance creates a match for a lobby peer set. Human peers take
// the first slots; bots fill the remainder up to MatchSlots.
func NewMatchInstance(id string, seed int64, mapName string, peers []LobbyPeer, log zerolog.Logger) *MatchInstance {
	rng := rand.New(rand.NewSource(seed))
	terrain := NewArenaMap(mapName, seed)
	set := NewEntitySet(terrain, rng)

	m := &MatchInstance{
		ID:           id,
		Seed:         seed,
		MapName:      mapName,
		terrain:      terrain,
		set:          set,
		bots:         NewArenaBot(seed + 1),
		rng:          rng,
		log:          log.With().Str("match", id).Logger(),
		inputs:       make(map[string]PlayerInput),
		peerSlots:    make(map[string]int),
		humansOnline: len(peers),
		winner:       -1,
	}
	m.resolver = NewCombatResolver(set, rng, m.emitEvent)

	spawns := terrain.SpawnPoints().Players
	for i, peer := range peers {
		set.AddPlayer(peer.Name, true, spawns[i%len(spawns)])
		m.peerSlots[peer.ID] = i
	}
	for i := len(peers); i < MatchSlots; i++ {
		set.AddPlayer(botNames[i%len(botNames)], false, spawns[i%len(spawns)])
	}
	m.log.Info().Str("map", mapName).Int("humans", len(peers)).Int("slots", MatchSlots).Msg("match created")
	return m
}

func (m *MatchInstance) emitEvent(ev GameEvent) {
	m.events = append(m.events, ev)
}

// QueueInput stores the latest input for a peer. Stale inputs are simply
// overwritten, never queued.
func (m *MatchInstance) QueueInput(peerID string, in PlayerInput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.peerSlots[peerID]; !ok {
		return
	}
	m.inputs[peerID] = in
}

// QueueAction appends to the reliable action queue, drained in arrival
// order each tick.
func (m *MatchInstance) QueueAction(peerID string, a PlayerAction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.peerSlots[peerID]; !ok {
		return
	}
	m.actions = append(m.actions, queuedAction{peerID: peerID, action: a})
}

// SlotOf returns the slot a peer controls, or -1
func (m *MatchInstance) SlotOf(peerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot, ok := m.peerSlots[peerID]; ok {
		return slot
	}
	return -1
}

// PeerIDs returns the connected human peers for fan-out
func (m *MatchInstance) PeerIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.peerSlots))
	for id := range m.peerSlots {
		ids = append(ids, id)
	}
	return ids
}

// RemovePeer detaches a disconnected or departing peer: the peer stops
// routing immediately, and the slot goes inert (never respawns, never
// bot-controlled) on the next tick. Entity and completion state is only
// ever touched on the loop goroutine, so the removal is queued here and
// applied in Tick. When the last human leaves, the next tick completes
// the match with no winner.
func (m *MatchInstance) RemovePeer(peerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.peerSlots[peerID]
	if !ok {
		return
	}
	delete(m.peerSlots, peerID)
	delete(m.inputs, peerID)
	m.removals = append(m.removals, slot)
	m.humansOnline--
}

// Done reports completion; Winner is the winning slot or -1.
// Like Tick, these run only on the server loop goroutine.
func (m *MatchInstance) Done() bool      { return m.done }
func (m *MatchInstance) Winner() int     { return m.winner }
func (m *MatchInstance) Abandoned() bool { return m.abandoned }

// WinnerName resolves the winning slot's display name, "" when none
func (m *MatchInstance) WinnerName() string {
	if p := m.set.PlayerBySlot(m.winner); p != nil {
		return p.Name
	}
	return ""
}

// HumanCount returns connected human peers
func (m *MatchInstance) HumanCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.humansOnline
}

// MatchResult is one peer's final scoreboard line.
type MatchResult struct {
	Name   string
	Kills  int
	Deaths int
	Gold   int
	Won    bool
}

// ResultFor returns a peer's final line for persistence after the match
// completes.
func (m *MatchInstance) ResultFor(peerID string) (MatchResult, bool) {
	m.mu.Lock()
	slot, ok := m.peerSlots[peerID]
	m.mu.Unlock()
	if !ok {
		return MatchResult{}, false
	}
	p := m.set.PlayerBySlot(slot)
	if p == nil {
		return MatchResult{}, false
	}
	return MatchResult{
		Name:   p.Name,
		Kills:  p.Kills,
		Deaths: p.Deaths,
		Gold:   p.Gold,
		Won:    slot == m.winner,
	}, true
}

// TickGrace counts down the post-completion grace period; true when the
// match may be reaped.
func (m *MatchInstance) TickGrace(dt float64) bool {
	m.graceT -= dt
	return m.graceT <= 0
}

// Tick advances the match one fixed step through the phase pipeline and
// returns the snapshot (nil between broadcast intervals) plus the events
// raised this tick.
func (m *MatchInstance) Tick(dt float64) (*Snapshot, []GameEvent) {
	// Commands and removals arrive between ticks; drain them atomically.
	m.mu.Lock()
	inputs := m.inputs
	m.inputs = make(map[string]PlayerInput, len(inputs))
	actions := m.actions
	m.actions = nil
	removals := m.removals
	m.removals = nil
	humansLeft := m.humansOnline
	slots := make(map[string]int, len(m.peerSlots))
	for id, s := range m.peerSlots {
		slots[id] = s
	}
	m.mu.Unlock()

	for _, slot := range removals {
		if p := m.set.PlayerBySlot(slot); p != nil {
			p.Connected = false
			p.Alive = false
		}
	}
	if humansLeft <= 0 {
		if !m.done {
			m.done = true
			m.abandoned = true
			m.winner = -1
			m.graceT = AbandonGrace
			m.log.Info().Msg("match abandoned, no human peers remain")
		}
		return nil, nil
	}

	m.tick++
	m.elapsed += dt

	// Phase 1: inputs, at most one per peer
	for peerID, in := range inputs {
		p := m.set.PlayerBySlot(slots[peerID])
		if p == nil || !p.Connected {
			continue
		}
		m.applyInput(p, in)
	}

	// Phase 2: actions in arrival order
	for _, qa := range actions {
		slot, ok := slots[qa.peerID]
		if !ok {
			continue
		}
		p := m.set.PlayerBySlot(slot)
		if p == nil || !p.Connected {
			continue
		}
		m.applyAction(p, qa.action)
	}

	// Phase 3: bot decisions, applied through the same effect paths
	view := WorldView{Set: m.set, Terrain: m.terrain, Elapsed: m.elapsed}
	for _, p := range m.set.Players {
		if p.Human {
			continue
		}
		intent := m.bots.Decide(p, view)
		m.applyInput(p, PlayerInput{
			MX: intent.MoveX, MY: intent.MoveY,
			Attack: intent.Attack, AX: intent.AttackX, AY: intent.AttackY,
		})
		if intent.Action != nil {
			m.applyAction(p, *intent.Action)
		}
	}

	// Phase 4: entity timers, movement, respawns
	m.stepPlayers(dt)

	// Phase 5: mob AI
	for _, mob := range m.set.Mobs {
		if target := mob.Step(dt, m.set.Players, m.rng); target >= 0 {
			if p := m.set.PlayerBySlot(target); p != nil {
				m.resolver.MobStrike(mob, p)
			}
		}
	}

	// Phase 6: projectiles
	m.stepProjectiles(dt)

	// Phase 7: pickups
	m.stepPickups(dt)

	// Phase 8: hill capture
	if !m.done {
		if win := m.set.Hill.Step(dt, m.set.HillOccupants()); win >= 0 {
			m.winner = win
			m.done = true
			m.graceT = MatchGrace
			m.emitEvent(GameEvent{Type: EvMatchOver, WinnerID: win, Winner: m.WinnerName()})
			m.log.Info().Int("winner", win).Str("name", m.WinnerName()).Msg("match over")
		}
	}

	// Phase 9: mob respawn queue
	m.stepMobRespawns(dt)

	// Phase 10: rate-limited snapshot
	m.snapAcc += dt
	var snap *Snapshot
	if m.snapAcc >= SnapshotInterval {
		m.snapAcc -= SnapshotInterval
		snap = m.buildSnapshot()
	}

	events := m.events
	m.events = nil
	return snap, events
}

// applyInput stores the movement intent and resolves an attack intent
// through the combat resolver.
func (m *MatchInstance) applyInput(p *Player, in PlayerInput) {
	p.moveX, p.moveY = Normalize(in.MX, in.MY)
	if !p.Alive {
		return
	}
	if in.Attack {
		dirX, dirY := in.AX-p.X, in.AY-p.Y
		if p.ActiveSlot == 1 {
			m.resolver.FireBow(p, dirX, dirY)
		} else {
			m.resolver.Melee(p, dirX, dirY)
		}
	}
}

// applyAction handles one reliable action. Every validation failure is a
// silent no-op: malformed or unaffordable commands never error back.
func (m *MatchInstance) applyAction(p *Player, a PlayerAction) {
	if !p.Alive {
		return
	}
	switch a.Type {
	case ActBuyEquipment:
		m.buyEquipment(p, a.Item)
	case ActBuyConsumable:
		def, ok := ConsumableByID[a.Item]
		if !ok || p.Gold < def.Cost || p.Consumables[def.ID] >= def.MaxStack {
			return
		}
		p.Gold -= def.Cost
		p.Consumables[def.ID]++
	case ActBuySkill:
		def, ok := SkillByID[a.Item]
		if !ok {
			return
		}
		lvl := p.Skills[def.ID]
		if lvl >= def.MaxLevel {
			return
		}
		cost := SkillCost(def, lvl)
		if p.Gold < cost {
			return
		}
		p.Gold -= cost
		p.Skills[def.ID] = lvl + 1
		if def.MaxHPBonus > 0 {
			p.applyMaxHPSkill()
		}
	case ActUsePotion:
		def, ok := ConsumableByID[a.Kind]
		if !ok || p.Consumables[def.ID] <= 0 {
			return
		}
		p.Consumables[def.ID]--
		if def.Heal > 0 {
			p.Heal(def.Heal)
		}
		if def.ShieldT > 0 {
			p.ShieldT = def.ShieldT
		}
	case ActSwitchSlot:
		if a.Slot == 1 && p.Bow == "" {
			return
		}
		if a.Slot == 0 || a.Slot == 1 {
			p.ActiveSlot = a.Slot
		}
	}
}

func (m *MatchInstance) buyEquipment(p *Player, itemID string) {
	if w, ok := WeaponByID[itemID]; ok {
		if p.Weapon == itemID || p.Gold < w.Cost {
			return
		}
		p.Gold -= w.Cost
		p.Weapon = itemID
		return
	}
	if b, ok := BowByID[itemID]; ok {
		if p.Bow == itemID || p.Gold < b.Cost {
			return
		}
		p.Gold -= b.Cost
		p.Bow = itemID
		return
	}
	if ar, ok := ArmorByID[itemID]; ok {
		if p.Armor == itemID || p.Gold < ar.Cost {
			return
		}
		p.Gold -= ar.Cost
		p.Armor = itemID
	}
}

// stepPlayers runs phase 4 for every slot: cooldowns, buffs, regen,
// movement against terrain, and respawns.
func (m *MatchInstance) stepPlayers(dt float64) {
	spawns := m.terrain.SpawnPoints().Players
	for _, p := range m.set.Players {
		if p.Human && !p.Connected {
			continue // inert slot, peer is gone
		}
		if p.AttackCD > 0 {
			p.AttackCD -= dt
		}
		if p.ShieldT > 0 {
			p.ShieldT -= dt
			if p.ShieldT < 0 {
				p.ShieldT = 0
			}
		}
		if !p.Alive {
			p.RespawnT -= dt
			if p.RespawnT <= 0 {
				p.Respawn(spawns[p.ID%len(spawns)])
			}
			continue
		}

		// Regeneration: recovery skill everywhere, turret aura in safe zones
		regen := p.RegenRate()
		if InSafeZone(m.set.Shops, p.X, p.Y) {
			regen += SafeZoneRegenPS
		}
		if regen > 0 && p.HP < p.MaxHP {
			p.regenAcc += regen * dt
			if whole := int(p.regenAcc); whole > 0 {
				p.regenAcc -= float64(whole)
				p.Heal(whole)
			}
		}

		// Movement: accelerate toward the intent, clamp to terrain speed,
		// revert illegal destinations.
		mul, _ := m.terrain.TerrainAt(p.X, p.Y)
		maxSpd := p.MoveSpeed() * mul
		p.VX += p.moveX * PlayerAccel * dt
		p.VY += p.moveY * PlayerAccel * dt
		p.VX *= PlayerFriction
		p.VY *= PlayerFriction
		if spd := Distance(0, 0, p.VX, p.VY); spd > maxSpd {
			scale := maxSpd / spd
			p.VX *= scale
			p.VY *= scale
		}
		nx, ny := p.X+p.VX*dt, p.Y+p.VY*dt
		if _, walkable := m.terrain.TerrainAt(nx, ny); walkable {
			p.X, p.Y = nx, ny
		} else {
			p.VX, p.VY = 0, 0
		}
		if p.moveX != 0 || p.moveY != 0 {
			p.Facing = math.Atan2(p.moveY, p.moveX)
		}
	}

	// Bounty pulses: periodic location beacons for flagged players
	m.pulseAcc += dt
	if m.pulseAcc >= BountyPulseEvery {
		m.pulseAcc -= BountyPulseEvery
		for _, p := range m.set.Players {
			if p.Bounty && p.Alive {
				m.emitEvent(GameEvent{Type: EvBountyPulse, Victim: p.ID, X: round1(p.X), Y: round1(p.Y)})
			}
		}
	}
}

// stepProjectiles runs phase 6: integrate, collide by distance threshold,
// resolve through the combat resolver.
func (m *MatchInstance) stepProjectiles(dt float64) {
	w, h := m.terrain.Bounds()
	for id, proj := range m.set.Projectiles {
		proj.Step(dt, w, h)
		if !proj.Alive {
			delete(m.set.Projectiles, id)
			continue
		}
		hit := false
		for _, p := range m.set.Players {
			if p.ID == proj.OwnerSlot || !p.Alive {
				continue
			}
			if DistanceSq(proj.X, proj.Y, p.X, p.Y) <= (ProjectileRadius+PlayerRadius)*(ProjectileRadius+PlayerRadius) {
				m.resolver.ResolveProjectileHit(proj, p, nil)
				hit = true
				break
			}
		}
		if !hit {
			for _, mob := range m.set.Mobs {
				if !mob.Alive {
					continue
				}
				r := ProjectileRadius + mob.Def().Radius
				if DistanceSq(proj.X, proj.Y, mob.X, mob.Y) <= r*r {
					m.resolver.ResolveProjectileHit(proj, nil, mob)
					hit = true
					break
				}
			}
		}
		if hit {
			delete(m.set.Projectiles, id)
		}
	}
}

// stepPickups runs phase 7: despawn timers and proximity collection
func (m *MatchInstance) stepPickups(dt float64) {
	for id, pk := range m.set.Pickups {
		pk.Step(dt)
		if !pk.Alive {
			delete(m.set.Pickups, id)
			continue
		}
		for _, p := range m.set.Players {
			if !p.Alive {
				continue
			}
			if DistanceSq(pk.X, pk.Y, p.X, p.Y) > PickupReach*PickupReach {
				continue
			}
			switch pk.Kind {
			case PickupGold:
				p.Gold += pk.Amount
				m.resolver.updateBounty(p)
			case PickupPotion:
				def := ConsumableByID[PotionHealth]
				if p.Consumables[def.ID] >= def.MaxStack {
					continue // inventory full, leave it on the ground
				}
				p.Consumables[def.ID] += pk.Amount
			}
			m.emitEvent(GameEvent{Type: EvPickupCollected, Victim: p.ID, PickupID: pk.ID, Gold: pk.Amount})
			delete(m.set.Pickups, id)
			break
		}
	}
}

// stepMobRespawns runs phase 9: queued timers spawn same-type mobs at
// the dead mob's origin.
func (m *MatchInstance) stepMobRespawns(dt float64) {
	queue := m.set.RespawnQueue[:0]
	for _, r := range m.set.RespawnQueue {
		r.T -= dt
		if r.T <= 0 {
			m.set.SpawnMob(r.Type, r.X, r.Y)
		} else {
			queue = append(queue, r)
		}
	}
	m.set.RespawnQueue = queue
}

// buildSnapshot serializes the post-phase-9 state of this tick
func (m *MatchInstance) buildSnapshot() *Snapshot {
	snap := &Snapshot{
		Tick:        m.tick,
		Players:     make([]PlayerState, 0, len(m.set.Players)),
		Projectiles: make([]ProjectileState, 0, len(m.set.Projectiles)),
		Mobs:        make([]MobState, 0, len(m.set.Mobs)),
		Pickups:     make([]PickupState, 0, len(m.set.Pickups)),
		Hill:        m.set.Hill.ToState(),
	}
	for _, p := range m.set.Players {
		snap.Players = append(snap.Players, p.ToState())
	}
	for _, mob := range m.set.Mobs {
		snap.Mobs = append(snap.Mobs, mob.ToState())
	}
	for _, proj := range m.set.Projectiles {
		snap.Projectiles = append(snap.Projectiles, proj.ToState())
	}
	for _, pk := range m.set.Pickups {
		snap.Pickups = append(snap.Pickups, pk.ToState())
	}
	return snap
}
