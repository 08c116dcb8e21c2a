package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoinLobby  = "join_lobby"
	MsgLeaveLobby = "leave_lobby"
	MsgInput      = "input"
	MsgAction     = "action"
	MsgRegister   = "register"
	MsgLogin      = "login"
	MsgAuth       = "auth"
	MsgProfile    = "profile"
)

// Server -> Client message types. Snapshots travel as binary msgpack
// frames with no envelope; everything else is a JSON Envelope.
const (
	MsgWelcome       = "welcome"
	MsgLobbyUpdate   = "lobby_update"
	MsgMatchStart    = "match_start"
	MsgEvent         = "event"
	MsgReturnToLobby = "return_to_lobby"
	MsgError         = "error"
	MsgAuthOK        = "auth_ok"
	MsgProfileData   = "profile_data"
)

// Envelope wraps all outgoing JSON messages with a type tag
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage defers payload decoding
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// PlayerInput is the unreliable, latest-wins movement/attack intent.
// At most one is applied per peer per tick; newer inputs overwrite older ones.
type PlayerInput struct {
	MX     float64 `json:"mx"` // movement vector X, normalized server-side
	MY     float64 `json:"my"` // movement vector Y
	Attack bool    `json:"atk,omitempty"`
	AX     float64 `json:"ax,omitempty"` // attack target point X (world coords)
	AY     float64 `json:"ay,omitempty"` // attack target point Y
}

// Action types for the reliable action queue
const (
	ActBuyEquipment  = "buy_equipment"
	ActBuyConsumable = "buy_consumable"
	ActBuySkill      = "buy_skill"
	ActUsePotion     = "use_potion"
	ActSwitchSlot    = "switch_slot"
)

// PlayerAction is a reliable, queued, apply-once command. Type selects the
// variant; unused payload fields are ignored by the handler.
type PlayerAction struct {
	Type string `json:"type"`
	Item string `json:"item,omitempty"` // equipment/consumable/skill id
	Kind string `json:"kind,omitempty"` // potion kind for use_potion
	Slot int    `json:"slot,omitempty"` // target slot for switch_slot
}

// JoinLobbyMsg carries the display name for a lobby join
type JoinLobbyMsg struct {
	Name string `json:"name"`
}

// LobbyUpdate is broadcast periodically to every peer not in a match
type LobbyUpdate struct {
	Count     int     `json:"count"`
	Countdown float64 `json:"countdown"` // seconds, -1 while below minimum
	Map       string  `json:"map"`
}

// MatchStart tells a peer its match assignment
type MatchStart struct {
	MatchID string `json:"mid"`
	Seed    int64  `json:"seed"`
	Map     string `json:"map"`
	Slot    int    `json:"slot"`
	Humans  int    `json:"humans"`
}

// Game event types
const (
	EvHit             = "hit"
	EvKill            = "kill"
	EvMobDeath        = "mob_death"
	EvRareDrop        = "rare_drop"
	EvPickupCollected = "pickup_collected"
	EvBountyClaimed   = "bounty_claimed"
	EvBountyPulse     = "bounty_pulse"
	EvTurretFire      = "turret_fire"
	EvMatchOver       = "match_over"
)

// GameEvent is a discrete, reliable occurrence. Events carry data a
// snapshot diff cannot reconstruct (e.g. gold stolen on a kill), so
// clients must never infer them from snapshots.
type GameEvent struct {
	Type     string  `json:"t"`
	Attacker int     `json:"atk"` // player slot, -1 when absent
	Victim   int     `json:"vic"`
	MobID    string  `json:"mob,omitempty"`
	PickupID string  `json:"pk,omitempty"`
	Gold     int     `json:"gold,omitempty"`
	Damage   int     `json:"dmg,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	WinnerID int     `json:"win"`
	Winner   string  `json:"winner,omitempty"`
}

// Snapshot is the full, rate-limited authoritative state dump. Clients
// interpolate toward it; they never diff consecutive snapshots.
// Encoded with msgpack and sent as a binary WebSocket frame.
type Snapshot struct {
	Tick        uint64            `msgpack:"t"`
	Players     []PlayerState     `msgpack:"p"`
	Mobs        []MobState        `msgpack:"m"`
	Projectiles []ProjectileState `msgpack:"pr"`
	Pickups     []PickupState     `msgpack:"pk"`
	Hill        HillSnapshot      `msgpack:"h"`
}

// PlayerState is the per-player slice of a snapshot
type PlayerState struct {
	ID      int            `msgpack:"id"` // stable slot index
	Name    string         `msgpack:"n"`
	X       float64        `msgpack:"x"`
	Y       float64        `msgpack:"y"`
	VX      float64        `msgpack:"vx"`
	VY      float64        `msgpack:"vy"`
	HP      int            `msgpack:"hp"`
	MaxHP   int            `msgpack:"mhp"`
	Gold    int            `msgpack:"g"`
	Alive   bool           `msgpack:"a"`
	Respawn float64        `msgpack:"rs,omitempty"`
	Weapon  string         `msgpack:"w"`
	Bow     string         `msgpack:"b"`
	Armor   string         `msgpack:"ar"`
	Slot    int            `msgpack:"sl"` // 0 = melee, 1 = bow
	Streak  int            `msgpack:"st,omitempty"`
	Bounty  bool           `msgpack:"by,omitempty"`
	Shield  float64        `msgpack:"sh,omitempty"` // shield buff seconds left
	Potions map[string]int `msgpack:"po,omitempty"`
	Skills  map[string]int `msgpack:"sk,omitempty"`
}

// MobState is the per-mob slice of a snapshot
type MobState struct {
	ID    string  `msgpack:"id"`
	Type  string  `msgpack:"ty"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	HP    int     `msgpack:"hp"`
	MaxHP int     `msgpack:"mhp"`
}

// ProjectileState is the per-projectile slice of a snapshot
type ProjectileState struct {
	ID    string  `msgpack:"id"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	VX    float64 `msgpack:"vx"`
	VY    float64 `msgpack:"vy"`
	Owner int     `msgpack:"o"`
}

// PickupState is the per-pickup slice of a snapshot
type PickupState struct {
	ID     string  `msgpack:"id"`
	Kind   string  `msgpack:"k"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	Amount int     `msgpack:"am"`
}

// HillSnapshot mirrors the hill state machine for clients
type HillSnapshot struct {
	X        float64 `msgpack:"x"`
	Y        float64 `msgpack:"y"`
	State    int     `msgpack:"s"`
	Progress float64 `msgpack:"pr"`
	Capturer int     `msgpack:"c"` // slot, -1 when unset
	Holder   int     `msgpack:"h"` // slot, -1 when unset
	HoldTime float64 `msgpack:"ht"`
}

// Auth messages (account layer on top of the peer identity)
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthMsg struct {
	Token string `json:"token"`
}

type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"pid"`
}

type ProfileDataMsg struct {
	Username string `json:"username"`
	Kills    int    `json:"kills"`
	Deaths   int    `json:"deaths"`
	Wins     int    `json:"wins"`
	Matches  int    `json:"matches"`
	Gold     int    `json:"gold"` // lifetime gold earned
}

// WelcomeMsg is sent once per connection with the assigned peer id
type WelcomeMsg struct {
	PeerID string `json:"peer"`
}

// ErrorMsg sends a human-readable error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
