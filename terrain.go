package main

import (
	"math"
	"math/rand"
)

// Point is a world-space position
type Point struct {
	X, Y float64
}

// MobZone describes a mob spawn cluster
type MobZone struct {
	Pos     Point
	Radius  float64
	MobType string
	Count   int
}

// SpawnPoints is the precomputed layout of a map
type SpawnPoints struct {
	Hill     Point
	Shops    []Point
	Players  []Point
	MobZones []MobZone
}

// TerrainProvider is the pure query surface the simulation consumes.
// The core never mutates map state.
type TerrainProvider interface {
	// TerrainAt reports the movement speed multiplier at a position and
	// whether the position can be occupied at all.
	TerrainAt(x, y float64) (speedMul float64, walkable bool)
	SpawnPoints() SpawnPoints
	Bounds() (w, h float64)
}

const (
	arenaWidth  = 2400.0
	arenaHeight = 2400.0
	mudSpeedMul = 0.55
)

// MapNames lists the selectable arenas; the lobby rotates through them
var MapNames = []string{"greenfields", "ashlands", "frostmere"}

type rockPatch struct {
	x, y, r float64
}

type mudPatch struct {
	x, y, r float64
}

// ArenaMap is the built-in TerrainProvider: a bounded square arena with
// seeded rock obstacles and mud slow patches around a fixed layout of
// hill, shops, and spawn rings.
type ArenaMap struct {
	name   string
	w, h   float64
	rocks  []rockPatch
	mud    []mudPatch
	points SpawnPoints
}

// NewArenaMap builds the arena for a map name and seed. The layout
// skeleton (hill center, shop corners, player ring) is fixed per map;
// rock and mud placement derives from the seed.
func NewArenaMap(name string, seed int64) *ArenaMap {
	rng := rand.New(rand.NewSource(seed))
	m := &ArenaMap{name: name, w: arenaWidth, h: arenaHeight}

	cx, cy := m.w/2, m.h/2
	m.points.Hill = Point{X: cx, Y: cy}
	m.points.Shops = []Point{
		{X: 320, Y: 320},
		{X: m.w - 320, Y: 320},
		{X: 320, Y: m.h - 320},
		{X: m.w - 320, Y: m.h - 320},
	}
	// Eight player spawns on a ring between the shops and the hill
	for i := 0; i < 8; i++ {
		ang := float64(i) * (2 * math.Pi / 8)
		m.points.Players = append(m.points.Players, Point{
			X: cx + math.Cos(ang)*760,
			Y: cy + math.Sin(ang)*760,
		})
	}
	m.points.MobZones = []MobZone{
		{Pos: Point{X: cx, Y: 260}, Radius: 160, MobType: "slime", Count: 3},
		{Pos: Point{X: cx, Y: m.h - 260}, Radius: 160, MobType: "slime", Count: 3},
		{Pos: Point{X: 260, Y: cy}, Radius: 180, MobType: "wolf", Count: 2},
		{Pos: Point{X: m.w - 260, Y: cy}, Radius: 180, MobType: "wolf", Count: 2},
		{Pos: Point{X: cx + 520, Y: cy + 520}, Radius: 120, MobType: "brute", Count: 1},
	}

	// Scatter rocks, keeping the hill, shops, and player spawns clear
	rockCount := 14 + rng.Intn(8)
	for len(m.rocks) < rockCount {
		r := rockPatch{
			x: 120 + rng.Float64()*(m.w-240),
			y: 120 + rng.Float64()*(m.h-240),
			r: 30 + rng.Float64()*50,
		}
		if m.nearLandmark(r.x, r.y, r.r+140) {
			continue
		}
		m.rocks = append(m.rocks, r)
	}
	mudCount := 5 + rng.Intn(4)
	for len(m.mud) < mudCount {
		p := mudPatch{
			x: 150 + rng.Float64()*(m.w-300),
			y: 150 + rng.Float64()*(m.h-300),
			r: 90 + rng.Float64()*110,
		}
		if Distance(p.x, p.y, cx, cy) < p.r+hillRadius {
			continue
		}
		m.mud = append(m.mud, p)
	}
	return m
}

func (m *ArenaMap) nearLandmark(x, y, clearance float64) bool {
	if Distance(x, y, m.points.Hill.X, m.points.Hill.Y) < clearance+hillRadius {
		return true
	}
	for _, s := range m.points.Shops {
		if Distance(x, y, s.X, s.Y) < clearance {
			return true
		}
	}
	for _, p := range m.points.Players {
		if Distance(x, y, p.X, p.Y) < clearance {
			return true
		}
	}
	return false
}

// TerrainAt implements TerrainProvider
func (m *ArenaMap) TerrainAt(x, y float64) (float64, bool) {
	if x < 0 || y < 0 || x > m.w || y > m.h {
		return 0, false
	}
	for _, r := range m.rocks {
		if DistanceSq(x, y, r.x, r.y) < r.r*r.r {
			return 0, false
		}
	}
	for _, p := range m.mud {
		if DistanceSq(x, y, p.x, p.y) < p.r*p.r {
			return mudSpeedMul, true
		}
	}
	return 1.0, true
}

// SpawnPoints implements TerrainProvider
func (m *ArenaMap) SpawnPoints() SpawnPoints { return m.points }

// Bounds implements TerrainProvider
func (m *ArenaMap) Bounds() (float64, float64) { return m.w, m.h }

// Name returns the map name
func (m *ArenaMap) Name() string { return m.name }
