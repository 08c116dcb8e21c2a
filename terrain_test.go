package main

import "testing"

func TestArenaMapLayout(t *testing.T) {
	m := NewArenaMap("greenfields", 42)
	w, h := m.Bounds()
	pts := m.SpawnPoints()

	if pts.Hill.X != w/2 || pts.Hill.Y != h/2 {
		t.Errorf("hill should be centered, got (%f, %f)", pts.Hill.X, pts.Hill.Y)
	}
	if len(pts.Shops) != 4 {
		t.Fatalf("expected 4 shops, got %d", len(pts.Shops))
	}
	if len(pts.Players) != 8 {
		t.Fatalf("expected 8 player spawns, got %d", len(pts.Players))
	}
	for i, p := range pts.Players {
		if p.X < 0 || p.X > w || p.Y < 0 || p.Y > h {
			t.Errorf("spawn %d out of bounds: (%f, %f)", i, p.X, p.Y)
		}
	}
	for _, z := range pts.MobZones {
		if z.Count < 1 {
			t.Errorf("mob zone at (%f, %f) spawns nothing", z.Pos.X, z.Pos.Y)
		}
		if _, ok := MobDefs[z.MobType]; !ok {
			t.Errorf("unknown mob type %q", z.MobType)
		}
	}
}

func TestTerrainOutOfBoundsNotWalkable(t *testing.T) {
	m := NewArenaMap("greenfields", 1)
	w, h := m.Bounds()

	cases := []struct{ x, y float64 }{
		{-1, 100}, {100, -1}, {w + 1, 100}, {100, h + 1},
	}
	for _, c := range cases {
		if _, walkable := m.TerrainAt(c.x, c.y); walkable {
			t.Errorf("(%f, %f) should not be walkable", c.x, c.y)
		}
	}
	if mul, walkable := m.TerrainAt(w/2, h/2); !walkable || mul != 1.0 {
		t.Errorf("hill center should be clear ground, got mul=%f walkable=%v", mul, walkable)
	}
}

func TestLandmarksStayClearOfRocks(t *testing.T) {
	m := NewArenaMap("ashlands", 7)
	pts := m.SpawnPoints()

	check := func(label string, p Point) {
		if _, walkable := m.TerrainAt(p.X, p.Y); !walkable {
			t.Errorf("%s at (%f, %f) is blocked by a rock", label, p.X, p.Y)
		}
	}
	check("hill", pts.Hill)
	for _, s := range pts.Shops {
		check("shop", s)
	}
	for _, p := range pts.Players {
		check("spawn", p)
	}
}

func TestTerrainDeterministicPerSeed(t *testing.T) {
	a := NewArenaMap("frostmere", 123)
	b := NewArenaMap("frostmere", 123)

	// Same seed, same obstacles everywhere
	for x := 0.0; x < arenaWidth; x += 97 {
		for y := 0.0; y < arenaHeight; y += 97 {
			am, aw := a.TerrainAt(x, y)
			bm, bw := b.TerrainAt(x, y)
			if am != bm || aw != bw {
				t.Fatalf("terrain differs at (%f, %f) for identical seeds", x, y)
			}
		}
	}
}

func TestMudSlowsMovement(t *testing.T) {
	m := NewArenaMap("greenfields", 5)
	found := false
	for x := 0.0; x < arenaWidth && !found; x += 13 {
		for y := 0.0; y < arenaHeight && !found; y += 13 {
			if mul, walkable := m.TerrainAt(x, y); walkable && mul == mudSpeedMul {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected at least one mud patch on the map")
	}
}
