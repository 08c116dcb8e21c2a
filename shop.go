package main

const SafeZoneRadius = 140.0 // turret-protected radius around each shop

// Shop is a fixed trade point. It is stateless except identity; all
// affordability checks run against a Player and the static item tables.
type Shop struct {
	ID   int
	X, Y float64
}

// InSafeZone reports whether a position is inside any shop's safe zone
func InSafeZone(shops []Shop, x, y float64) bool {
	for _, s := range shops {
		if DistanceSq(x, y, s.X, s.Y) <= SafeZoneRadius*SafeZoneRadius {
			return true
		}
	}
	return false
}
