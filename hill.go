package main

// Hill capture tuning
const (
	hillRadius        = 90.0
	hillActivateAfter = 45.0 // seconds of match time before contestable
	hillCaptureTime   = 8.0  // seconds alone on the hill to become holder
	hillHoldToWin     = 30.0 // held seconds (paused while contested) to win
)

// HillPhase is the capture state machine phase
type HillPhase int

const (
	HillInactive HillPhase = iota
	HillContestable
	HillCapturing
	HillHeld
	HillWon // terminal
)

// Hill is the single per-match capture objective.
//
// Inactive -> Contestable -> {Capturing <-> Contestable} -> Held -> Won.
// Capture progress resets whenever the occupant count differs from one;
// the Held hold timer pauses (never resets) while a rival contests.
type Hill struct {
	X, Y   float64
	Radius float64

	Phase     HillPhase
	ActivateT float64 // countdown until contestable
	Progress  float64 // seconds toward hillCaptureTime
	Capturer  int     // slot, -1 when unset
	Holder    int     // slot, -1 when unset
	HoldT     float64 // accumulated hold seconds
}

// NewHill creates the hill at the map's hill spawn point
func NewHill(at Point) *Hill {
	return &Hill{
		X:         at.X,
		Y:         at.Y,
		Radius:    hillRadius,
		Phase:     HillInactive,
		ActivateT: hillActivateAfter,
		Capturer:  -1,
		Holder:    -1,
	}
}

// Step advances the state machine one tick. occupants is the set of
// living, non-safe-zone player slots inside the radius. Returns the
// winning slot when the hill transitions to Won, otherwise -1.
func (h *Hill) Step(dt float64, occupants []int) int {
	switch h.Phase {
	case HillWon:
		return -1

	case HillInactive:
		h.ActivateT -= dt
		if h.ActivateT <= 0 {
			h.Phase = HillContestable
		}
		return -1

	case HillContestable, HillCapturing:
		if len(occupants) != 1 {
			h.Progress = 0
			h.Capturer = -1
			h.Phase = HillContestable
			return -1
		}
		occ := occupants[0]
		if h.Capturer != occ {
			h.Progress = 0
			h.Capturer = occ
		}
		h.Phase = HillCapturing
		h.Progress += dt
		if h.Progress >= hillCaptureTime {
			h.Phase = HillHeld
			h.Holder = h.Capturer
			h.Capturer = -1
			h.Progress = 0
			h.HoldT = 0
		}
		return -1

	case HillHeld:
		holderPresent := false
		for _, occ := range occupants {
			if occ == h.Holder {
				holderPresent = true
				break
			}
		}
		if !holderPresent {
			// Holder left or died: full revert
			h.Phase = HillContestable
			h.Holder = -1
			h.HoldT = 0
			h.Progress = 0
			h.Capturer = -1
			return -1
		}
		if len(occupants) > 1 {
			// Contested: the hold timer pauses, it does not reset
			return -1
		}
		h.HoldT += dt
		if h.HoldT >= hillHoldToWin {
			h.Phase = HillWon
			return h.Holder
		}
		return -1
	}
	return -1
}

// Contains reports whether a position is inside the hill radius
func (h *Hill) Contains(x, y float64) bool {
	return DistanceSq(x, y, h.X, h.Y) <= h.Radius*h.Radius
}

// ToState converts to the snapshot representation
func (h *Hill) ToState() HillSnapshot {
	return HillSnapshot{
		X:        h.X,
		Y:        h.Y,
		State:    int(h.Phase),
		Progress: round1(h.Progress),
		Capturer: h.Capturer,
		Holder:   h.Holder,
		HoldTime: round1(h.HoldT),
	}
}
