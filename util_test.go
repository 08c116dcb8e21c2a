package main

import "testing"

func TestClampRange(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestDistances(t *testing.T) {
	if d := Distance(0, 0, 3, 4); d != 5 {
		t.Errorf("Distance(0,0,3,4) = %f, want 5", d)
	}
	if d2 := DistanceSq(0, 0, 3, 4); d2 != 25 {
		t.Errorf("DistanceSq(0,0,3,4) = %f, want 25", d2)
	}
}

func TestNormalizeVector(t *testing.T) {
	x, y := Normalize(3, 4)
	if x != 0.6 || y != 0.8 {
		t.Errorf("Normalize(3,4) = (%f, %f), want (0.6, 0.8)", x, y)
	}

	// Zero vector stays zero instead of dividing by zero
	x, y = Normalize(0, 0)
	if x != 0 || y != 0 {
		t.Errorf("Normalize(0,0) = (%f, %f), want (0, 0)", x, y)
	}
}

func TestNormalizeAngleWraps(t *testing.T) {
	tests := []struct {
		input, wantApprox float64
	}{
		{0, 0},
		{3.14159, 3.14159},
		{-3.14159, -3.14159},
		{7, 7 - 2*3.14159265358979},
	}
	for _, tt := range tests {
		got := NormalizeAngle(tt.input)
		diff := got - tt.wantApprox
		if diff > 0.01 || diff < -0.01 {
			t.Errorf("NormalizeAngle(%f) = %f, want ~%f", tt.input, got, tt.wantApprox)
		}
	}
}

func TestRound1(t *testing.T) {
	if got := round1(1.26); got != 1.3 {
		t.Errorf("round1(1.26) = %f, want 1.3", got)
	}
	if got := round1(-1.24); got != -1.2 {
		t.Errorf("round1(-1.24) = %f, want -1.2", got)
	}
}
