// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestLerp(t *testing.T) {
	tests := []struct {
		a, b, f, want float32
	}{
		{0, 10, 0, 0},
		{0, 10, 1, 10},
		{0, 10, 0.5, 5},
		{-4, 4, 0.25, -2},
	}
	for _, tc := range tests {
		if got := Lerp(tc.a, tc.b, tc.f); got != tc.want {
			t.Errorf("Lerp(%v,%v,%v) = %v, want %v", tc.a, tc.b, tc.f, got, tc.want)
		}
	}
}

func TestFloorCeilDiv(t *testing.T) {
	if got := FloorDiv(-1, 16); got != -1 {
		t.Errorf("FloorDiv(-1,16) = %v, want -1", got)
	}
	if got := FloorDiv(32, 16); got != 2 {
		t.Errorf("FloorDiv(32,16) = %v, want 2", got)
	}
	if got := CeilDiv(33, 16); got != 3 {
		t.Errorf("CeilDiv(33,16) = %v, want 3", got)
	}
	if got := CeilDiv(-17, 16); got != -1 {
		t.Errorf("CeilDiv(-17,16) = %v, want -1", got)
	}
}

func TestCeilSqrt(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 0}, {1, 1}, {2, 2}, {4, 2}, {5, 3}, {9, 3}, {10, 4}, {1000, 32},
	}
	for _, tc := range tests {
		if got := CeilSqrt(tc.n); got != tc.want {
			t.Errorf("CeilSqrt(%v) = %v, want %v", tc.n, got, tc.want)
		}
	}
}

func TestRadians(t *testing.T) {
	near := func(a, b float32) bool {
		d := a - b
		return d < 1e-4 && d > -1e-4
	}
	if got := Radians(180); !near(got, Pi) {
		t.Errorf("Radians(180) = %v, want %v", got, Pi)
	}
	if got := Degrees(Pi / 2); !near(got, 90) {
		t.Errorf("Degrees(Pi/2) = %v, want 90", got)
	}
}
