package math

import (
	"testing"
)

func approx(a, b float32) bool {
	d := a - b
	return d < 1e-4 && d > -1e-4
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3AddSubScale(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add() = %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub() = %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale() = %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot() = %v, want 32", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	if !approx(n.Length(), 1) {
		t.Errorf("Normalize().Length() = %v, want ~1", n.Length())
	}
	if !approx(n.X, 0.6) || !approx(n.Y, 0.8) {
		t.Errorf("Normalize() = %v, want (0.6, 0.8, 0)", n)
	}

	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("zero vector normalized to %v, want zero", got)
	}
}

func TestVec3Clamp(t *testing.T) {
	got := Vec3{-5, 0.5, 9}.Clamp(0, 1)
	want := Vec3{0, 0.5, 1}
	if got != want {
		t.Errorf("Clamp() = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{10, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		v, m, want float32
	}{
		{370, 360, 10},
		{360, 360, 0},
		{45, 360, 45},
		{-30, 360, 330},
		{725, 360, 5},
	}
	for _, tt := range tests {
		if got := Mod(tt.v, tt.m); !approx(got, tt.want) {
			t.Errorf("Mod(%v, %v) = %v, want %v", tt.v, tt.m, got, tt.want)
		}
	}
}
