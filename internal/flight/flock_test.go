package flight

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/internal/engine/mesh"
	"github.com/Faultbox/skelanim/internal/engine/model"
	"github.com/Faultbox/skelanim/internal/engine/skeleton"
)

func newBase(t *testing.T) (*model.Model, *mesh.Buffer) {
	t.Helper()
	geom := mesh.NewBuffer(make([]float32, 3*mesh.Stride), 3, mesh.Bounds{})
	m := model.New("bird", 1)
	if _, err := m.Skeleton().AddRoot(skeleton.Bone{Name: "Body", Length: 2, Geometry: geom}); err != nil {
		t.Fatal(err)
	}
	if err := m.Finalize(); err != nil {
		t.Fatal(err)
	}
	a, _ := animation.New(2, 1)
	_ = a.InsertFrame([]float32{0, 0, 0}, 100)
	_ = a.InsertFrame([]float32{0, 0, 40}, 100)
	if _, err := m.AddAnimation(a); err != nil {
		t.Fatal(err)
	}
	return m, geom
}

func TestAddRanges(t *testing.T) {
	base, geom := newBase(t)
	f := NewFlock(base, Options{WorldSize: 512, MaxBirds: 20, Seed: 7})

	for i := 0; i < 20; i++ {
		p, err := f.Add(0)
		if err != nil {
			t.Fatalf("Add(%d) error: %v", i, err)
		}
		if p.Radius < 60 || p.Radius >= 160 {
			t.Errorf("radius %v out of [60, 160)", p.Radius)
		}
		if p.Speed < 80 || p.Speed >= 120 {
			t.Errorf("speed %v out of [80, 120)", p.Speed)
		}
		if p.Centre.Y < 20 || p.Centre.Y >= 60 {
			t.Errorf("height %v out of [20, 60)", p.Centre.Y)
		}
		if gomath.Abs(float64(p.Centre.X)) > 256 || gomath.Abs(float64(p.Centre.Z)) > 256 {
			t.Errorf("centre %v outside the world", p.Centre)
		}
		if !p.Model.Playing() || p.Model.Current() != 0 {
			t.Errorf("bird %d not playing animation 0", i)
		}
	}

	if geom.Refs() != 21 {
		t.Errorf("geometry refs = %d, want base + 20 clones", geom.Refs())
	}
	if _, err := f.Add(0); !errors.Is(err, ErrFlockFull) {
		t.Errorf("Add() past capacity error = %v, want ErrFlockFull", err)
	}
	if f.Len() != 20 {
		t.Errorf("Len() = %d, want 20", f.Len())
	}

	f.Release()
	if geom.Refs() != 1 || f.Len() != 0 {
		t.Errorf("after Release: refs = %d, Len() = %d", geom.Refs(), f.Len())
	}
	base.Release()
	if !geom.Freed() {
		t.Error("geometry not freed")
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	base, _ := newBase(t)
	a := NewFlock(base, Options{WorldSize: 512, MaxBirds: 3, Seed: 11})
	b := NewFlock(base, Options{WorldSize: 512, MaxBirds: 3, Seed: 11})
	for i := 0; i < 3; i++ {
		pa, _ := a.Add(0)
		pb, _ := b.Add(0)
		if pa.Centre != pb.Centre || pa.Radius != pb.Radius || pa.Speed != pb.Speed {
			t.Errorf("bird %d differs between equal seeds", i)
		}
	}
}

func TestUpdateMovesAlongOrbit(t *testing.T) {
	base, _ := newBase(t)
	f := NewFlock(base, Options{WorldSize: 512, MaxBirds: 1, Seed: 3})
	p, err := f.Add(0)
	if err != nil {
		t.Fatal(err)
	}

	f.Update(0)
	angle := p.Angle
	f.Update(450)

	want := float32(gomath.Mod(float64(angle+0.45*p.Speed), 360))
	if gomath.Abs(float64(p.Angle-want)) > 1e-3 {
		t.Errorf("angle = %v, want %v", p.Angle, want)
	}

	// The pose was placed at the angle before this update.
	m := p.Model
	dx := float64(m.Pose[model.PoseX] - p.Centre.X)
	dz := float64(m.Pose[model.PoseZ] - p.Centre.Z)
	if r := gomath.Hypot(dx, dz); gomath.Abs(r-float64(p.Radius)) > 1e-3 {
		t.Errorf("distance from centre = %v, want %v", r, p.Radius)
	}
	if m.Pose[model.PoseY] != p.Centre.Y {
		t.Errorf("height = %v, want %v", m.Pose[model.PoseY], p.Centre.Y)
	}

	// Each clone animates on its own; the base model is untouched.
	if got := m.Bone(0).Rotation[2]; got == 0 {
		t.Error("clone did not animate")
	}
	if base.Bone(0).Rotation[2] != 0 {
		t.Errorf("base rotated: %v", base.Bone(0).Rotation)
	}
}

func TestAngleWraps(t *testing.T) {
	p := &Pattern{Model: model.New("x", 0), Angle: 350, Speed: 100}
	p.fly(0.5)
	if p.Angle < 0 || p.Angle >= 360 || gomath.Abs(float64(p.Angle-40)) > 1e-3 {
		t.Errorf("angle = %v, want 40", p.Angle)
	}
	if got := p.Model.Pose[model.PoseRY]; got != -350+90 {
		t.Errorf("heading = %v, want %v", got, -350+90)
	}
}
