package model

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/internal/engine/mesh"
	"github.com/Faultbox/skelanim/internal/engine/skeleton"
)

type testBone struct {
	name, parent string
	length       float32
}

func newTestModel(t *testing.T, slots int, bones ...testBone) *Model {
	t.Helper()
	m := New("test", slots)
	for _, b := range bones {
		if _, err := m.Skeleton().AddBone(b.parent, skeleton.Bone{Name: b.name, Length: b.length}); err != nil {
			t.Fatalf("AddBone(%q) error: %v", b.name, err)
		}
	}
	if err := m.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	return m
}

type testFrame struct {
	interval int
	rot      []float32
}

func newTestAnimation(t *testing.T, bones int, frames ...testFrame) *animation.Animation {
	t.Helper()
	a, err := animation.New(len(frames), bones)
	if err != nil {
		t.Fatalf("animation.New() error: %v", err)
	}
	for _, f := range frames {
		if err := a.InsertFrame(f.rot, f.interval); err != nil {
			t.Fatalf("InsertFrame() error: %v", err)
		}
	}
	return a
}

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func TestNewSlots(t *testing.T) {
	if got := New("a", -3).Slots(); got != 1 {
		t.Errorf("New(-3).Slots() = %d, want 1", got)
	}
	if got := New("a", 0).Slots(); got != 0 {
		t.Errorf("New(0).Slots() = %d, want 0", got)
	}
}

func TestFinalizeOrder(t *testing.T) {
	m := newTestModel(t, 1,
		testBone{"Body", "", 1},
		testBone{"Wing", "Body", 1},
		testBone{"Neck", "Body", 1},
		testBone{"Tip", "Wing", 1},
	)
	want := []string{"Body", "Wing", "Tip", "Neck"}
	bones := m.Bones()
	if len(bones) != len(want) || m.BoneCount() != len(want) {
		t.Fatalf("BoneCount() = %d, want %d", m.BoneCount(), len(want))
	}
	for i, b := range bones {
		if b.Name != want[i] {
			t.Errorf("bone %d = %q, want %q", i, b.Name, want[i])
		}
	}
	if p := m.Parents(); p[0] != -1 || p[1] != 0 || p[2] != 1 || p[3] != 0 {
		t.Errorf("Parents() = %v", p)
	}
}

func TestAddAnimation(t *testing.T) {
	m := newTestModel(t, 1, testBone{"Root", "", 1})
	a := newTestAnimation(t, 1, testFrame{10, []float32{0, 0, 0}})

	slot, err := m.AddAnimation(a)
	if err != nil || slot != 0 {
		t.Fatalf("AddAnimation() = %d, %v", slot, err)
	}
	if m.Animation(0) != a || m.Animation(1) != nil {
		t.Error("Animation() lookup mismatch")
	}
	if _, err := m.AddAnimation(a); !errors.Is(err, ErrNoFreeSlot) {
		t.Errorf("AddAnimation(full) error = %v, want ErrNoFreeSlot", err)
	}

	wide := newTestAnimation(t, 2, testFrame{10, []float32{0, 0, 0, 0, 0, 0}})
	m2 := newTestModel(t, 2, testBone{"Root", "", 1})
	if _, err := m2.AddAnimation(wide); !errors.Is(err, ErrAnimationWidth) {
		t.Errorf("AddAnimation(wide) error = %v, want ErrAnimationWidth", err)
	}
}

func TestGetFrameSetRotations(t *testing.T) {
	m := newTestModel(t, 1, testBone{"Root", "", 1}, testBone{"Arm", "Root", 1})
	rots := []float32{1, 2, 3, 4, 5, 6}
	if err := m.SetRotations(rots); err != nil {
		t.Fatalf("SetRotations() error: %v", err)
	}
	if m.Bone(1).Rotation != [3]float32{4, 5, 6} {
		t.Errorf("Arm rotation = %v", m.Bone(1).Rotation)
	}
	got := m.GetFrame()
	for i := range rots {
		if got[i] != rots[i] {
			t.Fatalf("GetFrame() = %v, want %v", got, rots)
		}
	}
	if err := m.SetRotations(rots[:3]); !errors.Is(err, ErrRotationCount) {
		t.Errorf("SetRotations(short) error = %v, want ErrRotationCount", err)
	}
}

func TestCloneSharesGeometryAndAnimations(t *testing.T) {
	geom := mesh.NewBuffer(make([]float32, 3*mesh.Stride), 3, mesh.Bounds{})
	m := New("bird", 1)
	if _, err := m.Skeleton().AddRoot(skeleton.Bone{Name: "Root", Length: 1, Geometry: geom}); err != nil {
		t.Fatal(err)
	}
	if err := m.Finalize(); err != nil {
		t.Fatal(err)
	}
	a := newTestAnimation(t, 1,
		testFrame{100, []float32{0, 0, 0}},
		testFrame{100, []float32{90, 0, 0}},
	)
	if _, err := m.AddAnimation(a); err != nil {
		t.Fatal(err)
	}
	m.Pose = [6]float32{1, 2, 3, 0, 45, 0}

	c := m.Clone()
	if c.Animation(0) != a || c.Bone(0).Geometry != geom || geom.Refs() != 2 {
		t.Fatalf("clone does not share: refs = %d", geom.Refs())
	}
	if c.Pose != m.Pose || c.Playing() {
		t.Errorf("clone pose = %v, playing = %v", c.Pose, c.Playing())
	}

	if err := c.StartAnimation(0, 0); err != nil {
		t.Fatal(err)
	}
	c.Animate(50)
	c.Pose[PoseX] = 100
	if m.Bone(0).Rotation != [3]float32{} || m.Pose[PoseX] != 1 || m.Playing() {
		t.Errorf("original changed by clone: rot = %v pose = %v", m.Bone(0).Rotation, m.Pose)
	}

	c.Release()
	if geom.Freed() || m.Bone(0).Geometry.Data() == nil {
		t.Fatal("clone release freed shared geometry")
	}
	if got, _ := m.Animation(0).Frame(1); got[0] != 90 {
		t.Errorf("animation frame changed: %v", got)
	}
	m.Release()
	if !geom.Freed() {
		t.Error("geometry not freed after both releases")
	}
}

func TestInfo(t *testing.T) {
	shared := mesh.NewBuffer(make([]float32, 6*mesh.Stride), 6, mesh.Bounds{})
	other := mesh.NewBuffer(make([]float32, 3*mesh.Stride), 3, mesh.Bounds{})
	m := New("bird", 3)
	s := m.Skeleton()
	_, _ = s.AddRoot(skeleton.Bone{Name: "Body", Geometry: other})
	_, _ = s.AddBone("Body", skeleton.Bone{Name: "WingL", Geometry: shared})
	_, _ = s.AddBone("Body", skeleton.Bone{Name: "WingR", Geometry: shared.Retain()})
	_, _ = s.AddBone("Body", skeleton.Bone{Name: "Joint"})
	if err := m.Finalize(); err != nil {
		t.Fatal(err)
	}
	_, _ = m.AddAnimation(newTestAnimation(t, 4,
		testFrame{100, make([]float32, 12)},
		testFrame{150, make([]float32, 12)},
	))
	m.Texture = 7

	info := m.Info()
	if info.Name != "bird" || info.Bones != 4 || info.Meshes != 2 || info.Triangles != 3 {
		t.Errorf("Info() = %+v", info)
	}
	if info.Slots != 3 || info.Texture != 7 || len(info.Animations) != 1 {
		t.Errorf("Info() = %+v", info)
	}
	if a := info.Animations[0]; a.Slot != 0 || a.Frames != 2 || a.Duration != 250 {
		t.Errorf("AnimationInfo = %+v", a)
	}
}
