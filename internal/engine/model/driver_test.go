package model

import (
	"errors"
	"testing"
)

func twoFrameModel(t *testing.T) *Model {
	t.Helper()
	m := newTestModel(t, 2, testBone{"Root", "", 5})
	a := newTestAnimation(t, 1,
		testFrame{100, []float32{0, 0, 0}},
		testFrame{200, []float32{90, -40, 0}},
	)
	if _, err := m.AddAnimation(a); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestStartAnimationErrors(t *testing.T) {
	m := twoFrameModel(t)
	if err := m.StartAnimation(2, 0); !errors.Is(err, ErrAnimationIndex) {
		t.Errorf("StartAnimation(2) error = %v, want ErrAnimationIndex", err)
	}
	if err := m.StartAnimation(-1, 0); !errors.Is(err, ErrAnimationIndex) {
		t.Errorf("StartAnimation(-1) error = %v, want ErrAnimationIndex", err)
	}
	if err := m.StartAnimation(1, 0); !errors.Is(err, ErrEmptySlot) {
		t.Errorf("StartAnimation(1) error = %v, want ErrEmptySlot", err)
	}
	if m.Playing() {
		t.Error("failed start left the model playing")
	}
}

func TestStartAnimationFresh(t *testing.T) {
	m := twoFrameModel(t)
	_ = m.SetRotations([]float32{7, 7, 7})

	if err := m.StartAnimation(0, 1000); err != nil {
		t.Fatalf("StartAnimation() error: %v", err)
	}
	want := Playback{PrevIndex: 0, NextIndex: 1, PrevTime: 1000, NextTime: 1200}
	if got := m.Playback(); got != want {
		t.Errorf("Playback() = %+v, want %+v", got, want)
	}
	if m.Bone(0).Rotation != [3]float32{0, 0, 0} {
		t.Errorf("rotation = %v, want frame 0", m.Bone(0).Rotation)
	}
	if m.Current() != 0 {
		t.Errorf("Current() = %d, want 0", m.Current())
	}
}

func TestAdvanceTransition(t *testing.T) {
	m := twoFrameModel(t)
	if err := m.StartAnimation(0, 1000); err != nil {
		t.Fatal(err)
	}

	m.Advance(1199)
	if p := m.Playback(); p.PrevIndex != 0 || p.NextIndex != 1 {
		t.Fatalf("before the interval: (%d,%d), want (0,1)", p.PrevIndex, p.NextIndex)
	}

	m.Advance(1200)
	p := m.Playback()
	if p.PrevIndex != 1 || p.NextIndex != 0 {
		t.Fatalf("after the interval: (%d,%d), want (1,0)", p.PrevIndex, p.NextIndex)
	}
	if p.PrevTime != 1200 || p.NextTime != 1400 {
		t.Errorf("times = %d..%d, want 1200..1400", p.PrevTime, p.NextTime)
	}

	m.Advance(1300)
	if got := m.Playback(); got != p {
		t.Errorf("Advance inside the window moved it: %+v", got)
	}
}

func TestAdvanceSkipsFrames(t *testing.T) {
	m := newTestModel(t, 1, testBone{"Root", "", 1})
	_, _ = m.AddAnimation(newTestAnimation(t, 1,
		testFrame{100, []float32{0, 0, 0}},
		testFrame{100, []float32{10, 0, 0}},
		testFrame{100, []float32{20, 0, 0}},
	))
	_ = m.StartAnimation(0, 0)

	m.Advance(350)
	want := Playback{PrevIndex: 0, NextIndex: 1, PrevTime: 300, NextTime: 400}
	if got := m.Playback(); got != want {
		t.Errorf("Playback() = %+v, want %+v", got, want)
	}
}

func TestApply(t *testing.T) {
	m := twoFrameModel(t)
	_ = m.StartAnimation(0, 0)

	m.Apply(100)
	first := m.Bone(0).Rotation
	m.Apply(100)
	second := m.Bone(0).Rotation
	if first != second {
		t.Fatalf("Apply not idempotent: %v then %v", first, second)
	}
	if !approx(first[0], 45) || !approx(first[1], -20) || first[2] != 0 {
		t.Errorf("rotation at midpoint = %v, want [45 -20 0]", first)
	}

	m.Apply(200)
	if got := m.Bone(0).Rotation; got != [3]float32{90, -40, 0} {
		t.Errorf("rotation at next frame = %v", got)
	}
	// Channels already at the target are left alone.
	m.Apply(50)
	if got := m.Bone(0).Rotation; got != [3]float32{90, -40, 0} {
		t.Errorf("rotation after reaching target = %v", got)
	}
}

func TestAnimateLoops(t *testing.T) {
	m := twoFrameModel(t)
	_ = m.StartAnimation(0, 0)

	// Window 0->1 covers 0..200, then 1->0 covers 200..400.
	m.Animate(150)
	m.Animate(300)
	p := m.Playback()
	if p.PrevIndex != 1 || p.NextIndex != 0 {
		t.Fatalf("Playback() = %+v", p)
	}
	if got := m.Bone(0).Rotation; !approx(got[0], 45) || !approx(got[1], -20) {
		t.Errorf("rotation = %v, want halfway back to frame 0", got)
	}

	m.Animate(400)
	if p := m.Playback(); p.PrevIndex != 0 || p.NextIndex != 1 || p.PrevTime != 400 {
		t.Errorf("after one loop: %+v", p)
	}
}

func TestStartDifferentAnimation(t *testing.T) {
	m := twoFrameModel(t)
	_, _ = m.AddAnimation(newTestAnimation(t, 1,
		testFrame{50, []float32{0, 30, 0}},
		testFrame{50, []float32{0, 60, 0}},
	))

	_ = m.StartAnimation(0, 0)
	m.Animate(100) // halfway to frame 1: [45 -20 0]
	pose := m.Bone(0).Rotation

	if err := m.StartAnimation(1, 100); err != nil {
		t.Fatalf("StartAnimation(1) error: %v", err)
	}
	if m.Bone(0).Rotation != pose {
		t.Errorf("switching pushed rotations: %v, want %v", m.Bone(0).Rotation, pose)
	}
	want := Playback{PrevIndex: TransitionIndex, NextIndex: 0, PrevTime: 100, NextTime: 150}
	if got := m.Playback(); got != want {
		t.Fatalf("Playback() = %+v, want %+v", got, want)
	}

	m.Animate(125)
	if got := m.Bone(0).Rotation; !approx(got[0], 22.5) || !approx(got[1], 5) {
		t.Errorf("blended rotation = %v, want [22.5 5 0]", got)
	}

	m.Animate(150)
	p := m.Playback()
	if p.PrevIndex != 0 || p.NextIndex != 1 || p.NextTime != 200 {
		t.Errorf("after blend: %+v", p)
	}
	if got := m.Bone(0).Rotation; !approx(got[1], 30) || got[0] != 0 {
		t.Errorf("rotation = %v, want frame 0 of the new animation", got)
	}
}

func TestRestartSameAnimation(t *testing.T) {
	m := twoFrameModel(t)
	_ = m.StartAnimation(0, 0)
	m.Animate(150)

	_ = m.StartAnimation(0, 500)
	want := Playback{PrevIndex: 0, NextIndex: 1, PrevTime: 500, NextTime: 700}
	if got := m.Playback(); got != want {
		t.Errorf("Playback() = %+v, want %+v", got, want)
	}
	if m.Bone(0).Rotation != [3]float32{} {
		t.Errorf("restart did not push frame 0: %v", m.Bone(0).Rotation)
	}
}

func TestSingleFrameAnimation(t *testing.T) {
	m := newTestModel(t, 1, testBone{"Root", "", 1})
	_, _ = m.AddAnimation(newTestAnimation(t, 1, testFrame{100, []float32{5, 6, 7}}))
	_ = m.StartAnimation(0, 0)

	before := m.Playback()
	m.Animate(10_000)
	if m.Playback() != before {
		t.Errorf("single frame window moved: %+v", m.Playback())
	}
	if m.Bone(0).Rotation != [3]float32{5, 6, 7} {
		t.Errorf("rotation = %v", m.Bone(0).Rotation)
	}
}

func TestStoppedModelIgnoresTicks(t *testing.T) {
	m := twoFrameModel(t)
	_ = m.SetRotations([]float32{1, 2, 3})
	m.Animate(500)
	if m.Bone(0).Rotation != [3]float32{1, 2, 3} {
		t.Errorf("stopped model rotated: %v", m.Bone(0).Rotation)
	}

	_ = m.StartAnimation(0, 0)
	m.Stop()
	m.Animate(100)
	if m.Playing() || m.Bone(0).Rotation != [3]float32{} {
		t.Errorf("after Stop: playing = %v, rot = %v", m.Playing(), m.Bone(0).Rotation)
	}
}
