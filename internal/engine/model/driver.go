package model

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/pkg/math"
)

// NoAnimation is the current-animation value of a stopped model.
const NoAnimation = -1

// TransitionIndex is the previous-frame index while blending from the pose a
// model had when a different animation was started.
const TransitionIndex = -1

// Playback is the keyframe window of the running animation. Times are in
// milliseconds on the caller's clock.
type Playback struct {
	PrevIndex int
	NextIndex int
	PrevTime  int64
	NextTime  int64
}

// Current returns the running animation slot, or NoAnimation.
func (m *Model) Current() int { return m.current }

// Playback returns the current keyframe window.
func (m *Model) Playback() Playback { return m.play }

// Playing reports whether an animation is running.
func (m *Model) Playing() bool { return m.current != NoAnimation }

// Stop halts playback and leaves the bones in their current pose.
func (m *Model) Stop() {
	m.current = NoAnimation
	m.play = Playback{}
	m.prevFrame, m.nextFrame = nil, nil
}

func (m *Model) frame(a *animation.Animation, i int) []float32 {
	f, _ := a.Frame(i)
	return f
}

// StartAnimation starts slot index at time start.
//
// From a stopped model, or when restarting the running animation, playback
// begins on frame 0 with frame 0 pushed onto the bones. When a different
// animation is running, the current pose is kept and interpolated into
// frame 0 of the new animation over frame 0's interval.
func (m *Model) StartAnimation(index int, start int64) error {
	if index < 0 || index >= len(m.slots) {
		return errors.Wrapf(ErrAnimationIndex, "slot %d of %d", index, len(m.slots))
	}
	a := m.slots[index]
	if a == nil || a.Filled() == 0 {
		return errors.Wrapf(ErrEmptySlot, "slot %d", index)
	}
	if !m.finalized {
		return ErrNotFinalized
	}
	n := a.Filled()

	if m.current == NoAnimation || m.current == index {
		next := 1 % n
		m.current = index
		m.play = Playback{
			PrevIndex: 0,
			NextIndex: next,
			PrevTime:  start,
			NextTime:  start + int64(a.Interval(next)),
		}
		m.prevFrame = m.frame(a, 0)
		m.nextFrame = m.frame(a, next)
		return m.SetRotations(m.prevFrame)
	}

	m.current = index
	m.play = Playback{
		PrevIndex: TransitionIndex,
		NextIndex: 0,
		PrevTime:  start,
		NextTime:  start + int64(a.Interval(0)),
	}
	m.prevFrame = m.GetFrame()
	m.nextFrame = m.frame(a, 0)
	return nil
}

// Advance moves the keyframe window forward until it contains now. Several
// frames are skipped in one call if now has jumped past them. A window whose
// two ends are the same frame never moves.
func (m *Model) Advance(now int64) {
	if m.current == NoAnimation || m.play.PrevIndex == m.play.NextIndex {
		return
	}
	a := m.slots[m.current]
	n := a.Filled()

	for now >= m.play.NextTime {
		m.play.PrevIndex = m.play.NextIndex
		m.play.PrevTime = m.play.NextTime
		m.play.NextTime += int64(a.Interval(m.play.PrevIndex))
		m.play.NextIndex = (m.play.NextIndex + 1) % n
		if m.play.PrevIndex == m.play.NextIndex {
			break
		}
	}
	m.prevFrame = m.frame(a, m.play.PrevIndex)
	m.nextFrame = m.frame(a, m.play.NextIndex)
}

// Factor returns the interpolation factor of now within the keyframe window,
// clamped to [0, 1].
func (m *Model) Factor(now int64) float32 {
	span := m.play.NextTime - m.play.PrevTime
	if span <= 0 {
		return 0
	}
	return math.Clamp(float32(now-m.play.PrevTime)/float32(span), 0, 1)
}

// Apply sets each bone rotation channel that has not yet reached its target
// to the interpolated value at now. Calling it twice with the same now gives
// the same rotations.
func (m *Model) Apply(now int64) {
	if m.current == NoAnimation || m.prevFrame == nil || m.nextFrame == nil {
		return
	}
	alpha := m.Factor(now)
	if m.play.PrevIndex == m.play.NextIndex {
		alpha = 0
	}
	for i, b := range m.bones {
		rot := &m.skel.Bone(b).Rotation
		for c := 0; c < 3; c++ {
			k := 3*i + c
			if rot[c] != m.nextFrame[k] {
				rot[c] = animation.LinearFast(alpha, m.prevFrame[k], m.nextFrame[k])
			}
		}
	}
}

// Animate advances and applies playback for one tick.
func (m *Model) Animate(now int64) {
	m.Advance(now)
	m.Apply(now)
}
