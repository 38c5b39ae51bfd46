// Package animation stores fixed-length keyframe sequences of bone rotations.
package animation

import "github.com/pkg/errors"

// Animation errors.
var (
	ErrBadSize     = errors.New("animation needs at least one frame and one bone")
	ErrBadInterval = errors.New("frame interval must be positive")
	ErrFrameSize   = errors.New("frame data length does not match bone count")
	ErrFull        = errors.New("animation has no empty frame slot")
	ErrFrameIndex  = errors.New("frame index out of range")
)

// Keyframe is one filled slot. Interval is the time in milliseconds from this
// frame to the following one.
type Keyframe struct {
	Rotations []float32 // 3 values per bone in flattened bone order
	Interval  int
}

// Animation is a fixed number of keyframe slots filled in order. Frames are
// never modified after insertion, so one Animation may be shared by any
// number of model instances.
type Animation struct {
	bones  int
	frames []Keyframe
	filled int
}

// New allocates an animation with frames empty slots for the given bone count.
func New(frames, bones int) (*Animation, error) {
	if frames <= 0 || bones <= 0 {
		return nil, errors.Wrapf(ErrBadSize, "%d frames, %d bones", frames, bones)
	}
	return &Animation{bones: bones, frames: make([]Keyframe, frames)}, nil
}

// InsertFrame copies data into the first empty slot. The animation is left
// unchanged on error.
func (a *Animation) InsertFrame(data []float32, interval int) error {
	if interval <= 0 {
		return errors.Wrapf(ErrBadInterval, "interval %d", interval)
	}
	if len(data) != 3*a.bones {
		return errors.Wrapf(ErrFrameSize, "got %d values for %d bones", len(data), a.bones)
	}
	if a.filled == len(a.frames) {
		return ErrFull
	}

	rot := make([]float32, len(data))
	copy(rot, data)
	a.frames[a.filled] = Keyframe{Rotations: rot, Interval: interval}
	a.filled++
	return nil
}

// Len returns the number of slots.
func (a *Animation) Len() int { return len(a.frames) }

// Filled returns the number of inserted frames.
func (a *Animation) Filled() int { return a.filled }

// Full reports whether every slot has been filled.
func (a *Animation) Full() bool { return a.filled == len(a.frames) }

// Bones returns the bone count each frame covers.
func (a *Animation) Bones() int { return a.bones }

// Frame returns the rotations of frame i. The slice must not be modified.
func (a *Animation) Frame(i int) ([]float32, error) {
	if i < 0 || i >= a.filled {
		return nil, errors.Wrapf(ErrFrameIndex, "frame %d of %d", i, a.filled)
	}
	return a.frames[i].Rotations, nil
}

// Interval returns the interval of frame i in milliseconds, or 0 if the slot
// is empty.
func (a *Animation) Interval(i int) int {
	if i < 0 || i >= a.filled {
		return 0
	}
	return a.frames[i].Interval
}

// Keyframe returns frame i, or false if the slot is empty.
func (a *Animation) Keyframe(i int) (Keyframe, bool) {
	if i < 0 || i >= a.filled {
		return Keyframe{}, false
	}
	return a.frames[i], true
}

// Duration returns the sum of all filled intervals.
func (a *Animation) Duration() int {
	total := 0
	for i := 0; i < a.filled; i++ {
		total += a.frames[i].Interval
	}
	return total
}
