// Package editor records keyframe animations from a model's live pose.
package editor

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/internal/engine/model"
	"github.com/Faultbox/skelanim/internal/engine/skeleton"
	"github.com/Faultbox/skelanim/internal/logger"
	"github.com/Faultbox/skelanim/pkg/formats"
)

// Defaults for a new session.
const (
	DefaultInterval   = 200
	DefaultRotateStep = 5
)

// Editor errors.
var (
	ErrNoBones     = errors.New("model has no bones to edit")
	ErrNoFrames    = errors.New("no frames recorded")
	ErrBadInterval = errors.New("frame interval must be positive")
	ErrBadAxis     = errors.New("rotation axis must be X, Y or Z")
)

// Axis selects a rotation channel.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

type frame struct {
	rots     []float32
	interval int
}

// Session edits one animation for one model. The selected bone and frame
// live here rather than in package state, so several sessions can coexist.
type Session struct {
	model    *model.Model
	frames   []frame
	current  int // selected frame, -1 for none
	bone     int // selected bone in flattened order
	interval int
	step     float32
}

// NewSession starts an empty animation for m. The model must be finalized.
func NewSession(m *model.Model) (*Session, error) {
	if m.BoneCount() == 0 {
		return nil, ErrNoBones
	}
	return &Session{
		model:    m,
		current:  -1,
		interval: DefaultInterval,
		step:     DefaultRotateStep,
	}, nil
}

// Model returns the model being edited.
func (s *Session) Model() *model.Model { return s.model }

// Len returns the number of recorded frames.
func (s *Session) Len() int { return len(s.frames) }

// Current returns the selected frame index, or -1.
func (s *Session) Current() int { return s.current }

// Interval returns the interval given to new frames.
func (s *Session) Interval() int { return s.interval }

// SetInterval sets the interval in milliseconds for frames added from now on.
func (s *Session) SetInterval(ms int) error {
	if ms <= 0 {
		return errors.Wrapf(ErrBadInterval, "interval %d", ms)
	}
	s.interval = ms
	return nil
}

// SetStep sets the rotation used by Nudge.
func (s *Session) SetStep(deg float32) { s.step = deg }

// AddFrame appends the model's current pose as a new frame and selects it.
func (s *Session) AddFrame() {
	s.frames = append(s.frames, frame{rots: s.model.GetFrame(), interval: s.interval})
	s.current = len(s.frames) - 1
}

// DeleteFrame removes the selected frame, then selects the first remaining
// frame and poses the model from it.
func (s *Session) DeleteFrame() error {
	if s.current < 0 {
		return ErrNoFrames
	}
	s.frames = append(s.frames[:s.current], s.frames[s.current+1:]...)
	if len(s.frames) == 0 {
		s.current = -1
		return nil
	}
	s.current = 0
	return s.model.SetRotations(s.frames[0].rots)
}

// NextFrame selects the following frame, wrapping to the first, and poses
// the model from it.
func (s *Session) NextFrame() error {
	if len(s.frames) == 0 {
		return ErrNoFrames
	}
	s.current = (s.current + 1) % len(s.frames)
	return s.model.SetRotations(s.frames[s.current].rots)
}

// Bone returns the selected bone index.
func (s *Session) Bone() int { return s.bone }

// SelectedBone returns the selected bone.
func (s *Session) SelectedBone() *skeleton.Bone { return s.model.Bone(s.bone) }

// NextBone selects the next bone, wrapping to the root.
func (s *Session) NextBone() {
	s.bone = (s.bone + 1) % s.model.BoneCount()
}

// PrevBone selects the previous bone, wrapping to the last.
func (s *Session) PrevBone() {
	s.bone--
	if s.bone < 0 {
		s.bone = s.model.BoneCount() - 1
	}
}

// Rotate adds deg degrees to one channel of the selected bone.
func (s *Session) Rotate(axis Axis, deg float32) error {
	if axis < AxisX || axis > AxisZ {
		return errors.Wrapf(ErrBadAxis, "axis %d", int(axis))
	}
	s.SelectedBone().Rotation[axis] += deg
	return nil
}

// Nudge rotates the selected bone by one step, negative when dir < 0.
func (s *Session) Nudge(axis Axis, dir int) error {
	step := s.step
	if dir < 0 {
		step = -step
	}
	return s.Rotate(axis, step)
}

// Status returns a one-line summary such as "Frame 2 of 5.".
func (s *Session) Status() string {
	return fmt.Sprintf("Frame %d of %d.", s.current+1, len(s.frames))
}

// Frames returns copies of the recorded frames.
func (s *Session) Frames() []formats.FrameDecl {
	out := make([]formats.FrameDecl, len(s.frames))
	for i, f := range s.frames {
		rots := make([]float32, len(f.rots))
		copy(rots, f.rots)
		out[i] = formats.FrameDecl{Interval: f.interval, Rotations: rots}
	}
	return out
}

// Animation builds a playable animation from the recorded frames.
func (s *Session) Animation() (*animation.Animation, error) {
	if len(s.frames) == 0 {
		return nil, ErrNoFrames
	}
	a, err := animation.New(len(s.frames), s.model.BoneCount())
	if err != nil {
		return nil, err
	}
	for _, f := range s.frames {
		if err := a.InsertFrame(f.rots, f.interval); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Save writes the frames as an animation block.
func (s *Session) Save(w io.Writer) error {
	return formats.WriteAnimation(w, s.Frames())
}

// SaveFile writes the frames to path, replacing any existing file.
func (s *Session) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating animation file")
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing animation file")
	}
	logger.Named("editor").Info("animation saved",
		zap.String("file", path),
		zap.Int("frames", len(s.frames)))
	return nil
}

// Update advances any animation playing on the model.
func (s *Session) Update(now int64) {
	s.model.Animate(now)
}
