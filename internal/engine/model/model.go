// Package model assembles skeletons, geometry and animations into animatable
// character models and drives their keyframe playback.
package model

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/internal/engine/mesh"
	"github.com/Faultbox/skelanim/internal/engine/skeleton"
)

// Model errors.
var (
	ErrNoFreeSlot     = errors.New("model has no free animation slot")
	ErrAnimationWidth = errors.New("animation bone count does not match model")
	ErrAnimationIndex = errors.New("animation index out of range")
	ErrEmptySlot      = errors.New("animation slot is empty")
	ErrRotationCount  = errors.New("rotation count does not match bone count")
	ErrNotFinalized   = errors.New("model bones have not been flattened")
)

// Pose indices into Model.Pose.
const (
	PoseX = iota
	PoseY
	PoseZ
	PoseRX
	PoseRY
	PoseRZ
)

// Model is one drawable, animatable character instance.
type Model struct {
	Name    string
	Pose    [6]float32 // position, then rotation in degrees
	Texture int        // handle from the texture loader, 0 for none

	skel      *skeleton.Skeleton
	bones     []int // skeleton indices in flattened order
	finalized bool
	slots     []*animation.Animation

	current   int
	play      Playback
	prevFrame []float32
	nextFrame []float32
}

// New creates an empty model with the given number of animation slots.
// A negative slot count is treated as one.
func New(name string, slots int) *Model {
	if slots < 0 {
		slots = 1
	}
	return &Model{
		Name:    name,
		skel:    skeleton.New(),
		slots:   make([]*animation.Animation, slots),
		current: NoAnimation,
	}
}

// Skeleton returns the bone tree. Bones are added to it before Finalize.
func (m *Model) Skeleton() *skeleton.Skeleton { return m.skel }

// Finalize flattens the skeleton into the model's bone array.
func (m *Model) Finalize() error {
	order, err := m.skel.Flatten()
	if err != nil {
		return errors.Wrapf(err, "model %q", m.Name)
	}
	m.bones = order
	m.finalized = true
	return nil
}

// BoneCount returns the number of flattened bones.
func (m *Model) BoneCount() int { return len(m.bones) }

// Bone returns flattened bone i.
func (m *Model) Bone(i int) *skeleton.Bone { return m.skel.Bone(m.bones[i]) }

// Bones returns every bone in flattened order. Index 0 is the root.
func (m *Model) Bones() []*skeleton.Bone {
	out := make([]*skeleton.Bone, len(m.bones))
	for i, b := range m.bones {
		out[i] = m.skel.Bone(b)
	}
	return out
}

// Parents returns the flattened parent index of every bone, -1 for the root.
func (m *Model) Parents() []int {
	flat := make(map[int]int, len(m.bones))
	for i, b := range m.bones {
		flat[b] = i
	}
	out := make([]int, len(m.bones))
	for i, b := range m.bones {
		out[i] = -1
		if p := m.skel.Parent(b); p != skeleton.None {
			out[i] = flat[p]
		}
	}
	return out
}

// Slots returns the number of animation slots.
func (m *Model) Slots() int { return len(m.slots) }

// Animation returns slot i, or nil if it is empty or out of range.
func (m *Model) Animation(i int) *animation.Animation {
	if i < 0 || i >= len(m.slots) {
		return nil
	}
	return m.slots[i]
}

// AddAnimation stores a in the first free slot and returns its index. Once
// the model is finalized the animation must cover every bone.
func (m *Model) AddAnimation(a *animation.Animation) (int, error) {
	if m.finalized && a.Bones() != len(m.bones) {
		return -1, errors.Wrapf(ErrAnimationWidth, "animation covers %d bones, model %q has %d", a.Bones(), m.Name, len(m.bones))
	}
	for i, s := range m.slots {
		if s == nil {
			m.slots[i] = a
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrNoFreeSlot, "model %q has %d slots", m.Name, len(m.slots))
}

// GetFrame returns all bone rotations in flattened order, 3 values per bone.
func (m *Model) GetFrame() []float32 {
	out := make([]float32, 0, 3*len(m.bones))
	for _, b := range m.bones {
		r := m.skel.Bone(b).Rotation
		out = append(out, r[0], r[1], r[2])
	}
	return out
}

// SetRotations overwrites every bone rotation from a GetFrame-shaped slice.
func (m *Model) SetRotations(rots []float32) error {
	if len(rots) != 3*len(m.bones) {
		return errors.Wrapf(ErrRotationCount, "got %d values for %d bones", len(rots), len(m.bones))
	}
	for i, b := range m.bones {
		copy(m.skel.Bone(b).Rotation[:], rots[3*i:3*i+3])
	}
	return nil
}

// Clone returns a new instance sharing geometry and animations. Pose and
// rotations are copied and playback starts stopped.
func (m *Model) Clone() *Model {
	c := &Model{
		Name:    m.Name,
		Pose:    m.Pose,
		Texture: m.Texture,
		skel:    m.skel.Clone(),
		slots:   make([]*animation.Animation, len(m.slots)),
		current: NoAnimation,
	}
	copy(c.slots, m.slots)
	c.bones = make([]int, len(m.bones))
	copy(c.bones, m.bones)
	c.finalized = m.finalized
	return c
}

// Release returns the model's geometry references. Animations are left to
// the garbage collector since clones may still use them.
func (m *Model) Release() {
	m.skel.Release()
	m.current = NoAnimation
	m.prevFrame, m.nextFrame = nil, nil
}

// Info summarizes a model.
type Info struct {
	Name       string
	Bones      int
	Meshes     int // distinct geometry buffers
	Triangles  int
	Texture    int
	Slots      int
	Animations []AnimationInfo
}

// AnimationInfo summarizes one filled slot.
type AnimationInfo struct {
	Slot     int
	Frames   int
	Duration int // milliseconds per loop
}

// Info returns a summary of the model.
func (m *Model) Info() Info {
	info := Info{
		Name:    m.Name,
		Bones:   len(m.bones),
		Texture: m.Texture,
		Slots:   len(m.slots),
	}
	seen := make(map[*mesh.Buffer]bool)
	for _, b := range m.Bones() {
		if b.Geometry == nil || seen[b.Geometry] {
			continue
		}
		seen[b.Geometry] = true
		info.Meshes++
		info.Triangles += b.Geometry.Triangles()
	}
	for i, a := range m.slots {
		if a == nil {
			continue
		}
		info.Animations = append(info.Animations, AnimationInfo{Slot: i, Frames: a.Filled(), Duration: a.Duration()})
	}
	return info
}
