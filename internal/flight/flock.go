// Package flight flies many clones of one model on circular paths.
package flight

import (
	gomath "math"
	"math/rand"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/engine/model"
	"github.com/Faultbox/skelanim/internal/logger"
	"github.com/Faultbox/skelanim/pkg/math"
)

// ErrFlockFull is returned by Add when the flock is at capacity.
var ErrFlockFull = errors.New("flock is full")

// Pattern is one bird's orbit: a centre, a radius, the current angle in
// degrees and the angular speed in degrees per second.
type Pattern struct {
	Model  *model.Model
	Centre math.Vec3
	Angle  float32
	Radius float32
	Speed  float32
}

// Options configures a flock.
type Options struct {
	WorldSize float32
	MaxBirds  int
	Seed      int64
}

// Flock owns a set of clones of a base model.
type Flock struct {
	base     *model.Model
	opts     Options
	rnd      *rand.Rand
	patterns []*Pattern
	last     int64
	started  bool
}

// NewFlock creates an empty flock of clones of base. The base model stays
// owned by the caller.
func NewFlock(base *model.Model, opts Options) *Flock {
	if opts.MaxBirds <= 0 {
		opts.MaxBirds = 1
	}
	return &Flock{
		base: base,
		opts: opts,
		rnd:  rand.New(rand.NewSource(opts.Seed)),
	}
}

// Len returns the number of birds.
func (f *Flock) Len() int { return len(f.patterns) }

// Patterns returns the birds in the order they were added.
func (f *Flock) Patterns() []*Pattern { return f.patterns }

func (f *Flock) random() float32 { return f.rnd.Float32() }

// side picks a random sign for an offset from the world centre.
func (f *Flock) side() float32 {
	if f.random() > 0.5 {
		return -1
	}
	return 1
}

// Add clones the base model onto a random orbit and starts its first
// animation at now.
func (f *Flock) Add(now int64) (*Pattern, error) {
	if len(f.patterns) >= f.opts.MaxBirds {
		return nil, errors.Wrapf(ErrFlockFull, "%d birds", len(f.patterns))
	}

	half := f.opts.WorldSize / 2
	p := &Pattern{Model: f.base.Clone()}
	p.Angle = f.random() * 180
	p.Radius = f.random()*100 + 60
	p.Centre.X = f.random() * half * f.side()
	p.Centre.Y = f.random()*40 + 20
	p.Centre.Z = f.random() * half * f.side()
	p.Speed = f.random()*40 + 80

	p.fly(0)
	if p.Model.Animation(0) != nil {
		if err := p.Model.StartAnimation(0, now); err != nil {
			p.Model.Release()
			return nil, err
		}
	}
	f.patterns = append(f.patterns, p)

	logger.Named("flight").Debug("bird added",
		zap.Int("birds", len(f.patterns)),
		zap.Float32("radius", p.Radius),
		zap.Float32("speed", p.Speed))
	return p, nil
}

// Update animates every bird and moves it along its orbit by the time that
// passed since the previous update.
func (f *Flock) Update(now int64) {
	var passed float32
	if f.started {
		passed = float32(now-f.last) / 1000
	}
	f.last = now
	f.started = true

	for _, p := range f.patterns {
		p.Model.Animate(now)
		p.fly(passed)
	}
}

// fly places the model on the orbit at the current angle, facing along it,
// then advances the angle.
func (p *Pattern) fly(passed float32) {
	rad := float64(math.Radians(p.Angle))
	m := p.Model
	m.Pose[model.PoseX] = p.Radius*float32(gomath.Cos(rad)) + p.Centre.X
	m.Pose[model.PoseY] = p.Centre.Y
	m.Pose[model.PoseZ] = p.Radius*float32(gomath.Sin(rad)) + p.Centre.Z
	m.Pose[model.PoseRY] = -p.Angle + 90

	p.Angle = math.Mod(p.Angle+passed*p.Speed, 360)
}

// Release returns every clone's geometry references.
func (f *Flock) Release() {
	for _, p := range f.patterns {
		p.Model.Release()
	}
	f.patterns = nil
}
