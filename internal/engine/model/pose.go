package model

import "github.com/Faultbox/skelanim/pkg/math"

// Root returns the model transform: translate to the pose position, then
// rotate by the pose angles about X, Y and Z.
func (m *Model) Root() math.Mat4 {
	p := m.Pose
	return math.Translate(p[PoseX], p[PoseY], p[PoseZ]).
		Mul(math.RotateEulerXYZ([3]float32{p[PoseRX], p[PoseRY], p[PoseRZ]}))
}

// WorldTransforms returns the world matrix of every bone in flattened order.
// A bone's frame is its parent's frame moved along the parent's X axis by the
// parent's length and then rotated by the bone's own angles; its geometry is
// drawn in that frame.
func (m *Model) WorldTransforms() []math.Mat4 {
	parents := m.Parents()
	out := make([]math.Mat4, len(m.bones))
	root := m.Root()
	for i := range m.bones {
		b := m.Bone(i)
		base := root
		if p := parents[i]; p >= 0 {
			base = out[p].Mul(math.Translate(m.Bone(p).Length, 0, 0))
		}
		out[i] = base.Mul(math.RotateEulerXYZ(b.Rotation))
	}
	return out
}

// Joint is the world position of one bone's start and end.
type Joint struct {
	Name  string
	Start math.Vec3
	End   math.Vec3
}

// Joints returns the start and end point of every bone in flattened order.
func (m *Model) Joints() []Joint {
	transforms := m.WorldTransforms()
	out := make([]Joint, len(transforms))
	for i, t := range transforms {
		b := m.Bone(i)
		out[i] = Joint{
			Name:  b.Name,
			Start: t.Origin(),
			End:   t.TransformVec3(math.Vec3{X: b.Length}),
		}
	}
	return out
}
