package mesh

import (
	gomath "math"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/skelanim/pkg/formats"
	"github.com/Faultbox/skelanim/pkg/math"
)

// ErrEmptyMesh is returned when an OBJ has no faces.
var ErrEmptyMesh = errors.New("mesh has no faces")

// NormalMode selects how corner normals are computed.
type NormalMode int

const (
	// Smooth averages the normals of every face sharing a vertex.
	Smooth NormalMode = iota
	// Flat uses each face's own normal at its three corners.
	Flat
)

func (m NormalMode) String() string {
	if m == Flat {
		return "flat"
	}
	return "smooth"
}

// ParseMode maps the optional bone flag of a model file to a mode. Any flag
// starting with "F" selects flat normals.
func ParseMode(flag string) NormalMode {
	if strings.HasPrefix(flag, "F") {
		return Flat
	}
	return Smooth
}

// Load parses an OBJ file and builds its buffer.
func Load(path string, mode NormalMode) (*Buffer, error) {
	obj, err := formats.LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	return Build(obj, mode)
}

// Build emits one record per face corner. Indices are checked again here so
// that hand-built OBJ values cannot index out of range.
func Build(obj *formats.OBJ, mode NormalMode) (*Buffer, error) {
	if len(obj.Faces) == 0 {
		return nil, ErrEmptyMesh
	}
	for fi, f := range obj.Faces {
		for _, c := range f.Corners {
			if c.Vertex < 0 || c.Vertex >= len(obj.Vertices) || c.TexCoord < 0 || c.TexCoord >= len(obj.TexCoords) {
				return nil, errors.Wrapf(formats.ErrIndexRange, "face %d", fi)
			}
		}
	}

	faceNormals := FaceNormals(obj)
	var vertexNormals []math.Vec3
	if mode == Smooth {
		vertexNormals = VertexNormals(obj, faceNormals)
	}

	data := make([]float32, 0, len(obj.Faces)*3*Stride)
	bounds := Bounds{
		Min: [3]float32{gomath.MaxFloat32, gomath.MaxFloat32, gomath.MaxFloat32},
		Max: [3]float32{-gomath.MaxFloat32, -gomath.MaxFloat32, -gomath.MaxFloat32},
	}

	for fi, f := range obj.Faces {
		for _, c := range f.Corners {
			n := faceNormals[fi]
			if mode == Smooth {
				n = vertexNormals[c.Vertex]
			}
			uv := obj.TexCoords[c.TexCoord]
			p := obj.Vertices[c.Vertex]
			data = append(data, uv[0], uv[1], n.X, n.Y, n.Z, p[0], p[1], p[2])
			updateBounds(&bounds, p)
		}
	}
	return NewBuffer(data, len(obj.Faces)*3, bounds), nil
}

// FaceNormals returns normalize(cross(p0-p1, p1-p2)) for every face.
// Degenerate faces get a zero normal.
func FaceNormals(obj *formats.OBJ) []math.Vec3 {
	normals := make([]math.Vec3, len(obj.Faces))
	for i, f := range obj.Faces {
		p0 := math.V3(obj.Vertices[f.Corners[0].Vertex])
		p1 := math.V3(obj.Vertices[f.Corners[1].Vertex])
		p2 := math.V3(obj.Vertices[f.Corners[2].Vertex])
		normals[i] = p0.Sub(p1).Cross(p1.Sub(p2)).Normalize()
	}
	return normals
}

// VertexNormals averages the face normals adjacent to each vertex.
func VertexNormals(obj *formats.OBJ, faceNormals []math.Vec3) []math.Vec3 {
	normals := make([]math.Vec3, len(obj.Vertices))
	for v := range normals {
		var sum math.Vec3
		if v < len(obj.VertexFaces) {
			for _, fi := range obj.VertexFaces[v] {
				sum = sum.Add(faceNormals[fi])
			}
		}
		normals[v] = sum.Normalize()
	}
	return normals
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
