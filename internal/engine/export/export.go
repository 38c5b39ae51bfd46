// Package export writes models as glTF scenes: one node per bone and one mesh
// per distinct geometry buffer.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/skelanim/internal/engine/mesh"
	"github.com/Faultbox/skelanim/internal/engine/model"
	"github.com/Faultbox/skelanim/pkg/math"
)

// ErrEmptyModel is returned for a model without flattened bones.
var ErrEmptyModel = errors.New("export: model has no bones")

// Document builds a glTF document for the model's current pose. Node i is
// flattened bone i; node 0 is the root and carries the model transform.
func Document(m *model.Model) (*gltf.Document, error) {
	if m.BoneCount() == 0 {
		return nil, ErrEmptyModel
	}

	doc := gltf.NewDocument()
	parents := m.Parents()
	meshes := make(map[*mesh.Buffer]uint32)

	for i, b := range m.Bones() {
		rot := math.QuatFromEulerXYZ(b.Rotation)
		node := &gltf.Node{
			Name:     b.Name,
			Rotation: rot.Array(),
			Scale:    [3]float32{1, 1, 1},
		}

		if p := parents[i]; p >= 0 {
			node.Translation = [3]float32{m.Bone(p).Length, 0, 0}
			parent := doc.Nodes[p]
			parent.Children = append(parent.Children, uint32(i))
		} else {
			pose := m.Pose
			node.Translation = [3]float32{pose[model.PoseX], pose[model.PoseY], pose[model.PoseZ]}
			orient := math.QuatFromEulerXYZ([3]float32{pose[model.PoseRX], pose[model.PoseRY], pose[model.PoseRZ]})
			node.Rotation = orient.Mul(rot).Normalize().Array()
		}

		if g := b.Geometry; g != nil {
			idx, ok := meshes[g]
			if !ok {
				idx = writeMesh(doc, fmt.Sprintf("%s_mesh%d", m.Name, len(meshes)), g)
				meshes[g] = idx
			}
			node.Mesh = gltf.Index(idx)
		}

		doc.Nodes = append(doc.Nodes, node)
	}

	doc.Scenes[0].Name = m.Name
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

func writeMesh(doc *gltf.Document, name string, g *mesh.Buffer) uint32 {
	n := g.Elements()
	positions := make([][3]float32, n)
	normals := make([][3]float32, n)
	uvs := make([][2]float32, n)
	for i := 0; i < n; i++ {
		v := g.Vertex(i)
		positions[i] = v.Position
		normals[i] = v.Normal
		uvs[i] = v.TexCoord
	}

	attributes := map[string]uint32{
		"POSITION":   modeler.WritePosition(doc, positions),
		"NORMAL":     modeler.WriteNormal(doc, normals),
		"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{
			{Attributes: attributes},
		},
	})
	return uint32(len(doc.Meshes) - 1)
}

// Write encodes doc to w, as GLB when binary is set and as JSON otherwise.
// JSON output embeds buffers as data URIs.
func Write(w io.Writer, doc *gltf.Document, binary bool) error {
	if !binary {
		for _, b := range doc.Buffers {
			if b.URI == "" {
				b.EmbeddedResource()
			}
		}
	}
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = binary
	return errors.Wrap(encoder.Encode(doc), "export: encode")
}

// Save writes doc to path.
func Save(path string, doc *gltf.Document, binary bool) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "export: create %s", path)
	}
	if err := Write(f, doc, binary); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "export: close %s", path)
}
