package model

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/internal/engine/mesh"
	"github.com/Faultbox/skelanim/internal/engine/skeleton"
	"github.com/Faultbox/skelanim/internal/logger"
	"github.com/Faultbox/skelanim/pkg/formats"
)

// TextureLoader maps a texture path to an opaque handle. The loader stores
// the handle without checking it.
type TextureLoader interface {
	LoadTexture(path string) int
}

// TextureFunc adapts a function to TextureLoader.
type TextureFunc func(path string) int

// LoadTexture calls f.
func (f TextureFunc) LoadTexture(path string) int { return f(path) }

// MeshLoader builds a drawable buffer from a mesh file.
type MeshLoader interface {
	LoadMesh(path string, mode mesh.NormalMode) (*mesh.Buffer, error)
}

// MeshFunc adapts a function to MeshLoader.
type MeshFunc func(path string, mode mesh.NormalMode) (*mesh.Buffer, error)

// LoadMesh calls f.
func (f MeshFunc) LoadMesh(path string, mode mesh.NormalMode) (*mesh.Buffer, error) {
	return f(path, mode)
}

// Loader reads .mdl files into models.
type Loader struct {
	// DataDir is prepended to relative mesh and texture paths.
	DataDir string
	// Textures resolves the model texture. Nil leaves Texture at 0.
	Textures TextureLoader
	// Meshes builds bone geometry. Nil uses mesh.Load.
	Meshes MeshLoader
}

// Load reads the model file at path.
func (l *Loader) Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		logger.Named("loader").Error("cannot open model", zap.String("file", path), zap.Error(err))
		return nil, errors.Wrap(err, "opening model")
	}
	defer f.Close()
	return l.LoadReader(f, path)
}

// LoadReader reads a model description from r. name identifies the source in
// errors and logs. On any error everything built so far is released and no
// model is returned.
func (l *Loader) LoadReader(r io.Reader, name string) (*Model, error) {
	log := logger.Named("loader").With(zap.String("file", name))

	decl, err := formats.ParseMDL(r)
	if err != nil {
		var se *formats.SyntaxError
		if errors.As(err, &se) {
			log.Error("model format error", zap.Int("line", se.Line), zap.Error(err))
		} else {
			log.Error("cannot read model", zap.Error(err))
		}
		return nil, errors.Wrapf(err, "%s", name)
	}

	m, err := l.build(decl)
	if err != nil {
		log.Error("cannot build model", zap.Error(err))
		return nil, errors.Wrapf(err, "%s", name)
	}

	if decl.Texture != "" && l.Textures != nil {
		m.Texture = l.Textures.LoadTexture(l.resolve(decl.Texture))
	}
	info := m.Info()
	log.Debug("model loaded",
		zap.String("model", m.Name),
		zap.Int("bones", info.Bones),
		zap.Int("meshes", info.Meshes),
		zap.Int("animations", len(info.Animations)))
	return m, nil
}

func (l *Loader) build(decl *formats.MDL) (*Model, error) {
	m := New(decl.Name, decl.AnimationSlots)
	if err := l.assemble(m, decl); err != nil {
		m.Release()
		return nil, err
	}
	return m, nil
}

func (l *Loader) assemble(m *Model, decl *formats.MDL) error {
	meshes := newMeshCache(l)
	skel := m.Skeleton()
	for _, b := range decl.Bones {
		bone := skeleton.Bone{Name: b.Name, Rotation: b.Rotation, Length: b.Length}
		if b.Mesh != "" {
			geom, err := meshes.get(b.Mesh, mesh.ParseMode(b.Flag))
			if err != nil {
				return errors.Wrapf(err, "line %d: bone %q", b.Line, b.Name)
			}
			bone.Geometry = geom
		}
		if _, err := skel.AddBone(b.Parent, bone); err != nil {
			if bone.Geometry != nil {
				bone.Geometry.Release()
			}
			return errors.Wrapf(err, "line %d", b.Line)
		}
	}

	if err := m.Finalize(); err != nil {
		return err
	}

	for _, a := range decl.Animations {
		width := len(a.Frames[0].Rotations) / 3
		if width != m.BoneCount() {
			return errors.Wrapf(ErrAnimationWidth, "line %d: animation covers %d bones, model has %d", a.Line, width, m.BoneCount())
		}
		anim, err := animation.New(len(a.Frames), width)
		if err != nil {
			return errors.Wrapf(err, "line %d", a.Line)
		}
		for _, f := range a.Frames {
			if err := anim.InsertFrame(f.Rotations, f.Interval); err != nil {
				return errors.Wrapf(err, "line %d", f.Line)
			}
		}
		if _, err := m.AddAnimation(anim); err != nil {
			return errors.Wrapf(err, "line %d", a.Line)
		}
	}
	return nil
}

func (l *Loader) resolve(path string) string {
	if l.DataDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.DataDir, path)
}

type meshKey struct {
	path string
	mode mesh.NormalMode
}

// meshCache loads each mesh file once per model. Every bone gets its own
// reference to the shared buffer.
type meshCache struct {
	l       *Loader
	buffers map[meshKey]*mesh.Buffer
}

func newMeshCache(l *Loader) *meshCache {
	return &meshCache{l: l, buffers: make(map[meshKey]*mesh.Buffer)}
}

func (c *meshCache) get(path string, mode mesh.NormalMode) (*mesh.Buffer, error) {
	key := meshKey{path: path, mode: mode}
	if buf, ok := c.buffers[key]; ok && !buf.Freed() {
		return buf.Retain(), nil
	}

	var load MeshLoader = MeshFunc(mesh.Load)
	if c.l.Meshes != nil {
		load = c.l.Meshes
	}
	buf, err := load.LoadMesh(c.l.resolve(path), mode)
	if err != nil {
		return nil, err
	}
	c.buffers[key] = buf
	return buf, nil
}
