// Package skeleton stores a bone hierarchy as an index-linked arena.
package skeleton

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/skelanim/internal/engine/mesh"
)

// MaxChildren is the most children a single bone may have.
const MaxChildren = 16

// None marks a missing link.
const None = -1

// Skeleton errors.
var (
	ErrDuplicateRoot   = errors.New("skeleton already has a root bone")
	ErrNoRoot          = errors.New("skeleton has no root bone")
	ErrParentNotFound  = errors.New("parent bone not found")
	ErrTooManyChildren = errors.New("bone has the maximum number of children")
	ErrBoneIndex       = errors.New("bone index out of range")
	ErrFlattenOverflow = errors.New("skeleton traversal visited more bones than it holds")
)

// Bone is one joint. Rotation is in degrees relative to the parent and
// Length is the offset along the local X axis at which children attach.
type Bone struct {
	Name     string
	Rotation [3]float32
	Length   float32
	Geometry *mesh.Buffer // nil for a pure joint
}

type links struct {
	parent      int32
	firstChild  int32
	lastChild   int32
	nextSibling int32
	children    int32
}

// Skeleton owns its bone records. Geometry buffers are reference counted:
// a bone added to a skeleton hands over one reference, and Release gives
// every held reference back.
type Skeleton struct {
	bones    []Bone
	links    []links
	root     int32
	released bool
}

// New returns an empty skeleton.
func New() *Skeleton {
	return &Skeleton{root: None}
}

// Len returns the number of bones.
func (s *Skeleton) Len() int { return len(s.bones) }

// Root returns the root bone index, or None.
func (s *Skeleton) Root() int { return int(s.root) }

// Bone returns bone i for reading and rotation updates.
func (s *Skeleton) Bone(i int) *Bone { return &s.bones[i] }

// Parent returns the parent of bone i, or None for the root.
func (s *Skeleton) Parent(i int) int { return int(s.links[i].parent) }

// FirstChild returns the first child of bone i, or None.
func (s *Skeleton) FirstChild(i int) int { return int(s.links[i].firstChild) }

// NextSibling returns the next sibling of bone i, or None.
func (s *Skeleton) NextSibling(i int) int { return int(s.links[i].nextSibling) }

// ChildCount returns how many children bone i has.
func (s *Skeleton) ChildCount(i int) int { return int(s.links[i].children) }

// Children returns the children of bone i in attachment order.
func (s *Skeleton) Children(i int) []int {
	out := make([]int, 0, s.links[i].children)
	for c := s.links[i].firstChild; c != None; c = s.links[c].nextSibling {
		out = append(out, int(c))
	}
	return out
}

func (s *Skeleton) push(b Bone, parent int32) int32 {
	idx := int32(len(s.bones))
	s.bones = append(s.bones, b)
	s.links = append(s.links, links{
		parent:      parent,
		firstChild:  None,
		lastChild:   None,
		nextSibling: None,
	})
	return idx
}

// AddRoot adds the root bone.
func (s *Skeleton) AddRoot(b Bone) (int, error) {
	if s.root != None {
		return None, errors.Wrapf(ErrDuplicateRoot, "bone %q", b.Name)
	}
	s.root = s.push(b, None)
	return int(s.root), nil
}

// AddChild appends b as the last child of parent. The skeleton is left
// unchanged on error.
func (s *Skeleton) AddChild(parent int, b Bone) (int, error) {
	if parent < 0 || parent >= len(s.bones) {
		return None, errors.Wrapf(ErrBoneIndex, "parent %d", parent)
	}
	p := &s.links[parent]
	if p.children >= MaxChildren {
		return None, errors.Wrapf(ErrTooManyChildren, "bone %q", s.bones[parent].Name)
	}

	idx := s.push(b, int32(parent))
	p = &s.links[parent]
	if p.lastChild == None {
		p.firstChild = idx
	} else {
		s.links[p.lastChild].nextSibling = idx
	}
	p.lastChild = idx
	p.children++
	return int(idx), nil
}

// Find returns the index of the first bone called name. Each bone is checked
// before its sibling subtree, and the sibling subtree before its children.
func (s *Skeleton) Find(name string) (int, bool) {
	if s.root == None {
		return None, false
	}
	stack := make([]int32, 0, 16)
	stack = append(stack, s.root)
	for visited := 0; len(stack) > 0 && visited <= len(s.bones); visited++ {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.bones[n].Name == name {
			return int(n), true
		}
		if c := s.links[n].firstChild; c != None {
			stack = append(stack, c)
		}
		if sib := s.links[n].nextSibling; sib != None {
			stack = append(stack, sib)
		}
	}
	return None, false
}

// AddNamedChild attaches b under the bone called parent.
func (s *Skeleton) AddNamedChild(parent string, b Bone) (int, error) {
	p, ok := s.Find(parent)
	if !ok {
		return None, errors.Wrapf(ErrParentNotFound, "bone %q wants parent %q", b.Name, parent)
	}
	return s.AddChild(p, b)
}

// AddBone adds b as the root when parent is empty and as a child of the
// named bone otherwise.
func (s *Skeleton) AddBone(parent string, b Bone) (int, error) {
	if parent == "" {
		return s.AddRoot(b)
	}
	return s.AddNamedChild(parent, b)
}

// Flatten returns bone indices depth first, children before siblings, with
// the root at position 0. The result has exactly Len entries.
func (s *Skeleton) Flatten() ([]int, error) {
	if s.root == None {
		if len(s.bones) == 0 {
			return nil, nil
		}
		return nil, ErrNoRoot
	}

	out := make([]int, 0, len(s.bones))
	stack := make([]int32, 0, 16)
	stack = append(stack, s.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(out) == cap(out) {
			return nil, errors.Wrapf(ErrFlattenOverflow, "%d bones", len(s.bones))
		}
		out = append(out, int(n))
		if sib := s.links[n].nextSibling; sib != None {
			stack = append(stack, sib)
		}
		if c := s.links[n].firstChild; c != None {
			stack = append(stack, c)
		}
	}
	if len(out) != len(s.bones) {
		return nil, errors.Errorf("skeleton: traversal reached %d of %d bones", len(out), len(s.bones))
	}
	return out, nil
}

// Clone copies the bone records and links. Names and geometry are shared;
// each geometry buffer gains a reference that the clone's Release returns.
func (s *Skeleton) Clone() *Skeleton {
	c := &Skeleton{
		bones: make([]Bone, len(s.bones)),
		links: make([]links, len(s.links)),
		root:  s.root,
	}
	copy(c.bones, s.bones)
	copy(c.links, s.links)
	for i := range c.bones {
		if g := c.bones[i].Geometry; g != nil {
			g.Retain()
		}
	}
	return c
}

// Release returns every geometry reference held by the skeleton. Calling it
// again has no effect.
func (s *Skeleton) Release() {
	if s.released {
		return
	}
	s.released = true
	for i := range s.bones {
		if g := s.bones[i].Geometry; g != nil {
			g.Release()
			s.bones[i].Geometry = nil
		}
	}
}
