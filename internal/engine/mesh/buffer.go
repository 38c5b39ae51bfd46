// Package mesh converts parsed OBJ geometry into interleaved drawable buffers.
package mesh

import "sync/atomic"

// Stride is the number of floats per corner record: u, v, nx, ny, nz, x, y, z.
const Stride = 8

// Offsets of each attribute within a corner record.
const (
	OffsetTexCoord = 0
	OffsetNormal   = 2
	OffsetPosition = 5
)

// Vertex is one decoded corner record.
type Vertex struct {
	TexCoord [2]float32
	Normal   [3]float32
	Position [3]float32
}

// Bounds holds the axis-aligned bounding box of a buffer.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Buffer is an immutable interleaved triangle buffer shared by every skeleton
// that references it. It starts with one reference; each holder calls Release
// exactly once.
type Buffer struct {
	data     []float32
	elements int
	bounds   Bounds
	refs     atomic.Int32
	onFree   func(*Buffer)
}

// NewBuffer wraps interleaved data holding elements corner records.
func NewBuffer(data []float32, elements int, bounds Bounds) *Buffer {
	b := &Buffer{data: data, elements: elements, bounds: bounds}
	b.refs.Store(1)
	return b
}

// Data returns the interleaved floats. Callers must not modify them.
func (b *Buffer) Data() []float32 { return b.data }

// Elements returns the number of corner records (3 per triangle).
func (b *Buffer) Elements() int { return b.elements }

// Triangles returns the number of triangles.
func (b *Buffer) Triangles() int { return b.elements / 3 }

// Bounds returns the bounding box of all positions.
func (b *Buffer) Bounds() Bounds { return b.bounds }

// Vertex decodes corner record i.
func (b *Buffer) Vertex(i int) Vertex {
	r := b.data[i*Stride : (i+1)*Stride]
	return Vertex{
		TexCoord: [2]float32{r[OffsetTexCoord], r[OffsetTexCoord+1]},
		Normal:   [3]float32{r[OffsetNormal], r[OffsetNormal+1], r[OffsetNormal+2]},
		Position: [3]float32{r[OffsetPosition], r[OffsetPosition+1], r[OffsetPosition+2]},
	}
}

// OnFree registers fn to run when the last reference is released. The
// rendering side uses it to delete GPU copies.
func (b *Buffer) OnFree(fn func(*Buffer)) {
	b.onFree = fn
}

// Retain adds a reference and returns b.
func (b *Buffer) Retain() *Buffer {
	b.refs.Add(1)
	return b
}

// Release drops a reference. The data is dropped with the last one; extra
// releases after that are ignored.
func (b *Buffer) Release() {
	n := b.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		b.refs.Store(0)
		return
	}
	if b.onFree != nil {
		b.onFree(b)
	}
	b.data = nil
}

// Refs returns the current reference count.
func (b *Buffer) Refs() int {
	return int(b.refs.Load())
}

// Freed reports whether the last reference has been released.
func (b *Buffer) Freed() bool {
	return b.refs.Load() <= 0
}
