package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

type DirtyFlags uint32

const (
	DirtyPositions DirtyFlags = 1 << iota
	DirtyNormals
	DirtyTexCoords
	DirtyColors
	DirtyIndices
	DirtyBounds
)

// Geometry is a set of externally owned vertex attribute buffers plus a
// triangle index buffer. The pipeline only resizes, rewrites and dirty-marks
// them; allocation strategy and upload policy belong to the rendering
// integration behind the implementation.
type Geometry interface {
	VertexCount() int
	IndexCount() int

	// SetVertexCount resizes all vertex attribute buffers, preserving
	// existing contents up to the new size.
	SetVertexCount(count int)
	SetIndexCount(count int)

	Positions() []mgl32.Vec3
	Normals() []mgl32.Vec3
	TexCoords() []mgl32.Vec2
	Colors() [][4]uint8
	Indices() []uint16

	MarkDirty(flags DirtyFlags)
}

// Target is the per-mesh geometry list the player writes into, one Geometry
// per mesh.
type Target interface {
	Len() int
	At(i int) Geometry
	Reset(count int)
}

// BasicGeometry is the plain slice-backed Geometry used by tests, the web
// viewer and the glTF export.
type BasicGeometry struct {
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	texCoords []mgl32.Vec2
	colors    [][4]uint8
	indices   []uint16

	Dirty DirtyFlags
}

func NewBasicGeometry() *BasicGeometry { return &BasicGeometry{} }

func (g *BasicGeometry) VertexCount() int { return len(g.positions) }
func (g *BasicGeometry) IndexCount() int  { return len(g.indices) }

func resizeSlice[T any](s []T, count int) []T {
	if len(s) == count {
		return s
	}
	r := make([]T, count)
	copy(r, s)
	return r
}

func (g *BasicGeometry) SetVertexCount(count int) {
	g.positions = resizeSlice(g.positions, count)
	g.normals = resizeSlice(g.normals, count)
	g.texCoords = resizeSlice(g.texCoords, count)
	g.colors = resizeSlice(g.colors, count)
}

func (g *BasicGeometry) SetIndexCount(count int) {
	g.indices = resizeSlice(g.indices, count)
}

func (g *BasicGeometry) Positions() []mgl32.Vec3 { return g.positions }
func (g *BasicGeometry) Normals() []mgl32.Vec3   { return g.normals }
func (g *BasicGeometry) TexCoords() []mgl32.Vec2 { return g.texCoords }
func (g *BasicGeometry) Colors() [][4]uint8      { return g.colors }
func (g *BasicGeometry) Indices() []uint16       { return g.indices }

func (g *BasicGeometry) MarkDirty(flags DirtyFlags) { g.Dirty |= flags }

// BasicTarget is the Target counterpart of BasicGeometry.
type BasicTarget struct {
	Geometries []*BasicGeometry
}

func (t *BasicTarget) Len() int { return len(t.Geometries) }

func (t *BasicTarget) At(i int) Geometry { return t.Geometries[i] }

func (t *BasicTarget) Reset(count int) {
	t.Geometries = make([]*BasicGeometry, count)
	for i := range t.Geometries {
		t.Geometries[i] = NewBasicGeometry()
	}
}
