package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/animplayer/mesh"
	"github.com/mogaika/animplayer/skinning"
)

// Synchronizer reconciles mesh data against destination geometry buffers.
// Index buffers are copied on size change only; vertex attributes follow the
// static or skinned policy below. Scratch buffers are reused across frames.
type Synchronizer struct {
	tangentScratch []mgl32.Vec4
}

func NewSynchronizer() *Synchronizer { return &Synchronizer{} }

// syncIndices resizes and refills the index buffer. Topology is static per
// mesh, so with an unchanged index count and untouched vertex buffers the
// content is already current; force covers a mesh swap where the index count
// coincides but the vertices changed, which would leave the old indices
// pointing at vertices that no longer exist.
func syncIndices(geom Geometry, m *mesh.Mesh, force bool) error {
	tCount := m.TriangleIndexCount()
	if tCount <= 0 {
		return errors.Errorf("Mesh %q has no triangle indices", m.Name)
	}
	if !force && geom.IndexCount() == tCount {
		return nil
	}
	geom.SetIndexCount(tCount)
	copy(geom.Indices(), m.TriangleIndices)
	geom.MarkDirty(DirtyIndices)
	return nil
}

// ApplyStatic copies the rest pose into the geometry. When neither vertex
// nor index storage changed size the content is already there and the whole
// copy is skipped.
func (s *Synchronizer) ApplyStatic(geom Geometry, m *mesh.Mesh) error {
	vCount := m.VertexCount()
	if vCount <= 0 {
		return errors.Errorf("Mesh %q has no vertices", m.Name)
	}

	resized := geom.VertexCount() != vCount
	if resized {
		geom.SetVertexCount(vCount)
	}
	if err := syncIndices(geom, m, resized); err != nil {
		return err
	}
	if !resized {
		return nil
	}

	positions := geom.Positions()
	normals := geom.Normals()
	texCoords := geom.TexCoords()
	colors := geom.Colors()

	hasNormals, hasColors := true, true
	vBase := 0
	for i := range m.Parts {
		part := &m.Parts[i]
		count := part.VertexCount()

		for v := 0; v < count; v++ {
			positions[vBase+v] = mgl32.Vec3{part.Positions[v*3], part.Positions[v*3+1], part.Positions[v*3+2]}
		}
		if part.HasNormals() {
			for v := 0; v < count; v++ {
				normals[vBase+v] = mgl32.Vec3{part.Normals[v*3], part.Normals[v*3+1], part.Normals[v*3+2]}
			}
		} else {
			hasNormals = false
		}
		if part.HasUVs() {
			for v := 0; v < count; v++ {
				texCoords[vBase+v] = mgl32.Vec2{part.UVs[v*2], part.UVs[v*2+1]}
			}
		}
		if part.HasColors() {
			for v := 0; v < count; v++ {
				copy(colors[vBase+v][:], part.Colors[v*4:v*4+4])
			}
		} else {
			hasColors = false
		}
		vBase += count
	}

	if !hasNormals {
		skinning.SmoothNormals(positions, m.TriangleIndices, normals)
	}
	if !hasColors {
		fillWhite(colors)
	}
	geom.MarkDirty(DirtyPositions | DirtyNormals | DirtyTexCoords | DirtyColors | DirtyBounds)
	return nil
}

// ApplySkinned blends every part's vertices with the given skinning matrices
// and writes the deformed positions and normals. UVs and colors are only
// rewritten when the buffers were resized; they do not depend on the pose.
func (s *Synchronizer) ApplySkinned(geom Geometry, m *mesh.Mesh, matrices []mgl32.Mat4) error {
	vCount := m.VertexCount()
	if vCount <= 0 {
		return errors.Errorf("Mesh %q has no vertices", m.Name)
	}

	resized := geom.VertexCount() != vCount
	if resized {
		geom.SetVertexCount(vCount)
	}
	if err := syncIndices(geom, m, resized); err != nil {
		return err
	}

	positions := geom.Positions()
	normals := geom.Normals()
	texCoords := geom.TexCoords()
	colors := geom.Colors()

	hasNormals, hasColors := true, true
	vBase := 0
	for i := range m.Parts {
		part := &m.Parts[i]
		count := part.VertexCount()

		job := skinning.Job{
			Influences:   part.Influences,
			Matrices:     matrices,
			JointIndices: part.JointIndices,
			InPositions:  part.Positions,
			OutPositions: positions[vBase : vBase+count],
		}
		if part.Influences > 1 {
			job.JointWeights = part.JointWeights
		}
		if part.HasNormals() {
			job.InNormals = part.Normals
			job.OutNormals = normals[vBase : vBase+count]
		} else {
			hasNormals = false
		}
		if part.HasTangents() {
			if len(s.tangentScratch) < count {
				s.tangentScratch = make([]mgl32.Vec4, count)
			}
			job.InTangents = part.Tangents
			job.OutTangents = s.tangentScratch
		}

		if err := job.Run(); err != nil {
			return errors.Wrapf(err, "Mesh %q part %d skinning failed", m.Name, i)
		}

		if resized {
			if part.HasUVs() {
				for v := 0; v < count; v++ {
					texCoords[vBase+v] = mgl32.Vec2{part.UVs[v*2], part.UVs[v*2+1]}
				}
			}
			if part.HasColors() {
				for v := 0; v < count; v++ {
					copy(colors[vBase+v][:], part.Colors[v*4:v*4+4])
				}
			} else {
				hasColors = false
			}
		}
		vBase += count
	}

	if !hasNormals {
		skinning.SmoothNormals(positions, m.TriangleIndices, normals)
	}
	if resized {
		if !hasColors {
			fillWhite(colors)
		}
		geom.MarkDirty(DirtyTexCoords | DirtyColors)
	}
	geom.MarkDirty(DirtyPositions | DirtyNormals | DirtyBounds)
	return nil
}

func fillWhite(colors [][4]uint8) {
	for i := range colors {
		colors[i] = [4]uint8{255, 255, 255, 255}
	}
}
