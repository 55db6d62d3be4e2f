package archive

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/animplayer/mesh"
	"github.com/mogaika/animplayer/utils"
)

// Mesh archive layout after the header:
//
//	meshCount u32
//	per mesh: name [0x18]byte,
//	          indexCount u32, remapCount u32, partCount u32,
//	          indices indexCount x u16, remap remapCount x u16,
//	          inverse bind poses remapCount x 16xf32,
//	          per part: influences u32,
//	                    positionCount u32, normalCount u32, tangentCount u32,
//	                    uvCount u32, colorCount u32,
//	                    jointIndexCount u32, jointWeightCount u32,
//	                    then the arrays in the same order (colors as bytes,
//	                    joint indices as u16, everything else as f32).
//
// Optional attributes are stored with whatever element count the pipeline
// produced; presence is decided later by comparing against the vertex count.
func DecodeMeshes(data []byte, trace *utils.Logger) ([]*mesh.Mesh, error) {
	r := newReader(data)
	checkHeader(r, MESH_MAGIC, "mesh")

	meshCount := r.count("Mesh")
	if r.err != nil {
		return nil, r.err
	}

	meshes := make([]*mesh.Mesh, meshCount)
	for i := range meshes {
		m := &mesh.Mesh{}
		m.Name = r.name()
		indexCount := r.count("Triangle index")
		remapCount := r.count("Joint remap")
		partCount := r.count("Part")
		if r.err != nil {
			return nil, r.err
		}
		trace.Printf("mesh %q indices %d remaps %d parts %d", m.Name, indexCount, remapCount, partCount)

		m.TriangleIndices = r.u16array(indexCount)
		m.JointRemap = r.u16array(remapCount)
		m.InverseBindPoses = make([]mgl32.Mat4, remapCount)
		for j := range m.InverseBindPoses {
			m.InverseBindPoses[j] = r.mat4()
		}

		m.Parts = make([]mesh.Part, partCount)
		for iPart := range m.Parts {
			p := &m.Parts[iPart]
			p.Influences = r.count("Influence")
			positionCount := r.count("Position")
			normalCount := r.count("Normal")
			tangentCount := r.count("Tangent")
			uvCount := r.count("UV")
			colorCount := r.count("Color")
			jointIndexCount := r.count("Joint index")
			jointWeightCount := r.count("Joint weight")
			if r.err != nil {
				return nil, r.err
			}

			p.Positions = r.f32array(positionCount)
			p.Normals = r.f32array(normalCount)
			p.Tangents = r.f32array(tangentCount)
			p.UVs = r.f32array(uvCount)
			p.Colors = append([]uint8{}, r.bytes(colorCount)...)
			p.JointIndices = r.u16array(jointIndexCount)
			p.JointWeights = r.f32array(jointWeightCount)
		}
		if r.err != nil {
			return nil, r.err
		}

		if err := m.Validate(); err != nil {
			return nil, errors.Wrapf(err, "Mesh archive invalid")
		}
		meshes[i] = m
	}
	return meshes, nil
}

func EncodeMeshes(meshes []*mesh.Mesh) []byte {
	w := &writer{}
	w.u32(MESH_MAGIC)
	w.u32(ARCHIVE_VERSION)
	w.u32(uint32(len(meshes)))
	for _, m := range meshes {
		w.name(m.Name)
		w.u32(uint32(len(m.TriangleIndices)))
		w.u32(uint32(len(m.JointRemap)))
		w.u32(uint32(len(m.Parts)))
		w.u16array(m.TriangleIndices)
		w.u16array(m.JointRemap)
		for _, bind := range m.InverseBindPoses {
			w.mat4(bind)
		}
		for i := range m.Parts {
			p := &m.Parts[i]
			w.u32(uint32(p.Influences))
			w.u32(uint32(len(p.Positions)))
			w.u32(uint32(len(p.Normals)))
			w.u32(uint32(len(p.Tangents)))
			w.u32(uint32(len(p.UVs)))
			w.u32(uint32(len(p.Colors)))
			w.u32(uint32(len(p.JointIndices)))
			w.u32(uint32(len(p.JointWeights)))
			w.f32array(p.Positions)
			w.f32array(p.Normals)
			w.f32array(p.Tangents)
			w.f32array(p.UVs)
			w.buf.Write(p.Colors)
			w.u16array(p.JointIndices)
			w.f32array(p.JointWeights)
		}
	}
	return w.buf.Bytes()
}
