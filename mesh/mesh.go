package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Part is a contiguous vertex range of a mesh. Positions are required; the
// other attributes are optional and detected by whether their stored element
// count matches the part's vertex count. Joint weights store one float less
// than the influence count per vertex, the last weight being implied.
type Part struct {
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex, optional
	Tangents  []float32 // 4 per vertex, optional
	UVs       []float32 // 2 per vertex, optional
	Colors    []uint8   // 4 per vertex, optional

	Influences   int
	JointIndices []uint16  // Influences per vertex
	JointWeights []float32 // Influences-1 per vertex, only when Influences > 1
}

func (p *Part) VertexCount() int { return len(p.Positions) / 3 }

func (p *Part) HasNormals() bool  { return len(p.Normals) == p.VertexCount()*3 }
func (p *Part) HasTangents() bool { return len(p.Tangents) == p.VertexCount()*4 }
func (p *Part) HasUVs() bool      { return len(p.UVs) == p.VertexCount()*2 }
func (p *Part) HasColors() bool   { return len(p.Colors) == p.VertexCount()*4 }

// Mesh is immutable after load. JointRemap maps mesh-local joint ids to
// skeleton joint ids; InverseBindPoses is parallel to it.
type Mesh struct {
	Name string

	TriangleIndices  []uint16
	JointRemap       []uint16
	InverseBindPoses []mgl32.Mat4
	Parts            []Part
}

func (m *Mesh) VertexCount() int {
	count := 0
	for i := range m.Parts {
		count += m.Parts[i].VertexCount()
	}
	return count
}

func (m *Mesh) TriangleIndexCount() int { return len(m.TriangleIndices) }

// HighestJointIndex returns the largest skeleton joint id the mesh references
// through its remap table, or -1 for an unskinned mesh.
func (m *Mesh) HighestJointIndex() int {
	highest := -1
	for _, j := range m.JointRemap {
		if int(j) > highest {
			highest = int(j)
		}
	}
	return highest
}

func (m *Mesh) Validate() error {
	vCount := m.VertexCount()
	if vCount <= 0 {
		return errors.Errorf("Mesh %q has no vertices", m.Name)
	}
	if len(m.TriangleIndices) == 0 || len(m.TriangleIndices)%3 != 0 {
		return errors.Errorf("Mesh %q triangle index count %d is not a positive multiple of 3",
			m.Name, len(m.TriangleIndices))
	}
	for _, index := range m.TriangleIndices {
		if int(index) >= vCount {
			return errors.Errorf("Mesh %q triangle index %d out of vertex range %d", m.Name, index, vCount)
		}
	}
	if len(m.InverseBindPoses) != len(m.JointRemap) {
		return errors.Errorf("Mesh %q inverse bind pose count %d does not match joint remap count %d",
			m.Name, len(m.InverseBindPoses), len(m.JointRemap))
	}

	for i := range m.Parts {
		p := &m.Parts[i]
		count := p.VertexCount()
		if count <= 0 {
			return errors.Errorf("Mesh %q part %d has no vertices", m.Name, i)
		}
		if len(p.Positions) != count*3 {
			return errors.Errorf("Mesh %q part %d positions array not a multiple of 3", m.Name, i)
		}
		if p.Influences < 0 {
			return errors.Errorf("Mesh %q part %d has negative influence count", m.Name, i)
		}
		if p.Influences > 0 {
			if len(p.JointIndices) != count*p.Influences {
				return errors.Errorf("Mesh %q part %d joint index count %d does not match %d vertices x %d influences",
					m.Name, i, len(p.JointIndices), count, p.Influences)
			}
			for _, j := range p.JointIndices {
				if int(j) >= len(m.JointRemap) {
					return errors.Errorf("Mesh %q part %d joint index %d out of remap range %d",
						m.Name, i, j, len(m.JointRemap))
				}
			}
		}
		if p.Influences > 1 && len(p.JointWeights) != count*(p.Influences-1) {
			return errors.Errorf("Mesh %q part %d joint weight count %d does not match %d vertices x %d stored weights",
				m.Name, i, len(p.JointWeights), count, p.Influences-1)
		}
	}
	return nil
}
