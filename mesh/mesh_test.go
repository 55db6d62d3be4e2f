package mesh_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/animplayer/mesh"
)

func validMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Name:             "m",
		TriangleIndices:  []uint16{0, 1, 2},
		JointRemap:       []uint16{0, 4},
		InverseBindPoses: []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()},
		Parts: []mesh.Part{{
			Positions:    []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
			Influences:   2,
			JointIndices: []uint16{0, 1, 0, 1, 0, 1},
			JointWeights: []float32{0.5, 0.5, 0.5},
		}},
	}
}

func TestValidate(t *testing.T) {
	if err := validMesh().Validate(); err != nil {
		t.Errorf("valid mesh rejected: %v", err)
	}

	m := validMesh()
	m.TriangleIndices = []uint16{0, 1}
	if err := m.Validate(); err == nil {
		t.Error("expected error for index count not a multiple of 3")
	}

	m = validMesh()
	m.TriangleIndices = []uint16{0, 1, 9}
	if err := m.Validate(); err == nil {
		t.Error("expected error for triangle index out of range")
	}

	m = validMesh()
	m.InverseBindPoses = m.InverseBindPoses[:1]
	if err := m.Validate(); err == nil {
		t.Error("expected error for bind pose and remap mismatch")
	}

	m = validMesh()
	m.Parts[0].JointIndices = []uint16{0, 7, 0, 1, 0, 1}
	if err := m.Validate(); err == nil {
		t.Error("expected error for joint index outside remap table")
	}

	m = validMesh()
	m.Parts[0].JointWeights = m.Parts[0].JointWeights[:1]
	if err := m.Validate(); err == nil {
		t.Error("expected error for wrong stored weight count")
	}
}

func TestHighestJointIndex(t *testing.T) {
	if got := validMesh().HighestJointIndex(); got != 4 {
		t.Errorf("highest joint index %d, want 4", got)
	}
	if got := (&mesh.Mesh{}).HighestJointIndex(); got != -1 {
		t.Errorf("unskinned highest joint index %d, want -1", got)
	}
}

func TestAttributePresence(t *testing.T) {
	p := &validMesh().Parts[0]
	if p.VertexCount() != 3 {
		t.Fatalf("vertex count %d", p.VertexCount())
	}
	if p.HasNormals() || p.HasUVs() || p.HasColors() || p.HasTangents() {
		t.Error("absent attributes reported present")
	}

	p.Normals = make([]float32, 9)
	p.UVs = make([]float32, 6)
	if !p.HasNormals() || !p.HasUVs() {
		t.Error("present attributes reported absent")
	}

	// Wrong element counts mean absent, not broken.
	p.Normals = make([]float32, 7)
	if p.HasNormals() {
		t.Error("mis-sized normal array reported present")
	}
}
