package skinning

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Job blends one mesh part's vertices across their joint influences.
// Matrices, indices and input attributes are set by the caller; output slices
// determine which attributes get skinned. Positions transform with the full
// matrix, normals and tangents with the linear part only.
//
// JointWeights holds Influences-1 stored weights per vertex; the final weight
// is implied as one minus the sum of the stored ones.
type Job struct {
	Influences int
	Matrices   []mgl32.Mat4

	JointIndices []uint16
	JointWeights []float32

	InPositions []float32 // 3 per vertex
	InNormals   []float32 // 3 per vertex
	InTangents  []float32 // 4 per vertex

	OutPositions []mgl32.Vec3
	OutNormals   []mgl32.Vec3
	OutTangents  []mgl32.Vec4
}

func (job *Job) validate() (int, error) {
	if job.Influences < 1 {
		return 0, errors.Errorf("Skinning job influence count %d < 1", job.Influences)
	}
	count := len(job.InPositions) / 3
	if count == 0 || len(job.InPositions)%3 != 0 {
		return 0, errors.Errorf("Skinning job positions array size %d invalid", len(job.InPositions))
	}
	if len(job.JointIndices) != count*job.Influences {
		return 0, errors.Errorf("Skinning job joint index count %d does not match %d vertices x %d influences",
			len(job.JointIndices), count, job.Influences)
	}
	if job.Influences > 1 && len(job.JointWeights) != count*(job.Influences-1) {
		return 0, errors.Errorf("Skinning job joint weight count %d does not match %d vertices x %d stored weights",
			len(job.JointWeights), count, job.Influences-1)
	}
	if len(job.OutPositions) < count {
		return 0, errors.Errorf("Skinning job output positions too small (%d < %d)", len(job.OutPositions), count)
	}
	if job.InNormals != nil {
		if len(job.InNormals) != count*3 {
			return 0, errors.Errorf("Skinning job normals array size %d does not match %d vertices", len(job.InNormals), count)
		}
		if len(job.OutNormals) < count {
			return 0, errors.Errorf("Skinning job output normals too small (%d < %d)", len(job.OutNormals), count)
		}
	}
	if job.InTangents != nil {
		if len(job.InTangents) != count*4 {
			return 0, errors.Errorf("Skinning job tangents array size %d does not match %d vertices", len(job.InTangents), count)
		}
		if len(job.OutTangents) < count {
			return 0, errors.Errorf("Skinning job output tangents too small (%d < %d)", len(job.OutTangents), count)
		}
	}
	return count, nil
}

func (job *Job) Run() error {
	count, err := job.validate()
	if err != nil {
		return err
	}

	for v := 0; v < count; v++ {
		var blend mgl32.Mat4

		remaining := float32(1.0)
		for k := 0; k < job.Influences; k++ {
			var weight float32
			switch {
			case job.Influences == 1:
				weight = 1.0
			case k == job.Influences-1:
				weight = remaining
			default:
				weight = job.JointWeights[v*(job.Influences-1)+k]
				remaining -= weight
			}

			joint := job.JointIndices[v*job.Influences+k]
			if int(joint) >= len(job.Matrices) {
				return errors.Errorf("Skinning job vertex %d references joint %d beyond matrix array (%d)",
					v, joint, len(job.Matrices))
			}
			if k == 0 {
				blend = job.Matrices[joint].Mul(weight)
			} else {
				blend = blend.Add(job.Matrices[joint].Mul(weight))
			}
		}

		p := blend.Mul4x1(mgl32.Vec4{job.InPositions[v*3], job.InPositions[v*3+1], job.InPositions[v*3+2], 1.0})
		job.OutPositions[v] = p.Vec3()

		if job.InNormals != nil {
			linear := blend.Mat3()
			job.OutNormals[v] = linear.Mul3x1(
				mgl32.Vec3{job.InNormals[v*3], job.InNormals[v*3+1], job.InNormals[v*3+2]})
		}
		if job.InTangents != nil {
			linear := blend.Mat3()
			t := linear.Mul3x1(mgl32.Vec3{job.InTangents[v*4], job.InTangents[v*4+1], job.InTangents[v*4+2]})
			job.OutTangents[v] = mgl32.Vec4{t[0], t[1], t[2], job.InTangents[v*4+3]}
		}
	}
	return nil
}
