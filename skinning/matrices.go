package skinning

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/animplayer/mesh"
)

// BuildMatrices derives the per-mesh skinning matrices from model-space joint
// matrices: out[j] = models[remap[j]] * inverseBindPose[j]. Rebuilt from
// scratch on every call; the pose changes every frame so there is nothing
// worth caching.
func BuildMatrices(models []mgl32.Mat4, m *mesh.Mesh, out []mgl32.Mat4) error {
	if len(out) < len(m.JointRemap) {
		return errors.Errorf("Skinning matrix buffer too small (%d < %d remap entries)",
			len(out), len(m.JointRemap))
	}
	if len(m.InverseBindPoses) != len(m.JointRemap) {
		return errors.Errorf("Mesh %q inverse bind pose count %d does not match joint remap count %d",
			m.Name, len(m.InverseBindPoses), len(m.JointRemap))
	}
	for j, remap := range m.JointRemap {
		if int(remap) >= len(models) {
			return errors.Errorf("Mesh %q remap entry %d references joint %d beyond skeleton (%d joints)",
				m.Name, j, remap, len(models))
		}
		out[j] = models[remap].Mul4(m.InverseBindPoses[j])
	}
	return nil
}
