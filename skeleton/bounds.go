package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BoundingBox is an axis-aligned box. The zero value is empty.
type BoundingBox struct {
	Min, Max mgl32.Vec3
	valid    bool
}

func (bb *BoundingBox) Valid() bool { return bb.valid }

func (bb *BoundingBox) ExtendPoint(p mgl32.Vec3) {
	if !bb.valid {
		bb.Min, bb.Max = p, p
		bb.valid = true
		return
	}
	for i := 0; i < 3; i++ {
		if p[i] < bb.Min[i] {
			bb.Min[i] = p[i]
		}
		if p[i] > bb.Max[i] {
			bb.Max[i] = p[i]
		}
	}
}

// BindBounds returns the axis-aligned bounds of the model-space bind-pose
// joint positions. Empty box when the skeleton has no joints.
func (s *Skeleton) BindBounds() BoundingBox {
	var bb BoundingBox
	if len(s.joints) == 0 {
		return bb
	}

	locals := make([]Transform, len(s.joints))
	models := make([]mgl32.Mat4, len(s.joints))
	s.BindLocals(locals)
	if err := s.LocalToModel(locals, models); err != nil {
		return bb
	}
	for i := range models {
		bb.ExtendPoint(models[i].Col(3).Vec3())
	}
	return bb
}
