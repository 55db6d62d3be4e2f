package skeleton

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const JOINT_PARENT_NONE = -1

// Transform is a joint-local translation+rotation+scale triplet.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1.0, 1.0, 1.0},
	}
}

func (t Transform) Mat4() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
	m = m.Mul4(t.Rotation.Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

type Joint struct {
	Name   string
	Parent int16 // JOINT_PARENT_NONE for roots
	Bind   Transform
}

// Skeleton is immutable after New. The joint order of the input slice is
// preserved; parent indexes are allowed to point forward, so a traversal
// order is computed once here instead of assuming parent < child.
type Skeleton struct {
	joints []Joint
	order  []int16 // parent-before-child
}

func New(joints []Joint) (*Skeleton, error) {
	// Joint ids travel as int16 parent references and uint16 remap entries.
	if len(joints) > math.MaxInt16+1 {
		return nil, errors.Errorf("Joint count %d exceeds the 16 bit id range", len(joints))
	}
	s := &Skeleton{
		joints: joints,
		order:  make([]int16, 0, len(joints)),
	}

	childs := make([][]int16, len(joints))
	roots := make([]int16, 0, 4)
	for i := range joints {
		p := joints[i].Parent
		if p == JOINT_PARENT_NONE {
			roots = append(roots, int16(i))
			continue
		}
		if int(p) < 0 || int(p) >= len(joints) {
			return nil, errors.Errorf("Joint %d %q references unknown parent %d", i, joints[i].Name, p)
		}
		if int(p) == i {
			return nil, errors.Errorf("Joint %d %q is its own parent", i, joints[i].Name)
		}
		childs[p] = append(childs[p], int16(i))
	}

	stack := make([]int16, len(roots))
	copy(stack, roots)
	for len(stack) != 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.order = append(s.order, j)
		stack = append(stack, childs[j]...)
	}
	if len(s.order) != len(joints) {
		return nil, errors.Errorf("Joint hierarchy contains a cycle (%d of %d joints reachable)",
			len(s.order), len(joints))
	}

	return s, nil
}

func (s *Skeleton) JointCount() int { return len(s.joints) }

func (s *Skeleton) Joints() []Joint { return s.joints }

// BindLocals fills out with every joint's bind-pose local transform.
// out must hold at least JointCount transforms (it may be padded longer).
func (s *Skeleton) BindLocals(out []Transform) error {
	if len(out) < len(s.joints) {
		return errors.Errorf("Locals buffer too small (%d < %d joints)", len(out), len(s.joints))
	}
	for i := range s.joints {
		out[i] = s.joints[i].Bind
	}
	return nil
}

// LocalToModel composes local transforms down the hierarchy into model-space
// matrices. Root joints compose against identity. locals may be padded past
// the joint count; out must match it exactly.
func (s *Skeleton) LocalToModel(locals []Transform, out []mgl32.Mat4) error {
	if len(locals) < len(s.joints) {
		return errors.Errorf("Locals buffer size mismatch (%d < %d joints)", len(locals), len(s.joints))
	}
	if len(out) != len(s.joints) {
		return errors.Errorf("Models buffer size mismatch (%d != %d joints)", len(out), len(s.joints))
	}
	for _, j := range s.order {
		local := locals[j].Mat4()
		if p := s.joints[j].Parent; p == JOINT_PARENT_NONE {
			out[j] = local
		} else {
			out[j] = out[p].Mul4(local)
		}
	}
	return nil
}
