package archive

import (
	"math"

	"github.com/pkg/errors"

	"github.com/mogaika/animplayer/skeleton"
	"github.com/mogaika/animplayer/utils"
)

var jointNames utils.RandomNameGenerator

// Skeleton archive layout after the header:
//
//	jointCount u32
//	per joint: name [0x18]byte, parent i16, pad u16,
//	           translation 3xf32, rotation 4xf32 (xyzw), scale 3xf32
func DecodeSkeleton(data []byte, trace *utils.Logger) (*skeleton.Skeleton, error) {
	r := newReader(data)
	checkHeader(r, SKELETON_MAGIC, "skeleton")

	jointCount := r.count("Joint")
	if r.err != nil {
		return nil, r.err
	}
	// Stored parent ids are int16, so larger skeletons cannot round trip.
	if jointCount > math.MaxInt16+1 {
		return nil, errors.Errorf("Joint count %d exceeds the 16 bit id range", jointCount)
	}

	joints := make([]skeleton.Joint, jointCount)
	for i := range joints {
		joints[i].Name = r.name()
		joints[i].Parent = r.i16()
		r.u16() // pad
		joints[i].Bind.Translation = r.vec3()
		joints[i].Bind.Rotation = r.quat()
		joints[i].Bind.Scale = r.vec3()

		if joints[i].Name == "" {
			joints[i].Name = jointNames.RandomName()
		}
		trace.Printf("  joint %.4x parent %.4x %q bind %+v", i, joints[i].Parent, joints[i].Name, joints[i].Bind)
	}
	if r.err != nil {
		return nil, r.err
	}

	s, err := skeleton.New(joints)
	if err != nil {
		return nil, errors.Wrapf(err, "Skeleton archive invalid")
	}
	return s, nil
}

func EncodeSkeleton(s *skeleton.Skeleton) []byte {
	w := &writer{}
	w.u32(SKELETON_MAGIC)
	w.u32(ARCHIVE_VERSION)
	w.u32(uint32(s.JointCount()))
	for _, j := range s.Joints() {
		w.name(j.Name)
		w.i16(j.Parent)
		w.u16(0)
		w.vec3(j.Bind.Translation)
		w.quat(j.Bind.Rotation)
		w.vec3(j.Bind.Scale)
	}
	return w.buf.Bytes()
}
