package archive

import (
	"github.com/pkg/errors"

	"github.com/mogaika/animplayer/anm"
	"github.com/mogaika/animplayer/utils"
)

// Animation archive layout after the header:
//
//	name [0x18]byte, duration f32, trackCount u32
//	per track: tCount u32, rCount u32, sCount u32,
//	           tCount x (ratio f32, value 3xf32),
//	           rCount x (ratio f32, value 4xf32 xyzw),
//	           sCount x (ratio f32, value 3xf32)
func DecodeAnimation(data []byte, trace *utils.Logger) (*anm.Clip, error) {
	r := newReader(data)
	checkHeader(r, ANIMATION_MAGIC, "animation")

	clip := &anm.Clip{}
	clip.Name = r.name()
	clip.Duration = r.f32()
	trackCount := r.count("Track")
	if r.err != nil {
		return nil, r.err
	}
	trace.Printf("animation %q duration %v tracks %d", clip.Name, clip.Duration, trackCount)

	clip.Tracks = make([]anm.JointTrack, trackCount)
	for i := range clip.Tracks {
		track := &clip.Tracks[i]
		tCount := r.count("Translation key")
		rCount := r.count("Rotation key")
		sCount := r.count("Scale key")
		if r.err != nil {
			return nil, r.err
		}

		track.Translations = make([]anm.Vec3Key, tCount)
		for k := range track.Translations {
			track.Translations[k].Ratio = r.f32()
			track.Translations[k].Value = r.vec3()
		}
		track.Rotations = make([]anm.QuatKey, rCount)
		for k := range track.Rotations {
			track.Rotations[k].Ratio = r.f32()
			track.Rotations[k].Value = r.quat()
		}
		track.Scales = make([]anm.Vec3Key, sCount)
		for k := range track.Scales {
			track.Scales[k].Ratio = r.f32()
			track.Scales[k].Value = r.vec3()
		}
		trace.Printf("  track %.4x keys t:%d r:%d s:%d", i, tCount, rCount, sCount)
	}
	if r.err != nil {
		return nil, r.err
	}

	if err := clip.Validate(); err != nil {
		return nil, errors.Wrapf(err, "Animation archive invalid")
	}
	return clip, nil
}

func EncodeAnimation(clip *anm.Clip) []byte {
	w := &writer{}
	w.u32(ANIMATION_MAGIC)
	w.u32(ARCHIVE_VERSION)
	w.name(clip.Name)
	w.f32(clip.Duration)
	w.u32(uint32(len(clip.Tracks)))
	for i := range clip.Tracks {
		track := &clip.Tracks[i]
		w.u32(uint32(len(track.Translations)))
		w.u32(uint32(len(track.Rotations)))
		w.u32(uint32(len(track.Scales)))
		for _, key := range track.Translations {
			w.f32(key.Ratio)
			w.vec3(key.Value)
		}
		for _, key := range track.Rotations {
			w.f32(key.Ratio)
			w.quat(key.Value)
		}
		for _, key := range track.Scales {
			w.f32(key.Ratio)
			w.vec3(key.Value)
		}
	}
	return w.buf.Bytes()
}
