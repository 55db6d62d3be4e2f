package anm

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/animplayer/skeleton"
)

// TransformGroupWidth is the group width the hierarchy traversal consumes
// local transforms in. Sampler output is padded up to a multiple of it.
const TransformGroupWidth = 4

// trackCursor remembers the last key hit per channel so that sequential
// sampling with nearby ratios resumes the key search where it left off.
type trackCursor struct {
	translation, rotation, scale int
}

// Sampler owns one clip, its decode cache and the sampled local transforms.
// Weight is reserved for multi-clip blending and currently always 1.
type Sampler struct {
	Clip   *Clip
	Locals []skeleton.Transform
	Weight float32

	cursors []trackCursor
}

func NewSampler(clip *Clip, jointCount int) *Sampler {
	s := &Sampler{
		Clip:   clip,
		Weight: 1.0,
	}
	s.Resize(jointCount)
	return s
}

// Resize re-sizes the decode cache and output buffer for a skeleton with
// jointCount joints, dropping any cached cursor state.
func (s *Sampler) Resize(jointCount int) {
	padded := (jointCount + TransformGroupWidth - 1) &^ (TransformGroupWidth - 1)
	s.Locals = make([]skeleton.Transform, padded)
	for i := range s.Locals {
		s.Locals[i] = skeleton.IdentityTransform()
	}
	s.cursors = make([]trackCursor, len(s.Clip.Tracks))
}

// Sample decodes every joint track at the given ratio into Locals. Ratios
// outside [0,1] are clamped, so a non-looping timeline past the end holds
// the last pose. Errors when the output buffer does not cover the clip's
// track count.
func (s *Sampler) Sample(ratio float32) error {
	if len(s.Locals) < len(s.Clip.Tracks) || len(s.cursors) != len(s.Clip.Tracks) {
		return errors.Errorf("Sampler output buffer size mismatch (%d locals, %d cursors, %d tracks)",
			len(s.Locals), len(s.cursors), len(s.Clip.Tracks))
	}

	if ratio < 0.0 {
		ratio = 0.0
	} else if ratio > 1.0 {
		ratio = 1.0
	}

	for i := range s.Clip.Tracks {
		track := &s.Clip.Tracks[i]
		cursor := &s.cursors[i]
		s.Locals[i] = skeleton.Transform{
			Translation: sampleVec3(track.Translations, ratio, &cursor.translation),
			Rotation:    sampleQuat(track.Rotations, ratio, &cursor.rotation),
			Scale:       sampleVec3(track.Scales, ratio, &cursor.scale),
		}
	}
	return nil
}

// seek moves the cursor to the last key with Ratio <= ratio, starting from
// the cached position. Returns 0 when ratio precedes the first key.
func seek(count int, keyRatio func(int) float32, ratio float32, cursor *int) int {
	i := *cursor
	if i >= count {
		i = count - 1
	}
	for i > 0 && keyRatio(i) > ratio {
		i--
	}
	for i+1 < count && keyRatio(i+1) <= ratio {
		i++
	}
	*cursor = i
	return i
}

func interpFactor(a, b, ratio float32) float32 {
	if b <= a {
		return 0.0
	}
	t := (ratio - a) / (b - a)
	if t < 0.0 {
		t = 0.0
	} else if t > 1.0 {
		t = 1.0
	}
	return t
}

func sampleVec3(keys []Vec3Key, ratio float32, cursor *int) mgl32.Vec3 {
	i := seek(len(keys), func(k int) float32 { return keys[k].Ratio }, ratio, cursor)
	if i+1 >= len(keys) || keys[i].Ratio > ratio {
		return keys[i].Value
	}
	t := interpFactor(keys[i].Ratio, keys[i+1].Ratio, ratio)
	return keys[i].Value.Mul(1.0 - t).Add(keys[i+1].Value.Mul(t))
}

func sampleQuat(keys []QuatKey, ratio float32, cursor *int) mgl32.Quat {
	i := seek(len(keys), func(k int) float32 { return keys[k].Ratio }, ratio, cursor)
	if i+1 >= len(keys) || keys[i].Ratio > ratio {
		return keys[i].Value
	}
	t := interpFactor(keys[i].Ratio, keys[i+1].Ratio, ratio)
	return mgl32.QuatSlerp(keys[i].Value, keys[i+1].Value, t)
}
