package anm_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/animplayer/anm"
)

func constKeys(v mgl32.Vec3) []anm.Vec3Key {
	return []anm.Vec3Key{{Ratio: 0, Value: v}}
}

func testClip(trackCount int) *anm.Clip {
	clip := &anm.Clip{
		Name:     "test",
		Duration: 2.0,
		Tracks:   make([]anm.JointTrack, trackCount),
	}
	for i := range clip.Tracks {
		clip.Tracks[i] = anm.JointTrack{
			Translations: []anm.Vec3Key{
				{Ratio: 0.0, Value: mgl32.Vec3{0, 0, 0}},
				{Ratio: 0.5, Value: mgl32.Vec3{0, 1, 0}},
				{Ratio: 1.0, Value: mgl32.Vec3{0, 3, 0}},
			},
			Rotations: []anm.QuatKey{{Ratio: 0, Value: mgl32.QuatIdent()}},
			Scales:    constKeys(mgl32.Vec3{1, 1, 1}),
		}
	}
	return clip
}

func vecNear(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-5
}

func TestSampleInterpolation(t *testing.T) {
	s := anm.NewSampler(testClip(1), 1)

	cases := []struct {
		ratio float32
		want  mgl32.Vec3
	}{
		{0.0, mgl32.Vec3{0, 0, 0}},
		{0.25, mgl32.Vec3{0, 0.5, 0}},
		{0.5, mgl32.Vec3{0, 1, 0}},
		{0.75, mgl32.Vec3{0, 2, 0}},
		{1.0, mgl32.Vec3{0, 3, 0}},
	}
	for _, c := range cases {
		if err := s.Sample(c.ratio); err != nil {
			t.Fatal(err)
		}
		if got := s.Locals[0].Translation; !vecNear(got, c.want) {
			t.Errorf("ratio %v translation %v, want %v", c.ratio, got, c.want)
		}
	}
}

func TestSampleClamp(t *testing.T) {
	s := anm.NewSampler(testClip(1), 1)

	if err := s.Sample(-0.5); err != nil {
		t.Fatal(err)
	}
	if got := s.Locals[0].Translation; !vecNear(got, mgl32.Vec3{0, 0, 0}) {
		t.Errorf("ratio below 0 sampled %v", got)
	}

	if err := s.Sample(1.5); err != nil {
		t.Fatal(err)
	}
	if got := s.Locals[0].Translation; !vecNear(got, mgl32.Vec3{0, 3, 0}) {
		t.Errorf("ratio above 1 sampled %v", got)
	}
}

// The cursor cache must not change results when sampling jumps around.
func TestSampleNonSequential(t *testing.T) {
	clip := testClip(2)
	cached := anm.NewSampler(clip, 2)

	for _, ratio := range []float32{0.9, 0.1, 0.6, 0.0, 1.0, 0.3} {
		if err := cached.Sample(ratio); err != nil {
			t.Fatal(err)
		}
		fresh := anm.NewSampler(clip, 2)
		if err := fresh.Sample(ratio); err != nil {
			t.Fatal(err)
		}
		for j := 0; j < 2; j++ {
			if !vecNear(cached.Locals[j].Translation, fresh.Locals[j].Translation) {
				t.Errorf("ratio %v joint %d cached %v != fresh %v",
					ratio, j, cached.Locals[j].Translation, fresh.Locals[j].Translation)
			}
		}
	}
}

func TestSamplePadding(t *testing.T) {
	s := anm.NewSampler(testClip(3), 3)
	if len(s.Locals)%anm.TransformGroupWidth != 0 {
		t.Fatalf("locals size %d not padded to group width", len(s.Locals))
	}
	if err := s.Sample(0.5); err != nil {
		t.Fatal(err)
	}
	for i := 3; i < len(s.Locals); i++ {
		pad := s.Locals[i]
		if !vecNear(pad.Translation, mgl32.Vec3{}) || !vecNear(pad.Scale, mgl32.Vec3{1, 1, 1}) {
			t.Errorf("padding transform %d not identity: %+v", i, pad)
		}
	}
}

func TestSampleBufferMismatch(t *testing.T) {
	s := anm.NewSampler(testClip(4), 4)
	s.Locals = s.Locals[:2]
	if err := s.Sample(0.5); err == nil {
		t.Error("expected error for undersized output buffer")
	}
}

func TestClipValidate(t *testing.T) {
	if err := testClip(1).Validate(); err != nil {
		t.Errorf("valid clip rejected: %v", err)
	}

	bad := testClip(1)
	bad.Duration = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero duration")
	}

	bad = testClip(1)
	bad.Tracks[0].Rotations = nil
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty rotation channel")
	}

	bad = testClip(1)
	bad.Tracks[0].Translations[0].Ratio = 0.9
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unsorted keys")
	}
}
