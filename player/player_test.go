package player_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/animplayer/anm"
	"github.com/mogaika/animplayer/mesh"
	"github.com/mogaika/animplayer/player"
	"github.com/mogaika/animplayer/render"
	"github.com/mogaika/animplayer/skeleton"
)

// memLoader serves pre-built resources by name.
type memLoader struct {
	skeletons map[string]*skeleton.Skeleton
	clips     map[string]*anm.Clip
	meshes    map[string][]*mesh.Mesh
}

func (l *memLoader) Skeleton(resource string) (*skeleton.Skeleton, error) {
	if s, ok := l.skeletons[resource]; ok {
		return s, nil
	}
	return nil, errors.Errorf("no skeleton %q", resource)
}

func (l *memLoader) Animation(resource string) (*anm.Clip, error) {
	if c, ok := l.clips[resource]; ok {
		return c, nil
	}
	return nil, errors.Errorf("no animation %q", resource)
}

func (l *memLoader) Meshes(resource string) ([]*mesh.Mesh, error) {
	if m, ok := l.meshes[resource]; ok {
		return m, nil
	}
	return nil, errors.Errorf("no meshes %q", resource)
}

func testSkeleton(t *testing.T, jointCount int) *skeleton.Skeleton {
	t.Helper()
	joints := make([]skeleton.Joint, jointCount)
	for i := range joints {
		bind := skeleton.IdentityTransform()
		if i > 0 {
			bind.Translation = mgl32.Vec3{0, 1, 0}
		}
		parent := int16(i - 1)
		if i == 0 {
			parent = skeleton.JOINT_PARENT_NONE
		}
		joints[i] = skeleton.Joint{Name: "j", Parent: parent, Bind: bind}
	}
	s, err := skeleton.New(joints)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// One triangle rigidly bound to the root joint.
func testMesh(name string) *mesh.Mesh {
	return &mesh.Mesh{
		Name:            name,
		TriangleIndices: []uint16{0, 1, 2},
		JointRemap:      []uint16{0},
		InverseBindPoses: []mgl32.Mat4{
			mgl32.Ident4(),
		},
		Parts: []mesh.Part{{
			Positions:    []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
			Influences:   1,
			JointIndices: []uint16{0, 0, 0},
		}},
	}
}

func translationClip(trackCount int, offset mgl32.Vec3) *anm.Clip {
	clip := &anm.Clip{
		Name:     "move",
		Duration: 2.0,
		Tracks:   make([]anm.JointTrack, trackCount),
	}
	for i := range clip.Tracks {
		clip.Tracks[i] = anm.JointTrack{
			Translations: []anm.Vec3Key{
				{Ratio: 0, Value: mgl32.Vec3{}},
				{Ratio: 1, Value: offset},
			},
			Rotations: []anm.QuatKey{{Ratio: 0, Value: mgl32.QuatIdent()}},
			Scales:    []anm.Vec3Key{{Ratio: 0, Value: mgl32.Vec3{1, 1, 1}}},
		}
	}
	return clip
}

func newTestPlayer(t *testing.T) (*player.Player, *memLoader) {
	t.Helper()
	loader := &memLoader{
		skeletons: map[string]*skeleton.Skeleton{"skel": testSkeleton(t, 2)},
		clips: map[string]*anm.Clip{
			"move": translationClip(2, mgl32.Vec3{2, 0, 0}),
			"idle": translationClip(2, mgl32.Vec3{}),
			"bad":  translationClip(5, mgl32.Vec3{}),
		},
		meshes: map[string][]*mesh.Mesh{"mesh": {testMesh("tri")}},
	}
	p := player.NewPlayer(loader)
	if err := p.Initialize("skel", "mesh"); err != nil {
		t.Fatal(err)
	}
	return p, loader
}

func TestInitializeRejectsMismatchedMesh(t *testing.T) {
	bad := testMesh("tri")
	bad.JointRemap = []uint16{7}
	loader := &memLoader{
		skeletons: map[string]*skeleton.Skeleton{"skel": testSkeleton(t, 2)},
		meshes:    map[string][]*mesh.Mesh{"mesh": {bad}},
	}
	if err := player.NewPlayer(loader).Initialize("skel", "mesh"); err == nil {
		t.Error("expected error for mesh referencing unknown joint")
	}
}

func TestLoadAnimation(t *testing.T) {
	p, _ := newTestPlayer(t)

	if err := p.LoadAnimation("move", "move"); err != nil {
		t.Fatal(err)
	}
	if got := p.CurrentAnimation(); got != "move" {
		t.Errorf("first loaded clip not selected, current %q", got)
	}

	// A schema mismatch must not leave a sampler behind.
	if err := p.LoadAnimation("bad", "bad"); err == nil {
		t.Fatal("expected error for track count mismatch")
	}
	for _, key := range p.AnimationKeys() {
		if key == "bad" {
			t.Error("failed load registered a sampler")
		}
	}

	if err := p.LoadAnimation("missing", "missing"); err == nil {
		t.Error("expected error for unknown resource")
	}
}

func TestSelectAndUnload(t *testing.T) {
	p, _ := newTestPlayer(t)
	if err := p.LoadAnimation("move", "move"); err != nil {
		t.Fatal(err)
	}
	if err := p.LoadAnimation("idle", "idle"); err != nil {
		t.Fatal(err)
	}

	p.Update(0.0, false, true)
	p.Update(1.0, false, true)
	if got := p.TimeRatio(); got == 0 {
		t.Fatal("playback did not advance")
	}

	// Switching is a hard cut back to the start.
	p.SelectAnimation("idle")
	if got := p.CurrentAnimation(); got != "idle" {
		t.Errorf("current animation %q", got)
	}
	if got := p.TimeRatio(); got != 0 {
		t.Errorf("ratio after select %v", got)
	}

	p.UnloadAnimation("idle")
	if got := p.CurrentAnimation(); got != "" {
		t.Errorf("current animation after unloading it %q", got)
	}
	if err := p.Update(2.0, false, true); err == nil {
		t.Error("expected error updating with no selected animation")
	}

	if got := len(p.AnimationKeys()); got != 1 {
		t.Errorf("animation count %d, want 1", got)
	}
}

func TestUpdateAndApply(t *testing.T) {
	p, _ := newTestPlayer(t)
	if err := p.LoadAnimation("move", "move"); err != nil {
		t.Fatal(err)
	}

	target := &render.BasicTarget{}

	// t=1 of a 2 second clip: root translated by half the clip offset.
	if err := p.Update(0.0, false, true); err != nil {
		t.Fatal(err)
	}
	if err := p.Update(1.0, false, true); err != nil {
		t.Fatal(err)
	}
	if err := p.ApplyMeshes(target, true); err != nil {
		t.Fatal(err)
	}

	if target.Len() != 1 {
		t.Fatalf("target geometry count %d", target.Len())
	}
	geom := target.Geometries[0]
	want := mgl32.Vec3{1, 0, 0}
	if got := geom.Positions()[0]; got.Sub(want).Len() > 1e-5 {
		t.Errorf("skinned vertex 0 at %v, want %v", got, want)
	}
	if geom.IndexCount() != 3 {
		t.Errorf("index count %d", geom.IndexCount())
	}
}

func TestApplyMeshesStatic(t *testing.T) {
	p, _ := newTestPlayer(t)

	target := &render.BasicTarget{}
	if err := p.ApplyMeshes(target, false); err != nil {
		t.Fatal(err)
	}
	geom := target.Geometries[0]
	if got := geom.Positions()[1]; got.Sub(mgl32.Vec3{1, 0, 0}).Len() > 1e-5 {
		t.Errorf("static vertex 1 at %v", got)
	}
}

func TestComputeSkeletonBounds(t *testing.T) {
	p, _ := newTestPlayer(t)
	bounds := p.ComputeSkeletonBounds()
	if !bounds.Valid() {
		t.Fatal("bind bounds not valid")
	}
	if bounds.Max[1] < 1.0 {
		t.Errorf("bounds max %v does not cover the chain", bounds.Max)
	}
}
