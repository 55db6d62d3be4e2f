package player

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/animplayer/anm"
	"github.com/mogaika/animplayer/mesh"
	"github.com/mogaika/animplayer/render"
	"github.com/mogaika/animplayer/skeleton"
	"github.com/mogaika/animplayer/skinning"
)

// Loader decodes already-produced binary resources into the in-memory
// structures the player consumes. See the archive package for the file-based
// implementation.
type Loader interface {
	Skeleton(resource string) (*skeleton.Skeleton, error)
	Animation(resource string) (*anm.Clip, error)
	Meshes(resource string) ([]*mesh.Mesh, error)
}

// Player drives one skeleton and its meshes through one active clip at a
// time. A player instance is single-threaded: timeline, sampler caches and
// transform buffers are owned by whoever calls Update/ApplyMeshes and
// concurrent use must be serialized by the caller.
type Player struct {
	loader Loader

	skeleton *skeleton.Skeleton
	meshes   []*mesh.Mesh

	samplers   map[string]*anm.Sampler
	currentKey string

	timeline *Timeline
	sync     *render.Synchronizer

	models           []mgl32.Mat4
	skinningMatrices []mgl32.Mat4
}

func NewPlayer(loader Loader) *Player {
	return &Player{
		loader:   loader,
		samplers: make(map[string]*anm.Sampler),
		timeline: NewTimeline(),
		sync:     render.NewSynchronizer(),
	}
}

// Initialize loads the skeleton and meshes and allocates the transform and
// skinning buffers. Fails when loading fails or a mesh references joints
// beyond the skeleton's joint count.
func (p *Player) Initialize(skeletonRes, meshRes string) error {
	skel, err := p.loader.Skeleton(skeletonRes)
	if err != nil {
		return errors.Wrapf(err, "Failed to load skeleton %q", skeletonRes)
	}
	meshes, err := p.loader.Meshes(meshRes)
	if err != nil {
		return errors.Wrapf(err, "Failed to load meshes %q", meshRes)
	}

	maxRemap := 0
	for _, m := range meshes {
		if err := m.Validate(); err != nil {
			return errors.Wrapf(err, "Mesh resource %q invalid", meshRes)
		}
		if m.HighestJointIndex() >= skel.JointCount() {
			return errors.Errorf("Mesh %q doesn't match skeleton (joint count mismatch: %d >= %d)",
				m.Name, m.HighestJointIndex(), skel.JointCount())
		}
		if len(m.JointRemap) > maxRemap {
			maxRemap = len(m.JointRemap)
		}
	}

	p.skeleton = skel
	p.meshes = meshes
	p.models = make([]mgl32.Mat4, skel.JointCount())
	p.skinningMatrices = make([]mgl32.Mat4, maxRemap)
	return nil
}

func (p *Player) Skeleton() *skeleton.Skeleton { return p.skeleton }
func (p *Player) Meshes() []*mesh.Mesh         { return p.meshes }

// LoadAnimation registers a sampler for the clip under the given key. The
// first successfully registered clip becomes current. Nothing is registered
// when loading or validation fails, so a later lookup by the key finds no
// sampler.
func (p *Player) LoadAnimation(key, animationRes string) error {
	clip, err := p.loader.Animation(animationRes)
	if err != nil {
		return errors.Wrapf(err, "Failed to load animation %q", animationRes)
	}
	return p.LoadClip(key, clip)
}

// LoadClip registers a sampler for an already decoded clip. Same registration
// rules as LoadAnimation.
func (p *Player) LoadClip(key string, clip *anm.Clip) error {
	if p.skeleton == nil {
		return errors.Errorf("Player is not initialized")
	}
	if err := clip.Validate(); err != nil {
		return errors.Wrapf(err, "Animation %q invalid", key)
	}
	if clip.TrackCount() != p.skeleton.JointCount() {
		return errors.Errorf("The provided animation %q doesn't match skeleton (joint count mismatch: %d != %d)",
			key, clip.TrackCount(), p.skeleton.JointCount())
	}

	p.samplers[key] = anm.NewSampler(clip, p.skeleton.JointCount())
	if len(p.samplers) == 1 {
		p.currentKey = key
	}
	return nil
}

// UnloadAnimation removes the sampler if present; no-op otherwise. Unloading
// the current clip leaves no clip selected.
func (p *Player) UnloadAnimation(key string) {
	if _, ok := p.samplers[key]; !ok {
		return
	}
	delete(p.samplers, key)
	if p.currentKey == key {
		p.currentKey = ""
		p.timeline.Reset()
	}
}

// SelectAnimation switches the current clip and resets the playback position.
// This is a hard cut. FIXME: blend?
func (p *Player) SelectAnimation(key string) {
	p.currentKey = key
	p.timeline.Reset()
}

func (p *Player) CurrentAnimation() string { return p.currentKey }

// Clip returns the loaded clip registered under the key, or nil.
func (p *Player) Clip(key string) *anm.Clip {
	if sampler, ok := p.samplers[key]; ok {
		return sampler.Clip
	}
	return nil
}

func (p *Player) AnimationKeys() []string {
	keys := make([]string, 0, len(p.samplers))
	for key := range p.samplers {
		keys = append(keys, key)
	}
	return keys
}

func (p *Player) Seek(ratio float32) { p.timeline.Seek(ratio) }

func (p *Player) TimeRatio() float32 { return p.timeline.Ratio() }

func (p *Player) SetPlaybackSpeed(speed float32) { p.timeline.SetSpeed(speed) }

func (p *Player) PlaybackSpeed() float32 { return p.timeline.Speed() }

// Duration returns the current clip's duration, or 0 when no clip is
// selected.
func (p *Player) Duration() float32 {
	if sampler, ok := p.samplers[p.currentKey]; ok {
		return sampler.Clip.Duration
	}
	return 0.0
}

// Update advances the timeline to the given simulation time, samples the
// current clip and propagates local transforms to model-space joint
// matrices. A failed update leaves the previous model matrices untouched.
func (p *Player) Update(now float64, paused, looping bool) error {
	sampler, ok := p.samplers[p.currentKey]
	if !ok {
		return errors.Errorf("No current animation selected")
	}

	p.timeline.Update(now, paused, looping, sampler.Clip.Duration)

	if err := sampler.Sample(p.timeline.Ratio()); err != nil {
		return errors.Wrapf(err, "Failed to sample animation %q", p.currentKey)
	}
	if err := p.skeleton.LocalToModel(sampler.Locals, p.models); err != nil {
		return errors.Wrapf(err, "Failed to propagate joint transforms")
	}
	return nil
}

// ApplyMeshes writes every mesh into the target, with per-vertex skinning or
// as the static rest pose. A failing mesh does not stop the others; the
// first failure is reported after all meshes were attempted.
func (p *Player) ApplyMeshes(target render.Target, withSkinning bool) error {
	if target.Len() != len(p.meshes) {
		target.Reset(len(p.meshes))
	}

	var firstErr error
	for i, m := range p.meshes {
		geom := target.At(i)

		var err error
		if withSkinning {
			matrices := p.skinningMatrices[:len(m.JointRemap)]
			err = skinning.BuildMatrices(p.models, m, matrices)
			if err == nil {
				err = p.sync.ApplySkinned(geom, m, matrices)
			}
		} else {
			err = p.sync.ApplyStatic(geom, m)
		}
		if err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "Failed to apply mesh %d", i)
		}
	}
	return firstErr
}

// ComputeSkeletonBounds returns the bind-pose bounds; empty box without a
// skeleton or with zero joints.
func (p *Player) ComputeSkeletonBounds() skeleton.BoundingBox {
	if p.skeleton == nil {
		return skeleton.BoundingBox{}
	}
	return p.skeleton.BindBounds()
}
