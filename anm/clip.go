package anm

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Key ratios are normalized clip time in [0,1], sorted ascending per channel.
type Vec3Key struct {
	Ratio float32
	Value mgl32.Vec3
}

type QuatKey struct {
	Ratio float32
	Value mgl32.Quat
}

// JointTrack holds the keyframe channels of one joint. Every channel has at
// least one key; a single key means the channel is constant.
type JointTrack struct {
	Translations []Vec3Key
	Rotations    []QuatKey
	Scales       []Vec3Key
}

// Clip is one animation, immutable after load. Tracks count must equal the
// joint count of the skeleton it is played on; that check happens where the
// skeleton is known (player load time).
type Clip struct {
	Name     string
	Duration float32 // seconds
	Tracks   []JointTrack
}

func (c *Clip) TrackCount() int { return len(c.Tracks) }

func (c *Clip) Validate() error {
	if c.Duration <= 0 {
		return errors.Errorf("Animation %q has non-positive duration %v", c.Name, c.Duration)
	}
	for i := range c.Tracks {
		t := &c.Tracks[i]
		if len(t.Translations) == 0 || len(t.Rotations) == 0 || len(t.Scales) == 0 {
			return errors.Errorf("Animation %q track %d has an empty channel", c.Name, i)
		}
		for k := 1; k < len(t.Translations); k++ {
			if t.Translations[k].Ratio < t.Translations[k-1].Ratio {
				return errors.Errorf("Animation %q track %d translation keys not sorted", c.Name, i)
			}
		}
		for k := 1; k < len(t.Rotations); k++ {
			if t.Rotations[k].Ratio < t.Rotations[k-1].Ratio {
				return errors.Errorf("Animation %q track %d rotation keys not sorted", c.Name, i)
			}
		}
		for k := 1; k < len(t.Scales); k++ {
			if t.Scales[k].Ratio < t.Scales[k-1].Ratio {
				return errors.Errorf("Animation %q track %d scale keys not sorted", c.Name, i)
			}
		}
	}
	return nil
}
