package player

import (
	"math"
)

const ratioUnset = -1.0

// Timeline is the playback cursor of the current clip. The ratio is the
// normalized position in [0,1); a negative value means "unset" and the next
// update restarts at 0 with a fresh wall-clock anchor.
type Timeline struct {
	speed     float32
	ratio     float32
	startTime float64
	reanchor  bool
}

func NewTimeline() *Timeline {
	return &Timeline{speed: 1.0, ratio: ratioUnset}
}

func (tl *Timeline) Ratio() float32 {
	if tl.ratio < 0.0 {
		return 0.0
	}
	return tl.ratio
}

func (tl *Timeline) Speed() float32 { return tl.speed }

// SetSpeed ignores non-positive values; the anchor math divides by the speed
// and a zero would poison the ratio with NaN for good.
func (tl *Timeline) SetSpeed(speed float32) {
	if speed <= 0.0 {
		return
	}
	tl.speed = speed
	tl.reanchor = true
}

// Seek clamps the ratio to [0,1] and schedules an anchor recomputation so
// continuous playback resumes from the new position without a time jump.
func (tl *Timeline) Seek(ratio float32) {
	if ratio < 0.0 {
		ratio = 0.0
	} else if ratio > 1.0 {
		ratio = 1.0
	}
	tl.ratio = ratio
	tl.reanchor = true
}

// Reset forgets the playback position entirely (hard cut on clip switch).
func (tl *Timeline) Reset() {
	tl.ratio = ratioUnset
	tl.reanchor = false
}

// Update advances the cursor to the given wall-clock time. Paused timelines
// are frozen completely. When looping, the ratio wraps fractionally and the
// anchor shifts so it stays in [0,1) with no discontinuity; when not looping
// the ratio is allowed past 1 and sampling clamps to the last pose.
func (tl *Timeline) Update(now float64, paused, looping bool, duration float32) {
	if paused {
		return
	}
	switch {
	case tl.ratio < 0.0:
		tl.startTime = now
		tl.ratio = 0.0
		tl.reanchor = false
	case tl.reanchor:
		tl.startTime = now - float64(tl.ratio*duration/tl.speed)
		tl.reanchor = false
	default:
		tl.ratio = float32(now-tl.startTime) * tl.speed / duration
		if looping && tl.ratio >= 1.0 {
			tl.ratio -= float32(math.Floor(float64(tl.ratio)))
			tl.startTime = now - float64(tl.ratio*duration/tl.speed)
		}
	}
}
