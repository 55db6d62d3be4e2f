package player_test

import (
	"testing"

	"github.com/mogaika/animplayer/player"
)

func ratioNear(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-5
}

func TestTimelineLoopWrap(t *testing.T) {
	const duration = 2.0
	tl := player.NewTimeline()

	cases := []struct {
		now  float64
		want float32
	}{
		{0.0, 0.0},
		{1.0, 0.5},
		{2.5, 0.25},
		{4.0, 0.0},
	}
	for _, c := range cases {
		tl.Update(c.now, false, true, duration)
		if got := tl.Ratio(); !ratioNear(got, c.want) {
			t.Errorf("t=%v ratio %v, want %v", c.now, got, c.want)
		}
	}
}

func TestTimelineNonLoopingHoldsEnd(t *testing.T) {
	tl := player.NewTimeline()
	tl.Update(0.0, false, false, 1.0)
	tl.Update(2.5, false, false, 1.0)
	if got := tl.Ratio(); got < 1.0 {
		t.Errorf("non-looping ratio %v wrapped below 1", got)
	}
}

func TestTimelinePauseFreezes(t *testing.T) {
	tl := player.NewTimeline()
	tl.Update(0.0, false, true, 2.0)
	tl.Update(1.0, false, true, 2.0)
	before := tl.Ratio()

	tl.Update(5.0, true, true, 2.0)
	if got := tl.Ratio(); !ratioNear(got, before) {
		t.Errorf("paused ratio moved from %v to %v", before, got)
	}

	// Unpausing resumes from the frozen position, not from wall clock.
	tl.Update(1.0, false, true, 2.0)
	if got := tl.Ratio(); !ratioNear(got, before) {
		t.Errorf("resumed ratio %v, want %v", tl.Ratio(), before)
	}
}

func TestTimelineSeek(t *testing.T) {
	tl := player.NewTimeline()
	tl.Update(0.0, false, true, 2.0)

	tl.Seek(0.25)
	if got := tl.Ratio(); !ratioNear(got, 0.25) {
		t.Errorf("ratio after seek %v", got)
	}

	// First update after a seek keeps the position, later ones advance
	// continuously from it.
	tl.Update(10.0, false, true, 2.0)
	if got := tl.Ratio(); !ratioNear(got, 0.25) {
		t.Errorf("ratio on update after seek %v, want 0.25", got)
	}
	tl.Update(10.5, false, true, 2.0)
	if got := tl.Ratio(); !ratioNear(got, 0.5) {
		t.Errorf("ratio half a second after seek %v, want 0.5", got)
	}

	tl.Seek(-3.0)
	if got := tl.Ratio(); !ratioNear(got, 0.0) {
		t.Errorf("seek below range gave %v", got)
	}
	tl.Seek(42.0)
	if got := tl.Ratio(); !ratioNear(got, 1.0) {
		t.Errorf("seek above range gave %v", got)
	}
}

func TestTimelineSpeed(t *testing.T) {
	tl := player.NewTimeline()
	tl.SetSpeed(2.0)
	tl.Update(0.0, false, true, 4.0)
	tl.Update(1.0, false, true, 4.0)
	if got := tl.Ratio(); !ratioNear(got, 0.5) {
		t.Errorf("double speed ratio %v, want 0.5", got)
	}

	// Slowing down must not jump the current position.
	tl.SetSpeed(1.0)
	tl.Update(1.0, false, true, 4.0)
	if got := tl.Ratio(); !ratioNear(got, 0.5) {
		t.Errorf("ratio after speed change %v, want 0.5", got)
	}
	tl.Update(2.0, false, true, 4.0)
	if got := tl.Ratio(); !ratioNear(got, 0.75) {
		t.Errorf("ratio a second after speed change %v, want 0.75", got)
	}
}

// Zero or negative speeds would divide the anchor math by zero and leave the
// ratio NaN forever, so they are dropped.
func TestTimelineRejectsNonPositiveSpeed(t *testing.T) {
	tl := player.NewTimeline()
	tl.Update(0.0, false, true, 2.0)
	tl.Update(1.0, false, true, 2.0)

	tl.SetSpeed(0.0)
	tl.SetSpeed(-1.0)
	if got := tl.Speed(); got != 1.0 {
		t.Errorf("speed %v after rejected updates, want 1", got)
	}

	tl.Update(2.0, false, true, 2.0)
	got := tl.Ratio()
	if got != got {
		t.Fatal("ratio became NaN")
	}
	if !ratioNear(got, 0.0) {
		t.Errorf("ratio %v, want 0 after a full loop", got)
	}
}

func TestTimelineReset(t *testing.T) {
	tl := player.NewTimeline()
	tl.Update(0.0, false, true, 2.0)
	tl.Update(1.0, false, true, 2.0)

	tl.Reset()
	if got := tl.Ratio(); !ratioNear(got, 0.0) {
		t.Errorf("ratio after reset %v", got)
	}

	// Reset forgets the anchor, so playback restarts at the next update time.
	tl.Update(100.0, false, true, 2.0)
	if got := tl.Ratio(); !ratioNear(got, 0.0) {
		t.Errorf("ratio on first update after reset %v", got)
	}
	tl.Update(101.0, false, true, 2.0)
	if got := tl.Ratio(); !ratioNear(got, 0.5) {
		t.Errorf("ratio a second after reset %v, want 0.5", got)
	}
}
