package platform

import (
	"time"
)

// HeadlessWindow is a window that never receives events and never closes.
type HeadlessWindow struct{}

func (HeadlessWindow) PumpEvents() bool { return true }

// HeadlessInput produces empty input snapshots.
type HeadlessInput struct{}

func (HeadlessInput) Snapshot() {}

// FixedStepClock paces frames to a fixed target duration using wall time.
type FixedStepClock struct {
	target     time.Duration
	frameStart time.Time
	lastDelta  time.Duration
	frames     uint64
}

func NewFixedStepClock(target time.Duration) *FixedStepClock {
	if target <= 0 {
		target = time.Second / 60
	}
	return &FixedStepClock{target: target}
}

func (c *FixedStepClock) FrameBegin() {
	now := time.Now()
	if !c.frameStart.IsZero() {
		c.lastDelta = now.Sub(c.frameStart)
	} else {
		c.lastDelta = c.target
	}
	c.frameStart = now
	c.frames++
}

// FrameEnd returns the remaining slice of the frame budget, zero when the
// frame overran.
func (c *FixedStepClock) FrameEnd() time.Duration {
	elapsed := time.Since(c.frameStart)
	if elapsed >= c.target {
		return 0
	}
	return c.target - elapsed
}

func (c *FixedStepClock) DeltaTime() time.Duration { return c.lastDelta }

func (c *FixedStepClock) FrameCount() uint64 { return c.frames }
