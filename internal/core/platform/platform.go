// Package platform holds the narrow interfaces the frame loop drives each
// frame. Real implementations wrap a window manager and input backend; the
// headless ones here are enough for servers, tools and tests.
package platform

import "time"

// Window pumps the window-manager event queue. Returns false when the
// window has been closed and the engine should begin shutting down.
type Window interface {
	PumpEvents() bool
}

// Input refreshes the input snapshot read by game code during the frame.
type Input interface {
	Snapshot()
}

// Clock paces the frame loop. FrameBegin marks the start of a frame;
// FrameEnd returns how long the loop should sleep to hold the target frame
// duration.
type Clock interface {
	FrameBegin()
	FrameEnd() time.Duration
	DeltaTime() time.Duration
	FrameCount() uint64
}
