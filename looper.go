// Package looper implements a seamless, continuously scrolling content track.
//
// A Looper tiles an ordered list of items edge-to-edge inside a container,
// repeating the list often enough that no gap is ever visible, and moves the
// track by a translation offset once per display frame. Hovering pauses the
// scroll and resizing the container re-tiles it.
//
// The package does not draw anything itself. Hosts implement Container (see
// the retained and term packages) and call every Looper callback from a single
// goroutine.
package looper

import "time"

// Item is one opaque visual unit placed in the track.
// The Looper never inspects an item; it only measures and clones it.
type Item interface {
	// Size returns the item's intrinsic width and height in pixels.
	Size() (width, height float64)

	// Clone returns an independent copy that can be placed in the track.
	Clone() Item
}

// FrameID identifies a requested animation frame.
// Zero is never a valid ID.
type FrameID uint64

// FrameFunc is called once for a requested frame with the frame timestamp.
type FrameFunc func(now time.Time)

// Container is the drawable region a Looper is attached to.
//
// Hosts must invoke every callback registered through a Container (frame
// callbacks, pointer and resize handlers) on one goroutine, never
// concurrently and never while holding their own locks.
type Container interface {
	// Size returns the current width and height of the region.
	Size() (width, height float64)

	// SetTrack replaces the container's content with the given track.
	SetTrack(t *Track)

	// SetOffset translates the track horizontally by x pixels.
	// It must not trigger layout.
	SetOffset(x float64)

	// SetMask applies an edge fade. The zero Mask clears it.
	SetMask(m Mask)

	// OnPointerEnter registers fn and returns a function that removes it.
	OnPointerEnter(fn func()) (remove func())

	// OnPointerLeave registers fn and returns a function that removes it.
	OnPointerLeave(fn func()) (remove func())

	// OnResize registers fn and returns a function that removes it.
	OnResize(fn func()) (remove func())

	// RequestFrame schedules fn for the next display frame.
	RequestFrame(fn FrameFunc) FrameID

	// CancelFrame cancels a pending frame. Unknown IDs are ignored.
	CancelFrame(id FrameID)

	// Now returns the host clock used for frame timestamps.
	Now() time.Time

	slot() *Slot
}

// Slot records the Looper bound to a container.
// Container implementations embed a Slot; its zero value is ready to use.
type Slot struct {
	handle *Handle
}

func (s *Slot) slot() *Slot { return s }

// Bound returns the handle currently attached to the container, or nil.
func (s *Slot) Bound() *Handle { return s.handle }

// Direction is the scroll direction of a track.
type Direction uint8

const (
	// Forward moves content towards the left edge (offset grows).
	Forward Direction = iota
	// Reverse moves content towards the right edge (offset shrinks).
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// TilingMode decides what one tiled unit is.
type TilingMode uint8

const (
	// PerItem places every item as its own tile.
	PerItem TilingMode = iota
	// WholeSet places the whole item list as one page as wide as the container.
	WholeSet
)

func (m TilingMode) String() string {
	switch m {
	case PerItem:
		return "per-item"
	case WholeSet:
		return "whole-set"
	default:
		return "unknown"
	}
}

// Config configures a Looper.
type Config struct {
	// SpeedPxPerSec is the scroll speed. The sign is ignored; use Direction.
	SpeedPxPerSec float64

	// Direction is the scroll direction.
	Direction Direction

	// GapPx is the space between adjacent tiles.
	GapPx float64

	// FadeEdges enables the edge fade mask.
	FadeEdges bool

	// FadeWidthPx is how far in from each edge the fade reaches full opacity.
	FadeWidthPx float64

	// TilingMode selects per-item or whole-set tiling.
	TilingMode TilingMode
}

// DefaultConfig returns the defaults: 60 px/s forward, 32px gap, 48px fade.
func DefaultConfig() Config {
	return Config{
		SpeedPxPerSec: 60,
		Direction:     Forward,
		GapPx:         32,
		FadeEdges:     true,
		FadeWidthPx:   48,
		TilingMode:    PerItem,
	}
}

// Normalize drops the speed sign and clamps negative lengths to zero.
func (c Config) Normalize() Config {
	if c.SpeedPxPerSec < 0 {
		c.SpeedPxPerSec = -c.SpeedPxPerSec
	}
	if c.GapPx < 0 {
		c.GapPx = 0
	}
	if c.FadeWidthPx < 0 {
		c.FadeWidthPx = 0
	}
	if c.Direction != Reverse {
		c.Direction = Forward
	}
	if c.TilingMode != WholeSet {
		c.TilingMode = PerItem
	}
	return c
}

// State is a snapshot of a Looper's animation state.
type State struct {
	Offset        float64
	BaseWidth     float64
	Paused        bool
	Direction     Direction
	SpeedPxPerSec float64
}
