package looper

import (
	"math"
	"sync/atomic"
	"time"
)

// HandleID uniquely identifies an attached Looper.
type HandleID uint64

var nextHandleID atomic.Uint64

func newHandleID() HandleID {
	return HandleID(nextHandleID.Add(1))
}

// Phase is the lifecycle phase of a Looper.
type Phase uint8

const (
	// PhaseIdle is a static track: nothing to animate.
	PhaseIdle Phase = iota
	// PhaseTiling is set while the track is being rebuilt.
	PhaseTiling
	// PhaseAnimating means a frame is pending or running.
	PhaseAnimating
	// PhaseDetached is terminal.
	PhaseDetached
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTiling:
		return "tiling"
	case PhaseAnimating:
		return "animating"
	case PhaseDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// Handle is an attached Looper. It is returned by Attach and passed to Detach.
type Handle struct {
	id        HandleID
	container Container
	items     []Item
	cfg       Config

	phase Phase
	track *Track
	state State

	last  time.Time
	frame FrameID

	removers []func()
}

// Attach binds a Looper to container, replacing its content with a tiled
// track of items. A Looper already bound to container is detached first.
//
// An empty items list yields a static empty track: no frame is requested and
// no listeners are registered.
func Attach(container Container, items []Item, cfg Config) *Handle {
	slot := container.slot()
	if prev := slot.handle; prev != nil {
		Detach(prev)
	}

	cfg = cfg.Normalize()
	h := &Handle{
		id:        newHandleID(),
		container: container,
		items:     append([]Item(nil), items...),
		cfg:       cfg,
		state: State{
			Direction:     cfg.Direction,
			SpeedPxPerSec: cfg.SpeedPxPerSec,
		},
	}
	slot.handle = h

	if len(h.items) == 0 {
		h.track = BuildTrack(nil, 0, cfg)
		container.SetTrack(h.track)
		container.SetMask(Mask{})
		return h
	}

	h.removers = append(h.removers,
		container.OnPointerEnter(h.pointerEnter),
		container.OnPointerLeave(h.pointerLeave),
		container.OnResize(h.resize),
	)
	h.retile()
	return h
}

// Detach cancels the Looper's pending frame, removes its listeners and clears
// its fade mask. The container's content is left as is. Detaching a nil or
// already detached handle does nothing.
func Detach(h *Handle) {
	if h == nil || h.phase == PhaseDetached {
		return
	}
	h.phase = PhaseDetached

	h.cancelFrame()
	for _, remove := range h.removers {
		if remove != nil {
			remove()
		}
	}
	h.removers = nil
	h.container.SetMask(Mask{})

	if slot := h.container.slot(); slot.handle == h {
		slot.handle = nil
	}
}

// ID returns the handle's identifier.
func (h *Handle) ID() HandleID { return h.id }

// Container returns the container the handle was attached to.
func (h *Handle) Container() Container { return h.container }

// Config returns the normalized configuration.
func (h *Handle) Config() Config { return h.cfg }

// Phase returns the current lifecycle phase.
func (h *Handle) Phase() Phase { return h.phase }

// State returns a snapshot of the animation state.
func (h *Handle) State() State { return h.state }

// Track returns the track currently installed in the container.
func (h *Handle) Track() *Track { return h.track }

// retile rebuilds the track for the container's current width and restarts
// the animation at offset zero. Any pending frame is cancelled first.
func (h *Handle) retile() {
	h.cancelFrame()
	h.phase = PhaseTiling

	width, _ := h.container.Size()
	h.track = BuildTrack(h.items, width, h.cfg)
	h.container.SetTrack(h.track)
	h.container.SetMask(FadeMask(h.cfg))

	h.state.BaseWidth = h.track.BaseWidth
	h.state.Offset = 0
	h.container.SetOffset(0)

	h.last = h.container.Now()
	h.phase = PhaseAnimating
	h.frame = h.container.RequestFrame(h.step)
}

func (h *Handle) cancelFrame() {
	if h.frame != 0 {
		h.container.CancelFrame(h.frame)
		h.frame = 0
	}
}

// step runs once per display frame.
func (h *Handle) step(now time.Time) {
	h.frame = 0
	if h.phase != PhaseAnimating {
		return
	}

	dt := now.Sub(h.last).Seconds()
	if dt < 0 {
		dt = 0
	}
	h.last = now

	if !h.state.Paused {
		h.state.Offset = Advance(h.state.Offset, h.state.BaseWidth, h.state.SpeedPxPerSec, h.state.Direction, dt)
		h.container.SetOffset(-h.state.Offset)
	}

	// SetOffset may have reentered Detach or retile.
	if h.phase == PhaseAnimating && h.frame == 0 {
		h.frame = h.container.RequestFrame(h.step)
	}
}

func (h *Handle) pointerEnter() {
	if h.phase == PhaseDetached {
		return
	}
	h.state.Paused = true
}

func (h *Handle) pointerLeave() {
	if h.phase == PhaseDetached {
		return
	}
	h.state.Paused = false
	h.last = h.container.Now()
}

func (h *Handle) resize() {
	if h.phase == PhaseDetached {
		return
	}
	h.retile()
}

// Advance moves offset by speed*dt in the given direction and wraps the
// result into [0, baseWidth).
func Advance(offset, baseWidth, speed float64, dir Direction, dt float64) float64 {
	if baseWidth <= 0 {
		return 0
	}
	internal := math.Abs(speed)
	if dir == Reverse {
		internal = -internal
	}
	offset += internal * dt

	if offset >= baseWidth || offset < 0 {
		offset = math.Mod(offset, baseWidth)
		if offset < 0 {
			offset += baseWidth
		}
		// -tiny + baseWidth can round up to baseWidth.
		if offset >= baseWidth {
			offset = 0
		}
	}
	return offset
}
