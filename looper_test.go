package looper

import (
	"math/rand"
	"testing"
	"time"

	"github.com/agiangrant/looper/internal/frames"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContainer records every call a Looper makes and drives frames from a
// manual clock.
type fakeContainer struct {
	Slot

	width, height float64
	now           time.Time
	frames        *frames.Registry

	track      *Track
	offset     float64
	mask       Mask
	setTracks  int
	setOffsets int

	requested int
	cancelled int

	nextListener int
	enter        map[int]func()
	leave        map[int]func()
	resize       map[int]func()

	onOffset func()
}

func newFakeContainer(width float64) *fakeContainer {
	return &fakeContainer{
		width:  width,
		height: 40,
		now:    time.Unix(1000, 0),
		frames: frames.NewRegistry(),
		enter:  map[int]func(){},
		leave:  map[int]func(){},
		resize: map[int]func(){},
	}
}

func (f *fakeContainer) Size() (float64, float64) { return f.width, f.height }
func (f *fakeContainer) SetTrack(t *Track)        { f.track = t; f.setTracks++ }
func (f *fakeContainer) SetMask(m Mask)           { f.mask = m }
func (f *fakeContainer) Now() time.Time           { return f.now }

func (f *fakeContainer) SetOffset(x float64) {
	f.offset = x
	f.setOffsets++
	if f.onOffset != nil {
		f.onOffset()
	}
}

func (f *fakeContainer) listen(set map[int]func(), fn func()) func() {
	f.nextListener++
	id := f.nextListener
	set[id] = fn
	return func() { delete(set, id) }
}

func (f *fakeContainer) OnPointerEnter(fn func()) func() { return f.listen(f.enter, fn) }
func (f *fakeContainer) OnPointerLeave(fn func()) func() { return f.listen(f.leave, fn) }
func (f *fakeContainer) OnResize(fn func()) func()       { return f.listen(f.resize, fn) }

func (f *fakeContainer) RequestFrame(fn FrameFunc) FrameID {
	f.requested++
	return FrameID(f.frames.Request(frames.Func(fn)))
}

func (f *fakeContainer) CancelFrame(id FrameID) {
	f.cancelled++
	f.frames.Cancel(frames.ID(id))
}

func (f *fakeContainer) listeners() int {
	return len(f.enter) + len(f.leave) + len(f.resize)
}

// advance moves the clock by d and runs one frame.
func (f *fakeContainer) advance(d time.Duration) int {
	f.now = f.now.Add(d)
	return f.frames.Tick(f.now)
}

func fire(set map[int]func()) {
	for _, fn := range set {
		fn()
	}
}

func threeBlocks() []Item {
	return Blocks(40, 100, 100, 100)
}

func gapConfig(gap float64) Config {
	cfg := DefaultConfig()
	cfg.GapPx = gap
	return cfg
}

func TestAttachTilesThreeCopies(t *testing.T) {
	c := newFakeContainer(500)
	h := Attach(c, threeBlocks(), gapConfig(20))

	require.NotNil(t, c.track)
	assert.Equal(t, 340.0, h.State().BaseWidth)
	assert.Equal(t, 3, c.track.Copies)
	assert.Len(t, c.track.Tiles, 9)
	assert.GreaterOrEqual(t, c.track.Width(), 500.0+340.0)
	assert.Equal(t, PhaseAnimating, h.Phase())
	assert.Equal(t, 1, c.frames.Pending())
}

func TestAttachEmptyItemsIsStatic(t *testing.T) {
	c := newFakeContainer(500)
	h := Attach(c, nil, DefaultConfig())

	require.NotNil(t, c.track)
	assert.True(t, c.track.Empty())
	assert.Equal(t, PhaseIdle, h.Phase())
	assert.Zero(t, c.requested)
	assert.Zero(t, c.listeners())
	assert.True(t, c.mask.IsZero())

	c.advance(time.Second)
	assert.Zero(t, c.setOffsets)
	Detach(h)
}

func TestAnimationAdvancesOffset(t *testing.T) {
	c := newFakeContainer(500)
	cfg := gapConfig(20)
	cfg.SpeedPxPerSec = 60
	h := Attach(c, threeBlocks(), cfg)

	c.advance(500 * time.Millisecond)
	assert.InDelta(t, 30.0, h.State().Offset, 1e-9)
	assert.InDelta(t, -30.0, c.offset, 1e-9)

	c.advance(500 * time.Millisecond)
	assert.InDelta(t, 60.0, h.State().Offset, 1e-9)
	assert.Equal(t, 1, c.frames.Pending())
}

func TestSpeedSignIsIgnored(t *testing.T) {
	c := newFakeContainer(500)
	cfg := gapConfig(20)
	cfg.SpeedPxPerSec = -60
	h := Attach(c, threeBlocks(), cfg)

	c.advance(time.Second)
	assert.InDelta(t, 60.0, h.State().Offset, 1e-9)
	assert.Equal(t, 60.0, h.State().SpeedPxPerSec)
}

func TestOffsetStaysWithinBaseWidth(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, dir := range []Direction{Forward, Reverse} {
		c := newFakeContainer(500)
		cfg := gapConfig(20)
		cfg.Direction = dir
		cfg.SpeedPxPerSec = 250
		h := Attach(c, threeBlocks(), cfg)

		for i := 0; i < 500; i++ {
			c.advance(time.Duration(rng.Int63n(int64(3 * time.Second))))
			s := h.State()
			require.GreaterOrEqual(t, s.Offset, 0.0, "%s frame %d", dir, i)
			require.Less(t, s.Offset, s.BaseWidth, "%s frame %d", dir, i)
		}
	}
}

func TestHoverPausesWithoutJump(t *testing.T) {
	c := newFakeContainer(500)
	cfg := gapConfig(20)
	cfg.SpeedPxPerSec = 60
	h := Attach(c, threeBlocks(), cfg)

	c.advance(time.Second)
	before := h.State().Offset

	fire(c.enter)
	assert.True(t, h.State().Paused)
	c.advance(2 * time.Second)
	c.advance(3 * time.Second)
	assert.Equal(t, before, h.State().Offset)
	assert.Equal(t, 1, c.frames.Pending(), "loop keeps running while paused")

	c.now = c.now.Add(10 * time.Second)
	fire(c.leave)
	assert.False(t, h.State().Paused)

	c.advance(100 * time.Millisecond)
	assert.InDelta(t, before+6, h.State().Offset, 1e-9)
}

func TestResizeRetilesOnce(t *testing.T) {
	c := newFakeContainer(500)
	h := Attach(c, threeBlocks(), gapConfig(20))
	c.advance(time.Second)
	require.NotZero(t, h.State().Offset)

	requested, cancelled, tracks := c.requested, c.cancelled, c.setTracks

	c.width = 1200
	fire(c.resize)

	assert.Equal(t, cancelled+1, c.cancelled)
	assert.Equal(t, requested+1, c.requested)
	assert.Equal(t, tracks+1, c.setTracks)
	assert.Equal(t, 1, c.frames.Pending())
	assert.Zero(t, h.State().Offset)
	assert.GreaterOrEqual(t, c.track.Width(), 1200.0+340.0)
	assert.Equal(t, 5, c.track.Copies)

	assert.Equal(t, 1, c.advance(16*time.Millisecond))
}

func TestDetachIsIdempotent(t *testing.T) {
	c := newFakeContainer(500)
	h := Attach(c, threeBlocks(), gapConfig(20))
	require.False(t, c.mask.IsZero())
	require.Equal(t, 3, c.listeners())

	Detach(h)
	Detach(h)
	Detach(nil)

	assert.Equal(t, PhaseDetached, h.Phase())
	assert.Zero(t, c.listeners())
	assert.Zero(t, c.frames.Pending())
	assert.True(t, c.mask.IsZero())
	assert.Nil(t, c.Bound())

	offsets := c.setOffsets
	assert.Zero(t, c.advance(time.Second))
	assert.Equal(t, offsets, c.setOffsets)
}

func TestDetachInsideFrameCallback(t *testing.T) {
	c := newFakeContainer(500)
	h := Attach(c, threeBlocks(), gapConfig(20))
	c.onOffset = func() { Detach(h) }

	c.advance(16 * time.Millisecond)

	assert.Equal(t, PhaseDetached, h.Phase())
	assert.Zero(t, c.frames.Pending())
	assert.Zero(t, c.advance(16*time.Millisecond))
}

func TestReattachTearsDownPrevious(t *testing.T) {
	c := newFakeContainer(500)
	first := Attach(c, threeBlocks(), gapConfig(20))
	second := Attach(c, Blocks(40, 50, 50), gapConfig(10))

	assert.Equal(t, PhaseDetached, first.Phase())
	assert.Equal(t, PhaseAnimating, second.Phase())
	assert.Same(t, second, c.Bound())
	assert.Equal(t, 3, c.listeners())
	assert.Equal(t, 1, c.frames.Pending())
	assert.Equal(t, 110.0, second.State().BaseWidth)

	// Detaching the stale handle must not unbind the new one.
	Detach(first)
	assert.Same(t, second, c.Bound())
	assert.Equal(t, 1, c.frames.Pending())
}

func TestFadeMaskFollowsDirection(t *testing.T) {
	c := newFakeContainer(500)
	cfg := DefaultConfig()
	cfg.Direction = Reverse
	cfg.FadeWidthPx = 64
	Attach(c, threeBlocks(), cfg)
	assert.Equal(t, Mask{Orientation: ToLeft, Width: 64}, c.mask)

	cfg.FadeEdges = false
	Attach(c, threeBlocks(), cfg)
	assert.True(t, c.mask.IsZero())
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		speed  float64
		dir    Direction
		dt     float64
		want   float64
	}{
		{"forward", 0, 60, Forward, 1, 60},
		{"forward wraps", 330, 60, Forward, 0.5, 20},
		{"reverse wraps", 10, 50, Reverse, 1, 300},
		{"reverse no wrap", 100, 50, Reverse, 1, 50},
		{"several cycles", 0, 340, Forward, 3.5, 170},
		{"zero dt", 12, 60, Forward, 0, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advance(tt.offset, 340, tt.speed, tt.dir, tt.dt)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	assert.Zero(t, Advance(5, 0, 60, Forward, 1))
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{SpeedPxPerSec: -10, GapPx: -3, FadeWidthPx: -1, Direction: 9, TilingMode: 9}.Normalize()
	assert.Equal(t, 10.0, cfg.SpeedPxPerSec)
	assert.Zero(t, cfg.GapPx)
	assert.Zero(t, cfg.FadeWidthPx)
	assert.Equal(t, Forward, cfg.Direction)
	assert.Equal(t, PerItem, cfg.TilingMode)
}
