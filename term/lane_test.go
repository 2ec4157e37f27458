package term

import (
	"testing"
	"time"

	"github.com/agiangrant/looper"
	"github.com/agiangrant/looper/internal/frames"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// newTestLane returns a 20-column lane scrolling "ab" and "cd" one cell
// per second.
func newTestLane(t *testing.T, fade bool) (*Lane, *looper.Handle, *frames.Registry, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Unix(50, 0)}
	reg := frames.NewRegistry()
	lane := NewLane(20, reg, clock.Now)

	cfg := looper.DefaultConfig()
	cfg.SpeedPxPerSec = CellWidth
	cfg.GapPx = CellWidth
	cfg.FadeEdges = fade
	cfg.FadeWidthPx = 2 * CellWidth

	h := looper.Attach(lane, Labels("ab", "cd"), cfg)
	require.Equal(t, looper.PhaseAnimating, h.Phase())
	return lane, h, reg, clock
}

func tick(reg *frames.Registry, clock *testClock, d time.Duration) {
	clock.now = clock.now.Add(d)
	reg.Tick(clock.now)
}

func TestLabelSize(t *testing.T) {
	w, h := Label{Text: "héllo"}.Size()
	assert.Equal(t, 5.0*CellWidth, w)
	assert.Equal(t, float64(CellHeight), h)
}

func TestLaneLine(t *testing.T) {
	lane, h, reg, clock := newTestLane(t, false)

	assert.Equal(t, 40.0, h.State().BaseWidth)
	assert.Equal(t, 5, h.Track().Copies)
	assert.Equal(t, "ab cd ab cd ab cd ab", lane.Line())

	tick(reg, clock, time.Second)
	assert.Equal(t, "b cd ab cd ab cd ab ", lane.Line())

	// Reaching the base width wraps back to the first frame.
	tick(reg, clock, 4*time.Second)
	assert.Zero(t, h.State().Offset)
	assert.Equal(t, "ab cd ab cd ab cd ab", lane.Line())
}

func TestLaneRenderFadesEdges(t *testing.T) {
	lane, _, _, _ := newTestLane(t, true)

	want := Dim + " b" + Reset + " cd ab cd ab cd " + Dim + "a " + Reset
	assert.Equal(t, want, lane.Render())
}

func TestLaneRenderWithoutFade(t *testing.T) {
	lane, _, _, _ := newTestLane(t, false)
	assert.Equal(t, lane.Line(), lane.Render())
}

func TestLaneHoverPauses(t *testing.T) {
	lane, h, reg, clock := newTestLane(t, false)

	lane.SetHovered(true)
	lane.SetHovered(true)
	assert.True(t, h.State().Paused)

	tick(reg, clock, 3*time.Second)
	assert.Zero(t, h.State().Offset)

	lane.SetHovered(false)
	tick(reg, clock, time.Second)
	assert.InDelta(t, float64(CellWidth), h.State().Offset, 1e-9)
}

func TestLaneResizeRetiles(t *testing.T) {
	lane, h, reg, clock := newTestLane(t, false)
	tick(reg, clock, time.Second)

	lane.SetCols(20)
	assert.NotZero(t, h.State().Offset, "same width does not retile")

	lane.SetCols(40)
	assert.Zero(t, h.State().Offset)
	assert.Equal(t, 8, h.Track().Copies)
	assert.Equal(t, "ab cd ab cd ab cd ab cd ab cd ab cd ab c", lane.Line())
	assert.Equal(t, 1, reg.Pending())
}

func TestLaneDetach(t *testing.T) {
	lane, h, reg, _ := newTestLane(t, true)
	require.Equal(t, 3, lane.ListenerCount())

	looper.Detach(h)

	assert.Zero(t, lane.ListenerCount())
	assert.Zero(t, reg.Pending())
	assert.Equal(t, lane.Line(), lane.Render(), "mask cleared")
}

func TestLaneEmpty(t *testing.T) {
	lane := NewLane(5, frames.NewRegistry(), nil)
	h := looper.Attach(lane, nil, looper.DefaultConfig())

	assert.Equal(t, looper.PhaseIdle, h.Phase())
	assert.Equal(t, "     ", lane.Line())
}

func TestLaneWholeSet(t *testing.T) {
	clock := &testClock{now: time.Unix(0, 0)}
	reg := frames.NewRegistry()
	lane := NewLane(10, reg, clock.Now)

	cfg := looper.DefaultConfig()
	cfg.TilingMode = looper.WholeSet
	cfg.GapPx = CellWidth
	cfg.FadeEdges = false
	h := looper.Attach(lane, Labels("ab", "cd"), cfg)

	assert.Equal(t, 80.0, h.State().BaseWidth)
	assert.Equal(t, "ab cd     ", lane.Line())
}
