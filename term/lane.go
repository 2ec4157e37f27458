package term

import (
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agiangrant/looper"
	"github.com/agiangrant/looper/internal/frames"
)

// Cell geometry in looper pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Alpha thresholds for fading cells.
const (
	hiddenBelow = 1.0 / 3
	dimBelow    = 1.0
)

// Label is a text item one cell per rune.
type Label struct {
	Text string
}

// Size implements looper.Item.
func (l Label) Size() (width, height float64) {
	return float64(utf8.RuneCountInString(l.Text) * CellWidth), CellHeight
}

// Clone implements looper.Item.
func (l Label) Clone() looper.Item { return l }

// Labels returns one Label per string.
func Labels(texts ...string) []looper.Item {
	items := make([]looper.Item, len(texts))
	for i, t := range texts {
		items[i] = Label{Text: t}
	}
	return items
}

// Lane is a one-row looper.Container. It is not safe for concurrent use;
// the Runner owns it.
type Lane struct {
	looper.Slot

	cols   int
	frames *frames.Registry
	clock  func() time.Time

	track   *looper.Track
	offset  float64
	mask    looper.Mask
	hovered bool

	nextListener int
	enter        map[int]func()
	leave        map[int]func()
	resize       map[int]func()
}

var _ looper.Container = (*Lane)(nil)

// NewLane creates a lane cols cells wide. Frame callbacks go to reg.
func NewLane(cols int, reg *frames.Registry, clock func() time.Time) *Lane {
	if clock == nil {
		clock = time.Now
	}
	return &Lane{
		cols:   max(0, cols),
		frames: reg,
		clock:  clock,
		enter:  make(map[int]func()),
		leave:  make(map[int]func()),
		resize: make(map[int]func()),
	}
}

// Cols returns the lane width in cells.
func (l *Lane) Cols() int { return l.cols }

// SetCols resizes the lane. Resize listeners run when the width changes.
func (l *Lane) SetCols(cols int) {
	cols = max(0, cols)
	if cols == l.cols {
		return
	}
	l.cols = cols
	fire(l.resize)
}

// Hovered reports whether the lane is hovered.
func (l *Lane) Hovered() bool { return l.hovered }

// SetHovered moves the pointer onto or off the lane.
func (l *Lane) SetHovered(on bool) {
	if on == l.hovered {
		return
	}
	l.hovered = on
	if on {
		fire(l.enter)
	} else {
		fire(l.leave)
	}
}

// Size implements looper.Container.
func (l *Lane) Size() (width, height float64) {
	return float64(l.cols * CellWidth), CellHeight
}

// SetTrack implements looper.Container.
func (l *Lane) SetTrack(t *looper.Track) { l.track = t }

// SetOffset implements looper.Container.
func (l *Lane) SetOffset(x float64) { l.offset = x }

// SetMask implements looper.Container.
func (l *Lane) SetMask(m looper.Mask) { l.mask = m }

// OnPointerEnter implements looper.Container.
func (l *Lane) OnPointerEnter(fn func()) func() { return l.listen(l.enter, fn) }

// OnPointerLeave implements looper.Container.
func (l *Lane) OnPointerLeave(fn func()) func() { return l.listen(l.leave, fn) }

// OnResize implements looper.Container.
func (l *Lane) OnResize(fn func()) func() { return l.listen(l.resize, fn) }

// RequestFrame implements looper.Container.
func (l *Lane) RequestFrame(fn looper.FrameFunc) looper.FrameID {
	return looper.FrameID(l.frames.Request(frames.Func(fn)))
}

// CancelFrame implements looper.Container.
func (l *Lane) CancelFrame(id looper.FrameID) {
	l.frames.Cancel(frames.ID(id))
}

// Now implements looper.Container.
func (l *Lane) Now() time.Time { return l.clock() }

// ListenerCount returns the number of registered listeners.
func (l *Lane) ListenerCount() int {
	return len(l.enter) + len(l.leave) + len(l.resize)
}

func (l *Lane) listen(set map[int]func(), fn func()) func() {
	l.nextListener++
	id := l.nextListener
	set[id] = fn
	return func() { delete(set, id) }
}

// fire runs listeners in registration order.
func fire(set map[int]func()) {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := set[id]; ok {
			fn()
		}
	}
}

// ============================================================================
// Rendering
// ============================================================================

// Line returns the visible cells as plain text, without fading.
func (l *Lane) Line() string {
	return string(l.cells())
}

// Render returns the visible cells with the fade mask applied: cells near
// an edge are dimmed and the outermost ones blanked.
func (l *Lane) Render() string {
	row := l.cells()
	width, _ := l.Size()

	var b strings.Builder
	dimmed := false
	for i, r := range row {
		alpha := l.mask.Alpha((float64(i)+0.5)*CellWidth, width)
		if alpha < hiddenBelow {
			r = ' '
		}
		dim := alpha < dimBelow
		if dim != dimmed {
			if dim {
				b.WriteString(Dim)
			} else {
				b.WriteString(Reset)
			}
			dimmed = dim
		}
		b.WriteRune(r)
	}
	if dimmed {
		b.WriteString(Reset)
	}
	return b.String()
}

func (l *Lane) cells() []rune {
	row := make([]rune, l.cols)
	for i := range row {
		row[i] = ' '
	}
	if l.track == nil {
		return row
	}

	for _, tile := range l.track.Tiles {
		x := tile.X + l.offset
		if x >= float64(l.cols*CellWidth) || x+tile.Width < 0 {
			continue
		}
		for _, it := range tile.Items {
			paint(row, x, it)
			if !tile.Page {
				break
			}
			w, _ := it.Size()
			x += w + l.track.Gap
		}
	}
	return row
}

// paint writes the item's text into row starting at pixel x.
func paint(row []rune, x float64, it looper.Item) {
	var text string
	switch v := it.(type) {
	case Label:
		text = v.Text
	case looper.Block:
		text = v.Label
	default:
		return
	}

	col := int(math.Floor(x / CellWidth))
	for _, r := range text {
		if col >= len(row) {
			return
		}
		if col >= 0 {
			row[col] = r
		}
		col++
	}
}
