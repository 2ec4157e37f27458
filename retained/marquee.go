package retained

import (
	"time"

	"github.com/agiangrant/looper"
	"github.com/agiangrant/looper/internal/frames"
)

// Marquee adapts a widget into a looper.Container. Its content is replaced by
// a single track widget whose children are the tiles.
//
// All methods must be called on the loop goroutine.
type Marquee struct {
	looper.Slot

	loop   *Loop
	widget *Widget
	track  *Widget

	// source holds the children the current track is built from.
	source []*Widget

	// preservedHeight is the widget height before the first track was built.
	preservedHeight float32
}

var _ looper.Container = (*Marquee)(nil)

// MarqueeFor returns the marquee bound to w, creating it on first use.
func MarqueeFor(loop *Loop, w *Widget) *Marquee {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.marquee == nil {
		w.marquee = &Marquee{loop: loop, widget: w}
	}
	return w.marquee
}

// Widget returns the host widget.
func (m *Marquee) Widget() *Widget { return m.widget }

// TrackWidget returns the current track widget, or nil before the first attach.
func (m *Marquee) TrackWidget() *Widget { return m.track }

// Size implements looper.Container.
func (m *Marquee) Size() (width, height float64) {
	w, h := m.widget.Size()
	return float64(w), float64(h)
}

// SetTrack implements looper.Container.
func (m *Marquee) SetTrack(t *looper.Track) {
	if m.track == nil {
		_, m.preservedHeight = m.widget.Size()
	}

	track := NewWidget(KindTrack)
	for _, tile := range t.Tiles {
		tw := tileWidget(tile, float32(t.Gap))
		tw.SetPosition(float32(tile.X), 0)
		track.AddChild(tw)
	}
	track.SetSize(float32(t.Width()), float32(t.Height()))

	m.track = track
	m.widget.SetChildren(track)
	if m.preservedHeight > 0 {
		m.widget.SetMinHeight(m.preservedHeight)
	}
}

// tileWidget returns the widget placed for one tile.
func tileWidget(tile looper.Tile, gap float32) *Widget {
	if !tile.Page {
		if len(tile.Items) == 1 {
			if w := WidgetOf(tile.Items[0]); w != nil {
				return w
			}
		}
		return Box(float32(tile.Width), float32(tile.Height))
	}

	page := NewWidget(KindPage)
	page.SetGap(gap)
	page.SetSize(float32(tile.Width), float32(tile.Height))
	for _, it := range tile.Items {
		if w := WidgetOf(it); w != nil {
			page.AddChild(w)
		}
	}
	return page
}

// showsTrack reports whether the widget's only child is the current track.
func (m *Marquee) showsTrack() bool {
	if m.track == nil {
		return false
	}
	children := m.widget.Children()
	return len(children) == 1 && children[0] == m.track
}

// SetOffset implements looper.Container.
func (m *Marquee) SetOffset(x float64) {
	if m.track != nil {
		m.track.SetTranslateX(float32(x))
	}
}

// SetMask implements looper.Container.
func (m *Marquee) SetMask(mask looper.Mask) {
	m.widget.SetMask(mask)
}

// OnPointerEnter implements looper.Container.
func (m *Marquee) OnPointerEnter(fn func()) func() {
	return m.widget.listen(func(w *Widget) *map[int]func() { return &w.enterListeners }, fn)
}

// OnPointerLeave implements looper.Container.
func (m *Marquee) OnPointerLeave(fn func()) func() {
	return m.widget.listen(func(w *Widget) *map[int]func() { return &w.leaveListeners }, fn)
}

// OnResize implements looper.Container.
func (m *Marquee) OnResize(fn func()) func() {
	return m.widget.OnResize(fn)
}

// RequestFrame implements looper.Container.
func (m *Marquee) RequestFrame(fn looper.FrameFunc) looper.FrameID {
	return looper.FrameID(m.loop.frames.Request(frames.Func(fn)))
}

// CancelFrame implements looper.Container.
func (m *Marquee) CancelFrame(id looper.FrameID) {
	m.loop.frames.Cancel(frames.ID(id))
}

// Now implements looper.Container.
func (m *Marquee) Now() time.Time {
	return m.loop.Now()
}

// ============================================================================
// Attaching
// ============================================================================

// AttachChildren turns w's children into a scrolling track. The widget's
// classes are layered over cfg (see looper.ParseClasses). Attaching again
// replaces the previous looper. While the widget still shows only its track,
// the children from the last attach are reused; any other content is taken
// as the new children.
func AttachChildren(loop *Loop, w *Widget, cfg looper.Config) *looper.Handle {
	m := MarqueeFor(loop, w)
	if !m.showsTrack() {
		m.source = w.Children()
	}
	cfg = looper.ParseClasses(cfg, w.Classes())
	return looper.Attach(m, Items(m.source...), cfg)
}

// AttachMatching attaches a track to every widget under root accepted by
// match. Matching widgets are not searched further.
func AttachMatching(loop *Loop, root *Widget, match func(*Widget) bool, cfg looper.Config) []*looper.Handle {
	var handles []*looper.Handle
	root.Walk(func(w *Widget) bool {
		if !match(w) {
			return true
		}
		handles = append(handles, AttachChildren(loop, w, cfg))
		return false
	})
	return handles
}

// ByClass matches widgets carrying the given class.
func ByClass(name string) func(*Widget) bool {
	return func(w *Widget) bool { return w.HasClass(name) }
}

// Detach detaches the looper bound to w, if any.
func Detach(w *Widget) {
	w.mu.RLock()
	m := w.marquee
	w.mu.RUnlock()
	if m != nil {
		looper.Detach(m.Bound())
	}
}

// ============================================================================
// Items
// ============================================================================

// item adapts a widget to looper.Item.
type item struct {
	w *Widget
}

func (it item) Size() (width, height float64) {
	w, h := it.w.Size()
	return float64(w), float64(h)
}

func (it item) Clone() looper.Item {
	return item{w: it.w.Clone()}
}

// Items wraps widgets as looper items.
func Items(ws ...*Widget) []looper.Item {
	out := make([]looper.Item, len(ws))
	for i, w := range ws {
		out[i] = item{w: w}
	}
	return out
}

// WidgetOf returns the widget behind an item created by Items, or nil.
func WidgetOf(it looper.Item) *Widget {
	if wi, ok := it.(item); ok {
		return wi.w
	}
	return nil
}
