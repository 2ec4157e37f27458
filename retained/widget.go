// Package retained provides a retained-mode widget tree that hosts looper
// tracks.
//
// A Loop owns the tree, dispatches hover events and runs frame callbacks once
// per tick on its own goroutine. Marquee adapts any widget into a
// looper.Container so its children can be turned into a seamless scrolling
// track.
package retained

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/agiangrant/looper"
)

// WidgetID uniquely identifies a widget in the tree.
type WidgetID uint64

var nextWidgetID atomic.Uint64

func newWidgetID() WidgetID {
	return WidgetID(nextWidgetID.Add(1))
}

// WidgetKind identifies the type of widget.
type WidgetKind string

const (
	KindContainer WidgetKind = "container"
	KindHStack    WidgetKind = "hstack"
	KindText      WidgetKind = "text"
	KindBox       WidgetKind = "box"
	KindTrack     WidgetKind = "marquee_track"
	KindPage      WidgetKind = "marquee_page"
)

// Property change flags for dirty tracking
const (
	DirtyPosition uint64 = 1 << iota
	DirtySize
	DirtyOpacity
	DirtyTransform
	DirtyMask
	DirtyChildren
	DirtyText
)

// Widget is a node in the retained tree.
// Widgets are safe for concurrent property updates.
type Widget struct {
	mu sync.RWMutex

	id       WidgetID
	kind     WidgetKind
	parent   *Widget
	children []*Widget

	// Layout
	x, y          float32
	width, height float32
	minHeight     float32
	fillWidth     bool    // w-full: follows the parent's width on resize
	gap           float32 // HStack spacing

	// Visual
	translateX float32
	opacity    float32
	mask       looper.Mask
	text       string
	classes    string

	// Event state
	computedBounds Bounds
	hovered        bool
	onMouseEnter   MouseHandler
	onMouseLeave   MouseHandler

	// Listeners registered by hosts (marquee hover/resize)
	nextListener    int
	enterListeners  map[int]func()
	leaveListeners  map[int]func()
	resizeListeners map[int]func()

	// Marquee bound to this widget, if any
	marquee *Marquee

	dirtyMask uint64
}

// NewWidget creates a widget with default values.
func NewWidget(kind WidgetKind) *Widget {
	return &Widget{
		id:      newWidgetID(),
		kind:    kind,
		opacity: 1.0,
	}
}

// ID returns the widget's unique identifier.
func (w *Widget) ID() WidgetID {
	return w.id
}

// Kind returns the widget type.
func (w *Widget) Kind() WidgetKind {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.kind
}

// ============================================================================
// Tree Structure
// ============================================================================

// Parent returns the widget's parent, or nil if it's the root.
func (w *Widget) Parent() *Widget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.parent
}

// Children returns a copy of the widget's children slice.
func (w *Widget) Children() []*Widget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.children)
}

// AddChild appends a child widget.
func (w *Widget) AddChild(child *Widget) *Widget {
	child.mu.Lock()
	child.parent = w
	child.mu.Unlock()

	w.mu.Lock()
	w.children = append(w.children, child)
	w.dirtyMask |= DirtyChildren
	w.mu.Unlock()
	return w
}

// SetChildren replaces all children.
func (w *Widget) SetChildren(children ...*Widget) *Widget {
	for _, child := range children {
		child.mu.Lock()
		child.parent = w
		child.mu.Unlock()
	}

	w.mu.Lock()
	old := w.children
	w.children = slices.Clone(children)
	w.dirtyMask |= DirtyChildren
	w.mu.Unlock()

	for _, child := range old {
		if !slices.Contains(children, child) {
			child.mu.Lock()
			child.parent = nil
			child.mu.Unlock()
		}
	}
	return w
}

// Walk calls fn for w and every descendant, depth first.
// Returning false from fn skips that widget's children.
func (w *Widget) Walk(fn func(*Widget) bool) {
	if !fn(w) {
		return
	}
	for _, child := range w.Children() {
		child.Walk(fn)
	}
}

// Clone returns a deep copy of the widget subtree with fresh IDs.
// Handlers, listeners and marquee bindings are not copied.
func (w *Widget) Clone() *Widget {
	w.mu.RLock()
	c := &Widget{
		id:        newWidgetID(),
		kind:      w.kind,
		x:         w.x,
		y:         w.y,
		width:     w.width,
		height:    w.height,
		minHeight: w.minHeight,
		fillWidth: w.fillWidth,
		gap:       w.gap,
		opacity:   w.opacity,
		text:      w.text,
		classes:   w.classes,
	}
	children := slices.Clone(w.children)
	w.mu.RUnlock()

	for _, child := range children {
		c.AddChild(child.Clone())
	}
	c.dirtyMask = 0
	return c
}

// ============================================================================
// Layout Properties
// ============================================================================

// SetPosition sets x and y relative to the parent.
func (w *Widget) SetPosition(x, y float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.x != x || w.y != y {
		w.x, w.y = x, y
		w.dirtyMask |= DirtyPosition
	}
	return w
}

// Position returns x and y relative to the parent.
func (w *Widget) Position() (x, y float32) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.x, w.y
}

// SetSize sets width and height. Resize listeners run when the size changes.
func (w *Widget) SetSize(width, height float32) *Widget {
	w.mu.Lock()
	changed := w.width != width || w.height != height
	if changed {
		w.width, w.height = width, height
		w.dirtyMask |= DirtySize
	}
	listeners := listenerFuncs(w.resizeListeners)
	fillChildren := w.fillChildren()
	w.mu.Unlock()

	if !changed {
		return w
	}
	for _, child := range fillChildren {
		_, h := child.Size()
		child.SetSize(width, h)
	}
	for _, fn := range listeners {
		fn()
	}
	return w
}

// fillChildren returns children with fill width. Caller holds w.mu.
func (w *Widget) fillChildren() []*Widget {
	var out []*Widget
	for _, child := range w.children {
		child.mu.RLock()
		fill := child.fillWidth
		child.mu.RUnlock()
		if fill {
			out = append(out, child)
		}
	}
	return out
}

// Size returns width and height.
func (w *Widget) Size() (width, height float32) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.width, w.height
}

// SetFillWidth makes the widget follow its parent's width.
func (w *Widget) SetFillWidth(fill bool) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fillWidth = fill
	return w
}

// SetMinHeight sets the minimum height.
func (w *Widget) SetMinHeight(h float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.minHeight != h {
		w.minHeight = h
		w.dirtyMask |= DirtySize
	}
	return w
}

// MinHeight returns the minimum height.
func (w *Widget) MinHeight() float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.minHeight
}

// SetGap sets the HStack spacing.
func (w *Widget) SetGap(gap float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gap = gap
	return w
}

// Gap returns the HStack spacing.
func (w *Widget) Gap() float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.gap
}

// ============================================================================
// Visual Properties
// ============================================================================

// SetTranslateX translates the widget and its subtree horizontally.
// It is a pure transform and does not trigger layout.
func (w *Widget) SetTranslateX(x float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.translateX != x {
		w.translateX = x
		w.dirtyMask |= DirtyTransform
	}
	return w
}

// TranslateX returns the horizontal translation.
func (w *Widget) TranslateX() float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.translateX
}

// SetOpacity sets opacity (0.0 - 1.0).
func (w *Widget) SetOpacity(opacity float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.opacity != opacity {
		w.opacity = opacity
		w.dirtyMask |= DirtyOpacity
	}
	return w
}

// Opacity returns the widget opacity.
func (w *Widget) Opacity() float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.opacity
}

// SetMask sets the edge fade mask. The zero Mask clears it.
func (w *Widget) SetMask(m looper.Mask) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mask != m {
		w.mask = m
		w.dirtyMask |= DirtyMask
	}
	return w
}

// Mask returns the edge fade mask.
func (w *Widget) Mask() looper.Mask {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.mask
}

// SetText sets the text content.
func (w *Widget) SetText(text string) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.text != text {
		w.text = text
		w.dirtyMask |= DirtyText
	}
	return w
}

// Text returns the text content.
func (w *Widget) Text() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.text
}

// SetClasses sets the utility class string.
func (w *Widget) SetClasses(classes string) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.classes = classes
	return w
}

// Classes returns the utility class string.
func (w *Widget) Classes() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.classes
}

// HasClass reports whether name is one of the widget's classes.
func (w *Widget) HasClass(name string) bool {
	return slices.Contains(splitClasses(w.Classes()), name)
}

// DirtyMask returns the accumulated change flags.
func (w *Widget) DirtyMask() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirtyMask
}

// ClearDirty resets the change flags.
func (w *Widget) ClearDirty() {
	w.mu.Lock()
	w.dirtyMask = 0
	w.mu.Unlock()
}

// ============================================================================
// Events
// ============================================================================

// OnMouseEnter sets the mouse enter handler.
func (w *Widget) OnMouseEnter(handler MouseHandler) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onMouseEnter = handler
	return w
}

// OnMouseLeave sets the mouse leave handler.
func (w *Widget) OnMouseLeave(handler MouseHandler) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onMouseLeave = handler
	return w
}

// IsHovered reports whether the pointer is over the widget.
func (w *Widget) IsHovered() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.hovered
}

func (w *Widget) setHovered(hovered bool) {
	w.mu.Lock()
	w.hovered = hovered
	w.mu.Unlock()
}

// ComputedBounds returns the screen-space bounds from the last tick.
func (w *Widget) ComputedBounds() Bounds {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.computedBounds
}

func (w *Widget) updateBounds(b Bounds) {
	w.mu.Lock()
	w.computedBounds = b
	w.mu.Unlock()
}

// HandleEvent runs the widget's handlers and host listeners for e.
func (w *Widget) HandleEvent(e *MouseEvent) {
	w.mu.RLock()
	var handler MouseHandler
	var listeners []func()
	switch e.Type() {
	case EventMouseEnter:
		handler = w.onMouseEnter
		listeners = listenerFuncs(w.enterListeners)
	case EventMouseLeave:
		handler = w.onMouseLeave
		listeners = listenerFuncs(w.leaveListeners)
	}
	w.mu.RUnlock()

	if handler != nil {
		handler(e)
	}
	for _, fn := range listeners {
		fn()
	}
}

// listen registers fn in the listener set selected by pick and returns
// its removal function.
func (w *Widget) listen(pick func(*Widget) *map[int]func(), fn func()) func() {
	w.mu.Lock()
	set := pick(w)
	if *set == nil {
		*set = make(map[int]func())
	}
	w.nextListener++
	id := w.nextListener
	(*set)[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(*pick(w), id)
		w.mu.Unlock()
	}
}

// OnResize registers fn to run after the widget's size changes and returns
// its removal function.
func (w *Widget) OnResize(fn func()) func() {
	return w.listen(func(w *Widget) *map[int]func() { return &w.resizeListeners }, fn)
}

// ListenerCount returns the number of host listeners registered on w.
func (w *Widget) ListenerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.enterListeners) + len(w.leaveListeners) + len(w.resizeListeners)
}

// listenerFuncs returns the listeners in registration order.
func listenerFuncs(set map[int]func()) []func() {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(), len(ids))
	for i, id := range ids {
		out[i] = set[id]
	}
	return out
}
