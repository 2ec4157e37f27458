package retained

// EventDispatcher tracks hover state and dispatches enter/leave events
// through the widget tree.
type EventDispatcher struct {
	hoveredWidget *Widget   // Deepest widget currently under the mouse
	hoveredChain  []*Widget // All widgets in hover chain (root to deepest)

	root func() *Widget
}

// NewEventDispatcher creates a dispatcher that hit tests the tree returned by root.
func NewEventDispatcher(root func() *Widget) *EventDispatcher {
	return &EventDispatcher{root: root}
}

// ============================================================================
// Hit Testing (using cached bounds)
// ============================================================================

// HitTestResult contains the result of a hit test.
type HitTestResult struct {
	Widget *Widget
	LocalX float32
	LocalY float32
	// Chain is the path from root to target
	Chain []*Widget
}

// HitTest finds the deepest widget at the given screen coordinates.
// Children outside their parent's bounds are clipped, like overflow-hidden.
func (d *EventDispatcher) HitTest(screenX, screenY float32) *HitTestResult {
	root := d.root()
	if root == nil {
		return nil
	}

	chain := make([]*Widget, 0, 16)
	target := d.hitTestRecursive(root, screenX, screenY, &chain)
	if target == nil {
		return nil
	}

	localX, localY := target.ComputedBounds().LocalPoint(screenX, screenY)
	return &HitTestResult{
		Widget: target,
		LocalX: localX,
		LocalY: localY,
		Chain:  chain,
	}
}

func (d *EventDispatcher) hitTestRecursive(w *Widget, x, y float32, chain *[]*Widget) *Widget {
	if !w.ComputedBounds().Contains(x, y) {
		return nil
	}
	*chain = append(*chain, w)

	// Last child first for z-order
	children := w.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if hit := d.hitTestRecursive(children[i], x, y, chain); hit != nil {
			return hit
		}
	}
	return w
}

// DispatchMouseMove updates hover state for a pointer at (screenX, screenY).
// Returns true if the hover chain changed.
func (d *EventDispatcher) DispatchMouseMove(screenX, screenY float32) bool {
	result := d.HitTest(screenX, screenY)
	var newHovered *Widget
	var newChain []*Widget
	if result != nil {
		newHovered = result.Widget
		newChain = result.Chain
	}

	// Compare chains not just the deepest widget so parents stay hovered
	// while the pointer moves across their children.
	if d.chainsEqual(d.hoveredChain, newChain) {
		return false
	}
	d.updateHoverState(newHovered, screenX, screenY, newChain)
	return true
}

// DispatchMouseExit clears hover state, e.g. when the pointer leaves the window.
func (d *EventDispatcher) DispatchMouseExit() bool {
	if len(d.hoveredChain) == 0 {
		return false
	}
	d.updateHoverState(nil, -1, -1, nil)
	return true
}

// updateHoverState sends MouseLeave to widgets that left the chain (deepest
// first) and MouseEnter to widgets that joined it (root first).
func (d *EventDispatcher) updateHoverState(newHovered *Widget, screenX, screenY float32, newChain []*Widget) {
	oldChain := d.hoveredChain

	oldSet := acquireHoverSet(oldChain)
	defer releaseHoverSet(oldSet)
	newSet := acquireHoverSet(newChain)
	defer releaseHoverSet(newSet)

	// Update state first so handlers observe the new chain.
	d.hoveredWidget = newHovered
	d.hoveredChain = newChain

	for i := len(oldChain) - 1; i >= 0; i-- {
		w := oldChain[i]
		if !newSet[w] {
			w.setHovered(false)
			d.send(w, EventMouseLeave, screenX, screenY)
		}
	}

	for _, w := range newChain {
		if !oldSet[w] {
			w.setHovered(true)
			d.send(w, EventMouseEnter, screenX, screenY)
		}
	}
}

func (d *EventDispatcher) send(w *Widget, t EventType, screenX, screenY float32) {
	e := NewMouseEvent(t, screenX, screenY)
	e.LocalX, e.LocalY = w.ComputedBounds().LocalPoint(screenX, screenY)
	e.target = w
	w.HandleEvent(e)
	e.Release()
}

// HoveredWidget returns the currently hovered widget.
func (d *EventDispatcher) HoveredWidget() *Widget {
	return d.hoveredWidget
}

// chainsEqual compares two widget chains for equality.
func (d *EventDispatcher) chainsEqual(a, b []*Widget) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
