package retained

import "sync"

// ============================================================================
// Event Types
// ============================================================================

// EventType identifies the kind of event.
type EventType uint8

const (
	EventMouseEnter EventType = iota + 1
	EventMouseLeave
	EventMouseMove
)

func (t EventType) String() string {
	switch t {
	case EventMouseEnter:
		return "mouseenter"
	case EventMouseLeave:
		return "mouseleave"
	case EventMouseMove:
		return "mousemove"
	default:
		return "unknown"
	}
}

// ============================================================================
// Mouse Event
// ============================================================================

// MouseEvent represents pointer movement events.
type MouseEvent struct {
	eventType EventType
	target    *Widget

	// Screen coordinates (relative to window)
	X, Y float32

	// Local coordinates (relative to target widget's top-left)
	LocalX, LocalY float32
}

// Type returns the event type.
func (e *MouseEvent) Type() EventType { return e.eventType }

// Target returns the widget receiving the event.
func (e *MouseEvent) Target() *Widget { return e.target }

// NewMouseEvent creates a mouse event. Uses object pool for high-frequency events.
func NewMouseEvent(eventType EventType, x, y float32) *MouseEvent {
	e := mouseEventPool.Get().(*MouseEvent)
	e.eventType = eventType
	e.target = nil
	e.X = x
	e.Y = y
	e.LocalX = x
	e.LocalY = y
	return e
}

// Release returns the event to the pool. Call when done processing.
func (e *MouseEvent) Release() {
	e.target = nil
	mouseEventPool.Put(e)
}

// Object pool for mouse events to avoid allocations on every mouse move
var mouseEventPool = sync.Pool{
	New: func() any {
		return &MouseEvent{}
	},
}

// MouseHandler is a callback for mouse events.
type MouseHandler func(*MouseEvent)

// ============================================================================
// Computed Bounds (for hit testing)
// ============================================================================

// Bounds represents the screen-space bounding box of a widget.
type Bounds struct {
	X, Y          float32 // Top-left corner in screen coordinates
	Width, Height float32
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(x, y float32) bool {
	return x >= b.X && x < b.X+b.Width &&
		y >= b.Y && y < b.Y+b.Height
}

// LocalPoint converts screen coordinates to local coordinates relative to bounds.
func (b Bounds) LocalPoint(screenX, screenY float32) (localX, localY float32) {
	return screenX - b.X, screenY - b.Y
}
