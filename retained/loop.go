package retained

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agiangrant/looper/internal/frames"
)

// LoopConfig configures the frame loop.
type LoopConfig struct {
	// TargetFPS is the desired frames per second (default: 60).
	TargetFPS int

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// DefaultLoopConfig returns sensible defaults.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TargetFPS: 60,
	}
}

// Frame provides context for each loop iteration.
type Frame struct {
	// Number is the monotonically increasing frame counter.
	Number uint64

	// DeltaTime is seconds since the previous frame.
	DeltaTime float64

	// Time is seconds since the first frame.
	Time float64

	// Callbacks is how many frame callbacks ran.
	Callbacks int
}

// Loop owns a widget tree and runs frame callbacks, layout and event
// dispatch on a single goroutine.
type Loop struct {
	mu     sync.RWMutex
	root   *Widget
	config LoopConfig

	frames *frames.Registry
	events *EventDispatcher
	posted chan func()

	// overflow holds posted functions while the channel is full.
	overflowMu sync.Mutex
	overflow   []func()

	// Timing
	clock           func() time.Time
	targetFrameTime time.Duration
	startTime       time.Time
	lastFrameTime   time.Time

	// State
	running atomic.Bool
	paused  atomic.Bool

	windowWidth  float32
	windowHeight float32

	onFrame  func(*Frame)
	onResize func(width, height float32)

	frameCount atomic.Uint64
}

// NewLoop creates a loop with the specified configuration.
func NewLoop(config LoopConfig) *Loop {
	if config.TargetFPS < 1 {
		config.TargetFPS = 60
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	l := &Loop{
		config:          config,
		frames:          frames.NewRegistry(),
		posted:          make(chan func(), 256),
		clock:           config.Clock,
		targetFrameTime: time.Second / time.Duration(config.TargetFPS),
	}
	l.events = NewEventDispatcher(l.Root)
	return l
}

// SetRoot sets the root widget and sizes it to the window.
func (l *Loop) SetRoot(w *Widget) {
	l.mu.Lock()
	l.root = w
	width, height := l.windowWidth, l.windowHeight
	l.mu.Unlock()

	if w != nil && (width > 0 || height > 0) {
		w.SetSize(width, height)
	}
}

// Root returns the root widget.
func (l *Loop) Root() *Widget {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.root
}

// Frames returns the frame callback registry.
func (l *Loop) Frames() *frames.Registry {
	return l.frames
}

// Events returns the event dispatcher for this loop.
func (l *Loop) Events() *EventDispatcher {
	return l.events
}

// Now returns the loop clock.
func (l *Loop) Now() time.Time {
	return l.clock()
}

// WindowSize returns the current window dimensions.
func (l *Loop) WindowSize() (width, height float32) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.windowWidth, l.windowHeight
}

// OnFrame sets the callback run at the end of each tick.
func (l *Loop) OnFrame(fn func(*Frame)) {
	l.onFrame = fn
}

// OnResize sets the callback for window resize.
func (l *Loop) OnResize(fn func(width, height float32)) {
	l.onResize = fn
}

// Resize sets the window size. The root and its fill-width descendants
// follow, firing their resize listeners. Call from the loop goroutine
// (or through Post).
func (l *Loop) Resize(width, height float32) {
	l.mu.Lock()
	l.windowWidth, l.windowHeight = width, height
	root := l.root
	l.mu.Unlock()

	if root != nil {
		root.SetSize(width, height)
		SyncBounds(root)
	}
	if l.onResize != nil {
		l.onResize(width, height)
	}
}

// DispatchMouseMove updates hover state from a pointer position.
// Returns true if the hover chain changed.
func (l *Loop) DispatchMouseMove(x, y float32) bool {
	return l.events.DispatchMouseMove(x, y)
}

// Post queues fn to run on the loop goroutine before the next frame.
// It never blocks, so it is safe to call from the loop goroutine itself.
// Functions run in the order they were posted.
func (l *Loop) Post(fn func()) {
	l.overflowMu.Lock()
	defer l.overflowMu.Unlock()
	if len(l.overflow) == 0 {
		select {
		case l.posted <- fn:
			return
		default:
		}
	}
	l.overflow = append(l.overflow, fn)
}

// Tick runs one frame: posted functions, frame callbacks, then layout.
// Returns nil while the loop is paused.
func (l *Loop) Tick(now time.Time) *Frame {
	l.drainPosted()

	if l.paused.Load() {
		return nil
	}

	if l.startTime.IsZero() {
		l.startTime = now
		l.lastFrameTime = now
	}
	frame := &Frame{
		Number:    l.frameCount.Add(1),
		DeltaTime: now.Sub(l.lastFrameTime).Seconds(),
		Time:      now.Sub(l.startTime).Seconds(),
	}
	l.lastFrameTime = now

	frame.Callbacks = l.frames.Tick(now)

	if root := l.Root(); root != nil {
		SyncBounds(root)
	}

	if l.onFrame != nil {
		l.onFrame(frame)
	}
	return frame
}

func (l *Loop) drainPosted() {
	for {
		select {
		case fn := <-l.posted:
			fn()
		default:
			l.overflowMu.Lock()
			queued := l.overflow
			l.overflow = nil
			l.overflowMu.Unlock()
			if len(queued) == 0 {
				return
			}
			for _, fn := range queued {
				fn()
			}
		}
	}
}

// Run ticks at the target frame rate until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.targetFrameTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.posted:
			fn()
			l.drainPosted()
		case <-ticker.C:
			l.Tick(l.clock())
		}
	}
}

// Pause stops ticking frame callbacks.
func (l *Loop) Pause() {
	l.paused.Store(true)
}

// Resume resumes a paused loop.
func (l *Loop) Resume() {
	l.paused.Store(false)
}

// IsPaused returns whether the loop is paused.
func (l *Loop) IsPaused() bool {
	return l.paused.Load()
}

// IsRunning returns whether Run is active.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Stats returns loop statistics.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		FrameCount:     l.frameCount.Load(),
		PendingFrames:  l.frames.Pending(),
		TargetFPS:      l.config.TargetFPS,
		TargetInterval: l.targetFrameTime,
	}
}

// LoopStats contains loop metrics.
type LoopStats struct {
	FrameCount     uint64
	PendingFrames  int
	TargetFPS      int
	TargetInterval time.Duration
}

// SyncBounds recomputes screen-space bounds for the subtree at w.
// HStack and marquee page children are positioned left to right; other
// children keep their own positions. A widget's translation shifts its
// children, not itself.
func SyncBounds(w *Widget) {
	syncBounds(w, 0, 0)
}

func syncBounds(w *Widget, originX, originY float32) {
	x, y := w.Position()
	width, height := w.Size()
	if mh := w.MinHeight(); height < mh {
		height = mh
	}
	b := Bounds{X: originX + x, Y: originY + y, Width: width, Height: height}
	w.updateBounds(b)

	childX := b.X + w.TranslateX()
	kind := w.Kind()
	stacked := kind == KindHStack || kind == KindPage
	gap := w.Gap()

	var cursor float32
	for _, child := range w.Children() {
		if stacked {
			child.SetPosition(cursor, 0)
			cw, _ := child.Size()
			cursor += cw + gap
		}
		syncBounds(child, childX, b.Y)
	}
}
