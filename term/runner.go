package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/agiangrant/looper"
	"github.com/agiangrant/looper/internal/frames"
	"golang.org/x/sync/errgroup"
)

// Screen is the terminal a Runner draws on. *Terminal implements it.
type Screen interface {
	io.ReadWriter
	EnterRaw() error
	ExitRaw() error
	Size() (width, height int, err error)
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// FPS is the frame rate (default: 30).
	FPS int

	// SizePoll is how often the terminal size is checked (default: 250ms).
	SizePoll time.Duration

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// DefaultRunnerConfig returns sensible defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		FPS:      30,
		SizePoll: 250 * time.Millisecond,
	}
}

// Runner animates one Lane on a Screen. Key bindings: space toggles the
// hover pause, q (or Ctrl+C) quits.
type Runner struct {
	screen Screen
	config RunnerConfig
	frames *frames.Registry
	lane   *Lane
}

// errQuit ends the run loop on user request.
var errQuit = errors.New("quit")

// NewRunner creates a runner drawing on screen.
func NewRunner(screen Screen, config RunnerConfig) *Runner {
	defaults := DefaultRunnerConfig()
	if config.FPS < 1 {
		config.FPS = defaults.FPS
	}
	if config.SizePoll <= 0 {
		config.SizePoll = defaults.SizePoll
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	reg := frames.NewRegistry()
	return &Runner{
		screen: screen,
		config: config,
		frames: reg,
		lane:   NewLane(0, reg, config.Clock),
	}
}

// Lane returns the lane the runner draws.
func (r *Runner) Lane() *Lane { return r.lane }

// Run attaches items to the lane and animates it until ctx is cancelled or
// the user quits. Looper callbacks all run on one loop goroutine.
func (r *Runner) Run(ctx context.Context, items []looper.Item, cfg looper.Config) error {
	cols, _, err := r.screen.Size()
	if err != nil {
		return err
	}
	r.lane.SetCols(cols)

	h := looper.Attach(r.lane, items, cfg)
	defer looper.Detach(h)
	log.Printf("looper: attached %d items, %d copies across %d columns", len(items), h.Track().Copies, cols)

	if err := r.screen.EnterRaw(); err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer r.screen.ExitRaw()
	io.WriteString(r.screen, CursorHide)
	defer io.WriteString(r.screen, "\r\n"+CursorShow)

	// The key reader blocks on input and cannot be cancelled, so it lives
	// outside the group and exits on the next read error or the first key
	// read after Run returns.
	keys := make(chan KeyEvent, 16)
	done := make(chan struct{})
	defer close(done)
	go r.readKeys(keys, done)

	sizes := make(chan int, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.watchSize(gctx, cols, sizes) })
	g.Go(func() error { return r.loop(gctx, keys, sizes) })

	err = g.Wait()
	if errors.Is(err, errQuit) || ctx.Err() != nil {
		return nil
	}
	return err
}

// loop owns the lane: it ticks frames, applies key presses and resizes.
func (r *Runner) loop(ctx context.Context, keys <-chan KeyEvent, sizes <-chan int) error {
	ticker := time.NewTicker(time.Second / time.Duration(r.config.FPS))
	defer ticker.Stop()

	r.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-keys:
			if !ok {
				return errQuit
			}
			if err := r.handleKey(ev); err != nil {
				return err
			}

		case cols := <-sizes:
			r.lane.SetCols(cols)
			r.draw()

		case <-ticker.C:
			if r.frames.Tick(r.config.Clock()) > 0 {
				r.draw()
			}
		}
	}
}

func (r *Runner) handleKey(ev KeyEvent) error {
	switch {
	case ev.Key == KeyCtrlC, ev.Key == KeyRune && (ev.Rune == 'q' || ev.Rune == 'Q'):
		return errQuit
	case ev.Key == KeyRune && ev.Rune == ' ':
		r.lane.SetHovered(!r.lane.Hovered())
		r.draw()
	}
	return nil
}

func (r *Runner) draw() {
	io.WriteString(r.screen, "\r"+r.lane.Render()+ClearLine)
}

// watchSize polls the screen width and reports changes on sizes.
func (r *Runner) watchSize(ctx context.Context, cols int, sizes chan<- int) error {
	ticker := time.NewTicker(r.config.SizePoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w, _, err := r.screen.Size()
			if err != nil {
				log.Printf("looper: %v", err)
				continue
			}
			if w == cols {
				continue
			}
			cols = w
			select {
			case sizes <- w:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// readKeys forwards key events until the input fails or done is closed,
// then closes keys.
func (r *Runner) readKeys(keys chan<- KeyEvent, done <-chan struct{}) {
	defer close(keys)
	kr := NewKeyReader(r.screen)
	for {
		ev, err := kr.ReadKey()
		if err != nil {
			return
		}
		select {
		case keys <- ev:
		case <-done:
			return
		}
	}
}

// ============================================================================
// Keys
// ============================================================================

// Key represents a keyboard input.
type Key int

const (
	KeyUnknown Key = iota
	KeyCtrlC
	KeyRune // Regular character
)

// KeyEvent represents a key press event.
type KeyEvent struct {
	Key  Key
	Rune rune // Only valid when Key == KeyRune
}

// KeyReader reads keyboard input from a raw terminal.
type KeyReader struct {
	reader *bufio.Reader
}

// NewKeyReader creates a KeyReader from the given io.Reader.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{
		reader: bufio.NewReaderSize(r, 64),
	}
}

// ReadKey reads a single key event from the input.
// This method blocks until a key is pressed.
func (k *KeyReader) ReadKey() (KeyEvent, error) {
	r, _, err := k.reader.ReadRune()
	if err != nil {
		return KeyEvent{}, err
	}
	switch {
	case r == 0x03:
		return KeyEvent{Key: KeyCtrlC}, nil
	case r >= 0x20 && r != 0x7F:
		return KeyEvent{Key: KeyRune, Rune: r}, nil
	default:
		return KeyEvent{Key: KeyUnknown}, nil
	}
}
