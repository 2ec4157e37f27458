package looper

// Orientation is the axis direction of the fade gradient.
type Orientation uint8

const (
	// ToRight runs the gradient from the left edge towards the right edge.
	ToRight Orientation = iota + 1
	// ToLeft runs the gradient from the right edge towards the left edge.
	ToLeft
)

// Mask is a linear opacity gradient over both horizontal edges of a
// container: transparent at each outer edge, opaque Width pixels in.
type Mask struct {
	Orientation Orientation
	Width       float64
}

// IsZero reports whether the mask is cleared.
func (m Mask) IsZero() bool {
	return m.Orientation == 0 || m.Width <= 0
}

// FadeMask returns the mask for cfg, or the zero Mask when fading is off.
// Content fades in from the side it scrolls in from.
func FadeMask(cfg Config) Mask {
	cfg = cfg.Normalize()
	if !cfg.FadeEdges || cfg.FadeWidthPx <= 0 {
		return Mask{}
	}
	o := ToRight
	if cfg.Direction == Reverse {
		o = ToLeft
	}
	return Mask{Orientation: o, Width: max(1, cfg.FadeWidthPx)}
}

// Alpha returns the opacity in [0, 1] at x inside a container of the given
// width. Positions outside the container are fully transparent. Both edges
// fade over Width, so Orientation does not change the result; it only names
// the gradient direction for hosts that draw one.
func (m Mask) Alpha(x, containerWidth float64) float64 {
	if m.IsZero() {
		return 1
	}
	if x < 0 || x > containerWidth {
		return 0
	}

	a := min(x, containerWidth-x) / m.Width
	if a > 1 {
		return 1
	}
	return a
}
