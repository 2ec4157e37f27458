package looper

// maxCopies bounds the number of tiled units in one track. A track that hits
// the bound is narrower than containerWidth + BaseWidth.
const maxCopies = 4096

// Tile is one placed element of a track: a single item in PerItem mode or a
// page holding the whole set in WholeSet mode.
type Tile struct {
	// Copy is the index of the tiled unit this tile belongs to.
	Copy int

	// X is the tile's left edge relative to the track origin.
	X float64

	// Width is the tile's rendered width.
	Width float64

	// Height is the tallest item in the tile.
	Height float64

	// Items holds the clones placed in this tile.
	Items []Item

	// Page is true for WholeSet pages.
	Page bool
}

// Track is the tiled rendering handed to a container.
type Track struct {
	Tiles []Tile

	// Gap is the space between adjacent tiles.
	Gap float64

	// BaseWidth is the width of one tiled unit, floored at 1.
	// It is zero for an empty track.
	BaseWidth float64

	// Copies is the number of tiled units in the track. It never exceeds
	// maxCopies, so for units far narrower than the container the track may
	// fall short of containerWidth + BaseWidth.
	Copies int

	// unitWidth is the unfloored width of one unit.
	unitWidth float64
}

// Width returns the rendered width of the track.
func (t *Track) Width() float64 {
	if t == nil || len(t.Tiles) == 0 {
		return 0
	}
	last := t.Tiles[len(t.Tiles)-1]
	return last.X + last.Width
}

// Height returns the tallest tile height.
func (t *Track) Height() float64 {
	if t == nil {
		return 0
	}
	var h float64
	for _, tile := range t.Tiles {
		if tile.Height > h {
			h = tile.Height
		}
	}
	return h
}

// Empty reports whether the track has no tiles.
func (t *Track) Empty() bool {
	return t == nil || len(t.Tiles) == 0
}

// BuildTrack builds a track for items inside a container of the given width.
//
// One unit is rendered and measured to get the base width, a second unit is
// always appended, and further units are appended until the track covers
// containerWidth + BaseWidth or the track holds maxCopies units. An empty
// item list yields an empty track.
func BuildTrack(items []Item, containerWidth float64, cfg Config) *Track {
	cfg = cfg.Normalize()
	if containerWidth < 0 {
		containerWidth = 0
	}

	t := &Track{Gap: cfg.GapPx}
	if len(items) == 0 {
		return t
	}

	t.appendUnit(items, containerWidth, cfg.TilingMode)
	t.unitWidth = t.Width()
	t.BaseWidth = max(1, t.unitWidth)

	t.appendUnit(items, containerWidth, cfg.TilingMode)

	// Nothing visible to cover when every unit and the gap are zero wide.
	if t.unitWidth+t.Gap <= 0 {
		return t
	}
	for t.Width() < containerWidth+t.BaseWidth && t.Copies < maxCopies {
		t.appendUnit(items, containerWidth, cfg.TilingMode)
	}
	return t
}

// appendUnit appends one full pass over items.
func (t *Track) appendUnit(items []Item, containerWidth float64, mode TilingMode) {
	copyIdx := t.Copies
	t.Copies++

	if mode == WholeSet {
		page := Tile{Copy: copyIdx, Width: containerWidth, Page: true}
		page.Items = make([]Item, 0, len(items))
		for _, it := range items {
			c := it.Clone()
			_, h := c.Size()
			if h > page.Height {
				page.Height = h
			}
			page.Items = append(page.Items, c)
		}
		t.place(page)
		return
	}

	for _, it := range items {
		c := it.Clone()
		w, h := c.Size()
		t.place(Tile{Copy: copyIdx, Width: max(0, w), Height: h, Items: []Item{c}})
	}
}

// place positions tile after the current last tile.
func (t *Track) place(tile Tile) {
	if len(t.Tiles) > 0 {
		tile.X = t.Width() + t.Gap
	}
	t.Tiles = append(t.Tiles, tile)
}
