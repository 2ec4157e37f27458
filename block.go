package looper

// Block is a plain fixed-size Item. It is useful for measuring tiling plans
// and as a placeholder where content is drawn elsewhere.
type Block struct {
	Label  string
	Width  float64
	Height float64
}

// Size implements Item.
func (b Block) Size() (width, height float64) { return b.Width, b.Height }

// Clone implements Item.
func (b Block) Clone() Item { return b }

// Blocks returns one Block per width, all with the given height.
func Blocks(height float64, widths ...float64) []Item {
	items := make([]Item, len(widths))
	for i, w := range widths {
		items[i] = Block{Width: w, Height: height}
	}
	return items
}
