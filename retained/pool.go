package retained

import "sync"

// ============================================================================
// Hover Set Pooling
// ============================================================================
//
// Each hover chain change builds two membership sets; the maps are pooled.

var hoverSetPool = sync.Pool{
	New: func() any {
		return make(map[*Widget]bool, 32)
	},
}

// acquireHoverSet returns a set holding chain's widgets.
// Release it with releaseHoverSet.
func acquireHoverSet(chain []*Widget) map[*Widget]bool {
	set := hoverSetPool.Get().(map[*Widget]bool)
	for _, w := range chain {
		set[w] = true
	}
	return set
}

// releaseHoverSet clears set and returns it to the pool.
func releaseHoverSet(set map[*Widget]bool) {
	if set == nil {
		return
	}
	clear(set)
	hoverSetPool.Put(set)
}
