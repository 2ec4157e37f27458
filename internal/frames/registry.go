// Package frames schedules per-frame callbacks for hosts that drive a
// Looper from their own render loop.
package frames

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// ID uniquely identifies a requested frame callback. Zero is never issued.
type ID uint64

// Func is called once with the frame timestamp.
type Func func(now time.Time)

type request struct {
	id        ID
	fn        Func
	cancelled atomic.Bool
}

// Registry holds frame callbacks until the next Tick.
// Request and Cancel may be called from any goroutine; Tick runs callbacks
// on the calling goroutine.
type Registry struct {
	mu       sync.Mutex
	nextID   ID
	requests map[ID]*request
	running  map[ID]*request // batch of the Tick in progress

	// Callback when the registry goes from idle to pending or back
	// (lets a loop switch between continuous and on-demand redraws).
	onActiveChange func(hasPending bool)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		requests: make(map[ID]*request),
		running:  make(map[ID]*request),
	}
}

// OnActiveChange sets the callback for when callbacks become pending/idle.
func (r *Registry) OnActiveChange(fn func(hasPending bool)) {
	r.mu.Lock()
	r.onActiveChange = fn
	r.mu.Unlock()
}

// Request schedules fn for the next Tick.
func (r *Registry) Request(fn Func) ID {
	r.mu.Lock()
	r.nextID++
	req := &request{id: r.nextID, fn: fn}
	wasEmpty := len(r.requests) == 0
	r.requests[req.id] = req
	callback := r.onActiveChange
	r.mu.Unlock()

	if wasEmpty && callback != nil {
		callback(true)
	}
	return req.id
}

// Cancel drops a pending callback. Unknown or already run IDs are ignored.
func (r *Registry) Cancel(id ID) {
	r.mu.Lock()
	req, ok := r.requests[id]
	if ok {
		req.cancelled.Store(true)
		delete(r.requests, id)
	} else if running, found := r.running[id]; found {
		running.cancelled.Store(true)
	}
	isEmpty := len(r.requests) == 0
	callback := r.onActiveChange
	r.mu.Unlock()

	if ok && isEmpty && callback != nil {
		callback(false)
	}
}

// Pending returns the number of callbacks waiting for the next Tick.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

// Tick runs every callback requested before the call, in request order, and
// returns how many ran. Callbacks requested while ticking wait for the next
// Tick; callbacks cancelled while ticking are skipped.
func (r *Registry) Tick(now time.Time) int {
	r.mu.Lock()
	batch := make([]*request, 0, len(r.requests))
	for id, req := range r.requests {
		batch = append(batch, req)
		r.running[id] = req
	}
	clear(r.requests)
	r.mu.Unlock()

	sort.Slice(batch, func(i, j int) bool { return batch[i].id < batch[j].id })

	ran := 0
	for _, req := range batch {
		if req.cancelled.Load() {
			continue
		}
		req.cancelled.Store(true)
		req.fn(now)
		ran++
	}

	r.mu.Lock()
	clear(r.running)
	hasPending := len(r.requests) > 0
	callback := r.onActiveChange
	r.mu.Unlock()

	if len(batch) > 0 && !hasPending && callback != nil {
		callback(false)
	}
	return ran
}
