package ui

import (
	"context"
	"sync"
	"time"
)

// DefaultDrainInterval is how often the rendering goroutine drains the queue
const DefaultDrainInterval = 100 * time.Millisecond

// Action is one deferred UI update enqueued by a worker goroutine
type Action func()

// Dispatcher is the one-directional producer/consumer channel between worker
// goroutines and the rendering goroutine. Workers enqueue actions; the drain
// loop applies them in FIFO order, so for a single job the displayed state
// transitions in exactly the order the child process produced them.
type Dispatcher struct {
	mu    sync.Mutex
	queue []Action
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Enqueue appends an action. The queue is logically unbounded; in practice
// it is bounded by how much output one child process emits per drain tick.
func (d *Dispatcher) Enqueue(fn Action) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
}

// Flush applies every currently queued action in order
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	pending := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// Pending returns the number of queued actions
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Run drains the queue on a fixed interval until the context is done, then
// performs one final drain so no queued update is lost at shutdown. Call it
// from the rendering goroutine only.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultDrainInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.Flush()
			return
		case <-ticker.C:
			d.Flush()
		}
	}
}
