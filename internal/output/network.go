package output

import (
	"sync"

	"lxcore/internal/lxcolor"
)

// FrameSource supplies the network worker with the published MAIN
// frame, matching dbuf.DoubleBuffer.CopyInto's contract: copy under the
// buffer lock into dest, then the caller may read dest lock-free.
type FrameSource interface {
	CopyInto(dest lxcolor.Buffer)
}

// NetworkWorker is the long-running worker that decouples output.Send
// from rendering when networkThreaded is enabled (spec.md §4.5 "Network
// thread variant"). It waits on a condition, wakes on Notify, copies the
// published frame under the buffer lock, then drops the lock before
// sending so the engine can continue rendering concurrently.
type NetworkWorker struct {
	root   *Sink
	source FrameSource

	mu      sync.Mutex
	cond    *sync.Cond
	pending bool
	stopped bool

	private lxcolor.Buffer
}

// NewNetworkWorker constructs a worker that dispatches to root whenever
// Notify is called, reading frames from source.
func NewNetworkWorker(root *Sink, source FrameSource, n int) *NetworkWorker {
	w := &NetworkWorker{root: root, source: source, private: lxcolor.NewBuffer(n, lxcolor.Black)}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Run blocks, dispatching frames, until Stop is called. Call it in its
// own goroutine.
func (w *NetworkWorker) Run() {
	w.mu.Lock()
	for {
		for !w.pending && !w.stopped {
			w.cond.Wait()
		}
		if w.stopped {
			w.mu.Unlock()
			return
		}
		w.pending = false
		w.mu.Unlock()

		// Copy under the buffer lock, then send without holding it, so
		// the engine thread can keep rendering the next frame.
		w.source.CopyInto(w.private)
		w.root.Send(w.private)

		w.mu.Lock()
	}
}

// Notify wakes the worker at frame end (spec.md §4.5).
func (w *NetworkWorker) Notify() {
	w.mu.Lock()
	w.pending = true
	w.cond.Signal()
	w.mu.Unlock()
}

// Stop ends the worker's loop at its next wait.
func (w *NetworkWorker) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.cond.Signal()
	w.mu.Unlock()
}
