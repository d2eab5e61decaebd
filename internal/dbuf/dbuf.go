// Package dbuf implements the render/copy double buffer (spec.md §4.4):
// the render side is exclusive to the engine thread, the copy side is
// shared read-only with consumers, and a flip under lock atomically
// swaps which is which.
package dbuf

import (
	"sync"

	"lxcore/internal/lxcolor"
)

// DoubleBuffer is a render/copy pair whose labels are atomically
// swapped at frame boundaries (GLOSSARY "Double buffer").
type DoubleBuffer struct {
	mu sync.Mutex

	buffers  [2]lxcolor.Buffer
	renderIx int // index into buffers currently labeled "render"

	cueOn bool
}

// New allocates both underlying buffers at length n.
func New(n int) *DoubleBuffer {
	return &DoubleBuffer{
		buffers: [2]lxcolor.Buffer{
			lxcolor.NewBuffer(n, lxcolor.Black),
			lxcolor.NewBuffer(n, lxcolor.Black),
		},
	}
}

// Render returns the buffer the engine thread writes into this frame.
// It is exclusive to the engine thread and must never be read by
// consumers (spec.md §3 invariant 2).
func (d *DoubleBuffer) Render() lxcolor.Buffer {
	return d.buffers[d.renderIx]
}

// Flip swaps which underlying buffer is labeled render/copy and
// records cueOn. If threaded is true the swap happens under the buffer
// lock, matching spec.md §4.4 ("flips occur only at frame boundaries
// under the buffer lock" when any consumer thread may be reading).
// In single-threaded operation the flag is set without a lock, but the
// labels still swap every frame: that is what makes the copy side
// always hold the frame just written (see CopyInto/RenderNonThreadSafe).
func (d *DoubleBuffer) Flip(cueOn bool, threaded bool) {
	if threaded {
		d.mu.Lock()
		defer d.mu.Unlock()
	}
	d.cueOn = cueOn
	d.renderIx = 1 - d.renderIx
}

// Sync copies render -> copy without flipping, used when transitioning
// into any threaded mode so the just-promoted consumer side is valid
// before the engine thread begins a new frame (spec.md §4.4).
func (d *DoubleBuffer) Sync() {
	d.mu.Lock()
	defer d.mu.Unlock()
	copyIx := 1 - d.renderIx
	lxcolor.CopyFrom(d.buffers[copyIx], d.buffers[d.renderIx])
}

// CopyInto copies the copy side into dest under the buffer lock
// (spec.md §4.4 "copyUIBuffer").
func (d *DoubleBuffer) CopyInto(dest lxcolor.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copyIx := 1 - d.renderIx
	lxcolor.CopyFrom(dest, d.buffers[copyIx])
}

// CueOn reports whether the last flip was marked as a cue frame.
func (d *DoubleBuffer) CueOn() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cueOn
}

// RenderNonThreadSafe returns the frame last written by the engine
// thread, for single-threaded hosts that read it without a lock
// (spec.md §4.4 "getUIBufferNonThreadSafe"). Because Flip always swaps
// the render/copy labels, the just-written frame is the copy side by
// the time a consumer looks at it, exactly as CopyInto reads it — this
// accessor just skips the copy and the lock.
func (d *DoubleBuffer) RenderNonThreadSafe() lxcolor.Buffer {
	return d.buffers[1-d.renderIx]
}
