// Package task implements the foreign-thread -> engine-thread task queue
// (spec.md §4.1 step 8, §5) and the per-frame loop-task registry.
package task

import (
	"fmt"
	"reflect"
	"sync"

	"lxcore/internal/debug"
)

// Runnable is a one-shot action marshalled onto the engine thread via
// Engine.AddTask (spec.md §6).
type Runnable func()

// LoopTask is a per-frame hook invoked once per tick in registration
// order (spec.md §4.1 step 7). Each task may be registered at most once.
type LoopTask interface {
	Tick(deltaMs float64)
}

// LoopTaskFunc adapts a function to the LoopTask interface.
type LoopTaskFunc func(deltaMs float64)

func (f LoopTaskFunc) Tick(deltaMs float64) { f(deltaMs) }

// Queue is a synchronized list any thread may append to; only the
// engine thread drains it. A task that enqueues more tasks while
// running defers them to the next frame, because Drain swaps the
// pending slice out before executing anything (spec.md §5).
type Queue struct {
	mu      sync.Mutex
	pending []Runnable

	logger *debug.Logger
}

// NewQueue constructs an empty task queue.
func NewQueue() *Queue {
	return &Queue{}
}

// SetLogger attaches the shared engine logger.
func (q *Queue) SetLogger(l *debug.Logger) { q.logger = l }

// Add enqueues a runnable from any thread.
func (q *Queue) Add(r Runnable) {
	q.mu.Lock()
	q.pending = append(q.pending, r)
	q.mu.Unlock()
}

// Drain atomically swaps the pending queue with a local slice and
// returns it; the caller runs every entry on the engine thread. Any
// task added during that run lands in the next Drain's result.
func (q *Queue) Drain() []Runnable {
	q.mu.Lock()
	local := q.pending
	q.pending = nil
	q.mu.Unlock()
	return local
}

// RunAll drains and executes every pending task in enqueue order.
func (q *Queue) RunAll() {
	pending := q.Drain()
	if len(pending) > 0 && q.logger != nil {
		q.logger.LogTask(debug.LogLevelDebug, "task: running queued tasks", map[string]interface{}{"count": len(pending)})
	}
	for _, r := range pending {
		r()
	}
}

// Registry holds the ordered set of per-frame loop tasks. Duplicate
// registration of the same task instance is a contract violation
// (spec.md §6 "exactly one registration per task").
type Registry struct {
	mu    sync.Mutex
	tasks []LoopTask

	logger *debug.Logger
}

// NewRegistry constructs an empty loop-task registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetLogger attaches the shared engine logger.
func (r *Registry) SetLogger(l *debug.Logger) { r.logger = l }

// Add registers t. Returns an error if t is already registered.
func (r *Registry) Add(t LoopTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tasks {
		if sameLoopTask(existing, t) {
			if r.logger != nil {
				r.logger.LogTask(debug.LogLevelDebug, "task: rejected duplicate loop task registration", nil)
			}
			return fmt.Errorf("task: duplicate loop task registration: contract violation")
		}
	}
	r.tasks = append(r.tasks, t)
	return nil
}

// Remove unregisters t if present; it is a no-op if t was never added.
func (r *Registry) Remove(t LoopTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.tasks {
		if sameLoopTask(existing, t) {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return
		}
	}
}

// sameLoopTask reports whether a and b identify the same registration.
// A plain == on the LoopTask interface panics when the dynamic type is
// a func (LoopTaskFunc is not comparable), so func-typed tasks are
// identified by their code pointer instead; everything else still uses
// ordinary interface equality (e.g. a *struct implementation).
func sameLoopTask(a, b LoopTask) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() == reflect.Func || bv.Kind() == reflect.Func {
		return av.Kind() == reflect.Func && bv.Kind() == reflect.Func && av.Pointer() == bv.Pointer()
	}
	return a == b
}

// TickAll invokes every registered task, in registration order, with dt.
func (r *Registry) TickAll(deltaMs float64) {
	r.mu.Lock()
	tasks := make([]LoopTask, len(r.tasks))
	copy(tasks, r.tasks)
	r.mu.Unlock()
	for _, t := range tasks {
		t.Tick(deltaMs)
	}
}
