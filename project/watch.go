package project

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"lxcore/internal/task"
)

// Watcher reloads a project file from disk whenever it changes,
// wired through the engine's task queue so the reload runs on the
// engine thread rather than the filesystem-event goroutine (spec.md §5
// "Foreign-thread tasks").
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	onChange func(data []byte) error
	done     chan struct{}
}

// Scheduler is the subset of Engine.AddTask needed to marshal a reload
// onto the engine thread.
type Scheduler interface {
	AddTask(r task.Runnable)
}

// NewWatcher starts watching path for writes, invoking onChange (via
// sched.AddTask) with the file's new contents after each write event.
func NewWatcher(path string, sched Scheduler, onChange func(data []byte) error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("project: create watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("project: watch %q: %w", path, err)
	}

	w := &Watcher{fsw: fsw, path: path, onChange: onChange, done: make(chan struct{})}
	go w.run(sched)
	return w, nil
}

func (w *Watcher) run(sched Scheduler) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			sched.AddTask(func() {
				data, err := os.ReadFile(w.path)
				if err != nil {
					return
				}
				_ = w.onChange(data)
			})
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops watching and releases the underlying fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
