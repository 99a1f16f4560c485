// Package tasks runs fire-and-forget background work. The failure policy
// is log-and-drop: tasks are never retried and never surface errors to the
// request that spawned them.
package tasks

import (
	"log/slog"
	"sync"
)

// Runner tracks in-flight background tasks so tests and shutdown can wait
// for them.
type Runner struct {
	wg sync.WaitGroup
}

// Go runs fn in a goroutine. Panics are recovered and errors are logged
// under the task name; neither reaches the caller.
func (r *Runner) Go(name string, fn func() error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				slog.Error("background task panicked", "task", name, "panic", p)
			}
		}()

		if err := fn(); err != nil {
			slog.Error("background task failed", "task", name, "error", err)
		}
	}()
}

// Wait blocks until all started tasks have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
