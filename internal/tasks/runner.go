// Package tasks runs blocking work off the UI goroutine and hands back a
// handle the caller can wait on or cancel.
package tasks

import (
	"context"
	"sync"

	"saf-demo/internal/logger"

	"github.com/google/uuid"
)

// Runner owns the context every task derives from. Shutdown cancels them all.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger logger.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	closed  bool
	pending map[string]context.CancelFunc
}

func NewRunner(parent context.Context, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Runner{
		ctx:     ctx,
		cancel:  cancel,
		logger:  log,
		pending: make(map[string]context.CancelFunc),
	}
}

// Handle is the caller's view of one running task.
type Handle[T any] struct {
	id     string
	name   string
	done   chan struct{}
	cancel context.CancelFunc
	result T
}

func (h *Handle[T]) ID() string   { return h.id }
func (h *Handle[T]) Name() string { return h.name }

// Done is closed when the task has finished.
func (h *Handle[T]) Done() <-chan struct{} { return h.done }

// Wait blocks until the task finishes and returns its result.
func (h *Handle[T]) Wait() T {
	<-h.done
	return h.result
}

// Cancel asks the task to stop. The task sees it through its context.
func (h *Handle[T]) Cancel() { h.cancel() }

// Go starts fn on its own goroutine. After Shutdown fn is not run and the
// handle completes immediately with onClosed's value.
func Go[T any](r *Runner, name string, fn func(ctx context.Context) T, onClosed func() T) *Handle[T] {
	ctx, cancel := context.WithCancel(r.ctx)
	h := &Handle[T]{
		id:     uuid.NewString(),
		name:   name,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		cancel()
		if onClosed != nil {
			h.result = onClosed()
		}
		close(h.done)
		return h
	}
	r.pending[h.id] = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	r.logger.Debug("TaskRunner", "task started", map[string]interface{}{
		"task_id": h.id,
		"task":    name,
	})

	go func() {
		defer r.wg.Done()
		defer r.forget(h.id)
		defer close(h.done)
		defer cancel()

		h.result = fn(ctx)

		r.logger.Debug("TaskRunner", "task finished", map[string]interface{}{
			"task_id":  h.id,
			"task":     name,
			"canceled": ctx.Err() != nil,
		})
	}()

	return h
}

// Pending reports how many tasks are still running.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Shutdown cancels outstanding tasks, refuses new ones and waits for the
// running ones to return.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	outstanding := len(r.pending)
	r.mu.Unlock()

	r.logger.Info("TaskRunner", "cancelling outstanding tasks", map[string]interface{}{
		"tasks": outstanding,
	})

	r.cancel()
	r.wg.Wait()
}

func (r *Runner) forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
}
