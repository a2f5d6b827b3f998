// Package task provides cancellable handles for asynchronous operations and
// the ownership scopes that keep completions from firing once their owner
// has been released.
package task

import (
	"sync"
	"sync/atomic"
)

// Task is a handle to one in-flight asynchronous operation.
type Task interface {
	// Cancel stops delivery of the operation's result and abandons any
	// underlying work. It is idempotent and a no-op after completion.
	Cancel()
}

// Func adapts an ordinary function to the Task interface.
type Func func()

// Cancel calls f.
func (f Func) Cancel() {
	if f != nil {
		f()
	}
}

// Noop is a Task with nothing to cancel.
var Noop Task = Func(nil)

// Handle guards a single completion of type func(T, error).
//
// The completion runs at most once: the first Complete delivers, later calls
// and calls after Cancel are dropped. Tasks attached with Wrap are cancelled
// together with the handle.
//
// The completion runs outside the lock so it may cancel the handle itself.
// Cancel therefore does not wait for a delivery that has already started:
// Cancel is final only when it runs on the same execution context as
// Complete, which is what dispatch.Loader arranges for frontends.
type Handle[T any] struct {
	mu         sync.Mutex
	completion func(T, error)
	wrapped    []Task
	stopped    bool
}

// NewHandle returns a Handle delivering to completion.
func NewHandle[T any](completion func(T, error)) *Handle[T] {
	return &Handle[T]{completion: completion}
}

// Wrap attaches an inner task whose cancellation follows the handle's.
// If the handle has already been stopped, inner is cancelled immediately.
func (h *Handle[T]) Wrap(inner Task) {
	if inner == nil {
		return
	}
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		inner.Cancel()
		return
	}
	h.wrapped = append(h.wrapped, inner)
	h.mu.Unlock()
}

// Pending reports whether a completion can still be delivered.
func (h *Handle[T]) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.completion != nil
}

// Complete delivers the result unless the handle was cancelled or already
// completed. It reports whether the completion ran.
func (h *Handle[T]) Complete(v T, err error) bool {
	h.mu.Lock()
	completion := h.completion
	h.completion = nil
	h.wrapped = nil
	h.mu.Unlock()

	if completion == nil {
		return false
	}
	completion(v, err)
	return true
}

// Stop prevents further delivery, cancels wrapped tasks and reports whether
// a completion was still pending.
func (h *Handle[T]) Stop() bool {
	h.mu.Lock()
	pending := h.completion != nil
	h.completion = nil
	h.stopped = true
	wrapped := h.wrapped
	h.wrapped = nil
	h.mu.Unlock()

	for _, t := range wrapped {
		t.Cancel()
	}
	return pending
}

// Cancel implements Task. A completion already running on another goroutine
// is not interrupted.
func (h *Handle[T]) Cancel() {
	h.Stop()
}

// Scope marks the lifetime of an object that issues asynchronous work.
// Once released, completions guarded by the scope are dropped.
type Scope struct {
	released atomic.Bool
}

// Release ends the scope. Completions that start after Release returns never
// run.
func (s *Scope) Release() {
	s.released.Store(true)
}

// Released reports whether Release has been called.
func (s *Scope) Released() bool {
	return s.released.Load()
}

// Guard wraps completion so that it is skipped after s is released.
func Guard[T any](s *Scope, completion func(T, error)) func(T, error) {
	return func(v T, err error) {
		if s.Released() {
			return
		}
		completion(v, err)
	}
}
