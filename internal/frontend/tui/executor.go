// Package tui is the terminal movie browser built on Bubble Tea.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vadimtrunov/showtime/internal/dispatch"
)

// workMsg carries queued closures into Update.
type workMsg []func()

// Executor runs loader completions inside the Bubble Tea event loop.
// Execute queues a closure; the command returned by Wait delivers the queue
// to Update as a message, where the closures run.
type Executor struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

var _ dispatch.Executor = (*Executor)(nil)

// NewExecutor creates an empty executor.
func NewExecutor() *Executor {
	return &Executor{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Execute queues fn. Closures queued after Close are dropped.
func (e *Executor) Execute(fn func()) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.pending = append(e.pending, fn)
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Wait returns a command that blocks until work is queued. Only one Wait
// command should be outstanding; Update issues the next one after running
// the batch it received.
func (e *Executor) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-e.wake:
		case <-e.done:
			return nil
		}
		return workMsg(e.drain())
	}
}

// Close stops delivery and unblocks a waiting command.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.pending = nil
	close(e.done)
}

func (e *Executor) drain() []func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	fns := e.pending
	e.pending = nil
	return fns
}
