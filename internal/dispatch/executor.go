// Package dispatch moves loader completions onto a caller-chosen execution
// context, such as a UI event loop or a per-chat worker.
package dispatch

import (
	"fmt"
	"log/slog"
	"sync"
)

// Executor runs functions on a single logical execution context.
// Functions submitted from one goroutine run in submission order.
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(fn func())

// Execute calls f.
func (f ExecutorFunc) Execute(fn func()) { f(fn) }

// Inline runs every function immediately on the calling goroutine.
var Inline Executor = ExecutorFunc(func(fn func()) { fn() })

// Queue is a serial executor backed by one worker goroutine.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
	logger  *slog.Logger
}

var _ Executor = (*Queue)(nil)

// NewQueue starts a queue worker. Call Close to stop it.
func NewQueue(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
	go q.run()
	return q
}

// Execute enqueues fn. Functions submitted after Close are dropped.
func (q *Queue) Execute(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Close stops accepting work, runs what is already queued and waits for the
// worker to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)
	for range q.wake {
		for {
			q.mu.Lock()
			if len(q.pending) == 0 {
				closed := q.closed
				q.mu.Unlock()
				if closed {
					return
				}
				break
			}
			fn := q.pending[0]
			q.pending[0] = nil
			q.pending = q.pending[1:]
			q.mu.Unlock()

			q.runSafe(fn)
		}
	}
}

func (q *Queue) runSafe(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("dispatched function panicked", slog.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}
