package dispatch

import (
	"github.com/vadimtrunov/showtime/internal/core"
	"github.com/vadimtrunov/showtime/internal/task"
)

// Loader delivers the completions of an inner loader through an Executor.
//
// Delivery stays exactly-once. Cancelling the returned task cancels the
// inner load, and a completion already scheduled on the executor is dropped
// when it runs.
type Loader[Req, Res any] struct {
	inner core.Loader[Req, Res]
	exec  Executor
}

// NewLoader wraps inner so its completions run on exec.
func NewLoader[Req, Res any](inner core.Loader[Req, Res], exec Executor) *Loader[Req, Res] {
	if exec == nil {
		exec = Inline
	}
	return &Loader[Req, Res]{inner: inner, exec: exec}
}

// Load implements core.Loader.
func (l *Loader[Req, Res]) Load(req Req, completion func(Res, error)) task.Task {
	h := task.NewHandle(completion)
	h.Wrap(l.inner.Load(req, func(v Res, err error) {
		if !h.Pending() {
			return
		}
		l.exec.Execute(func() {
			h.Complete(v, err)
		})
	}))
	return h
}
