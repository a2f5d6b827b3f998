package core

import "context"

// Await runs one load and blocks until it completes or ctx is done.
// On ctx cancellation the load's task is cancelled and ctx.Err() returned.
func Await[Req, Res any](ctx context.Context, l Loader[Req, Res], req Req) (Res, error) {
	type outcome struct {
		value Res
		err   error
	}

	// Buffered so a completion racing with cancellation never blocks.
	done := make(chan outcome, 1)
	t := l.Load(req, func(v Res, err error) {
		done <- outcome{value: v, err: err}
	})

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		t.Cancel()
		var zero Res
		return zero, ctx.Err()
	}
}
