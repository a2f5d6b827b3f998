package httpclient

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/vadimtrunov/showtime/internal/task"
)

// RateLimited holds requests back until the limiter grants a token.
// A request cancelled while waiting is never issued.
type RateLimited struct {
	client  Client
	limiter *rate.Limiter
}

var _ Client = (*RateLimited)(nil)

// NewRateLimited wraps client with limiter. A nil limiter disables limiting.
func NewRateLimited(client Client, limiter *rate.Limiter) *RateLimited {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &RateLimited{client: client, limiter: limiter}
}

// Do delegates immediately when a token is available, otherwise waits on a
// separate goroutine.
func (r *RateLimited) Do(req *http.Request, completion func(Response, error)) task.Task {
	if r.limiter.Allow() {
		return r.client.Do(req, completion)
	}

	h := task.NewHandle(completion)
	ctx, cancel := context.WithCancel(req.Context())
	h.Wrap(task.Func(cancel))

	go func() {
		err := r.limiter.Wait(ctx)
		cancel()
		if err != nil {
			h.Complete(Response{}, fmt.Errorf("%w: rate limit wait: %w", ErrTransport, err))
			return
		}
		if !h.Pending() {
			return
		}
		h.Wrap(r.client.Do(req, func(resp Response, err error) {
			h.Complete(resp, err)
		}))
	}()
	return h
}
