package device

import (
	"context"
	"time"

	"github.com/concave-dev/anxiety/internal/iosched"
)

// Completion tracks one submitted request until the backend finishes it.
type Completion struct {
	req       *iosched.Request
	done      chan struct{}
	err       error
	merged    bool
	completed time.Time
}

func newCompletion(req *iosched.Request) *Completion {
	return &Completion{req: req, done: make(chan struct{})}
}

// Request returns the submitted request. For reads its Data holds the
// result once Done is closed.
func (c *Completion) Request() *iosched.Request {
	return c.req
}

// Done is closed when the request has completed.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Err returns the completion error. Only valid after Done is closed.
func (c *Completion) Err() error {
	return c.err
}

// Merged reports whether the request was serviced as part of another one.
func (c *Completion) Merged() bool {
	return c.merged
}

// Latency is the time from submission to completion.
func (c *Completion) Latency() time.Duration {
	if c.completed.IsZero() {
		return 0
	}
	return c.completed.Sub(c.req.Submitted)
}

// Wait blocks until the request completes or ctx ends. A canceled wait does
// not cancel the request.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Completion) finish(err error) {
	c.err = err
	c.completed = time.Now()
	close(c.done)
}
