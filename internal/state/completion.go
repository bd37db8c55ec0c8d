package state

import (
	"context"
	"sync"
)

// Completion reports the outcome of a background persistence write.
type Completion struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Completed returns a completion that is already done with err.
func Completed(err error) *Completion {
	c := newCompletion()
	c.finish(err)
	return c
}

func (c *Completion) finish(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Done is closed when the write has finished.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Err returns the write's error. It is only meaningful after Done is closed.
func (c *Completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the write finishes or ctx ends.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
