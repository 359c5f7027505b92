// Package workers provides the explicit offload boundary for CPU-heavy
// decode and inference work, so concurrent requests cannot stall each other
// by spawning unbounded blocking work.
package workers

import "context"

// Pool is a channel-semaphore bounded executor. The zero value is not
// usable; construct with NewPool.
type Pool struct {
	sem chan struct{}
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Do runs fn once a slot is available. It returns the context error if the
// caller gives up before a slot frees.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.sem }()
	return fn()
}
