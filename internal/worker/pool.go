// Package worker bounds how many slow jobs run at once.
package worker

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Pool admits at most Size concurrent jobs. Callers block in Do until a
// slot frees up or their context is done.
type Pool struct {
	sem    *semaphore.Weighted
	size   int
	active atomic.Int64
}

// New creates a pool of size slots. size <= 0 uses GOMAXPROCS.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

// Size returns the number of slots.
func (p *Pool) Size() int { return p.size }

// Active returns the number of jobs currently running.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Do runs fn once a slot is free. It returns ctx's error without running fn
// if ctx is done first.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	p.active.Add(1)
	defer p.active.Add(-1)
	return fn(ctx)
}
