package lint

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// Executor runs submitted tasks, possibly concurrently.
// An Executor passed to the analyzer is owned by the caller and never shut down by it.
type Executor interface {
	Submit(task func())
}

// WorkerPool is a bounded Executor backed by an errgroup.
// It can serve several runs; Close waits for submitted tasks.
type WorkerPool struct {
	g    errgroup.Group
	once sync.Once
}

// NewWorkerPool creates a pool running at most workers tasks at a time.
func NewWorkerPool(workers int) *WorkerPool {
	p := &WorkerPool{}
	if workers > 0 {
		p.g.SetLimit(workers)
	}
	return p
}

// Submit schedules task, blocking while the pool is at its limit.
func (p *WorkerPool) Submit(task func()) {
	p.g.Go(func() error {
		task()
		return nil
	})
}

// Close waits for all submitted tasks. Only the first call waits.
func (p *WorkerPool) Close() {
	p.once.Do(func() {
		_ = p.g.Wait()
	})
}
