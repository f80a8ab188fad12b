// Package worker runs CPU-bound work on a fixed set of goroutines, apart from
// the goroutines serving network I/O.
package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolClosed is returned by Do after Close.
var ErrPoolClosed = errors.New("worker pool is closed")

type job struct {
	fn    func()
	done  chan struct{}
	panic any
}

// Pool is a fixed-size set of worker goroutines.
type Pool struct {
	jobs chan *job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool starts size workers. A non-positive size uses GOMAXPROCS.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	p := &Pool{jobs: make(chan *job)}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for j := range p.jobs {
		j.run()
	}
}

func (j *job) run() {
	defer close(j.done)
	defer func() {
		j.panic = recover()
	}()
	j.fn()
}

// Do runs fn on a worker and waits for it to return.
//
// If ctx ends while every worker is busy, fn is never started and Do returns
// ctx.Err(). Once a worker has picked fn up it runs to completion. A panic
// in fn is re-raised on the calling goroutine.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	j := &job{fn: fn, done: make(chan struct{})}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	select {
	case p.jobs <- j:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}

	<-j.done
	if j.panic != nil {
		panic(j.panic)
	}
	return nil
}

// Close stops accepting work and waits for running jobs to finish.
// It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}
