// Package parallel runs independent jobs, such as one image file each, on a
// fixed set of worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Pool hands jobs to its workers. With a single worker, Submit runs the job
// inline and Wait returns immediately.
type Pool struct {
	wg    sync.WaitGroup
	jobs  chan func()
	close func()
}

// Start launches workers goroutines. workers < 1 means GOMAXPROCS.
func Start(workers int) *Pool {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{close: func() {}}
	if workers == 1 {
		return p
	}

	p.jobs = make(chan func(), workers)
	for range workers {
		p.wg.Go(func() {
			for f := range p.jobs {
				f()
			}
		})
	}
	p.close = sync.OnceFunc(func() { close(p.jobs) })
	return p
}

// Submit queues f, blocking while every worker is busy and the queue is full.
// Submit must not be called after Wait.
func (p *Pool) Submit(f func()) {
	if p.jobs == nil {
		f()
		return
	}
	p.jobs <- f
}

// Wait stops accepting jobs and blocks until every submitted job has run.
func (p *Pool) Wait() {
	p.close()
	p.wg.Wait()
}
