// Package parallel provides the batch fan-out used by the clustering
// pipeline: a fixed-size worker pool and a contiguous index-range splitter.
// All usage is submit-everything-then-wait; there is no steady-state task
// stream to manage.
package parallel

import "sync"

// Pool runs tasks on a fixed set of goroutines. A panicking task does not
// kill its worker; the first panic value is captured and re-raised from
// Wait so the failure surfaces at the call site rather than in a log line,
// and no output slot is left silently unwritten.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	panicOnce sync.Once
	panicked  any
}

// NewPool starts a pool of the given size. Non-positive sizes run a single
// worker.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	p := &Pool{tasks: make(chan func(), workers*2)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.panicOnce.Do(func() { p.panicked = r })
		}
	}()
	task()
}

// Submit queues a task. Blocks when the queue is full until a worker
// drains it. Must not be called after Wait.
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Wait closes the queue, runs every queued task to completion, and
// re-raises the first task panic, if any. The pool is done afterwards.
func (p *Pool) Wait() {
	close(p.tasks)
	p.wg.Wait()
	if p.panicked != nil {
		panic(p.panicked)
	}
}
