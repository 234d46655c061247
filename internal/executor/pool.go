package executor

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Pool is a bounded worker pool. It generalizes the teacher's
// goroutine-per-job fan-out (node/jobs.go's `go jm.processJob(ctx, job)`)
// into a fixed number of long-lived workers so submission volume cannot
// spawn unbounded goroutines against a slow RPC endpoint.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
}

// NewPool starts size worker goroutines draining a task queue of the
// given capacity. Submissions beyond capacity block the caller (the
// Executor's consumer loop), which is the deliberate backpressure point
// spec.md §5 describes as "the Executor blocks on ... spawning into its
// task pool."
func NewPool(size, queueCapacity int) *Pool {
	if size <= 0 {
		size = 1
	}
	if queueCapacity <= 0 {
		queueCapacity = size * 4
	}

	p := &Pool{tasks: make(chan func(), queueCapacity)}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		runTask(task)
	}
}

func runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("executor: task pool recovered from panicking submission")
		}
	}()
	task()
}

// Submit enqueues task for execution by some worker. Submissions may
// complete out of order — deliberate, since on-chain ordering is governed
// by nonce, not executor issue order (spec.md §5).
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Close stops accepting new tasks and waits for in-flight tasks to drain.
func (p *Pool) Close() {
	close(p.tasks)
	p.wg.Wait()
}
