package pipeline

import (
	"context"
	"sync"

	"terragen/internal/config"
)

// Job is one seed of a batch.
type Job struct {
	Seed   int64
	Config config.Config
	// Result channel - will be sent the result when done
	ResultChan chan JobResult
}

type JobResult struct {
	Seed   int64
	Result Result
	Err    error
}

// RunFunc does the work for a single job.
type RunFunc func(ctx context.Context, job Job) JobResult

// WorkerPool runs generation jobs on a fixed set of goroutines.
type WorkerPool struct {
	jobQueue  chan Job
	workers   int
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
	run       RunFunc
}

// NewWorkerPool starts workers goroutines. Cancelling parent stops them.
func NewWorkerPool(parent context.Context, workers, queueSize int, run RunFunc) *WorkerPool {
	ctx, cancel := context.WithCancel(parent)
	pool := &WorkerPool{
		jobQueue: make(chan Job, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
		run:      run,
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}
	return pool
}

// SubmitJob queues a job without blocking. It reports false when the queue
// is full.
func (p *WorkerPool) SubmitJob(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// SubmitJobBlocking waits for queue space. It reports false if the pool was
// cancelled first.
func (p *WorkerPool) SubmitJobBlocking(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := p.run(p.ctx, job)
			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops accepting jobs, lets queued ones finish and waits for the
// workers. No Submit call may run concurrently with or after Shutdown.
func (p *WorkerPool) Shutdown() {
	p.closeOnce.Do(func() { close(p.jobQueue) })
	p.wg.Wait()
	p.cancel()
}

// Stop cancels in-flight work and waits for the workers.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.Shutdown()
}

func (p *WorkerPool) QueueLength() int {
	return len(p.jobQueue)
}
