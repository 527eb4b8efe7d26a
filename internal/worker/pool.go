package worker

import (
	"context"
	"sync"

	"github.com/rcsinavim/arena/internal/logger"
)

// Job is a unit of background work, such as a duel expiry sweep or an
// event log cleanup.
type Job interface {
	Process(ctx context.Context) error
}

// Pool runs jobs on a fixed set of worker goroutines. A failing or
// panicking job never takes a worker down with it.
type Pool struct {
	workers  int
	jobQueue chan Job
	quit     chan struct{}
	wg       sync.WaitGroup
}

func NewPool(workers, queueSize int) *Pool {
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		quit:     make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.execute(job)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) execute(job Job) {
	ctx := context.Background()
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error(LogMsgWorkerJobPanicked, "panic", r)
		}
	}()
	if err := job.Process(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
	}
}

// Enqueue queues a job, blocking while the queue is full.
func (p *Pool) Enqueue(job Job) {
	p.jobQueue <- job
}

// Stop signals the workers to exit and waits for in-flight jobs to
// finish. Queued but unstarted jobs are dropped.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}
