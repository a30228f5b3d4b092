package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/worker"
)

// LogMsgJobSkipped is logged when a tick finds the worker queue full.
const LogMsgJobSkipped = "Scheduled job skipped, worker queue full"

// Scheduler manages scheduled jobs
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	wg         sync.WaitGroup
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. A tick that finds the
// queue full is dropped rather than stacked behind the previous run.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.workerPool.TryEnqueue(job) {
					slog.Warn(LogMsgJobSkipped, "interval", interval)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// RunNow enqueues job once without waiting for a tick.
func (s *Scheduler) RunNow(job worker.Job) {
	s.workerPool.Enqueue(job)
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}
