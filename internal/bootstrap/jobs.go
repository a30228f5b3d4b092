package bootstrap

import (
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/leaderboard"
	"github.com/osse101/ScoreLedger_Go/internal/scheduler"
	"github.com/osse101/ScoreLedger_Go/internal/worker"
)

// BackgroundJobs owns the worker pool and its scheduler.
type BackgroundJobs struct {
	pool      *worker.Pool
	scheduler *scheduler.Scheduler
}

// StartBackgroundJobs publishes tier gauges once now and then every interval.
func StartBackgroundJobs(board leaderboard.Service, interval time.Duration) *BackgroundJobs {
	pool := worker.NewPool(JobWorkers, JobQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	job := leaderboard.NewTierMetricsJob(board)
	sched.RunNow(job)
	sched.Schedule(interval, job)

	return &BackgroundJobs{pool: pool, scheduler: sched}
}

// Stop halts the scheduler, then drains the workers.
func (b *BackgroundJobs) Stop() {
	b.scheduler.Stop()
	b.pool.Stop()
}
