package leaderboard

import (
	"context"
	"time"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
	"github.com/osse101/ScoreLedger_Go/internal/metrics"
)

// TierMetricsJob publishes the per-tier participant counts as gauges.
type TierMetricsJob struct {
	service Service
}

// NewTierMetricsJob creates a new tier metrics job
func NewTierMetricsJob(service Service) *TierMetricsJob {
	return &TierMetricsJob{service: service}
}

// Process executes the job
func (j *TierMetricsJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgTierMetricsStarting)

	start := time.Now()
	stats, err := j.service.Statistics(ctx)
	duration := time.Since(start)

	if err != nil {
		log.Error(LogMsgTierMetricsFailed, "error", err, "duration", duration)
		return err
	}

	for _, tier := range domain.Tiers {
		metrics.TierParticipants.WithLabelValues(string(tier)).Set(float64(stats.TierCounts[tier]))
	}
	log.Debug(LogMsgTierMetricsCompleted, "participants", stats.TotalParticipants, "duration", duration)
	return nil
}
