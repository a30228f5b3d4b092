package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameHTTPRequestsTotal,
			Help:      HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      MetricNameHTTPRequestDuration,
			Help:      HelpTextHTTPRequestDuration,
			Buckets:   HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      MetricNameHTTPRequestsInFlight,
			Help:      HelpTextHTTPRequestsInFlight,
		},
	)
)

// Ledger Metrics
var (
	ScoresSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameScoresSubmitted,
			Help:      HelpTextScoresSubmitted,
		},
		[]string{LabelGame, LabelAction},
	)

	ScoreRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameScoreRejections,
			Help:      HelpTextScoreRejections,
		},
		[]string{LabelReason},
	)

	ScoreConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameScoreConflicts,
			Help:      HelpTextScoreConflicts,
		},
	)

	PersistenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      MetricNamePersistenceDuration,
			Help:      HelpTextPersistenceDuration,
			Buckets:   PersistenceLatencyBuckets,
		},
		[]string{LabelOperation},
	)

	AuditEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameAuditEntries,
			Help:      HelpTextAuditEntries,
		},
		[]string{LabelAction},
	)

	ConfigMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameConfigMutations,
			Help:      HelpTextConfigMutations,
		},
		[]string{LabelOperation},
	)

	TierParticipants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      MetricNameTierParticipants,
			Help:      HelpTextTierParticipants,
		},
		[]string{LabelTier},
	)

	LeaderboardCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameLeaderboardCache,
			Help:      HelpTextLeaderboardCache,
		},
		[]string{LabelResult},
	)
)

// ReasonFor maps an error onto the rejection reason label.
func ReasonFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return ReasonValidation
	case errors.Is(err, domain.ErrUnauthorized):
		return ReasonUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, domain.ErrConflict):
		return ReasonConflict
	case errors.Is(err, domain.ErrPersistenceTimeout):
		return ReasonTimeout
	case errors.Is(err, domain.ErrPersistence):
		return ReasonPersistence
	default:
		return ReasonOther
	}
}
