package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Submissions tracks submitted comments by their initial state
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comment_submissions_total",
			Help: "Total number of submitted comments by initial state",
		},
		[]string{"outcome"},
	)

	// ProviderRequests tracks moderation provider calls by result
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_provider_requests_total",
			Help: "Total number of moderation provider calls by result",
		},
		[]string{"result"},
	)

	// OperatorActions tracks dashboard actions by action and result
	OperatorActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comment_operator_actions_total",
			Help: "Total number of operator actions by action and result",
		},
		[]string{"action", "result"},
	)

	// AutoApprovals tracks automatic approvals by trigger (verdict or age)
	AutoApprovals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comment_auto_approvals_total",
			Help: "Total number of automatic approvals by trigger",
		},
		[]string{"trigger"},
	)

	// SweepDuration tracks the latency of time-based approval sweeps
	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "comment_sweep_duration_seconds",
			Help:    "Duration of time-based approval sweeps",
			Buckets: prometheus.DefBuckets,
		},
	)
)
