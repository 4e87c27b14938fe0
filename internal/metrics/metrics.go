package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "announcer_snapshots_received_total",
		Help: "Total number of game state snapshots received.",
	})

	SnapshotsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "announcer_snapshots_skipped_total",
		Help: "Snapshots not evaluated, labelled by reason.",
	}, []string{"reason"})

	RulesFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "announcer_rules_fired_total",
		Help: "Total number of rule firings, labelled by rule.",
	}, []string{"rule"})

	NotificationsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "announcer_notifications_dropped_total",
		Help: "Notifications that could not be turned into audio, labelled by reason.",
	}, []string{"reason"})

	AudioCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "announcer_audio_commands_total",
		Help: "Audio commands handled by the audio worker, labelled by kind and status.",
	}, []string{"kind", "status"})

	AudioQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "announcer_audio_queue_depth",
		Help: "Audio commands waiting for the audio worker.",
	})

	EvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "announcer_evaluation_duration_ms",
		Help:    "Snapshot evaluation latency in milliseconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
)
