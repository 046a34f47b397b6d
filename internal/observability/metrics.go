package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "repforge"

var (
	programsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "planner",
		Name:      "programs_generated_total",
		Help:      "Programs generated, by split and goal.",
	}, []string{"split", "goal"})

	programsDegraded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "planner",
		Name:      "programs_degraded_total",
		Help:      "Programs generated from default state because stored state was unreadable.",
	})

	adjustmentsProposed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "autoregulation_proposals_total",
		Help:      "Auto-regulation outcomes, by adjustment type.",
	}, []string{"type"})

	painDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "pain_decisions_total",
		Help:      "Pain decision-table outcomes, by action.",
	}, []string{"action"})

	sessionsFinalized = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "finalized_total",
		Help:      "Workout sessions finalized, by status.",
	}, []string{"status"})

	useCaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "service",
		Name:      "use_case_duration_seconds",
		Help:      "Service use-case latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"use_case", "success"})
)

func init() {
	prometheus.MustRegister(
		programsGenerated,
		programsDegraded,
		adjustmentsProposed,
		painDecisions,
		sessionsFinalized,
		useCaseDuration,
	)
}

func RecordProgramGenerated(split, goal string, degraded bool) {
	programsGenerated.WithLabelValues(split, goal).Inc()
	if degraded {
		programsDegraded.Inc()
	}
}

func RecordAdjustment(adjustmentType string) {
	adjustmentsProposed.WithLabelValues(adjustmentType).Inc()
}

func RecordPainDecision(action string) {
	painDecisions.WithLabelValues(action).Inc()
}

func RecordSessionFinalized(status string) {
	sessionsFinalized.WithLabelValues(status).Inc()
}

// RecordUseCase observes one service call's latency.
func RecordUseCase(name string, d time.Duration, success bool) {
	label := "false"
	if success {
		label = "true"
	}
	useCaseDuration.WithLabelValues(name, label).Observe(d.Seconds())
}
