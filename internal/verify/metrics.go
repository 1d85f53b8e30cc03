package verify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beamforge",
		Subsystem: "verify",
		Name:      "submissions_total",
		Help:      "Submissions processed, by verdict",
	}, []string{"verdict"})

	verifyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "beamforge",
		Subsystem: "verify",
		Name:      "grade_duration_seconds",
		Help:      "Time spent re-grading a submitted board",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	verifyTicks = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "beamforge",
		Subsystem: "verify",
		Name:      "grade_ticks",
		Help:      "Simulation ticks needed to reach a verdict",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
)

// Verdict labels.
const (
	verdictAccepted     = "accepted"
	verdictUnsolved     = "unsolved"
	verdictBadSignature = "bad_signature"
	verdictInvalid      = "invalid"
)
