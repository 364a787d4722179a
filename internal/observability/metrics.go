package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Turn outcomes recorded by stylist_turns_total.
const (
	OutcomeOK             = "ok"
	OutcomeNotPersisted   = "not_persisted"
	OutcomeInvalid        = "invalid"
	OutcomeNotFound       = "not_found"
	OutcomeMisconfigured  = "misconfigured"
	OutcomePersistFailed  = "persist_failed"
	OutcomeUpstreamFailed = "upstream_failed"
	OutcomeInternal       = "internal_error"
)

var (
	turns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_turns_total",
			Help: "Chat turns by outcome.",
		},
		[]string{"outcome"},
	)

	// kind is outfit or try-on; status is the imagegen status.
	imageResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylist_image_results_total",
			Help: "Image generation results by kind and status.",
		},
		[]string{"kind", "status"},
	)

	completionLat = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stylist_completion_seconds",
			Help:    "Latency of chat-completion calls in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
	)
)

func init() {
	prometheus.MustRegister(turns, imageResults, completionLat)
}

// ObserveTurn counts a finished chat turn.
func ObserveTurn(outcome string) { turns.WithLabelValues(outcome).Inc() }

// ObserveImage counts one image or try-on result.
func ObserveImage(kind, status string) { imageResults.WithLabelValues(kind, status).Inc() }

// ObserveCompletion records how long a completion call took.
func ObserveCompletion(d time.Duration) { completionLat.Observe(d.Seconds()) }
