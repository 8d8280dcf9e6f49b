package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	VotersRegistered   prometheus.Counter
	VotersDeregistered prometheus.Counter
	ElectionsCreated   prometheus.Counter
	VotesCast          prometheus.Counter
	VotesRejected      prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		VotersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "univote_voters_registered_total",
			Help: "Total number of voters registered",
		}),
		VotersDeregistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "univote_voters_deregistered_total",
			Help: "Total number of voters deregistered, cohort members counted individually",
		}),
		ElectionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "univote_elections_created_total",
			Help: "Total number of elections created",
		}),
		VotesCast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "univote_votes_cast_total",
			Help: "Total number of votes committed to an election document",
		}),
		VotesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "univote_votes_rejected_total",
			Help: "Total number of vote attempts rejected by the double-vote invariant",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "univote_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}
