package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		BundlesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_bundles_ingested_total",
			Help: "The total number of match bundles successfully ingested.",
		}),
		BundlesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_bundles_rejected_total",
			Help: "The total number of match bundles rejected by validation.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_matches_completed_total",
			Help: "The total number of matches transitioned to completed.",
		}),
		HeadToHeadUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_head_to_head_updates_total",
			Help: "The total number of head-to-head maintainer runs applied.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shuttle_bundle_ingest_duration_seconds",
			Help:    "The duration of individual bundle ingestions.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shuttle_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.BundlesIngested,
		s.BundlesRejected,
		s.MatchesCompleted,
		s.HeadToHeadUpdates,
		s.IngestDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncBundlesIngested() {
	s.BundlesIngested.Inc()
}

func (s *Service) IncBundlesRejected() {
	s.BundlesRejected.Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) IncHeadToHeadUpdates() {
	s.HeadToHeadUpdates.Inc()
}

func (s *Service) ObserveIngestDuration(duration float64) {
	s.IngestDuration.Observe(duration)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
