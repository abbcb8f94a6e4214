package http

import (
	"net/http"

	"github.com/mauv0809/shuttle-stats/internal/analyzer"
	"github.com/mauv0809/shuttle-stats/internal/config"
	"github.com/mauv0809/shuttle-stats/internal/metrics"
	"github.com/mauv0809/shuttle-stats/internal/report"
	"github.com/mauv0809/shuttle-stats/internal/store"
)

func NewServer(matchStore store.MatchStore, an *analyzer.Analyzer, composer *report.Composer, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          matchStore,
		Analyzer:       an,
		Composer:       composer,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/players", Chain(s.PlayersHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/tournaments", Chain(s.TournamentsHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/ingest", Chain(s.IngestHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/complete-match", Chain(s.CompleteMatchHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/player/rankings", Chain(s.RankingsHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/player/profile", Chain(s.PlayerProfileHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/player/summary", Chain(s.PlayerSummaryHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/player/shots", Chain(s.PlayerShotsHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/player/rallies", Chain(s.PlayerRalliesHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/player/recent", Chain(s.PlayerRecentHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/player/tiers", Chain(s.PlayerTiersHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/player/trends", Chain(s.PlayerTrendsHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/head-to-head", Chain(s.HeadToHeadHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/top-performers", Chain(s.TopPerformersHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/compare", Chain(s.CompareHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/match/insights", Chain(s.MatchInsightsHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/tournament/performance", Chain(s.TournamentPerformanceHandler(), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("/scouting-report", Chain(s.ScoutingReportHandler(), requestIDMiddleware, paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
