package http

import (
	"net/http"

	"github.com/mauv0809/shuttle-stats/internal/analyzer"
	"github.com/mauv0809/shuttle-stats/internal/config"
	"github.com/mauv0809/shuttle-stats/internal/metrics"
	"github.com/mauv0809/shuttle-stats/internal/report"
	"github.com/mauv0809/shuttle-stats/internal/store"
)

type Server struct {
	Store          store.MatchStore
	Analyzer       *analyzer.Analyzer
	Composer       *report.Composer
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
