package http

import (
	"net/http"

	"github.com/mkrogh/courtside/internal/config"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/notifier"
	"github.com/mkrogh/courtside/internal/pubsub"
	"github.com/mkrogh/courtside/internal/recorder"
	"github.com/mkrogh/courtside/internal/schedule"
	"github.com/mkrogh/courtside/internal/tournament"
)

func NewServer(store tournament.TournamentStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, counters metrics.MetricsStore, cfg config.Config, notifier notifier.Notifier, recorder *recorder.Recorder, schedule schedule.ScheduleService, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Cfg:            cfg,
		Notifier:       notifier,
		Recorder:       recorder,
		Schedule:       schedule,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/teams", Chain(s.TeamsHandler(), paramsMiddleware))
	s.Router.Handle("/teams/import", Chain(s.ImportRosterHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.MatchesHandler(), paramsMiddleware))
	s.Router.Handle("/standings", Chain(s.StandingsHandler(), paramsMiddleware))
	s.Router.Handle("/schedule", Chain(s.GenerateScheduleHandler(), paramsMiddleware))
	s.Router.Handle("/fixtures", Chain(s.ListFixturesHandler(), paramsMiddleware))
	s.Router.Handle("/stats", Chain(s.CountersHandler(), paramsMiddleware))
	s.Router.Handle("/notify-standings", Chain(s.NotifyStandingsHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/standings", Chain(s.StandingsCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
