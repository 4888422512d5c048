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

type Server struct {
	Store          tournament.TournamentStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	Cfg            config.Config
	Notifier       notifier.Notifier
	Recorder       *recorder.Recorder
	Schedule       schedule.ScheduleService
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
