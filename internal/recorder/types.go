package recorder

import (
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/pubsub"
)

// Recorder handles the business logic of taking in match results.
type Recorder struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
}
