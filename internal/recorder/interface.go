package recorder

import (
	"github.com/mkrogh/courtside/internal/notifier"
	"github.com/mkrogh/courtside/internal/tournament"
)

// Store defines the database operations required by the recorder.
type Store interface {
	GetTeam(teamID string) (*tournament.TeamInfo, error)
	IsKnownTeam(teamID string) bool
	AddMatch(match *tournament.MatchRecord) error
}

// Notifier defines the notification operations required by the recorder.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
