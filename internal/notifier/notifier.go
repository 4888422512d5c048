package notifier

import "github.com/mkrogh/courtside/internal/standings"

// ResultSummary carries the display fields of one recorded match. Team
// fields hold names, not ids.
type ResultSummary struct {
	Pool   string
	Round  int
	TeamA  string
	TeamB  string
	ScoreA int
	ScoreB int
}

// Notifier defines a high-level interface for announcing tournament events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded match results
	SendResultNotification(result ResultSummary, dryRun bool) error
	// For posting a full table to the channel
	SendStandings(table standings.Table, pool string, dryRun bool) error

	// For formatting responses for slash commands
	FormatStandingsResponse(table standings.Table, pool string) (any, error)
}
