package recorder

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/notifier"
	"github.com/mkrogh/courtside/internal/pubsub"
	"github.com/mkrogh/courtside/internal/standings"
	"github.com/mkrogh/courtside/internal/tournament"
)

// New creates a new Recorder.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Recorder {
	return &Recorder{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
	}
}

// RecordMatch validates and persists one match result, then announces
// it. Validation failures surface the standings error types, so callers
// can tell a malformed match from an unknown team. Nothing is persisted
// on error.
func (r *Recorder) RecordMatch(match *tournament.MatchRecord, dryRun bool) error {
	startTime := time.Now()

	teamA, teamB, err := r.resolveTeams(match)
	if err != nil {
		return err
	}

	// Pools are separate ranking scopes. A match spanning two pools would
	// belong to neither standings table, so it never enters the log.
	if teamA.Pool != teamB.Pool {
		return &standings.ValidationError{
			Reason: fmt.Sprintf("teams are in different pools (%s vs %s)", teamA.Pool, teamB.Pool),
			Match: standings.MatchResult{
				TeamA:  standings.TeamID(match.TeamA),
				TeamB:  standings.TeamID(match.TeamB),
				ScoreA: match.ScoreA,
				ScoreB: match.ScoreB,
			},
		}
	}

	if err := standings.Validate(standings.MatchResult{
		TeamA:  standings.TeamID(match.TeamA),
		TeamB:  standings.TeamID(match.TeamB),
		ScoreA: match.ScoreA,
		ScoreB: match.ScoreB,
	}); err != nil {
		return err
	}

	if match.Pool == "" {
		match.Pool = teamA.Pool
	}

	if dryRun {
		log.Info("[Dry Run] Would record match", "teamA", teamA.Name, "teamB", teamB.Name, "scoreA", match.ScoreA, "scoreB", match.ScoreB)
		return nil
	}

	if err := r.store.AddMatch(match); err != nil {
		return fmt.Errorf("failed to record match: %w", err)
	}
	r.metrics.IncMatchesRecorded()

	if err := r.pubsub.SendMessage(pubsub.EventMatchRecorded, match); err != nil {
		log.Error("Failed to publish match-recorded event", "error", err, "matchID", match.ID)
	}

	summary := notifier.ResultSummary{
		Pool:   match.Pool,
		Round:  match.Round,
		TeamA:  teamA.Name,
		TeamB:  teamB.Name,
		ScoreA: match.ScoreA,
		ScoreB: match.ScoreB,
	}
	if err := r.notifier.SendResultNotification(summary, dryRun); err != nil {
		log.Error("Failed to send result notification", "error", err, "matchID", match.ID)
	}

	r.metrics.ObserveRecordDuration(time.Since(startTime).Seconds())
	log.Info("Match recorded", "matchID", match.ID, "pool", match.Pool)
	return nil
}

// resolveTeams looks both teams up in the roster, rejecting unknown ids
// before anything is written.
func (r *Recorder) resolveTeams(match *tournament.MatchRecord) (*tournament.TeamInfo, *tournament.TeamInfo, error) {
	if !r.store.IsKnownTeam(match.TeamA) {
		return nil, nil, &standings.ReferenceError{Team: standings.TeamID(match.TeamA)}
	}
	if !r.store.IsKnownTeam(match.TeamB) {
		return nil, nil, &standings.ReferenceError{Team: standings.TeamID(match.TeamB)}
	}

	teamA, err := r.store.GetTeam(match.TeamA)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load team %q: %w", match.TeamA, err)
	}
	teamB, err := r.store.GetTeam(match.TeamB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load team %q: %w", match.TeamB, err)
	}
	return teamA, teamB, nil
}
