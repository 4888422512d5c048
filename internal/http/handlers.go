package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtside/internal/pubsub"
	"github.com/mkrogh/courtside/internal/standings"
	"github.com/mkrogh/courtside/internal/tournament"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			s.Store.ClearMatch(matchID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
			log.Info("Successfully cleared match from store", "matchID", matchID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}

// TeamsHandler lists the roster on GET and registers a single team on POST.
func (s *Server) TeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.addTeam(w, r)
		default:
			s.listTeams(w, r)
		}
	}
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	pool := r.URL.Query().Get("pool")
	var teams []tournament.TeamInfo
	var err error
	if pool != "" {
		teams, err = s.Store.GetTeamsByPool(pool)
	} else {
		teams, err = s.Store.GetAllTeams()
	}
	if err != nil {
		http.Error(w, "Failed to get teams", http.StatusInternalServerError)
		log.Error("Failed to get teams from store", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(teams); err != nil {
		log.Error("Failed to encode teams to JSON", "error", err)
	}
}

func (s *Server) addTeam(w http.ResponseWriter, r *http.Request) {
	var team tournament.TeamInfo
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		log.Error("Failed to decode team payload", "error", err)
		return
	}
	if team.Name == "" {
		http.Error(w, "Team name is required", http.StatusBadRequest)
		return
	}

	if isDryRunFromContext(r) {
		log.Info("[Dry Run] Would register team", "name", team.Name, "pool", team.Pool)
		w.WriteHeader(http.StatusOK)
		return
	}

	saved, err := s.Store.AddTeam(team)
	if err != nil {
		http.Error(w, "Failed to save team", http.StatusInternalServerError)
		log.Error("Failed to save team", "name", team.Name, "error", err)
		return
	}
	log.Info("Registered team", "id", saved.ID, "name", saved.Name, "pool", saved.Pool)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(saved); err != nil {
		log.Error("Failed to encode team to JSON", "error", err)
	}
}

// ImportRosterHandler ingests a roster CSV posted as the request body.
func (s *Server) ImportRosterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		teams, err := tournament.ParseRosterCSV(r.Body)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid roster CSV: %v", err), http.StatusBadRequest)
			log.Error("Failed to parse roster CSV", "error", err)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would import roster", "teams", len(teams))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Would import %d teams.", len(teams))
			return
		}

		if err := s.Store.UpsertTeams(teams); err != nil {
			http.Error(w, "Failed to save roster", http.StatusInternalServerError)
			log.Error("Failed to upsert roster", "error", err)
			return
		}
		s.Metrics.IncRosterImports()
		s.Counters.Increment("roster_imports")

		if err := s.pubsub.SendMessage(pubsub.EventRosterImported, teams); err != nil {
			log.Error("Failed to publish roster imported event", "error", err)
		}

		log.Info("Roster imported", "teams", len(teams))
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Imported %d teams.", len(teams))
	}
}

// MatchesHandler lists recorded matches on GET and records one on POST.
func (s *Server) MatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.recordMatch(w, r)
		default:
			s.listMatches(w, r)
		}
	}
}

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	pool := r.URL.Query().Get("pool")
	var matches []*tournament.MatchRecord
	var err error
	if pool != "" {
		matches, err = s.Store.GetMatchesByPool(pool)
	} else {
		matches, err = s.Store.GetAllMatches()
	}
	if err != nil {
		http.Error(w, "Failed to get matches", http.StatusInternalServerError)
		log.Error("Failed to get matches from store", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(matches); err != nil {
		log.Error("Failed to encode matches to JSON", "error", err)
	}
}

func (s *Server) recordMatch(w http.ResponseWriter, r *http.Request) {
	var match tournament.MatchRecord
	if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		log.Error("Failed to decode match payload", "error", err)
		return
	}

	// Teams may be submitted by name instead of id.
	if err := s.resolveTeamRef(&match.TeamA); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.resolveTeamRef(&match.TeamB); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	isDryRun := isDryRunFromContext(r)
	if err := s.Recorder.RecordMatch(&match, isDryRun); err != nil {
		var valErr *standings.ValidationError
		var refErr *standings.ReferenceError
		switch {
		case errors.As(err, &valErr):
			http.Error(w, valErr.Error(), http.StatusUnprocessableEntity)
		case errors.As(err, &refErr):
			http.Error(w, refErr.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to record match", http.StatusInternalServerError)
			log.Error("Failed to record match", "error", err)
		}
		return
	}
	if !isDryRun {
		s.Counters.Increment("matches_recorded")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(match); err != nil {
		log.Error("Failed to encode match to JSON", "error", err)
	}
}

// resolveTeamRef accepts either a team id or a team name and rewrites the
// reference to the canonical id. Unknown references are left to the
// recorder, which rejects them with a typed error.
func (s *Server) resolveTeamRef(ref *string) error {
	if *ref == "" {
		return fmt.Errorf("team reference is required")
	}
	if s.Store.IsKnownTeam(*ref) {
		return nil
	}
	team, err := s.Store.GetTeamByName(*ref)
	if err != nil {
		// Not a name either; keep the raw value for the recorder to reject.
		return nil
	}
	*ref = team.ID
	return nil
}

// StandingsHandler computes the current table, optionally scoped to a pool.
func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pool := r.URL.Query().Get("pool")
		table, err := s.computeStandings(pool)
		if err != nil {
			var valErr *standings.ValidationError
			var refErr *standings.ReferenceError
			switch {
			case errors.As(err, &valErr):
				http.Error(w, valErr.Error(), http.StatusUnprocessableEntity)
			case errors.As(err, &refErr):
				http.Error(w, refErr.Error(), http.StatusConflict)
			default:
				http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
				log.Error("Failed to compute standings", "pool", pool, "error", err)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(table); err != nil {
			log.Error("Failed to encode standings to JSON", "error", err)
		}
	}
}

// computeStandings loads the roster and match log for a pool (or the whole
// tournament when pool is empty) and runs the calculator over them.
func (s *Server) computeStandings(pool string) (standings.Table, error) {
	var teams []tournament.TeamInfo
	var matches []*tournament.MatchRecord
	var err error

	if pool != "" {
		teams, err = s.Store.GetTeamsByPool(pool)
	} else {
		teams, err = s.Store.GetAllTeams()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}

	if pool != "" {
		matches, err = s.Store.GetMatchesByPool(pool)
	} else {
		matches, err = s.Store.GetAllMatches()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	results, ids := tournament.ToStandingsInput(teams, matches)
	table, err := standings.Compute(results, ids)
	if err != nil {
		return nil, err
	}
	s.Metrics.IncStandingsComputed()
	return table, nil
}

// GenerateScheduleHandler builds a fresh round-robin fixture list for a pool.
func (s *Server) GenerateScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		pool := r.URL.Query().Get("pool")
		if pool == "" {
			pool = "A"
		}

		teams, err := s.Store.GetTeamsByPool(pool)
		if err != nil {
			http.Error(w, "Failed to get teams", http.StatusInternalServerError)
			log.Error("Failed to get teams for schedule", "pool", pool, "error", err)
			return
		}

		teamIDs := make([]string, 0, len(teams))
		for _, t := range teams {
			teamIDs = append(teamIDs, t.ID)
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would generate schedule", "pool", pool, "teams", len(teamIDs))
			w.WriteHeader(http.StatusOK)
			return
		}

		fixtures, err := s.Schedule.GenerateForPool(pool, teamIDs)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to generate schedule: %v", err), http.StatusBadRequest)
			log.Error("Failed to generate schedule", "pool", pool, "error", err)
			return
		}
		log.Info("Generated schedule", "pool", pool, "fixtures", len(fixtures))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(fixtures); err != nil {
			log.Error("Failed to encode fixtures to JSON", "error", err)
		}
	}
}

func (s *Server) ListFixturesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pool := r.URL.Query().Get("pool")
		var out any
		var err error
		if pool != "" {
			out, err = s.Schedule.GetFixturesByPool(pool)
		} else {
			out, err = s.Schedule.GetFixtures()
		}
		if err != nil {
			http.Error(w, "Failed to get fixtures", http.StatusInternalServerError)
			log.Error("Failed to get fixtures", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Error("Failed to encode fixtures to JSON", "error", err)
		}
	}
}

// CountersHandler exposes the persistent counters table.
func (s *Server) CountersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll()
		if err != nil {
			http.Error(w, "Failed to get counters", http.StatusInternalServerError)
			log.Error("Failed to get counters", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(counters); err != nil {
			log.Error("Failed to encode counters to JSON", "error", err)
		}
	}
}

// NotifyStandingsHandler consumes a Pub/Sub push delivery of a recorded
// match and posts the updated pool standings to the channel.
func (s *Server) NotifyStandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Pub/Sub push wraps the payload in JSON with a base64 data field.
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"`
			} `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&pubsubMsg); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			log.Error("Failed to decode base64 data", "error", err)
			return
		}

		match := tournament.MatchRecord{}
		if err := s.pubsub.ProcessMessage(rawData, &match); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			log.Error("Failed to decode match payload", "error", err)
			return
		}

		table, err := s.computeStandings(match.Pool)
		if err != nil {
			http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
			log.Error("Failed to compute standings", "pool", match.Pool, "error", err)
			return
		}

		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendStandings(table, match.Pool, isDryRun); err != nil {
			http.Error(w, "Failed to send standings", http.StatusInternalServerError)
			log.Error("Failed to send standings", "pool", match.Pool, "error", err)
			return
		}

		if err := s.pubsub.SendMessage(pubsub.EventStandingsUpdated, table); err != nil {
			log.Error("Failed to publish standings updated event", "error", err)
		}
		w.Write([]byte("OK"))
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// StandingsCommandHandler returns a handler for the /standings Slack command.
// The command text selects the pool; empty text means the whole tournament.
func (s *Server) StandingsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		pool := r.FormValue("text")
		log.Info("Received standings command", "pool", pool)

		table, err := s.computeStandings(pool)
		if err != nil {
			http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
			log.Error("Failed to compute standings for command", "pool", pool, "error", err)
			return
		}

		msg, err := s.Notifier.FormatStandingsResponse(table, pool)
		if err != nil {
			http.Error(w, "Failed to format standings", http.StatusInternalServerError)
			log.Error("Failed to format standings", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
