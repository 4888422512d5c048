package tournament

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new TournamentStore.
func New(db *sql.DB) TournamentStore {
	return &store{
		db: db,
	}
}

// AddTeam inserts a team, assigning a fresh id when none is supplied.
// Team names are unique; inserting an existing name updates its pool and
// players instead.
func (s *store) AddTeam(team TeamInfo) (TeamInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if team.ID == "" {
		team.ID = uuid.New().String()
	}
	if team.Pool == "" {
		team.Pool = "A"
	}

	_, err := s.db.Exec(`
		INSERT INTO teams (id, name, pool, player1, player2, player3)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			pool = excluded.pool,
			player1 = excluded.player1,
			player2 = excluded.player2,
			player3 = excluded.player3;
	`, team.ID, team.Name, team.Pool, team.Player1, team.Player2, team.Player3)
	if err != nil {
		return TeamInfo{}, fmt.Errorf("failed to add team %q: %w", team.Name, err)
	}

	// The conflict path keeps the original id, so read it back.
	stored, err := s.getTeamByNameLocked(team.Name)
	if err != nil {
		return TeamInfo{}, err
	}
	log.Info("Stored team", "teamID", stored.ID, "name", stored.Name, "pool", stored.Pool)
	return *stored, nil
}

// UpsertTeams inserts or updates a batch of teams in one transaction.
func (s *store) UpsertTeams(teams []TeamInfo) error {
	if len(teams) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO teams (id, name, pool, player1, player2, player3)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			pool = excluded.pool,
			player1 = excluded.player1,
			player2 = excluded.player2,
			player3 = excluded.player3;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, team := range teams {
		if team.ID == "" {
			team.ID = uuid.New().String()
		}
		if team.Pool == "" {
			team.Pool = "A"
		}
		if _, err := stmt.Exec(team.ID, team.Name, team.Pool, team.Player1, team.Player2, team.Player3); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert team %q: %w", team.Name, err)
		}
	}

	return tx.Commit()
}

func (s *store) GetTeam(teamID string) (*TeamInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT id, name, pool, player1, player2, player3 FROM teams WHERE id = ?", teamID)
	return scanTeam(row)
}

func (s *store) GetTeamByName(name string) (*TeamInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getTeamByNameLocked(name)
}

func (s *store) getTeamByNameLocked(name string) (*TeamInfo, error) {
	row := s.db.QueryRow("SELECT id, name, pool, player1, player2, player3 FROM teams WHERE name = ? COLLATE NOCASE", name)
	return scanTeam(row)
}

func scanTeam(scanner interface{ Scan(...any) error }) (*TeamInfo, error) {
	var t TeamInfo
	var p1, p2, p3 sql.NullString
	err := scanner.Scan(&t.ID, &t.Name, &t.Pool, &p1, &p2, &p3)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("team not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	t.Player1 = p1.String
	t.Player2 = p2.String
	t.Player3 = p3.String
	return &t, nil
}

func (s *store) GetAllTeams() ([]TeamInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryTeams("SELECT id, name, pool, player1, player2, player3 FROM teams ORDER BY name")
}

func (s *store) GetTeamsByPool(pool string) ([]TeamInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryTeams("SELECT id, name, pool, player1, player2, player3 FROM teams WHERE pool = ? ORDER BY name", pool)
}

func (s *store) queryTeams(query string, args ...any) ([]TeamInfo, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query teams", "error", err)
		return nil, err
	}
	defer rows.Close()

	var teams []TeamInfo
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			log.Error("Failed to scan team row", "error", err)
			continue
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (s *store) IsKnownTeam(teamID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM teams WHERE id = ?)", teamID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if team exists", "error", err, "teamID", teamID)
		return false
	}
	return exists
}

// AddMatch appends one completed match to the log.
func (s *store) AddMatch(match *MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	if match.RecordedAt == 0 {
		match.RecordedAt = time.Now().Unix()
	}

	_, err := s.db.Exec(`
		INSERT INTO matches (id, round, pool, team_a, team_b, player_a, player_b, score_a, score_b, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, match.ID, match.Round, match.Pool, match.TeamA, match.TeamB, match.PlayerA, match.PlayerB, match.ScoreA, match.ScoreB, match.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to add match: %w", err)
	}
	log.Info("Recorded match", "matchID", match.ID, "pool", match.Pool, "round", match.Round)
	return nil
}

func (s *store) GetAllMatches() ([]*MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches(`
		SELECT id, round, pool, team_a, team_b, player_a, player_b, score_a, score_b, recorded_at
		FROM matches ORDER BY recorded_at DESC
	`)
}

func (s *store) GetMatchesByPool(pool string) ([]*MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryMatches(`
		SELECT id, round, pool, team_a, team_b, player_a, player_b, score_a, score_b, recorded_at
		FROM matches WHERE pool = ? ORDER BY recorded_at DESC
	`, pool)
}

func (s *store) queryMatches(query string, args ...any) ([]*MatchRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	var matches []*MatchRecord
	for rows.Next() {
		var m MatchRecord
		var playerA, playerB sql.NullString
		if err := rows.Scan(&m.ID, &m.Round, &m.Pool, &m.TeamA, &m.TeamB, &playerA, &playerB, &m.ScoreA, &m.ScoreB, &m.RecordedAt); err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		m.PlayerA = playerA.String
		m.PlayerB = playerB.String
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

func (s *store) ClearMatch(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID)
	if err != nil {
		log.Error("Failed to clear match", "error", err, "matchID", matchID)
	}
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"matches", "fixtures", "teams", "counters"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}
