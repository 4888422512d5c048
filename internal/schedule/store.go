package schedule

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewStore creates a new schedule store.
func NewStore(db *sql.DB) ScheduleService {
	return &store{
		db: db,
	}
}

// GenerateForPool builds a single round-robin for the given teams using
// the circle method and persists it, replacing any fixtures the pool
// already had. An odd team count gets a bye each round.
func (s *store) GenerateForPool(pool string, teamIDs []string) ([]Fixture, error) {
	if len(teamIDs) < 2 {
		return nil, fmt.Errorf("pool %q needs at least two teams to schedule, has %d", pool, len(teamIDs))
	}

	fixtures := roundRobin(pool, teamIDs)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec("DELETE FROM fixtures WHERE pool = ?", pool); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to clear existing fixtures for pool %q: %w", pool, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO fixtures (id, pool, round, team_a, team_b, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	defer stmt.Close()

	for i := range fixtures {
		if _, err := stmt.Exec(fixtures[i].ID, fixtures[i].Pool, fixtures[i].Round, fixtures[i].TeamA, fixtures[i].TeamB, fixtures[i].CreatedAt); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to insert fixture: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info("Generated round-robin fixtures", "pool", pool, "teams", len(teamIDs), "fixtures", len(fixtures))
	return fixtures, nil
}

// roundRobin pairs teams with the circle method: the first team stays
// fixed while the rest rotate one position per round.
func roundRobin(pool string, teamIDs []string) []Fixture {
	teams := make([]string, len(teamIDs))
	copy(teams, teamIDs)

	// Odd team count gets a placeholder; pairings against it are byes
	// and are skipped.
	if len(teams)%2 != 0 {
		teams = append(teams, "")
	}
	n := len(teams)
	now := time.Now().Unix()

	var fixtures []Fixture
	for round := 1; round < n; round++ {
		for j := 0; j < n/2; j++ {
			a, b := teams[j], teams[n-1-j]
			if a == "" || b == "" {
				continue
			}
			fixtures = append(fixtures, Fixture{
				ID:        uuid.New().String(),
				Pool:      pool,
				Round:     round,
				TeamA:     a,
				TeamB:     b,
				CreatedAt: now,
			})
		}

		// Rotate all teams except the first.
		last := teams[n-1]
		copy(teams[2:], teams[1:n-1])
		teams[1] = last
	}
	return fixtures
}

func (s *store) GetFixtures() ([]Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryFixtures("SELECT id, pool, round, team_a, team_b, created_at FROM fixtures ORDER BY pool, round")
}

func (s *store) GetFixturesByPool(pool string) ([]Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryFixtures("SELECT id, pool, round, team_a, team_b, created_at FROM fixtures WHERE pool = ? ORDER BY round", pool)
}

func (s *store) queryFixtures(query string, args ...any) ([]Fixture, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query fixtures", "error", err)
		return nil, err
	}
	defer rows.Close()

	var fixtures []Fixture
	for rows.Next() {
		var f Fixture
		if err := rows.Scan(&f.ID, &f.Pool, &f.Round, &f.TeamA, &f.TeamB, &f.CreatedAt); err != nil {
			log.Error("Failed to scan fixture row", "error", err)
			continue
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

func (s *store) ClearPool(pool string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM fixtures WHERE pool = ?", pool)
	return err
}
