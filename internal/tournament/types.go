package tournament

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the tournament.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// TeamInfo represents a roster entry: a team and its named players.
type TeamInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Pool    string `json:"pool"`
	Player1 string `json:"player1,omitempty"`
	Player2 string `json:"player2,omitempty"`
	Player3 string `json:"player3,omitempty"`
}

// MatchRecord is one completed match in the log. TeamA and TeamB hold
// team ids, not names.
type MatchRecord struct {
	ID         string `json:"id"`
	Round      int    `json:"round"`
	Pool       string `json:"pool"`
	TeamA      string `json:"team_a"`
	TeamB      string `json:"team_b"`
	PlayerA    string `json:"player_a,omitempty"`
	PlayerB    string `json:"player_b,omitempty"`
	ScoreA     int    `json:"score_a"`
	ScoreB     int    `json:"score_b"`
	RecordedAt int64  `json:"recorded_at"`
}
