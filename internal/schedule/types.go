package schedule

import (
	"database/sql"
	"sync"
)

// store handles database operations for fixtures.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Fixture is one planned round-robin pairing. TeamA and TeamB hold team
// ids.
type Fixture struct {
	ID        string `json:"id"`
	Pool      string `json:"pool"`
	Round     int    `json:"round"`
	TeamA     string `json:"team_a"`
	TeamB     string `json:"team_b"`
	CreatedAt int64  `json:"created_at"`
}
