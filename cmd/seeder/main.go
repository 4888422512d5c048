package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedTeam struct {
	id   string
	name string
	pool string
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	names := []string{
		"Dink Dynasty", "Net Ninjas", "Paddle Stars", "Smash Bros",
		"Kitchen Kings", "Drop Shot Divas", "Rally Rebels", "Baseline Bandits",
	}

	teams := make([]seedTeam, 0, len(names))
	for i, name := range names {
		pool := "A"
		if i >= len(names)/2 {
			pool = "B"
		}
		team := seedTeam{id: uuid.NewString(), name: name, pool: pool}
		_, err := db.Exec(
			"INSERT OR IGNORE INTO teams (id, name, pool, player1, player2) VALUES (?, ?, ?, ?, ?)",
			team.id, team.name, team.pool,
			fmt.Sprintf("Seed Player %d", i*2+1),
			fmt.Sprintf("Seed Player %d", i*2+2),
		)
		if err != nil {
			log.Fatalf("Failed to insert team %s: %s", team.name, err)
		}
		teams = append(teams, team)
	}
	log.Info("Ensured demo teams exist.", "teams", len(teams))

	const batchSize = 100
	const numMatches = 1000

	log.Info("Preparing to insert demo matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*10) // 10 columns per match

	flush := func() {
		if len(valueStrings) == 0 {
			return
		}
		stmt := fmt.Sprintf(
			"INSERT INTO matches (id, round, pool, team_a, team_b, player_a, player_b, score_a, score_b, recorded_at) VALUES %s",
			strings.Join(valueStrings, ","),
		)
		if _, err := tx.Exec(stmt, valueArgs...); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to insert match batch: %s", err)
		}
		valueStrings = valueStrings[:0]
		valueArgs = valueArgs[:0]
	}

	pools := map[string][]seedTeam{}
	for _, t := range teams {
		pools[t.pool] = append(pools[t.pool], t)
	}
	poolNames := []string{"A", "B"}

	for i := 0; i < numMatches; i++ {
		// Matches stay inside one pool, like a real round robin.
		poolTeams := pools[poolNames[rand.Intn(len(poolNames))]]
		teamA := poolTeams[rand.Intn(len(poolTeams))]
		teamB := poolTeams[rand.Intn(len(poolTeams))]
		for teamB.id == teamA.id {
			teamB = poolTeams[rand.Intn(len(poolTeams))]
		}

		// Games go to 11; losers score anywhere below that.
		winnerScore := 11
		loserScore := rand.Intn(10)
		scoreA, scoreB := winnerScore, loserScore
		if rand.Intn(2) == 0 {
			scoreA, scoreB = loserScore, winnerScore
		}

		matchTime := time.Now().Add(-time.Duration(rand.Intn(14*24)) * time.Hour)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			i/4+1, // four courts run in parallel per round
			teamA.pool,
			teamA.id,
			teamB.id,
			"",
			"",
			scoreA,
			scoreB,
			matchTime.Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			flush()
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	log.Info("Seeding complete.", "matches", numMatches, "duration", time.Since(startTime))
}
