package tournament

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// rosterColumns are the required headers of a roster CSV, matching the
// upload format organizers already use. A trailing "pool" column is
// optional.
var rosterColumns = []string{"team", "player1", "player2", "player3"}

// ParseRosterCSV reads a roster CSV into teams ready for UpsertTeams.
// The first row must be the header; rows with a blank team name or the
// wrong cell count are rejected with the offending line number.
func ParseRosterCSV(r io.Reader) ([]TeamInfo, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	hasPool, err := checkHeader(header)
	if err != nil {
		return nil, err
	}

	var teams []TeamInfo
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, fmt.Errorf("CSV line %d: team name is empty", line)
		}

		team := TeamInfo{
			Name:    name,
			Player1: strings.TrimSpace(record[1]),
			Player2: strings.TrimSpace(record[2]),
			Player3: strings.TrimSpace(record[3]),
		}
		if hasPool {
			team.Pool = strings.TrimSpace(record[4])
		}
		teams = append(teams, team)
	}

	if len(teams) == 0 {
		return nil, fmt.Errorf("CSV contains no teams")
	}
	return teams, nil
}

func checkHeader(header []string) (hasPool bool, err error) {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}

	switch len(cols) {
	case len(rosterColumns):
	case len(rosterColumns) + 1:
		if cols[len(cols)-1] != "pool" {
			return false, fmt.Errorf("CSV must have columns: team, player1, player2, player3[, pool]")
		}
		hasPool = true
	default:
		return false, fmt.Errorf("CSV must have columns: team, player1, player2, player3[, pool]")
	}

	for i, want := range rosterColumns {
		if cols[i] != want {
			return false, fmt.Errorf("CSV must have columns: team, player1, player2, player3[, pool]")
		}
	}
	return hasPool, nil
}
