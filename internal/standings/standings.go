package standings

import "sort"

// TeamID uniquely identifies a team within one ranking scope.
type TeamID string

// MatchResult is one completed match between two distinct teams.
type MatchResult struct {
	TeamA  TeamID `json:"team_a"`
	TeamB  TeamID `json:"team_b"`
	ScoreA int    `json:"score_a"`
	ScoreB int    `json:"score_b"`
}

// Row is one team's aggregated record in the standings table.
type Row struct {
	Team          TeamID `json:"team"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	PointDiff     int    `json:"point_diff"`
	Points        int    `json:"points"`
}

// Table is a standings table ordered best to worst.
type Table []Row

// pointsPerWin is the tournament points awarded for a won match.
// Losses award nothing.
const pointsPerWin = 2

// Compute aggregates a match log into a ranked standings table covering
// every team in teams, including teams with no matches played.
//
// The winner of a match is the side with the strictly greater score; a
// drawn score therefore credits TeamB. Rows are ordered descending by
// points, then point differential, then ascending by team id so the
// output is deterministic for exact ties.
//
// Compute is pure: it only reads its arguments and allocates fresh
// output, so it is safe to call concurrently. Matches are validated up
// front; on error no table is returned.
func Compute(matches []MatchResult, teams []TeamID) (Table, error) {
	acc := make(map[TeamID]*Row, len(teams))
	for _, t := range teams {
		acc[t] = &Row{Team: t}
	}

	for _, m := range matches {
		if err := validate(m); err != nil {
			return nil, err
		}
		if _, ok := acc[m.TeamA]; !ok {
			return nil, &ReferenceError{Team: m.TeamA}
		}
		if _, ok := acc[m.TeamB]; !ok {
			return nil, &ReferenceError{Team: m.TeamB}
		}
	}

	for _, m := range matches {
		a, b := acc[m.TeamA], acc[m.TeamB]

		a.Played++
		b.Played++
		a.PointsFor += m.ScoreA
		a.PointsAgainst += m.ScoreB
		b.PointsFor += m.ScoreB
		b.PointsAgainst += m.ScoreA

		if m.ScoreA > m.ScoreB {
			a.Wins++
			a.Points += pointsPerWin
			b.Losses++
		} else {
			b.Wins++
			b.Points += pointsPerWin
			a.Losses++
		}
	}

	table := make(Table, 0, len(teams))
	for _, t := range teams {
		row := acc[t]
		row.PointDiff = row.PointsFor - row.PointsAgainst
		table = append(table, *row)
	}

	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.PointDiff != b.PointDiff {
			return a.PointDiff > b.PointDiff
		}
		return a.Team < b.Team
	})

	return table, nil
}

func validate(m MatchResult) error {
	if m.TeamA == m.TeamB {
		return &ValidationError{Reason: "a team cannot play itself", Match: m}
	}
	if m.ScoreA < 0 || m.ScoreB < 0 {
		return &ValidationError{Reason: "scores must be non-negative", Match: m}
	}
	return nil
}

// Validate reports whether a single match result is well formed. It
// applies the same rules Compute applies before tallying, so callers
// can reject bad input at the door.
func Validate(m MatchResult) error {
	return validate(m)
}
