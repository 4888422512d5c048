package tournament

import "github.com/mkrogh/courtside/internal/standings"

// ToStandingsInput converts roster entries and match records into the
// inputs the standings calculator expects. Teams are keyed by name so the
// resulting table reads directly as a display table; a match referencing
// an id with no roster entry keeps the raw id, which the calculator then
// rejects as an unknown team.
func ToStandingsInput(teams []TeamInfo, matches []*MatchRecord) ([]standings.MatchResult, []standings.TeamID) {
	names := make(map[string]standings.TeamID, len(teams))
	ids := make([]standings.TeamID, 0, len(teams))
	for _, t := range teams {
		names[t.ID] = standings.TeamID(t.Name)
		ids = append(ids, standings.TeamID(t.Name))
	}

	resolve := func(teamID string) standings.TeamID {
		if name, ok := names[teamID]; ok {
			return name
		}
		return standings.TeamID(teamID)
	}

	results := make([]standings.MatchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, standings.MatchResult{
			TeamA:  resolve(m.TeamA),
			TeamB:  resolve(m.TeamB),
			ScoreA: m.ScoreA,
			ScoreB: m.ScoreB,
		})
	}
	return results, ids
}
