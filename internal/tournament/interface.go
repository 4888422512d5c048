package tournament

// TournamentStore defines the interface for interacting with the roster
// and match log.
type TournamentStore interface {
	AddTeam(team TeamInfo) (TeamInfo, error)
	UpsertTeams(teams []TeamInfo) error
	GetTeam(teamID string) (*TeamInfo, error)
	GetTeamByName(name string) (*TeamInfo, error)
	GetAllTeams() ([]TeamInfo, error)
	GetTeamsByPool(pool string) ([]TeamInfo, error)
	IsKnownTeam(teamID string) bool
	AddMatch(match *MatchRecord) error
	GetAllMatches() ([]*MatchRecord, error)
	GetMatchesByPool(pool string) ([]*MatchRecord, error)
	ClearMatch(matchID string)
	Clear()
}
