package tournament

import "sync"

// MockStore is a hand-written mock of TournamentStore for tests. Set a
// Func field to control a method's behavior; calls are recorded either
// way.
type MockStore struct {
	mu sync.Mutex

	AddTeamFunc          func(team TeamInfo) (TeamInfo, error)
	UpsertTeamsFunc      func(teams []TeamInfo) error
	GetTeamFunc          func(teamID string) (*TeamInfo, error)
	GetTeamByNameFunc    func(name string) (*TeamInfo, error)
	GetAllTeamsFunc      func() ([]TeamInfo, error)
	GetTeamsByPoolFunc   func(pool string) ([]TeamInfo, error)
	IsKnownTeamFunc      func(teamID string) bool
	AddMatchFunc         func(match *MatchRecord) error
	GetAllMatchesFunc    func() ([]*MatchRecord, error)
	GetMatchesByPoolFunc func(pool string) ([]*MatchRecord, error)

	AddTeamCalls     []TeamInfo
	UpsertTeamsCalls [][]TeamInfo
	AddMatchCalls    []*MatchRecord
	ClearMatchCalls  []string
	ClearCalls       int
}

// NewMock creates a new mock store.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) AddTeam(team TeamInfo) (TeamInfo, error) {
	m.mu.Lock()
	m.AddTeamCalls = append(m.AddTeamCalls, team)
	m.mu.Unlock()
	if m.AddTeamFunc != nil {
		return m.AddTeamFunc(team)
	}
	return team, nil
}

func (m *MockStore) UpsertTeams(teams []TeamInfo) error {
	m.mu.Lock()
	m.UpsertTeamsCalls = append(m.UpsertTeamsCalls, teams)
	m.mu.Unlock()
	if m.UpsertTeamsFunc != nil {
		return m.UpsertTeamsFunc(teams)
	}
	return nil
}

func (m *MockStore) GetTeam(teamID string) (*TeamInfo, error) {
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(teamID)
	}
	return &TeamInfo{ID: teamID}, nil
}

func (m *MockStore) GetTeamByName(name string) (*TeamInfo, error) {
	if m.GetTeamByNameFunc != nil {
		return m.GetTeamByNameFunc(name)
	}
	return &TeamInfo{Name: name}, nil
}

func (m *MockStore) GetAllTeams() ([]TeamInfo, error) {
	if m.GetAllTeamsFunc != nil {
		return m.GetAllTeamsFunc()
	}
	return nil, nil
}

func (m *MockStore) GetTeamsByPool(pool string) ([]TeamInfo, error) {
	if m.GetTeamsByPoolFunc != nil {
		return m.GetTeamsByPoolFunc(pool)
	}
	return nil, nil
}

func (m *MockStore) IsKnownTeam(teamID string) bool {
	if m.IsKnownTeamFunc != nil {
		return m.IsKnownTeamFunc(teamID)
	}
	return true
}

func (m *MockStore) AddMatch(match *MatchRecord) error {
	m.mu.Lock()
	m.AddMatchCalls = append(m.AddMatchCalls, match)
	m.mu.Unlock()
	if m.AddMatchFunc != nil {
		return m.AddMatchFunc(match)
	}
	return nil
}

func (m *MockStore) GetAllMatches() ([]*MatchRecord, error) {
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) GetMatchesByPool(pool string) ([]*MatchRecord, error) {
	if m.GetMatchesByPoolFunc != nil {
		return m.GetMatchesByPoolFunc(pool)
	}
	return nil, nil
}

func (m *MockStore) ClearMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearMatchCalls = append(m.ClearMatchCalls, matchID)
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
}
