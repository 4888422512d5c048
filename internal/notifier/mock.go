package notifier

import (
	"sync"

	"github.com/mkrogh/courtside/internal/standings"
)

// Mock is a hand-written mock of the Notifier interface for tests.
type Mock struct {
	mu sync.Mutex

	SendResultNotificationFunc  func(result ResultSummary, dryRun bool) error
	SendStandingsFunc           func(table standings.Table, pool string, dryRun bool) error
	FormatStandingsResponseFunc func(table standings.Table, pool string) (any, error)

	SendResultNotificationCalls []ResultSummary
	SendStandingsCalls          []SendStandingsCall
}

// SendStandingsCall holds the arguments for a call to SendStandings.
type SendStandingsCall struct {
	Table standings.Table
	Pool  string
}

// NewMock creates a new mock Notifier.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendResultNotification(result ResultSummary, dryRun bool) error {
	m.mu.Lock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, result)
	m.mu.Unlock()
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(result, dryRun)
	}
	return nil
}

func (m *Mock) SendStandings(table standings.Table, pool string, dryRun bool) error {
	m.mu.Lock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, SendStandingsCall{Table: table, Pool: pool})
	m.mu.Unlock()
	if m.SendStandingsFunc != nil {
		return m.SendStandingsFunc(table, pool, dryRun)
	}
	return nil
}

func (m *Mock) FormatStandingsResponse(table standings.Table, pool string) (any, error) {
	if m.FormatStandingsResponseFunc != nil {
		return m.FormatStandingsResponseFunc(table, pool)
	}
	return nil, nil
}
