package schedule

// ScheduleService defines the interface for generating and reading
// round-robin fixtures.
type ScheduleService interface {
	GenerateForPool(pool string, teamIDs []string) ([]Fixture, error)
	GetFixtures() ([]Fixture, error)
	GetFixturesByPool(pool string) ([]Fixture, error)
	ClearPool(pool string) error
}
