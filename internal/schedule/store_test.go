package schedule_test

import (
	"fmt"
	"testing"

	"github.com/mkrogh/courtside/internal/database"
	"github.com/mkrogh/courtside/internal/schedule"
	"github.com/mkrogh/courtside/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduleStore(t *testing.T) (schedule.ScheduleService, []string, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	teamStore := tournament.New(db)
	var ids []string
	for i := 1; i <= 4; i++ {
		team, err := teamStore.AddTeam(tournament.TeamInfo{Name: fmt.Sprintf("Team %d", i), Pool: "A"})
		require.NoError(t, err)
		ids = append(ids, team.ID)
	}

	return schedule.NewStore(db), ids, teardown
}

func TestGenerateForPool_EvenTeams(t *testing.T) {
	store, ids, teardown := setupScheduleStore(t)
	defer teardown()

	fixtures, err := store.GenerateForPool("A", ids)
	require.NoError(t, err)

	// 4 teams: 3 rounds of 2 matches, every pair exactly once.
	assert.Len(t, fixtures, 6)

	pairs := make(map[string]int)
	for _, f := range fixtures {
		assert.NotEqual(t, f.TeamA, f.TeamB, "no team plays itself")
		key := f.TeamA + "|" + f.TeamB
		if f.TeamB < f.TeamA {
			key = f.TeamB + "|" + f.TeamA
		}
		pairs[key]++
	}
	assert.Len(t, pairs, 6)
	for pair, count := range pairs {
		assert.Equal(t, 1, count, "pair %s scheduled more than once", pair)
	}

	perRound := make(map[int]int)
	for _, f := range fixtures {
		perRound[f.Round]++
	}
	assert.Len(t, perRound, 3)
	for round, count := range perRound {
		assert.Equal(t, 2, count, "round %d", round)
	}
}

func TestGenerateForPool_OddTeamsHaveByes(t *testing.T) {
	store, ids, teardown := setupScheduleStore(t)
	defer teardown()

	fixtures, err := store.GenerateForPool("A", ids[:3])
	require.NoError(t, err)

	// 3 teams: 3 rounds, one match each, one bye per round.
	assert.Len(t, fixtures, 3)
	for _, f := range fixtures {
		assert.NotEmpty(t, f.TeamA)
		assert.NotEmpty(t, f.TeamB)
	}
}

func TestGenerateForPool_ReplacesExistingFixtures(t *testing.T) {
	store, ids, teardown := setupScheduleStore(t)
	defer teardown()

	_, err := store.GenerateForPool("A", ids)
	require.NoError(t, err)
	_, err = store.GenerateForPool("A", ids[:2])
	require.NoError(t, err)

	fixtures, err := store.GetFixturesByPool("A")
	require.NoError(t, err)
	assert.Len(t, fixtures, 1, "regenerating must replace the old schedule")
}

func TestGenerateForPool_RejectsTooFewTeams(t *testing.T) {
	store, ids, teardown := setupScheduleStore(t)
	defer teardown()

	_, err := store.GenerateForPool("A", ids[:1])
	assert.Error(t, err)
}

func TestClearPool(t *testing.T) {
	store, ids, teardown := setupScheduleStore(t)
	defer teardown()

	_, err := store.GenerateForPool("A", ids)
	require.NoError(t, err)

	require.NoError(t, store.ClearPool("A"))
	fixtures, err := store.GetFixtures()
	require.NoError(t, err)
	assert.Empty(t, fixtures)
}
