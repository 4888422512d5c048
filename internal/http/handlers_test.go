package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mkrogh/courtside/internal/config"
	"github.com/mkrogh/courtside/internal/database"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/notifier"
	"github.com/mkrogh/courtside/internal/pubsub"
	"github.com/mkrogh/courtside/internal/recorder"
	"github.com/mkrogh/courtside/internal/schedule"
	"github.com/mkrogh/courtside/internal/standings"
	"github.com/mkrogh/courtside/internal/tournament"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, notif notifier.Notifier) (*Server, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := tournament.New(db)
	cfg := config.Config{}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	counters := metrics.New(db)
	ps := pubsub.NewMock("TEST")
	rec := recorder.New(store, notif, metricsSvc, ps)
	sched := schedule.NewStore(db)

	server := NewServer(store, metricsSvc, metricsHandler, counters, cfg, notif, rec, sched, ps)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return server, teardown
}

// seedTeams registers teams in the given pool and returns them keyed by name.
func seedTeams(t *testing.T, server *Server, pool string, names ...string) map[string]tournament.TeamInfo {
	t.Helper()
	teams := make(map[string]tournament.TeamInfo, len(names))
	for _, name := range names {
		saved, err := server.Store.AddTeam(tournament.TeamInfo{Name: name, Pool: pool})
		require.NoError(t, err)
		teams[name] = saved
	}
	return teams
}

func postJSON(t *testing.T, server *Server, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestTeamsHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/teams", tournament.TeamInfo{Name: "Dink Dynasty", Pool: "A", Player1: "Maja", Player2: "Emil"})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created tournament.TeamInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dink Dynasty", created.Name)

	req, err := http.NewRequest("GET", "/teams", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var teams []tournament.TeamInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &teams))
	require.Len(t, teams, 1)
	assert.Equal(t, created.ID, teams[0].ID)
}

func TestTeamsHandlerRejectsMissingName(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/teams", tournament.TeamInfo{Pool: "A"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestImportRosterHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	csvBody := "team,player1,player2,player3,pool\nDink Dynasty,Maja,Emil,,A\nNet Ninjas,Sofie,Lars,,A\n"
	req, err := http.NewRequest("POST", "/teams/import", strings.NewReader(csvBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/csv")

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Imported 2 teams.", rr.Body.String())

	teams, err := server.Store.GetAllTeams()
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	counters, err := server.Counters.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 1, counters["roster_imports"])
}

func TestImportRosterHandlerRejectsBadCSV(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("POST", "/teams/import", strings.NewReader("name,captain\nfoo,bar\n"))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordMatchHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	teams := seedTeams(t, server, "A", "Dink Dynasty", "Net Ninjas")

	rr := postJSON(t, server, "/matches", tournament.MatchRecord{
		TeamA:  teams["Dink Dynasty"].ID,
		TeamB:  teams["Net Ninjas"].ID,
		ScoreA: 11,
		ScoreB: 7,
		Round:  1,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "A", matches[0].Pool, "pool should default to team A's pool")

	require.Len(t, mockNotifier.SendResultNotificationCalls, 1)
	assert.Equal(t, "Dink Dynasty", mockNotifier.SendResultNotificationCalls[0].TeamA)
}

func TestRecordMatchHandlerAcceptsTeamNames(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	seedTeams(t, server, "A", "Dink Dynasty", "Net Ninjas")

	rr := postJSON(t, server, "/matches", tournament.MatchRecord{
		TeamA:  "Dink Dynasty",
		TeamB:  "Net Ninjas",
		ScoreA: 9,
		ScoreB: 11,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.NotEqual(t, "Dink Dynasty", matches[0].TeamA, "name should be resolved to the team id")
}

func TestRecordMatchHandlerRejectsUnknownTeam(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	seedTeams(t, server, "A", "Dink Dynasty")

	rr := postJSON(t, server, "/matches", tournament.MatchRecord{
		TeamA:  "Dink Dynasty",
		TeamB:  "Ghost Team",
		ScoreA: 11,
		ScoreB: 3,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRecordMatchHandlerRejectsCrossPoolMatch(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	poolA := seedTeams(t, server, "A", "Dink Dynasty")
	poolB := seedTeams(t, server, "B", "Paddle Stars")

	rr := postJSON(t, server, "/matches", tournament.MatchRecord{
		TeamA:  poolA["Dink Dynasty"].ID,
		TeamB:  poolB["Paddle Stars"].ID,
		ScoreA: 11,
		ScoreB: 6,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)

	// Pool A standings stay servable: no match leaks in referencing a
	// team outside the pool's team set.
	req, err := http.NewRequest("GET", "/standings?pool=A", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestRecordMatchHandlerRejectsNegativeScore(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	teams := seedTeams(t, server, "A", "Dink Dynasty", "Net Ninjas")

	rr := postJSON(t, server, "/matches", tournament.MatchRecord{
		TeamA:  teams["Dink Dynasty"].ID,
		TeamB:  teams["Net Ninjas"].ID,
		ScoreA: -1,
		ScoreB: 5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRecordMatchHandlerDryRun(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	teams := seedTeams(t, server, "A", "Dink Dynasty", "Net Ninjas")

	body, err := json.Marshal(tournament.MatchRecord{
		TeamA:  teams["Dink Dynasty"].ID,
		TeamB:  teams["Net Ninjas"].ID,
		ScoreA: 11,
		ScoreB: 7,
	})
	require.NoError(t, err)
	req, err := http.NewRequest("POST", "/matches?dry_run=true", bytes.NewReader(body))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	assert.Empty(t, matches, "dry run should not persist the match")
}

func TestStandingsHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	teams := seedTeams(t, server, "A", "Dink Dynasty", "Net Ninjas", "Paddle Stars")

	record := func(a, b string, scoreA, scoreB int) {
		rr := postJSON(t, server, "/matches", tournament.MatchRecord{
			TeamA: teams[a].ID, TeamB: teams[b].ID, ScoreA: scoreA, ScoreB: scoreB,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}
	record("Dink Dynasty", "Net Ninjas", 11, 5)
	record("Dink Dynasty", "Paddle Stars", 11, 8)
	record("Net Ninjas", "Paddle Stars", 7, 11)

	req, err := http.NewRequest("GET", "/standings?pool=A", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var table standings.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
	require.Len(t, table, 3)

	assert.Equal(t, standings.TeamID("Dink Dynasty"), table[0].Team)
	assert.Equal(t, 4, table[0].Points)
	assert.Equal(t, standings.TeamID("Paddle Stars"), table[1].Team)
	assert.Equal(t, 2, table[1].Points)
	assert.Equal(t, standings.TeamID("Net Ninjas"), table[2].Team)
	assert.Equal(t, 0, table[2].Points)
}

func TestStandingsHandlerEmptyRoster(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/standings", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var table standings.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
	assert.Empty(t, table)
}

func TestStandingsHandlerPoolScoping(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	poolA := seedTeams(t, server, "A", "Dink Dynasty", "Net Ninjas")
	seedTeams(t, server, "B", "Paddle Stars", "Smash Bros")

	rr := postJSON(t, server, "/matches", tournament.MatchRecord{
		TeamA: poolA["Dink Dynasty"].ID, TeamB: poolA["Net Ninjas"].ID, ScoreA: 11, ScoreB: 2,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	req, err := http.NewRequest("GET", "/standings?pool=B", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var table standings.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
	require.Len(t, table, 2)
	for _, row := range table {
		assert.Zero(t, row.Played, "pool B has no recorded matches")
	}
}

func TestGenerateScheduleHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	seedTeams(t, server, "A", "Dink Dynasty", "Net Ninjas", "Paddle Stars", "Smash Bros")

	req, err := http.NewRequest("POST", "/schedule?pool=A", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var fixtures []schedule.Fixture
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fixtures))
	assert.Len(t, fixtures, 6, "4 teams play 6 round-robin fixtures")

	req, err = http.NewRequest("GET", "/fixtures?pool=A", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	fixtures = nil
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fixtures))
	assert.Len(t, fixtures, 6)
}

func TestGenerateScheduleHandlerTooFewTeams(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	seedTeams(t, server, "A", "Dink Dynasty")

	req, err := http.NewRequest("POST", "/schedule?pool=A", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClearStoreHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	teams := seedTeams(t, server, "A", "Dink Dynasty", "Net Ninjas")
	rr := postJSON(t, server, "/matches", tournament.MatchRecord{
		TeamA: teams["Dink Dynasty"].ID, TeamB: teams["Net Ninjas"].ID, ScoreA: 11, ScoreB: 9,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	req, err := http.NewRequest("GET", "/clear", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Store cleared!", rr.Body.String())

	remaining, err := server.Store.GetAllTeams()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestNotifyStandingsHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	teams := seedTeams(t, server, "A", "Dink Dynasty", "Net Ninjas")
	rr := postJSON(t, server, "/matches", tournament.MatchRecord{
		TeamA: teams["Dink Dynasty"].ID, TeamB: teams["Net Ninjas"].ID, ScoreA: 11, ScoreB: 6,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	require.Len(t, matches, 1)

	packed, err := msgpack.Marshal(matches[0])
	require.NoError(t, err)

	push := map[string]any{
		"subscription": "projects/test/subscriptions/standings",
		"message": map[string]any{
			"data": base64.StdEncoding.EncodeToString(packed),
		},
	}
	rr = postJSON(t, server, "/notify-standings", push)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, mockNotifier.SendStandingsCalls, 1)
	assert.Equal(t, "A", mockNotifier.SendStandingsCalls[0].Pool)
	require.Len(t, mockNotifier.SendStandingsCalls[0].Table, 2)
	assert.Equal(t, standings.TeamID("Dink Dynasty"), mockNotifier.SendStandingsCalls[0].Table[0].Team)
}

func TestStandingsCommandHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	mockNotifier.FormatStandingsResponseFunc = func(table standings.Table, pool string) (any, error) {
		text := fmt.Sprintf("standings for pool %s: %d rows", pool, len(table))
		return slack.NewBlockMessage(
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.PlainTextType, text, false, false), nil, nil),
		), nil
	}
	server, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	teams := seedTeams(t, server, "A", "Dink Dynasty", "Net Ninjas")
	rr := postJSON(t, server, "/matches", tournament.MatchRecord{
		TeamA: teams["Dink Dynasty"].ID, TeamB: teams["Net Ninjas"].ID, ScoreA: 11, ScoreB: 4,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	form := url.Values{}
	form.Set("text", "A")
	req, err := http.NewRequest("POST", "/slack/command/standings", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "standings for pool A: 2 rows")
}

func TestCountersHandler(t *testing.T) {
	server, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	server.Counters.Increment("matches_recorded")
	server.Counters.Increment("matches_recorded")

	req, err := http.NewRequest("GET", "/stats", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var counters map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &counters))
	assert.Equal(t, 2, counters["matches_recorded"])
}
