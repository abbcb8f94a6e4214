package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mauv0809/shuttle-stats/internal/analyzer"
	"github.com/mauv0809/shuttle-stats/internal/badminton"
	"github.com/mauv0809/shuttle-stats/internal/config"
	"github.com/mauv0809/shuttle-stats/internal/database"
	"github.com/mauv0809/shuttle-stats/internal/metrics"
	"github.com/mauv0809/shuttle-stats/internal/report"
	"github.com/mauv0809/shuttle-stats/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer initializes a new server with a test database and a mock
// metrics collector so handler tests can assert on counter movements.
func setupTestServer(t *testing.T) (*Server, *metrics.Mock, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	matchStore := store.New(db)
	an := analyzer.New(db)
	composer := report.New(an)
	metricsMock := metrics.NewMock()
	metricsHandler := metrics.NewMetricsHandler(prometheus.NewRegistry())
	cfg := config.Config{DBName: ":memory:", Port: "8080"}

	server := NewServer(matchStore, an, composer, metricsMock, metricsHandler, cfg)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
	}
	return server, metricsMock, teardown
}

func addTestPlayer(t *testing.T, s *Server, first string) int64 {
	t.Helper()
	id, err := s.Store.AddPlayer(badminton.Player{
		FirstName: first, LastName: "Handler", Nationality: "DEN",
		Gender: badminton.GenderMale, DominantHand: badminton.HandRight,
	})
	require.NoError(t, err)
	return id
}

func addTestTournament(t *testing.T, s *Server) int64 {
	t.Helper()
	id, err := s.Store.AddTournament(badminton.Tournament{
		Name: "Handler Open", Location: "Copenhagen",
		Tier: badminton.TierSuper500, Surface: badminton.SurfaceSynthetic,
		StartDate: "2024-03-01", EndDate: "2024-03-07",
		Status: badminton.TournamentInProgress,
	})
	require.NoError(t, err)
	return id
}

// completedBundle builds a minimal valid completed singles bundle.
func completedBundle(tournamentID, p1, p2, winner int64) *badminton.MatchBundle {
	winnerTeam := 1
	if winner == p2 {
		winnerTeam = 2
	}
	game := func(n int) badminton.Game {
		g := badminton.Game{GameNumber: n, WinnerTeam: winnerTeam}
		if winnerTeam == 1 {
			g.Team1Score, g.Team2Score = 21, 12
		} else {
			g.Team1Score, g.Team2Score = 12, 21
		}
		return g
	}
	return &badminton.MatchBundle{
		Match: badminton.Match{
			TournamentID: tournamentID,
			Date:         "2024-03-02",
			Round:        badminton.RoundOf16,
			Discipline:   badminton.MensSingles,
			BestOf:       3,
			WinnerID:     &winner,
			Status:       badminton.MatchCompleted,
		},
		Participants: []badminton.MatchParticipant{
			{PlayerID: p1, TeamPosition: 1, IsWinner: winner == p1},
			{PlayerID: p2, TeamPosition: 2, IsWinner: winner == p2},
		},
		Games: []badminton.Game{game(1), game(2)},
	}
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	rr := get(server, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestIngestHandler_AcceptsCompletedBundle(t *testing.T) {
	server, metricsMock, teardown := setupTestServer(t)
	defer teardown()

	tid := addTestTournament(t, server)
	p1 := addTestPlayer(t, server, "Anders")
	p2 := addTestPlayer(t, server, "Kento")

	rr := postJSON(t, server, "/ingest", completedBundle(tid, p1, p2, p1))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotZero(t, resp["match_id"])
	assert.Equal(t, 1, metricsMock.BundlesIngested())
	assert.Len(t, metricsMock.IngestDurations(), 1)

	// A completed bundle updates head-to-head immediately.
	h2h := get(server, fmt.Sprintf("/head-to-head?player1=%d&player2=%d", p2, p1))
	require.Equal(t, http.StatusOK, h2h.Code)
	var record badminton.HeadToHead
	require.NoError(t, json.Unmarshal(h2h.Body.Bytes(), &record))
	assert.Equal(t, 1, record.MatchesPlayed)
}

func TestIngestHandler_RejectsInvalidBundle(t *testing.T) {
	server, metricsMock, teardown := setupTestServer(t)
	defer teardown()

	tid := addTestTournament(t, server)
	p1 := addTestPlayer(t, server, "Anders")
	p2 := addTestPlayer(t, server, "Kento")

	bundle := completedBundle(tid, p1, p2, p1)
	// Winner team contradicts the game scores.
	bundle.Games[0].WinnerTeam = 2

	rr := postJSON(t, server, "/ingest", bundle)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 1, metricsMock.BundlesRejected())
	assert.Zero(t, metricsMock.BundlesIngested())
}

func TestCompleteMatchHandler(t *testing.T) {
	server, metricsMock, teardown := setupTestServer(t)
	defer teardown()

	tid := addTestTournament(t, server)
	p1 := addTestPlayer(t, server, "Anders")
	p2 := addTestPlayer(t, server, "Kento")

	bundle := &badminton.MatchBundle{
		Match: badminton.Match{
			TournamentID: tid, Date: "2024-03-03",
			Round: badminton.RoundOf16, Discipline: badminton.MensSingles,
			BestOf: 3, Status: badminton.MatchInProgress,
		},
		Participants: []badminton.MatchParticipant{
			{PlayerID: p1, TeamPosition: 1},
			{PlayerID: p2, TeamPosition: 2},
		},
		Games: []badminton.Game{
			{GameNumber: 1, Team1Score: 15, Team2Score: 21, WinnerTeam: 2},
			{GameNumber: 2, Team1Score: 18, Team2Score: 21, WinnerTeam: 2},
		},
	}
	rr := postJSON(t, server, "/ingest", bundle)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	matchID := resp["match_id"]

	complete := postJSON(t, server, fmt.Sprintf("/complete-match?matchID=%d&winnerID=%d", matchID, p2), nil)
	require.Equal(t, http.StatusOK, complete.Code, complete.Body.String())
	assert.Equal(t, 1, metricsMock.MatchesCompleted())
	assert.Equal(t, 1, metricsMock.HeadToHeadUpdates())

	h2h := get(server, fmt.Sprintf("/head-to-head?player1=%d&player2=%d", p1, p2))
	require.Equal(t, http.StatusOK, h2h.Code)

	// A redelivered completion counts the completion but touches no
	// pairwise counters.
	redelivered := postJSON(t, server, fmt.Sprintf("/complete-match?matchID=%d&winnerID=%d", matchID, p2), nil)
	require.Equal(t, http.StatusOK, redelivered.Code)
	assert.Equal(t, 2, metricsMock.MatchesCompleted())
	assert.Equal(t, 1, metricsMock.HeadToHeadUpdates())

	missing := postJSON(t, server, "/complete-match?matchID=9", nil)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestPlayerProfileHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	p1 := addTestPlayer(t, server, "Viktor")

	rr := get(server, fmt.Sprintf("/player/profile?id=%d", p1))
	require.Equal(t, http.StatusOK, rr.Code)
	var profile analyzer.PlayerProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "Viktor", profile.Player.FirstName)
	assert.Nil(t, profile.WinPercentage)

	notFound := get(server, "/player/profile?id=999")
	assert.Equal(t, http.StatusNotFound, notFound.Code)

	badID := get(server, "/player/profile?id=abc")
	assert.Equal(t, http.StatusBadRequest, badID.Code)
}

func TestTopPerformersHandler_InvalidMetric(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	rr := get(server, "/top-performers?metric=charisma")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid metric")
}

func TestCompareHandler_RequiresTwoIDs(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	rr := get(server, "/compare?ids=1")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	missing := get(server, "/compare")
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestScoutingReportHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	tid := addTestTournament(t, server)
	p1 := addTestPlayer(t, server, "Viktor")
	p2 := addTestPlayer(t, server, "Kento")
	rr := postJSON(t, server, "/ingest", completedBundle(tid, p1, p2, p1))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rep := get(server, fmt.Sprintf("/scouting-report?id=%d", p1))
	require.Equal(t, http.StatusOK, rep.Code)
	var out report.ScoutingReport
	require.NoError(t, json.Unmarshal(rep.Body.Bytes(), &out))
	assert.Equal(t, "Viktor Handler", out.PlayerInfo.Name)
	assert.Equal(t, 1, out.Overview.TotalMatches)
	assert.Equal(t, report.FormExcellent, out.Overview.RecentForm)
}

func TestRankingsHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	p1 := addTestPlayer(t, server, "Viktor")

	created := postJSON(t, server, "/player/rankings", badminton.RankingSnapshot{
		PlayerID: p1, Date: "2024-03-01", WorldRanking: 2, Points: 98500,
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	// The history is append-only: a second snapshot for the same date fails.
	dup := postJSON(t, server, "/player/rankings", badminton.RankingSnapshot{
		PlayerID: p1, Date: "2024-03-01", WorldRanking: 3,
	})
	assert.Equal(t, http.StatusBadRequest, dup.Code)

	rr := get(server, fmt.Sprintf("/player/rankings?id=%d", p1))
	require.Equal(t, http.StatusOK, rr.Code)
	var history []badminton.RankingSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].WorldRanking)
}

func TestPlayersHandler_ListAndCreate(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	created := postJSON(t, server, "/players", badminton.Player{
		FirstName: "An", LastName: "Se-young", Nationality: "KOR",
		Gender: badminton.GenderFemale, DominantHand: badminton.HandRight,
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	invalid := postJSON(t, server, "/players", badminton.Player{
		FirstName: "No", LastName: "Gender", Nationality: "KOR",
	})
	assert.Equal(t, http.StatusBadRequest, invalid.Code)

	rr := get(server, "/players")
	require.Equal(t, http.StatusOK, rr.Code)
	var players []badminton.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Len(t, players, 1)
}
