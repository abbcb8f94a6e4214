package store_test

import (
	"testing"

	"github.com/mauv0809/shuttle-stats/internal/badminton"
	"github.com/mauv0809/shuttle-stats/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadToHead_SingleRowPerPair(t *testing.T) {
	s, db, teardown := setupTestDB(t)
	defer teardown()

	tid := addTournament(t, s)
	a := addPlayer(t, s, "Viktor", "Axelsen")
	b := addPlayer(t, s, "Kento", "Momota")

	// A and B play 3 matches; A wins 2.
	_, err := s.InsertMatchBundle(singlesBundle(tid, a, b, a, "2024-10-16"))
	require.NoError(t, err)
	_, err = s.InsertMatchBundle(singlesBundle(tid, b, a, b, "2024-10-17"))
	require.NoError(t, err)
	_, err = s.InsertMatchBundle(singlesBundle(tid, a, b, a, "2024-10-18"))
	require.NoError(t, err)

	var rowCount int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM head_to_head").Scan(&rowCount))
	assert.Equal(t, 1, rowCount)

	h, err := s.GetHeadToHead(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, h.MatchesPlayed)
	assert.Equal(t, h.MatchesPlayed, h.Player1Wins+h.Player2Wins)

	winsOf := func(h *badminton.HeadToHead, player int64) int {
		if h.Player1ID == player {
			return h.Player1Wins
		}
		return h.Player2Wins
	}
	assert.Equal(t, 2, winsOf(h, a))
	assert.Equal(t, 1, winsOf(h, b))
	assert.Equal(t, "2024-10-18", h.LastMatchDate)

	// Lookup is caller-order independent.
	reversed, err := s.GetHeadToHead(b, a)
	require.NoError(t, err)
	assert.Equal(t, h, reversed)
	assert.Equal(t, 2, winsOf(reversed, a))
}

// inProgressBundle is singlesBundle with the result fields stripped back to a
// live match: games recorded, no declared winner yet.
func inProgressBundle(tournamentID, p1, p2, leader int64, date string) *badminton.MatchBundle {
	bundle := singlesBundle(tournamentID, p1, p2, leader, date)
	bundle.Match.Status = badminton.MatchInProgress
	bundle.Match.WinnerID = nil
	bundle.Participants[0].IsWinner = false
	bundle.Participants[1].IsWinner = false
	bundle.Rallies = nil
	bundle.Statistics = nil
	return bundle
}

func TestCompleteMatch_TransitionUpdatesHeadToHead(t *testing.T) {
	s, _, teardown := setupTestDB(t)
	defer teardown()

	tid := addTournament(t, s)
	a := addPlayer(t, s, "Anders", "Antonsen")
	b := addPlayer(t, s, "Loh", "Kean Yew")

	matchID, err := s.InsertMatchBundle(inProgressBundle(tid, a, b, b, "2024-10-16"))
	require.NoError(t, err)

	// Nothing is folded in while the match is still in progress.
	_, err = s.GetHeadToHead(a, b)
	assert.ErrorIs(t, err, store.ErrNotFound)

	applied, err := s.CompleteMatch(matchID, b)
	require.NoError(t, err)
	assert.True(t, applied)

	m, err := s.GetMatch(matchID)
	require.NoError(t, err)
	assert.Equal(t, badminton.MatchCompleted, m.Status)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, b, *m.WinnerID)

	h, err := s.GetHeadToHead(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, h.MatchesPlayed)
}

func TestCompleteMatch_RedeliveryIsIdempotent(t *testing.T) {
	s, _, teardown := setupTestDB(t)
	defer teardown()

	tid := addTournament(t, s)
	a := addPlayer(t, s, "Anders", "Antonsen")
	b := addPlayer(t, s, "Loh", "Kean Yew")

	bundle := singlesBundle(tid, a, b, a, "2024-10-16")
	matchID, err := s.InsertMatchBundle(bundle)
	require.NoError(t, err)

	before, err := s.GetHeadToHead(a, b)
	require.NoError(t, err)

	// A retried completion event must not double-count; the bundle was
	// folded in at ingest, so neither delivery applies anything.
	applied, err := s.CompleteMatch(matchID, a)
	require.NoError(t, err)
	assert.False(t, applied)
	applied, err = s.CompleteMatch(matchID, a)
	require.NoError(t, err)
	assert.False(t, applied)

	after, err := s.GetHeadToHead(a, b)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCompleteMatch_RejectsChangedWinner(t *testing.T) {
	s, _, teardown := setupTestDB(t)
	defer teardown()

	tid := addTournament(t, s)
	a := addPlayer(t, s, "Anders", "Antonsen")
	b := addPlayer(t, s, "Loh", "Kean Yew")

	matchID, err := s.InsertMatchBundle(singlesBundle(tid, a, b, a, "2024-10-16"))
	require.NoError(t, err)

	_, err = s.CompleteMatch(matchID, b)
	assert.ErrorIs(t, err, store.ErrIntegrity)
}

func TestCompleteMatch_BackfillsMissingWinner(t *testing.T) {
	s, db, teardown := setupTestDB(t)
	defer teardown()

	tid := addTournament(t, s)
	a := addPlayer(t, s, "Anders", "Antonsen")
	b := addPlayer(t, s, "Loh", "Kean Yew")

	// A completed match can be ingested before its winner is recorded;
	// completion must then write the winner alongside the head-to-head
	// update, not leave the raw rows contradicting the pairwise record.
	bundle := singlesBundle(tid, a, b, b, "2024-10-16")
	bundle.Match.WinnerID = nil
	bundle.Participants[0].IsWinner = false
	bundle.Participants[1].IsWinner = false

	matchID, err := s.InsertMatchBundle(bundle)
	require.NoError(t, err)

	applied, err := s.CompleteMatch(matchID, b)
	require.NoError(t, err)
	assert.True(t, applied)

	m, err := s.GetMatch(matchID)
	require.NoError(t, err)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, b, *m.WinnerID)

	var winnerFlags int
	require.NoError(t, db.QueryRow("SELECT COALESCE(SUM(is_winner), 0) FROM match_participants WHERE match_id = ?", matchID).Scan(&winnerFlags))
	assert.Equal(t, 1, winnerFlags)

	h, err := s.GetHeadToHead(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, h.MatchesPlayed)
}

func TestCompleteMatch_RequiresBestOfMajority(t *testing.T) {
	s, _, teardown := setupTestDB(t)
	defer teardown()

	tid := addTournament(t, s)
	a := addPlayer(t, s, "Anders", "Antonsen")
	b := addPlayer(t, s, "Loh", "Kean Yew")

	// One recorded game is not a best-of-3 majority.
	bundle := inProgressBundle(tid, a, b, a, "2024-10-16")
	bundle.Games = bundle.Games[:1]
	matchID, err := s.InsertMatchBundle(bundle)
	require.NoError(t, err)

	_, err = s.CompleteMatch(matchID, a)
	assert.ErrorIs(t, err, store.ErrIntegrity)

	// No games at all is rejected the same way.
	empty := inProgressBundle(tid, a, b, a, "2024-10-17")
	empty.Games = nil
	matchID, err = s.InsertMatchBundle(empty)
	require.NoError(t, err)

	_, err = s.CompleteMatch(matchID, a)
	assert.ErrorIs(t, err, store.ErrIntegrity)

	// The majority must belong to the declared winner's team.
	matchID, err = s.InsertMatchBundle(inProgressBundle(tid, a, b, a, "2024-10-18"))
	require.NoError(t, err)

	_, err = s.CompleteMatch(matchID, b)
	assert.ErrorIs(t, err, store.ErrIntegrity)
}

func TestCompleteMatch_WinnerMustBeParticipant(t *testing.T) {
	s, _, teardown := setupTestDB(t)
	defer teardown()

	tid := addTournament(t, s)
	a := addPlayer(t, s, "Anders", "Antonsen")
	b := addPlayer(t, s, "Loh", "Kean Yew")
	c := addPlayer(t, s, "Lakshya", "Sen")

	matchID, err := s.InsertMatchBundle(inProgressBundle(tid, a, b, a, "2024-10-16"))
	require.NoError(t, err)

	_, err = s.CompleteMatch(matchID, c)
	assert.ErrorIs(t, err, store.ErrIntegrity)
}

func TestDoublesMatch_UpdatesEveryOpposingPair(t *testing.T) {
	s, db, teardown := setupTestDB(t)
	defer teardown()

	tid := addTournament(t, s)
	p1 := addPlayer(t, s, "Marcus", "Gideon")
	p2 := addPlayer(t, s, "Kevin", "Sukamuljo")
	p3 := addPlayer(t, s, "Mohammad", "Ahsan")
	p4 := addPlayer(t, s, "Hendra", "Setiawan")

	bundle := &badminton.MatchBundle{
		Match: badminton.Match{
			TournamentID: tid,
			Date:         "2024-10-17",
			Round:        badminton.RoundSemi,
			Discipline:   badminton.MensDoubles,
			BestOf:       3,
			WinnerID:     &p1,
			Status:       badminton.MatchCompleted,
		},
		Participants: []badminton.MatchParticipant{
			{PlayerID: p1, PartnerID: &p2, TeamPosition: 1, IsWinner: true},
			{PlayerID: p2, PartnerID: &p1, TeamPosition: 1, IsWinner: true},
			{PlayerID: p3, PartnerID: &p4, TeamPosition: 2, IsWinner: false},
			{PlayerID: p4, PartnerID: &p3, TeamPosition: 2, IsWinner: false},
		},
		Games: []badminton.Game{
			{GameNumber: 1, Team1Score: 21, Team2Score: 18, WinnerTeam: 1},
			{GameNumber: 2, Team1Score: 21, Team2Score: 12, WinnerTeam: 1},
		},
	}

	_, err := s.InsertMatchBundle(bundle)
	require.NoError(t, err)

	// Each player on side 1 paired against each player on side 2.
	var rowCount int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM head_to_head").Scan(&rowCount))
	assert.Equal(t, 4, rowCount)

	for _, pair := range [][2]int64{{p1, p3}, {p1, p4}, {p2, p3}, {p2, p4}} {
		h, err := s.GetHeadToHead(pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, 1, h.MatchesPlayed)
		assert.Equal(t, h.MatchesPlayed, h.Player1Wins+h.Player2Wins)
	}

	// Teammates have no record against each other.
	_, err = s.GetHeadToHead(p1, p2)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDoublesBundle_RejectsPartnerOnOpposingSide(t *testing.T) {
	s, _, teardown := setupTestDB(t)
	defer teardown()

	tid := addTournament(t, s)
	p1 := addPlayer(t, s, "Marcus", "Gideon")
	p2 := addPlayer(t, s, "Kevin", "Sukamuljo")
	p3 := addPlayer(t, s, "Mohammad", "Ahsan")
	p4 := addPlayer(t, s, "Hendra", "Setiawan")

	bundle := &badminton.MatchBundle{
		Match: badminton.Match{
			TournamentID: tid,
			Date:         "2024-10-17",
			Round:        badminton.RoundSemi,
			Discipline:   badminton.MensDoubles,
			BestOf:       3,
			Status:       badminton.MatchScheduled,
		},
		Participants: []badminton.MatchParticipant{
			{PlayerID: p1, PartnerID: &p3, TeamPosition: 1}, // partner on the wrong side
			{PlayerID: p2, PartnerID: &p1, TeamPosition: 1},
			{PlayerID: p3, PartnerID: &p4, TeamPosition: 2},
			{PlayerID: p4, PartnerID: &p3, TeamPosition: 2},
		},
	}

	_, err := s.InsertMatchBundle(bundle)
	assert.ErrorIs(t, err, store.ErrIntegrity)
}
