package report_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/shuttle-stats/internal/analyzer"
	"github.com/mauv0809/shuttle-stats/internal/database"
	"github.com/mauv0809/shuttle-stats/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*report.Composer, *sql.DB, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO tournaments (tournament_id, tournament_name, location, tournament_type,
		surface, start_date, end_date, status)
		VALUES (1, 'Report Open', 'Aarhus', 'BWF_SUPER_300', 'WOOD', '2024-01-01', '2024-12-31', 'IN_PROGRESS')`)
	require.NoError(t, err)

	return report.New(analyzer.New(db)), db, teardown
}

func insertPlayer(t *testing.T, db *sql.DB, id int64, name, birthDate string) {
	t.Helper()
	var birth any
	if birthDate != "" {
		birth = birthDate
	}
	_, err := db.Exec(`INSERT INTO players (player_id, first_name, last_name, nationality, birth_date, gender, dominant_hand)
		VALUES (?, ?, 'Report', 'DEN', ?, 'M', 'L')`, id, name, birth)
	require.NoError(t, err)
}

// insertMatchWithStats writes one completed singles match and the subject
// player's statistics row in a single call.
func insertMatchWithStats(t *testing.T, db *sql.DB, matchID, playerID, opponentID, winnerID int64,
	winners, unforced, aces, serves, smashes, clears, netWon, netPlayed, shortW, shortP, longW, longP int) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO matches (match_id, tournament_id, match_date, round, discipline, best_of, winner_id, status)
		VALUES (?, 1, '2024-06-01', 'QF', 'MS', 3, ?, 'COMPLETED')`, matchID, winnerID)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO match_participants (match_id, player_id, team_position, is_winner)
		VALUES (?, ?, 1, ?), (?, ?, 2, ?)`,
		matchID, playerID, playerID == winnerID, matchID, opponentID, opponentID == winnerID)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO match_statistics (match_id, player_id, winners, unforced_errors,
		service_aces, total_serves, smashes, clears, net_points_won, net_points_played,
		short_rallies_won, short_rallies_played, long_rallies_won, long_rallies_played,
		points_won, points_played)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		matchID, playerID, winners, unforced, aces, serves, smashes, clears,
		netWon, netPlayed, shortW, shortP, longW, longP, shortW+longW, shortP+longP)
	require.NoError(t, err)
}

func TestScoutingReport_StrengthsAtThresholds(t *testing.T) {
	c, db, teardown := setupTestDB(t)
	defer teardown()

	insertPlayer(t, db, 1, "Viktor", "1994-01-04")
	insertPlayer(t, db, 2, "Sparring", "")
	// Ratio 20/8 = 2.5, aces 10/100 = 10%, smashes 40/(40+60) = 40%,
	// net 12/20 = 60%, long rally win rate above short.
	insertMatchWithStats(t, db, 1, 1, 2, 1,
		20, 8, 10, 100, 40, 60, 12, 20, 5, 15, 9, 10)

	r, err := c.ScoutingReport(1)
	require.NoError(t, err)

	assert.Equal(t, "Viktor Report", r.PlayerInfo.Name)
	require.NotNil(t, r.PlayerInfo.Age)
	assert.Equal(t, 1, r.Overview.TotalMatches)
	assert.Equal(t, report.FormExcellent, r.Overview.RecentForm)

	assert.Contains(t, r.PlayingStyle.Strengths, "Excellent shot accuracy and low error rate")
	assert.Contains(t, r.PlayingStyle.Strengths, "Strong serving game")
	assert.Contains(t, r.PlayingStyle.Strengths, "Aggressive attacking style")
	assert.Contains(t, r.PlayingStyle.Strengths, "Dominant at the net")
	assert.Contains(t, r.PlayingStyle.Strengths, "Strong endurance and long rally performance")
	assert.Empty(t, r.PlayingStyle.Weaknesses)
	require.Len(t, r.TournamentPerformance, 1)
	assert.Equal(t, 1, r.TournamentPerformance[0].MatchesPlayed)
}

func TestScoutingReport_WeaknessesBelowThresholds(t *testing.T) {
	c, db, teardown := setupTestDB(t)
	defer teardown()

	insertPlayer(t, db, 1, "Struggling", "")
	insertPlayer(t, db, 2, "Sparring", "")
	// Ratio 4/10 = 0.4, aces 2/100 = 2%, short rallies stronger than long.
	insertMatchWithStats(t, db, 1, 1, 2, 2,
		4, 10, 2, 100, 5, 50, 3, 10, 12, 15, 2, 10)

	r, err := c.ScoutingReport(1)
	require.NoError(t, err)

	assert.Contains(t, r.PlayingStyle.Weaknesses, "High unforced error rate")
	assert.Contains(t, r.PlayingStyle.Weaknesses, "Weak serving game")
	assert.Contains(t, r.PlayingStyle.Strengths, "Quick point finishing ability")
	assert.NotContains(t, r.PlayingStyle.Strengths, "Aggressive attacking style")
	assert.Equal(t, report.FormPoor, r.Overview.RecentForm)
}

func TestScoutingReport_NoDataStaysSilent(t *testing.T) {
	c, db, teardown := setupTestDB(t)
	defer teardown()

	insertPlayer(t, db, 1, "Rookie", "")

	r, err := c.ScoutingReport(1)
	require.NoError(t, err)

	assert.Zero(t, r.Overview.TotalMatches)
	assert.Nil(t, r.Overview.WinPercentage)
	assert.Equal(t, report.FormNoData, r.Overview.RecentForm)
	assert.Empty(t, r.PlayingStyle.Strengths, "undefined ratios must not produce verdicts")
	assert.Empty(t, r.PlayingStyle.Weaknesses)
	assert.Empty(t, r.RecentMatches)
}

func TestScoutingReport_UnknownPlayer(t *testing.T) {
	c, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := c.ScoutingReport(404)
	assert.ErrorIs(t, err, analyzer.ErrNotFound)
}

func TestRecentForm_Buckets(t *testing.T) {
	c, db, teardown := setupTestDB(t)
	defer teardown()

	insertPlayer(t, db, 1, "Mixed", "")
	insertPlayer(t, db, 2, "Sparring", "")
	// 3 wins out of 5: 60% lands on the Good boundary.
	results := []int64{1, 1, 1, 2, 2}
	for i, winner := range results {
		matchID := int64(i + 1)
		_, err := db.Exec(`INSERT INTO matches (match_id, tournament_id, match_date, round, discipline, best_of, winner_id, status)
			VALUES (?, 1, ?, 'R32', 'MS', 3, ?, 'COMPLETED')`,
			matchID, time.Date(2024, 6, i+1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), winner)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO match_participants (match_id, player_id, team_position, is_winner)
			VALUES (?, 1, 1, ?), (?, 2, 2, ?)`, matchID, winner == 1, matchID, winner == 2)
		require.NoError(t, err)
	}

	r, err := c.ScoutingReport(1)
	require.NoError(t, err)
	assert.Equal(t, report.FormGood, r.Overview.RecentForm)
	assert.Len(t, r.RecentMatches, 5)
}
