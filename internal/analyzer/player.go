package analyzer

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mauv0809/shuttle-stats/internal/badminton"
)

// PlayerProfile returns the registration record plus career rollups.
func (a *Analyzer) PlayerProfile(playerID int64) (*PlayerProfile, error) {
	var p badminton.Player
	var birthDate sql.NullString
	var height, weight, ranking sql.NullInt64
	err := a.db.QueryRow(`
		SELECT player_id, first_name, last_name, nationality, birth_date, gender,
			height_cm, weight_kg, dominant_hand, world_ranking, created, updated
		FROM players WHERE player_id = ?`, playerID).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Nationality, &birthDate, &p.Gender,
		&height, &weight, &p.DominantHand, &ranking, &p.Created, &p.Updated)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p.BirthDate = birthDate.String
	p.HeightCM = intValue(height)
	p.WeightKG = intValue(weight)
	p.WorldRanking = intValue(ranking)

	profile := &PlayerProfile{Player: p}
	var lastDate sql.NullString
	var avgDuration sql.NullFloat64
	err = a.db.QueryRow(`
		SELECT COUNT(DISTINCT m.match_id),
			COALESCE(SUM(mp.is_winner), 0),
			AVG(m.duration_minutes),
			MAX(m.match_date),
			COUNT(DISTINCT m.tournament_id)
		FROM match_participants mp
		JOIN matches m ON mp.match_id = m.match_id AND m.status = 'COMPLETED'
		WHERE mp.player_id = ?`, playerID).Scan(
		&profile.TotalMatches, &profile.MatchesWon, &avgDuration, &lastDate, &profile.TournamentsPlayed)
	if err != nil {
		return nil, err
	}
	profile.WinPercentage = pct(profile.MatchesWon, profile.TotalMatches)
	if avgDuration.Valid {
		v := round2(avgDuration.Float64)
		profile.AvgMatchDuration = &v
	}
	profile.LastMatchDate = lastDate.String
	return profile, nil
}

// StatisticsSummary aggregates a player's counters over completed matches,
// optionally restricted by filter. Every ratio is nil when its denominator
// is zero.
func (a *Analyzer) StatisticsSummary(playerID int64, f Filter) (*StatisticsSummary, error) {
	agg, err := a.aggregate(playerID, f)
	if err != nil {
		return nil, err
	}
	return summaryFromAggregate(agg), nil
}

func summaryFromAggregate(agg *playerAggregate) *StatisticsSummary {
	return &StatisticsSummary{
		TotalMatches:        agg.matches,
		MatchesWon:          agg.wins,
		WinPercentage:       pct(agg.wins, agg.matches),
		PointsWonPercentage: pct(agg.pointsWon, agg.pointsPlayed),
		AcePercentage:       pct(agg.aces, agg.serves),
		FaultPercentage:     pct(agg.faults, agg.serves),
		AvgWinners:          ratio(agg.winners, agg.matches),
		AvgUnforcedErrors:   ratio(agg.unforced, agg.matches),
		WinnerToErrorRatio:  ratio(agg.winners, agg.unforced),
		NetPointsPercentage: pct(agg.netWon, agg.netPlayed),
		TotalSmashes:        agg.smashes,
		TotalClears:         agg.clears,
		TotalDrops:          agg.drops,
		TotalNetShots:       agg.netShots,
	}
}

// ShotDistribution returns the share of each shot type over all shots the
// player hit in the filtered match set.
func (a *Analyzer) ShotDistribution(playerID int64, f Filter) (*ShotDistribution, error) {
	agg, err := a.aggregate(playerID, f)
	if err != nil {
		return nil, err
	}
	return shotsFromAggregate(agg), nil
}

func shotsFromAggregate(agg *playerAggregate) *ShotDistribution {
	total := agg.smashes + agg.clears + agg.drops + agg.drives + agg.netShots + agg.lobs + agg.kills
	return &ShotDistribution{
		TotalMatches:       agg.matches,
		TotalShots:         total,
		SmashPercentage:    pct(agg.smashes, total),
		ClearPercentage:    pct(agg.clears, total),
		DropPercentage:     pct(agg.drops, total),
		DrivePercentage:    pct(agg.drives, total),
		NetShotPercentage:  pct(agg.netShots, total),
		LobPercentage:      pct(agg.lobs, total),
		KillPercentage:     pct(agg.kills, total),
		TotalWinners:       agg.winners,
		TotalUnforced:      agg.unforced,
		WinnerToErrorRatio: ratio(agg.winners, agg.unforced),
	}
}

// RallyLengthAnalysis breaks the player's record down by rally length. The
// preferred bucket is the one with the most rallies won; ties go to the
// shorter bucket.
func (a *Analyzer) RallyLengthAnalysis(playerID int64, f Filter) (*RallyLengthAnalysis, error) {
	agg, err := a.aggregate(playerID, f)
	if err != nil {
		return nil, err
	}
	return ralliesFromAggregate(agg), nil
}

func ralliesFromAggregate(agg *playerAggregate) *RallyLengthAnalysis {
	r := &RallyLengthAnalysis{
		TotalMatches: agg.matches,
		Short:        RallyBucket{Played: agg.shortPlayed, Won: agg.shortWon, WinRate: pct(agg.shortWon, agg.shortPlayed)},
		Medium:       RallyBucket{Played: agg.mediumPlayed, Won: agg.mediumWon, WinRate: pct(agg.mediumWon, agg.mediumPlayed)},
		Long:         RallyBucket{Played: agg.longPlayed, Won: agg.longWon, WinRate: pct(agg.longWon, agg.longPlayed)},
	}
	if agg.shortPlayed+agg.mediumPlayed+agg.longPlayed > 0 {
		r.PreferredLength = "short"
		best := agg.shortWon
		if agg.mediumWon > best {
			r.PreferredLength, best = "medium", agg.mediumWon
		}
		if agg.longWon > best {
			r.PreferredLength = "long"
		}
	}
	return r
}

// RecentMatches lists the player's most recent completed matches, newest
// first. For doubles the opposing players are joined into one label.
func (a *Analyzer) RecentMatches(playerID int64, limit int) ([]RecentMatch, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := a.db.Query(`
		SELECT m.match_id, m.match_date, t.tournament_name, m.round, m.discipline,
			GROUP_CONCAT(p_opp.first_name || ' ' || p_opp.last_name, ' / '),
			mp.is_winner,
			COALESCE(ms.points_won, 0), COALESCE(ms.points_played, 0),
			COALESCE(ms.winners, 0), COALESCE(ms.unforced_errors, 0)
		FROM matches m
		JOIN match_participants mp ON m.match_id = mp.match_id AND mp.player_id = ?
		JOIN match_participants mp_opp ON m.match_id = mp_opp.match_id
			AND mp_opp.team_position != mp.team_position
		JOIN players p_opp ON mp_opp.player_id = p_opp.player_id
		JOIN tournaments t ON m.tournament_id = t.tournament_id
		LEFT JOIN match_statistics ms ON m.match_id = ms.match_id AND ms.player_id = ?
		WHERE m.status = 'COMPLETED'
		GROUP BY m.match_id
		ORDER BY m.match_date DESC, m.match_time DESC
		LIMIT ?`, playerID, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []RecentMatch
	for rows.Next() {
		var rm RecentMatch
		if err := rows.Scan(&rm.MatchID, &rm.Date, &rm.TournamentName, &rm.Round, &rm.Discipline,
			&rm.Opponents, &rm.IsWinner, &rm.PointsWon, &rm.PointsPlayed,
			&rm.Winners, &rm.UnforcedErrors); err != nil {
			return nil, err
		}
		matches = append(matches, rm)
	}
	return matches, rows.Err()
}

// PerformanceByTier breaks a player's record down by tournament tier,
// busiest tier first.
func (a *Analyzer) PerformanceByTier(playerID int64) ([]TierPerformance, error) {
	rows, err := a.db.Query(`
		SELECT t.tournament_type,
			COUNT(DISTINCT m.match_id),
			COALESCE(SUM(mp.is_winner), 0),
			COALESCE(SUM(ms.points_won), 0),
			COALESCE(SUM(ms.points_played), 0)
		FROM matches m
		JOIN tournaments t ON m.tournament_id = t.tournament_id
		JOIN match_participants mp ON m.match_id = mp.match_id AND mp.player_id = ?
		LEFT JOIN match_statistics ms ON m.match_id = ms.match_id AND ms.player_id = ?
		WHERE m.status = 'COMPLETED'
		GROUP BY t.tournament_type
		ORDER BY COUNT(DISTINCT m.match_id) DESC, t.tournament_type`, playerID, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []TierPerformance
	for rows.Next() {
		var tp TierPerformance
		var pointsWon, pointsPlayed int
		if err := rows.Scan(&tp.Tier, &tp.MatchesPlayed, &tp.MatchesWon, &pointsWon, &pointsPlayed); err != nil {
			return nil, err
		}
		tp.WinPercentage = pct(tp.MatchesWon, tp.MatchesPlayed)
		tp.PointsWonPercentage = pct(pointsWon, pointsPlayed)
		tiers = append(tiers, tp)
	}
	return tiers, rows.Err()
}

// PerformanceTrends aggregates the same metric set over the trailing window
// of the given day count, inclusive on both ends.
func (a *Analyzer) PerformanceTrends(playerID int64, days int) (*TrendSummary, error) {
	if days <= 0 {
		days = 90
	}
	now := time.Now()
	from := now.AddDate(0, 0, -days).Format(badminton.DateFormat)
	to := now.Format(badminton.DateFormat)

	agg, err := a.aggregate(playerID, Filter{FromDate: from, ToDate: to})
	if err != nil {
		return nil, err
	}
	return &TrendSummary{
		Days:                days,
		FromDate:            from,
		ToDate:              to,
		MatchesPlayed:       agg.matches,
		MatchesWon:          agg.wins,
		WinPercentage:       pct(agg.wins, agg.matches),
		PointsWonPercentage: pct(agg.pointsWon, agg.pointsPlayed),
		WinnerToErrorRatio:  ratio(agg.winners, agg.unforced),
		AcePercentage:       pct(agg.aces, agg.serves),
	}, nil
}
